package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	reply string
	err   error
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []*schema.Message, temperature float32) (string, error) {
	return f.reply, f.err
}

func TestClassifyNormalizesLabels(t *testing.T) {
	cases := map[string]Label{
		"meet":       LabelMeet,
		" Calendar ": LabelCalendar,
		"UPLOAD":     LabelUpload,
		"'feedback'": LabelFeedback,
		"chat.":      LabelChat,
		"\"chat\"":   LabelChat,
	}

	for reply, want := range cases {
		classifier := NewClassifier(&fakeCompleter{reply: reply})
		got, err := classifier.Classify(context.Background(), "hello")
		require.NoError(t, err)
		assert.Equal(t, want, got, "reply %q", reply)
	}
}

func TestClassifyUnknownLabel(t *testing.T) {
	classifier := NewClassifier(&fakeCompleter{reply: "banana"})

	label, err := classifier.Classify(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, LabelUnrecognized, label)
}

func TestClassifyEmptyReply(t *testing.T) {
	classifier := NewClassifier(&fakeCompleter{reply: ""})

	label, err := classifier.Classify(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, LabelUnrecognized, label)
}

func TestClassifyCapabilityFailure(t *testing.T) {
	classifier := NewClassifier(&fakeCompleter{err: errors.New("model down")})

	_, err := classifier.Classify(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrClassification)
}
