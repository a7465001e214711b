package folder

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
)

type fakeCompleter struct {
	reply string
	err   error
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []*schema.Message, temperature float32) (string, error) {
	return f.reply, f.err
}

var taxonomy = map[string]string{
	"college_daa":   "folder-daa",
	"college_misc":  "folder-college-misc",
	"personal_docs": "folder-personal",
}

func TestClassifyKnownLabel(t *testing.T) {
	classifier := NewClassifier(&fakeCompleter{reply: "college_daa"}, taxonomy)

	assert.Equal(t, "folder-daa", classifier.Classify(context.Background(), "daa_assignment_3.pdf"))
}

func TestClassifyNormalizesReply(t *testing.T) {
	classifier := NewClassifier(&fakeCompleter{reply: " 'Personal_Docs' \n"}, taxonomy)

	assert.Equal(t, "folder-personal", classifier.Classify(context.Background(), "passport_scan.pdf"))
}

func TestClassifyUnknownLabelMeansNoTarget(t *testing.T) {
	classifier := NewClassifier(&fakeCompleter{reply: "none"}, taxonomy)

	assert.Empty(t, classifier.Classify(context.Background(), "random.bin"))
}

func TestClassifyCapabilityFailureMeansNoTarget(t *testing.T) {
	classifier := NewClassifier(&fakeCompleter{err: errors.New("model down")}, taxonomy)

	assert.Empty(t, classifier.Classify(context.Background(), "notes.txt"))
}

func TestClassifyEmptyTaxonomy(t *testing.T) {
	completer := &fakeCompleter{reply: "college_daa"}
	classifier := NewClassifier(completer, nil)

	assert.Empty(t, classifier.Classify(context.Background(), "notes.txt"))
}
