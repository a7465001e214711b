package event

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

func TestParseDetailsFullReply(t *testing.T) {
	details := parseDetails("Title: Dentist appointment\n" +
		"Date: 2025-03-10\n" +
		"Time: 03:00 PM\n" +
		"Location: Smile Clinic\n" +
		"Notes: Bring insurance card")

	assert.Equal(t, "Dentist appointment", details.Title)
	assert.Equal(t, "2025-03-10", details.Date)
	assert.Equal(t, "03:00 PM", details.Time)
	assert.Equal(t, "Smile Clinic", details.Location)
	assert.Equal(t, "Bring insurance card", details.Notes)
	assert.True(t, details.Schedulable())
}

func TestParseDetailsMissingLocationLine(t *testing.T) {
	details := parseDetails("Title: Standup\n" +
		"Date: 2025-03-10\n" +
		"Time: 09:00 AM\n" +
		"Notes: Daily sync")

	// A missing line yields that field's sentinel; the rest is unaffected.
	assert.Equal(t, Sentinel, details.Location)
	assert.Equal(t, "Standup", details.Title)
	assert.Equal(t, "2025-03-10", details.Date)
	assert.Equal(t, "09:00 AM", details.Time)
}

func TestParseDetailsDateSentinelMeansUnschedulable(t *testing.T) {
	details := parseDetails("Title: Vague plan\n" +
		"Date: Not provided\n" +
		"Time: Not provided\n" +
		"Location: Not provided\n" +
		"Notes: Not provided")

	assert.Empty(t, details.Date)
	assert.False(t, details.Schedulable())
	assert.Equal(t, AllDay, details.Time)
}

func TestParseDetailsMalformedReply(t *testing.T) {
	details := parseDetails("I could not find any event in that message.")

	assert.Equal(t, Sentinel, details.Title)
	assert.Empty(t, details.Date)
	assert.Equal(t, AllDay, details.Time)
	assert.Equal(t, Sentinel, details.Location)
	assert.Equal(t, Sentinel, details.Notes)
}

func TestParseDetailsMalformedDateIgnored(t *testing.T) {
	details := parseDetails("Title: Party\nDate: next Friday\nTime: All Day")

	// The date pattern only accepts ISO dates or the sentinel.
	assert.Empty(t, details.Date)
	assert.Equal(t, AllDay, details.Time)
}

func TestExtractCapabilityFailure(t *testing.T) {
	extractor := NewExtractor(&fakeCompleter{err: errors.New("model down")}, 0.7)

	_, err := extractor.Extract(context.Background(), "remind me tomorrow")
	assert.ErrorIs(t, err, ErrExtraction)
}

func TestExtractParsesModelReply(t *testing.T) {
	extractor := NewExtractor(&fakeCompleter{
		reply: "Title: Standup\nDate: 2025-03-10\nTime: 09:00 AM\nLocation: Not provided\nNotes: Not provided",
	}, 0.7)

	details, err := extractor.Extract(context.Background(), "standup monday 9am")
	require.NoError(t, err)
	assert.Equal(t, "Standup", details.Title)
	assert.Equal(t, "2025-03-10", details.Date)
}
