package intent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"donna/internal/llm"
	"donna/internal/logger"
)

// Label is a classified message intent from the closed set below.
type Label string

const (
	LabelMeet         Label = "meet"
	LabelCalendar     Label = "calendar"
	LabelUpload       Label = "upload"
	LabelFeedback     Label = "feedback"
	LabelChat         Label = "chat"
	LabelUnrecognized Label = "unrecognized"
)

// ErrClassification signals that the generative capability was unavailable
// while detecting intent. The caller must answer with a fixed failure text,
// never a guessed intent.
var ErrClassification = errors.New("intent classification unavailable")

const intentPrompt = "Determine whether the following message is requesting a Google Meet link, " +
	"scheduling a Google Calendar event or reminder, uploading a file to Google Drive, " +
	"giving feedback about this assistant, or just chatting. " +
	"Respond with only one lowercase word: 'meet', 'calendar', 'upload', 'feedback' or 'chat'.\n\n" +
	"Message: %s"

// Classifier maps raw message text onto the closed label set.
type Classifier struct {
	llm llm.Completer
}

func NewClassifier(completer llm.Completer) *Classifier {
	return &Classifier{llm: completer}
}

// Classify asks the model for exactly one label and normalizes the reply.
// Anything outside the closed set maps to LabelUnrecognized.
func (c *Classifier) Classify(ctx context.Context, message string) (Label, error) {
	messages := []*schema.Message{
		schema.UserMessage(fmt.Sprintf(intentPrompt, message)),
	}

	out, err := c.llm.Complete(ctx, messages, 0)
	if err != nil {
		logger.Error().Err(err).Msg("error determining intent")
		return LabelUnrecognized, fmt.Errorf("%w: %v", ErrClassification, err)
	}

	label := normalize(out)
	logger.Info().Str("intent", string(label)).Str("raw", out).Msg("detected intent")
	return label, nil
}

func normalize(raw string) Label {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	cleaned = strings.Trim(cleaned, "'\".` ")

	switch Label(cleaned) {
	case LabelMeet, LabelCalendar, LabelUpload, LabelFeedback, LabelChat:
		return Label(cleaned)
	default:
		return LabelUnrecognized
	}
}
