package event

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/cloudwego/eino/schema"

	"donna/internal/llm"
	"donna/internal/logger"
)

// Sentinel stands in for any field the model could not supply.
const Sentinel = "Not provided"

// AllDay is the Time value when no explicit time was present.
const AllDay = "All Day"

// ErrExtraction signals that the generative capability itself failed. A
// missing field is not an error; it resolves to a sentinel instead.
var ErrExtraction = errors.New("event detail extraction unavailable")

// Details is one schedulable event parsed out of a message. An empty Date
// means the record is unschedulable.
type Details struct {
	Title    string
	Date     string
	Time     string
	Location string
	Notes    string
}

// Schedulable reports whether a date was extracted.
func (d Details) Schedulable() bool {
	return d.Date != ""
}

const extractorSystemPrompt = "You are an AI assistant that extracts event and reminder details from messages. " +
	"Your task is to identify the following details if provided: " +
	"Title, Date (in YYYY-MM-DD), Time (in HH:MM AM/PM or indicate 'All Day' if not provided), " +
	"Location, and Additional Notes. " +
	"If any detail is missing, indicate 'Not provided'."

const extractorPrompt = "Extract the following details from the message below:\n" +
	"Title: <event title>\n" +
	"Date: <YYYY-MM-DD> or 'Not provided'\n" +
	"Time: <HH:MM AM/PM> or 'All Day' or 'Not provided'\n" +
	"Location: <location> or 'Not provided'\n" +
	"Notes: <additional notes> or 'Not provided'\n\n" +
	"Message: %s"

// One independent pattern per field. A line the model omitted or mangled
// fails only its own match; the remaining fields still parse.
var (
	titleRe    = regexp.MustCompile(`Title:\s*(.+)`)
	dateRe     = regexp.MustCompile(`Date:\s*(\d{4}-\d{2}-\d{2}|Not provided)`)
	timeRe     = regexp.MustCompile(`Time:\s*([\d:]+\s*[APMapm]+|All Day|Not provided)`)
	locationRe = regexp.MustCompile(`Location:\s*(.+)`)
	notesRe    = regexp.MustCompile(`Notes:\s*(.+)`)
)

// Extractor turns free-form messages into Details via a constrained
// five-line model reply.
type Extractor struct {
	llm         llm.Completer
	temperature float32
}

func NewExtractor(completer llm.Completer, temperature float32) *Extractor {
	return &Extractor{llm: completer, temperature: temperature}
}

// Extract asks the model for the structured reply and parses it field by
// field. It never fabricates a field: the model call failing is the only
// error path.
func (e *Extractor) Extract(ctx context.Context, message string) (Details, error) {
	messages := []*schema.Message{
		schema.SystemMessage(extractorSystemPrompt),
		schema.UserMessage(fmt.Sprintf(extractorPrompt, message)),
	}

	out, err := e.llm.Complete(ctx, messages, e.temperature)
	if err != nil {
		logger.Error().Err(err).Msg("error extracting event details")
		return Details{}, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	logger.Debug().Str("extracted", out).Msg("model reply for event extraction")
	return parseDetails(out), nil
}

// parseDetails is total over malformed model output.
func parseDetails(text string) Details {
	details := Details{
		Title:    Sentinel,
		Time:     AllDay,
		Location: Sentinel,
		Notes:    Sentinel,
	}

	if m := titleRe.FindStringSubmatch(text); m != nil {
		details.Title = strings.TrimSpace(m[1])
	}
	if m := dateRe.FindStringSubmatch(text); m != nil {
		if value := strings.TrimSpace(m[1]); value != Sentinel {
			details.Date = value
		}
	}
	if m := timeRe.FindStringSubmatch(text); m != nil {
		if value := strings.TrimSpace(m[1]); value != Sentinel {
			details.Time = value
		}
	}
	if m := locationRe.FindStringSubmatch(text); m != nil {
		details.Location = strings.TrimSpace(m[1])
	}
	if m := notesRe.FindStringSubmatch(text); m != nil {
		details.Notes = strings.TrimSpace(m[1])
	}

	return details
}
