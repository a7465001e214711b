package dispatch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"donna/internal/event"
	"donna/internal/intent"
	"donna/internal/logger"
	"donna/internal/model"
)

// Collaborator contracts, defined here so the pipeline can be exercised with
// fakes and the parsing/provider strategies can be swapped without touching
// the routing.
type (
	// IntentClassifier maps message text onto the closed label set.
	IntentClassifier interface {
		Classify(ctx context.Context, message string) (intent.Label, error)
	}

	// DetailExtractor produces a typed event record from message text.
	DetailExtractor interface {
		Extract(ctx context.Context, message string) (event.Details, error)
	}

	// FolderClassifier picks a destination folder id, "" meaning no target.
	FolderClassifier interface {
		Classify(ctx context.Context, fileName string) string
	}

	// LinkIssuer hands out one meeting link per call. Total by contract.
	LinkIssuer interface {
		Issue(ctx context.Context) string
	}

	// Scheduler creates the calendar event and returns its link.
	Scheduler interface {
		ScheduleEvent(ctx context.Context, details event.Details) (string, error)
	}

	// Uploader stores the staged file and returns a confirmation message.
	Uploader interface {
		Upload(ctx context.Context, localPath, mimeType, folderID string) (string, error)
	}

	// ChatResponder runs one conversational exchange. Total by contract.
	ChatResponder interface {
		Reply(ctx context.Context, userID, text string) string
	}
)

// Fixed user-facing responses. Internal error detail goes to the log only.
const (
	respNoFile         = "No file available for upload. Please attach a file."
	respUploadFailed   = "Error uploading the file to Google Drive. Please try again."
	respNoDate         = "Could not extract valid event details. Please provide a clear date for the reminder."
	respScheduleFailed = "Failed to schedule the event in Google Calendar. Please try again."
	respFeedback       = "Thank you for the feedback! It has been noted. 🙏"
	respUnrecognized   = "Sorry, I did not understand your request. Please try again with a valid instruction."
	respNoIntent       = "Could not determine the intent of your message."
)

// Pipeline routes each inbound message through intent classification to one
// handler. Its contract is total: it always returns a user-facing string and
// never propagates a fault to the transport layer.
type Pipeline struct {
	intents   IntentClassifier
	extractor DetailExtractor
	folders   FolderClassifier
	pool      LinkIssuer
	scheduler Scheduler
	uploader  Uploader
	chat      ChatResponder
}

func NewPipeline(
	intents IntentClassifier,
	extractor DetailExtractor,
	folders FolderClassifier,
	pool LinkIssuer,
	scheduler Scheduler,
	uploader Uploader,
	chat ChatResponder,
) *Pipeline {
	return &Pipeline{
		intents:   intents,
		extractor: extractor,
		folders:   folders,
		pool:      pool,
		scheduler: scheduler,
		uploader:  uploader,
		chat:      chat,
	}
}

// Respond classifies the message and dispatches to the matching handler.
func (p *Pipeline) Respond(ctx context.Context, msg model.InboundMessage) string {
	label, err := p.intents.Classify(ctx, msg.Text)
	if err != nil {
		return respNoIntent
	}

	switch label {
	case intent.LabelUpload:
		return p.handleUpload(ctx, msg)
	case intent.LabelMeet:
		return p.handleMeet(ctx)
	case intent.LabelCalendar:
		return p.handleCalendar(ctx, msg.Text)
	case intent.LabelFeedback:
		return respFeedback
	case intent.LabelChat:
		return p.chat.Reply(ctx, msg.SenderID, msg.Text)
	default:
		logger.Warn().Str("intent", string(label)).Msg("unrecognized intent")
		return respUnrecognized
	}
}

func (p *Pipeline) handleUpload(ctx context.Context, msg model.InboundMessage) string {
	if !msg.HasAttachment() {
		return respNoFile
	}

	attachment := msg.Attachment
	mimeType := attachment.MimeType
	if mimeType == "" {
		mimeType = guessMimeType(attachment.LocalPath)
	}

	// Folder classification is best-effort; "" lands in the shared folder.
	folderID := p.folders.Classify(ctx, attachment.Filename)

	response, err := p.uploader.Upload(ctx, attachment.LocalPath, mimeType, folderID)
	if err != nil {
		logger.Error().Err(err).Str("file", attachment.Filename).Msg("file upload failed")
		return respUploadFailed
	}
	return response
}

func (p *Pipeline) handleMeet(ctx context.Context) string {
	return "🔗 **Google Meet Link:** " + p.pool.Issue(ctx)
}

func (p *Pipeline) handleCalendar(ctx context.Context, text string) string {
	details, err := p.extractor.Extract(ctx, text)
	if err != nil || !details.Schedulable() {
		return respNoDate
	}

	link, err := p.scheduler.ScheduleEvent(ctx, details)
	if err != nil {
		logger.Error().Err(err).Msg("calendar scheduling failed")
		return respScheduleFailed
	}

	return fmt.Sprintf(
		"📅 **Reminder Scheduled**\n\n"+
			"**Title:** %s\n"+
			"**Date:** %s\n"+
			"**Time:** %s\n"+
			"**Location:** %s\n"+
			"**Notes:** %s\n"+
			"🔗 [View in Google Calendar](%s)",
		details.Title, details.Date, details.Time, details.Location, details.Notes, link,
	)
}

func guessMimeType(path string) string {
	if strings.ToLower(filepath.Ext(path)) == ".txt" {
		return "text/plain"
	}
	return "application/octet-stream"
}
