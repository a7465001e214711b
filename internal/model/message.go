package model

// MessageKind distinguishes the inbound payload shapes the bot handles.
type MessageKind string

const (
	KindText     MessageKind = "text"
	KindDocument MessageKind = "document"
)

// Attachment describes a document that has already been pulled down from the
// transport and staged on local disk.
type Attachment struct {
	Filename  string
	LocalPath string
	MimeType  string
}

// InboundMessage is the transport-independent view of one incoming message.
// The webhook layer builds it; the dispatch pipeline consumes it.
type InboundMessage struct {
	SenderID   string
	SenderName string
	Kind       MessageKind
	Text       string
	Attachment *Attachment
}

// HasAttachment reports whether a document is staged for upload.
func (m InboundMessage) HasAttachment() bool {
	return m.Attachment != nil && m.Attachment.LocalPath != ""
}
