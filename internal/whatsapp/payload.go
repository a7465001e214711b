package whatsapp

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Graph API webhook envelope, trimmed to the fields the bot consumes.

type Payload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

type Value struct {
	MessagingProduct string    `json:"messaging_product"`
	Contacts         []Contact `json:"contacts"`
	Messages         []Message `json:"messages"`
}

type Contact struct {
	WaID    string  `json:"wa_id"`
	Profile Profile `json:"profile"`
}

type Profile struct {
	Name string `json:"name"`
}

type Message struct {
	From     string    `json:"from"`
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Text     *Text     `json:"text,omitempty"`
	Document *Document `json:"document,omitempty"`
}

type Text struct {
	Body string `json:"body"`
}

type Document struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Caption  string `json:"caption,omitempty"`
	MediaURL string `json:"media_url,omitempty"`
}

// ParsePayload decodes the raw webhook body.
func ParsePayload(body []byte) (*Payload, error) {
	var payload Payload
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("invalid webhook payload: %w", err)
	}
	return &payload, nil
}

// IsValidMessage checks that the event carries an actual inbound message.
// Status-only events (delivery receipts etc.) fail this check.
func (p *Payload) IsValidMessage() bool {
	return p.Object != "" &&
		len(p.Entry) > 0 &&
		len(p.Entry[0].Changes) > 0 &&
		len(p.Entry[0].Changes[0].Value.Messages) > 0
}

// MessageContext extracts the sender id, display name and message from a
// validated payload.
func (p *Payload) MessageContext() (waID, name string, msg *Message, err error) {
	if !p.IsValidMessage() {
		return "", "", nil, fmt.Errorf("payload carries no message")
	}

	value := p.Entry[0].Changes[0].Value
	msg = &value.Messages[0]

	if len(value.Contacts) > 0 {
		waID = value.Contacts[0].WaID
		name = value.Contacts[0].Profile.Name
	}
	if waID == "" {
		waID = msg.From
	}
	if waID == "" {
		return "", "", nil, fmt.Errorf("payload carries no sender id")
	}

	return waID, name, msg, nil
}
