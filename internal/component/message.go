// Package component provides the JSON processors of a message pipeline.
package component

import (
	"github.com/mcncl/jsonconv/internal/rows"
)

// Mime types of message payloads.
const (
	MimeTypeJSON   = "application/json"
	MimeTypeObject = "application/x-go-object"
	MimeTypeStream = "application/x-row-stream"
	MimeTypeNone   = ""
)

// Message carries a payload between processors. Messages are immutable.
type Message struct {
	payload  any
	mimeType string
}

// Empty returns a message without payload.
func Empty() *Message {
	return &Message{mimeType: MimeTypeNone}
}

// WithJSON returns a message carrying JSON text.
func WithJSON(text string) *Message {
	return &Message{payload: text, mimeType: MimeTypeJSON}
}

// WithObject returns a message carrying a Go value.
func WithObject(v any) *Message {
	if v == nil {
		return Empty()
	}
	return &Message{payload: v, mimeType: MimeTypeObject}
}

// WithStream returns a message carrying a row stream.
func WithStream(src rows.Source) *Message {
	if src == nil {
		return Empty()
	}
	return &Message{payload: src, mimeType: MimeTypeStream}
}

// Payload returns the message payload, nil for an empty message.
func (m *Message) Payload() any {
	if m == nil {
		return nil
	}
	return m.payload
}

// IsEmpty reports whether the message has no payload.
func (m *Message) IsEmpty() bool {
	return m.Payload() == nil
}

// MimeType returns the mime type of the payload.
func (m *Message) MimeType() string {
	if m == nil {
		return MimeTypeNone
	}
	return m.mimeType
}
