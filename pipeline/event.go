// Package pipeline defines the boundary types the host message
// pipeline hands to the polish hooks: the in-flight event and the
// mutable result holding the outgoing message chain.
package pipeline

import (
	"github.com/google/uuid"

	"github.com/cyilin36/chat-polisher/chain"
)

// Result is the mutable outcome of one reply flow. The hooks may swap
// its chain in place right before delivery.
type Result struct {
	Chain chain.Chain
}

// Event is one in-flight message flow. Origin is the unified
// conversation origin (channel + chat identity); MessageID identifies
// the triggering message within that conversation.
type Event struct {
	origin     string
	messageID  string
	fallbackID string
	result     *Result
}

func NewEvent(origin, messageID string) *Event {
	return &Event{
		origin:     origin,
		messageID:  messageID,
		fallbackID: uuid.NewString(),
	}
}

func (e *Event) Origin() string    { return e.origin }
func (e *Event) MessageID() string { return e.messageID }

// Result returns the outgoing result, or nil when none was produced.
func (e *Event) Result() *Result { return e.result }

// SetResult attaches the outgoing result.
func (e *Event) SetResult(r *Result) { e.result = r }

// MarkerKey derives the stable marker identity for this event. When
// both origin and message id are empty it falls back to an id unique
// to this event instance; that key never collides across events, but
// it also cannot deduplicate retries of the same message.
func (e *Event) MarkerKey() string {
	if e.origin == "" && e.messageID == "" {
		return "event::" + e.fallbackID
	}
	return e.origin + "::" + e.messageID
}
