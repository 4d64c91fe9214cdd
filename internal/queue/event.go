// Package queue defines message payloads exchanged over the message broker
// and the consumer that turns them into an audit trail.
package queue

import "time"

// QueueName is the durable queue that carries every NoteEvent.
const QueueName = "notes.events"

// Event types published by the handlers.
const (
    EventNoteCreated    = "note.created"
    EventNoteUpdated    = "note.updated"
    EventNoteDeleted    = "note.deleted"
    EventTenantUpgraded = "tenant.upgraded"
)

// NoteEvent is published after a successful mutation.  It carries enough
// information for downstream consumers to log or notify without access to
// the in-memory stores.
type NoteEvent struct {
    ID         string    `json:"id"`
    Type       string    `json:"type"`
    TenantSlug string    `json:"tenant_slug"`
    NoteID     uint64    `json:"note_id,omitempty"`
    UserID     uint64    `json:"user_id"`
    Plan       string    `json:"plan,omitempty"`
    OccurredAt time.Time `json:"occurred_at"`
}
