// Package events publishes referent lifecycle transitions to the event
// stream. Publishing is fire-and-forget: consumers (analytics, audit) are
// downstream of the workflow and must never block or fail it.
package events

import (
	"context"
	"time"
)

// Action names a lifecycle transition worth recording.
type Action string

const (
	ActionReferentCreated   Action = "referent_created"
	ActionReferentConfirmed Action = "referent_confirmed"
	ActionReferentDeclined  Action = "referent_declined"
	ActionReferentEdited    Action = "referent_edited"
	ActionReminderSent      Action = "reminder_sent"
	ActionQuestionsSent     Action = "questions_sent"
	ActionLinkedInSaved     Action = "linkedin_saved"
)

// Event is one lifecycle transition. ReferentID keys partitioning so a
// single referent's history stays ordered.
type Event struct {
	Action     Action    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
	ReferentID string    `json:"referent_id"`
	RequestID  string    `json:"request_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	Device     string    `json:"device,omitempty"`
	ClientIP   string    `json:"client_ip,omitempty"`
}

// Publisher emits lifecycle events. Implementations own their error
// handling; Publish returning an error is a fact for the caller's log line,
// nothing more.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}
