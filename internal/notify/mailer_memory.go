package notify

import (
	"context"
	"sync"
)

// MemoryMailer records payloads instead of delivering them. Tests assert on
// the recorded slices; local development runs with it when no mail API key
// is configured.
type MemoryMailer struct {
	mu sync.Mutex

	Invites       []ReferentInvite
	Notifications []RecruiterNotification
	Questions     []ReferenceQuestions

	// FailAll makes every send return an error, for exercising the
	// dispatcher's failure isolation.
	FailAll error
}

// NewMemoryMailer constructs an empty recorder.
func NewMemoryMailer() *MemoryMailer {
	return &MemoryMailer{}
}

func (m *MemoryMailer) SendReferentInvite(ctx context.Context, p ReferentInvite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll != nil {
		return m.FailAll
	}
	m.Invites = append(m.Invites, p)
	return nil
}

func (m *MemoryMailer) SendRecruiterNotification(ctx context.Context, p RecruiterNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll != nil {
		return m.FailAll
	}
	m.Notifications = append(m.Notifications, p)
	return nil
}

func (m *MemoryMailer) SendReferenceQuestions(ctx context.Context, p ReferenceQuestions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll != nil {
		return m.FailAll
	}
	m.Questions = append(m.Questions, p)
	return nil
}

// SentInvites returns a snapshot of recorded invites.
func (m *MemoryMailer) SentInvites() []ReferentInvite {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ReferentInvite(nil), m.Invites...)
}

// SentNotifications returns a snapshot of recorded recruiter notifications.
func (m *MemoryMailer) SentNotifications() []RecruiterNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RecruiterNotification(nil), m.Notifications...)
}

// SentQuestions returns a snapshot of recorded question emails.
func (m *MemoryMailer) SentQuestions() []ReferenceQuestions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ReferenceQuestions(nil), m.Questions...)
}
