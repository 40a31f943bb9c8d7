package referent

import (
	"context"
	"sync"
	"time"

	"ndoors/internal/referent/models"
	id "ndoors/pkg/domain"
	"ndoors/pkg/platform/sentinel"
)

// InMemory is the mutex-guarded map implementation used by unit tests and
// local development. Records are deep-copied on the way in and out so
// callers can't mutate store state behind the lock.
type InMemory struct {
	mu      sync.Mutex
	records map[id.ReferentID]*models.Referent
	byToken map[string]id.ReferentID
}

// NewInMemory constructs an empty in-memory referent store.
func NewInMemory() *InMemory {
	return &InMemory{
		records: make(map[id.ReferentID]*models.Referent),
		byToken: make(map[string]id.ReferentID),
	}
}

func (s *InMemory) Create(ctx context.Context, r *models.Referent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[r.ID]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.byToken[r.ConfirmToken]; exists {
		return sentinel.ErrConflict
	}
	s.records[r.ID] = copyReferent(r)
	s.byToken[r.ConfirmToken] = r.ID
	return nil
}

func (s *InMemory) FindByID(ctx context.Context, referentID id.ReferentID) (*models.Referent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[referentID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyReferent(r), nil
}

func (s *InMemory) FindByConfirmToken(ctx context.Context, token string) (*models.Referent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	referentID, ok := s.byToken[token]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyReferent(s.records[referentID]), nil
}

func (s *InMemory) ListByRequest(ctx context.Context, requestID id.RequestID) ([]*models.Referent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Referent
	for _, r := range s.records {
		if r.RequestID == requestID {
			out = append(out, copyReferent(r))
		}
	}
	return out, nil
}

func (s *InMemory) DeleteByRequest(ctx context.Context, requestID id.RequestID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for refID, r := range s.records {
		if r.RequestID == requestID {
			delete(s.byToken, r.ConfirmToken)
			delete(s.records, refID)
		}
	}
	return nil
}

// ResolveDecision applies confirm/decline only if the record is still
// pending, mirroring the Postgres conditional UPDATE. Returns the updated
// record, ErrAlreadyResolved if a concurrent decision won, or ErrNotFound.
func (s *InMemory) ResolveDecision(ctx context.Context, referentID id.ReferentID, target models.Status, decidedAt time.Time) (*models.Referent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[referentID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if !r.Status.IsPending() {
		return nil, sentinel.ErrAlreadyResolved
	}
	switch target {
	case models.StatusConfirmed:
		r.ApplyConfirm(decidedAt)
	case models.StatusDeclined:
		r.ApplyDecline()
	default:
		return nil, sentinel.ErrInvalidState
	}
	return copyReferent(r), nil
}

// UpdateProfile persists profile fields, tokens, and status in one step so
// a reader never observes a half-rotated token pair. Like ResolveDecision,
// the write only applies while the row is still pending: a decision landing
// after the caller's read must not be overwritten.
func (s *InMemory) UpdateProfile(ctx context.Context, r *models.Referent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[r.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if !existing.Status.IsPending() {
		return sentinel.ErrAlreadyResolved
	}
	if existing.ConfirmToken != r.ConfirmToken {
		delete(s.byToken, existing.ConfirmToken)
		s.byToken[r.ConfirmToken] = r.ID
	}
	s.records[r.ID] = copyReferent(r)
	return nil
}

func (s *InMemory) SetLinkedIn(ctx context.Context, referentID id.ReferentID, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[referentID]
	if !ok {
		return sentinel.ErrNotFound
	}
	r.ApplyLinkedIn(url)
	return nil
}

func (s *InMemory) SetQuestionsSent(ctx context.Context, referentID id.ReferentID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[referentID]
	if !ok {
		return sentinel.ErrNotFound
	}
	r.ApplyQuestionsSent(at)
	return nil
}

func copyReferent(r *models.Referent) *models.Referent {
	cp := *r
	cp.ConfirmedAt = copyTime(r.ConfirmedAt)
	cp.QuestionsSentAt = copyTime(r.QuestionsSentAt)
	cp.EmailVerifiedAt = copyTime(r.EmailVerifiedAt)
	cp.PhoneVerifiedAt = copyTime(r.PhoneVerifiedAt)
	cp.BankIDVerifiedAt = copyTime(r.BankIDVerifiedAt)
	return &cp
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}
