package request

import (
	"context"
	"sort"
	"strings"
	"sync"

	"ndoors/internal/request/models"
	id "ndoors/pkg/domain"
	"ndoors/pkg/platform/sentinel"
)

// InMemory is the mutex-guarded store used in tests and local runs.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.RequestID]*models.ReferenceRequest
	byToken map[string]id.RequestID
}

func NewInMemory() *InMemory {
	return &InMemory{
		records: make(map[id.RequestID]*models.ReferenceRequest),
		byToken: make(map[string]id.RequestID),
	}
}

func (s *InMemory) Create(ctx context.Context, r *models.ReferenceRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[r.ID]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.byToken[r.ApplicantToken]; exists {
		return sentinel.ErrConflict
	}
	for _, existing := range s.records {
		if existing.JobID == r.JobID && strings.EqualFold(existing.ApplicantEmail, r.ApplicantEmail) {
			return sentinel.ErrConflict
		}
	}
	s.records[r.ID] = copyRequest(r)
	s.byToken[r.ApplicantToken] = r.ID
	return nil
}

func (s *InMemory) FindByID(ctx context.Context, requestID id.RequestID) (*models.ReferenceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[requestID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyRequest(r), nil
}

func (s *InMemory) FindByApplicantToken(ctx context.Context, token string) (*models.ReferenceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	requestID, ok := s.byToken[token]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyRequest(s.records[requestID]), nil
}

func (s *InMemory) FindByJobAndEmail(ctx context.Context, jobID id.JobID, applicantEmail string) (*models.ReferenceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.records {
		if r.JobID == jobID && strings.EqualFold(r.ApplicantEmail, applicantEmail) {
			return copyRequest(r), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) ListByJob(ctx context.Context, jobID id.JobID) ([]*models.ReferenceRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var requests []*models.ReferenceRequest
	for _, r := range s.records {
		if r.JobID == jobID {
			requests = append(requests, copyRequest(r))
		}
	}
	sort.Slice(requests, func(i, k int) bool {
		if requests[i].CreatedAt.Equal(requests[k].CreatedAt) {
			return requests[i].ID.String() < requests[k].ID.String()
		}
		return requests[i].CreatedAt.After(requests[k].CreatedAt)
	})
	return requests, nil
}

func copyRequest(r *models.ReferenceRequest) *models.ReferenceRequest {
	dup := *r
	return &dup
}
