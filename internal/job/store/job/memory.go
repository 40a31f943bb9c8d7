package job

import (
	"context"
	"sort"
	"sync"

	"ndoors/internal/job/models"
	id "ndoors/pkg/domain"
	"ndoors/pkg/platform/sentinel"
)

// InMemory is the mutex-guarded store used in tests and local runs.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.JobID]*models.Job
	byToken map[string]id.JobID
}

func NewInMemory() *InMemory {
	return &InMemory{
		records: make(map[id.JobID]*models.Job),
		byToken: make(map[string]id.JobID),
	}
}

func (s *InMemory) Create(ctx context.Context, j *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[j.ID]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.byToken[j.InviteToken]; exists {
		return sentinel.ErrConflict
	}
	s.records[j.ID] = copyJob(j)
	s.byToken[j.InviteToken] = j.ID
	return nil
}

func (s *InMemory) FindByID(ctx context.Context, jobID id.JobID) (*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.records[jobID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyJob(j), nil
}

func (s *InMemory) FindByInviteToken(ctx context.Context, token string) (*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobID, ok := s.byToken[token]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyJob(s.records[jobID]), nil
}

func (s *InMemory) ListByRecruiter(ctx context.Context, recruiterID id.UserID) ([]*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var jobs []*models.Job
	for _, j := range s.records {
		if j.RecruiterID == recruiterID {
			jobs = append(jobs, copyJob(j))
		}
	}
	sort.Slice(jobs, func(i, k int) bool {
		if jobs[i].CreatedAt.Equal(jobs[k].CreatedAt) {
			return jobs[i].ID.String() < jobs[k].ID.String()
		}
		return jobs[i].CreatedAt.After(jobs[k].CreatedAt)
	})
	return jobs, nil
}

func (s *InMemory) SetActive(ctx context.Context, jobID id.JobID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.records[jobID]
	if !ok {
		return sentinel.ErrNotFound
	}
	j.IsActive = active
	return nil
}

func copyJob(j *models.Job) *models.Job {
	dup := *j
	return &dup
}
