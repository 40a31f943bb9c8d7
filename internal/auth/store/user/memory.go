// Package user persists recruiter accounts. ErrConflict signals a taken
// email address.
package user

import (
	"context"
	"strings"
	"sync"

	"ndoors/internal/auth/models"
	id "ndoors/pkg/domain"
	"ndoors/pkg/platform/sentinel"
)

// InMemory is the mutex-guarded store used in tests and local runs.
type InMemory struct {
	mu      sync.RWMutex
	records map[id.UserID]*models.User
	byEmail map[string]id.UserID
}

func NewInMemory() *InMemory {
	return &InMemory{
		records: make(map[id.UserID]*models.User),
		byEmail: make(map[string]id.UserID),
	}
}

func (s *InMemory) Create(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, exists := s.records[u.ID]; exists {
		return sentinel.ErrConflict
	}
	if _, exists := s.byEmail[key]; exists {
		return sentinel.ErrConflict
	}
	s.records[u.ID] = copyUser(u)
	s.byEmail[key] = u.ID
	return nil
}

func (s *InMemory) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.records[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyUser(u), nil
}

func (s *InMemory) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyUser(s.records[userID]), nil
}

func (s *InMemory) SetCompany(ctx context.Context, userID id.UserID, companyID id.CompanyID, jobTitle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.records[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	u.CompanyID = companyID
	u.JobTitle = jobTitle
	return nil
}

func copyUser(u *models.User) *models.User {
	dup := *u
	return &dup
}
