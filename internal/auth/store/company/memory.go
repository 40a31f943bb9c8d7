// Package company persists companies. Names are unique case-insensitively;
// ErrConflict signals a racing create for the same name.
package company

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
	records map[id.CompanyID]*models.Company
	byName  map[string]id.CompanyID
}

func NewInMemory() *InMemory {
	return &InMemory{
		records: make(map[id.CompanyID]*models.Company),
		byName:  make(map[string]id.CompanyID),
	}
}

func (s *InMemory) Create(ctx context.Context, c *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(c.Name)
	if _, exists := s.byName[key]; exists {
		return sentinel.ErrConflict
	}
	s.records[c.ID] = copyCompany(c)
	s.byName[key] = c.ID
	return nil
}

func (s *InMemory) FindByID(ctx context.Context, companyID id.CompanyID) (*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.records[companyID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyCompany(c), nil
}

func (s *InMemory) FindByName(ctx context.Context, name string) (*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	companyID, ok := s.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyCompany(s.records[companyID]), nil
}

func copyCompany(c *models.Company) *models.Company {
	dup := *c
	return &dup
}
