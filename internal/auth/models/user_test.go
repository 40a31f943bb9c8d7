package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "ndoors/pkg/domain"
	dErrors "ndoors/pkg/domain-errors"
)

func TestNewUser(t *testing.T) {
	now := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

	t.Run("normalizes email to lower case", func(t *testing.T) {
		u, err := NewUser(id.NewUserID(), "Sam", "Recruiter", "  Sam@Acme.Example ", "hash", now)
		require.NoError(t, err)
		assert.Equal(t, "sam@acme.example", u.Email)
		assert.Equal(t, "Sam Recruiter", u.FullName())
		assert.True(t, u.CompanyID.IsNil())
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser(id.NewUserID(), "Sam", "Recruiter", "not-an-email", "hash", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("missing hash breaks an invariant", func(t *testing.T) {
		_, err := NewUser(id.NewUserID(), "Sam", "Recruiter", "sam@acme.example", "", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestNewCompany(t *testing.T) {
	now := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

	c, err := NewCompany(id.NewCompanyID(), " Acme ", "556677-8899", now)
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)

	_, err = NewCompany(id.NewCompanyID(), "  ", "", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
