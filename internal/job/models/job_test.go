package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "ndoors/pkg/domain"
	dErrors "ndoors/pkg/domain-errors"
)

func TestNewJob(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	t.Run("starts active with trimmed title", func(t *testing.T) {
		j, err := NewJob(id.NewJobID(), id.NewUserID(), id.NewCompanyID(), "  Staff Engineer ", "tok123", now)
		require.NoError(t, err)
		assert.True(t, j.IsActive)
		assert.Equal(t, "Staff Engineer", j.Title)
	})

	t.Run("blank title is invalid", func(t *testing.T) {
		_, err := NewJob(id.NewJobID(), id.NewUserID(), id.NewCompanyID(), "   ", "tok123", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("missing owner breaks an invariant", func(t *testing.T) {
		_, err := NewJob(id.NewJobID(), id.UserID{}, id.NewCompanyID(), "Staff Engineer", "tok123", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestJobActivation(t *testing.T) {
	now := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	j, err := NewJob(id.NewJobID(), id.NewUserID(), id.NewCompanyID(), "Staff Engineer", "tok123", now)
	require.NoError(t, err)

	require.NoError(t, j.CanDeactivate())
	j.ApplyDeactivate()
	assert.False(t, j.IsActive)

	assert.True(t, dErrors.HasCode(j.CanDeactivate(), dErrors.CodeInvalidState))

	require.NoError(t, j.CanReactivate())
	j.ApplyReactivate()
	assert.True(t, j.IsActive)
	assert.True(t, dErrors.HasCode(j.CanReactivate(), dErrors.CodeInvalidState))
}
