package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "ndoors/pkg/domain"
	dErrors "ndoors/pkg/domain-errors"
)

func TestManager(t *testing.T) {
	m := NewManager("test-signing-key")
	userID := id.NewUserID()
	now := time.Now()

	t.Run("round-trips claims", func(t *testing.T) {
		signed, err := m.Sign(userID, now, time.Hour)
		require.NoError(t, err)

		claims, err := m.Validate(signed)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("expired token is unauthorized", func(t *testing.T) {
		signed, err := m.Sign(userID, now.Add(-2*time.Hour), time.Hour)
		require.NoError(t, err)

		_, err = m.Validate(signed)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("wrong key is unauthorized", func(t *testing.T) {
		other := NewManager("other-key")
		signed, err := other.Sign(userID, now, time.Hour)
		require.NoError(t, err)

		_, err = m.Validate(signed)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("garbage is unauthorized", func(t *testing.T) {
		_, err := m.Validate("not-a-jwt")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
