package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const urlSafeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

func TestNew(t *testing.T) {
	t.Run("produces exact requested length", func(t *testing.T) {
		for _, n := range []int{1, 12, 16, 22, 43} {
			tok, err := New(n)
			require.NoError(t, err)
			assert.Len(t, tok, n)
		}
	})

	t.Run("uses only URL-safe characters", func(t *testing.T) {
		tok, err := New(64)
		require.NoError(t, err)
		for _, r := range tok {
			assert.True(t, strings.ContainsRune(urlSafeAlphabet, r), "unexpected rune %q", r)
		}
	})

	t.Run("rejects non-positive lengths", func(t *testing.T) {
		_, err := New(0)
		require.Error(t, err)
		_, err = New(-5)
		require.Error(t, err)
	})

	t.Run("independent calls do not collide", func(t *testing.T) {
		seen := make(map[string]struct{}, 10000)
		for range 10000 {
			tok, err := Confirm()
			require.NoError(t, err)
			_, dup := seen[tok]
			require.False(t, dup, "token collision: %s", tok)
			seen[tok] = struct{}{}
		}
	})
}

func TestNamespaceLengths(t *testing.T) {
	confirm, err := Confirm()
	require.NoError(t, err)
	assert.Len(t, confirm, ConfirmLength)

	invite, err := Invite()
	require.NoError(t, err)
	assert.Len(t, invite, InviteLength)

	applicant, err := Applicant()
	require.NoError(t, err)
	assert.Len(t, applicant, ApplicantLength)
}
