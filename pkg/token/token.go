// Package token produces the opaque capability strings that gate every
// unauthenticated action in the system. Possession of a token is
// authorization: tokens must be unguessable and independent per call.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Lengths per token namespace, in characters of the URL-safe alphabet.
// Uniqueness only matters within a namespace's lookup column.
const (
	ConfirmLength   = 16
	RevokeLength    = 16
	ApplicantLength = 16
	InviteLength    = 12
)

// New returns a cryptographically random, URL-safe string of exactly
// length characters.
func New(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", length)
	}
	// base64 yields 4 chars per 3 bytes; over-allocate and cut.
	buf := make([]byte, (length*3+3)/4+1)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("could not generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf)[:length], nil
}

// Confirm returns a fresh confirm token.
func Confirm() (string, error) { return New(ConfirmLength) }

// Revoke returns a fresh revoke token.
func Revoke() (string, error) { return New(RevokeLength) }

// Applicant returns a fresh applicant status-page token.
func Applicant() (string, error) { return New(ApplicantLength) }

// Invite returns a fresh job invite token.
func Invite() (string, error) { return New(InviteLength) }
