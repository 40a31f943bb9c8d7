// Package verification derives a referent's trust tier from the identity
// proofs they have provided.
package verification

import "ndoors/internal/referent/models"

// Level is an ordered trust tier. The ordering encodes relative trust:
// a self-asserted LinkedIn profile ranks below a phone OTP's proof of
// possession but above plain email ownership; BankID is a verified national
// identity and outranks everything.
type Level string

const (
	LevelNone     Level = "none"
	LevelEmail    Level = "email"
	LevelPhone    Level = "phone"
	LevelLinkedIn Level = "linkedin"
	LevelBankID   Level = "bankid"
)

var ranks = map[Level]int{
	LevelNone:     0,
	LevelEmail:    1,
	LevelPhone:    2,
	LevelLinkedIn: 3,
	LevelBankID:   4,
}

// Rank returns the numeric position of the level in the trust ordering.
func (l Level) Rank() int { return ranks[l] }

// AtLeast reports whether l meets or exceeds the given tier.
func (l Level) AtLeast(other Level) bool { return l.Rank() >= other.Rank() }

// Resolve returns the highest level the referent's accumulated signals
// support, checking the strongest proof first. Levels are display-only in
// the current scope; nothing gates on them yet.
func Resolve(r *models.Referent) Level {
	switch {
	case r.BankIDVerified:
		return LevelBankID
	case r.LinkedInURL != "":
		return LevelLinkedIn
	case r.PhoneVerified:
		return LevelPhone
	case r.EmailVerified:
		return LevelEmail
	default:
		return LevelNone
	}
}
