package models

import (
	"strings"
	"time"

	id "ndoors/pkg/domain"
	dErrors "ndoors/pkg/domain-errors"
)

// Referent is a person nominated by a candidate to vouch for them; the
// aggregate the lifecycle state machine runs over.
//
// Invariants:
//   - ConfirmToken is globally unique within its namespace and is the sole
//     lookup key for unauthenticated referent-facing actions
//   - ConfirmedAt is set exactly once, on the transition into confirmed
//   - CreatedAt is immutable after construction
//   - Verification flags are monotonic: once true they are never reset in
//     the normal flow
//   - Profile fields are mutable only while Status.IsPending(); an email
//     change rotates both tokens so in-flight links to the old address die
type Referent struct {
	ID        id.ReferentID `json:"id"`
	RequestID id.RequestID  `json:"reference_request_id"`

	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Relationship string `json:"relationship"`

	Status       Status `json:"status"`
	ConfirmToken string `json:"-"`
	RevokeToken  string `json:"-"`

	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	QuestionsSentAt *time.Time `json:"questions_sent_at,omitempty"`

	EmailVerified    bool       `json:"email_verified"`
	EmailVerifiedAt  *time.Time `json:"email_verified_at,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	PhoneVerified    bool       `json:"phone_verified"`
	PhoneVerifiedAt  *time.Time `json:"phone_verified_at,omitempty"`
	LinkedInURL      string     `json:"linkedin_url,omitempty"`
	BankIDVerified   bool       `json:"bankid_verified"`
	BankIDVerifiedAt *time.Time `json:"bankid_verified_at,omitempty"`
}

// FullName renders the display name used in emails.
func (r *Referent) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// Profile is the editable subset of a referent record.
type Profile struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Relationship string `json:"relationship"`
}

// Validate enforces the required-field invariant and normalizes whitespace.
func (p *Profile) Validate() error {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.TrimSpace(p.Email)
	p.Relationship = strings.TrimSpace(p.Relationship)

	switch {
	case p.FirstName == "":
		return dErrors.New(dErrors.CodeInvalidInput, "first name is required")
	case p.LastName == "":
		return dErrors.New(dErrors.CodeInvalidInput, "last name is required")
	case p.Email == "" || !strings.Contains(p.Email, "@"):
		return dErrors.New(dErrors.CodeInvalidInput, "a valid email is required")
	case p.Relationship == "":
		return dErrors.New(dErrors.CodeInvalidInput, "relationship is required")
	}
	return nil
}

// NewReferent constructs a referent in sent state with the given tokens.
// Submission creates referents directly in sent because the invite email is
// dispatched in the same operation.
func NewReferent(referentID id.ReferentID, requestID id.RequestID, profile Profile, confirmToken, revokeToken string, now time.Time) (*Referent, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	if confirmToken == "" || revokeToken == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "referent tokens must be set at creation")
	}
	return &Referent{
		ID:           referentID,
		RequestID:    requestID,
		FirstName:    profile.FirstName,
		LastName:     profile.LastName,
		Email:        profile.Email,
		Relationship: profile.Relationship,
		Status:       StatusSent,
		ConfirmToken: confirmToken,
		RevokeToken:  revokeToken,
		CreatedAt:    now,
	}, nil
}

// CanDecide checks whether the referent may still confirm or decline.
// Resolved referents return ErrAlreadyDecided-shaped domain errors so the
// caller can surface the existing outcome instead of failing.
func (r *Referent) CanDecide(target Status) error {
	if target != StatusConfirmed && target != StatusDeclined {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "decision must be confirmed or declined, got %s", target)
	}
	if !r.Status.CanTransitionTo(target) {
		return dErrors.Newf(dErrors.CodeInvalidState, "referent has already %s", r.Status)
	}
	return nil
}

// ApplyConfirm transitions the referent to confirmed and stamps ConfirmedAt.
// Call CanDecide first; the store's conditional update enforces the same
// guard against racing writers.
func (r *Referent) ApplyConfirm(now time.Time) {
	r.Status = StatusConfirmed
	r.ConfirmedAt = &now
}

// ApplyDecline transitions the referent to declined.
func (r *Referent) ApplyDecline() {
	r.Status = StatusDeclined
}

// CanEdit checks whether profile fields may still be changed. A decided
// referent's identity is already referenced in recruiter communications, so
// mutating it would desynchronize the audit trail.
func (r *Referent) CanEdit() error {
	if r.Status.IsResolved() {
		return dErrors.New(dErrors.CodeInvalidState, "referent can no longer be edited")
	}
	return nil
}

// CanRemind checks whether a reminder may be sent.
func (r *Referent) CanRemind() error {
	if r.Status.IsResolved() {
		return dErrors.New(dErrors.CodeAlreadyResponded, "referent has already responded")
	}
	return nil
}

// ApplyProfileUpdate writes the new profile. When the email changed
// (case-insensitive) both capability tokens must be rotated and the status
// forced back to sent; the caller supplies the fresh tokens and learns via
// the return value whether a resend should be offered.
func (r *Referent) ApplyProfileUpdate(profile Profile, newConfirmToken, newRevokeToken string) (emailChanged bool) {
	emailChanged = !strings.EqualFold(strings.TrimSpace(profile.Email), r.Email)

	r.FirstName = profile.FirstName
	r.LastName = profile.LastName
	r.Email = profile.Email
	r.Relationship = profile.Relationship

	if emailChanged {
		r.ConfirmToken = newConfirmToken
		r.RevokeToken = newRevokeToken
		r.Status = StatusSent
	}
	return emailChanged
}

// CanVerify checks whether the post-confirm verification step is open.
func (r *Referent) CanVerify() error {
	if r.Status != StatusConfirmed {
		return dErrors.New(dErrors.CodeInvalidState, "verification is only available after confirming")
	}
	return nil
}

// ApplyLinkedIn records the self-asserted LinkedIn URL.
func (r *Referent) ApplyLinkedIn(url string) {
	r.LinkedInURL = url
}

// CanSendQuestions checks whether reference questions may go out.
func (r *Referent) CanSendQuestions() error {
	if r.Status != StatusConfirmed {
		return dErrors.New(dErrors.CodeInvalidState, "questions can only be sent to a confirmed referent")
	}
	return nil
}

// ApplyQuestionsSent stamps the questions timestamp.
func (r *Referent) ApplyQuestionsSent(now time.Time) {
	r.QuestionsSentAt = &now
}
