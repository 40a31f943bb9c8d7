// Package models holds recruiter accounts and companies.
package models

import (
	"strings"
	"time"

	id "ndoors/pkg/domain"
	dErrors "ndoors/pkg/domain-errors"
)

// User is a recruiter account. CompanyID stays nil until onboarding
// completes; job creation is gated on it.
type User struct {
	ID           id.UserID    `json:"id"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	CompanyID    id.CompanyID `json:"company_id,omitempty"`
	JobTitle     string       `json:"job_title,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// FullName renders the display name used in emails.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NewUser constructs a recruiter account. The password hash is produced by
// the service; models never see plaintext.
func NewUser(userID id.UserID, firstName, lastName, email, passwordHash string, now time.Time) (*User, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	email = strings.ToLower(strings.TrimSpace(email))

	switch {
	case firstName == "":
		return nil, dErrors.New(dErrors.CodeInvalidInput, "first name is required")
	case lastName == "":
		return nil, dErrors.New(dErrors.CodeInvalidInput, "last name is required")
	case email == "" || !strings.Contains(email, "@"):
		return nil, dErrors.New(dErrors.CodeInvalidInput, "a valid email is required")
	case passwordHash == "":
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password hash must be set at creation")
	}
	return &User{
		ID:           userID,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}, nil
}

// Company groups recruiters. Names are unique case-insensitively; find-or-
// create at onboarding keeps colleagues in one company record.
type Company struct {
	ID        id.CompanyID `json:"id"`
	Name      string       `json:"name"`
	OrgNumber string       `json:"org_number,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewCompany constructs a company.
func NewCompany(companyID id.CompanyID, name, orgNumber string, now time.Time) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "company name is required")
	}
	return &Company{
		ID:        companyID,
		Name:      name,
		OrgNumber: strings.TrimSpace(orgNumber),
		CreatedAt: now,
	}, nil
}
