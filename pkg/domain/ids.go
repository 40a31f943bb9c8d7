// Package domain defines typed identifiers for the core entities. Wrapping
// uuid.UUID in distinct named types makes cross-entity ID mixups a compile
// error instead of a data corruption bug.
package domain

import (
	"github.com/google/uuid"

	dErrors "ndoors/pkg/domain-errors"
)

type (
	// UserID identifies a recruiter account.
	UserID uuid.UUID
	// CompanyID identifies a company.
	CompanyID uuid.UUID
	// JobID identifies a job opening.
	JobID uuid.UUID
	// RequestID identifies a reference request (one candidate application).
	RequestID uuid.UUID
	// ReferentID identifies a referent record.
	ReferentID uuid.UUID
)

func (id UserID) String() string     { return uuid.UUID(id).String() }
func (id CompanyID) String() string  { return uuid.UUID(id).String() }
func (id JobID) String() string      { return uuid.UUID(id).String() }
func (id RequestID) String() string  { return uuid.UUID(id).String() }
func (id ReferentID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id CompanyID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id JobID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id RequestID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id ReferentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// NewUserID returns a fresh random UserID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewCompanyID returns a fresh random CompanyID.
func NewCompanyID() CompanyID { return CompanyID(uuid.New()) }

// NewJobID returns a fresh random JobID.
func NewJobID() JobID { return JobID(uuid.New()) }

// NewRequestID returns a fresh random RequestID.
func NewRequestID() RequestID { return RequestID(uuid.New()) }

// NewReferentID returns a fresh random ReferentID.
func NewReferentID() ReferentID { return ReferentID(uuid.New()) }

// parseUUID enforces the shared invariant: IDs must be valid, non-nil UUIDs.
func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must not be the nil UUID", kind)
	}
	return u, nil
}

// ParseUserID parses and validates a UserID from its string form.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user id")
	return UserID(u), err
}

// ParseCompanyID parses and validates a CompanyID from its string form.
func ParseCompanyID(s string) (CompanyID, error) {
	u, err := parseUUID(s, "company id")
	return CompanyID(u), err
}

// ParseJobID parses and validates a JobID from its string form.
func ParseJobID(s string) (JobID, error) {
	u, err := parseUUID(s, "job id")
	return JobID(u), err
}

// ParseRequestID parses and validates a RequestID from its string form.
func ParseRequestID(s string) (RequestID, error) {
	u, err := parseUUID(s, "request id")
	return RequestID(u), err
}

// ParseReferentID parses and validates a ReferentID from its string form.
func ParseReferentID(s string) (ReferentID, error) {
	u, err := parseUUID(s, "referent id")
	return ReferentID(u), err
}

// Defined types do not inherit uuid.UUID's text marshaling, so each ID
// implements it explicitly; without these the IDs would JSON-encode as raw
// byte arrays.

func (id UserID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id CompanyID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id JobID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id RequestID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id ReferentID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(text []byte) error {
	parsed, err := ParseUserID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *CompanyID) UnmarshalText(text []byte) error {
	parsed, err := ParseCompanyID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *JobID) UnmarshalText(text []byte) error {
	parsed, err := ParseJobID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *RequestID) UnmarshalText(text []byte) error {
	parsed, err := ParseRequestID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *ReferentID) UnmarshalText(text []byte) error {
	parsed, err := ParseReferentID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
