// Package models holds the reference request: one candidate's application
// to one job, grouping their nominated referents.
package models

import (
	"strings"
	"time"

	id "ndoors/pkg/domain"
	dErrors "ndoors/pkg/domain-errors"
)

// MaxReferents caps how many referents one application may nominate.
const MaxReferents = 3

// ReferenceRequest ties an applicant to a job. ApplicantToken gates the
// applicant's own status page, which is where edits and reminders start.
type ReferenceRequest struct {
	ID             id.RequestID `json:"id"`
	JobID          id.JobID     `json:"job_id"`
	ApplicantName  string       `json:"applicant_name"`
	ApplicantEmail string       `json:"applicant_email"`
	ApplicantToken string       `json:"-"`
	CreatedAt      time.Time    `json:"created_at"`
}

// NewReferenceRequest constructs a reference request.
func NewReferenceRequest(requestID id.RequestID, jobID id.JobID, applicantName, applicantEmail, applicantToken string, now time.Time) (*ReferenceRequest, error) {
	applicantName = strings.TrimSpace(applicantName)
	applicantEmail = strings.ToLower(strings.TrimSpace(applicantEmail))

	switch {
	case applicantName == "":
		return nil, dErrors.New(dErrors.CodeInvalidInput, "applicant name is required")
	case applicantEmail == "" || !strings.Contains(applicantEmail, "@"):
		return nil, dErrors.New(dErrors.CodeInvalidInput, "a valid applicant email is required")
	case applicantToken == "":
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "applicant token must be set at creation")
	}
	return &ReferenceRequest{
		ID:             requestID,
		JobID:          jobID,
		ApplicantName:  applicantName,
		ApplicantEmail: applicantEmail,
		ApplicantToken: applicantToken,
		CreatedAt:      now,
	}, nil
}
