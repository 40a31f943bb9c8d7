// Package models holds the job aggregate: an open role whose invite token
// is the public entry point for candidates.
package models

import (
	"strings"
	"time"

	id "ndoors/pkg/domain"
	dErrors "ndoors/pkg/domain-errors"
)

// Job is an open role owned by a recruiter. InviteToken gates the public
// application form; deactivating the job kills the link without deleting
// the history behind it.
type Job struct {
	ID          id.JobID     `json:"id"`
	RecruiterID id.UserID    `json:"recruiter_id"`
	CompanyID   id.CompanyID `json:"company_id"`
	Title       string       `json:"title"`
	InviteToken string       `json:"invite_token"`
	IsActive    bool         `json:"is_active"`
	CreatedAt   time.Time    `json:"created_at"`
}

// NewJob constructs an active job.
func NewJob(jobID id.JobID, recruiterID id.UserID, companyID id.CompanyID, title, inviteToken string, now time.Time) (*Job, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "job title is required")
	}
	if recruiterID.IsNil() || companyID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "job requires a recruiter and company")
	}
	if inviteToken == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "job invite token must be set at creation")
	}
	return &Job{
		ID:          jobID,
		RecruiterID: recruiterID,
		CompanyID:   companyID,
		Title:       title,
		InviteToken: inviteToken,
		IsActive:    true,
		CreatedAt:   now,
	}, nil
}

// CanDeactivate checks the job is still active.
func (j *Job) CanDeactivate() error {
	if !j.IsActive {
		return dErrors.New(dErrors.CodeInvalidState, "job is already inactive")
	}
	return nil
}

// ApplyDeactivate closes the job to new submissions.
func (j *Job) ApplyDeactivate() {
	j.IsActive = false
}

// CanReactivate checks the job is inactive.
func (j *Job) CanReactivate() error {
	if j.IsActive {
		return dErrors.New(dErrors.CodeInvalidState, "job is already active")
	}
	return nil
}

// ApplyReactivate reopens the job.
func (j *Job) ApplyReactivate() {
	j.IsActive = true
}
