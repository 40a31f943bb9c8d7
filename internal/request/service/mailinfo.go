package service

import (
	"context"
	"errors"

	referentservice "ndoors/internal/referent/service"
	id "ndoors/pkg/domain"
	dErrors "ndoors/pkg/domain-errors"
	"ndoors/pkg/platform/sentinel"
)

// MailInfoResolver feeds the referent lifecycle the mail context it needs.
// It is a standalone component rather than a Service method so the
// lifecycle service and the aggregator can be constructed without a cycle.
type MailInfoResolver struct {
	store Store
	jobs  JobDirectory
}

func NewMailInfoResolver(store Store, jobs JobDirectory) *MailInfoResolver {
	return &MailInfoResolver{store: store, jobs: jobs}
}

// MailInfo resolves the applicant, job and recruiter behind a request.
func (r *MailInfoResolver) MailInfo(ctx context.Context, requestID id.RequestID) (*referentservice.MailInfo, error) {
	request, err := r.store.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "reference request not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load reference request")
	}
	detail, err := r.jobs.DetailByID(ctx, request.JobID)
	if err != nil {
		return nil, err
	}
	return &referentservice.MailInfo{
		ApplicantName:  request.ApplicantName,
		JobTitle:       detail.Title,
		CompanyName:    detail.CompanyName,
		RecruiterID:    detail.RecruiterID,
		RecruiterName:  detail.RecruiterName,
		RecruiterEmail: detail.RecruiterEmail,
	}, nil
}
