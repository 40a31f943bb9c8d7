// Package service implements the reference request aggregator: public
// submission through a job invite token, the applicant status view, and
// the recruiter dashboard listing.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	jobservice "ndoors/internal/job/service"
	referentmodels "ndoors/internal/referent/models"
	"ndoors/internal/request/models"
	"ndoors/internal/verification"
	id "ndoors/pkg/domain"
	dErrors "ndoors/pkg/domain-errors"
	"ndoors/pkg/platform/sentinel"
	"ndoors/pkg/requestcontext"
	"ndoors/pkg/token"
)

// Store is the persistence port for reference requests.
type Store interface {
	Create(ctx context.Context, r *models.ReferenceRequest) error
	FindByID(ctx context.Context, requestID id.RequestID) (*models.ReferenceRequest, error)
	FindByApplicantToken(ctx context.Context, token string) (*models.ReferenceRequest, error)
	FindByJobAndEmail(ctx context.Context, jobID id.JobID, applicantEmail string) (*models.ReferenceRequest, error)
	ListByJob(ctx context.Context, jobID id.JobID) ([]*models.ReferenceRequest, error)
}

// JobDirectory resolves jobs; the job service implements it.
type JobDirectory interface {
	DetailByInviteToken(ctx context.Context, inviteToken string) (*jobservice.Detail, error)
	DetailByID(ctx context.Context, jobID id.JobID) (*jobservice.Detail, error)
}

// Referents is the referent lifecycle port the aggregator drives.
type Referents interface {
	Nominate(ctx context.Context, requestID id.RequestID, profiles []referentmodels.Profile) ([]*referentmodels.Referent, error)
	ListByRequest(ctx context.Context, requestID id.RequestID) ([]*referentmodels.Referent, error)
	DeleteByRequest(ctx context.Context, requestID id.RequestID) error
}

// Service orchestrates reference requests.
type Service struct {
	store     Store
	jobs      JobDirectory
	referents Referents
	logger    *slog.Logger
	tracer    trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(store Store, jobs JobDirectory, referents Referents, opts ...Option) *Service {
	s := &Service{
		store:     store,
		jobs:      jobs,
		referents: referents,
		logger:    slog.Default(),
		tracer:    otel.Tracer("ndoors/internal/request"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitInput is the application form payload.
type SubmitInput struct {
	ApplicantName  string                   `json:"applicant_name"`
	ApplicantEmail string                   `json:"applicant_email"`
	Referents      []referentmodels.Profile `json:"referents"`
}

// SubmitResult reports a submission: the request plus its (fresh) referent
// set. ApplicantToken is handed to the applicant exactly here.
type SubmitResult struct {
	Request   *models.ReferenceRequest
	Referents []*referentmodels.Referent
}

// Submit creates or replaces a candidate's referent set for a job. A
// resubmission for the same (job, applicant email) keeps the request record
// and its applicant token but replaces the referents wholesale, so stale
// confirm links from the first attempt die.
func (s *Service) Submit(ctx context.Context, inviteToken string, input SubmitInput) (*SubmitResult, error) {
	ctx, span := s.tracer.Start(ctx, "request.Submit")
	defer span.End()

	if len(input.Referents) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "at least one referent is required")
	}
	if len(input.Referents) > models.MaxReferents {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "at most %d referents are allowed", models.MaxReferents)
	}

	detail, err := s.jobs.DetailByInviteToken(ctx, inviteToken)
	if err != nil {
		return nil, err
	}
	if !detail.IsActive {
		return nil, dErrors.New(dErrors.CodeInvalidState, "this invite link is no longer active")
	}

	request, err := s.findOrCreateRequest(ctx, detail.ID, input)
	if err != nil {
		return nil, err
	}

	// Wholesale replace: any referents from an earlier submission go away
	// together with their confirm tokens.
	if err := s.referents.DeleteByRequest(ctx, request.ID); err != nil {
		return nil, err
	}
	referents, err := s.referents.Nominate(ctx, request.ID, input.Referents)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "reference request submitted",
		"request_id", request.ID.String(),
		"job_id", detail.ID.String(),
		"referent_count", len(referents))
	return &SubmitResult{Request: request, Referents: referents}, nil
}

func (s *Service) findOrCreateRequest(ctx context.Context, jobID id.JobID, input SubmitInput) (*models.ReferenceRequest, error) {
	existing, err := s.store.FindByJobAndEmail(ctx, jobID, input.ApplicantEmail)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up reference request")
	}

	applicantToken, err := token.Applicant()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mint applicant token")
	}
	request, err := models.NewReferenceRequest(id.NewRequestID(), jobID, input.ApplicantName, input.ApplicantEmail, applicantToken, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, request); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// Lost a race with a duplicate submission; reuse its record.
			return s.findOrCreateRequest(ctx, jobID, input)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create reference request")
	}
	return request, nil
}

// ReferentStatus is one referent's row on the applicant status page.
type ReferentStatus struct {
	ID           id.ReferentID         `json:"id"`
	FirstName    string                `json:"first_name"`
	LastName     string                `json:"last_name"`
	Email        string                `json:"email"`
	Relationship string                `json:"relationship"`
	Status       referentmodels.Status `json:"status"`
	Verification verification.Level    `json:"verification_level"`
}

// StatusView is the applicant's aggregate view of their references.
type StatusView struct {
	RequestID      id.RequestID     `json:"request_id"`
	ApplicantName  string           `json:"applicant_name"`
	JobTitle       string           `json:"job_title"`
	CompanyName    string           `json:"company_name"`
	Referents      []ReferentStatus `json:"referents"`
	ConfirmedCount int              `json:"confirmed_count"`
	TotalCount     int              `json:"total_count"`
	PendingCount   int              `json:"pending_count"`
}

// Status resolves an applicant token to the aggregate status view.
func (s *Service) Status(ctx context.Context, applicantToken string) (*StatusView, error) {
	ctx, span := s.tracer.Start(ctx, "request.Status")
	defer span.End()

	request, err := s.findByApplicantToken(ctx, applicantToken)
	if err != nil {
		return nil, err
	}

	detail, err := s.jobs.DetailByID(ctx, request.JobID)
	if err != nil {
		return nil, err
	}
	referents, err := s.referents.ListByRequest(ctx, request.ID)
	if err != nil {
		return nil, err
	}

	view := &StatusView{
		RequestID:     request.ID,
		ApplicantName: request.ApplicantName,
		JobTitle:      detail.Title,
		CompanyName:   detail.CompanyName,
		Referents:     make([]ReferentStatus, 0, len(referents)),
		TotalCount:    len(referents),
	}
	for _, r := range referents {
		view.Referents = append(view.Referents, ReferentStatus{
			ID:           r.ID,
			FirstName:    r.FirstName,
			LastName:     r.LastName,
			Email:        r.Email,
			Relationship: r.Relationship,
			Status:       r.Status,
			Verification: verification.Resolve(r),
		})
		switch {
		case r.Status == referentmodels.StatusConfirmed:
			view.ConfirmedCount++
		case r.Status.IsPending():
			view.PendingCount++
		}
	}
	return view, nil
}

// OwnsReferent checks that a referent belongs to the request behind the
// applicant token; edit and remind routes are gated on it.
func (s *Service) OwnsReferent(ctx context.Context, applicantToken string, referentID id.ReferentID) error {
	request, err := s.findByApplicantToken(ctx, applicantToken)
	if err != nil {
		return err
	}
	referents, err := s.referents.ListByRequest(ctx, request.ID)
	if err != nil {
		return err
	}
	for _, r := range referents {
		if r.ID == referentID {
			return nil
		}
	}
	return dErrors.New(dErrors.CodeNotFound, "referent not found")
}

// Overview is one application row on the recruiter dashboard.
type Overview struct {
	Request        *models.ReferenceRequest `json:"request"`
	Referents      []ReferentStatus         `json:"referents"`
	ConfirmedCount int                      `json:"confirmed_count"`
	TotalCount     int                      `json:"total_count"`
}

// Dashboard lists a job's applications with referent progress. Callers
// authorize job ownership first.
func (s *Service) Dashboard(ctx context.Context, jobID id.JobID) ([]*Overview, error) {
	ctx, span := s.tracer.Start(ctx, "request.Dashboard")
	defer span.End()

	requests, err := s.store.ListByJob(ctx, jobID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list reference requests")
	}

	overviews := make([]*Overview, 0, len(requests))
	for _, request := range requests {
		referents, err := s.referents.ListByRequest(ctx, request.ID)
		if err != nil {
			return nil, err
		}
		overview := &Overview{Request: request, TotalCount: len(referents)}
		for _, r := range referents {
			overview.Referents = append(overview.Referents, ReferentStatus{
				ID:           r.ID,
				FirstName:    r.FirstName,
				LastName:     r.LastName,
				Email:        r.Email,
				Relationship: r.Relationship,
				Status:       r.Status,
				Verification: verification.Resolve(r),
			})
			if r.Status == referentmodels.StatusConfirmed {
				overview.ConfirmedCount++
			}
		}
		overviews = append(overviews, overview)
	}
	return overviews, nil
}

func (s *Service) findByApplicantToken(ctx context.Context, applicantToken string) (*models.ReferenceRequest, error) {
	if applicantToken == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "applicant token is required")
	}
	request, err := s.store.FindByApplicantToken(ctx, applicantToken)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "reference request not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load reference request")
	}
	return request, nil
}
