// Package service implements recruiter-facing job management and the public
// invite-token lookup that fronts the application form.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"ndoors/internal/job/models"
	id "ndoors/pkg/domain"
	dErrors "ndoors/pkg/domain-errors"
	"ndoors/pkg/platform/sentinel"
	"ndoors/pkg/requestcontext"
	"ndoors/pkg/token"
)

// Store is the persistence port for jobs.
type Store interface {
	Create(ctx context.Context, j *models.Job) error
	FindByID(ctx context.Context, jobID id.JobID) (*models.Job, error)
	FindByInviteToken(ctx context.Context, token string) (*models.Job, error)
	ListByRecruiter(ctx context.Context, recruiterID id.UserID) ([]*models.Job, error)
	SetActive(ctx context.Context, jobID id.JobID, active bool) error
}

// Recruiter is the slice of a recruiter account job management needs.
type Recruiter struct {
	ID          id.UserID
	Name        string
	Email       string
	CompanyID   id.CompanyID
	CompanyName string
}

// RecruiterSource resolves recruiter accounts; the auth service implements
// it.
type RecruiterSource interface {
	Recruiter(ctx context.Context, userID id.UserID) (*Recruiter, error)
}

// Summary is the public view behind an invite token: just enough for the
// application form header, never recruiter contact details.
type Summary struct {
	JobID       id.JobID `json:"-"`
	Title       string   `json:"title"`
	CompanyName string   `json:"company_name"`
	IsActive    bool     `json:"is_active"`
}

// Service orchestrates job management.
type Service struct {
	store      Store
	recruiters RecruiterSource
	logger     *slog.Logger
	tracer     trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(store Store, recruiters RecruiterSource, opts ...Option) *Service {
	s := &Service{
		store:      store,
		recruiters: recruiters,
		logger:     slog.Default(),
		tracer:     otel.Tracer("ndoors/internal/job"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create opens a new job for the recruiter. The recruiter must have
// completed onboarding (joined a company) first.
func (s *Service) Create(ctx context.Context, recruiterID id.UserID, title string) (*models.Job, error) {
	ctx, span := s.tracer.Start(ctx, "job.Create")
	defer span.End()

	recruiter, err := s.recruiters.Recruiter(ctx, recruiterID)
	if err != nil {
		return nil, err
	}
	if recruiter.CompanyID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidState, "complete your profile before creating a job")
	}

	inviteToken, err := token.Invite()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mint invite token")
	}

	j, err := models.NewJob(id.NewJobID(), recruiterID, recruiter.CompanyID, title, inviteToken, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, j); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "job could not be created")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create job")
	}

	s.logger.InfoContext(ctx, "job created",
		"job_id", j.ID.String(),
		"recruiter_id", recruiterID.String())
	return j, nil
}

// Get returns one of the recruiter's jobs.
func (s *Service) Get(ctx context.Context, recruiterID id.UserID, jobID id.JobID) (*models.Job, error) {
	return s.findOwned(ctx, recruiterID, jobID)
}

// List returns the recruiter's jobs, newest first.
func (s *Service) List(ctx context.Context, recruiterID id.UserID) ([]*models.Job, error) {
	jobs, err := s.store.ListByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list jobs")
	}
	return jobs, nil
}

// Deactivate closes the job's invite link to new submissions.
func (s *Service) Deactivate(ctx context.Context, recruiterID id.UserID, jobID id.JobID) (*models.Job, error) {
	return s.setActive(ctx, recruiterID, jobID, false)
}

// Reactivate reopens the invite link.
func (s *Service) Reactivate(ctx context.Context, recruiterID id.UserID, jobID id.JobID) (*models.Job, error) {
	return s.setActive(ctx, recruiterID, jobID, true)
}

func (s *Service) setActive(ctx context.Context, recruiterID id.UserID, jobID id.JobID, active bool) (*models.Job, error) {
	ctx, span := s.tracer.Start(ctx, "job.setActive")
	defer span.End()

	j, err := s.findOwned(ctx, recruiterID, jobID)
	if err != nil {
		return nil, err
	}

	if active {
		err = j.CanReactivate()
	} else {
		err = j.CanDeactivate()
	}
	if err != nil {
		return nil, err
	}

	if err := s.store.SetActive(ctx, jobID, active); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update job")
	}
	if active {
		j.ApplyReactivate()
	} else {
		j.ApplyDeactivate()
	}

	s.logger.InfoContext(ctx, "job activation changed",
		"job_id", jobID.String(),
		"is_active", active)
	return j, nil
}

// Lookup resolves an invite token to the public job summary. Inactive jobs
// still resolve so the form can explain the link is closed rather than
// pretend it never existed.
func (s *Service) Lookup(ctx context.Context, inviteToken string) (*Summary, error) {
	ctx, span := s.tracer.Start(ctx, "job.Lookup")
	defer span.End()

	if inviteToken == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invite token is required")
	}
	j, err := s.store.FindByInviteToken(ctx, inviteToken)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "job not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load job")
	}

	summary := &Summary{JobID: j.ID, Title: j.Title, IsActive: j.IsActive}
	if recruiter, err := s.recruiters.Recruiter(ctx, j.RecruiterID); err == nil {
		summary.CompanyName = recruiter.CompanyName
	}
	return summary, nil
}

func (s *Service) findOwned(ctx context.Context, recruiterID id.UserID, jobID id.JobID) (*models.Job, error) {
	j, err := s.store.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "job not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load job")
	}
	if j.RecruiterID != recruiterID {
		// Hide other recruiters' jobs entirely.
		return nil, dErrors.New(dErrors.CodeNotFound, "job not found")
	}
	return j, nil
}

// Detail is the cross-service view of a job: what the reference request
// flow needs to address emails and gate submissions.
type Detail struct {
	ID             id.JobID
	Title          string
	CompanyName    string
	IsActive       bool
	RecruiterID    id.UserID
	RecruiterName  string
	RecruiterEmail string
}

// DetailByInviteToken resolves an invite token to the full job detail.
func (s *Service) DetailByInviteToken(ctx context.Context, inviteToken string) (*Detail, error) {
	if inviteToken == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invite token is required")
	}
	j, err := s.store.FindByInviteToken(ctx, inviteToken)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "job not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load job")
	}
	return s.detail(ctx, j)
}

// DetailByID resolves a job ID to the full job detail.
func (s *Service) DetailByID(ctx context.Context, jobID id.JobID) (*Detail, error) {
	j, err := s.store.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "job not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load job")
	}
	return s.detail(ctx, j)
}

func (s *Service) detail(ctx context.Context, j *models.Job) (*Detail, error) {
	recruiter, err := s.recruiters.Recruiter(ctx, j.RecruiterID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve job recruiter")
	}
	return &Detail{
		ID:             j.ID,
		Title:          j.Title,
		CompanyName:    recruiter.CompanyName,
		IsActive:       j.IsActive,
		RecruiterID:    j.RecruiterID,
		RecruiterName:  recruiter.Name,
		RecruiterEmail: recruiter.Email,
	}, nil
}
