// Package service implements the referent lifecycle: token-gated decisions,
// pending-only edits, throttled reminders, post-confirm verification and
// reference questions. All mutating operations consult the status transition
// table before touching the store, and every email leaves via the
// fire-and-forget dispatcher after the state change has committed.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"ndoors/internal/notify"
	"ndoors/internal/notify/events"
	"ndoors/internal/platform/metrics"
	"ndoors/internal/referent/models"
	id "ndoors/pkg/domain"
	dErrors "ndoors/pkg/domain-errors"
	"ndoors/pkg/platform/sentinel"
	"ndoors/pkg/requestcontext"
)

// Store is the persistence port for referent records. Implementations
// signal facts with sentinel errors; the service owns the translation to
// domain errors.
type Store interface {
	Create(ctx context.Context, r *models.Referent) error
	FindByID(ctx context.Context, referentID id.ReferentID) (*models.Referent, error)
	FindByConfirmToken(ctx context.Context, token string) (*models.Referent, error)
	ListByRequest(ctx context.Context, requestID id.RequestID) ([]*models.Referent, error)
	DeleteByRequest(ctx context.Context, requestID id.RequestID) error
	ResolveDecision(ctx context.Context, referentID id.ReferentID, target models.Status, decidedAt time.Time) (*models.Referent, error)
	UpdateProfile(ctx context.Context, r *models.Referent) error
	SetLinkedIn(ctx context.Context, referentID id.ReferentID, url string) error
	SetQuestionsSent(ctx context.Context, referentID id.ReferentID, at time.Time) error
}

// MailInfo is the request-side context a referent email needs: who applied,
// for what, and which recruiter to notify or reply to.
type MailInfo struct {
	ApplicantName  string
	JobTitle       string
	CompanyName    string
	RecruiterID    id.UserID
	RecruiterName  string
	RecruiterEmail string
}

// MailInfoSource resolves mail context for a reference request. The request
// aggregator implements it; the lifecycle service stays ignorant of jobs
// and recruiters beyond what an email template needs.
type MailInfoSource interface {
	MailInfo(ctx context.Context, requestID id.RequestID) (*MailInfo, error)
}

// RemindThrottle limits reminders to one per referent per window.
type RemindThrottle interface {
	Acquire(ctx context.Context, referentID id.ReferentID, window time.Duration) (bool, error)
}

// Service orchestrates referent lifecycle operations.
type Service struct {
	store      Store
	mailInfo   MailInfoSource
	mailer     notify.Mailer
	dispatcher *notify.Dispatcher
	baseURL    string

	publisher    events.Publisher
	throttle     RemindThrottle
	remindWindow time.Duration
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithRemindThrottle bounds reminder frequency. Without it every remind
// call sends.
func WithRemindThrottle(t RemindThrottle, window time.Duration) Option {
	return func(s *Service) {
		s.throttle = t
		s.remindWindow = window
	}
}

// New constructs the lifecycle service. baseURL is the public origin used
// to build confirm links.
func New(store Store, mailInfo MailInfoSource, mailer notify.Mailer, dispatcher *notify.Dispatcher, baseURL string, opts ...Option) *Service {
	s := &Service{
		store:      store,
		mailInfo:   mailInfo,
		mailer:     mailer,
		dispatcher: dispatcher,
		baseURL:    baseURL,
		logger:     slog.Default(),
		tracer:     otel.Tracer("ndoors/internal/referent"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup loads the referent behind a confirm token, for rendering the
// decision page.
func (s *Service) Lookup(ctx context.Context, confirmToken string) (*models.Referent, error) {
	ctx, span := s.tracer.Start(ctx, "referent.Lookup")
	defer span.End()

	return s.findByToken(ctx, confirmToken)
}

func (s *Service) findByToken(ctx context.Context, confirmToken string) (*models.Referent, error) {
	if confirmToken == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "confirm token is required")
	}
	r, err := s.store.FindByConfirmToken(ctx, confirmToken)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no referent matches this link")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load referent")
	}
	return r, nil
}

func (s *Service) findByID(ctx context.Context, referentID id.ReferentID) (*models.Referent, error) {
	r, err := s.store.FindByID(ctx, referentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "referent not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load referent")
	}
	return r, nil
}

// confirmURL builds the public decision link for a confirm token.
func (s *Service) confirmURL(confirmToken string) string {
	return s.baseURL + "/confirm/" + confirmToken
}

// publish emits a lifecycle event. Publishing failures are logged facts,
// never operation failures.
func (s *Service) publish(ctx context.Context, action events.Action, r *models.Referent) {
	if s.publisher == nil {
		return
	}
	event := events.Event{
		Action:     action,
		Timestamp:  requestcontext.Now(ctx),
		ReferentID: r.ID.String(),
		RequestID:  r.RequestID.String(),
		Status:     string(r.Status),
		Device:     requestcontext.DeviceLabel(ctx),
		ClientIP:   requestcontext.ClientIP(ctx),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "lifecycle event publish failed",
			"action", string(action),
			"referent_id", r.ID.String(),
			"error", err)
	}
}

func spanReferentID(span trace.Span, referentID id.ReferentID) {
	span.SetAttributes(attribute.String("referent.id", referentID.String()))
}
