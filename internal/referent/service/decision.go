package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"

	"ndoors/internal/notify"
	"ndoors/internal/notify/events"
	"ndoors/internal/referent/models"
	dErrors "ndoors/pkg/domain-errors"
	"ndoors/pkg/platform/sentinel"
	"ndoors/pkg/requestcontext"
)

// DecisionResult reports the outcome of a confirm or decline. A replayed
// link is a success from the referent's point of view: AlreadyResolved is
// set and Referent carries the standing outcome.
type DecisionResult struct {
	Referent        *models.Referent
	AlreadyResolved bool
}

// Confirm records the referent's consent to be contacted. Idempotent:
// clicking a link twice reports the standing outcome instead of erroring.
func (s *Service) Confirm(ctx context.Context, confirmToken string) (*DecisionResult, error) {
	return s.decide(ctx, confirmToken, models.StatusConfirmed)
}

// Decline records the referent's refusal.
func (s *Service) Decline(ctx context.Context, confirmToken string) (*DecisionResult, error) {
	return s.decide(ctx, confirmToken, models.StatusDeclined)
}

func (s *Service) decide(ctx context.Context, confirmToken string, target models.Status) (*DecisionResult, error) {
	ctx, span := s.tracer.Start(ctx, "referent.decide")
	defer span.End()
	span.SetAttributes(attribute.String("referent.decision", string(target)))

	r, err := s.findByToken(ctx, confirmToken)
	if err != nil {
		return nil, err
	}
	spanReferentID(span, r.ID)

	if r.Status.IsResolved() {
		return &DecisionResult{Referent: r, AlreadyResolved: true}, nil
	}
	if err := r.CanDecide(target); err != nil {
		return nil, err
	}

	updated, err := s.store.ResolveDecision(ctx, r.ID, target, requestcontext.Now(ctx))
	if err != nil {
		// A concurrent click won the conditional update. Surface whatever
		// outcome now stands.
		if errors.Is(err, sentinel.ErrAlreadyResolved) {
			resolved, findErr := s.findByID(ctx, r.ID)
			if findErr != nil {
				return nil, findErr
			}
			return &DecisionResult{Referent: resolved, AlreadyResolved: true}, nil
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "referent not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record decision")
	}

	switch target {
	case models.StatusConfirmed:
		s.metrics.IncrementReferentsConfirmed()
		s.publish(ctx, events.ActionReferentConfirmed, updated)
		s.notifyRecruiter(ctx, updated)
	case models.StatusDeclined:
		s.metrics.IncrementReferentsDeclined()
		s.publish(ctx, events.ActionReferentDeclined, updated)
	}

	s.logger.InfoContext(ctx, "referent decision recorded",
		"referent_id", updated.ID.String(),
		"status", string(updated.Status))

	return &DecisionResult{Referent: updated}, nil
}

// notifyRecruiter tells the recruiter a referent confirmed. Runs after
// commit on the dispatcher: mail context resolution and delivery failures
// stay out of the referent's result.
func (s *Service) notifyRecruiter(ctx context.Context, r *models.Referent) {
	referentName := r.FullName()
	referentEmail := r.Email
	requestID := r.RequestID

	s.dispatcher.Go(ctx, "recruiter notification", func(sendCtx context.Context) error {
		info, err := s.mailInfo.MailInfo(sendCtx, requestID)
		if err != nil {
			return err
		}
		return s.mailer.SendRecruiterNotification(sendCtx, notify.RecruiterNotification{
			RecruiterEmail: info.RecruiterEmail,
			RecruiterName:  info.RecruiterName,
			ReferentName:   referentName,
			ReferentEmail:  referentEmail,
			ApplicantName:  info.ApplicantName,
			JobTitle:       info.JobTitle,
		})
	})
}
