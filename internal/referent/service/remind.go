package service

import (
	"context"

	"ndoors/internal/notify/events"
	id "ndoors/pkg/domain"
	dErrors "ndoors/pkg/domain-errors"
)

// Remind resends the invite email with the referent's current confirm
// token. Pending referents only; a resolved referent yields
// CodeAlreadyResponded so the caller can hide the action. Reminders are
// throttled to one per referent per window when a throttle is configured.
func (s *Service) Remind(ctx context.Context, referentID id.ReferentID) error {
	ctx, span := s.tracer.Start(ctx, "referent.Remind")
	defer span.End()
	spanReferentID(span, referentID)

	r, err := s.findByID(ctx, referentID)
	if err != nil {
		return err
	}
	if err := r.CanRemind(); err != nil {
		return err
	}

	if s.throttle != nil {
		acquired, err := s.throttle.Acquire(ctx, referentID, s.remindWindow)
		if err != nil {
			// Throttle backend trouble must not block reminders; log and send.
			s.logger.WarnContext(ctx, "reminder throttle unavailable",
				"referent_id", referentID.String(),
				"error", err)
		} else if !acquired {
			return dErrors.New(dErrors.CodeConflict, "a reminder was already sent recently")
		}
	}

	s.sendInvite(ctx, r)
	s.metrics.IncrementRemindersSent()
	s.publish(ctx, events.ActionReminderSent, r)
	s.logger.InfoContext(ctx, "reminder dispatched", "referent_id", referentID.String())
	return nil
}
