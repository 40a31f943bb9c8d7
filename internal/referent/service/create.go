package service

import (
	"context"
	"errors"

	"ndoors/internal/notify/events"
	"ndoors/internal/referent/models"
	id "ndoors/pkg/domain"
	dErrors "ndoors/pkg/domain-errors"
	"ndoors/pkg/platform/sentinel"
	"ndoors/pkg/requestcontext"
	"ndoors/pkg/token"
)

// Nominate creates the referent set for a reference request: one record per
// profile, each with fresh confirm and revoke tokens, each starting in sent
// with an invite email on the way. The request aggregator calls this after
// it has settled which request the referents belong to.
func (s *Service) Nominate(ctx context.Context, requestID id.RequestID, profiles []models.Profile) ([]*models.Referent, error) {
	ctx, span := s.tracer.Start(ctx, "referent.Nominate")
	defer span.End()

	if len(profiles) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "at least one referent is required")
	}

	now := requestcontext.Now(ctx)
	referents := make([]*models.Referent, 0, len(profiles))
	for i := range profiles {
		confirmToken, err := token.Confirm()
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mint confirm token")
		}
		revokeToken, err := token.Revoke()
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mint revoke token")
		}
		r, err := models.NewReferent(id.NewReferentID(), requestID, profiles[i], confirmToken, revokeToken, now)
		if err != nil {
			return nil, err
		}
		referents = append(referents, r)
	}

	for _, r := range referents {
		if err := s.store.Create(ctx, r); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return nil, dErrors.New(dErrors.CodeConflict, "referent could not be created")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create referent")
		}
	}

	for _, r := range referents {
		s.metrics.IncrementReferentsCreated()
		s.publish(ctx, events.ActionReferentCreated, r)
		s.sendInvite(ctx, r)
	}

	s.logger.InfoContext(ctx, "referents nominated",
		"request_id", requestID.String(),
		"count", len(referents))
	return referents, nil
}

// ListByRequest returns the referent set for a request, creation order.
func (s *Service) ListByRequest(ctx context.Context, requestID id.RequestID) ([]*models.Referent, error) {
	referents, err := s.store.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list referents")
	}
	return referents, nil
}

// DeleteByRequest removes a request's referent set. Resubmission replaces
// referents wholesale rather than diffing them.
func (s *Service) DeleteByRequest(ctx context.Context, requestID id.RequestID) error {
	if err := s.store.DeleteByRequest(ctx, requestID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete referents")
	}
	return nil
}
