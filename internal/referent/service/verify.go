package service

import (
	"context"
	"strings"

	"ndoors/internal/notify/events"
	"ndoors/internal/referent/models"
	dErrors "ndoors/pkg/domain-errors"
)

// SaveLinkedIn records a confirmed referent's self-asserted LinkedIn
// profile, which raises their verification level. Gated by the confirm
// token like the decision itself.
func (s *Service) SaveLinkedIn(ctx context.Context, confirmToken, url string) (*models.Referent, error) {
	ctx, span := s.tracer.Start(ctx, "referent.SaveLinkedIn")
	defer span.End()

	url = strings.TrimSpace(url)
	if url == "" || !strings.Contains(strings.ToLower(url), "linkedin.com") {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "a linkedin.com profile URL is required")
	}

	r, err := s.findByToken(ctx, confirmToken)
	if err != nil {
		return nil, err
	}
	spanReferentID(span, r.ID)

	if err := r.CanVerify(); err != nil {
		return nil, err
	}

	if err := s.store.SetLinkedIn(ctx, r.ID, url); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save linkedin URL")
	}
	r.ApplyLinkedIn(url)

	s.publish(ctx, events.ActionLinkedInSaved, r)
	return r, nil
}
