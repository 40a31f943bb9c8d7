package service

import (
	"context"
	"errors"

	"ndoors/internal/notify"
	"ndoors/internal/notify/events"
	"ndoors/internal/referent/models"
	id "ndoors/pkg/domain"
	dErrors "ndoors/pkg/domain-errors"
	"ndoors/pkg/platform/sentinel"
	"ndoors/pkg/token"
)

// EditResult reports a profile update. EmailChanged means both capability
// tokens were rotated; the caller decides whether to offer a resend, which
// goes through Remind so the throttle still applies.
type EditResult struct {
	Referent     *models.Referent
	EmailChanged bool
}

// Edit updates a pending referent's profile. An email change rotates the
// confirm and revoke tokens in the same store write, so links mailed to the
// old address stop resolving the moment the edit lands.
func (s *Service) Edit(ctx context.Context, referentID id.ReferentID, profile models.Profile) (*EditResult, error) {
	ctx, span := s.tracer.Start(ctx, "referent.Edit")
	defer span.End()
	spanReferentID(span, referentID)

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	r, err := s.findByID(ctx, referentID)
	if err != nil {
		return nil, err
	}
	if err := r.CanEdit(); err != nil {
		return nil, err
	}

	// Fresh tokens are always minted; the model only adopts them when the
	// email actually changed.
	newConfirm, err := token.Confirm()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mint confirm token")
	}
	newRevoke, err := token.Revoke()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mint revoke token")
	}

	emailChanged := r.ApplyProfileUpdate(profile, newConfirm, newRevoke)

	if err := s.store.UpdateProfile(ctx, r); err != nil {
		// The conditional write lost to a concurrent decision; the referent
		// is no longer editable.
		if errors.Is(err, sentinel.ErrAlreadyResolved) {
			return nil, dErrors.New(dErrors.CodeInvalidState, "referent can no longer be edited")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update referent")
	}

	s.publish(ctx, events.ActionReferentEdited, r)
	s.logger.InfoContext(ctx, "referent profile updated",
		"referent_id", r.ID.String(),
		"email_changed", emailChanged)

	return &EditResult{Referent: r, EmailChanged: emailChanged}, nil
}

// sendInvite dispatches the confirm-link email to the referent's current
// address.
func (s *Service) sendInvite(ctx context.Context, r *models.Referent) {
	referentEmail := r.Email
	referentName := r.FirstName
	confirmURL := s.confirmURL(r.ConfirmToken)
	requestID := r.RequestID

	s.dispatcher.Go(ctx, "referent invite", func(sendCtx context.Context) error {
		info, err := s.mailInfo.MailInfo(sendCtx, requestID)
		if err != nil {
			return err
		}
		return s.mailer.SendReferentInvite(sendCtx, notify.ReferentInvite{
			ReferentEmail: referentEmail,
			ReferentName:  referentName,
			ApplicantName: info.ApplicantName,
			JobTitle:      info.JobTitle,
			CompanyName:   info.CompanyName,
			ConfirmURL:    confirmURL,
		})
	})
}
