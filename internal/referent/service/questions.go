package service

import (
	"context"

	"ndoors/internal/notify"
	"ndoors/internal/notify/events"
	"ndoors/internal/referent/models"
	id "ndoors/pkg/domain"
	dErrors "ndoors/pkg/domain-errors"
	strutil "ndoors/pkg/platform/strings"
	"ndoors/pkg/requestcontext"
)

// SendQuestions emails reference questions to a confirmed referent, with
// Reply-To set to the recruiter so answers skip the platform entirely.
// Stamps questions_sent_at; resending later is allowed and restamps.
// Only the recruiter owning the job behind the referent may send.
func (s *Service) SendQuestions(ctx context.Context, recruiterID id.UserID, referentID id.ReferentID, questions []string) error {
	ctx, span := s.tracer.Start(ctx, "referent.SendQuestions")
	defer span.End()
	spanReferentID(span, referentID)

	questions = strutil.DedupeAndTrim(questions)
	if len(questions) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "at least one question is required")
	}

	r, info, err := s.findOwned(ctx, recruiterID, referentID)
	if err != nil {
		return err
	}
	if err := r.CanSendQuestions(); err != nil {
		return err
	}

	now := requestcontext.Now(ctx)
	if err := s.store.SetQuestionsSent(ctx, referentID, now); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to stamp questions sent")
	}
	r.ApplyQuestionsSent(now)

	payload := notify.ReferenceQuestions{
		ReferentEmail:  r.Email,
		ReferentName:   r.FirstName,
		ApplicantName:  info.ApplicantName,
		JobTitle:       info.JobTitle,
		CompanyName:    info.CompanyName,
		Questions:      questions,
		RecruiterEmail: info.RecruiterEmail,
		RecruiterName:  info.RecruiterName,
	}
	s.dispatcher.Go(ctx, "reference questions", func(sendCtx context.Context) error {
		return s.mailer.SendReferenceQuestions(sendCtx, payload)
	})

	s.metrics.IncrementQuestionsSent()
	s.publish(ctx, events.ActionQuestionsSent, r)
	s.logger.InfoContext(ctx, "reference questions dispatched",
		"referent_id", referentID.String(),
		"question_count", len(questions))
	return nil
}

// StockQuestionsFor returns the stock question set templated on the
// applicant behind a referent, for the recruiter UI to prefill.
func (s *Service) StockQuestionsFor(ctx context.Context, recruiterID id.UserID, referentID id.ReferentID) ([]string, error) {
	_, info, err := s.findOwned(ctx, recruiterID, referentID)
	if err != nil {
		return nil, err
	}
	return models.StockQuestions(info.ApplicantName), nil
}

// findOwned loads a referent together with its mail context and hides it
// from recruiters who do not own the job behind it. Resolving mail context
// up front also means a dangling request fails before any state change.
func (s *Service) findOwned(ctx context.Context, recruiterID id.UserID, referentID id.ReferentID) (*models.Referent, *MailInfo, error) {
	r, err := s.findByID(ctx, referentID)
	if err != nil {
		return nil, nil, err
	}
	info, err := s.mailInfo.MailInfo(ctx, r.RequestID)
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve reference request")
	}
	if info.RecruiterID != recruiterID {
		// Hide other recruiters' referents entirely.
		return nil, nil, dErrors.New(dErrors.CodeNotFound, "referent not found")
	}
	return r, info, nil
}
