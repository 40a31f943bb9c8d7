package referent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"ndoors/internal/referent/models"
	id "ndoors/pkg/domain"
	"ndoors/pkg/platform/sentinel"
	"ndoors/pkg/token"
)

type ReferentStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestReferentStoreSuite(t *testing.T) {
	suite.Run(t, new(ReferentStoreSuite))
}

func (s *ReferentStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *ReferentStoreSuite) newReferent(requestID id.RequestID) *models.Referent {
	confirm, err := token.Confirm()
	s.Require().NoError(err)
	revoke, err := token.Revoke()
	s.Require().NoError(err)

	r, err := models.NewReferent(id.NewReferentID(), requestID, models.Profile{
		FirstName:    "Erik",
		LastName:     "Berg",
		Email:        "erik@example.com",
		Relationship: "Colleague",
	}, confirm, revoke, time.Now())
	s.Require().NoError(err)
	return r
}

func (s *ReferentStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds by ID and by token", func() {
		r := s.newReferent(id.NewRequestID())
		s.Require().NoError(s.store.Create(s.ctx, r))

		found, err := s.store.FindByID(s.ctx, r.ID)
		s.Require().NoError(err)
		s.Equal(r.Email, found.Email)

		found, err = s.store.FindByConfirmToken(s.ctx, r.ConfirmToken)
		s.Require().NoError(err)
		s.Equal(r.ID, found.ID)
	})

	s.Run("returns ErrNotFound for unknown lookups", func() {
		_, err := s.store.FindByID(s.ctx, id.NewReferentID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		_, err = s.store.FindByConfirmToken(s.ctx, "no-such-token")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects duplicate confirm token", func() {
		a := s.newReferent(id.NewRequestID())
		b := s.newReferent(id.NewRequestID())
		b.ConfirmToken = a.ConfirmToken

		s.Require().NoError(s.store.Create(s.ctx, a))
		s.Require().ErrorIs(s.store.Create(s.ctx, b), sentinel.ErrConflict)
	})

	s.Run("returned records are copies", func() {
		r := s.newReferent(id.NewRequestID())
		s.Require().NoError(s.store.Create(s.ctx, r))

		found, err := s.store.FindByID(s.ctx, r.ID)
		s.Require().NoError(err)
		found.Email = "mutated@example.com"

		again, err := s.store.FindByID(s.ctx, r.ID)
		s.Require().NoError(err)
		s.Equal("erik@example.com", again.Email)
	})
}

func (s *ReferentStoreSuite) TestResolveDecision() {
	s.Run("confirms a pending referent and stamps confirmed_at", func() {
		r := s.newReferent(id.NewRequestID())
		s.Require().NoError(s.store.Create(s.ctx, r))

		decidedAt := time.Date(2026, 4, 2, 10, 30, 0, 0, time.UTC)
		updated, err := s.store.ResolveDecision(s.ctx, r.ID, models.StatusConfirmed, decidedAt)
		s.Require().NoError(err)
		s.Equal(models.StatusConfirmed, updated.Status)
		s.Require().NotNil(updated.ConfirmedAt)
		s.Equal(decidedAt, *updated.ConfirmedAt)
	})

	s.Run("second decision reports already resolved", func() {
		r := s.newReferent(id.NewRequestID())
		s.Require().NoError(s.store.Create(s.ctx, r))

		_, err := s.store.ResolveDecision(s.ctx, r.ID, models.StatusConfirmed, time.Now())
		s.Require().NoError(err)

		_, err = s.store.ResolveDecision(s.ctx, r.ID, models.StatusDeclined, time.Now())
		s.Require().ErrorIs(err, sentinel.ErrAlreadyResolved)

		found, err := s.store.FindByID(s.ctx, r.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusConfirmed, found.Status)
	})

	s.Run("decline leaves confirmed_at unset", func() {
		r := s.newReferent(id.NewRequestID())
		s.Require().NoError(s.store.Create(s.ctx, r))

		updated, err := s.store.ResolveDecision(s.ctx, r.ID, models.StatusDeclined, time.Now())
		s.Require().NoError(err)
		s.Equal(models.StatusDeclined, updated.Status)
		s.Nil(updated.ConfirmedAt)
	})

	s.Run("unknown referent reports not found", func() {
		_, err := s.store.ResolveDecision(s.ctx, id.NewReferentID(), models.StatusConfirmed, time.Now())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *ReferentStoreSuite) TestUpdateProfile() {
	s.Run("rotated token replaces the lookup entry", func() {
		r := s.newReferent(id.NewRequestID())
		s.Require().NoError(s.store.Create(s.ctx, r))
		oldToken := r.ConfirmToken

		r.Email = "new@example.com"
		r.ConfirmToken = "rotated-token-abc"
		r.RevokeToken = "rotated-revoke-xyz"
		s.Require().NoError(s.store.UpdateProfile(s.ctx, r))

		_, err := s.store.FindByConfirmToken(s.ctx, oldToken)
		s.Require().ErrorIs(err, sentinel.ErrNotFound, "old link must stop working")

		found, err := s.store.FindByConfirmToken(s.ctx, "rotated-token-abc")
		s.Require().NoError(err)
		s.Equal("new@example.com", found.Email)
	})

	s.Run("resolved referent reports already resolved", func() {
		r := s.newReferent(id.NewRequestID())
		s.Require().NoError(s.store.Create(s.ctx, r))

		_, err := s.store.ResolveDecision(s.ctx, r.ID, models.StatusConfirmed, time.Now())
		s.Require().NoError(err)

		r.Email = "new@example.com"
		r.ConfirmToken = "rotated-token-abc"
		s.Require().ErrorIs(s.store.UpdateProfile(s.ctx, r), sentinel.ErrAlreadyResolved)

		// The settled record keeps its status and email.
		found, err := s.store.FindByID(s.ctx, r.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusConfirmed, found.Status)
		s.Equal("erik@example.com", found.Email)
	})

	s.Run("unknown referent reports not found", func() {
		r := s.newReferent(id.NewRequestID())
		s.Require().ErrorIs(s.store.UpdateProfile(s.ctx, r), sentinel.ErrNotFound)
	})
}

func (s *ReferentStoreSuite) TestRequestScopedOperations() {
	s.Run("lists and deletes by owning request", func() {
		requestID := id.NewRequestID()
		other := id.NewRequestID()

		a := s.newReferent(requestID)
		b := s.newReferent(requestID)
		b.Email = "b@example.com"
		c := s.newReferent(other)
		for _, r := range []*models.Referent{a, b, c} {
			s.Require().NoError(s.store.Create(s.ctx, r))
		}

		listed, err := s.store.ListByRequest(s.ctx, requestID)
		s.Require().NoError(err)
		s.Len(listed, 2)

		s.Require().NoError(s.store.DeleteByRequest(s.ctx, requestID))

		listed, err = s.store.ListByRequest(s.ctx, requestID)
		s.Require().NoError(err)
		s.Empty(listed)

		// Deleted referents' tokens are gone too.
		_, err = s.store.FindByConfirmToken(s.ctx, a.ConfirmToken)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		// Other requests untouched.
		listed, err = s.store.ListByRequest(s.ctx, other)
		s.Require().NoError(err)
		s.Len(listed, 1)
	})
}

func (s *ReferentStoreSuite) TestVerificationWrites() {
	r := s.newReferent(id.NewRequestID())
	s.Require().NoError(s.store.Create(s.ctx, r))

	s.Require().NoError(s.store.SetLinkedIn(s.ctx, r.ID, "https://linkedin.com/in/erik"))
	at := time.Now()
	s.Require().NoError(s.store.SetQuestionsSent(s.ctx, r.ID, at))

	found, err := s.store.FindByID(s.ctx, r.ID)
	s.Require().NoError(err)
	s.Equal("https://linkedin.com/in/erik", found.LinkedInURL)
	s.Require().NotNil(found.QuestionsSentAt)
	s.Equal(at, *found.QuestionsSentAt)

	s.Require().ErrorIs(s.store.SetLinkedIn(s.ctx, id.NewReferentID(), "x"), sentinel.ErrNotFound)
}
