//go:build integration

package integration_tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authmodels "ndoors/internal/auth/models"
	companystore "ndoors/internal/auth/store/company"
	userstore "ndoors/internal/auth/store/user"
	jobmodels "ndoors/internal/job/models"
	jobstore "ndoors/internal/job/store/job"
	referentmodels "ndoors/internal/referent/models"
	referentstore "ndoors/internal/referent/store/referent"
	requestmodels "ndoors/internal/request/models"
	requeststore "ndoors/internal/request/store/request"
	id "ndoors/pkg/domain"
	"ndoors/pkg/platform/sentinel"
	"ndoors/pkg/testutil/containers"
	"ndoors/pkg/token"
)

// seed creates the company -> user -> job -> request chain the referents
// table hangs off.
func seed(ctx context.Context, t *testing.T, pg *containers.PostgresContainer) *requestmodels.ReferenceRequest {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)

	company, err := authmodels.NewCompany(id.NewCompanyID(), "Acme AB", "556000-0000", now)
	require.NoError(t, err)
	require.NoError(t, companystore.NewPostgres(pg.DB).Create(ctx, company))

	user, err := authmodels.NewUser(id.NewUserID(), "Rita", "Recruiter", "rita@acme.example", "hash", now)
	require.NoError(t, err)
	require.NoError(t, userstore.NewPostgres(pg.DB).Create(ctx, user))
	require.NoError(t, userstore.NewPostgres(pg.DB).SetCompany(ctx, user.ID, company.ID, "Talent Lead"))

	inviteToken, err := token.Invite()
	require.NoError(t, err)
	job, err := jobmodels.NewJob(id.NewJobID(), user.ID, company.ID, "Staff Engineer", inviteToken, now)
	require.NoError(t, err)
	require.NoError(t, jobstore.NewPostgres(pg.DB).Create(ctx, job))

	applicantToken, err := token.Applicant()
	require.NoError(t, err)
	request, err := requestmodels.NewReferenceRequest(id.NewRequestID(), job.ID, "Albin Applicant", "albin@example.com", applicantToken, now)
	require.NoError(t, err)
	require.NoError(t, requeststore.NewPostgres(pg.DB).Create(ctx, request))

	return request
}

func newReferent(t *testing.T, requestID id.RequestID, email string) *referentmodels.Referent {
	t.Helper()
	confirm, err := token.Confirm()
	require.NoError(t, err)
	revoke, err := token.Revoke()
	require.NoError(t, err)
	r, err := referentmodels.NewReferent(id.NewReferentID(), requestID, referentmodels.Profile{
		FirstName: "Maja", LastName: "Manager", Email: email, Relationship: "manager",
	}, confirm, revoke, time.Now().UTC().Truncate(time.Microsecond))
	require.NoError(t, err)
	return r
}

func TestPostgresStores(t *testing.T) {
	ctx := context.Background()
	pg := containers.NewPostgresContainer(t)
	store := referentstore.NewPostgres(pg.DB)

	t.Run("decision is settled exactly once", func(t *testing.T) {
		require.NoError(t, pg.TruncateAll(ctx))
		request := seed(ctx, t, pg)

		r := newReferent(t, request.ID, "maja@prev.example")
		require.NoError(t, store.Create(ctx, r))

		decidedAt := time.Now().UTC().Truncate(time.Microsecond)
		confirmed, err := store.ResolveDecision(ctx, r.ID, referentmodels.StatusConfirmed, decidedAt)
		require.NoError(t, err)
		assert.Equal(t, referentmodels.StatusConfirmed, confirmed.Status)
		require.NotNil(t, confirmed.ConfirmedAt)

		_, err = store.ResolveDecision(ctx, r.ID, referentmodels.StatusDeclined, decidedAt)
		assert.True(t, errors.Is(err, sentinel.ErrAlreadyResolved))

		found, err := store.FindByID(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, referentmodels.StatusConfirmed, found.Status)
	})

	t.Run("profile update rotates tokens", func(t *testing.T) {
		require.NoError(t, pg.TruncateAll(ctx))
		request := seed(ctx, t, pg)

		r := newReferent(t, request.ID, "maja@prev.example")
		require.NoError(t, store.Create(ctx, r))
		oldConfirm := r.ConfirmToken

		newConfirm, err := token.Confirm()
		require.NoError(t, err)
		newRevoke, err := token.Revoke()
		require.NoError(t, err)
		r.ApplyProfileUpdate(referentmodels.Profile{
			FirstName: "Maja", LastName: "Manager", Email: "maja@new.example", Relationship: "manager",
		}, newConfirm, newRevoke)
		require.NoError(t, store.UpdateProfile(ctx, r))

		_, err = store.FindByConfirmToken(ctx, oldConfirm)
		assert.True(t, errors.Is(err, sentinel.ErrNotFound))

		found, err := store.FindByConfirmToken(ctx, newConfirm)
		require.NoError(t, err)
		assert.Equal(t, "maja@new.example", found.Email)
	})

	t.Run("profile update loses against a settled decision", func(t *testing.T) {
		require.NoError(t, pg.TruncateAll(ctx))
		request := seed(ctx, t, pg)

		r := newReferent(t, request.ID, "maja@prev.example")
		require.NoError(t, store.Create(ctx, r))

		_, err := store.ResolveDecision(ctx, r.ID, referentmodels.StatusConfirmed, time.Now().UTC().Truncate(time.Microsecond))
		require.NoError(t, err)

		newConfirm, err := token.Confirm()
		require.NoError(t, err)
		newRevoke, err := token.Revoke()
		require.NoError(t, err)
		r.ApplyProfileUpdate(referentmodels.Profile{
			FirstName: "Maja", LastName: "Manager", Email: "maja@new.example", Relationship: "manager",
		}, newConfirm, newRevoke)
		err = store.UpdateProfile(ctx, r)
		assert.True(t, errors.Is(err, sentinel.ErrAlreadyResolved))

		found, err := store.FindByID(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, referentmodels.StatusConfirmed, found.Status)
		assert.Equal(t, "maja@prev.example", found.Email)
	})

	t.Run("resubmission replaces the referent set", func(t *testing.T) {
		require.NoError(t, pg.TruncateAll(ctx))
		request := seed(ctx, t, pg)

		require.NoError(t, store.Create(ctx, newReferent(t, request.ID, "a@prev.example")))
		require.NoError(t, store.Create(ctx, newReferent(t, request.ID, "b@prev.example")))
		require.NoError(t, store.DeleteByRequest(ctx, request.ID))
		require.NoError(t, store.Create(ctx, newReferent(t, request.ID, "c@prev.example")))

		listed, err := store.ListByRequest(ctx, request.ID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, "c@prev.example", listed[0].Email)
	})

	t.Run("one request per applicant per job", func(t *testing.T) {
		require.NoError(t, pg.TruncateAll(ctx))
		request := seed(ctx, t, pg)

		applicantToken, err := token.Applicant()
		require.NoError(t, err)
		dup, err := requestmodels.NewReferenceRequest(id.NewRequestID(), request.JobID,
			"Albin Applicant", "ALBIN@example.com", applicantToken, time.Now().UTC())
		require.NoError(t, err)
		err = requeststore.NewPostgres(pg.DB).Create(ctx, dup)
		assert.True(t, errors.Is(err, sentinel.ErrConflict))
	})
}
