package handler_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ndoors/internal/notify"
	"ndoors/internal/platform/metrics"
	"ndoors/internal/platform/middleware"
	"ndoors/internal/referent/handler"
	"ndoors/internal/referent/models"
	"ndoors/internal/referent/service"
	referentstore "ndoors/internal/referent/store/referent"
	id "ndoors/pkg/domain"
	"ndoors/pkg/testutil"
)

// testMetrics registers the Prometheus collectors once per test binary;
// registering per test panics on the second metrics.New call.
var testMetrics = metrics.New()

type stubMailInfo struct{ recruiterID id.UserID }

func (s stubMailInfo) MailInfo(context.Context, id.RequestID) (*service.MailInfo, error) {
	return &service.MailInfo{
		ApplicantName:  "Albin Applicant",
		JobTitle:       "Staff Engineer",
		CompanyName:    "Acme AB",
		RecruiterID:    s.recruiterID,
		RecruiterName:  "Rita Recruiter",
		RecruiterEmail: "rita@acme.example",
	}, nil
}

type stubValidator struct{ userID string }

func (v stubValidator) ValidateToken(_ context.Context, _ string) (*middleware.SessionClaims, error) {
	return &middleware.SessionClaims{UserID: v.userID, TokenID: "jti-test"}, nil
}

type fixture struct {
	router    chi.Router
	store     *referentstore.InMemory
	mailer    *notify.MemoryMailer
	svc       *service.Service
	referent  *models.Referent
	recruiter id.UserID
}

// newFixture wires the handler over a real service; the signed-in session
// belongs to the recruiter behind the seeded referent's request.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := referentstore.NewInMemory()
	mailer := notify.NewMemoryMailer()
	dispatcher := notify.NewDispatcher(logger, testMetrics)
	recruiter := id.NewUserID()
	mailInfo := stubMailInfo{recruiterID: recruiter}
	svc := service.New(store, mailInfo, mailer, dispatcher, "https://app.ndoors.test",
		service.WithLogger(logger))

	referent, err := models.NewReferent(id.NewReferentID(), id.NewRequestID(), models.Profile{
		FirstName: "Maja", LastName: "Manager", Email: "maja@prev.example", Relationship: "manager",
	}, "confirm-token-1", "revoke-token-1", time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), referent))

	r := chi.NewRouter()
	h := handler.New(svc, mailInfo, logger, stubValidator{userID: recruiter.String()})
	h.Register(r)

	return &fixture{router: r, store: store, mailer: mailer, svc: svc, referent: referent, recruiter: recruiter}
}

// routerAs mounts the same handlers behind a session for a different user.
func (f *fixture) routerAs(userID id.UserID) chi.Router {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	h := handler.New(f.svc, stubMailInfo{recruiterID: f.recruiter}, logger, stubValidator{userID: userID.String()})
	h.Register(r)
	return r
}

func TestDecisionPage(t *testing.T) {
	f := newFixture(t)

	req := testutil.NewRequest(t, http.MethodGet, "/confirm/confirm-token-1")
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "referent_first_name", "Maja")
	testutil.AssertJSONContains(t, rr, "applicant_name", "Albin Applicant")
	testutil.AssertJSONContains(t, rr, "resolved", false)
}

func TestDecisionPage_UnknownToken(t *testing.T) {
	f := newFixture(t)

	req := testutil.NewRequest(t, http.MethodGet, "/confirm/no-such-token")
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}

func TestDecide_Confirm(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/confirm/confirm-token-1", map[string]string{"decision": "confirm"})
	req = testutil.WithTime(req, now)
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "outcome", "confirmed")

	stored, err := f.store.FindByID(context.Background(), f.referent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, stored.Status)
	require.NotNil(t, stored.ConfirmedAt)
	assert.True(t, stored.ConfirmedAt.Equal(now))
}

func TestDecide_Replay(t *testing.T) {
	f := newFixture(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/confirm/confirm-token-1", map[string]string{"decision": "decline"})
	rr := testutil.DoRequest(f.router, req)
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "outcome", "declined")

	// The same link again reports the settled state instead of erroring.
	req = testutil.NewJSONRequest(t, http.MethodPost, "/confirm/confirm-token-1", map[string]string{"decision": "decline"})
	rr = testutil.DoRequest(f.router, req)
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "outcome", "already-resolved")
}

func TestDecide_BadDecision(t *testing.T) {
	f := newFixture(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/confirm/confirm-token-1", map[string]string{"decision": "maybe"})
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "invalid_input")
}

func TestVerify_LinkedIn(t *testing.T) {
	f := newFixture(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/confirm/confirm-token-1", map[string]string{"decision": "confirm"})
	rr := testutil.DoRequest(f.router, req)
	testutil.AssertStatusOK(t, rr)

	req = testutil.NewJSONRequest(t, http.MethodPost, "/confirm/confirm-token-1/verify", map[string]string{
		"linkedin_url": "https://www.linkedin.com/in/maja-manager",
	})
	rr = testutil.DoRequest(f.router, req)
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "linkedin_url", "https://www.linkedin.com/in/maja-manager")
}

func TestSendQuestions_RequiresConfirmedReferent(t *testing.T) {
	f := newFixture(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/referents/"+f.referent.ID.String()+"/questions/",
		map[string]any{"questions": []string{"How long did you work together?"}})
	req.Header.Set("Authorization", "Bearer any")
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatus(t, rr, http.StatusConflict)
}

func TestQuestions_OtherRecruiterGetsNotFound(t *testing.T) {
	f := newFixture(t)

	// Confirm first so only ownership stands between the caller and a send.
	req := testutil.NewJSONRequest(t, http.MethodPost, "/confirm/confirm-token-1", map[string]string{"decision": "confirm"})
	testutil.AssertStatusOK(t, testutil.DoRequest(f.router, req))

	stranger := f.routerAs(id.NewUserID())

	req = testutil.NewJSONRequest(t, http.MethodPost, "/api/referents/"+f.referent.ID.String()+"/questions/",
		map[string]any{"questions": []string{"How long did you work together?"}})
	req.Header.Set("Authorization", "Bearer any")
	rr := testutil.DoRequest(stranger, req)
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	assert.Empty(t, f.mailer.SentQuestions())

	req = testutil.NewRequest(t, http.MethodGet, "/api/referents/"+f.referent.ID.String()+"/questions/stock")
	req.Header.Set("Authorization", "Bearer any")
	rr = testutil.DoRequest(stranger, req)
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}

func TestStockQuestions(t *testing.T) {
	f := newFixture(t)

	req := testutil.NewRequest(t, http.MethodGet, "/api/referents/"+f.referent.ID.String()+"/questions/stock")
	req.Header.Set("Authorization", "Bearer any")
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONHasKey(t, rr, "questions")
}
