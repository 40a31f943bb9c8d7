// Package integration_tests drives the full reference-checking workflow
// through the HTTP stack: recruiter signup and onboarding, job creation,
// applicant submission, referent confirmation, and reference questions.
package integration_tests

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authhandler "ndoors/internal/auth/handler"
	authjwt "ndoors/internal/auth/jwt"
	authservice "ndoors/internal/auth/service"
	companystore "ndoors/internal/auth/store/company"
	"ndoors/internal/auth/store/revocation"
	userstore "ndoors/internal/auth/store/user"
	jobhandler "ndoors/internal/job/handler"
	jobservice "ndoors/internal/job/service"
	jobstore "ndoors/internal/job/store/job"
	"ndoors/internal/notify"
	"ndoors/internal/platform/metrics"
	referenthandler "ndoors/internal/referent/handler"
	referentservice "ndoors/internal/referent/service"
	referentstore "ndoors/internal/referent/store/referent"
	requesthandler "ndoors/internal/request/handler"
	requestservice "ndoors/internal/request/service"
	requeststore "ndoors/internal/request/store/request"
	httptransport "ndoors/internal/transport/http"
	"ndoors/pkg/testutil"
)

const baseURL = "https://app.ndoors.test"

// testMetrics registers the Prometheus collectors once per test binary;
// registering per test panics on the second metrics.New call.
var testMetrics = metrics.New()

type env struct {
	router     http.Handler
	mailer     *notify.MemoryMailer
	dispatcher *notify.Dispatcher
}

func newEnv(t *testing.T) *env {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mailer := notify.NewMemoryMailer()
	dispatcher := notify.NewDispatcher(logger, testMetrics)

	requests := requeststore.NewInMemory()

	auth := authservice.New(
		userstore.NewInMemory(), companystore.NewInMemory(), revocation.NewInMemory(),
		authjwt.NewManager("integration-test-key"), time.Hour,
		authservice.WithLogger(logger),
	)
	jobs := jobservice.New(jobstore.NewInMemory(), auth, jobservice.WithLogger(logger))
	mailInfo := requestservice.NewMailInfoResolver(requests, jobs)
	referents := referentservice.New(
		referentstore.NewInMemory(), mailInfo, mailer, dispatcher, baseURL,
		referentservice.WithLogger(logger),
	)
	requestSvc := requestservice.New(requests, jobs, referents, requestservice.WithLogger(logger))

	router := httptransport.NewRouter(logger, nil, func() error { return nil },
		authhandler.New(auth, logger, auth),
		jobhandler.New(jobs, requestSvc, logger, auth),
		requesthandler.New(requestSvc, jobs, referents, logger),
		referenthandler.New(referents, mailInfo, logger, auth),
	)

	return &env{router: router, mailer: mailer, dispatcher: dispatcher}
}

func (e *env) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var req *http.Request
	if body != nil {
		req = testutil.NewJSONRequest(t, method, path, body)
	} else {
		req = testutil.NewRequest(t, method, path)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := testutil.DoRequest(e.router, req)

	var decoded map[string]any
	if rr.Body.Len() > 0 {
		decoded = *testutil.UnmarshalResponse[map[string]any](t, rr)
	}
	return rr, decoded
}

func TestReferenceWorkflow_EndToEnd(t *testing.T) {
	e := newEnv(t)

	// Recruiter signs up and completes onboarding.
	rr, session := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"first_name": "Rita",
		"last_name":  "Recruiter",
		"email":      "rita@acme.example",
		"password":   "s3cret-enough",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	token, _ := session["token"].(string)
	require.NotEmpty(t, token)

	rr, _ = e.do(t, http.MethodPost, "/api/auth/onboarding", token, map[string]string{
		"company_name": "Acme AB",
		"org_number":   "556000-0000",
		"job_title":    "Talent Lead",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	// Job creation yields the invite link.
	rr, job := e.do(t, http.MethodPost, "/api/jobs/", token, map[string]string{"title": "Staff Engineer"})
	require.Equal(t, http.StatusCreated, rr.Code)
	inviteToken, _ := job["invite_token"].(string)
	jobID, _ := job["id"].(string)
	require.NotEmpty(t, inviteToken)

	// Applicant opens the invite link and sees the job.
	rr, summary := e.do(t, http.MethodGet, "/ref/"+inviteToken, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Staff Engineer", summary["title"])
	assert.Equal(t, "Acme AB", summary["company_name"])

	// Applicant submits two referents.
	rr, submitted := e.do(t, http.MethodPost, "/ref/"+inviteToken, "", map[string]any{
		"applicant_name":  "Albin Applicant",
		"applicant_email": "albin@example.com",
		"referents": []map[string]string{
			{"first_name": "Maja", "last_name": "Manager", "email": "maja@prev.example", "relationship": "manager"},
			{"first_name": "Pelle", "last_name": "Peer", "email": "pelle@prev.example", "relationship": "colleague"},
		},
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	applicantToken, _ := submitted["applicant_token"].(string)
	require.NotEmpty(t, applicantToken)
	assert.EqualValues(t, 2, submitted["referent_count"])

	e.dispatcher.Wait()
	invites := e.mailer.SentInvites()
	require.Len(t, invites, 2)
	assert.Equal(t, "Albin Applicant", invites[0].ApplicantName)

	// A referent follows their confirm link from the invite email.
	confirmPath := strings.TrimPrefix(invites[0].ConfirmURL, baseURL)
	rr, page := e.do(t, http.MethodGet, confirmPath, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, false, page["resolved"])

	rr, decided := e.do(t, http.MethodPost, confirmPath, "", map[string]string{"decision": "confirm"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "confirmed", decided["outcome"])

	// Replaying the link stays a 200 and reports the settled state.
	rr, decided = e.do(t, http.MethodPost, confirmPath, "", map[string]string{"decision": "confirm"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "already-resolved", decided["outcome"])

	e.dispatcher.Wait()
	require.Len(t, e.mailer.SentNotifications(), 1)
	assert.Equal(t, "rita@acme.example", e.mailer.SentNotifications()[0].RecruiterEmail)

	// Applicant checks progress through their status link.
	rr, status := e.do(t, http.MethodGet, "/ref/status/"+applicantToken+"/", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.EqualValues(t, 1, status["confirmed_count"])
	assert.EqualValues(t, 2, status["total_count"])

	// Recruiter's job dashboard shows the same picture.
	rr, dashboard := e.do(t, http.MethodGet, "/api/jobs/"+jobID+"/requests", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, dashboard)

	// Recruiter sends reference questions to the confirmed referent.
	referentsList, ok := status["referents"].([]any)
	require.True(t, ok)
	var confirmedID string
	for _, raw := range referentsList {
		entry := raw.(map[string]any)
		if entry["status"] == "confirmed" {
			confirmedID, _ = entry["id"].(string)
		}
	}
	require.NotEmpty(t, confirmedID)

	rr, stock := e.do(t, http.MethodGet, fmt.Sprintf("/api/referents/%s/questions/stock", confirmedID), token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	stockQuestions, ok := stock["questions"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, stockQuestions)

	rr, _ = e.do(t, http.MethodPost, fmt.Sprintf("/api/referents/%s/questions/", confirmedID), token, map[string]any{
		"questions": []string{"How long did you work with Albin?"},
	})
	require.Equal(t, http.StatusOK, rr.Code)

	e.dispatcher.Wait()
	require.Len(t, e.mailer.SentQuestions(), 1)
	assert.Equal(t, "rita@acme.example", e.mailer.SentQuestions()[0].RecruiterEmail)
}

func TestReferenceWorkflow_InactiveJobRejectsSubmission(t *testing.T) {
	e := newEnv(t)

	rr, session := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"first_name": "Rita", "last_name": "Recruiter",
		"email": "rita@acme.example", "password": "s3cret-enough",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	token := session["token"].(string)

	rr, _ = e.do(t, http.MethodPost, "/api/auth/onboarding", token, map[string]string{"company_name": "Acme AB"})
	require.Equal(t, http.StatusOK, rr.Code)

	rr, job := e.do(t, http.MethodPost, "/api/jobs/", token, map[string]string{"title": "Staff Engineer"})
	require.Equal(t, http.StatusCreated, rr.Code)
	inviteToken := job["invite_token"].(string)
	jobID := job["id"].(string)

	rr, _ = e.do(t, http.MethodPost, "/api/jobs/"+jobID+"/deactivate", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	// The landing page still resolves so the applicant gets an explanation.
	rr, summary := e.do(t, http.MethodGet, "/ref/"+inviteToken, "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, false, summary["is_active"])
	assert.NotEmpty(t, summary["message"])

	rr, errBody := e.do(t, http.MethodPost, "/ref/"+inviteToken, "", map[string]any{
		"applicant_name":  "Albin Applicant",
		"applicant_email": "albin@example.com",
		"referents": []map[string]string{
			{"first_name": "Maja", "last_name": "Manager", "email": "maja@prev.example"},
		},
	})
	require.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "invalid_state", errBody["error"])
}
