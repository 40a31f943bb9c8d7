// Package handler exposes the referent-facing decision routes and the
// recruiter-facing question routes.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ndoors/internal/platform/middleware"
	"ndoors/internal/referent/models"
	"ndoors/internal/referent/service"
	"ndoors/internal/transport/http/shared"
	id "ndoors/pkg/domain"
	dErrors "ndoors/pkg/domain-errors"
	"ndoors/pkg/requestcontext"
)

// Service is the lifecycle surface the handler drives.
type Service interface {
	Lookup(ctx context.Context, confirmToken string) (*models.Referent, error)
	Confirm(ctx context.Context, confirmToken string) (*service.DecisionResult, error)
	Decline(ctx context.Context, confirmToken string) (*service.DecisionResult, error)
	SaveLinkedIn(ctx context.Context, confirmToken, url string) (*models.Referent, error)
	SendQuestions(ctx context.Context, recruiterID id.UserID, referentID id.ReferentID, questions []string) error
	StockQuestionsFor(ctx context.Context, recruiterID id.UserID, referentID id.ReferentID) ([]string, error)
}

// Handler handles referent decision and question endpoints.
type Handler struct {
	service   Service
	mailInfo  service.MailInfoSource
	logger    *slog.Logger
	validator middleware.SessionValidator
}

func New(svc Service, mailInfo service.MailInfoSource, logger *slog.Logger, validator middleware.SessionValidator) *Handler {
	return &Handler{service: svc, mailInfo: mailInfo, logger: logger, validator: validator}
}

// Register mounts the public confirm routes and the authenticated question
// routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/confirm/{confirmToken}", func(r chi.Router) {
		// Confirm tokens are the only credential here; throttle guessing.
		r.Use(middleware.RateLimit(30, time.Minute))
		r.Get("/", h.handleDecisionPage)
		r.Post("/", h.handleDecide)
		r.Post("/verify", h.handleVerify)
	})

	r.Route("/api/referents/{referentID}/questions", func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.Get("/stock", h.handleStockQuestions)
		r.Post("/", h.handleSendQuestions)
	})
}

// decisionPage is what the confirm page renders: who is asking, for what,
// and whether the decision has already been made.
type decisionPage struct {
	ReferentFirstName string        `json:"referent_first_name"`
	ApplicantName     string        `json:"applicant_name,omitempty"`
	JobTitle          string        `json:"job_title,omitempty"`
	CompanyName       string        `json:"company_name,omitempty"`
	Status            models.Status `json:"status"`
	Resolved          bool          `json:"resolved"`
}

func (h *Handler) handleDecisionPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	referent, err := h.service.Lookup(ctx, chi.URLParam(r, "confirmToken"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	page := decisionPage{
		ReferentFirstName: referent.FirstName,
		Status:            referent.Status,
		Resolved:          referent.Status.IsResolved(),
	}
	// Page context is best-effort; a dangling request still lets the
	// referent decide.
	if info, err := h.mailInfo.MailInfo(ctx, referent.RequestID); err == nil {
		page.ApplicantName = info.ApplicantName
		page.JobTitle = info.JobTitle
		page.CompanyName = info.CompanyName
	}
	shared.WriteJSON(w, http.StatusOK, page)
}

type decideRequest struct {
	Decision string `json:"decision"`
}

// decisionResponse reports a decision. Outcome distinguishes a fresh
// transition from a replayed link; both are 200s.
type decisionResponse struct {
	Outcome string        `json:"outcome"`
	Status  models.Status `json:"status"`
}

func (h *Handler) handleDecide(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	confirmToken := chi.URLParam(r, "confirmToken")

	var req decideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	var result *service.DecisionResult
	var err error
	switch req.Decision {
	case "confirm":
		result, err = h.service.Confirm(ctx, confirmToken)
	case "decline":
		result, err = h.service.Decline(ctx, confirmToken)
	default:
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, `decision must be "confirm" or "decline"`))
		return
	}
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	outcome := string(result.Referent.Status)
	if result.AlreadyResolved {
		outcome = "already-resolved"
	}
	shared.WriteJSON(w, http.StatusOK, decisionResponse{Outcome: outcome, Status: result.Referent.Status})
}

type verifyRequest struct {
	LinkedInURL string `json:"linkedin_url"`
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	referent, err := h.service.SaveLinkedIn(ctx, chi.URLParam(r, "confirmToken"), req.LinkedInURL)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, referent)
}

func (h *Handler) handleStockQuestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	referentID, err := id.ParseReferentID(chi.URLParam(r, "referentID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	questions, err := h.service.StockQuestionsFor(ctx, requestcontext.UserID(ctx), referentID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string][]string{"questions": questions})
}

type sendQuestionsRequest struct {
	Questions []string `json:"questions"`
}

func (h *Handler) handleSendQuestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	referentID, err := id.ParseReferentID(chi.URLParam(r, "referentID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var req sendQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	if err := h.service.SendQuestions(ctx, requestcontext.UserID(ctx), referentID, req.Questions); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}
