// Package handler exposes the public application form, the applicant
// status page, and the edit/remind actions gated by the applicant token.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	jobservice "ndoors/internal/job/service"
	"ndoors/internal/platform/middleware"
	referentmodels "ndoors/internal/referent/models"
	referentservice "ndoors/internal/referent/service"
	"ndoors/internal/request/service"
	"ndoors/internal/transport/http/shared"
	id "ndoors/pkg/domain"
	dErrors "ndoors/pkg/domain-errors"
)

// Service is the aggregator surface the handler drives.
type Service interface {
	Submit(ctx context.Context, inviteToken string, input service.SubmitInput) (*service.SubmitResult, error)
	Status(ctx context.Context, applicantToken string) (*service.StatusView, error)
	OwnsReferent(ctx context.Context, applicantToken string, referentID id.ReferentID) error
}

// JobLookup resolves invite tokens to public job summaries.
type JobLookup interface {
	Lookup(ctx context.Context, inviteToken string) (*jobservice.Summary, error)
}

// Referents is the slice of the lifecycle service reachable through the
// applicant token.
type Referents interface {
	Edit(ctx context.Context, referentID id.ReferentID, profile referentmodels.Profile) (*referentservice.EditResult, error)
	Remind(ctx context.Context, referentID id.ReferentID) error
}

// Handler handles application and status endpoints.
type Handler struct {
	service   Service
	jobs      JobLookup
	referents Referents
	logger    *slog.Logger
}

func New(svc Service, jobs JobLookup, referents Referents, logger *slog.Logger) *Handler {
	return &Handler{service: svc, jobs: jobs, referents: referents, logger: logger}
}

// Register mounts the public routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/ref", func(r chi.Router) {
		// Invite and applicant tokens are bearer credentials; throttle guessing.
		r.Use(middleware.RateLimit(30, time.Minute))
		r.Get("/{inviteToken}", h.handleJobSummary)
		r.Post("/{inviteToken}", h.handleSubmit)

		r.Route("/status/{applicantToken}", func(r chi.Router) {
			r.Get("/", h.handleStatus)
			r.Patch("/referents/{referentID}", h.handleEditReferent)
			r.Post("/referents/{referentID}/remind", h.handleRemindReferent)
		})
	})
}

// jobSummaryResponse fronts the application form. Message explains a
// closed link; the form hides itself when is_active is false.
type jobSummaryResponse struct {
	Title       string `json:"title"`
	CompanyName string `json:"company_name"`
	IsActive    bool   `json:"is_active"`
	Message     string `json:"message,omitempty"`
}

func (h *Handler) handleJobSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.jobs.Lookup(r.Context(), chi.URLParam(r, "inviteToken"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	resp := jobSummaryResponse{
		Title:       summary.Title,
		CompanyName: summary.CompanyName,
		IsActive:    summary.IsActive,
	}
	if !summary.IsActive {
		resp.Message = "This invite link is no longer active"
	}
	shared.WriteJSON(w, http.StatusOK, resp)
}

// submitResponse hands the applicant their status-page token.
type submitResponse struct {
	RequestID      id.RequestID `json:"request_id"`
	ApplicantToken string       `json:"applicant_token"`
	ReferentCount  int          `json:"referent_count"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input service.SubmitInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	result, err := h.service.Submit(ctx, chi.URLParam(r, "inviteToken"), input)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, submitResponse{
		RequestID:      result.Request.ID,
		ApplicantToken: result.Request.ApplicantToken,
		ReferentCount:  len(result.Referents),
	})
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Status(r.Context(), chi.URLParam(r, "applicantToken"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleEditReferent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	referentID, err := h.ownedReferentID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var profile referentmodels.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	result, err := h.referents.Edit(ctx, referentID, profile)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"referent":      result.Referent,
		"email_changed": result.EmailChanged,
	})
}

func (h *Handler) handleRemindReferent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	referentID, err := h.ownedReferentID(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.referents.Remind(ctx, referentID); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// ownedReferentID parses the referent ID and checks it belongs to the
// request behind the applicant token.
func (h *Handler) ownedReferentID(r *http.Request) (id.ReferentID, error) {
	referentID, err := id.ParseReferentID(chi.URLParam(r, "referentID"))
	if err != nil {
		return id.ReferentID{}, err
	}
	if err := h.service.OwnsReferent(r.Context(), chi.URLParam(r, "applicantToken"), referentID); err != nil {
		return id.ReferentID{}, err
	}
	return referentID, nil
}
