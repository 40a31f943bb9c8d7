// Package handler exposes recruiter-facing job management and the job
// dashboard.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ndoors/internal/job/models"
	"ndoors/internal/platform/middleware"
	requestservice "ndoors/internal/request/service"
	"ndoors/internal/transport/http/shared"
	id "ndoors/pkg/domain"
	dErrors "ndoors/pkg/domain-errors"
	"ndoors/pkg/requestcontext"
)

// Service is the job management surface the handler drives.
type Service interface {
	Create(ctx context.Context, recruiterID id.UserID, title string) (*models.Job, error)
	Get(ctx context.Context, recruiterID id.UserID, jobID id.JobID) (*models.Job, error)
	List(ctx context.Context, recruiterID id.UserID) ([]*models.Job, error)
	Deactivate(ctx context.Context, recruiterID id.UserID, jobID id.JobID) (*models.Job, error)
	Reactivate(ctx context.Context, recruiterID id.UserID, jobID id.JobID) (*models.Job, error)
}

// Requests lists a job's applications for the dashboard.
type Requests interface {
	Dashboard(ctx context.Context, jobID id.JobID) ([]*requestservice.Overview, error)
}

// Handler handles job endpoints.
type Handler struct {
	service   Service
	requests  Requests
	logger    *slog.Logger
	validator middleware.SessionValidator
}

func New(svc Service, requests Requests, logger *slog.Logger, validator middleware.SessionValidator) *Handler {
	return &Handler{service: svc, requests: requests, logger: logger, validator: validator}
}

// Register mounts the job routes under /api/jobs.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/jobs", func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Route("/{jobID}", func(r chi.Router) {
			r.Get("/", h.handleGet)
			r.Post("/deactivate", h.handleDeactivate)
			r.Post("/reactivate", h.handleReactivate)
			r.Get("/requests", h.handleRequests)
		})
	})
}

type createRequest struct {
	Title string `json:"title"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	j, err := h.service.Create(ctx, requestcontext.UserID(ctx), req.Title)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, j)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobs, err := h.service.List(ctx, requestcontext.UserID(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID, err := id.ParseJobID(chi.URLParam(r, "jobID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	j, err := h.service.Get(ctx, requestcontext.UserID(ctx), jobID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, j)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *Handler) handleReactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	ctx := r.Context()
	jobID, err := id.ParseJobID(chi.URLParam(r, "jobID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var j *models.Job
	if active {
		j, err = h.service.Reactivate(ctx, requestcontext.UserID(ctx), jobID)
	} else {
		j, err = h.service.Deactivate(ctx, requestcontext.UserID(ctx), jobID)
	}
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, j)
}

func (h *Handler) handleRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	jobID, err := id.ParseJobID(chi.URLParam(r, "jobID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	// Ownership check before exposing applications.
	if _, err := h.service.Get(ctx, requestcontext.UserID(ctx), jobID); err != nil {
		shared.WriteError(w, err)
		return
	}

	overviews, err := h.requests.Dashboard(ctx, jobID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"requests": overviews})
}
