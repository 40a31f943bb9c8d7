// Package handler exposes recruiter account and session endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"ndoors/internal/auth/models"
	"ndoors/internal/auth/service"
	"ndoors/internal/platform/middleware"
	"ndoors/internal/transport/http/shared"
	id "ndoors/pkg/domain"
	dErrors "ndoors/pkg/domain-errors"
	"ndoors/pkg/requestcontext"
)

// Service is the account surface the handler drives.
type Service interface {
	Register(ctx context.Context, input service.RegisterInput) (*service.Session, error)
	Login(ctx context.Context, email, password string) (*service.Session, error)
	Logout(ctx context.Context, tokenString string) error
	CompleteOnboarding(ctx context.Context, userID id.UserID, companyName, orgNumber, jobTitle string) (*models.User, error)
	Me(ctx context.Context, userID id.UserID) (*models.User, error)
}

// Handler handles auth endpoints.
type Handler struct {
	service   Service
	logger    *slog.Logger
	validator middleware.SessionValidator
}

func New(svc Service, logger *slog.Logger, validator middleware.SessionValidator) *Handler {
	return &Handler{service: svc, logger: logger, validator: validator}
}

// Register mounts the account routes under /api/auth.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.handleRegister)
		r.Post("/login", h.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(h.validator, h.logger))
			r.Post("/logout", h.handleLogout)
			r.Post("/onboarding", h.handleOnboarding)
			r.Get("/me", h.handleMe)
		})
	})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	session, err := h.service.Register(r.Context(), input)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, session)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, session)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	tokenString, _ := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if err := h.service.Logout(r.Context(), tokenString); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

type onboardingRequest struct {
	CompanyName string `json:"company_name"`
	OrgNumber   string `json:"org_number"`
	JobTitle    string `json:"job_title"`
}

func (h *Handler) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req onboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	u, err := h.service.CompleteOnboarding(ctx, requestcontext.UserID(ctx), req.CompanyName, req.OrgNumber, req.JobTitle)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	u, err := h.service.Me(ctx, requestcontext.UserID(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, u)
}
