// Package service implements recruiter accounts and sessions: registration,
// login with bcrypt-hashed passwords, JWT session tokens checked against a
// revocation list, and the company find-or-create onboarding step.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"ndoors/internal/auth/jwt"
	"ndoors/internal/auth/models"
	jobservice "ndoors/internal/job/service"
	"ndoors/internal/platform/middleware"
	id "ndoors/pkg/domain"
	dErrors "ndoors/pkg/domain-errors"
	"ndoors/pkg/platform/sentinel"
	"ndoors/pkg/requestcontext"
)

const minPasswordLength = 8

// UserStore is the persistence port for recruiter accounts.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	SetCompany(ctx context.Context, userID id.UserID, companyID id.CompanyID, jobTitle string) error
}

// CompanyStore is the persistence port for companies.
type CompanyStore interface {
	Create(ctx context.Context, c *models.Company) error
	FindByID(ctx context.Context, companyID id.CompanyID) (*models.Company, error)
	FindByName(ctx context.Context, name string) (*models.Company, error)
}

// RevocationList tracks logged-out token IDs.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Service orchestrates recruiter accounts and sessions.
type Service struct {
	users      UserStore
	companies  CompanyStore
	revocation RevocationList
	tokens     *jwt.Manager
	sessionTTL time.Duration
	logger     *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func New(users UserStore, companies CompanyStore, revocation RevocationList, tokens *jwt.Manager, sessionTTL time.Duration, opts ...Option) *Service {
	s := &Service{
		users:      users,
		companies:  companies,
		revocation: revocation,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterInput is the signup payload.
type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Session pairs a recruiter with their signed session token.
type Session struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates a recruiter account and opens a session.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*Session, error) {
	if len(input.Password) < minPasswordLength {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	u, err := models.NewUser(id.NewUserID(), input.FirstName, input.LastName, input.Email, string(hash), requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "an account with this email already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create account")
	}

	s.logger.InfoContext(ctx, "recruiter registered", "user_id", u.ID.String())
	return s.openSession(ctx, u)
}

// Login verifies credentials and opens a session. Wrong email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}

	s.logger.InfoContext(ctx, "recruiter logged in", "user_id", u.ID.String())
	return s.openSession(ctx, u)
}

func (s *Service) openSession(ctx context.Context, u *models.User) (*Session, error) {
	signed, err := s.tokens.Sign(u.ID, requestcontext.Now(ctx), s.sessionTTL)
	if err != nil {
		return nil, err
	}
	return &Session{User: u, Token: signed}, nil
}

// Logout revokes the presented token for its remaining lifetime.
func (s *Service) Logout(ctx context.Context, tokenString string) error {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return err
	}

	ttl := s.sessionTTL
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.revocation.Revoke(ctx, claims.ID, ttl); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke session")
	}

	s.logger.InfoContext(ctx, "recruiter logged out", "user_id", claims.UserID)
	return nil
}

// ValidateToken checks signature, expiry and the revocation list. It
// implements the auth middleware's validator port.
func (s *Service) ValidateToken(ctx context.Context, tokenString string) (*middleware.SessionClaims, error) {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revocation.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check session revocation")
	}
	if revoked {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "session has been logged out")
	}
	return &middleware.SessionClaims{UserID: claims.UserID, TokenID: claims.ID}, nil
}

// CompleteOnboarding attaches the recruiter to a company, creating it if
// no company with that name exists yet (case-insensitive).
func (s *Service) CompleteOnboarding(ctx context.Context, userID id.UserID, companyName, orgNumber, jobTitle string) (*models.User, error) {
	u, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	company, err := s.findOrCreateCompany(ctx, companyName, orgNumber)
	if err != nil {
		return nil, err
	}

	if err := s.users.SetCompany(ctx, userID, company.ID, jobTitle); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update account")
	}
	u.CompanyID = company.ID
	u.JobTitle = jobTitle

	s.logger.InfoContext(ctx, "onboarding completed",
		"user_id", userID.String(),
		"company_id", company.ID.String())
	return u, nil
}

func (s *Service) findOrCreateCompany(ctx context.Context, name, orgNumber string) (*models.Company, error) {
	existing, err := s.companies.FindByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up company")
	}

	company, err := models.NewCompany(id.NewCompanyID(), name, orgNumber, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.companies.Create(ctx, company); err != nil {
		// Lost a race with a colleague registering the same company.
		if errors.Is(err, sentinel.ErrConflict) {
			return s.findOrCreateCompany(ctx, name, orgNumber)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create company")
	}
	return company, nil
}

// Me returns the recruiter's own account.
func (s *Service) Me(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.findUser(ctx, userID)
}

// Recruiter resolves the cross-service recruiter view. It implements the
// job service's recruiter port.
func (s *Service) Recruiter(ctx context.Context, userID id.UserID) (*jobservice.Recruiter, error) {
	u, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	recruiter := &jobservice.Recruiter{
		ID:        u.ID,
		Name:      u.FullName(),
		Email:     u.Email,
		CompanyID: u.CompanyID,
	}
	if !u.CompanyID.IsNil() {
		company, err := s.companies.FindByID(ctx, u.CompanyID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load company")
		}
		recruiter.CompanyName = company.Name
	}
	return recruiter, nil
}

func (s *Service) findUser(ctx context.Context, userID id.UserID) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	return u, nil
}
