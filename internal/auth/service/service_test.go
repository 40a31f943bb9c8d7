package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"ndoors/internal/auth/jwt"
	companystore "ndoors/internal/auth/store/company"
	"ndoors/internal/auth/store/revocation"
	userstore "ndoors/internal/auth/store/user"
	"ndoors/internal/platform/logger"
	id "ndoors/pkg/domain"
	dErrors "ndoors/pkg/domain-errors"
	"ndoors/pkg/requestcontext"
)

type AuthSuite struct {
	suite.Suite

	service *Service
	ctx     context.Context
}

func TestAuthSuite(t *testing.T) {
	suite.Run(t, new(AuthSuite))
}

func (s *AuthSuite) SetupTest() {
	s.service = New(
		userstore.NewInMemory(),
		companystore.NewInMemory(),
		revocation.NewInMemory(),
		jwt.NewManager("test-signing-key"),
		time.Hour,
		WithLogger(logger.New()),
	)
	s.ctx = requestcontext.WithTime(context.Background(), time.Now().UTC())
}

func (s *AuthSuite) register(email string) *Session {
	session, err := s.service.Register(s.ctx, RegisterInput{
		FirstName: "Sam",
		LastName:  "Recruiter",
		Email:     email,
		Password:  "correct horse",
	})
	s.Require().NoError(err)
	return session
}

func (s *AuthSuite) TestRegister() {
	s.Run("issues a working session token", func() {
		session := s.register("sam@acme.example")
		s.NotEmpty(session.Token)

		claims, err := s.service.ValidateToken(s.ctx, session.Token)
		s.Require().NoError(err)
		s.Equal(session.User.ID.String(), claims.UserID)
	})

	s.Run("duplicate email conflicts, case-insensitively", func() {
		s.SetupTest() // fresh store: the sibling subtest already registered sam
		s.register("sam@acme.example")
		_, err := s.service.Register(s.ctx, RegisterInput{
			FirstName: "Sam",
			LastName:  "Recruiter",
			Email:     "SAM@ACME.EXAMPLE",
			Password:  "correct horse",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("short password is invalid", func() {
		_, err := s.service.Register(s.ctx, RegisterInput{
			FirstName: "Sam",
			LastName:  "Recruiter",
			Email:     "sam@acme.example",
			Password:  "short",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *AuthSuite) TestLogin() {
	s.register("sam@acme.example")

	s.Run("correct credentials open a session", func() {
		session, err := s.service.Login(s.ctx, "sam@acme.example", "correct horse")
		s.Require().NoError(err)
		s.NotEmpty(session.Token)
	})

	s.Run("wrong password and unknown email look identical", func() {
		_, badPassword := s.service.Login(s.ctx, "sam@acme.example", "wrong")
		_, badEmail := s.service.Login(s.ctx, "nobody@acme.example", "correct horse")

		s.True(dErrors.HasCode(badPassword, dErrors.CodeUnauthorized))
		s.True(dErrors.HasCode(badEmail, dErrors.CodeUnauthorized))
		s.Equal(dErrors.MessageOf(badPassword), dErrors.MessageOf(badEmail))
	})
}

func (s *AuthSuite) TestLogout() {
	session := s.register("sam@acme.example")

	s.Require().NoError(s.service.Logout(s.ctx, session.Token))

	_, err := s.service.ValidateToken(s.ctx, session.Token)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *AuthSuite) TestOnboarding() {
	s.Run("creates the company on first use", func() {
		session := s.register("sam@acme.example")

		u, err := s.service.CompleteOnboarding(s.ctx, session.User.ID, "Acme", "556677-8899", "Talent Lead")
		s.Require().NoError(err)
		s.False(u.CompanyID.IsNil())

		recruiter, err := s.service.Recruiter(s.ctx, session.User.ID)
		s.Require().NoError(err)
		s.Equal("Acme", recruiter.CompanyName)
		s.Equal("Sam Recruiter", recruiter.Name)
	})

	s.Run("reuses an existing company case-insensitively", func() {
		s.SetupTest() // fresh store: the sibling subtest already registered sam
		first := s.register("sam@acme.example")
		second := s.register("pat@acme.example")

		u1, err := s.service.CompleteOnboarding(s.ctx, first.User.ID, "Acme", "", "")
		s.Require().NoError(err)
		u2, err := s.service.CompleteOnboarding(s.ctx, second.User.ID, "acme", "", "")
		s.Require().NoError(err)
		s.Equal(u1.CompanyID, u2.CompanyID)
	})

	s.Run("unknown user is not found", func() {
		_, err := s.service.CompleteOnboarding(s.ctx, id.NewUserID(), "Acme", "", "")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
