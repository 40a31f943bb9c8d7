package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"ndoors/internal/auth/models"
	id "ndoors/pkg/domain"
	"ndoors/pkg/platform/sentinel"
)

const userColumns = `id, first_name, last_name, email, password_hash, company_id, job_title, created_at`

// Postgres persists recruiter accounts in the users table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, u *models.User) error {
	var companyID any
	if !u.CompanyID.IsNil() {
		companyID = uuid.UUID(u.CompanyID)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, first_name, last_name, email, password_hash, company_id, job_title, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.UUID(u.ID), u.FirstName, u.LastName, u.Email, u.PasswordHash,
		companyID, nullable(u.JobTitle), u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		uuid.UUID(userID),
	)
	return scanUser(row)
}

func (s *Postgres) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`,
		email,
	)
	return scanUser(row)
}

func (s *Postgres) SetCompany(ctx context.Context, userID id.UserID, companyID id.CompanyID, jobTitle string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET company_id = $2, job_title = $3 WHERE id = $1`,
		uuid.UUID(userID), uuid.UUID(companyID), nullable(jobTitle),
	)
	if err != nil {
		return fmt.Errorf("update user company: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user company: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		userID    uuid.UUID
		companyID uuid.NullUUID
		jobTitle  sql.NullString
		u         models.User
	)
	err := row.Scan(&userID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &companyID, &jobTitle, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.ID = id.UserID(userID)
	if companyID.Valid {
		u.CompanyID = id.CompanyID(companyID.UUID)
	}
	u.JobTitle = jobTitle.String
	return &u, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
