package company

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

const companyColumns = `id, name, org_number, created_at`

// Postgres persists companies in the companies table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, c *models.Company) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO companies (id, name, org_number, created_at)
		VALUES ($1, $2, $3, $4)`,
		uuid.UUID(c.ID), c.Name, nullable(c.OrgNumber), c.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, companyID id.CompanyID) (*models.Company, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1`,
		uuid.UUID(companyID),
	)
	return scanCompany(row)
}

func (s *Postgres) FindByName(ctx context.Context, name string) (*models.Company, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE LOWER(name) = LOWER(TRIM($1))`,
		name,
	)
	return scanCompany(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (*models.Company, error) {
	var (
		companyID uuid.UUID
		orgNumber sql.NullString
		c         models.Company
	)
	err := row.Scan(&companyID, &c.Name, &orgNumber, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan company: %w", err)
	}
	c.ID = id.CompanyID(companyID)
	c.OrgNumber = orgNumber.String
	return &c, nil
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
