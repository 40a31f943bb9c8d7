package job

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"ndoors/internal/job/models"
	id "ndoors/pkg/domain"
	"ndoors/pkg/platform/sentinel"
)

const jobColumns = `id, recruiter_id, company_id, title, invite_token, is_active, created_at`

// Postgres persists jobs in the jobs table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, j *models.Job) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, recruiter_id, company_id, title, invite_token, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(j.ID), uuid.UUID(j.RecruiterID), uuid.UUID(j.CompanyID),
		j.Title, j.InviteToken, j.IsActive, j.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, jobID id.JobID) (*models.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`,
		uuid.UUID(jobID),
	)
	return scanJob(row)
}

func (s *Postgres) FindByInviteToken(ctx context.Context, token string) (*models.Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE invite_token = $1`,
		token,
	)
	return scanJob(row)
}

func (s *Postgres) ListByRecruiter(ctx context.Context, recruiterID id.UserID) ([]*models.Job, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE recruiter_id = $1 ORDER BY created_at DESC, id`,
		uuid.UUID(recruiterID),
	)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

func (s *Postgres) SetActive(ctx context.Context, jobID id.JobID, active bool) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET is_active = $2 WHERE id = $1`,
		uuid.UUID(jobID), active,
	)
	if err != nil {
		return fmt.Errorf("update job active: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update job active: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	var (
		jobID       uuid.UUID
		recruiterID uuid.UUID
		companyID   uuid.UUID
		j           models.Job
	)
	err := row.Scan(&jobID, &recruiterID, &companyID, &j.Title, &j.InviteToken, &j.IsActive, &j.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan job: %w", err)
	}
	j.ID = id.JobID(jobID)
	j.RecruiterID = id.UserID(recruiterID)
	j.CompanyID = id.CompanyID(companyID)
	return &j, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
