package request

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"ndoors/internal/request/models"
	id "ndoors/pkg/domain"
	"ndoors/pkg/platform/sentinel"
)

const requestColumns = `id, job_id, applicant_name, applicant_email, applicant_token, created_at`

// Postgres persists reference requests in the reference_requests table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, r *models.ReferenceRequest) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reference_requests (id, job_id, applicant_name, applicant_email, applicant_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(r.ID), uuid.UUID(r.JobID), r.ApplicantName, r.ApplicantEmail,
		r.ApplicantToken, r.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert reference request: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, requestID id.RequestID) (*models.ReferenceRequest, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM reference_requests WHERE id = $1`,
		uuid.UUID(requestID),
	)
	return scanRequest(row)
}

func (s *Postgres) FindByApplicantToken(ctx context.Context, token string) (*models.ReferenceRequest, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM reference_requests WHERE applicant_token = $1`,
		token,
	)
	return scanRequest(row)
}

func (s *Postgres) FindByJobAndEmail(ctx context.Context, jobID id.JobID, applicantEmail string) (*models.ReferenceRequest, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM reference_requests
		 WHERE job_id = $1 AND LOWER(applicant_email) = LOWER($2)`,
		uuid.UUID(jobID), applicantEmail,
	)
	return scanRequest(row)
}

func (s *Postgres) ListByJob(ctx context.Context, jobID id.JobID) ([]*models.ReferenceRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM reference_requests
		 WHERE job_id = $1 ORDER BY created_at DESC, id`,
		uuid.UUID(jobID),
	)
	if err != nil {
		return nil, fmt.Errorf("list reference requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.ReferenceRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(row rowScanner) (*models.ReferenceRequest, error) {
	var (
		requestID uuid.UUID
		jobID     uuid.UUID
		r         models.ReferenceRequest
	)
	err := row.Scan(&requestID, &jobID, &r.ApplicantName, &r.ApplicantEmail, &r.ApplicantToken, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan reference request: %w", err)
	}
	r.ID = id.RequestID(requestID)
	r.JobID = id.JobID(jobID)
	return &r, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
