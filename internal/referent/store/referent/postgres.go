package referent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"ndoors/internal/referent/models"
	id "ndoors/pkg/domain"
	"ndoors/pkg/platform/sentinel"
)

// Postgres persists referent records in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed referent store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const referentColumns = `id, reference_request_id, first_name, last_name, email, relationship,
	status, confirm_token, revoke_token, confirmed_at, created_at, questions_sent_at,
	email_verified, email_verified_at, phone, phone_verified, phone_verified_at,
	linkedin_url, bankid_verified, bankid_verified_at`

func (s *Postgres) Create(ctx context.Context, r *models.Referent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO referents (
			id, reference_request_id, first_name, last_name, email, relationship,
			status, confirm_token, revoke_token, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(r.ID), uuid.UUID(r.RequestID), r.FirstName, r.LastName, r.Email,
		r.Relationship, string(r.Status), r.ConfirmToken, r.RevokeToken, r.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create referent: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, referentID id.ReferentID) (*models.Referent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+referentColumns+` FROM referents WHERE id = $1`,
		uuid.UUID(referentID),
	)
	return scanReferent(row)
}

func (s *Postgres) FindByConfirmToken(ctx context.Context, token string) (*models.Referent, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+referentColumns+` FROM referents WHERE confirm_token = $1`,
		token,
	)
	return scanReferent(row)
}

func (s *Postgres) ListByRequest(ctx context.Context, requestID id.RequestID) ([]*models.Referent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+referentColumns+` FROM referents WHERE reference_request_id = $1 ORDER BY created_at`,
		uuid.UUID(requestID),
	)
	if err != nil {
		return nil, fmt.Errorf("list referents: %w", err)
	}
	defer rows.Close()

	var out []*models.Referent
	for rows.Next() {
		r, err := scanReferent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Postgres) DeleteByRequest(ctx context.Context, requestID id.RequestID) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM referents WHERE reference_request_id = $1`,
		uuid.UUID(requestID),
	); err != nil {
		return fmt.Errorf("delete referents: %w", err)
	}
	return nil
}

// ResolveDecision is the compare-and-swap at the heart of the lifecycle:
// the UPDATE only applies while status is still pending, so of two racing
// decisions exactly one changes the row and the other sees zero rows
// affected and reports ErrAlreadyResolved.
func (s *Postgres) ResolveDecision(ctx context.Context, referentID id.ReferentID, target models.Status, decidedAt time.Time) (*models.Referent, error) {
	var confirmedAt any
	if target == models.StatusConfirmed {
		confirmedAt = decidedAt
	}

	row := s.db.QueryRowContext(ctx, `
		UPDATE referents
		SET status = $2, confirmed_at = COALESCE($3, confirmed_at)
		WHERE id = $1 AND status IN ('created', 'sent')
		RETURNING `+referentColumns,
		uuid.UUID(referentID), string(target), confirmedAt,
	)
	r, err := scanReferent(row)
	if errors.Is(err, sentinel.ErrNotFound) {
		// Zero rows: either the record is gone or a concurrent decision won.
		if _, findErr := s.FindByID(ctx, referentID); findErr == nil {
			return nil, sentinel.ErrAlreadyResolved
		}
		return nil, sentinel.ErrNotFound
	}
	return r, err
}

// UpdateProfile persists profile fields, tokens, and status in one
// statement so a reader never observes a half-rotated token pair. Like
// ResolveDecision, the write is conditional on the row still being pending:
// a decision committing after the caller's read must not be overwritten.
func (s *Postgres) UpdateProfile(ctx context.Context, r *models.Referent) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE referents
		SET first_name = $2, last_name = $3, email = $4, relationship = $5,
			status = $6, confirm_token = $7, revoke_token = $8
		WHERE id = $1 AND status IN ('created', 'sent')`,
		uuid.UUID(r.ID), r.FirstName, r.LastName, r.Email, r.Relationship,
		string(r.Status), r.ConfirmToken, r.RevokeToken,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("update referent profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update referent profile: %w", err)
	}
	if affected == 0 {
		// Zero rows: either the record is gone or a concurrent decision won.
		if _, findErr := s.FindByID(ctx, r.ID); findErr == nil {
			return sentinel.ErrAlreadyResolved
		}
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) SetLinkedIn(ctx context.Context, referentID id.ReferentID, url string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE referents SET linkedin_url = $2 WHERE id = $1`,
		uuid.UUID(referentID), url,
	)
	if err != nil {
		return fmt.Errorf("set linkedin url: %w", err)
	}
	return requireOneRow(res)
}

func (s *Postgres) SetQuestionsSent(ctx context.Context, referentID id.ReferentID, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE referents SET questions_sent_at = $2 WHERE id = $1`,
		uuid.UUID(referentID), at,
	)
	if err != nil {
		return fmt.Errorf("set questions sent: %w", err)
	}
	return requireOneRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReferent(row rowScanner) (*models.Referent, error) {
	var (
		r                models.Referent
		referentID       uuid.UUID
		requestID        uuid.UUID
		status           string
		confirmedAt      sql.NullTime
		questionsSentAt  sql.NullTime
		emailVerifiedAt  sql.NullTime
		phone            sql.NullString
		phoneVerifiedAt  sql.NullTime
		linkedinURL      sql.NullString
		bankidVerifiedAt sql.NullTime
	)
	err := row.Scan(
		&referentID, &requestID, &r.FirstName, &r.LastName, &r.Email, &r.Relationship,
		&status, &r.ConfirmToken, &r.RevokeToken, &confirmedAt, &r.CreatedAt, &questionsSentAt,
		&r.EmailVerified, &emailVerifiedAt, &phone, &r.PhoneVerified, &phoneVerifiedAt,
		&linkedinURL, &r.BankIDVerified, &bankidVerifiedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan referent: %w", err)
	}

	r.ID = id.ReferentID(referentID)
	r.RequestID = id.RequestID(requestID)
	r.Status = models.Status(status)
	r.ConfirmedAt = nullableTime(confirmedAt)
	r.QuestionsSentAt = nullableTime(questionsSentAt)
	r.EmailVerifiedAt = nullableTime(emailVerifiedAt)
	r.PhoneVerifiedAt = nullableTime(phoneVerifiedAt)
	r.BankIDVerifiedAt = nullableTime(bankidVerifiedAt)
	r.Phone = phone.String
	r.LinkedInURL = linkedinURL.String
	return &r, nil
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}

func requireOneRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
