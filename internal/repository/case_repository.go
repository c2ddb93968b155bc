package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/awards-service/internal/domain"
)

// CaseRepository encapsulates case persistence.
type CaseRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Case, error)
	GetByIssueNumber(ctx context.Context, issueNumber int) (*domain.Case, error)
	UpdateStatus(ctx context.Context, id string, status domain.CaseStatus, reviewedAt time.Time, reviewedBy string) error
	LinkIssue(ctx context.Context, id string, issueNumber int) error
}

type caseRepository struct {
	pool *pgxpool.Pool
}

// NewCaseRepository instantiates repository.
func NewCaseRepository(pool *pgxpool.Pool) CaseRepository {
	return &caseRepository{pool: pool}
}

const caseColumns = `id, title, status, external_issue_number, reviewed_at, reviewed_by, created_at, updated_at`

func (r *caseRepository) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	return r.fetchSingle(ctx, `SELECT `+caseColumns+` FROM cases WHERE id=$1`, id)
}

// GetByIssueNumber resolves the case linked to a tracker issue. Returns
// pgx.ErrNoRows when no case carries the number; webhook traffic for
// unrelated issues is expected and callers treat this as a no-op.
func (r *caseRepository) GetByIssueNumber(ctx context.Context, issueNumber int) (*domain.Case, error) {
	return r.fetchSingle(ctx, `SELECT `+caseColumns+` FROM cases WHERE external_issue_number=$1`, issueNumber)
}

func (r *caseRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Case, error) {
	var c domain.Case
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&c.ID,
		&c.Title,
		&c.Status,
		&c.ExternalIssueNumber,
		&c.ReviewedAt,
		&c.ReviewedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *caseRepository) UpdateStatus(ctx context.Context, id string, status domain.CaseStatus, reviewedAt time.Time, reviewedBy string) error {
	const query = `
        UPDATE cases SET status=$1, reviewed_at=$2, reviewed_by=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, status, reviewedAt, reviewedBy, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *caseRepository) LinkIssue(ctx context.Context, id string, issueNumber int) error {
	const query = `UPDATE cases SET external_issue_number=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, issueNumber, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
