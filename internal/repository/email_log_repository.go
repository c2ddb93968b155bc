package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/awards-service/internal/domain"
)

// DeliveryStat aggregates delivery outcomes per template type.
type DeliveryStat struct {
	TemplateType domain.TemplateType
	Sent         int64
	Failed       int64
}

// EmailLogRepository appends delivery audit rows. Rows are append-only.
type EmailLogRepository interface {
	Create(ctx context.Context, log *domain.EmailLog) error
	Stats(ctx context.Context) ([]DeliveryStat, error)
}

type emailLogRepository struct {
	pool *pgxpool.Pool
}

// NewEmailLogRepository instantiates repository.
func NewEmailLogRepository(pool *pgxpool.Pool) EmailLogRepository {
	return &emailLogRepository{pool: pool}
}

func (r *emailLogRepository) Create(ctx context.Context, log *domain.EmailLog) error {
	metadata := log.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	payload, err := json.Marshal(metadata)
	if err != nil {
		return err
	}
	const query = `
        INSERT INTO email_logs (recipient, subject, template_type, status, metadata)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		log.Recipient,
		log.Subject,
		log.TemplateType,
		log.Status,
		payload,
	).Scan(&log.ID, &log.CreatedAt)
}

func (r *emailLogRepository) Stats(ctx context.Context) ([]DeliveryStat, error) {
	const query = `
        SELECT template_type,
               COUNT(*) FILTER (WHERE status='sent'),
               COUNT(*) FILTER (WHERE status='failed')
        FROM email_logs GROUP BY template_type ORDER BY template_type`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []DeliveryStat
	for rows.Next() {
		var stat DeliveryStat
		if err := rows.Scan(&stat.TemplateType, &stat.Sent, &stat.Failed); err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}
