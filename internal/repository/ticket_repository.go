package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/awards-service/internal/domain"
)

// TicketRepository encapsulates ticket persistence. Ticket rows are created
// by the event platform; this subsystem only reads and settles them.
type TicketRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	SetPaymentSession(ctx context.Context, id, sessionID string) error
	MarkPaid(ctx context.Context, id, referenceID string, paidAt time.Time) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, code, ticket_type, price_cents, paid, paid_at,
               payment_session_id, payment_reference_id, owner_email, created_at, updated_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Code,
		&ticket.TicketType,
		&ticket.PriceCents,
		&ticket.Paid,
		&ticket.PaidAt,
		&ticket.PaymentSessionID,
		&ticket.PaymentReferenceID,
		&ticket.OwnerEmail,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) SetPaymentSession(ctx context.Context, id, sessionID string) error {
	const query = `UPDATE tickets SET payment_session_id=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, sessionID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) MarkPaid(ctx context.Context, id, referenceID string, paidAt time.Time) error {
	const query = `
        UPDATE tickets SET paid=TRUE, paid_at=$1, payment_reference_id=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, paidAt, referenceID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
