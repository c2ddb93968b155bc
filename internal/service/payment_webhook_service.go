package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/awards-service/internal/domain"
	"github.com/spec-kit/awards-service/internal/events"
	"github.com/spec-kit/awards-service/internal/mail"
	"github.com/spec-kit/awards-service/internal/payment"
	"github.com/spec-kit/awards-service/internal/repository"
	apperrors "github.com/spec-kit/awards-service/pkg/util"
)

// dedupTTL bounds how long a processed gateway event id is remembered.
const dedupTTL = 24 * time.Hour

// EventVerifier validates a raw webhook delivery against the shared secret.
type EventVerifier func(payload []byte, sigHeader, secret string) (*payment.Event, error)

// EventDeduper remembers processed event ids. First return is true the first
// time an id is seen. Best-effort: failures never block processing.
type EventDeduper interface {
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// PaymentWebhookService consumes gateway settlement webhooks and marks
// tickets paid. Safe under duplicate and out-of-order delivery.
type PaymentWebhookService struct {
	secret     string
	verify     EventVerifier
	tickets    repository.TicketRepository
	logs       repository.EmailLogRepository
	mailer     mail.Sender
	dedup      EventDeduper
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// PaymentWebhookDependencies bundles collaborators.
type PaymentWebhookDependencies struct {
	WebhookSecret string
	Verify        EventVerifier
	TicketRepo    repository.TicketRepository
	EmailLogRepo  repository.EmailLogRepository
	Mailer        mail.Sender
	Deduper       EventDeduper
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// NewPaymentWebhookService constructs the service. When Verify is nil the
// gateway's signature scheme is used.
func NewPaymentWebhookService(deps PaymentWebhookDependencies) *PaymentWebhookService {
	verify := deps.Verify
	if verify == nil {
		verify = payment.ConstructEvent
	}
	return &PaymentWebhookService{
		secret:     deps.WebhookSecret,
		verify:     verify,
		tickets:    deps.TicketRepo,
		logs:       deps.EmailLogRepo,
		mailer:     deps.Mailer,
		dedup:      deps.Deduper,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// HandleEvent verifies and applies one webhook delivery.
//
// The ticket write is unconditional: a redelivered event produces an
// identical write, which satisfies the at-most-one-transition guarantee
// without a read-before-write. The confirmation email is the only
// non-idempotent side effect, so it is gated on an event-id dedup check and
// its failure never fails the webhook response.
func (s *PaymentWebhookService) HandleEvent(ctx context.Context, body []byte, sigHeader string) error {
	if s.secret == "" {
		return apperrors.NewConfigurationError("payment webhook secret not configured")
	}

	event, err := s.verify(body, sigHeader, s.secret)
	if err != nil {
		if errors.Is(err, payment.ErrMissingSecret) {
			return apperrors.NewConfigurationError("payment webhook secret not configured")
		}
		return apperrors.NewDomainError("SIGNATURE_INVALID", "webhook signature verification failed", http.StatusBadRequest, nil)
	}

	if event.Type != payment.EventCheckoutCompleted {
		// Acknowledge everything else or the gateway retries forever.
		s.logger.Debug("ignoring payment event", zap.String("type", event.Type))
		return nil
	}

	session, err := event.UnmarshalSession()
	if err != nil {
		return apperrors.NewValidationError("malformed checkout session payload", nil)
	}
	ticketID := session.Metadata["ticket_id"]
	userEmail := session.Metadata["user_email"]
	if userEmail == "" {
		userEmail = session.CustomerEmail
	}
	if ticketID == "" {
		// Retrying cannot repair missing metadata; ack and leave a trace.
		s.logger.Warn("payment event carries no ticket id", zap.String("event_id", event.ID))
		return nil
	}

	if err := s.tickets.MarkPaid(ctx, ticketID, session.PaymentIntent, time.Now()); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn("payment event references unknown ticket",
				zap.String("event_id", event.ID),
				zap.String("ticket_id", ticketID))
			return nil
		}
		return apperrors.MapError(err)
	}

	if s.firstDelivery(ctx, event.ID) {
		s.sendConfirmation(ctx, ticketID, userEmail)
	} else {
		s.logger.Info("duplicate payment event, skipping confirmation email",
			zap.String("event_id", event.ID))
	}

	s.publish(ctx, ticketID, session)
	return nil
}

// firstDelivery reports whether this event id has not been seen before.
// Errors from the dedup store degrade to "first": a duplicate email beats a
// lost one.
func (s *PaymentWebhookService) firstDelivery(ctx context.Context, eventID string) bool {
	if s.dedup == nil || eventID == "" {
		return true
	}
	first, err := s.dedup.MarkProcessed(ctx, "payment:event:"+eventID, dedupTTL)
	if err != nil {
		s.logger.Warn("event dedup check failed", zap.String("event_id", eventID), zap.Error(err))
		return true
	}
	return first
}

func (s *PaymentWebhookService) sendConfirmation(ctx context.Context, ticketID, userEmail string) {
	if s.mailer == nil || userEmail == "" {
		return
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		s.logger.Warn("cannot load ticket for confirmation email",
			zap.String("ticket_id", ticketID), zap.Error(err))
		return
	}

	html, err := mail.RenderTicketConfirmation(mail.TicketParams{
		TicketType: string(ticket.TicketType),
		Code:       ticket.Code,
		PriceCents: ticket.PriceCents,
	})
	if err != nil {
		s.logger.Warn("render confirmation email failed", zap.Error(err))
		return
	}

	subject := "Your ticket is confirmed"
	sendErr := s.mailer.Send(ctx, mail.Message{To: userEmail, Subject: subject, HTML: html})

	entry := &domain.EmailLog{
		Recipient:    userEmail,
		Subject:      subject,
		TemplateType: domain.TemplateTicketConfirmation,
		Status:       domain.EmailStatusSent,
		Metadata:     map[string]any{"ticket_id": ticketID},
	}
	if sendErr != nil {
		s.logger.Warn("confirmation email failed",
			zap.String("ticket_id", ticketID), zap.Error(sendErr))
		entry.Status = domain.EmailStatusFailed
		entry.Metadata["error"] = sendErr.Error()
	}
	if s.logs != nil {
		if err := s.logs.Create(ctx, entry); err != nil {
			s.logger.Warn("email audit write failed", zap.Error(err))
		}
	}
}

func (s *PaymentWebhookService) publish(ctx context.Context, ticketID string, session *payment.SessionObject) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTicketPaid,
		SubjectID: ticketID,
		Timestamp: time.Now(),
		Payload: events.TicketPaidPayload{
			TicketType:  domain.TicketType(session.Metadata["ticket_type"]),
			PriceCents:  session.AmountTotal,
			ReferenceID: session.PaymentIntent,
			OwnerEmail:  session.CustomerEmail,
		},
	})
}
