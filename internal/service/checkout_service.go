package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/awards-service/internal/config"
	"github.com/spec-kit/awards-service/internal/domain"
	"github.com/spec-kit/awards-service/internal/payment"
	"github.com/spec-kit/awards-service/internal/repository"
	apperrors "github.com/spec-kit/awards-service/pkg/util"
)

// CheckoutGateway abstracts the payment gateway session API.
type CheckoutGateway interface {
	CreateCheckoutSession(ctx context.Context, params payment.SessionParams) (*payment.CheckoutSession, error)
}

// CheckoutService opens hosted checkout sessions for ticket purchases.
type CheckoutService struct {
	gateway  CheckoutGateway
	tickets  repository.TicketRepository
	settings repository.SettingsRepository
	cfg      config.PaymentConfig
	logger   *zap.Logger
}

// CheckoutDependencies bundles collaborators for the checkout service.
type CheckoutDependencies struct {
	Gateway      CheckoutGateway
	TicketRepo   repository.TicketRepository
	SettingsRepo repository.SettingsRepository
	Config       config.PaymentConfig
	Logger       *zap.Logger
}

// CheckoutInput describes a purchase intent.
type CheckoutInput struct {
	TicketType domain.TicketType
	TicketID   string
	UserEmail  string
	Origin     string
}

// CheckoutResult is returned to the caller for client-side redirect.
type CheckoutResult struct {
	SessionID string
	URL       string
}

// NewCheckoutService constructs the service.
func NewCheckoutService(deps CheckoutDependencies) *CheckoutService {
	return &CheckoutService{
		gateway:  deps.Gateway,
		tickets:  deps.TicketRepo,
		settings: deps.SettingsRepo,
		cfg:      deps.Config,
		logger:   deps.Logger,
	}
}

// CreateSession opens a checkout session at the gateway and records the
// session id on the ticket. The ticket write is best-effort: the session
// already exists at the gateway, and settlement reconciles on the ticket id
// carried in metadata rather than on this write.
func (s *CheckoutService) CreateSession(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	if !input.TicketType.Valid() {
		return nil, apperrors.NewValidationError("unknown ticket type", map[string]any{"ticket_type": string(input.TicketType)})
	}
	if input.TicketID == "" || input.UserEmail == "" {
		return nil, apperrors.NewValidationError("ticketId and userEmail required", nil)
	}

	pricing := s.resolvePricing(ctx)
	amount := pricing.StreamingCents
	name := "Streaming Access - Awards Ceremony"
	description := "Live stream access to the awards ceremony"
	if input.TicketType == domain.TicketTypeVIP {
		amount = pricing.VIPCents
		name = "VIP Ticket - Awards Ceremony"
		description = "In-person VIP seat at the awards ceremony"
	}

	origin := strings.TrimSuffix(input.Origin, "/")
	session, err := s.gateway.CreateCheckoutSession(ctx, payment.SessionParams{
		ProductName:   name,
		Description:   description,
		AmountCents:   amount,
		Currency:      s.currency(),
		CustomerEmail: input.UserEmail,
		SuccessURL:    fmt.Sprintf("%s/tickets?payment=success&ticket=%s", origin, input.TicketID),
		CancelURL:     origin + "/tickets?payment=cancelled",
		Metadata: map[string]string{
			"ticket_id":   input.TicketID,
			"user_email":  input.UserEmail,
			"ticket_type": string(input.TicketType),
		},
	})
	if err != nil {
		return nil, err
	}

	if err := s.tickets.SetPaymentSession(ctx, input.TicketID, session.ID); err != nil {
		s.logger.Warn("failed to record payment session on ticket",
			zap.String("ticket_id", input.TicketID),
			zap.String("session_id", session.ID),
			zap.Error(err))
	}

	return &CheckoutResult{SessionID: session.ID, URL: session.URL}, nil
}

// resolvePricing consults the pricing configuration record, falling back to
// the hardcoded defaults when the record is absent or malformed. A missing
// record is expected, not an error.
func (s *CheckoutService) resolvePricing(ctx context.Context) domain.TicketPricing {
	pricing := domain.TicketPricing{
		StreamingCents: s.cfg.StreamingDefaultCents,
		VIPCents:       s.cfg.VIPDefaultCents,
	}
	if pricing.StreamingCents <= 0 {
		pricing.StreamingCents = 2900
	}
	if pricing.VIPCents <= 0 {
		pricing.VIPCents = 15000
	}
	if s.settings == nil {
		return pricing
	}

	setting, err := s.settings.Get(ctx, domain.SettingKeyTicketPricing)
	if err != nil || setting == nil {
		return pricing
	}
	if v, ok := numericValue(setting.Value["streaming_cents"]); ok && v > 0 {
		pricing.StreamingCents = v
	}
	if v, ok := numericValue(setting.Value["vip_cents"]); ok && v > 0 {
		pricing.VIPCents = v
	}
	return pricing
}

func (s *CheckoutService) currency() string {
	if s.cfg.Currency == "" {
		return "usd"
	}
	return s.cfg.Currency
}

func numericValue(raw any) (int64, bool) {
	switch v := raw.(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}
