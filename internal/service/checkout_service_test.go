package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/awards-service/internal/config"
	"github.com/spec-kit/awards-service/internal/domain"
	apperrors "github.com/spec-kit/awards-service/pkg/util"
)

func testPaymentConfig() config.PaymentConfig {
	return config.PaymentConfig{
		StreamingDefaultCents: 2900,
		VIPDefaultCents:       15000,
		Currency:              "usd",
	}
}

func newCheckoutService(gateway *fakeGateway, tickets *fakeTicketRepo, settings *fakeSettingsRepo) *CheckoutService {
	return NewCheckoutService(CheckoutDependencies{
		Gateway:      gateway,
		TicketRepo:   tickets,
		SettingsRepo: settings,
		Config:       testPaymentConfig(),
		Logger:       zap.NewNop(),
	})
}

func TestCreateSessionVIPDefaults(t *testing.T) {
	gateway := &fakeGateway{}
	tickets := newFakeTicketRepo(&domain.Ticket{ID: "t1"})
	svc := newCheckoutService(gateway, tickets, &fakeSettingsRepo{})

	result, err := svc.CreateSession(context.Background(), CheckoutInput{
		TicketType: domain.TicketTypeVIP,
		TicketID:   "t1",
		UserEmail:  "buyer@example.com",
		Origin:     "https://awards.example",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", result.SessionID)

	// No pricing record present: hardcoded defaults apply.
	assert.Equal(t, int64(15000), gateway.lastParams.AmountCents)
	assert.Equal(t, "VIP Ticket - Awards Ceremony", gateway.lastParams.ProductName)
	assert.Equal(t, "usd", gateway.lastParams.Currency)
	assert.Equal(t, "t1", gateway.lastParams.Metadata["ticket_id"])
	assert.Equal(t, "buyer@example.com", gateway.lastParams.Metadata["user_email"])
	assert.Equal(t, "vip", gateway.lastParams.Metadata["ticket_type"])
	assert.Equal(t, "https://awards.example/tickets?payment=success&ticket=t1", gateway.lastParams.SuccessURL)
	assert.Equal(t, "https://awards.example/tickets?payment=cancelled", gateway.lastParams.CancelURL)
}

func TestCreateSessionStreamingDefaults(t *testing.T) {
	gateway := &fakeGateway{}
	svc := newCheckoutService(gateway, newFakeTicketRepo(&domain.Ticket{ID: "t2"}), &fakeSettingsRepo{})

	_, err := svc.CreateSession(context.Background(), CheckoutInput{
		TicketType: domain.TicketTypeStreaming,
		TicketID:   "t2",
		UserEmail:  "buyer@example.com",
		Origin:     "https://awards.example",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2900), gateway.lastParams.AmountCents)
	assert.Equal(t, "Streaming Access - Awards Ceremony", gateway.lastParams.ProductName)
}

func TestCreateSessionPricingFromSettings(t *testing.T) {
	gateway := &fakeGateway{}
	settings := &fakeSettingsRepo{setting: &domain.Setting{
		Key:   domain.SettingKeyTicketPricing,
		Value: map[string]any{"streaming_cents": float64(1900), "vip_cents": float64(20000)},
	}}
	svc := newCheckoutService(gateway, newFakeTicketRepo(&domain.Ticket{ID: "t1"}), settings)

	_, err := svc.CreateSession(context.Background(), CheckoutInput{
		TicketType: domain.TicketTypeVIP,
		TicketID:   "t1",
		UserEmail:  "buyer@example.com",
		Origin:     "https://awards.example",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20000), gateway.lastParams.AmountCents)
}

func TestCreateSessionRecordsSessionID(t *testing.T) {
	gateway := &fakeGateway{}
	tickets := newFakeTicketRepo(&domain.Ticket{ID: "t1"})
	svc := newCheckoutService(gateway, tickets, &fakeSettingsRepo{})

	_, err := svc.CreateSession(context.Background(), CheckoutInput{
		TicketType: domain.TicketTypeVIP,
		TicketID:   "t1",
		UserEmail:  "buyer@example.com",
		Origin:     "https://awards.example",
	})
	require.NoError(t, err)
	require.NotNil(t, tickets.tickets["t1"].PaymentSessionID)
	assert.Equal(t, "cs_test_1", *tickets.tickets["t1"].PaymentSessionID)
}

func TestCreateSessionTicketWriteFailureTolerated(t *testing.T) {
	gateway := &fakeGateway{}
	tickets := newFakeTicketRepo()
	tickets.sessionErr = errUpstream
	svc := newCheckoutService(gateway, tickets, &fakeSettingsRepo{})

	// The session exists at the gateway; the caller still gets the URL.
	result, err := svc.CreateSession(context.Background(), CheckoutInput{
		TicketType: domain.TicketTypeStreaming,
		TicketID:   "t1",
		UserEmail:  "buyer@example.com",
		Origin:     "https://awards.example",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.URL)
}

func TestCreateSessionGatewayFailure(t *testing.T) {
	gateway := &fakeGateway{err: apperrors.NewUpstreamError("declined", 402, nil)}
	svc := newCheckoutService(gateway, newFakeTicketRepo(), &fakeSettingsRepo{})

	_, err := svc.CreateSession(context.Background(), CheckoutInput{
		TicketType: domain.TicketTypeVIP,
		TicketID:   "t1",
		UserEmail:  "buyer@example.com",
		Origin:     "https://awards.example",
	})
	require.Error(t, err)
	assert.Equal(t, "UPSTREAM_FAILED", apperrors.ToDomainError(err).Code)
}

func TestCreateSessionValidation(t *testing.T) {
	svc := newCheckoutService(&fakeGateway{}, newFakeTicketRepo(), &fakeSettingsRepo{})

	_, err := svc.CreateSession(context.Background(), CheckoutInput{
		TicketType: "backstage",
		TicketID:   "t1",
		UserEmail:  "buyer@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}
