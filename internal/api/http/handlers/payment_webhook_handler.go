package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/awards-service/internal/service"
)

// paymentSignatureHeader carries the gateway's webhook signature.
const paymentSignatureHeader = "Stripe-Signature"

// PaymentWebhookHandler receives gateway settlement webhooks.
type PaymentWebhookHandler struct {
	service *service.PaymentWebhookService
}

// NewPaymentWebhookHandler constructs handler.
func NewPaymentWebhookHandler(webhookService *service.PaymentWebhookService) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{service: webhookService}
}

// Handle POST /payment-webhook. The raw body is passed through unparsed so
// signature verification sees the exact bytes the gateway signed.
func (h *PaymentWebhookHandler) Handle(c *fiber.Ctx) error {
	body := c.Body()
	sig := c.Get(paymentSignatureHeader)

	if err := h.service.HandleEvent(c.UserContext(), body, sig); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"received": true})
}
