package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/awards-service/internal/api/dto"
	"github.com/spec-kit/awards-service/internal/domain"
	"github.com/spec-kit/awards-service/internal/service"
	apperrors "github.com/spec-kit/awards-service/pkg/util"
)

// CheckoutHandler serves checkout session creation.
type CheckoutHandler struct {
	service *service.CheckoutService
}

// NewCheckoutHandler constructs handler.
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{service: checkoutService}
}

// CreateSession POST /checkout-session.
func (h *CheckoutHandler) CreateSession(c *fiber.Ctx) error {
	var req dto.CheckoutSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TicketID == "" || req.UserEmail == "" || req.TicketType == "" {
		return apperrors.NewValidationError("ticketType, ticketId, userEmail required", nil)
	}

	origin := c.Get("Origin")
	if origin == "" {
		origin = c.BaseURL()
	}

	result, err := h.service.CreateSession(c.UserContext(), service.CheckoutInput{
		TicketType: domain.TicketType(req.TicketType),
		TicketID:   req.TicketID,
		UserEmail:  req.UserEmail,
		Origin:     origin,
	})
	if err != nil {
		// Gateway failures surface as a generic payment error, not the
		// upstream payload.
		if domainErr := apperrors.ToDomainError(err); domainErr.Code == "UPSTREAM_FAILED" {
			return apperrors.NewDomainError("PAYMENT_INIT_FAILED", "unable to initiate payment", fiber.StatusInternalServerError, nil)
		}
		return err
	}
	return c.JSON(dto.CheckoutSessionResponse{SessionID: result.SessionID, URL: result.URL})
}
