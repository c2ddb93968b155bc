package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/awards-service/internal/api/dto"
	"github.com/spec-kit/awards-service/internal/repository"
	"github.com/spec-kit/awards-service/internal/service"
	apperrors "github.com/spec-kit/awards-service/pkg/util"
)

// NotificationsHandler serves admin campaign endpoints.
type NotificationsHandler struct {
	service *service.NotificationService
	users   repository.UserRepository
	logs    repository.EmailLogRepository
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService, users repository.UserRepository, logs repository.EmailLogRepository) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService, users: users, logs: logs}
}

// Broadcast POST /notifications/broadcast.
func (h *NotificationsHandler) Broadcast(c *fiber.Ctx) error {
	var req dto.BroadcastRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Type) == "" || strings.TrimSpace(req.Title) == "" {
		return apperrors.NewValidationError("type and title required", nil)
	}

	users, err := h.users.ListAll(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}

	result := h.service.SendBatch(c.UserContext(), users, service.Notification{
		Type:     req.Type,
		Title:    req.Title,
		Message:  req.Message,
		Category: req.Category,
		Winner:   req.Winner,
	})
	return c.JSON(result)
}

// Stats GET /notifications/stats.
func (h *NotificationsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.logs.Stats(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": stats})
}
