package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/awards-service/internal/auth"
	"github.com/spec-kit/awards-service/internal/service"
	"github.com/spec-kit/awards-service/internal/tracker"
	apperrors "github.com/spec-kit/awards-service/pkg/util"
)

const (
	issueSignatureHeader = "X-Hub-Signature-256"
	issueEventHeader     = "X-GitHub-Event"
)

// IssueWebhookHandler receives issue tracker webhooks and drives case
// status synchronization.
type IssueWebhookHandler struct {
	service *service.CaseSyncService
	secret  string
	logger  *zap.Logger
}

// NewIssueWebhookHandler constructs handler.
func NewIssueWebhookHandler(syncService *service.CaseSyncService, webhookSecret string, logger *zap.Logger) *IssueWebhookHandler {
	return &IssueWebhookHandler{service: syncService, secret: webhookSecret, logger: logger}
}

// Handle POST /issue-webhook. Signature is HMAC-SHA256 over the raw body,
// hex-encoded with a "sha256=" prefix. Verification happens before any
// store access and fails closed when the secret is unconfigured.
func (h *IssueWebhookHandler) Handle(c *fiber.Ctx) error {
	body := c.Body()
	if h.secret == "" {
		return apperrors.NewConfigurationError("tracker webhook secret not configured")
	}
	if !auth.VerifyHMACSignature(body, c.Get(issueSignatureHeader), h.secret) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid signature"})
	}

	var payload tracker.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return apperrors.NewValidationError("malformed webhook payload", nil)
	}

	result, err := h.service.HandleIssueEvent(c.UserContext(), c.Get(issueEventHeader), payload)
	if err != nil {
		return err
	}

	response := fiber.Map{"received": true, "linked_case": result.LinkedCase}
	if result.Transitioned {
		response["status"] = result.Status
	}
	return c.JSON(response)
}
