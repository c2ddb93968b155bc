package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/awards-service/internal/api/dto"
	"github.com/spec-kit/awards-service/internal/service"
	apperrors "github.com/spec-kit/awards-service/pkg/util"
)

// TrackerHandler serves the admin-only issue tracker endpoints.
type TrackerHandler struct {
	service *service.TrackerService
}

// NewTrackerHandler constructs handler.
func NewTrackerHandler(trackerService *service.TrackerService) *TrackerHandler {
	return &TrackerHandler{service: trackerService}
}

// ListRepos GET /issue-repos.
func (h *TrackerHandler) ListRepos(c *fiber.Ctx) error {
	repos, err := h.service.ListRepos(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": repos})
}

// CreateIssue POST /issue-create.
func (h *TrackerHandler) CreateIssue(c *fiber.Ctx) error {
	var req dto.CreateIssueRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	issue, err := h.service.CreateIssue(c.UserContext(), req.Repo, req.Title, req.Body, req.Labels)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.CreateIssueResponse{
		Number: issue.Number,
		URL:    issue.HTMLURL,
		State:  issue.State,
	}})
}

// IssueActivity GET /issue-activity?repo=owner/name&number=N.
func (h *TrackerHandler) IssueActivity(c *fiber.Ctx) error {
	number, err := strconv.Atoi(c.Query("number"))
	if err != nil || number <= 0 {
		return apperrors.NewValidationError("valid issue number required", nil)
	}
	activity, err := h.service.IssueActivity(c.UserContext(), c.Query("repo"), number)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": activity})
}

// RegisterWebhook POST /issue-register-webhook.
func (h *TrackerHandler) RegisterWebhook(c *fiber.Ctx) error {
	var req dto.RegisterWebhookRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	hook, err := h.service.RegisterWebhook(c.UserContext(), req.Repo, req.CallbackURL)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": hook})
}
