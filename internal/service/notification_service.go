package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/awards-service/internal/domain"
	"github.com/spec-kit/awards-service/internal/events"
	"github.com/spec-kit/awards-service/internal/mail"
	"github.com/spec-kit/awards-service/internal/repository"
)

// Notification describes one campaign message.
type Notification struct {
	Type     string
	Title    string
	Message  string
	Category string
	Winner   string
}

// BatchResult reports delivery counts for a batch.
type BatchResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// NotificationService delivers preference-aware notification batches with a
// durable per-recipient audit log.
type NotificationService struct {
	mailer     mail.Sender
	logs       repository.EmailLogRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NotificationDependencies bundles collaborators.
type NotificationDependencies struct {
	Mailer       mail.Sender
	EmailLogRepo repository.EmailLogRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	return &NotificationService{
		mailer:     deps.Mailer,
		logs:       deps.EmailLogRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// SendBatch delivers the notification to every opted-in recipient,
// sequentially and with independent failure isolation: one recipient's
// failure never aborts the rest. Users without an opt-in for the
// notification type are skipped silently. The batch itself never fails;
// outcomes are reported through the counters and the audit log.
func (s *NotificationService) SendBatch(ctx context.Context, users []domain.User, notification Notification) BatchResult {
	var result BatchResult
	for i := range users {
		user := &users[i]
		if !user.OptedIn(notification.Type) {
			continue
		}
		if s.deliver(ctx, user, notification) {
			result.Sent++
		} else {
			result.Failed++
		}
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventCampaignCompleted,
			SubjectID: notification.Type,
			Timestamp: time.Now(),
			Payload: events.CampaignCompletedPayload{
				NotificationType: notification.Type,
				Sent:             result.Sent,
				Failed:           result.Failed,
			},
		})
	}
	return result
}

func (s *NotificationService) deliver(ctx context.Context, user *domain.User, notification Notification) bool {
	html, err := mail.RenderNotification(mail.NotificationParams{
		Title:     notification.Title,
		Message:   notification.Message,
		FirstName: firstName(user.Name),
		Category:  notification.Category,
		Winner:    notification.Winner,
	})

	var sendErr error
	if err != nil {
		sendErr = err
	} else {
		sendErr = s.mailer.Send(ctx, mail.Message{
			To:      user.Email,
			Subject: notification.Title,
			HTML:    html,
		})
	}

	entry := &domain.EmailLog{
		Recipient:    user.Email,
		Subject:      notification.Title,
		TemplateType: domain.TemplateNotification,
		Status:       domain.EmailStatusSent,
		Metadata:     map[string]any{"notification_type": notification.Type},
	}
	if sendErr != nil {
		s.logger.Warn("notification delivery failed",
			zap.String("recipient", user.Email),
			zap.String("type", notification.Type),
			zap.Error(sendErr))
		entry.Status = domain.EmailStatusFailed
		entry.Metadata["error"] = sendErr.Error()
	}

	// Best-effort audit write: its failure must never abort the batch.
	if s.logs != nil {
		if logErr := s.logs.Create(ctx, entry); logErr != nil {
			s.logger.Warn("email audit write failed",
				zap.String("recipient", user.Email),
				zap.Error(logErr))
		}
	}
	return sendErr == nil
}

func firstName(full string) string {
	full = strings.TrimSpace(full)
	if full == "" {
		return ""
	}
	return strings.Fields(full)[0]
}
