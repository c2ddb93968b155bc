package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/awards-service/internal/events"
)

// StartAuditWorker subscribes a logging observer to every domain event, so
// webhook-driven transitions leave a trace even when no row was written.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	log := func(ctx context.Context, event events.Event) error {
		logger.Info("domain event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.String("subject_id", event.SubjectID),
			zap.Any("payload", event.Payload))
		return nil
	}
	dispatcher.Subscribe(events.EventTicketPaid, log)
	dispatcher.Subscribe(events.EventCaseStatusChanged, log)
	dispatcher.Subscribe(events.EventCampaignCompleted, log)
}
