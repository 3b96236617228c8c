package consumer

import (
	"context"
	"encoding/json"

	"go-leavedesk/internal/events"
	"go-leavedesk/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveDecisions reads decision events and records a notification
// for the affected account. Poison messages are committed and dropped;
// transient failures are retried by not committing.
func ConsumeLeaveDecisions(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_decisions")
	log.Info("leave decision consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave decision consumer stopped")
				return
			}
			log.Error("fetch leave decision message failed", zap.Error(err))
			continue
		}

		var event events.LeaveDecidedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave decision event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := notificationService.RecordDecision(ctx, event); err != nil {
			log.Error("record leave decision notification failed",
				zap.String("leave_id", event.LeaveID),
				zap.String("account_id", event.AccountID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave decision message failed", zap.Error(err))
			continue
		}
	}
}
