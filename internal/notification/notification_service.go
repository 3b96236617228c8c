package notification

import (
	"context"
	"fmt"

	"go-leavedesk/internal/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	RecordDecision(ctx context.Context, event events.LeaveDecidedEvent) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, logger: l}
}

// RecordDecision persists one notification per leave decision. Redelivered
// events are skipped, so the consumer can commit at-least-once.
func (s *service) RecordDecision(ctx context.Context, event events.LeaveDecidedEvent) error {
	exists, err := s.repo.ExistsForLeave(ctx, event.LeaveID, event.EventType)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Warn("decision notification already recorded, skipping",
			zap.String("leave_id", event.LeaveID),
			zap.String("decision", event.EventType),
		)
		return nil
	}

	accountID, err := uuid.Parse(event.AccountID)
	if err != nil {
		return fmt.Errorf("invalid account id in event: %w", err)
	}

	message := fmt.Sprintf("Your leave request %s was %s", event.LeaveID, decisionWord(event.EventType))
	if event.ManagerComment != "" {
		message = fmt.Sprintf("%s: %s", message, event.ManagerComment)
	}

	n := &Notification{
		ID:        uuid.New(),
		LeaveID:   event.LeaveID,
		AccountID: accountID,
		Decision:  event.EventType,
		Message:   message,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	s.logger.Info("decision notification recorded",
		zap.String("leave_id", event.LeaveID),
		zap.String("decision", event.EventType),
	)
	return nil
}

func decisionWord(eventType string) string {
	switch eventType {
	case events.LeaveApprovedEvent:
		return "approved"
	case events.LeaveRejectedEvent:
		return "rejected"
	default:
		return "processed"
	}
}
