package notification_test

import (
	"context"
	"errors"
	"testing"

	"go-leavedesk/internal/events"
	"go-leavedesk/internal/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRepository struct {
	createFn func(ctx context.Context, n *notification.Notification) error
	existsFn func(ctx context.Context, leaveID, decision string) (bool, error)
}

func (f *fakeRepository) Create(ctx context.Context, n *notification.Notification) error {
	if f.createFn != nil {
		return f.createFn(ctx, n)
	}
	return nil
}

func (f *fakeRepository) ExistsForLeave(ctx context.Context, leaveID, decision string) (bool, error) {
	if f.existsFn != nil {
		return f.existsFn(ctx, leaveID, decision)
	}
	return false, nil
}

func TestNotificationService_RecordDecision(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()

	t.Run("success approved", func(t *testing.T) {
		var recorded *notification.Notification
		repo := &fakeRepository{
			createFn: func(ctx context.Context, n *notification.Notification) error {
				recorded = n
				return nil
			},
		}
		svc := notification.NewService(repo)

		err := svc.RecordDecision(ctx, events.LeaveDecidedEvent{
			EventType: events.LeaveApprovedEvent,
			LeaveID:   "L004",
			AccountID: accountID.String(),
			Category:  "CASUAL",
			TotalDays: 2,
		})

		assert.NoError(t, err)
		if assert.NotNil(t, recorded) {
			assert.Equal(t, "L004", recorded.LeaveID)
			assert.Equal(t, accountID, recorded.AccountID)
			assert.Equal(t, events.LeaveApprovedEvent, recorded.Decision)
			assert.Equal(t, "Your leave request L004 was approved", recorded.Message)
		}
	})

	t.Run("success rejected with comment", func(t *testing.T) {
		var recorded *notification.Notification
		repo := &fakeRepository{
			createFn: func(ctx context.Context, n *notification.Notification) error {
				recorded = n
				return nil
			},
		}
		svc := notification.NewService(repo)

		err := svc.RecordDecision(ctx, events.LeaveDecidedEvent{
			EventType:      events.LeaveRejectedEvent,
			LeaveID:        "L005",
			AccountID:      accountID.String(),
			ManagerComment: "Coverage gap",
		})

		assert.NoError(t, err)
		if assert.NotNil(t, recorded) {
			assert.Equal(t, "Your leave request L005 was rejected: Coverage gap", recorded.Message)
		}
	})

	t.Run("redelivered event is skipped", func(t *testing.T) {
		creates := 0
		repo := &fakeRepository{
			existsFn: func(ctx context.Context, leaveID, decision string) (bool, error) {
				return true, nil
			},
			createFn: func(ctx context.Context, n *notification.Notification) error {
				creates++
				return nil
			},
		}
		svc := notification.NewService(repo)

		err := svc.RecordDecision(ctx, events.LeaveDecidedEvent{
			EventType: events.LeaveApprovedEvent,
			LeaveID:   "L004",
			AccountID: accountID.String(),
		})

		assert.NoError(t, err)
		assert.Equal(t, 0, creates)
	})

	t.Run("negative malformed account id", func(t *testing.T) {
		svc := notification.NewService(&fakeRepository{})

		err := svc.RecordDecision(ctx, events.LeaveDecidedEvent{
			EventType: events.LeaveApprovedEvent,
			LeaveID:   "L004",
			AccountID: "not-a-uuid",
		})

		assert.Error(t, err)
	})

	t.Run("negative repo error", func(t *testing.T) {
		repo := &fakeRepository{
			createFn: func(ctx context.Context, n *notification.Notification) error {
				return errors.New("db error")
			},
		}
		svc := notification.NewService(repo)

		err := svc.RecordDecision(ctx, events.LeaveDecidedEvent{
			EventType: events.LeaveRejectedEvent,
			LeaveID:   "L006",
			AccountID: accountID.String(),
		})

		assert.Error(t, err)
	})
}
