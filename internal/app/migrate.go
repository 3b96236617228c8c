package app

import (
	"go-leavedesk/internal/account"
	"go-leavedesk/internal/leave"
	"go-leavedesk/internal/notification"

	"gorm.io/gorm"
)

// The outbox is queried with raw SQL only, so its schema is kept as
// explicit DDL instead of a gorm entity.
const outboxDDL = `
CREATE TABLE IF NOT EXISTS outbox_events (
	id uuid PRIMARY KEY,
	request_id varchar(64),
	aggregate_type varchar(50) NOT NULL,
	aggregate_id varchar(50) NOT NULL,
	event_type varchar(100) NOT NULL,
	topic varchar(100) NOT NULL,
	payload jsonb NOT NULL,
	status varchar(20) NOT NULL DEFAULT 'pending',
	retry_count int NOT NULL DEFAULT 0,
	next_retry_at timestamptz,
	processed_at timestamptz,
	error_message varchar(500),
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now()
)`

func migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&account.Account{},
		&leave.LeaveRequest{},
		&notification.Notification{},
	); err != nil {
		return err
	}

	return gormDB.Exec(outboxDDL).Error
}
