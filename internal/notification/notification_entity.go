package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification is the durable record the decision consumer writes in place
// of sending mail. A later delivery channel reads from here.
type Notification struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	LeaveID   string    `gorm:"column:leave_id;type:varchar(10);not null;index"`
	AccountID uuid.UUID `gorm:"column:account_id;type:uuid;not null;index"`
	Decision  string    `gorm:"column:decision;type:varchar(20);not null"`
	Message   string    `gorm:"column:message;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Notification) TableName() string {
	return "notification_log"
}
