package leave

import (
	"fmt"
	"time"

	"go-leavedesk/internal/account"

	"github.com/google/uuid"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// LeaveRequest ids are human-facing sequential strings: L001, L002, ...
// The padding floor is three digits; the number keeps growing past L999.
func FormatID(seq int64) string {
	return fmt.Sprintf("L%03d", seq)
}

type LeaveRequest struct {
	ID        string           `gorm:"column:id;type:varchar(10);primaryKey"`
	AccountID uuid.UUID        `gorm:"column:account_id;type:uuid;not null;index:idx_leave_requests_account"`
	StartDate time.Time        `gorm:"column:start_date;type:date;not null"`
	EndDate   time.Time        `gorm:"column:end_date;type:date;not null"`
	Category  account.Category `gorm:"column:category;type:varchar(20);not null"`
	TotalDays int              `gorm:"column:total_days;not null;default:1"`
	Reason    string           `gorm:"column:reason;type:text;not null"`

	Status         string     `gorm:"column:status;type:varchar(20);not null;default:PENDING;index:idx_leave_requests_status"`
	ManagerComment *string    `gorm:"column:manager_comment;type:text"`
	DecidedBy      *uuid.UUID `gorm:"column:decided_by;type:uuid"`
	DecidedAt      *time.Time `gorm:"column:decided_at;type:timestamptz"`

	// Soft-delete marker reserved for a future cancel operation; every
	// list query filters on it but nothing sets it yet.
	Cancelled bool `gorm:"column:cancelled;not null;default:false"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Account *AccountRef `gorm:"foreignKey:AccountID;references:ID"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// AccountRef is the minimal join projection used for the manager's pending
// queue, which shows who asked.
type AccountRef struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username string    `gorm:"column:username"`
}

func (AccountRef) TableName() string {
	return "accounts"
}
