package events

import "time"

const LeaveDecidedTopic = "leave.decision.v1"

const (
	LeaveApprovedEvent = "leave.approved"
	LeaveRejectedEvent = "leave.rejected"
)

// LeaveDecidedEvent is emitted through the outbox when a manager approves
// or rejects a request. Consumers use it to notify the requesting account.
type LeaveDecidedEvent struct {
	EventType      string    `json:"event_type"`
	LeaveID        string    `json:"leave_id"`
	AccountID      string    `json:"account_id"`
	Category       string    `json:"category"`
	TotalDays      int       `json:"total_days"`
	DecidedBy      string    `json:"decided_by"`
	ManagerComment string    `json:"manager_comment,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
