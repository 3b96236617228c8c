package leave

type ApplyLeaveRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	Category  string `json:"category" binding:"required,oneof=CASUAL SICK PAID"`
	Reason    string `json:"reason" binding:"required"`
}

type RejectLeaveRequest struct {
	Comment string `json:"comment"`
}

type LeaveResponse struct {
	ID             string  `json:"id"`
	AccountID      string  `json:"account_id"`
	Username       string  `json:"username,omitempty"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	Category       string  `json:"category"`
	TotalDays      int     `json:"total_days"`
	Reason         string  `json:"reason"`
	Status         string  `json:"status"`
	ManagerComment *string `json:"manager_comment,omitempty"`
	DecidedBy      *string `json:"decided_by,omitempty"`
	DecidedAt      *string `json:"decided_at,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

// SummaryResponse carries the dashboard counters for one account.
type SummaryResponse struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}
