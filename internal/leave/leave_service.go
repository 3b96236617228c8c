package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-leavedesk/internal/account"
	"go-leavedesk/internal/bootstrap"
	"go-leavedesk/internal/events"
	leaveerrors "go-leavedesk/internal/leave/errors"
	"go-leavedesk/internal/messaging/kafka"
	"go-leavedesk/internal/rbac"
	"go-leavedesk/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, accountID string, req ApplyLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, actorID, actorRole, id string) (LeaveResponse, error)
	Reject(ctx context.Context, actorID, actorRole, id, comment string) (LeaveResponse, error)
	ListPending(ctx context.Context) ([]LeaveResponse, error)
	ListHistory(ctx context.Context, accountID string) ([]LeaveResponse, error)
	Summary(ctx context.Context, accountID string) (SummaryResponse, error)
	Reset(ctx context.Context, actorID, actorRole string) error
}

type service struct {
	db       *sql.DB
	repo     Repository
	accounts account.Repository
	outbox   kafka.OutboxRepository
	audit    bootstrap.AuditLogger
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	accounts account.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, accounts: accounts, outbox: outbox, logger: l}
}

// NewServiceWithAudit additionally emits operator-facing audit records for
// the destructive ledger reset.
func NewServiceWithAudit(
	db *sql.DB,
	repo Repository,
	accounts account.Repository,
	outbox kafka.OutboxRepository,
	audit bootstrap.AuditLogger,
	logger ...*zap.Logger,
) Service {
	s := NewService(db, repo, accounts, outbox, logger...).(*service)
	s.audit = audit
	return s
}

func (s *service) Apply(ctx context.Context, accountID string, req ApplyLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("apply leave requested",
		zap.String("account_id", accountID),
		zap.String("category", req.Category),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	accountUUID, err := uuid.Parse(accountID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	category := account.Category(req.Category)
	if !category.Valid() {
		return LeaveResponse{}, leaveerrors.ErrInvalidCategory
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}
	if startDate.After(endDate) || startDate.Before(today()) {
		s.logger.Warn("apply leave rejected by date check",
			zap.String("account_id", accountID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	totalDays := inclusiveDays(startDate, endDate)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("apply leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	acct, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrInvalidActorID
		}
		s.logger.Error("apply leave account lookup failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	// Advisory only: the balance is checked, never reserved. The binding
	// decision happens at approval time as a conditional decrement.
	if balance := acct.BalanceFor(category); totalDays > balance {
		s.logger.Warn("apply leave insufficient balance",
			zap.String("account_id", accountID),
			zap.String("category", req.Category),
			zap.Int("requested_days", totalDays),
			zap.Int("balance", balance),
		)
		return LeaveResponse{}, leaveerrors.ErrInsufficientBalance
	}

	seq, err := qtx.NextSequence(ctx)
	if err != nil {
		s.logger.Error("apply leave sequence scan failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	l := &LeaveRequest{
		ID:        FormatID(seq),
		AccountID: accountUUID,
		StartDate: startDate,
		EndDate:   endDate,
		Category:  category,
		TotalDays: totalDays,
		Reason:    req.Reason,
		Status:    StatusPending,
		Cancelled: false,
	}

	if err := qtx.Create(ctx, l); err != nil {
		if isUniqueViolation(err) {
			return LeaveResponse{}, leaveerrors.ErrDuplicateLeaveID
		}
		s.logger.Error("apply leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("apply leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("apply leave success",
		zap.String("leave_id", l.ID),
		zap.String("account_id", accountID),
		zap.Int("total_days", totalDays),
	)

	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, actorID, actorRole, id string) (LeaveResponse, error) {
	return s.decide(ctx, actorID, actorRole, id, StatusApproved, nil)
}

func (s *service) Reject(ctx context.Context, actorID, actorRole, id, comment string) (LeaveResponse, error) {
	var managerComment *string
	if strings.TrimSpace(comment) != "" {
		managerComment = &comment
	}
	return s.decide(ctx, actorID, actorRole, id, StatusRejected, managerComment)
}

// decide is the shared terminal transition for approve and reject. The
// status flip, the balance decrement (approve only) and the outbox insert
// commit or roll back as one unit.
func (s *service) decide(ctx context.Context, actorID, actorRole, id, targetStatus string, comment *string) (LeaveResponse, error) {
	s.logger.Debug("decide leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
		zap.String("target_status", targetStatus),
	)

	if actorRole != rbac.RoleManager {
		return LeaveResponse{}, leaveerrors.ErrManagerOnly
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		s.logger.Error("decide leave lookup failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	flipped, err := qtx.MarkDecided(ctx, id, targetStatus, actorID, comment)
	if err != nil {
		s.logger.Error("decide leave status flip failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if !flipped {
		s.logger.Warn("decide leave already processed",
			zap.String("leave_id", id),
			zap.String("status", l.Status),
		)
		return LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
	}

	if targetStatus == StatusApproved {
		deducted, err := s.accounts.WithTx(tx).DeductBalanceIfSufficient(ctx, l.AccountID.String(), l.Category, l.TotalDays)
		if err != nil {
			s.logger.Error("decide leave balance deduction failed", zap.String("leave_id", id), zap.Error(err))
			return LeaveResponse{}, err
		}
		if !deducted {
			// The apply-time check was advisory; another approval may
			// have consumed the balance since. Rolling back undoes the
			// status flip as well.
			s.logger.Warn("decide leave balance no longer sufficient",
				zap.String("leave_id", id),
				zap.String("account_id", l.AccountID.String()),
				zap.Int("total_days", l.TotalDays),
			)
			return LeaveResponse{}, leaveerrors.ErrInsufficientBalance
		}
	}

	if err := s.enqueueDecisionEvent(ctx, tx, l, targetStatus, actorID, comment); err != nil {
		s.logger.Error("decide leave outbox enqueue failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	now := time.Now().UTC()
	l.Status = targetStatus
	l.DecidedBy = &actorUUID
	l.DecidedAt = &now
	l.ManagerComment = comment

	s.logger.Info("decide leave success",
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
		zap.String("decided_by", actorID),
	)

	return mapToResponse(*l), nil
}

func (s *service) enqueueDecisionEvent(ctx context.Context, tx *sql.Tx, l *LeaveRequest, targetStatus, actorID string, comment *string) error {
	eventType := events.LeaveRejectedEvent
	if targetStatus == StatusApproved {
		eventType = events.LeaveApprovedEvent
	}

	event := events.LeaveDecidedEvent{
		EventType:  eventType,
		LeaveID:    l.ID,
		AccountID:  l.AccountID.String(),
		Category:   string(l.Category),
		TotalDays:  l.TotalDays,
		DecidedBy:  actorID,
		OccurredAt: time.Now().UTC(),
	}
	if comment != nil {
		event.ManagerComment = *comment
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	outboxEvent := kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID,
		EventType:     eventType,
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := kafka.ValidateOutboxEvent(outboxEvent); err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, outboxEvent)
}

func (s *service) ListPending(ctx context.Context) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindPending(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) ListHistory(ctx context.Context, accountID string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(accountID); err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}

	leaves, err := s.repo.FindByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) Summary(ctx context.Context, accountID string) (SummaryResponse, error) {
	if _, err := uuid.Parse(accountID); err != nil {
		return SummaryResponse{}, leaveerrors.ErrInvalidActorID
	}

	// Cancelled requests drop out of the pending counter only; decided
	// ones stay visible in the totals.
	pending, err := s.repo.CountByStatus(ctx, accountID, StatusPending, true)
	if err != nil {
		return SummaryResponse{}, err
	}
	approved, err := s.repo.CountByStatus(ctx, accountID, StatusApproved, false)
	if err != nil {
		return SummaryResponse{}, err
	}
	rejected, err := s.repo.CountByStatus(ctx, accountID, StatusRejected, false)
	if err != nil {
		return SummaryResponse{}, err
	}

	return SummaryResponse{
		Pending:  pending,
		Approved: approved,
		Rejected: rejected,
	}, nil
}

// Reset wipes every leave request and restores all balances to the default
// allocation. Manager role only; irreversible.
func (s *service) Reset(ctx context.Context, actorID, actorRole string) error {
	if actorRole != rbac.RoleManager {
		return leaveerrors.ErrManagerOnly
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reset ledger begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.DeleteAll(ctx); err != nil {
		s.logger.Error("reset ledger delete failed", zap.Error(err))
		return err
	}

	if err := s.accounts.WithTx(tx).RestoreDefaultBalances(ctx); err != nil {
		s.logger.Error("reset ledger balance restore failed", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("reset ledger commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("ledger reset",
		zap.String("actor_id", actorID),
		zap.Int("casual_balance", account.DefaultCasualBalance),
		zap.Int("sick_balance", account.DefaultSickBalance),
		zap.Int("paid_balance", account.DefaultPaidBalance),
	)

	if s.audit != nil {
		s.audit.Log(ctx, bootstrap.AuditLog{
			Action:  "LEDGER_RESET",
			Message: "All leave requests deleted and balances restored to defaults",
			Meta: map[string]any{
				"actor_id":       actorID,
				"casual_balance": account.DefaultCasualBalance,
				"sick_balance":   account.DefaultSickBalance,
				"paid_balance":   account.DefaultPaidBalance,
			},
		})
	}
	return nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

// today returns the current calendar date at UTC midnight, the same shape
// parseDate produces, so date comparisons ignore the time of day.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func inclusiveDays(startDate, endDate time.Time) int {
	return int(endDate.Sub(startDate).Hours()/24) + 1
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:        l.ID,
		AccountID: l.AccountID.String(),
		StartDate: l.StartDate.Format("2006-01-02"),
		EndDate:   l.EndDate.Format("2006-01-02"),
		Category:  string(l.Category),
		TotalDays: l.TotalDays,
		Reason:    l.Reason,
		Status:    l.Status,
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
	}
	if l.Account != nil {
		resp.Username = l.Account.Username
	}
	if l.DecidedBy != nil {
		v := l.DecidedBy.String()
		resp.DecidedBy = &v
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	resp.ManagerComment = l.ManagerComment
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
