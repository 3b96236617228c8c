package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// NextSequence scans the whole table for the highest numeric id
	// suffix and returns that plus one, so numbering restarts at 1 after
	// a reset wipes the table.
	NextSequence(ctx context.Context) (int64, error)
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindPending(ctx context.Context) ([]LeaveRequest, error)
	FindByAccount(ctx context.Context, accountID string) ([]LeaveRequest, error)
	CountByStatus(ctx context.Context, accountID, status string, excludeCancelled bool) (int64, error)
	// MarkDecided flips a pending request to the given terminal status.
	// Returns false when the request was not pending anymore, which is
	// the AlreadyProcessed signal under concurrent decisions.
	MarkDecided(ctx context.Context, id, status, decidedBy string, comment *string) (bool, error)
	DeleteAll(ctx context.Context) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) NextSequence(ctx context.Context) (int64, error) {
	query := `
SELECT COALESCE(MAX(CAST(SUBSTRING(id FROM 2) AS INTEGER)), 0) + 1
FROM leave_requests
`

	var next int64
	if r.tx != nil {
		err := r.tx.QueryRowContext(ctx, query).Scan(&next)
		return next, err
	}

	err := r.db.WithContext(ctx).Raw(query).Scan(&next).Error
	return next, err
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Account").
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindPending(ctx context.Context) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Account").
		Where("status = ?", StatusPending).
		Where("cancelled = ?", false).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByAccount(ctx context.Context, accountID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Where("cancelled = ?", false).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) CountByStatus(ctx context.Context, accountID, status string, excludeCancelled bool) (int64, error) {
	db := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("account_id = ?", accountID).
		Where("status = ?", status)

	if excludeCancelled {
		db = db.Where("cancelled = ?", false)
	}

	var count int64
	err := db.Count(&count).Error
	return count, err
}

func (r *repository) MarkDecided(ctx context.Context, id, status, decidedBy string, comment *string) (bool, error) {
	query := `
UPDATE leave_requests
SET status = $2, decided_by = $3, decided_at = $4, manager_comment = $5, updated_at = NOW()
WHERE id = $1 AND status = $6
`

	now := time.Now().UTC()
	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, query, id, status, decidedBy, now, comment, StatusPending)
		if err != nil {
			return false, err
		}
		affected, err := res.RowsAffected()
		return affected > 0, err
	}

	res := r.db.WithContext(ctx).Exec(query, id, status, decidedBy, now, comment, StatusPending)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) DeleteAll(ctx context.Context) error {
	query := `DELETE FROM leave_requests`

	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, query)
		return err
	}

	return r.db.WithContext(ctx).Exec(query).Error
}
