package notification

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ExistsForLeave(ctx context.Context, leaveID, decision string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) ExistsForLeave(ctx context.Context, leaveID, decision string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("leave_id = ?", leaveID).
		Where("decision = ?", decision).
		Count(&count).Error
	return count > 0, err
}
