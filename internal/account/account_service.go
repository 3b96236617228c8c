package account

import (
	"context"
	"errors"

	accounterrors "go-leavedesk/internal/account/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=account_service.go -destination=mock/account_service_mock.go -package=mock
type Service interface {
	GetByID(ctx context.Context, id string) (AccountResponse, error)
	GetBalances(ctx context.Context, id string) (BalanceResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("account.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("account.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetByID(ctx context.Context, id string) (AccountResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AccountResponse{}, accounterrors.ErrAccountNotFound
		}
		s.logger.Error("find account failed", zap.String("account_id", id), zap.Error(err))
		return AccountResponse{}, err
	}

	return mapToResponse(*a), nil
}

func (s *service) GetBalances(ctx context.Context, id string) (BalanceResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, accounterrors.ErrAccountNotFound
		}
		s.logger.Error("find account failed", zap.String("account_id", id), zap.Error(err))
		return BalanceResponse{}, err
	}

	return BalanceResponse{
		Casual: a.CasualBalance,
		Sick:   a.SickBalance,
		Paid:   a.PaidBalance,
	}, nil
}

func mapToResponse(a Account) AccountResponse {
	return AccountResponse{
		ID:       a.ID.String(),
		Username: a.Username,
		Email:    a.Email,
		Role:     a.Role,
		IsActive: a.IsActive,
	}
}
