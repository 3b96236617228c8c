package auth

import (
	"context"
	"errors"
	"os"
	"time"

	"go-leavedesk/internal/account"
	autherrors "go-leavedesk/internal/auth/errors"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, username, password string) (accessToken, refreshToken string, resp AuthResponse, err error)
	Refresh(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)
	Me(ctx context.Context, accountID string) (AuthResponse, error)
}

type service struct {
	accounts account.Repository
	logger   *zap.Logger
}

func NewService(accounts account.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{accounts: accounts, logger: l}
}

func (s *service) Login(ctx context.Context, username, password string) (string, string, AuthResponse, error) {
	acct, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		// Same answer for unknown user and wrong password.
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.Password), []byte(password)); err != nil {
		s.logger.Warn("login password mismatch", zap.String("username", username))
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if !acct.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrAccountInactive
	}

	accessToken, err := s.generateToken(acct.ID.String(), acct.Username, acct.Role, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err := s.generateToken(acct.ID.String(), acct.Username, acct.Role, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("login success",
		zap.String("account_id", acct.ID.String()),
		zap.String("role", acct.Role),
	)

	return accessToken, refreshToken, mapToResponse(*acct), nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}
	accountID, ok := claims["account_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	acct, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}
	if !acct.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrAccountInactive
	}

	newAccess, err := s.generateToken(acct.ID.String(), acct.Username, acct.Role, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	newRefresh, err := s.generateToken(acct.ID.String(), acct.Username, acct.Role, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return newAccess, newRefresh, mapToResponse(*acct), nil
}

func (s *service) Me(ctx context.Context, accountID string) (AuthResponse, error) {
	acct, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, autherrors.ErrInvalidToken
		}
		return AuthResponse{}, err
	}
	return mapToResponse(*acct), nil
}

func (s *service) generateToken(accountID, username, role string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"account_id": accountID,
		"username":   username,
		"role":       role,
		"exp":        time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapToResponse(a account.Account) AuthResponse {
	return AuthResponse{
		ID:       a.ID.String(),
		Username: a.Username,
		Email:    a.Email,
		Role:     a.Role,
	}
}
