package app

import (
	"errors"
	"os"

	"go-leavedesk/internal/account"
	"go-leavedesk/internal/rbac"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedAccount struct {
	username    string
	email       string
	role        string
	passwordEnv string
	fallback    string
}

// seedAccounts creates the bootstrap manager and employee accounts when
// they do not exist yet. Passwords come from the environment with dev
// defaults, so a fresh compose stack is usable without extra setup.
func seedAccounts(gormDB *gorm.DB, logger *zap.Logger) error {
	seeds := []seedAccount{
		{
			username:    "manager",
			email:       "manager@leavedesk.local",
			role:        rbac.RoleManager,
			passwordEnv: "SEED_MANAGER_PASSWORD",
			fallback:    "manager123",
		},
		{
			username:    "emp1",
			email:       "emp1@leavedesk.local",
			role:        rbac.RoleEmployee,
			passwordEnv: "SEED_EMPLOYEE_PASSWORD",
			fallback:    "emp123",
		},
	}

	for _, seed := range seeds {
		var existing account.Account
		err := gormDB.Where("username = ?", seed.username).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		password := os.Getenv(seed.passwordEnv)
		if password == "" {
			password = seed.fallback
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		acc := account.Account{
			Username:      seed.username,
			Email:         seed.email,
			Password:      string(hash),
			Role:          seed.role,
			CasualBalance: account.DefaultCasualBalance,
			SickBalance:   account.DefaultSickBalance,
			PaidBalance:   account.DefaultPaidBalance,
			IsActive:      true,
		}
		if err := gormDB.Create(&acc).Error; err != nil {
			return err
		}

		logger.Info("seeded account",
			zap.String("username", seed.username),
			zap.String("role", seed.role),
		)
	}

	return nil
}
