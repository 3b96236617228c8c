package app

import (
	"os"

	"go-leavedesk/internal/account"
	"go-leavedesk/internal/rbac"
	"go-leavedesk/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp wires the whole API process: database, redis, schema, seed
// accounts, rbac policies and the module routes.
func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	if err := migrate(gormDB); err != nil {
		return err
	}
	logger.Info("schema migrated")

	// The category mapping backs raw SQL; a gap must stop the process.
	if err := account.ValidateCategoryMapping(); err != nil {
		return err
	}

	if err := seedAccounts(gormDB, logger); err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	return registerModules(router, db, gormDB, redisClient, rbacService)
}
