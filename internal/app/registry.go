package app

import (
	"database/sql"

	"go-leavedesk/internal/account"
	"go-leavedesk/internal/auth"
	"go-leavedesk/internal/bootstrap"
	"go-leavedesk/internal/leave"
	"go-leavedesk/internal/messaging/kafka"
	"go-leavedesk/internal/middleware"
	"go-leavedesk/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	rbacService rbac.Service,
) error {
	// --- Repositories ---
	accountRepo := account.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	accountService := account.NewService(accountRepo)
	authService := auth.NewService(accountRepo)
	leaveService := leave.NewServiceWithAudit(db, leaveRepo, accountRepo, outboxRepo, bootstrap.NewStdoutAuditLogger())

	// --- Handlers ---
	accountHandler := account.NewHandler(accountService)
	authHandler := auth.NewHandler(authService)
	leaveHandler := leave.NewHandler(leaveService)

	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		account.RegisterRoutes(api, accountHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
	}

	return nil
}
