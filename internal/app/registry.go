package app

import (
	"staffdesk/internal/admin"
	"staffdesk/internal/auth"
	"staffdesk/internal/complaint"
	"staffdesk/internal/leave"
	"staffdesk/internal/messaging/kafka"
	"staffdesk/internal/middleware"
	"staffdesk/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	complaintRepo := complaint.NewRepository(gormDB)
	adminRepo := admin.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer)

	// --- Services ---
	authService := auth.NewService(authRepo)
	leaveService := leave.NewServiceWithOutbox(db, leaveRepo, outboxRepo)
	complaintService := complaint.NewServiceWithOutbox(db, complaintRepo, outboxRepo)
	adminService := admin.NewService(adminRepo, authRepo, rdb)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	leaveHandler := leave.NewHandler(leaveService)
	complaintHandler := complaint.NewHandler(complaintService)
	adminHandler := admin.NewHandler(adminService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID(), middleware.ContextLogger(zap.L()))
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		complaint.RegisterRoutes(api, complaintHandler, rbacService, rdb)
		admin.RegisterRoutes(api, adminHandler, rbacService)
	}

	return nil
}
