package app

import (
	"database/sql"
	"os"

	"go-payday/internal/employee"
	"go-payday/internal/messaging/kafka"
	"go-payday/internal/organization"
	"go-payday/internal/payment"
	"go-payday/internal/payroll"
	"go-payday/internal/shared/cache"
	"go-payday/internal/shared/counter"
	"go-payday/internal/webhook"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	organizationRepo := organization.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	payrollRepo := payroll.NewRepository(gormDB)
	paymentRepo := payment.NewRepository(gormDB)

	var sharedCache cache.Cache
	if rdb != nil {
		sharedCache = cache.NewRedisCache(rdb)
	}

	// --- Services ---
	organizationService := organization.NewService(organizationRepo)
	employeeService := employee.NewService(employeeRepo, sharedCache, logger)
	payrollService := payroll.NewService(db, payrollRepo, counterRepo, logger)
	paymentService := payment.NewService(payment.ServiceConfig{
		Repo:             paymentRepo,
		PayrollRepo:      payrollRepo,
		EmployeeRepo:     employeeRepo,
		OrgService:       organizationService,
		Outbox:           outboxRepo,
		Cache:            sharedCache,
		StripeConfigured: os.Getenv("STRIPE_SECRET_KEY") != "",
		Logger:           logger,
	})
	webhookService := webhook.NewService(payrollRepo, paymentRepo, outboxRepo, logger)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	organizationHandler := organization.NewHandler(organizationService)
	payrollHandler := payroll.NewHandlerWithRedis(payrollService, rdb)
	paymentHandler := payment.NewHandlerWithRedis(paymentService, rdb)
	webhookHandler := webhook.NewHandler(webhookService, os.Getenv("STRIPE_WEBHOOK_SECRET"), logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler)
		organization.RegisterRoutes(api, organizationHandler)
		payroll.RegisterRoutes(api, payrollHandler, rdb)
		payment.RegisterRoutes(api, paymentHandler, rdb)
		webhook.RegisterRoutes(api, webhookHandler)
	}

	return nil
}
