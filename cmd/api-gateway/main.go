package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/institute-hq/institute-api/api/swagger"
	"github.com/institute-hq/institute-api/internal/handler"
	"github.com/institute-hq/institute-api/internal/middleware"
	"github.com/institute-hq/institute-api/internal/models"
	"github.com/institute-hq/institute-api/internal/repository"
	"github.com/institute-hq/institute-api/internal/service"
	"github.com/institute-hq/institute-api/pkg/cache"
	"github.com/institute-hq/institute-api/pkg/config"
	"github.com/institute-hq/institute-api/pkg/database"
	"github.com/institute-hq/institute-api/pkg/logger"
	corsmiddleware "github.com/institute-hq/institute-api/pkg/middleware/cors"
	reqidmiddleware "github.com/institute-hq/institute-api/pkg/middleware/requestid"
)

// @title Institute Back-Office API
// @version 1.0.0
// @description Reporting and financial aggregation API for institute back-office staff
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	metricsSvc := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Reports.DashboardCacheTTL, logr, cfg.Reports.CacheEnabled)

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	donorRepo := repository.NewDonorRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	reportRepo := repository.NewReportRepository(db)

	authSvc := service.NewAuthService(userRepo, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
	})
	reportSvc := service.NewReportService(reportRepo, cacheSvc, logr, service.ReportServiceConfig{
		DashboardCacheTTL:     cfg.Reports.DashboardCacheTTL,
		EventLookaheadDays:    cfg.Calendar.UpcomingEventDays,
		BirthdayLookaheadDays: cfg.Calendar.BirthdayWindowDays,
	})
	exportSvc := service.NewExportService(reportSvc, logr)
	studentSvc := service.NewStudentService(studentRepo, cacheSvc, validator.New(), logr)
	paymentSvc := service.NewPaymentService(paymentRepo, studentRepo, cacheSvc, logr)
	donorSvc := service.NewDonorService(donorRepo, cacheSvc, logr, service.DonorServiceConfig{})
	calendarSvc := service.NewCalendarService(calendarRepo, cacheSvc, logr, service.CalendarServiceConfig{
		UpcomingEventDays:  cfg.Calendar.UpcomingEventDays,
		BirthdayWindowDays: cfg.Calendar.BirthdayWindowDays,
	})

	authHandler := handler.NewAuthHandler(authSvc)
	reportHandler := handler.NewReportHandler(reportSvc, exportSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	donorHandler := handler.NewDonorHandler(donorSvc)
	calendarHandler := handler.NewCalendarHandler(calendarSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/metrics/snapshot", metricsHandler.Snapshot)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	authed.GET("/auth/me", authHandler.Me)

	reports := authed.Group("/reports")
	{
		reports.GET("/dashboard", reportHandler.Dashboard)
		reports.GET("/students", middleware.RequireRoles(models.RoleAdmin, models.RoleStaff), reportHandler.Students)
		reports.GET("/attendance", middleware.RequireRoles(models.RoleAdmin, models.RoleStaff), reportHandler.Attendance)
		reports.GET("/grades", middleware.RequireRoles(models.RoleAdmin, models.RoleStaff), reportHandler.Grades)
		reports.GET("/payments", middleware.RequireRoles(models.RoleAdmin, models.RoleFinance), reportHandler.Payments)
		reports.GET("/donors", middleware.RequireRoles(models.RoleAdmin, models.RoleFinance), reportHandler.Donors)
		reports.GET("/:report/export", reportHandler.Export)
	}

	students := authed.Group("/students")
	students.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleStaff))
	{
		students.GET("", studentHandler.List)
		students.GET("/:id", studentHandler.Get)
		students.POST("", studentHandler.Create)
		students.PUT("/:id", studentHandler.Update)
		students.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), studentHandler.Delete)
	}

	payments := authed.Group("/payments")
	payments.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleFinance))
	{
		payments.GET("", paymentHandler.List)
		payments.GET("/pending", paymentHandler.ListPending)
		payments.GET("/donations", paymentHandler.ListDonations)
		payments.PUT("/donations/:id/status", paymentHandler.UpdateDonationStatus)
		payments.GET("/:id", paymentHandler.Get)
		payments.POST("", paymentHandler.Create)
		payments.PUT("/:id/status", paymentHandler.UpdateStatus)
	}

	donors := authed.Group("/donors")
	donors.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleFinance))
	{
		donors.GET("", donorHandler.List)
		donors.GET("/follow-ups", donorHandler.FollowUps)
		donors.GET("/:id", donorHandler.Get)
		donors.POST("", donorHandler.Create)
		donors.PUT("/:id", donorHandler.Update)
		donors.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), donorHandler.Delete)
		donors.POST("/:id/donations", donorHandler.AddDonation)
		donors.GET("/:id/donations", donorHandler.Donations)
	}

	calendar := authed.Group("/calendar")
	{
		calendar.GET("", calendarHandler.List)
		calendar.GET("/upcoming", calendarHandler.Upcoming)
		calendar.GET("/birthdays", calendarHandler.Birthdays)
		calendar.GET("/:id", calendarHandler.Get)
		calendar.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleStaff), calendarHandler.Create)
		calendar.PUT("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleStaff), calendarHandler.Update)
		calendar.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), calendarHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
