package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/campusbook/scheduler/internal/app"
	"github.com/campusbook/scheduler/internal/config"
	"github.com/campusbook/scheduler/internal/controller/httpapi"
	"github.com/campusbook/scheduler/internal/meeting"
	"github.com/campusbook/scheduler/internal/repository"
	"github.com/campusbook/scheduler/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	// Repositories.
	courseRepo := repository.NewCourseRepository(pool)
	schedulerRepo := repository.NewSchedulerRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	slotRepo := repository.NewSlotRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)
	calendarRepo := repository.NewCalendarEventRepository(pool)
	txManager := repository.NewTxManager(pool)

	// Remote meeting gateway and identity cache.
	var gateway meeting.Gateway
	identities, err := meeting.NewLRUIdentityCache(cfg.IdentityCacheSize)
	if err != nil {
		logger.Fatal("Failed to create identity cache", zap.Error(err))
	}
	if cfg.Zoom.Enabled {
		gateway = meeting.NewZoomGateway(cfg.Zoom.APIURL, cfg.Zoom.APIToken, cfg.Zoom.Timeout, logger)
	}

	// Services.
	conflictService := service.NewConflictService(slotRepo)
	importService := service.NewImportService(
		courseRepo, schedulerRepo, userRepo, slotRepo, appointmentRepo,
		calendarRepo, txManager, gateway, identities, cfg.Zoom.Enabled, logger,
	)
	slotService := service.NewSlotService(
		slotRepo, appointmentRepo, schedulerRepo, calendarRepo,
		conflictService, gateway, logger,
	)
	meetingService := service.NewMeetingService(gateway, identities, logger)

	// HTTP API.
	importCtrl := httpapi.NewImportController(importService, cfg.Zoom.Enabled, logger)
	slotCtrl := httpapi.NewSlotController(slotService, conflictService, logger)
	meetingCtrl := httpapi.NewMeetingController(meetingService, logger)
	router := httpapi.NewRouter(cfg, importCtrl, slotCtrl, meetingCtrl)

	logger.Info("Starting scheduler service",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.HTTPPort),
		zap.Bool("meetings_enabled", cfg.Zoom.Enabled))

	if err := router.Run(":" + cfg.HTTPPort); err != nil {
		logger.Fatal("HTTP server stopped", zap.Error(err))
	}
}
