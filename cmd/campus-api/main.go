package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	_ "github.com/noah-isme/campus-companion-api/api/swagger"
	"github.com/noah-isme/campus-companion-api/internal/availability"
	"github.com/noah-isme/campus-companion-api/internal/handler"
	"github.com/noah-isme/campus-companion-api/internal/repository"
	"github.com/noah-isme/campus-companion-api/internal/service"
	"github.com/noah-isme/campus-companion-api/migrations"
	"github.com/noah-isme/campus-companion-api/pkg/cache"
	"github.com/noah-isme/campus-companion-api/pkg/config"
	"github.com/noah-isme/campus-companion-api/pkg/database"
	"github.com/noah-isme/campus-companion-api/pkg/export"
	"github.com/noah-isme/campus-companion-api/pkg/logger"
)

// @title Campus Companion API
// @version 1.0.0
// @description Free classroom finder, course catalog and personal timetable.
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.RunMigrations {
		migrator, err := database.NewMigrator(db, migrations.FS, migrations.Dir, logr)
		if err != nil {
			logr.Fatal("failed to prepare migrations", zap.Error(err))
		}
		if err := migrator.Up(ctx); err != nil {
			logr.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	catalog := availability.DefaultCatalog()
	validate := validator.New()
	loc := cfg.Campus.Location()

	roomRepo := repository.NewRoomRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	timetableRepo := repository.NewTimetableRepository(redisClient, cfg.Timetable.KeyPrefix)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Rooms.CacheTTL, logr, cfg.Rooms.CacheEnabled)
	roomSvc := service.NewRoomService(roomRepo, catalog, cacheSvc, metricsSvc, service.RoomServiceOptions{
		Location: loc,
		Locale:   language.Make(cfg.Campus.Locale),
		CacheTTL: cfg.Rooms.CacheTTL,
	}, logr)
	courseSvc := service.NewCourseService(courseRepo, catalog, logr)
	timetableSvc := service.NewTimetableService(
		timetableRepo,
		courseSvc,
		export.NewCSVExporter(),
		export.NewPDFExporter(cfg.Timetable.ExportFontPath),
		metricsSvc,
		validate,
		service.TimetableServiceOptions{Location: loc},
		logr,
	)

	if cfg.Reference.SeedOnStart {
		importer := service.NewReferenceImportService(roomRepo, courseRepo, roomSvc, logr)
		if _, err := importer.Seed(ctx, cfg.Reference); err != nil {
			logr.Fatal("failed to seed reference data", zap.Error(err))
		}
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	router := newRouter(cfg, logr, metricsSvc, handlers{
		rooms:     handler.NewRoomHandler(roomSvc),
		courses:   handler.NewCourseHandler(courseSvc),
		timetable: handler.NewTimetableHandler(timetableSvc),
		metrics: handler.NewMetricsHandler(metricsSvc, map[string]handler.ReadinessCheck{
			"postgres": db.PingContext,
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		}),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
