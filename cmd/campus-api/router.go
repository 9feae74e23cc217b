package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-companion-api/internal/handler"
	"github.com/noah-isme/campus-companion-api/internal/middleware"
	"github.com/noah-isme/campus-companion-api/internal/service"
	"github.com/noah-isme/campus-companion-api/pkg/config"
	"github.com/noah-isme/campus-companion-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-companion-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-companion-api/pkg/middleware/requestid"
)

type handlers struct {
	rooms     *handler.RoomHandler
	courses   *handler.CourseHandler
	timetable *handler.TimetableHandler
	metrics   *handler.MetricsHandler
}

func newRouter(cfg *config.Config, logr *zap.Logger, metricsSvc *service.MetricsService, h handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if metricsSvc != nil {
		r.Use(middleware.Metrics(metricsSvc))
	}
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	if metricsSvc != nil {
		r.GET("/metrics", h.metrics.Prometheus)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	rooms := api.Group("/rooms")
	rooms.GET("/free", h.rooms.FreeRooms)
	rooms.GET("/nearest", h.rooms.Nearest)

	buildings := api.Group("/buildings")
	buildings.GET("", h.rooms.Buildings)
	buildings.GET("/:name/free-rooms", h.rooms.BuildingFreeRooms)

	courses := api.Group("/courses")
	courses.GET("", h.courses.Search)
	courses.GET("/:classId", h.courses.Get)

	timetable := api.Group("/timetable", middleware.Device())
	timetable.GET("", h.timetable.List)
	timetable.POST("", h.timetable.Add)
	timetable.POST("/courses/:classId", h.timetable.AddCourse)
	timetable.POST("/conflicts", h.timetable.CheckConflicts)
	timetable.GET("/next", h.timetable.Next)
	timetable.GET("/export", h.timetable.Export)
	timetable.DELETE("/:id", h.timetable.Delete)

	api.GET("/metrics/summary", h.metrics.Summary)

	return r
}
