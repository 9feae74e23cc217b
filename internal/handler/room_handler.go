package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-companion-api/internal/dto"
	"github.com/noah-isme/campus-companion-api/internal/middleware"
	"github.com/noah-isme/campus-companion-api/internal/models"
	"github.com/noah-isme/campus-companion-api/pkg/response"
)

type roomService interface {
	FreeRooms(ctx context.Context, query dto.FreeRoomQuery) (*dto.FreeRoomResult, bool, error)
	Nearest(ctx context.Context, query dto.FreeRoomQuery) (models.NearestRoom, error)
	Buildings(ctx context.Context) ([]models.Building, error)
	BuildingFreeRooms(ctx context.Context, building string, query dto.FreeRoomQuery) (*dto.FreeRoomResult, error)
}

// RoomHandler exposes classroom availability endpoints.
type RoomHandler struct {
	service roomService
}

// NewRoomHandler builds a new handler.
func NewRoomHandler(service roomService) *RoomHandler {
	return &RoomHandler{service: service}
}

// FreeRooms godoc
// @Summary List free classrooms
// @Description Rooms without a class in the requested window, nearest first when lat/lng are given, otherwise by building name.
// @Tags Rooms
// @Produce json
// @Param day query string false "Weekday (mon..sun, defaults to today)"
// @Param time query string false "Start time HH:MM (defaults to now)"
// @Param duration query string false "Window length such as 2h, 90m or 1h30m"
// @Param building query string false "Building name"
// @Param lat query number false "Latitude"
// @Param lng query number false "Longitude"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /rooms/free [get]
func (h *RoomHandler) FreeRooms(c *gin.Context) {
	query, err := parseFreeRoomQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, cacheHit, err := h.service.FreeRooms(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	middleware.SetMeta(c, "count", len(result.Rooms))
	response.JSON(c, http.StatusOK, result, middleware.ExtractMeta(c))
}

// Nearest godoc
// @Summary Nearest free classroom
// @Description The status is location_unavailable without lat/lng and no_room_available when every room is busy.
// @Tags Rooms
// @Produce json
// @Param day query string false "Weekday (mon..sun, defaults to today)"
// @Param time query string false "Start time HH:MM (defaults to now)"
// @Param duration query string false "Window length such as 2h, 90m or 1h30m"
// @Param lat query number false "Latitude"
// @Param lng query number false "Longitude"
// @Success 200 {object} response.Envelope
// @Router /rooms/nearest [get]
func (h *RoomHandler) Nearest(c *gin.Context) {
	query, err := parseFreeRoomQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	nearest, err := h.service.Nearest(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, nearest)
}

// Buildings godoc
// @Summary List buildings
// @Tags Buildings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /buildings [get]
func (h *RoomHandler) Buildings(c *gin.Context) {
	buildings, err := h.service.Buildings(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, buildings)
}

// BuildingFreeRooms godoc
// @Summary Free classrooms in one building
// @Tags Buildings
// @Produce json
// @Param name path string true "Building name"
// @Param day query string false "Weekday (mon..sun, defaults to today)"
// @Param time query string false "Start time HH:MM (defaults to now)"
// @Param duration query string false "Window length"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /buildings/{name}/free-rooms [get]
func (h *RoomHandler) BuildingFreeRooms(c *gin.Context) {
	query, err := parseFreeRoomQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.BuildingFreeRooms(c.Request.Context(), c.Param("name"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
