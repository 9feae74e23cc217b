package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-companion-api/internal/dto"
	"github.com/noah-isme/campus-companion-api/internal/middleware"
	"github.com/noah-isme/campus-companion-api/internal/models"
	appErrors "github.com/noah-isme/campus-companion-api/pkg/errors"
	"github.com/noah-isme/campus-companion-api/pkg/response"
)

type timetableService interface {
	List(ctx context.Context, deviceID string) ([]models.PersonalClass, error)
	Add(ctx context.Context, deviceID string, req dto.CreateClassRequest) (*models.PersonalClass, error)
	AddCourse(ctx context.Context, deviceID, classID string) (*models.PersonalClass, error)
	CheckConflicts(ctx context.Context, deviceID string, req dto.ConflictCheckRequest) (*dto.ConflictCheckResponse, error)
	Delete(ctx context.Context, deviceID, classID string) error
	Next(ctx context.Context, deviceID string, query dto.NextClassQuery) (*models.NextClass, error)
	Export(ctx context.Context, deviceID string, format dto.ExportFormat) (*dto.ExportedFile, error)
}

// TimetableHandler exposes the personal timetable of the calling device.
type TimetableHandler struct {
	service timetableService
}

// NewTimetableHandler builds a new handler.
func NewTimetableHandler(service timetableService) *TimetableHandler {
	return &TimetableHandler{service: service}
}

// List godoc
// @Summary List personal classes
// @Tags Timetable
// @Produce json
// @Param X-Device-ID header string true "Device ID"
// @Success 200 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) List(c *gin.Context) {
	classes, err := h.service.List(c.Request.Context(), middleware.DeviceID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes)
}

// Add godoc
// @Summary Add a class
// @Description Rejected with 409 TIMETABLE_CONFLICT when a meeting overlaps a stored class; error.details lists the clashing classes.
// @Tags Timetable
// @Accept json
// @Produce json
// @Param X-Device-ID header string true "Device ID"
// @Param payload body dto.CreateClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /timetable [post]
func (h *TimetableHandler) Add(c *gin.Context) {
	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid class payload"))
		return
	}
	class, err := h.service.Add(c.Request.Context(), middleware.DeviceID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, class)
}

// AddCourse godoc
// @Summary Add a catalog course
// @Tags Timetable
// @Produce json
// @Param X-Device-ID header string true "Device ID"
// @Param classId path string true "Class ID"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /timetable/courses/{classId} [post]
func (h *TimetableHandler) AddCourse(c *gin.Context) {
	class, err := h.service.AddCourse(c.Request.Context(), middleware.DeviceID(c), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, class)
}

// CheckConflicts godoc
// @Summary Check schedules against the timetable
// @Tags Timetable
// @Accept json
// @Produce json
// @Param X-Device-ID header string true "Device ID"
// @Param payload body dto.ConflictCheckRequest true "Candidate schedules"
// @Success 200 {object} response.Envelope
// @Router /timetable/conflicts [post]
func (h *TimetableHandler) CheckConflicts(c *gin.Context) {
	var req dto.ConflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid conflict check payload"))
		return
	}
	result, err := h.service.CheckConflicts(c.Request.Context(), middleware.DeviceID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Delete godoc
// @Summary Remove a class
// @Tags Timetable
// @Param X-Device-ID header string true "Device ID"
// @Param id path string true "Class ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /timetable/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.DeviceID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Next godoc
// @Summary Next upcoming class
// @Description Data.class is null when the timetable is empty.
// @Tags Timetable
// @Produce json
// @Param X-Device-ID header string true "Device ID"
// @Param day query string false "Weekday override"
// @Param time query string false "Time override HH:MM"
// @Success 200 {object} response.Envelope
// @Router /timetable/next [get]
func (h *TimetableHandler) Next(c *gin.Context) {
	day, at, err := parseInstant(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	next, err := h.service.Next(c.Request.Context(), middleware.DeviceID(c), dto.NextClassQuery{Day: day, Time: at})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NextClassResponse{Class: next})
}

// Export godoc
// @Summary Export the timetable
// @Tags Timetable
// @Produce text/csv
// @Produce application/pdf
// @Param X-Device-ID header string true "Device ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /timetable/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	format := dto.ExportFormat(strings.ToLower(strings.TrimSpace(c.Query("format"))))
	file, err := h.service.Export(c.Request.Context(), middleware.DeviceID(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
