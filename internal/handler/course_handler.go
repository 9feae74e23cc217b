package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-companion-api/internal/dto"
	"github.com/noah-isme/campus-companion-api/internal/models"
	appErrors "github.com/noah-isme/campus-companion-api/pkg/errors"
	"github.com/noah-isme/campus-companion-api/pkg/response"
)

type courseService interface {
	Search(ctx context.Context, term string) ([]models.Course, error)
	Get(ctx context.Context, classID string) (*models.Course, error)
}

// CourseHandler exposes the course catalog.
type CourseHandler struct {
	service courseService
}

// NewCourseHandler builds a new handler.
func NewCourseHandler(service courseService) *CourseHandler {
	return &CourseHandler{service: service}
}

// Search godoc
// @Summary Search courses
// @Description Case-insensitive match on subject or class id. Without q the first 20 courses are returned, otherwise at most 50.
// @Tags Courses
// @Produce json
// @Param q query string false "Search term"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) Search(c *gin.Context) {
	var query dto.CourseSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query"))
		return
	}
	courses, err := h.service.Search(c.Request.Context(), query.Query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, map[string]interface{}{"count": len(courses)})
}

// Get godoc
// @Summary Get a course
// @Tags Courses
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{classId} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.service.Get(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}
