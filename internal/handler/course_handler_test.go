package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-companion-api/internal/models"
	appErrors "github.com/noah-isme/campus-companion-api/pkg/errors"
)

type courseServiceMock struct {
	courses  []models.Course
	course   *models.Course
	getErr   error
	lastTerm string
}

func (m *courseServiceMock) Search(ctx context.Context, term string) ([]models.Course, error) {
	m.lastTerm = term
	return m.courses, nil
}

func (m *courseServiceMock) Get(ctx context.Context, classID string) (*models.Course, error) {
	return m.course, m.getErr
}

func TestCourseHandlerSearch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &courseServiceMock{courses: []models.Course{{Subject: "Algorithms", ClassID: "CSE101-01"}}}
	h := NewCourseHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/courses?q=algo", nil)

	h.Search(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "algo", svc.lastTerm)
	assert.Contains(t, w.Body.String(), `"count":1`)
}

func TestCourseHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewCourseHandler(&courseServiceMock{getErr: appErrors.Clone(appErrors.ErrNotFound, "course not found")})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/courses/missing", nil)
	c.Params = gin.Params{{Key: "classId", Value: "missing"}}

	h.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "course not found")
}
