package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-companion-api/internal/dto"
	"github.com/noah-isme/campus-companion-api/internal/middleware"
	"github.com/noah-isme/campus-companion-api/internal/models"
	appErrors "github.com/noah-isme/campus-companion-api/pkg/errors"
)

type roomServiceMock struct {
	freeResp     *dto.FreeRoomResult
	freeHit      bool
	freeErr      error
	nearestResp  models.NearestRoom
	buildings    []models.Building
	buildingErr  error
	lastQuery    dto.FreeRoomQuery
	lastBuilding string
}

func (m *roomServiceMock) FreeRooms(ctx context.Context, query dto.FreeRoomQuery) (*dto.FreeRoomResult, bool, error) {
	m.lastQuery = query
	return m.freeResp, m.freeHit, m.freeErr
}

func (m *roomServiceMock) Nearest(ctx context.Context, query dto.FreeRoomQuery) (models.NearestRoom, error) {
	m.lastQuery = query
	return m.nearestResp, nil
}

func (m *roomServiceMock) Buildings(ctx context.Context) ([]models.Building, error) {
	return m.buildings, nil
}

func (m *roomServiceMock) BuildingFreeRooms(ctx context.Context, building string, query dto.FreeRoomQuery) (*dto.FreeRoomResult, error) {
	m.lastBuilding = building
	m.lastQuery = query
	return m.freeResp, m.buildingErr
}

func newRoomRouter(svc *roomServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewRoomHandler(svc)
	r := gin.New()
	r.Use(middleware.WithResponseMeta())
	r.GET("/rooms/free", h.FreeRooms)
	r.GET("/rooms/nearest", h.Nearest)
	r.GET("/buildings", h.Buildings)
	r.GET("/buildings/:name/free-rooms", h.BuildingFreeRooms)
	return r
}

func TestRoomHandlerFreeRoomsParsesQuery(t *testing.T) {
	svc := &roomServiceMock{
		freeResp: &dto.FreeRoomResult{Rooms: []models.RankedRoom{{Rank: 1}, {Rank: 2}}},
		freeHit:  true,
	}
	router := newRoomRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/rooms/free?day=wed&time=10:30&duration=2h&lat=37.5&lng=127.0", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastQuery.Day)
	assert.Equal(t, models.Wednesday, *svc.lastQuery.Day)
	require.NotNil(t, svc.lastQuery.Time)
	assert.Equal(t, models.Clock(10, 30), *svc.lastQuery.Time)
	assert.Equal(t, "2h", svc.lastQuery.Duration)
	require.NotNil(t, svc.lastQuery.Location)
	assert.InDelta(t, 37.5, svc.lastQuery.Location.Lat, 1e-9)

	var body struct {
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body.Meta["cache_hit"])
	assert.EqualValues(t, 2, body.Meta["count"])
}

func TestRoomHandlerFreeRoomsIgnoresPartialLocation(t *testing.T) {
	svc := &roomServiceMock{freeResp: &dto.FreeRoomResult{}}
	router := newRoomRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rooms/free?lat=37.5", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, svc.lastQuery.Location)
	assert.Nil(t, svc.lastQuery.Day)
}

func TestRoomHandlerNearestTreatsNonFiniteLocationAsUnavailable(t *testing.T) {
	for _, target := range []string{
		"/rooms/nearest?lat=NaN&lng=NaN",
		"/rooms/nearest?lat=37.5&lng=nan",
		"/rooms/nearest?lat=Inf&lng=127.0",
		"/rooms/nearest?lat=91&lng=127.0",
	} {
		svc := &roomServiceMock{nearestResp: models.NearestRoom{Status: models.NearestLocationUnavailable}}
		router := newRoomRouter(svc)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

		require.Equal(t, http.StatusOK, w.Code, target)
		assert.Nil(t, svc.lastQuery.Location, target)
		assert.Contains(t, w.Body.String(), `"location_unavailable"`, target)
	}
}

func TestRoomHandlerFreeRoomsRejectsBadTime(t *testing.T) {
	svc := &roomServiceMock{}
	router := newRoomRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rooms/free?time=25:99", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), appErrors.ErrValidation.Code)
}

func TestRoomHandlerNearestWithoutLocation(t *testing.T) {
	svc := &roomServiceMock{nearestResp: models.NearestRoom{Status: models.NearestLocationUnavailable}}
	router := newRoomRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/rooms/nearest", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"location_unavailable"`)
}

func TestRoomHandlerBuildingFreeRoomsNotFound(t *testing.T) {
	svc := &roomServiceMock{buildingErr: appErrors.Clone(appErrors.ErrNotFound, "building not found")}
	router := newRoomRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/buildings/Science/free-rooms?day=mon", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Science", svc.lastBuilding)
}

func TestRoomHandlerBuildings(t *testing.T) {
	svc := &roomServiceMock{buildings: []models.Building{{Name: "Main", RoomCount: 3}}}
	router := newRoomRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/buildings", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"room_count":3`)
}
