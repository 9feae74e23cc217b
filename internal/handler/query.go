package handler

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-companion-api/internal/dto"
	"github.com/noah-isme/campus-companion-api/internal/models"
	appErrors "github.com/noah-isme/campus-companion-api/pkg/errors"
)

// parseInstant reads the optional day and time query parameters.
func parseInstant(c *gin.Context) (*models.Weekday, *models.ClockTime, error) {
	var (
		day *models.Weekday
		at  *models.ClockTime
	)
	if raw := strings.TrimSpace(c.Query("day")); raw != "" {
		d, err := models.ParseWeekday(raw)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid day")
		}
		day = &d
	}
	if raw := strings.TrimSpace(c.Query("time")); raw != "" {
		t, err := models.ParseClock(raw)
		if err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid time")
		}
		at = &t
	}
	return day, at, nil
}

// parseLocation returns a coordinate only when lat and lng are both present and valid; anything
// else is treated as an unavailable location.
func parseLocation(c *gin.Context) *models.Coordinate {
	lat, ok := parseDegrees(c.Query("lat"), 90)
	if !ok {
		return nil
	}
	lng, ok := parseDegrees(c.Query("lng"), 180)
	if !ok {
		return nil
	}
	return &models.Coordinate{Lat: lat, Lng: lng}
}

// parseDegrees rejects NaN along with anything outside [-limit, limit].
func parseDegrees(raw string, limit float64) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || v < -limit || v > limit {
		return 0, false
	}
	return v, true
}

func parseFreeRoomQuery(c *gin.Context) (dto.FreeRoomQuery, error) {
	day, at, err := parseInstant(c)
	if err != nil {
		return dto.FreeRoomQuery{}, err
	}
	return dto.FreeRoomQuery{
		Day:      day,
		Time:     at,
		Duration: strings.TrimSpace(c.Query("duration")),
		Building: strings.TrimSpace(c.Query("building")),
		Location: parseLocation(c),
	}, nil
}
