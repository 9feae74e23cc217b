package dto

import "github.com/noah-isme/campus-companion-api/internal/models"

// FreeRoomQuery describes a free-room lookup. Nil Day and Time mean "now" on the campus clock.
type FreeRoomQuery struct {
	Day      *models.Weekday
	Time     *models.ClockTime
	Duration string
	Building string
	Location *models.Coordinate
}

// FreeRoomResult is the ranked list of rooms free during the requested window.
type FreeRoomResult struct {
	Day               models.Weekday      `json:"day"`
	At                models.ClockTime    `json:"time"`
	Duration          string              `json:"duration,omitempty"`
	Periods           []models.Period     `json:"periods"`
	Filtered          bool                `json:"filtered"`
	LocationAvailable bool                `json:"location_available"`
	Rooms             []models.RankedRoom `json:"rooms"`
}

// CourseSearchQuery filters the course catalog.
type CourseSearchQuery struct {
	Query string `form:"q"`
}
