package availability

import (
	"encoding/json"
	"strings"

	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/campus-companion-api/internal/models"
)

// ParseOccupancy decodes a stored JSON array of period labels. Empty or NULL data is an empty list.
// Anything else that does not decode returns ok=false and the caller treats the room as free.
func ParseOccupancy(raw types.JSONText) (periods []models.Period, ok bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, true
	}
	if err := json.Unmarshal([]byte(trimmed), &periods); err != nil {
		return nil, false
	}
	return periods, true
}

// FreeRooms keeps, in input order, every room not occupied during any of periods on day.
// Weekends and an empty period set disable filtering entirely.
func FreeRooms(rooms []models.Room, periods PeriodSet, day models.Weekday) []models.Room {
	out := make([]models.Room, 0, len(rooms))
	if !day.IsSchoolDay() || len(periods) == 0 {
		return append(out, rooms...)
	}

	target := make(map[models.Period]struct{}, len(periods))
	for _, p := range periods {
		target[p] = struct{}{}
	}

	for _, room := range rooms {
		if roomFree(room, day, target) {
			out = append(out, room)
		}
	}
	return out
}

func roomFree(room models.Room, day models.Weekday, target map[models.Period]struct{}) bool {
	occupied, ok := ParseOccupancy(room.Occupancy[day])
	if !ok {
		return true
	}
	for _, p := range occupied {
		if _, hit := target[p]; hit {
			return false
		}
	}
	return true
}
