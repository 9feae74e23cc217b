package models

import "github.com/jmoiron/sqlx/types"

// Period labels a fixed teaching block such as "3A".
type Period string

// Coordinate is a WGS84 position in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Room is a classroom in the reference catalog. Occupancy keeps the stored JSON per school day so
// that malformed reference data can be detected at query time.
type Room struct {
	ID           int64                      `json:"id"`
	BuildingName string                     `json:"building_name"`
	Coordinate   Coordinate                 `json:"coordinate"`
	RoomNumber   string                     `json:"room_number"`
	Occupancy    map[Weekday]types.JSONText `json:"-"`
}

// RankedRoom is a room ordered for display, with its distance when a location was supplied.
type RankedRoom struct {
	Room
	Rank       int      `json:"rank"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// Building is a map marker summarising the rooms of a building.
type Building struct {
	Name      string  `db:"building_name" json:"name"`
	Lat       float64 `db:"lat" json:"lat"`
	Lng       float64 `db:"lng" json:"lng"`
	RoomCount int     `db:"room_count" json:"room_count"`
}

// NearestStatus describes the outcome of a nearest-room lookup.
type NearestStatus string

const (
	NearestFound               NearestStatus = "ok"
	NearestLocationUnavailable NearestStatus = "location_unavailable"
	NearestNoRoomAvailable     NearestStatus = "no_room_available"
)

// NearestRoom is the head of a distance ranking. Room and DistanceMeters are set only when Status
// is NearestFound.
type NearestRoom struct {
	Status         NearestStatus `json:"status"`
	Room           *RankedRoom   `json:"room,omitempty"`
	DistanceMeters *int          `json:"distance_m,omitempty"`
}
