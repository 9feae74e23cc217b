package availability

import (
	"math"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/noah-isme/campus-companion-api/internal/models"
)

// EarthRadiusKm is the mean Earth radius used by Haversine.
const EarthRadiusKm = 6371.0

// Haversine returns the great-circle distance between a and b in kilometers.
func Haversine(a, b models.Coordinate) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Rank orders rooms by distance from user, or by building name under locale when user is nil.
// Both orderings are stable, so ties keep input order.
func Rank(rooms []models.Room, user *models.Coordinate, locale language.Tag) []models.RankedRoom {
	ranked := make([]models.RankedRoom, len(rooms))
	for i, room := range rooms {
		ranked[i] = models.RankedRoom{Room: room}
	}

	if user != nil {
		for i := range ranked {
			d := Haversine(*user, ranked[i].Coordinate)
			ranked[i].DistanceKm = &d
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			return *ranked[i].DistanceKm < *ranked[j].DistanceKm
		})
	} else {
		// Collator keeps internal buffers, one per call.
		col := collate.New(locale)
		sort.SliceStable(ranked, func(i, j int) bool {
			return col.CompareString(ranked[i].BuildingName, ranked[j].BuildingName) < 0
		})
	}

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// Nearest picks the head of a distance ranking. A missing location and an empty ranking are
// reported through the status rather than as errors.
func Nearest(ranked []models.RankedRoom, user *models.Coordinate) models.NearestRoom {
	if user == nil {
		return models.NearestRoom{Status: models.NearestLocationUnavailable}
	}
	if len(ranked) == 0 {
		return models.NearestRoom{Status: models.NearestNoRoomAvailable}
	}
	head := ranked[0]
	if head.DistanceKm == nil {
		d := Haversine(*user, head.Coordinate)
		head.DistanceKm = &d
	}
	meters := int(math.Round(*head.DistanceKm * 1000))
	return models.NearestRoom{
		Status:         models.NearestFound,
		Room:           &head,
		DistanceMeters: &meters,
	}
}
