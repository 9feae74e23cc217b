package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/noah-isme/campus-companion-api/internal/availability"
	"github.com/noah-isme/campus-companion-api/internal/dto"
	"github.com/noah-isme/campus-companion-api/internal/models"
	appErrors "github.com/noah-isme/campus-companion-api/pkg/errors"
)

// RoomCatalogCacheKey holds the cached room catalog.
const RoomCatalogCacheKey = "rooms:catalog"

type roomReader interface {
	ListAll(ctx context.Context) ([]models.Room, error)
	ListByBuilding(ctx context.Context, building string) ([]models.Room, error)
	ListBuildings(ctx context.Context) ([]models.Building, error)
}

// cachedRoom carries the raw occupancy that models.Room keeps out of its JSON form.
type cachedRoom struct {
	models.Room
	Occupancy map[models.Weekday]string `json:"occupancy"`
}

// RoomServiceOptions tunes RoomService. Zero values fall back to sensible defaults.
type RoomServiceOptions struct {
	Location *time.Location
	Locale   language.Tag
	CacheTTL time.Duration
	Now      func() time.Time
}

// RoomService answers free and nearest room queries against the reference catalog.
type RoomService struct {
	rooms    roomReader
	catalog  *availability.Catalog
	cache    *CacheService
	metrics  *MetricsService
	loc      *time.Location
	locale   language.Tag
	cacheTTL time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewRoomService constructs the room service.
func NewRoomService(rooms roomReader, catalog *availability.Catalog, cache *CacheService, metrics *MetricsService, opts RoomServiceOptions, logger *zap.Logger) *RoomService {
	if catalog == nil {
		catalog = availability.DefaultCatalog()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Locale == language.Und {
		opts.Locale = language.Korean
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoomService{
		rooms:    rooms,
		catalog:  catalog,
		cache:    cache,
		metrics:  metrics,
		loc:      opts.Location,
		locale:   opts.Locale,
		cacheTTL: opts.CacheTTL,
		now:      opts.Now,
		logger:   logger,
	}
}

// FreeRooms lists rooms free during the requested window, ranked by distance when a location is
// known and by building name otherwise. The boolean reports whether the catalog came from cache.
func (s *RoomService) FreeRooms(ctx context.Context, query dto.FreeRoomQuery) (*dto.FreeRoomResult, bool, error) {
	rooms, hit, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, false, err
	}
	if query.Building != "" {
		rooms = filterBuilding(rooms, query.Building)
	}
	result := s.compute(rooms, query)
	s.metrics.RecordAvailabilityQuery(QueryFreeRooms, len(result.Rooms))
	return result, hit, nil
}

// Nearest returns the closest free room. Without a location nothing is loaded and the status says so.
func (s *RoomService) Nearest(ctx context.Context, query dto.FreeRoomQuery) (models.NearestRoom, error) {
	if query.Location == nil {
		s.metrics.RecordAvailabilityQuery(QueryNearestRoom, 0)
		return availability.Nearest(nil, nil), nil
	}
	rooms, _, err := s.loadCatalog(ctx)
	if err != nil {
		return models.NearestRoom{}, err
	}
	result := s.compute(rooms, query)
	nearest := availability.Nearest(result.Rooms, query.Location)
	found := 0
	if nearest.Room != nil {
		found = 1
	}
	s.metrics.RecordAvailabilityQuery(QueryNearestRoom, found)
	return nearest, nil
}

// Buildings returns one marker per building.
func (s *RoomService) Buildings(ctx context.Context) ([]models.Building, error) {
	start := time.Now()
	buildings, err := s.rooms.ListBuildings(ctx)
	s.metrics.ObserveDBQuery("list_buildings", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list buildings")
	}
	if buildings == nil {
		buildings = []models.Building{}
	}
	return buildings, nil
}

// BuildingFreeRooms lists the free rooms of one building. An unknown building is a 404.
func (s *RoomService) BuildingFreeRooms(ctx context.Context, building string, query dto.FreeRoomQuery) (*dto.FreeRoomResult, error) {
	start := time.Now()
	rooms, err := s.rooms.ListByBuilding(ctx, building)
	s.metrics.ObserveDBQuery("list_rooms_by_building", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load building rooms")
	}
	if len(rooms) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "building not found")
	}
	query.Building = building
	result := s.compute(rooms, query)
	s.metrics.RecordAvailabilityQuery(QueryBuildingFreeRooms, len(result.Rooms))
	return result, nil
}

// InvalidateCatalog drops the cached room catalog after reference data changes.
func (s *RoomService) InvalidateCatalog(ctx context.Context) error {
	return s.cache.Invalidate(ctx, RoomCatalogCacheKey)
}

func (s *RoomService) compute(rooms []models.Room, query dto.FreeRoomQuery) *dto.FreeRoomResult {
	day, at := s.resolveInstant(query.Day, query.Time)
	periods := s.catalog.PeriodsForWindow(at, query.Duration)
	if query.Duration != "" {
		if _, ok := availability.ParseWindowDuration(query.Duration); !ok {
			s.logger.Debug("ignoring malformed duration", zap.String("duration", query.Duration))
		}
	}

	free := availability.FreeRooms(rooms, periods, day)
	ranked := availability.Rank(free, query.Location, s.locale)
	if periods == nil {
		periods = availability.PeriodSet{}
	}
	return &dto.FreeRoomResult{
		Day:               day,
		At:                at,
		Duration:          query.Duration,
		Periods:           periods,
		Filtered:          day.IsSchoolDay() && len(periods) > 0,
		LocationAvailable: query.Location != nil,
		Rooms:             ranked,
	}
}

func (s *RoomService) resolveInstant(day *models.Weekday, at *models.ClockTime) (models.Weekday, models.ClockTime) {
	now := s.now().In(s.loc)
	d := models.WeekdayOf(now)
	t := models.ClockOf(now)
	if day != nil {
		d = *day
	}
	if at != nil {
		t = *at
	}
	return d, t
}

func (s *RoomService) loadCatalog(ctx context.Context) ([]models.Room, bool, error) {
	var cached []cachedRoom
	if s.cache.Get(ctx, RoomCatalogCacheKey, &cached) {
		return fromCache(cached), true, nil
	}

	start := time.Now()
	rooms, err := s.rooms.ListAll(ctx)
	s.metrics.ObserveDBQuery("list_rooms", time.Since(start))
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	s.cache.Set(ctx, RoomCatalogCacheKey, toCache(rooms), s.cacheTTL)
	return rooms, false, nil
}

func filterBuilding(rooms []models.Room, building string) []models.Room {
	out := make([]models.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.BuildingName == building {
			out = append(out, room)
		}
	}
	return out
}

func toCache(rooms []models.Room) []cachedRoom {
	out := make([]cachedRoom, len(rooms))
	for i, room := range rooms {
		occ := make(map[models.Weekday]string, len(room.Occupancy))
		for day, raw := range room.Occupancy {
			occ[day] = string(raw)
		}
		out[i] = cachedRoom{Room: room, Occupancy: occ}
	}
	return out
}

func fromCache(cached []cachedRoom) []models.Room {
	out := make([]models.Room, len(cached))
	for i, c := range cached {
		room := c.Room
		room.Occupancy = make(map[models.Weekday]types.JSONText, len(c.Occupancy))
		for day, raw := range c.Occupancy {
			room.Occupancy[day] = types.JSONText(raw)
		}
		out[i] = room
	}
	return out
}
