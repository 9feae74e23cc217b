package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/noah-isme/campus-companion-api/internal/dto"
	"github.com/noah-isme/campus-companion-api/internal/models"
	"github.com/noah-isme/campus-companion-api/internal/repository"
	appErrors "github.com/noah-isme/campus-companion-api/pkg/errors"
)

type roomRepoStub struct {
	rooms     []models.Room
	buildings []models.Building
	err       error
	listCalls int
}

func (s *roomRepoStub) ListAll(ctx context.Context) ([]models.Room, error) {
	s.listCalls++
	return s.rooms, s.err
}

func (s *roomRepoStub) ListByBuilding(ctx context.Context, building string) ([]models.Room, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.Room
	for _, room := range s.rooms {
		if room.BuildingName == building {
			out = append(out, room)
		}
	}
	return out, nil
}

func (s *roomRepoStub) ListBuildings(ctx context.Context) ([]models.Building, error) {
	return s.buildings, s.err
}

func occupied(mon string) map[models.Weekday]types.JSONText {
	return map[models.Weekday]types.JSONText{models.Monday: types.JSONText(mon)}
}

func sampleRooms() []models.Room {
	return []models.Room{
		{ID: 1, BuildingName: "인문관", RoomNumber: "101", Coordinate: models.Coordinate{Lat: 37.5010, Lng: 127.0}, Occupancy: occupied(`["1A"]`)},
		{ID: 2, BuildingName: "공학관", RoomNumber: "201", Coordinate: models.Coordinate{Lat: 37.5020, Lng: 127.0}, Occupancy: occupied(`["2A"]`)},
		{ID: 3, BuildingName: "자연과학관", RoomNumber: "301", Coordinate: models.Coordinate{Lat: 37.5001, Lng: 127.0}, Occupancy: occupied(`[]`)},
	}
}

// mondayAt returns Monday 2025-09-01 at the given wall clock in UTC.
func mondayAt(hour, minute int) func() time.Time {
	return func() time.Time { return time.Date(2025, time.September, 1, hour, minute, 0, 0, time.UTC) }
}

func newRoomService(repo *roomRepoStub, cache *CacheService, now func() time.Time) *RoomService {
	return NewRoomService(repo, nil, cache, NewMetricsService(), RoomServiceOptions{
		Location: time.UTC,
		Locale:   language.Korean,
		Now:      now,
	}, zap.NewNop())
}

func roomIDs(ranked []models.RankedRoom) []int64 {
	out := make([]int64, len(ranked))
	for i, r := range ranked {
		out[i] = r.ID
	}
	return out
}

func TestRoomServiceFreeRoomsNowSortedByName(t *testing.T) {
	svc := newRoomService(&roomRepoStub{rooms: sampleRooms()}, nil, mondayAt(9, 10))

	result, hit, err := svc.FreeRooms(context.Background(), dto.FreeRoomQuery{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, models.Monday, result.Day)
	assert.Equal(t, models.Clock(9, 10), result.At)
	assert.Equal(t, []models.Period{"1A"}, result.Periods)
	assert.True(t, result.Filtered)
	assert.False(t, result.LocationAvailable)
	assert.Equal(t, []int64{2, 3}, roomIDs(result.Rooms))
	assert.Equal(t, 1, result.Rooms[0].Rank)
}

func TestRoomServiceFreeRoomsWithDurationAndLocation(t *testing.T) {
	svc := newRoomService(&roomRepoStub{rooms: sampleRooms()}, nil, mondayAt(9, 10))
	at := models.Clock(9, 0)

	result, _, err := svc.FreeRooms(context.Background(), dto.FreeRoomQuery{
		Time:     &at,
		Duration: "1h30m",
		Location: &models.Coordinate{Lat: 37.5, Lng: 127.0},
	})
	require.NoError(t, err)
	assert.Equal(t, []models.Period{"1A", "1B", "2A"}, result.Periods)
	assert.Equal(t, []int64{3}, roomIDs(result.Rooms))
	require.NotNil(t, result.Rooms[0].DistanceKm)
	assert.True(t, result.LocationAvailable)
}

func TestRoomServiceFreeRoomsWeekendReturnsEveryRoom(t *testing.T) {
	svc := newRoomService(&roomRepoStub{rooms: sampleRooms()}, nil, mondayAt(9, 10))
	sunday := models.Sunday

	result, _, err := svc.FreeRooms(context.Background(), dto.FreeRoomQuery{Day: &sunday})
	require.NoError(t, err)
	assert.False(t, result.Filtered)
	assert.Len(t, result.Rooms, 3)
}

func TestRoomServiceFreeRoomsMalformedDurationDisablesFilter(t *testing.T) {
	svc := newRoomService(&roomRepoStub{rooms: sampleRooms()}, nil, mondayAt(9, 10))

	result, _, err := svc.FreeRooms(context.Background(), dto.FreeRoomQuery{Duration: "soon"})
	require.NoError(t, err)
	assert.False(t, result.Filtered)
	assert.Empty(t, result.Periods)
	assert.Len(t, result.Rooms, 3)
}

func TestRoomServiceFreeRoomsBuildingFilter(t *testing.T) {
	svc := newRoomService(&roomRepoStub{rooms: sampleRooms()}, nil, mondayAt(9, 10))

	result, _, err := svc.FreeRooms(context.Background(), dto.FreeRoomQuery{Building: "공학관"})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, roomIDs(result.Rooms))
}

func TestRoomServiceFreeRoomsStoreFailure(t *testing.T) {
	svc := newRoomService(&roomRepoStub{err: errors.New("db down")}, nil, mondayAt(9, 10))

	_, _, err := svc.FreeRooms(context.Background(), dto.FreeRoomQuery{})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInternal)
}

func TestRoomServiceCachesCatalogWithOccupancy(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	metrics := NewMetricsService()
	cache := NewCacheService(repository.NewCacheRepository(client, zap.NewNop()), metrics, time.Minute, zap.NewNop(), true)
	repo := &roomRepoStub{rooms: sampleRooms()}
	svc := newRoomService(repo, cache, mondayAt(9, 10))

	first, hit, err := svc.FreeRooms(context.Background(), dto.FreeRoomQuery{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.True(t, srv.Exists(RoomCatalogCacheKey))

	second, hit, err := svc.FreeRooms(context.Background(), dto.FreeRoomQuery{})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, roomIDs(first.Rooms), roomIDs(second.Rooms))

	require.NoError(t, svc.InvalidateCatalog(context.Background()))
	assert.False(t, srv.Exists(RoomCatalogCacheKey))
}

func TestRoomServiceNearest(t *testing.T) {
	svc := newRoomService(&roomRepoStub{rooms: sampleRooms()}, nil, mondayAt(9, 10))

	nearest, err := svc.Nearest(context.Background(), dto.FreeRoomQuery{Location: &models.Coordinate{Lat: 37.5, Lng: 127.0}})
	require.NoError(t, err)
	assert.Equal(t, models.NearestFound, nearest.Status)
	require.NotNil(t, nearest.Room)
	assert.Equal(t, int64(3), nearest.Room.ID)
	require.NotNil(t, nearest.DistanceMeters)
	assert.Equal(t, 11, *nearest.DistanceMeters)
}

func TestRoomServiceNearestWithoutLocation(t *testing.T) {
	repo := &roomRepoStub{rooms: sampleRooms()}
	svc := newRoomService(repo, nil, mondayAt(9, 10))

	nearest, err := svc.Nearest(context.Background(), dto.FreeRoomQuery{})
	require.NoError(t, err)
	assert.Equal(t, models.NearestLocationUnavailable, nearest.Status)
	assert.Zero(t, repo.listCalls)
}

func TestRoomServiceNearestNoRoomAvailable(t *testing.T) {
	rooms := []models.Room{{ID: 1, BuildingName: "인문관", Occupancy: occupied(`["1A"]`)}}
	svc := newRoomService(&roomRepoStub{rooms: rooms}, nil, mondayAt(9, 10))

	nearest, err := svc.Nearest(context.Background(), dto.FreeRoomQuery{Location: &models.Coordinate{Lat: 37.5, Lng: 127.0}})
	require.NoError(t, err)
	assert.Equal(t, models.NearestNoRoomAvailable, nearest.Status)
	assert.Nil(t, nearest.Room)
}

func TestRoomServiceBuildingFreeRooms(t *testing.T) {
	svc := newRoomService(&roomRepoStub{rooms: sampleRooms()}, nil, mondayAt(9, 10))

	result, err := svc.BuildingFreeRooms(context.Background(), "인문관", dto.FreeRoomQuery{})
	require.NoError(t, err)
	assert.Empty(t, result.Rooms)

	_, err = svc.BuildingFreeRooms(context.Background(), "없는관", dto.FreeRoomQuery{})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestRoomServiceBuildings(t *testing.T) {
	svc := newRoomService(&roomRepoStub{}, nil, mondayAt(9, 10))

	buildings, err := svc.Buildings(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, buildings)
	assert.Empty(t, buildings)
}
