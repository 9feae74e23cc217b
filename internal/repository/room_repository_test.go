package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-companion-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var roomRowColumns = []string{"id", "building_name", "lat", "lng", "room_number", "mon", "tue", "wed", "thu", "fri"}

func TestRoomRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	rows := sqlmock.NewRows(roomRowColumns).
		AddRow(1, "공학관", 37.5, 127.0, "101", `["1A","1B"]`, "[]", "[]", "[]", "[]").
		AddRow(2, "인문관", 37.6, 127.1, "201", "[]", "not json", "[]", "[]", nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, building_name, lat, lng, room_number, mon, tue, wed, thu, fri FROM rooms ORDER BY id ASC")).
		WillReturnRows(rows)

	rooms, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "공학관", rooms[0].BuildingName)
	assert.Equal(t, models.Coordinate{Lat: 37.5, Lng: 127.0}, rooms[0].Coordinate)
	assert.Equal(t, types.JSONText(`["1A","1B"]`), rooms[0].Occupancy[models.Monday])
	assert.Equal(t, types.JSONText("not json"), rooms[1].Occupancy[models.Tuesday])
	assert.Empty(t, rooms[1].Occupancy[models.Friday])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryListByBuilding(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM rooms WHERE building_name = $1 ORDER BY room_number ASC")).
		WithArgs("공학관").
		WillReturnRows(sqlmock.NewRows(roomRowColumns).AddRow(1, "공학관", 37.5, 127.0, "101", "[]", "[]", "[]", "[]", "[]"))

	rooms, err := repo.ListByBuilding(context.Background(), "공학관")
	require.NoError(t, err)
	assert.Len(t, rooms, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryListBuildings(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT building_name, AVG(lat) AS lat, AVG(lng) AS lng, COUNT(*) AS room_count FROM rooms GROUP BY building_name")).
		WillReturnRows(sqlmock.NewRows([]string{"building_name", "lat", "lng", "room_count"}).
			AddRow("공학관", 37.5, 127.0, 12))

	buildings, err := repo.ListBuildings(context.Background())
	require.NoError(t, err)
	require.Len(t, buildings, 1)
	assert.Equal(t, models.Building{Name: "공학관", Lat: 37.5, Lng: 127.0, RoomCount: 12}, buildings[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryBulkUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO rooms")).
		WithArgs("공학관", 37.5, 127.0, "101", `["1A"]`, "[]", "[]", "[]", "[]").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.BulkUpsert(context.Background(), []models.Room{{
		BuildingName: "공학관",
		Coordinate:   models.Coordinate{Lat: 37.5, Lng: 127.0},
		RoomNumber:   "101",
		Occupancy:    map[models.Weekday]types.JSONText{models.Monday: types.JSONText(`["1A"]`)},
	}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryBulkUpsertRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO rooms")).WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := repo.BulkUpsert(context.Background(), []models.Room{{BuildingName: "공학관", RoomNumber: "101"}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomRepositoryCount(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRoomRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM rooms")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
