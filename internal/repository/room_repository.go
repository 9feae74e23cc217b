package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/campus-companion-api/internal/models"
)

const roomColumns = "id, building_name, lat, lng, room_number, mon, tue, wed, thu, fri"

type roomRow struct {
	ID           int64          `db:"id"`
	BuildingName string         `db:"building_name"`
	Lat          float64        `db:"lat"`
	Lng          float64        `db:"lng"`
	RoomNumber   string         `db:"room_number"`
	Mon          sql.NullString `db:"mon"`
	Tue          sql.NullString `db:"tue"`
	Wed          sql.NullString `db:"wed"`
	Thu          sql.NullString `db:"thu"`
	Fri          sql.NullString `db:"fri"`
}

func (r roomRow) toModel() models.Room {
	return models.Room{
		ID:           r.ID,
		BuildingName: r.BuildingName,
		Coordinate:   models.Coordinate{Lat: r.Lat, Lng: r.Lng},
		RoomNumber:   r.RoomNumber,
		Occupancy: map[models.Weekday]types.JSONText{
			models.Monday:    types.JSONText(r.Mon.String),
			models.Tuesday:   types.JSONText(r.Tue.String),
			models.Wednesday: types.JSONText(r.Wed.String),
			models.Thursday:  types.JSONText(r.Thu.String),
			models.Friday:    types.JSONText(r.Fri.String),
		},
	}
}

func rowFromModel(room models.Room) roomRow {
	day := func(d models.Weekday) sql.NullString {
		raw := room.Occupancy[d]
		if len(raw) == 0 {
			return sql.NullString{String: "[]", Valid: true}
		}
		return sql.NullString{String: string(raw), Valid: true}
	}
	return roomRow{
		ID:           room.ID,
		BuildingName: room.BuildingName,
		Lat:          room.Coordinate.Lat,
		Lng:          room.Coordinate.Lng,
		RoomNumber:   room.RoomNumber,
		Mon:          day(models.Monday),
		Tue:          day(models.Tuesday),
		Wed:          day(models.Wednesday),
		Thu:          day(models.Thursday),
		Fri:          day(models.Friday),
	}
}

// RoomRepository reads and seeds the classroom catalog.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository creates a new room repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// ListAll returns every room ordered by id.
func (r *RoomRepository) ListAll(ctx context.Context) ([]models.Room, error) {
	var rows []roomRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT "+roomColumns+" FROM rooms ORDER BY id ASC"); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return toRooms(rows), nil
}

// ListByBuilding returns the rooms of one building ordered by room number.
func (r *RoomRepository) ListByBuilding(ctx context.Context, building string) ([]models.Room, error) {
	var rows []roomRow
	query := "SELECT " + roomColumns + " FROM rooms WHERE building_name = $1 ORDER BY room_number ASC"
	if err := r.db.SelectContext(ctx, &rows, query, building); err != nil {
		return nil, fmt.Errorf("list rooms by building: %w", err)
	}
	return toRooms(rows), nil
}

// ListBuildings aggregates rooms into one marker per building.
func (r *RoomRepository) ListBuildings(ctx context.Context) ([]models.Building, error) {
	const query = `SELECT building_name, AVG(lat) AS lat, AVG(lng) AS lng, COUNT(*) AS room_count FROM rooms GROUP BY building_name ORDER BY building_name ASC`
	var buildings []models.Building
	if err := r.db.SelectContext(ctx, &buildings, query); err != nil {
		return nil, fmt.Errorf("list buildings: %w", err)
	}
	return buildings, nil
}

// Count returns the number of stored rooms.
func (r *RoomRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM rooms`); err != nil {
		return 0, fmt.Errorf("count rooms: %w", err)
	}
	return total, nil
}

// BulkUpsert inserts rooms in one transaction, replacing occupancy of rooms that already exist.
func (r *RoomRepository) BulkUpsert(ctx context.Context, rooms []models.Room) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk upsert rooms: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO rooms (building_name, lat, lng, room_number, mon, tue, wed, thu, fri) VALUES (:building_name, :lat, :lng, :room_number, :mon, :tue, :wed, :thu, :fri) ON CONFLICT (building_name, room_number) DO UPDATE SET lat = EXCLUDED.lat, lng = EXCLUDED.lng, mon = EXCLUDED.mon, tue = EXCLUDED.tue, wed = EXCLUDED.wed, thu = EXCLUDED.thu, fri = EXCLUDED.fri`
	for _, room := range rooms {
		row := rowFromModel(room)
		if _, err = tx.NamedExecContext(ctx, query, &row); err != nil {
			return fmt.Errorf("upsert room %s %s: %w", room.BuildingName, room.RoomNumber, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk upsert rooms: %w", err)
	}
	return nil
}

func toRooms(rows []roomRow) []models.Room {
	rooms := make([]models.Room, 0, len(rows))
	for _, row := range rows {
		rooms = append(rooms, row.toModel())
	}
	return rooms
}
