package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-companion-api/internal/models"
	"github.com/noah-isme/campus-companion-api/pkg/config"
)

type roomWriter interface {
	Count(ctx context.Context) (int, error)
	BulkUpsert(ctx context.Context, rooms []models.Room) error
}

type courseWriter interface {
	Count(ctx context.Context) (int, error)
	BulkInsert(ctx context.Context, courses []models.Course) error
}

type catalogInvalidator interface {
	InvalidateCatalog(ctx context.Context) error
}

// SeedReport summarises one seeding run.
type SeedReport struct {
	Rooms          int  `json:"rooms"`
	Courses        int  `json:"courses"`
	RoomsSkipped   bool `json:"rooms_skipped"`
	CoursesSkipped bool `json:"courses_skipped"`
}

// ReferenceImportService loads buildings, rooms and courses into the reference store.
type ReferenceImportService struct {
	rooms       roomWriter
	courses     courseWriter
	invalidator catalogInvalidator
	logger      *zap.Logger
}

// NewReferenceImportService constructs the importer. invalidator may be nil.
func NewReferenceImportService(rooms roomWriter, courses courseWriter, invalidator catalogInvalidator, logger *zap.Logger) *ReferenceImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceImportService{rooms: rooms, courses: courses, invalidator: invalidator, logger: logger}
}

// Seed imports the configured files into empty tables. Tables that already hold data are left
// alone, and a missing file is logged and skipped.
func (s *ReferenceImportService) Seed(ctx context.Context, cfg config.ReferenceConfig) (SeedReport, error) {
	var report SeedReport

	roomCount, err := s.rooms.Count(ctx)
	if err != nil {
		return report, err
	}
	if roomCount > 0 {
		report.RoomsSkipped = true
	} else {
		for _, src := range []struct {
			path string
			load func(context.Context, io.Reader) (int, error)
		}{
			{cfg.BuildingsFile, s.ImportBuildingsJSON},
			{cfg.RoomsCSV, s.ImportRoomsCSV},
		} {
			n, err := s.importFile(ctx, src.path, src.load)
			if err != nil {
				return report, err
			}
			report.Rooms += n
		}
	}

	courseCount, err := s.courses.Count(ctx)
	if err != nil {
		return report, err
	}
	if courseCount > 0 {
		report.CoursesSkipped = true
	} else {
		n, err := s.importFile(ctx, cfg.CoursesFile, s.ImportCoursesJSON)
		if err != nil {
			return report, err
		}
		report.Courses = n
	}

	s.logger.Info("reference data seeded",
		zap.Int("rooms", report.Rooms),
		zap.Int("courses", report.Courses),
		zap.Bool("rooms_skipped", report.RoomsSkipped),
		zap.Bool("courses_skipped", report.CoursesSkipped),
	)
	return report, nil
}

func (s *ReferenceImportService) importFile(ctx context.Context, path string, load func(context.Context, io.Reader) (int, error)) (int, error) {
	if strings.TrimSpace(path) == "" {
		return 0, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("reference file not found", zap.String("path", path))
			return 0, nil
		}
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	n, err := load(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("import %s: %w", path, err)
	}
	return n, nil
}

type buildingRecord struct {
	Name  string       `json:"name"`
	Lat   float64      `json:"lat"`
	Lng   float64      `json:"lng"`
	Rooms []roomRecord `json:"rooms"`
}

type roomRecord struct {
	Room flexString      `json:"room"`
	Mon  json.RawMessage `json:"mon"`
	Tue  json.RawMessage `json:"tue"`
	Wed  json.RawMessage `json:"wed"`
	Wen  json.RawMessage `json:"wen"`
	Thu  json.RawMessage `json:"thu"`
	Fri  json.RawMessage `json:"fri"`
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("room must be a string or number: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

// ImportBuildingsJSON reads a list of buildings with nested rooms. Wednesday occupancy comes from
// "wed", or from the legacy "wen" key when "wed" is absent.
func (s *ReferenceImportService) ImportBuildingsJSON(ctx context.Context, r io.Reader) (int, error) {
	var buildings []buildingRecord
	if err := json.NewDecoder(r).Decode(&buildings); err != nil {
		return 0, fmt.Errorf("decode buildings: %w", err)
	}

	var rooms []models.Room
	legacy := 0
	for _, b := range buildings {
		for _, rec := range b.Rooms {
			wed := rec.Wed
			if isAbsent(wed) && !isAbsent(rec.Wen) {
				wed = rec.Wen
				legacy++
			}
			rooms = append(rooms, models.Room{
				BuildingName: strings.TrimSpace(b.Name),
				Coordinate:   models.Coordinate{Lat: b.Lat, Lng: b.Lng},
				RoomNumber:   strings.TrimSpace(string(rec.Room)),
				Occupancy: map[models.Weekday]types.JSONText{
					models.Monday:    occupancyText(rec.Mon),
					models.Tuesday:   occupancyText(rec.Tue),
					models.Wednesday: occupancyText(wed),
					models.Thursday:  occupancyText(rec.Thu),
					models.Friday:    occupancyText(rec.Fri),
				},
			})
		}
	}
	if legacy > 0 {
		s.logger.Warn("wednesday occupancy read from legacy wen key", zap.Int("rooms", legacy))
	}
	return s.storeRooms(ctx, rooms)
}

type roomCSVRecord struct {
	Building string  `csv:"building_name"`
	Lat      float64 `csv:"lat"`
	Lng      float64 `csv:"lng"`
	Room     string  `csv:"room_number"`
	Mon      string  `csv:"mon"`
	Tue      string  `csv:"tue"`
	Wed      string  `csv:"wed"`
	Thu      string  `csv:"thu"`
	Fri      string  `csv:"fri"`
}

// ImportRoomsCSV reads one room per line. Day columns hold period labels separated by spaces,
// commas, semicolons or pipes.
func (s *ReferenceImportService) ImportRoomsCSV(ctx context.Context, r io.Reader) (int, error) {
	var records []roomCSVRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return 0, fmt.Errorf("decode rooms csv: %w", err)
	}

	rooms := make([]models.Room, 0, len(records))
	for _, rec := range records {
		rooms = append(rooms, models.Room{
			BuildingName: strings.TrimSpace(rec.Building),
			Coordinate:   models.Coordinate{Lat: rec.Lat, Lng: rec.Lng},
			RoomNumber:   strings.TrimSpace(rec.Room),
			Occupancy: map[models.Weekday]types.JSONText{
				models.Monday:    periodList(rec.Mon),
				models.Tuesday:   periodList(rec.Tue),
				models.Wednesday: periodList(rec.Wed),
				models.Thursday:  periodList(rec.Thu),
				models.Friday:    periodList(rec.Fri),
			},
		})
	}
	return s.storeRooms(ctx, rooms)
}

type courseRecord struct {
	Subject  string          `json:"subject"`
	ClassID  string          `json:"class_id"`
	Building string          `json:"building"`
	Room     flexString      `json:"room"`
	Schedule json.RawMessage `json:"schedule"`
}

// ImportCoursesJSON reads the published course list. Courses without a class id are skipped.
func (s *ReferenceImportService) ImportCoursesJSON(ctx context.Context, r io.Reader) (int, error) {
	var records []courseRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return 0, fmt.Errorf("decode courses: %w", err)
	}

	courses := make([]models.Course, 0, len(records))
	for _, rec := range records {
		if strings.TrimSpace(rec.ClassID) == "" {
			s.logger.Warn("skipping course without class_id", zap.String("subject", rec.Subject))
			continue
		}
		schedule := types.JSONText(rec.Schedule)
		if isAbsent(rec.Schedule) {
			schedule = types.JSONText("[]")
		}
		courses = append(courses, models.Course{
			Subject:  strings.TrimSpace(rec.Subject),
			ClassID:  strings.TrimSpace(rec.ClassID),
			Building: strings.TrimSpace(rec.Building),
			Room:     strings.TrimSpace(string(rec.Room)),
			Schedule: schedule,
		})
	}
	if len(courses) == 0 {
		return 0, nil
	}
	if err := s.courses.BulkInsert(ctx, courses); err != nil {
		return 0, err
	}
	return len(courses), nil
}

func (s *ReferenceImportService) storeRooms(ctx context.Context, rooms []models.Room) (int, error) {
	if len(rooms) == 0 {
		return 0, nil
	}
	if err := s.rooms.BulkUpsert(ctx, rooms); err != nil {
		return 0, err
	}
	if s.invalidator != nil {
		if err := s.invalidator.InvalidateCatalog(ctx); err != nil {
			s.logger.Warn("room catalog cache not invalidated", zap.Error(err))
		}
	}
	return len(rooms), nil
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// occupancyText keeps the stored value verbatim so malformed entries are still visible at query time.
func occupancyText(raw json.RawMessage) types.JSONText {
	if isAbsent(raw) {
		return types.JSONText("[]")
	}
	return types.JSONText(bytes.TrimSpace(raw))
}

func periodList(raw string) types.JSONText {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == ',' || r == ';' || r == '|'
	})
	periods := make([]models.Period, len(fields))
	for i, f := range fields {
		periods[i] = models.Period(strings.ToUpper(f))
	}
	payload, _ := json.Marshal(periods)
	return types.JSONText(payload)
}
