package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-companion-api/internal/availability"
	"github.com/noah-isme/campus-companion-api/internal/dto"
	"github.com/noah-isme/campus-companion-api/internal/models"
	appErrors "github.com/noah-isme/campus-companion-api/pkg/errors"
	"github.com/noah-isme/campus-companion-api/pkg/export"
)

type timetableStore interface {
	Load(ctx context.Context, deviceID string) ([]models.PersonalClass, error)
	Update(ctx context.Context, deviceID string, fn func([]models.PersonalClass) ([]models.PersonalClass, error)) error
}

type courseSource interface {
	Get(ctx context.Context, classID string) (*models.Course, error)
	ToEntries(course *models.Course) ([]models.ScheduleEntry, error)
}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
}

// TimetableServiceOptions tunes TimetableService. Zero values fall back to defaults.
type TimetableServiceOptions struct {
	Location *time.Location
	Now      func() time.Time
	NewID    func() string
}

// TimetableService manages the personal timetable stored per device.
type TimetableService struct {
	store     timetableStore
	courses   courseSource
	csv       tableRenderer
	pdf       tableRenderer
	metrics   *MetricsService
	validator *validator.Validate
	loc       *time.Location
	now       func() time.Time
	newID     func() string
	logger    *zap.Logger
}

// NewTimetableService constructs the timetable service.
func NewTimetableService(
	store timetableStore,
	courses courseSource,
	csv tableRenderer,
	pdf tableRenderer,
	metrics *MetricsService,
	validate *validator.Validate,
	opts TimetableServiceOptions,
	logger *zap.Logger,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &TimetableService{
		store:     store,
		courses:   courses,
		csv:       csv,
		pdf:       pdf,
		metrics:   metrics,
		validator: validate,
		loc:       opts.Location,
		now:       opts.Now,
		newID:     opts.NewID,
		logger:    logger,
	}
}

// List returns the device's classes in insertion order.
func (s *TimetableService) List(ctx context.Context, deviceID string) ([]models.PersonalClass, error) {
	if deviceID == "" {
		return nil, appErrors.ErrDeviceRequired
	}
	classes, err := s.store.Load(ctx, deviceID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	return classes, nil
}

// Add stores a new class unless it overlaps an existing one, in which case a TIMETABLE_CONFLICT
// error lists the clashing classes and nothing is written.
func (s *TimetableService) Add(ctx context.Context, deviceID string, req dto.CreateClassRequest) (*models.PersonalClass, error) {
	if deviceID == "" {
		return nil, appErrors.ErrDeviceRequired
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}
	if err := validateEntries(req.Schedules); err != nil {
		return nil, err
	}
	class := models.PersonalClass{
		ID:        s.newID(),
		Name:      strings.TrimSpace(req.Name),
		Code:      strings.TrimSpace(req.Code),
		Schedules: req.Schedules,
	}
	return s.insert(ctx, deviceID, class)
}

// AddCourse adds a catalog course, translating its periods into clock ranges.
func (s *TimetableService) AddCourse(ctx context.Context, deviceID, classID string) (*models.PersonalClass, error) {
	if deviceID == "" {
		return nil, appErrors.ErrDeviceRequired
	}
	course, err := s.courses.Get(ctx, classID)
	if err != nil {
		return nil, err
	}
	entries, err := s.courses.ToEntries(course)
	if err != nil {
		return nil, err
	}
	class := models.PersonalClass{
		ID:        s.newID(),
		Name:      course.Subject,
		Code:      course.ClassID,
		Schedules: entries,
	}
	return s.insert(ctx, deviceID, class)
}

// CheckConflicts reports which stored classes the given schedules would overlap without writing.
func (s *TimetableService) CheckConflicts(ctx context.Context, deviceID string, req dto.ConflictCheckRequest) (*dto.ConflictCheckResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid conflict check payload")
	}
	if err := validateEntries(req.Schedules); err != nil {
		return nil, err
	}
	classes, err := s.List(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	conflicts := toConflicts(availability.FindConflicts(classes, req.Schedules))
	s.metrics.RecordAvailabilityQuery(QueryConflictCheck, len(conflicts))
	return &dto.ConflictCheckResponse{HasConflict: len(conflicts) > 0, Conflicts: conflicts}, nil
}

// Delete removes a class by id.
func (s *TimetableService) Delete(ctx context.Context, deviceID, classID string) error {
	if deviceID == "" {
		return appErrors.ErrDeviceRequired
	}
	err := s.store.Update(ctx, deviceID, func(current []models.PersonalClass) ([]models.PersonalClass, error) {
		for i, class := range current {
			if class.ID == classID {
				return append(current[:i:i], current[i+1:]...), nil
			}
		}
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	})
	return s.storeError(err, "failed to delete class")
}

// Next returns the upcoming class relative to now on the campus clock, or to the day and time
// in query when given. It is nil for an empty timetable.
func (s *TimetableService) Next(ctx context.Context, deviceID string, query dto.NextClassQuery) (*models.NextClass, error) {
	classes, err := s.List(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	next := availability.NextClass(classes, s.reference(query))
	found := 0
	if next != nil {
		found = 1
	}
	s.metrics.RecordAvailabilityQuery(QueryNextClass, found)
	return next, nil
}

// Export renders the timetable as CSV or PDF, one row per weekly meeting ordered by day and time.
func (s *TimetableService) Export(ctx context.Context, deviceID string, format dto.ExportFormat) (*dto.ExportedFile, error) {
	var (
		renderer    tableRenderer
		contentType string
	)
	switch format {
	case dto.ExportFormatCSV, "":
		format, renderer, contentType = dto.ExportFormatCSV, s.csv, "text/csv; charset=utf-8"
	case dto.ExportFormatPDF:
		renderer, contentType = s.pdf, "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	if renderer == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "exporter not configured")
	}

	classes, err := s.List(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	body, err := renderer.Render(timetableTable(classes))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}
	return &dto.ExportedFile{
		Filename:    fmt.Sprintf("timetable.%s", format),
		ContentType: contentType,
		Body:        body,
	}, nil
}

func (s *TimetableService) insert(ctx context.Context, deviceID string, class models.PersonalClass) (*models.PersonalClass, error) {
	err := s.store.Update(ctx, deviceID, func(current []models.PersonalClass) ([]models.PersonalClass, error) {
		if conflicts := availability.FindConflicts(current, class.Schedules); len(conflicts) > 0 {
			return nil, conflictError(conflicts)
		}
		return append(current, class), nil
	})
	if err := s.storeError(err, "failed to save class"); err != nil {
		return nil, err
	}
	s.logger.Info("class added to timetable", zap.String("device_id", deviceID), zap.String("class_id", class.ID))
	return &class, nil
}

func (s *TimetableService) storeError(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

// reference resolves the instant NextClass compares against. A requested day moves the date
// within the current week; a requested time replaces the wall clock.
func (s *TimetableService) reference(query dto.NextClassQuery) time.Time {
	now := s.now().In(s.loc)
	if query.Day == nil && query.Time == nil {
		return now
	}
	day := models.WeekdayOf(now)
	at := models.ClockOf(now)
	if query.Day != nil {
		day = *query.Day
	}
	if query.Time != nil {
		at = *query.Time
	}
	base := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	base = base.AddDate(0, 0, int(day)-int(models.WeekdayOf(now)))
	return base.Add(time.Duration(at.Minutes()) * time.Minute)
}

// validateEntries rejects empty ranges and meetings of the same class that overlap each other.
func validateEntries(entries []models.ScheduleEntry) error {
	for i, entry := range entries {
		if entry.End <= entry.Start {
			return appErrors.Clone(appErrors.ErrValidation, "end_time must be after start_time")
		}
		for _, other := range entries[:i] {
			if availability.EntriesOverlap(entry, other) {
				return appErrors.Clone(appErrors.ErrValidation, "schedules of one class must not overlap")
			}
		}
	}
	return nil
}

func conflictError(classes []models.PersonalClass) error {
	conflicts := toConflicts(classes)
	names := make([]string, len(conflicts))
	for i, c := range conflicts {
		names[i] = c.Name
	}
	details := &models.TimetableConflictError{
		Message:   fmt.Sprintf("overlaps with %s", strings.Join(names, ", ")),
		Conflicts: conflicts,
	}
	return appErrors.WithDetails(appErrors.Clone(appErrors.ErrTimetableConflict, details.Message), details)
}

func toConflicts(classes []models.PersonalClass) []models.TimetableConflict {
	out := make([]models.TimetableConflict, len(classes))
	for i, class := range classes {
		out[i] = models.TimetableConflict{ClassID: class.ID, Name: class.Name, Code: class.Code}
	}
	return out
}

func timetableTable(classes []models.PersonalClass) export.Table {
	type row struct {
		entry models.ScheduleEntry
		class models.PersonalClass
	}
	var rows []row
	for _, class := range classes {
		for _, entry := range class.Schedules {
			rows = append(rows, row{entry: entry, class: class})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].entry.Day != rows[j].entry.Day {
			return rows[i].entry.Day < rows[j].entry.Day
		}
		return rows[i].entry.Start < rows[j].entry.Start
	})

	table := export.Table{
		Title:   "Timetable",
		Headers: []string{"Day", "Start", "End", "Class", "Code"},
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			r.entry.Day.String(),
			r.entry.Start.String(),
			r.entry.End.String(),
			r.class.Name,
			r.class.Code,
		})
	}
	return table
}
