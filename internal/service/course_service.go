package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-companion-api/internal/availability"
	"github.com/noah-isme/campus-companion-api/internal/models"
	appErrors "github.com/noah-isme/campus-companion-api/pkg/errors"
)

const (
	courseBrowseLimit = 20
	courseSearchLimit = 50
)

type courseReader interface {
	Search(ctx context.Context, term string, limit int) ([]models.Course, error)
	FindByClassID(ctx context.Context, classID string) (*models.Course, error)
}

// CourseService searches the published course catalog and translates courses into timetable entries.
type CourseService struct {
	courses courseReader
	catalog *availability.Catalog
	logger  *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(courses courseReader, catalog *availability.Catalog, logger *zap.Logger) *CourseService {
	if catalog == nil {
		catalog = availability.DefaultCatalog()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{courses: courses, catalog: catalog, logger: logger}
}

// Search matches term against subject and class id. A blank term browses the first page.
func (s *CourseService) Search(ctx context.Context, term string) ([]models.Course, error) {
	limit := courseSearchLimit
	if strings.TrimSpace(term) == "" {
		limit = courseBrowseLimit
	}
	courses, err := s.courses.Search(ctx, term, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to search courses")
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}

// Get loads a course by class id.
func (s *CourseService) Get(ctx context.Context, classID string) (*models.Course, error) {
	course, err := s.courses.FindByClassID(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// ToEntries converts the course's period-based meetings into clock ranges. Contiguous periods
// become one entry; unknown days and periods are skipped.
func (s *CourseService) ToEntries(course *models.Course) ([]models.ScheduleEntry, error) {
	var meetings []models.CourseMeeting
	if len(course.Schedule) > 0 {
		if err := json.Unmarshal(course.Schedule, &meetings); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "course schedule is malformed")
		}
	}

	entries := make([]models.ScheduleEntry, 0, len(meetings))
	for _, meeting := range meetings {
		day, err := models.ParseWeekday(meeting.Day)
		if err != nil {
			s.logger.Warn("skipping meeting with unknown day", zap.String("class_id", course.ClassID), zap.String("day", meeting.Day))
			continue
		}
		ranges, unknown := s.catalog.Segments(meeting.Periods)
		if len(unknown) > 0 {
			s.logger.Warn("skipping unknown periods", zap.String("class_id", course.ClassID), zap.Any("periods", unknown))
		}
		for _, r := range ranges {
			entries = append(entries, models.ScheduleEntry{Day: day, Start: r[0], End: r[1]})
		}
	}
	if len(entries) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course has no schedulable meetings")
	}
	return entries, nil
}
