package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-companion-api/internal/models"
)

const courseColumns = "id, subject, class_id, building, room, schedule"

// CourseRepository provides access to the published course catalog.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Search matches term as a case-insensitive substring of the subject or the class id. An empty
// term returns the first limit courses.
func (r *CourseRepository) Search(ctx context.Context, term string, limit int) ([]models.Course, error) {
	var courses []models.Course
	term = strings.TrimSpace(term)
	if term == "" {
		query := "SELECT " + courseColumns + " FROM courses ORDER BY id ASC LIMIT $1"
		if err := r.db.SelectContext(ctx, &courses, query, limit); err != nil {
			return nil, fmt.Errorf("list courses: %w", err)
		}
		return courses, nil
	}

	pattern := "%" + escapeLike(term) + "%"
	query := "SELECT " + courseColumns + " FROM courses WHERE subject ILIKE $1 OR class_id ILIKE $1 ORDER BY subject ASC, class_id ASC LIMIT $2"
	if err := r.db.SelectContext(ctx, &courses, query, pattern, limit); err != nil {
		return nil, fmt.Errorf("search courses: %w", err)
	}
	return courses, nil
}

// FindByClassID loads a course by its class id.
func (r *CourseRepository) FindByClassID(ctx context.Context, classID string) (*models.Course, error) {
	var course models.Course
	query := "SELECT " + courseColumns + " FROM courses WHERE class_id = $1"
	if err := r.db.GetContext(ctx, &course, query, classID); err != nil {
		return nil, err
	}
	return &course, nil
}

// Count returns the number of stored courses.
func (r *CourseRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM courses`); err != nil {
		return 0, fmt.Errorf("count courses: %w", err)
	}
	return total, nil
}

// BulkInsert stores courses in one transaction, ignoring class ids that already exist.
func (r *CourseRepository) BulkInsert(ctx context.Context, courses []models.Course) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk insert courses: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO courses (subject, class_id, building, room, schedule) VALUES (:subject, :class_id, :building, :room, :schedule) ON CONFLICT (class_id) DO NOTHING`
	for i := range courses {
		if _, err = tx.NamedExecContext(ctx, query, &courses[i]); err != nil {
			return fmt.Errorf("insert course %s: %w", courses[i].ClassID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk insert courses: %w", err)
	}
	return nil
}

func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}
