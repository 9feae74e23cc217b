package dto

import "github.com/noah-isme/campus-companion-api/internal/models"

// CreateClassRequest adds a class to the personal timetable.
type CreateClassRequest struct {
	Name      string                 `json:"name" validate:"required,max=200"`
	Code      string                 `json:"code" validate:"max=50"`
	Schedules []models.ScheduleEntry `json:"schedules" validate:"required,min=1,dive"`
}

// ConflictCheckRequest asks whether schedules would clash with the timetable.
type ConflictCheckRequest struct {
	Schedules []models.ScheduleEntry `json:"schedules" validate:"required,min=1,dive"`
}

// ConflictCheckResponse lists the classes a candidate would clash with.
type ConflictCheckResponse struct {
	HasConflict bool                       `json:"has_conflict"`
	Conflicts   []models.TimetableConflict `json:"conflicts"`
}

// NextClassQuery overrides the reference instant for the next-class lookup.
type NextClassQuery struct {
	Day  *models.Weekday
	Time *models.ClockTime
}

// NextClassResponse wraps the upcoming class; Class is nil for an empty timetable.
type NextClassResponse struct {
	Class *models.NextClass `json:"class"`
}

// ExportFormat selects the timetable export renderer.
type ExportFormat string

const (
	ExportFormatPDF ExportFormat = "pdf"
	ExportFormatCSV ExportFormat = "csv"
)

// ExportedFile is a rendered timetable ready for download.
type ExportedFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
