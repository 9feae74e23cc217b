package models

// ScheduleEntry is one weekly meeting of a personal class.
type ScheduleEntry struct {
	Day   Weekday   `json:"day" validate:"min=0,max=6"`
	Start ClockTime `json:"start_time" validate:"min=0,max=1439"`
	End   ClockTime `json:"end_time" validate:"min=1,max=1440"`
}

// PersonalClass is a class the user added to their own timetable.
type PersonalClass struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	Schedules []ScheduleEntry `json:"schedules"`
}

// NextClass is the upcoming meeting of a personal class relative to a reference instant.
type NextClass struct {
	ClassID string    `json:"class_id"`
	Name    string    `json:"name"`
	Code    string    `json:"code"`
	Day     Weekday   `json:"day"`
	Start   ClockTime `json:"start_time"`
	End     ClockTime `json:"end_time"`
}

// TimetableConflict names an existing class that overlaps a candidate.
type TimetableConflict struct {
	ClassID string `json:"class_id"`
	Name    string `json:"name"`
	Code    string `json:"code"`
}

// TimetableConflictError is returned when a class cannot be added because of overlaps.
type TimetableConflictError struct {
	Message   string              `json:"message"`
	Conflicts []TimetableConflict `json:"conflicts"`
}

// Error implements the error interface.
func (e *TimetableConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
