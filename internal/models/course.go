package models

import "github.com/jmoiron/sqlx/types"

// Course is a published class section from the course catalog.
type Course struct {
	ID       int64          `db:"id" json:"id"`
	Subject  string         `db:"subject" json:"subject"`
	ClassID  string         `db:"class_id" json:"class_id"`
	Building string         `db:"building" json:"building"`
	Room     string         `db:"room" json:"room"`
	Schedule types.JSONText `db:"schedule" json:"schedule"`
}

// CourseMeeting is one element of Course.Schedule: the periods a course meets on a day.
type CourseMeeting struct {
	Day     string   `json:"day"`
	Periods []Period `json:"time"`
}
