package models

import (
	"fmt"
	"strings"
	"time"
)

// Weekday indexes days Sunday=0 through Saturday=6, matching time.Weekday so that
// "next occurrence" arithmetic can wrap modulo 7.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var weekdayKeys = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

var weekdayAliases = map[string]Weekday{
	"sunday": Sunday, "monday": Monday, "tuesday": Tuesday, "wednesday": Wednesday,
	"thursday": Thursday, "friday": Friday, "saturday": Saturday,
	"일": Sunday, "월": Monday, "화": Tuesday, "수": Wednesday, "목": Thursday, "금": Friday, "토": Saturday,
}

// SchoolDays lists the weekdays that carry occupancy data.
var SchoolDays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// WeekdayOf returns the weekday of t in t's location.
func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday())
}

// ParseWeekday accepts "mon", "Monday" or the Korean single-character day name.
func ParseWeekday(raw string) (Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	for i, k := range weekdayKeys {
		if key == k {
			return Weekday(i), nil
		}
	}
	if d, ok := weekdayAliases[key]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("unknown weekday %q", raw)
}

// Valid reports whether d is within Sunday..Saturday.
func (d Weekday) Valid() bool {
	return d >= Sunday && d <= Saturday
}

// IsSchoolDay is true Monday through Friday.
func (d Weekday) IsSchoolDay() bool {
	return d >= Monday && d <= Friday
}

// String returns the three-letter key.
func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayKeys[d]
}

// MarshalText encodes the weekday as its key.
func (d Weekday) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid weekday %d", int(d))
	}
	return []byte(weekdayKeys[d]), nil
}

// UnmarshalText decodes any form accepted by ParseWeekday.
func (d *Weekday) UnmarshalText(text []byte) error {
	parsed, err := ParseWeekday(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
