package availability

import (
	"sort"
	"time"

	"github.com/noah-isme/campus-companion-api/internal/models"
)

type flatEntry struct {
	class models.PersonalClass
	entry models.ScheduleEntry
}

// NextClass finds the meeting that comes next after now: later today, else on a later weekday of
// the same week, else the earliest meeting of the week (next week's first class). It returns nil
// only when classes hold no schedule entries.
func NextClass(classes []models.PersonalClass, now time.Time) *models.NextClass {
	var flat []flatEntry
	for _, class := range classes {
		for _, entry := range class.Schedules {
			flat = append(flat, flatEntry{class: class, entry: entry})
		}
	}
	if len(flat) == 0 {
		return nil
	}

	sort.SliceStable(flat, func(i, j int) bool {
		a, b := flat[i].entry, flat[j].entry
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.Start < b.Start
	})

	today := models.WeekdayOf(now)
	minutes := models.ClockOf(now)

	pick := -1
	for i, f := range flat {
		if f.entry.Day == today && f.entry.Start > minutes {
			pick = i
			break
		}
	}
	if pick < 0 {
		for i, f := range flat {
			if f.entry.Day > today {
				pick = i
				break
			}
		}
	}
	if pick < 0 {
		pick = 0
	}

	f := flat[pick]
	return &models.NextClass{
		ClassID: f.class.ID,
		Name:    f.class.Name,
		Code:    f.class.Code,
		Day:     f.entry.Day,
		Start:   f.entry.Start,
		End:     f.entry.End,
	}
}
