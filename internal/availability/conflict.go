package availability

import "github.com/noah-isme/campus-companion-api/internal/models"

// EntriesOverlap reports whether two meetings fall on the same weekday and their half-open
// [start, end) intervals intersect. Touching boundaries do not overlap.
func EntriesOverlap(a, b models.ScheduleEntry) bool {
	return a.Day == b.Day && a.Start < b.End && a.End > b.Start
}

// FindConflicts returns, in stored order, the existing classes that have at least one meeting
// overlapping any candidate meeting. No conflict yields an empty slice.
func FindConflicts(existing []models.PersonalClass, candidate []models.ScheduleEntry) []models.PersonalClass {
	out := []models.PersonalClass{}
	for _, class := range existing {
		if classConflicts(class, candidate) {
			out = append(out, class)
		}
	}
	return out
}

func classConflicts(class models.PersonalClass, candidate []models.ScheduleEntry) bool {
	for _, have := range class.Schedules {
		for _, want := range candidate {
			if EntriesOverlap(want, have) {
				return true
			}
		}
	}
	return false
}
