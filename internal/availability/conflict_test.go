package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/campus-companion-api/internal/models"
)

func existingClassA() []models.PersonalClass {
	return []models.PersonalClass{
		{ID: "a", Name: "Data Science Basics", Schedules: []models.ScheduleEntry{
			entry(models.Monday, models.Clock(9, 0), models.Clock(10, 50)),
		}},
		{ID: "b", Name: "Computer Architecture", Schedules: []models.ScheduleEntry{
			entry(models.Tuesday, models.Clock(16, 0), models.Clock(17, 50)),
		}},
	}
}

func TestFindConflictsOverlap(t *testing.T) {
	got := FindConflicts(existingClassA(), []models.ScheduleEntry{
		entry(models.Monday, models.Clock(10, 0), models.Clock(11, 50)),
	})

	if assert.Len(t, got, 1) {
		assert.Equal(t, "a", got[0].ID)
	}
}

func TestFindConflictsBoundaryTouchIsNotOverlap(t *testing.T) {
	got := FindConflicts(existingClassA(), []models.ScheduleEntry{
		entry(models.Monday, models.Clock(10, 50), models.Clock(11, 50)),
	})

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFindConflictsDifferentDay(t *testing.T) {
	got := FindConflicts(existingClassA(), []models.ScheduleEntry{
		entry(models.Wednesday, models.Clock(9, 0), models.Clock(10, 50)),
	})

	assert.Empty(t, got)
}

func TestFindConflictsAnyEntryMatches(t *testing.T) {
	got := FindConflicts(existingClassA(), []models.ScheduleEntry{
		entry(models.Thursday, models.Clock(9, 0), models.Clock(10, 0)),
		entry(models.Tuesday, models.Clock(17, 0), models.Clock(18, 0)),
		entry(models.Monday, models.Clock(8, 0), models.Clock(9, 30)),
	})

	var names []string
	for _, c := range got {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Data Science Basics", "Computer Architecture"}, names)
}

func TestEntriesOverlapContainment(t *testing.T) {
	outer := entry(models.Friday, models.Clock(9, 0), models.Clock(12, 0))
	inner := entry(models.Friday, models.Clock(10, 0), models.Clock(10, 30))

	assert.True(t, EntriesOverlap(outer, inner))
	assert.True(t, EntriesOverlap(inner, outer))
}
