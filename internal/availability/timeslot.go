// Package availability computes free classrooms, nearest rooms, upcoming classes and timetable
// conflicts. Every function is pure: callers pass fully materialised snapshots and get plain values
// back, so concurrent calls need no coordination.
package availability

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/campus-companion-api/internal/models"
)

// Slot is one catalog entry covering [Start, End).
type Slot struct {
	Labels []models.Period
	Start  models.ClockTime
	End    models.ClockTime
}

// PeriodSet is an ordered set of periods, in catalog order.
type PeriodSet []models.Period

// Contains reports whether p is in the set.
func (s PeriodSet) Contains(p models.Period) bool {
	for _, item := range s {
		if item == p {
			return true
		}
	}
	return false
}

// Catalog is the fixed daily period table. It never changes after construction.
type Catalog struct {
	slots []Slot
	index map[models.Period]int
	brk   time.Duration
}

// NewCatalog validates that slots are ascending, non-empty and non-overlapping. brk is the gap
// between a class end and the following slot start, used when translating periods into clock ranges.
func NewCatalog(slots []Slot, brk time.Duration) (*Catalog, error) {
	c := &Catalog{slots: make([]Slot, len(slots)), index: make(map[models.Period]int), brk: brk}
	for i, slot := range slots {
		if slot.End <= slot.Start {
			return nil, fmt.Errorf("slot %d ends before it starts", i)
		}
		if i > 0 && slot.Start < slots[i-1].End {
			return nil, fmt.Errorf("slot %d overlaps slot %d", i, i-1)
		}
		if len(slot.Labels) == 0 {
			return nil, fmt.Errorf("slot %d has no labels", i)
		}
		for _, label := range slot.Labels {
			if _, dup := c.index[label]; dup {
				return nil, fmt.Errorf("period %q listed twice", label)
			}
			c.index[label] = i
		}
		c.slots[i] = Slot{Labels: append([]models.Period(nil), slot.Labels...), Start: slot.Start, End: slot.End}
	}
	return c, nil
}

// DefaultCatalog is the campus table: half-hour periods 1A..13B from 09:00 to 22:00. Each class runs
// 25 minutes followed by a 5 minute break that belongs to the same slot.
func DefaultCatalog() *Catalog {
	slots := make([]Slot, 0, 26)
	for hour := 1; hour <= 13; hour++ {
		start := models.Clock(8+hour, 0)
		slots = append(slots,
			Slot{Labels: []models.Period{models.Period(fmt.Sprintf("%dA", hour))}, Start: start, End: start + 30},
			Slot{Labels: []models.Period{models.Period(fmt.Sprintf("%dB", hour))}, Start: start + 30, End: start + 60},
		)
	}
	c, err := NewCatalog(slots, 5*time.Minute)
	if err != nil {
		panic(err)
	}
	return c
}

// Slots returns a copy of the catalog entries.
func (c *Catalog) Slots() []Slot {
	out := make([]Slot, len(c.slots))
	copy(out, c.slots)
	return out
}

// PeriodsContaining returns the periods of the entry whose interval contains t, or an empty set
// outside the covered span.
func (c *Catalog) PeriodsContaining(t models.ClockTime) PeriodSet {
	for _, slot := range c.slots {
		if slot.Start <= t && t < slot.End {
			return append(PeriodSet(nil), slot.Labels...)
		}
	}
	return PeriodSet{}
}

// PeriodsOverlapping returns every period whose entry intersects [start, start+d). A non-positive
// duration behaves like PeriodsContaining.
func (c *Catalog) PeriodsOverlapping(start models.ClockTime, d time.Duration) PeriodSet {
	if d <= 0 {
		return c.PeriodsContaining(start)
	}
	end := start.Add(d)
	out := PeriodSet{}
	for _, slot := range c.slots {
		if slot.Start < end && slot.End > start {
			out = append(out, slot.Labels...)
		}
	}
	return out
}

// PeriodsForWindow resolves a user window. An empty duration means "right now"; a malformed one
// yields an empty set, which the occupancy filter reads as "no restriction".
func (c *Catalog) PeriodsForWindow(start models.ClockTime, rawDuration string) PeriodSet {
	if strings.TrimSpace(rawDuration) == "" {
		return c.PeriodsContaining(start)
	}
	d, ok := ParseWindowDuration(rawDuration)
	if !ok {
		return PeriodSet{}
	}
	return c.PeriodsOverlapping(start, d)
}

// Segments translates a list of period labels into clock ranges, merging labels that occupy
// consecutive slots. Unknown labels are returned separately and otherwise ignored.
func (c *Catalog) Segments(labels []models.Period) (ranges [][2]models.ClockTime, unknown []models.Period) {
	seen := make(map[int]bool, len(labels))
	var idx []int
	for _, label := range labels {
		i, ok := c.index[label]
		if !ok {
			unknown = append(unknown, label)
			continue
		}
		if !seen[i] {
			seen[i] = true
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)
	for n := 0; n < len(idx); {
		m := n
		for m+1 < len(idx) && idx[m+1] == idx[m]+1 && c.slots[idx[m+1]].Start == c.slots[idx[m]].End {
			m++
		}
		end := c.slots[idx[m]].End.Add(-c.brk)
		if end <= c.slots[idx[n]].Start {
			end = c.slots[idx[m]].End
		}
		ranges = append(ranges, [2]models.ClockTime{c.slots[idx[n]].Start, end})
		n = m + 1
	}
	return ranges, unknown
}

var durationPattern = regexp.MustCompile(`^(?:(\d+)\s*h)?\s*(?:(\d+)\s*m)?$`)

// MaxWindow caps a parsed window. Anything longer already covers every period of the day.
const MaxWindow = 7 * 24 * time.Hour

// ParseWindowDuration parses the compact "<hours>h<minutes>m" form, e.g. "2h", "90m", "1h30m" or
// "1h 30m". Either part may be omitted but not both. Malformed input returns (0, false); windows
// longer than MaxWindow are capped to it.
func ParseWindowDuration(raw string) (time.Duration, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}
	m := durationPattern.FindStringSubmatch(s)
	if m == nil || (m[1] == "" && m[2] == "") {
		return 0, false
	}
	hours := windowPart(m[1], time.Hour)
	minutes := windowPart(m[2], time.Minute)
	if hours+minutes <= 0 {
		return 0, false
	}
	if total := hours + minutes; total < MaxWindow {
		return total, true
	}
	return MaxWindow, true
}

// windowPart converts a digit string to count*unit, saturating at MaxWindow so the multiplication
// never overflows.
func windowPart(digits string, unit time.Duration) time.Duration {
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n > int64(MaxWindow/unit) {
		return MaxWindow
	}
	return time.Duration(n) * unit
}
