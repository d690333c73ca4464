package appointment

import (
	"fmt"
	"sort"
	"time"

	"github.com/BruksfildServices01/clinic-booking/internal/models"
)

// ParseClock parses "HH:MM" into an offset from midnight.
func ParseClock(hm string) (time.Duration, error) {
	if hm == "24:00" {
		return 24 * time.Hour, nil
	}
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", hm, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// FormatClock renders an offset from midnight as zero-padded "HH:MM".
func FormatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int((d%time.Hour)/time.Minute))
}

// clockOrder sorts unparsable bounds last; ResolveSlots skips them anyway.
func clockOrder(hm string) time.Duration {
	d, err := ParseClock(hm)
	if err != nil {
		return 25 * time.Hour
	}
	return d
}

// WindowsForDay returns the windows whose weekday matches date, ordered by start.
func WindowsForDay(windows []models.AvailabilityWindow, date time.Time) []models.AvailabilityWindow {
	weekday := int(date.Weekday())

	var out []models.AvailabilityWindow
	for _, w := range windows {
		if w.Weekday == weekday {
			out = append(out, w)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return clockOrder(out[i].StartTime) < clockOrder(out[j].StartTime)
	})
	return out
}

// ResolveSlots partitions the day's windows into slots of the given duration,
// stepping by duration+buffer. A closed day yields an empty slice. Windows with
// unparsable or inverted bounds are skipped.
func ResolveSlots(
	windows []models.AvailabilityWindow,
	date time.Time,
	duration time.Duration,
	buffer time.Duration,
) []TimeSlot {

	slots := []TimeSlot{}
	if duration <= 0 {
		return slots
	}
	if buffer < 0 {
		buffer = 0
	}

	step := duration + buffer

	var last time.Time
	for _, w := range WindowsForDay(windows, date) {
		from, err := ParseClock(w.StartTime)
		if err != nil {
			continue
		}
		to, err := ParseClock(w.EndTime)
		if err != nil || to <= from {
			continue
		}

		windowStart := wallClock(date, from)
		windowEnd := wallClock(date, to)

		for cur := windowStart; !cur.Add(duration).After(windowEnd); cur = cur.Add(step) {
			// janelas sobrepostas não podem gerar slots fora de ordem
			if !last.IsZero() && !cur.After(last) {
				continue
			}
			slots = append(slots, TimeSlot{Start: cur, End: cur.Add(duration)})
			last = cur
		}
	}

	return slots
}

// wallClock builds the instant at offset on date's calendar day. It goes
// through time.Date so DST days keep the configured wall-clock times.
func wallClock(date time.Time, offset time.Duration) time.Time {
	h := int(offset / time.Hour)
	m := int((offset % time.Hour) / time.Minute)
	return time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, date.Location())
}

// FindSlot returns the candidate starting exactly at start.
func FindSlot(slots []TimeSlot, start time.Time) (TimeSlot, bool) {
	for _, s := range slots {
		if s.Start.Equal(start) {
			return s, true
		}
	}
	return TimeSlot{}, false
}
