package service

import (
	"fmt"
	"sort"
	"time"

	"bookinglink/modules/calendar/provider"
)

// TimeOfDay is a wall-clock time within a day, parsed from "HH:MM".
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var t TimeOfDay
	if _, err := fmt.Sscanf(s, "%d:%d", &t.Hour, &t.Minute); err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q out of range", s)
	}
	return t, nil
}

func (t TimeOfDay) on(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, date.Location())
}

// Slot is one bookable range, half-open [Start, End).
type Slot struct {
	Start time.Time
	End   time.Time
}

// ComputeSlots walks the business-hours window of the given date in fixed
// steps and keeps every step that overlaps no busy interval. Intervals are
// half-open, so a slot ending exactly when a meeting starts (or starting
// exactly when one ends) is free. The cursor always advances by the slot
// duration, never past a busy block's end, so the grid stays aligned to the
// window start. Output is sorted and deterministic for the same input.
func ComputeSlots(busy []provider.BusyInterval, date time.Time, start, end TimeOfDay, durationMinutes int) []Slot {
	windowStart := start.on(date)
	windowEnd := end.on(date)
	duration := time.Duration(durationMinutes) * time.Minute
	if duration <= 0 || !windowStart.Before(windowEnd) {
		return nil
	}

	sorted := make([]provider.BusyInterval, len(busy))
	copy(sorted, busy)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var slots []Slot
	for cursor := windowStart; !cursor.Add(duration).After(windowEnd); cursor = cursor.Add(duration) {
		slotEnd := cursor.Add(duration)
		free := true
		for _, b := range sorted {
			if b.Start.Before(slotEnd) && b.End.After(cursor) {
				free = false
				break
			}
		}
		if free {
			slots = append(slots, Slot{Start: cursor, End: slotEnd})
		}
	}
	return slots
}

// Overlaps reports whether [start, end) intersects any busy interval.
func Overlaps(busy []provider.BusyInterval, start, end time.Time) bool {
	for _, b := range busy {
		if b.Start.Before(end) && b.End.After(start) {
			return true
		}
	}
	return false
}
