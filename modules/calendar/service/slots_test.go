package service

import (
	"testing"
	"time"

	"bookinglink/modules/calendar/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDate = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 16, hour, minute, 0, 0, time.UTC)
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 9, Minute: 30}, tod)

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
	_, err = ParseTimeOfDay("09:61")
	assert.Error(t, err)
	_, err = ParseTimeOfDay("not-a-time")
	assert.Error(t, err)
}

func TestComputeSlotsOpenDay(t *testing.T) {
	start := TimeOfDay{Hour: 9}
	end := TimeOfDay{Hour: 17}

	slots := ComputeSlots(nil, testDate, start, end, 30)

	require.Len(t, slots, 16)
	assert.Equal(t, at(9, 0), slots[0].Start)
	assert.Equal(t, at(9, 30), slots[0].End)
	assert.Equal(t, at(16, 30), slots[15].Start)
	assert.Equal(t, at(17, 0), slots[15].End)
}

func TestComputeSlotsExcludesBusyOverlap(t *testing.T) {
	busy := []provider.BusyInterval{
		{Start: at(10, 0), End: at(11, 0)},
	}

	slots := ComputeSlots(busy, testDate, TimeOfDay{Hour: 9}, TimeOfDay{Hour: 17}, 30)

	require.Len(t, slots, 14)
	for _, s := range slots {
		assert.False(t, s.Start.Equal(at(10, 0)), "10:00 slot should be excluded")
		assert.False(t, s.Start.Equal(at(10, 30)), "10:30 slot should be excluded")
	}
}

func TestComputeSlotsHalfOpenBoundaries(t *testing.T) {
	// A meeting from 10:00 to 10:30 must not block the slot ending at 10:00
	// nor the one starting at 10:30.
	busy := []provider.BusyInterval{
		{Start: at(10, 0), End: at(10, 30)},
	}

	slots := ComputeSlots(busy, testDate, TimeOfDay{Hour: 9}, TimeOfDay{Hour: 17}, 30)

	starts := make(map[time.Time]bool)
	for _, s := range slots {
		starts[s.Start] = true
	}
	assert.True(t, starts[at(9, 30)])
	assert.False(t, starts[at(10, 0)])
	assert.True(t, starts[at(10, 30)])
}

func TestComputeSlotsPartialOverlapExcludes(t *testing.T) {
	// One minute of overlap is enough to drop the slot.
	busy := []provider.BusyInterval{
		{Start: at(9, 29), End: at(9, 31)},
	}

	slots := ComputeSlots(busy, testDate, TimeOfDay{Hour: 9}, TimeOfDay{Hour: 10}, 30)

	require.Empty(t, slots)
}

func TestComputeSlotsUnevenDuration(t *testing.T) {
	// 45 minute slots over an 8 hour window: the last full slot starts at
	// 15:45 and the remainder past 16:30 is discarded.
	slots := ComputeSlots(nil, testDate, TimeOfDay{Hour: 9}, TimeOfDay{Hour: 17}, 45)

	require.Len(t, slots, 10)
	assert.Equal(t, at(15, 45), slots[9].Start)
	assert.Equal(t, at(16, 30), slots[9].End)
}

func TestComputeSlotsDeterministicAcrossBusyOrder(t *testing.T) {
	busy := []provider.BusyInterval{
		{Start: at(14, 0), End: at(15, 0)},
		{Start: at(9, 0), End: at(9, 30)},
		{Start: at(11, 30), End: at(12, 0)},
	}
	reversed := []provider.BusyInterval{busy[2], busy[1], busy[0]}

	a := ComputeSlots(busy, testDate, TimeOfDay{Hour: 9}, TimeOfDay{Hour: 17}, 30)
	b := ComputeSlots(reversed, testDate, TimeOfDay{Hour: 9}, TimeOfDay{Hour: 17}, 30)

	assert.Equal(t, a, b)
}

func TestComputeSlotsStayWithinWindow(t *testing.T) {
	slots := ComputeSlots(nil, testDate, TimeOfDay{Hour: 9}, TimeOfDay{Hour: 17}, 50)

	windowStart := at(9, 0)
	windowEnd := at(17, 0)
	for _, s := range slots {
		assert.False(t, s.Start.Before(windowStart))
		assert.False(t, s.End.After(windowEnd))
		assert.Equal(t, 50*time.Minute, s.End.Sub(s.Start))
	}
}

func TestComputeSlotsDegenerateInputs(t *testing.T) {
	assert.Empty(t, ComputeSlots(nil, testDate, TimeOfDay{Hour: 17}, TimeOfDay{Hour: 9}, 30))
	assert.Empty(t, ComputeSlots(nil, testDate, TimeOfDay{Hour: 9}, TimeOfDay{Hour: 17}, 0))
	assert.Empty(t, ComputeSlots(nil, testDate, TimeOfDay{Hour: 9}, TimeOfDay{Hour: 17}, -30))
}

func TestOverlaps(t *testing.T) {
	busy := []provider.BusyInterval{
		{Start: at(10, 0), End: at(11, 0)},
	}

	assert.True(t, Overlaps(busy, at(10, 30), at(11, 30)))
	assert.True(t, Overlaps(busy, at(9, 30), at(10, 1)))
	assert.False(t, Overlaps(busy, at(9, 0), at(10, 0)), "touching at the start is not overlap")
	assert.False(t, Overlaps(busy, at(11, 0), at(12, 0)), "touching at the end is not overlap")
	assert.False(t, Overlaps(nil, at(9, 0), at(10, 0)))
}
