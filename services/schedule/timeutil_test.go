package schedule

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"08:00", 480},
		{"08:30", 510},
		{"23:59", 1439},
		{"09:15:00", 555}, // seconds suffix tolerated
	}
	for _, tc := range cases {
		got, err := ToMinutes(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestToMinutes_Malformed(t *testing.T) {
	for _, in := range []string{"", "8", "0800", "ab:cd", "08:xx", "-1:00", "08:-5", "08:75"} {
		_, err := ToMinutes(in)
		assert.Error(t, err, in)
		var ferr *FormatError
		assert.ErrorAs(t, err, &ferr, in)
	}
}

func TestToTimeString_RoundTrip(t *testing.T) {
	// Every valid HH:MM survives a round trip unchanged.
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			s := fmt.Sprintf("%02d:%02d", h, m)
			mins, err := ToMinutes(s)
			require.NoError(t, err)
			assert.Equal(t, s, ToTimeString(mins))
		}
	}
}

func TestToTimeString_NoWrap(t *testing.T) {
	// Midnight end-of-day label; bounds checks are the caller's job.
	assert.Equal(t, "24:00", ToTimeString(1440))
}

func TestRoundToSlot(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, 0},
		{14, 0},
		{15, 30}, // tie rounds up
		{29, 30},
		{30, 30},
		{44, 30},
		{45, 60},
		{-15, 0}, // tie rounds toward the later slot even below zero
		{-16, -30},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RoundToSlot(tc.in, SlotSize), "RoundToSlot(%d)", tc.in)
	}
}

func TestNextSlot(t *testing.T) {
	got, err := NextSlot("08:00")
	require.NoError(t, err)
	assert.Equal(t, "08:30", got)

	got, err = NextSlot("09:30")
	require.NoError(t, err)
	assert.Equal(t, "10:00", got)

	_, err = NextSlot("bogus")
	assert.Error(t, err)
}

func TestGenerateSlots(t *testing.T) {
	slots, err := GenerateSlots("2023-10-23", "08:00", "09:30")
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, "08:00", slots[0].Time)
	assert.Equal(t, "08:30", slots[1].Time)
	assert.Equal(t, "09:00", slots[2].Time)
	for _, s := range slots {
		assert.Equal(t, "2023-10-23", s.Date)
	}
}

func TestGenerateSlots_StopsAtMidnight(t *testing.T) {
	// An unreachable end must not loop past the end of the day.
	slots, err := GenerateSlots("2023-10-23", "23:00", "23:45")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "23:30", slots[1].Time)
}

func TestGenerateSlots_Empty(t *testing.T) {
	slots, err := GenerateSlots("2023-10-23", "08:00", "08:00")
	require.NoError(t, err)
	assert.Empty(t, slots)
}
