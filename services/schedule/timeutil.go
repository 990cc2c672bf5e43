package schedule

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// SlotSize is the smallest schedulable unit, in minutes.
const SlotSize = 30

// SlotRef identifies a single 30-minute grid cell.
type SlotRef struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// FormatError reports a malformed HH:MM time string.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed time string %q, want HH:MM", e.Input)
}

// ToMinutes parses an "HH:MM" string into minutes since midnight.
// Seconds suffixes ("HH:MM:SS") are tolerated and ignored.
func ToMinutes(t string) (int, error) {
	parts := strings.Split(t, ":")
	if len(parts) < 2 {
		return 0, &FormatError{Input: t}
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, &FormatError{Input: t}
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, &FormatError{Input: t}
	}
	if h < 0 || m < 0 || m > 59 {
		return 0, &FormatError{Input: t}
	}
	return h*60 + m, nil
}

// ToTimeString renders minutes since midnight as a zero-padded "HH:MM"
// string, carrying overflow minutes into hours. It does not wrap past
// midnight; callers bounds-check separately.
func ToTimeString(mins int) string {
	h := mins / 60
	m := mins % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

// RoundToSlot rounds minutes to the nearest multiple of slotSize, ties
// rounding up.
func RoundToSlot(mins, slotSize int) int {
	return int(math.Floor(float64(mins)/float64(slotSize)+0.5)) * slotSize
}

// NextSlot returns the start of the slot immediately after t.
func NextSlot(t string) (string, error) {
	m, err := ToMinutes(t)
	if err != nil {
		return "", err
	}
	return ToTimeString(m + SlotSize), nil
}

// GenerateSlots expands a [startTime, endTime) range on one date into its
// 30-minute slots. The walk stops at midnight if endTime is unreachable.
func GenerateSlots(date, startTime, endTime string) ([]SlotRef, error) {
	cur, err := ToMinutes(startTime)
	if err != nil {
		return nil, err
	}
	end, err := ToMinutes(endTime)
	if err != nil {
		return nil, err
	}
	var slots []SlotRef
	for cur < end && cur < 24*60 {
		slots = append(slots, SlotRef{Date: date, Time: ToTimeString(cur)})
		cur += SlotSize
	}
	return slots, nil
}

// DateTimeOf combines a "2006-01-02" date with an "HH:MM" clock into one
// instant, for comparisons against an injected clock.
func DateTimeOf(date, clock string) (time.Time, error) {
	return atDateTime(date, clock)
}

// WeekDates returns n consecutive calendar dates starting at weekStart.
func WeekDates(weekStart string, n int) ([]string, error) {
	day, err := time.ParseInLocation("2006-01-02", weekStart, time.UTC)
	if err != nil {
		return nil, err
	}
	dates := make([]string, n)
	for i := range dates {
		dates[i] = day.AddDate(0, 0, i).Format("2006-01-02")
	}
	return dates, nil
}

// normalizeClock truncates "HH:MM:SS" storage values to "HH:MM".
func normalizeClock(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}

// minutesOf is the lenient internal parser: records that fail to parse are
// skipped by callers rather than aborting a pure computation.
func minutesOf(t string) (int, bool) {
	m, err := ToMinutes(normalizeClock(t))
	if err != nil {
		return 0, false
	}
	return m, true
}

// atDateTime combines a calendar date with minutes-precision clock time.
// Dates are treated as naive local days; UTC keeps comparisons consistent
// with clocks injected the same way.
func atDateTime(date, clock string) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	m, err := ToMinutes(clock)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(m) * time.Minute), nil
}
