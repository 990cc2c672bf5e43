package schedule

import (
	"sort"

	"labreserve/models"
)

// CalculateEventLayout assigns each booking of one tool-day a display
// column and width so that time-overlapping bookings render side by side.
//
// Greedy interval coloring: bookings are considered in (start asc, longer
// first) order and placed into the leftmost column whose latest booking
// has already ended. Every booking gets the same width, 100 divided by the
// day's total column count, rather than a tighter per-cluster packing.
// Ties keep input order (stable sort) so the result is deterministic.
func CalculateEventLayout(dayBookings []models.Booking) []models.PositionedBooking {
	if len(dayBookings) == 0 {
		return nil
	}

	sorted := make([]models.Booking, len(dayBookings))
	copy(sorted, dayBookings)
	sort.SliceStable(sorted, func(i, j int) bool {
		si := mustMinutes(sorted[i].StartTime)
		sj := mustMinutes(sorted[j].StartTime)
		if si != sj {
			return si < sj
		}
		return mustMinutes(sorted[i].EndTime) > mustMinutes(sorted[j].EndTime)
	})

	// columnEnds holds each column's most recent end time in minutes.
	var columnEnds []int
	positioned := make([]models.PositionedBooking, len(sorted))
	for i, b := range sorted {
		start := mustMinutes(b.StartTime)
		end := mustMinutes(b.EndTime)

		col := -1
		for c, colEnd := range columnEnds {
			if start >= colEnd {
				col = c
				break
			}
		}
		if col == -1 {
			columnEnds = append(columnEnds, end)
			col = len(columnEnds) - 1
		} else {
			columnEnds[col] = end
		}

		positioned[i] = models.PositionedBooking{Booking: b, ColumnIndex: col}
	}

	width := 100.0 / float64(len(columnEnds))
	for i := range positioned {
		positioned[i].WidthPercent = width
		positioned[i].LeftPercent = float64(positioned[i].ColumnIndex) * width
	}
	return positioned
}
