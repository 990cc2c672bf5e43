package schedule

import (
	"sort"

	"labreserve/models"
)

// GroupBookings reconstructs display-ready bookings from a flat, unordered
// mix of ranged records and legacy bare-slot records.
//
// Ranged records pass through, each becoming its own one-id Booking, in
// input order. Bare slots are sorted by (date, tool, time) and merged into
// contiguous runs: a slot extends the running group only when its tool,
// user, project and creation batch all match and its time is exactly the
// group's current end. A gap always starts a new group, even if every
// other attribute matches.
func GroupBookings(records []models.BookingRecord) []models.Booking {
	if len(records) == 0 {
		return nil
	}

	var ranged []models.Booking
	var slots []models.BookingRecord
	for _, rec := range records {
		if rec.EndTime != "" {
			ranged = append(ranged, models.Booking{
				IDs:       []string{rec.ID},
				ToolID:    rec.ToolID,
				ToolName:  rec.ToolName,
				UserID:    rec.UserID,
				UserName:  rec.UserName,
				Project:   rec.Project,
				Date:      rec.Date,
				StartTime: normalizeClock(rec.Time),
				EndTime:   normalizeClock(rec.EndTime),
				CreatedAt: rec.CreatedAt,
			})
			continue
		}
		slots = append(slots, rec)
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		if slots[i].ToolID != slots[j].ToolID {
			return slots[i].ToolID < slots[j].ToolID
		}
		return normalizeClock(slots[i].Time) < normalizeClock(slots[j].Time)
	})

	var grouped []models.Booking
	var cur *models.Booking
	for _, rec := range slots {
		t := normalizeClock(rec.Time)
		if cur != nil &&
			rec.Date == cur.Date &&
			rec.ToolID == cur.ToolID &&
			rec.UserID == cur.UserID &&
			rec.Project == cur.Project &&
			rec.CreatedAt == cur.CreatedAt &&
			t == cur.EndTime {
			cur.IDs = append(cur.IDs, rec.ID)
			cur.EndTime = nextSlotOf(t)
			continue
		}
		if cur != nil {
			grouped = append(grouped, *cur)
		}
		cur = &models.Booking{
			IDs:       []string{rec.ID},
			ToolID:    rec.ToolID,
			ToolName:  rec.ToolName,
			UserID:    rec.UserID,
			UserName:  rec.UserName,
			Project:   rec.Project,
			Date:      rec.Date,
			StartTime: t,
			EndTime:   nextSlotOf(t),
			CreatedAt: rec.CreatedAt,
		}
	}
	if cur != nil {
		grouped = append(grouped, *cur)
	}

	return append(ranged, grouped...)
}

// nextSlotOf advances one slot, tolerating unparseable storage values by
// returning them unchanged so a bad row cannot poison its neighbors.
func nextSlotOf(t string) string {
	m, ok := minutesOf(t)
	if !ok {
		return t
	}
	return ToTimeString(m + SlotSize)
}
