package schedule

// Reservation is any record that can yield an effective booking interval:
// a reconstructed Booking, a ranged record, or a legacy bare-slot record.
type Reservation interface {
	ReservationIDs() []string
	ToolRef() int
	DateRef() string
	// TimeRange returns the stored start and end clock strings. An empty
	// end marks a bare slot, implicitly SlotSize minutes long.
	TimeRange() (start, end string)
}

// Candidate is a proposed reservation interval to test for collisions.
type Candidate struct {
	ToolID    int
	Date      string
	StartTime string
	EndTime   string
}

// effectiveInterval normalizes a stored start/end pair to half-open
// minutes. Bare slots become [start, start+SlotSize).
func effectiveInterval(start, end string) (int, int, bool) {
	s, ok := minutesOf(start)
	if !ok {
		return 0, 0, false
	}
	if end == "" {
		return s, s + SlotSize, true
	}
	e, ok := minutesOf(end)
	if !ok {
		return 0, 0, false
	}
	return s, e, true
}

// HasCollision reports whether the candidate overlaps any existing
// reservation on the same tool and date, ignoring the given record ids
// (the prior position of a booking being moved or resized). Intervals are
// half-open, so touching endpoints do not collide. Records whose times
// fail to parse are skipped.
func HasCollision[R Reservation](cand Candidate, existing []R, ignoredIDs []string) bool {
	cs, ok := minutesOf(cand.StartTime)
	if !ok {
		return false
	}
	ce, ok := minutesOf(cand.EndTime)
	if !ok {
		return false
	}

	ignored := make(map[string]struct{}, len(ignoredIDs))
	for _, id := range ignoredIDs {
		ignored[id] = struct{}{}
	}

	for _, r := range existing {
		if r.ToolRef() != cand.ToolID || r.DateRef() != cand.Date {
			continue
		}
		if reservationIgnored(r, ignored) {
			continue
		}
		start, end := r.TimeRange()
		bs, be, ok := effectiveInterval(start, end)
		if !ok {
			continue
		}
		if cs < be && ce > bs {
			return true
		}
	}
	return false
}

// AnySlotCollision runs the collision check degenerately over a set of
// discrete candidate slots, each its own SlotSize-minute interval. Used to
// validate a freehand multi-slot selection.
func AnySlotCollision[R Reservation](toolID int, slots []SlotRef, existing []R, ignoredIDs []string) bool {
	for _, slot := range slots {
		cand := Candidate{
			ToolID:    toolID,
			Date:      slot.Date,
			StartTime: slot.Time,
			EndTime:   ToTimeString(mustMinutes(slot.Time) + SlotSize),
		}
		if HasCollision(cand, existing, ignoredIDs) {
			return true
		}
	}
	return false
}

func reservationIgnored(r Reservation, ignored map[string]struct{}) bool {
	for _, id := range r.ReservationIDs() {
		if _, ok := ignored[id]; ok {
			return true
		}
	}
	return false
}

func mustMinutes(t string) int {
	m, _ := minutesOf(t)
	return m
}
