package schedule

import (
	"sort"
	"time"
)

// Selection is the ephemeral state of one drag-select creation gesture on
// the slot grid. Like DragSession it lives exactly from pointer-down to
// pointer-up.
type Selection struct {
	eng       *Engine
	toolID    int
	anchorDay int
	anchorIdx int
	slots     []SlotRef
}

// StartSelection opens a creation gesture anchored at the given grid cell.
// A cell that is already booked or in the past refuses the gesture.
func (e *Engine) StartSelection(toolID, dayIdx, slotIdx int) (*Selection, error) {
	if dayIdx < 0 || dayIdx >= len(e.Geom.WeekDates) || slotIdx < 0 || slotIdx >= e.Geom.SlotCount() {
		return nil, ErrSlotUnavailable
	}
	date := e.Geom.WeekDates[dayIdx]
	t := e.Geom.SlotTime(slotIdx)
	if e.slotTaken(toolID, date, t) || e.slotPast(date, t) {
		return nil, ErrSlotUnavailable
	}
	return &Selection{
		eng:       e,
		toolID:    toolID,
		anchorDay: dayIdx,
		anchorIdx: slotIdx,
		slots:     []SlotRef{{Date: date, Time: t}},
	}, nil
}

// Extend recomputes the selection as the axis-aligned rectangle between
// the anchor and the current cell, inclusive, dropping cells that are
// booked or in the past. Off-grid pointer positions are clamped.
func (sel *Selection) Extend(dayIdx, slotIdx int) []SlotRef {
	g := sel.eng.Geom
	dayIdx = clamp(dayIdx, 0, len(g.WeekDates)-1)
	slotIdx = clamp(slotIdx, 0, g.SlotCount()-1)

	minD, maxD := order(sel.anchorDay, dayIdx)
	minT, maxT := order(sel.anchorIdx, slotIdx)

	var picked []SlotRef
	for d := minD; d <= maxD; d++ {
		date := g.WeekDates[d]
		for t := minT; t <= maxT; t++ {
			clock := g.SlotTime(t)
			if sel.eng.slotTaken(sel.toolID, date, clock) || sel.eng.slotPast(date, clock) {
				continue
			}
			picked = append(picked, SlotRef{Date: date, Time: clock})
		}
	}
	sel.slots = picked
	return picked
}

// Slots returns the current live selection.
func (sel *Selection) Slots() []SlotRef { return sel.slots }

// Finish consumes the selection and merges its surviving slots into ranged
// creation requests, one per contiguous same-date run, all stamped with a
// shared creation time so the stored rows regroup into the same bookings.
// An empty selection is a user error, not a crash.
func (sel *Selection) Finish() ([]CreateRequest, error) {
	if len(sel.slots) == 0 {
		return nil, ErrEmptySelection
	}

	slots := make([]SlotRef, len(sel.slots))
	copy(slots, sel.slots)
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].Date != slots[j].Date {
			return slots[i].Date < slots[j].Date
		}
		return slots[i].Time < slots[j].Time
	})

	createdAt := sel.eng.Now().UTC().Format(time.RFC3339)

	var reqs []CreateRequest
	var cur *CreateRequest
	for _, slot := range slots {
		if cur != nil && slot.Date == cur.Date && slot.Time == cur.EndTime {
			cur.EndTime = nextSlotOf(slot.Time)
			continue
		}
		if cur != nil {
			reqs = append(reqs, *cur)
		}
		cur = &CreateRequest{
			ToolID:    sel.toolID,
			Date:      slot.Date,
			StartTime: slot.Time,
			EndTime:   nextSlotOf(slot.Time),
			CreatedAt: createdAt,
		}
	}
	reqs = append(reqs, *cur)
	return reqs, nil
}

// slotTaken reports whether any existing reservation covers the slot.
func (e *Engine) slotTaken(toolID int, date, clock string) bool {
	cand := Candidate{
		ToolID:    toolID,
		Date:      date,
		StartTime: clock,
		EndTime:   ToTimeString(mustMinutes(clock) + SlotSize),
	}
	return HasCollision(cand, e.Existing, nil)
}

// slotPast reports whether the slot starts before "now".
func (e *Engine) slotPast(date, clock string) bool {
	at, err := atDateTime(date, clock)
	if err != nil {
		return true
	}
	return at.Before(e.Now())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func order(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}
