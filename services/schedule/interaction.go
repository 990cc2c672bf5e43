package schedule

import (
	"math"
	"time"

	"labreserve/models"
)

// moveThreshold is the pointer travel, in pixels, below which a press is
// still a click. Without it every click would be read as a zero-distance
// drag.
const moveThreshold = 5.0

// Clock supplies "now" to every validity check so the engine stays
// deterministic under test.
type Clock func() time.Time

// Point is a pointer position in pixels. Mouse and touch streams are both
// reduced to this shape before they reach the engine.
type Point struct {
	X float64
	Y float64
}

// Geometry maps pixels to calendar coordinates for one rendered week.
// Vertical position is relative to midnight regardless of the bookable
// window.
type Geometry struct {
	DayWidth      float64  // pixels per day column
	PixelsPerSlot float64  // pixels per SlotSize minutes
	WeekDates     []string // calendar dates in column order
	DayStartMin   int      // bookable window open, minutes from midnight
	DayEndMin     int      // bookable window close, exclusive
}

func (g Geometry) dayIndex(date string) int {
	for i, d := range g.WeekDates {
		if d == date {
			return i
		}
	}
	return -1
}

// SlotCount returns how many slots the bookable window spans.
func (g Geometry) SlotCount() int {
	return (g.DayEndMin - g.DayStartMin) / SlotSize
}

// SlotTime returns the start label of the i-th slot of the bookable window.
func (g Geometry) SlotTime(i int) string {
	return ToTimeString(g.DayStartMin + i*SlotSize)
}

// Engine turns pointer gestures into validated booking mutations. It
// performs no I/O: the clock, the bookings snapshot and the permission
// predicate are all supplied by the caller, and the snapshot is treated as
// immutable for the duration of one gesture.
type Engine struct {
	Geom     Geometry
	Now      Clock
	CanEdit  func(models.Booking) bool
	Existing []models.BookingRecord
}

// DragKind selects which geometric edit a drag performs.
type DragKind int

const (
	DragMove DragKind = iota
	DragResizeStart
	DragResizeEnd
)

// Proposal is the live candidate produced by each pointer move. Valid
// drives visual feedback only; it never blocks further dragging.
type Proposal struct {
	Date      string
	StartTime string
	EndTime   string
	Valid     bool
	Reason    Reason
}

// OutcomeKind is the single terminal event of a gesture.
type OutcomeKind int

const (
	OutcomeClick OutcomeKind = iota
	OutcomeUpdate
	OutcomeNoop
)

// UpdateRequest asks the persistence collaborator to move or resize an
// existing booking.
type UpdateRequest struct {
	IDs       []string `json:"ids"`
	ToolID    int      `json:"tool_id"`
	Project   string   `json:"project"`
	Date      string   `json:"date"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
}

// CreateRequest asks the persistence collaborator to create one ranged
// booking. Requests from the same gesture share a CreatedAt stamp so the
// resulting rows regroup into the same bookings later.
type CreateRequest struct {
	ToolID    int    `json:"tool_id"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	CreatedAt string `json:"created_at"`
}

// Outcome is emitted exactly once, on pointer release.
type Outcome struct {
	Kind   OutcomeKind
	Update *UpdateRequest
	Reason Reason // set when Kind is OutcomeNoop
}

// DragSession is the ephemeral state of one press-to-release edit gesture.
// It is created on pointer-down, mutated on pointer-move, and consumed by
// Release; it must never outlive the gesture.
type DragSession struct {
	eng      *Engine
	kind     DragKind
	original models.Booking
	origin   Point

	initialTop    float64 // pixels from midnight to the original start
	initialHeight float64 // pixels spanned by the original duration
	active        bool    // the original booking was in progress at press time
	moved         bool
	proposal      Proposal
}

// StartDrag opens an edit gesture on an existing booking. It refuses — by
// returning an error before any session exists — gestures the caller may
// not perform: foreign bookings, bookings that already ended, and moves or
// start-edge resizes of an in-progress booking.
func (e *Engine) StartDrag(b models.Booking, kind DragKind, at Point) (*DragSession, error) {
	if e.CanEdit != nil && !e.CanEdit(b) {
		return nil, ErrNotPermitted
	}

	start, err := atDateTime(b.Date, b.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := atDateTime(b.Date, b.EndTime)
	if err != nil {
		return nil, err
	}

	now := e.Now()
	if end.Before(now) {
		return nil, ErrBookingEnded
	}
	active := !start.After(now) && end.After(now)
	if active && kind == DragMove {
		return nil, ErrInProgressMove
	}
	if active && kind == DragResizeStart {
		return nil, ErrInProgressStart
	}

	startM, _ := ToMinutes(b.StartTime)
	endM, _ := ToMinutes(b.EndTime)
	pps := e.Geom.PixelsPerSlot
	return &DragSession{
		eng:           e,
		kind:          kind,
		original:      b,
		origin:        at,
		initialTop:    float64(startM) / SlotSize * pps,
		initialHeight: float64(endM-startM) / SlotSize * pps,
		active:        active,
		proposal: Proposal{
			Date:      b.Date,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
			Valid:     true,
		},
	}, nil
}

// Moved reports whether the gesture has crossed the click threshold.
func (s *DragSession) Moved() bool { return s.moved }

// Proposal returns the current live candidate.
func (s *DragSession) Proposal() Proposal { return s.proposal }

// Move feeds one pointer position into the session and returns the
// recomputed live proposal. Until the pointer travels past the click
// threshold the original geometry is kept untouched.
func (s *DragSession) Move(at Point) Proposal {
	dx := at.X - s.origin.X
	dy := at.Y - s.origin.Y

	if !s.moved {
		if math.Hypot(dx, dy) < moveThreshold {
			return s.proposal
		}
		s.moved = true
	}

	g := s.eng.Geom
	pps := g.PixelsPerSlot

	// Snap the vertical delta to whole slots before converting to minutes
	// so every commit lands on a slot boundary.
	snapped := math.Round(dy/pps) * pps

	top := s.initialTop
	height := s.initialHeight
	date := s.original.Date

	switch s.kind {
	case DragMove:
		top += snapped
		if dayDelta := int(math.Round(dx / g.DayWidth)); dayDelta != 0 {
			if i := g.dayIndex(s.original.Date); i >= 0 {
				if j := i + dayDelta; j >= 0 && j < len(g.WeekDates) {
					date = g.WeekDates[j]
				}
			}
		}
	case DragResizeEnd:
		height += snapped
	case DragResizeStart:
		top += snapped
		height -= snapped
	}

	// One slot minimum: clamp the dragged edge instead of letting start
	// and end invert.
	if height < pps {
		diff := pps - height
		height = pps
		if s.kind == DragResizeStart {
			top -= diff
		}
	}

	startMins := RoundToSlot(int(math.Round(top/pps*SlotSize)), SlotSize)
	endMins := startMins + RoundToSlot(int(math.Round(height/pps*SlotSize)), SlotSize)

	s.proposal = s.validate(date, startMins, endMins)
	return s.proposal
}

func (s *DragSession) validate(date string, startMins, endMins int) Proposal {
	p := Proposal{
		Date:      date,
		StartTime: ToTimeString(startMins),
		EndTime:   ToTimeString(endMins),
		Valid:     true,
	}

	g := s.eng.Geom
	if startMins < g.DayStartMin || endMins > g.DayEndMin {
		p.Valid = false
		p.Reason = ReasonOutOfBounds
		return p
	}

	now := s.eng.Now()
	if s.active {
		// An in-progress booking keeps its past start, but its new end
		// must stay in the future.
		endAt, err := atDateTime(date, p.EndTime)
		if err != nil || !endAt.After(now) {
			p.Valid = false
			p.Reason = ReasonPastTime
			return p
		}
	} else {
		startAt, err := atDateTime(date, p.StartTime)
		if err != nil || startAt.Before(now) {
			p.Valid = false
			p.Reason = ReasonPastTime
			return p
		}
	}

	cand := Candidate{
		ToolID:    s.original.ToolID,
		Date:      date,
		StartTime: p.StartTime,
		EndTime:   p.EndTime,
	}
	if HasCollision(cand, s.eng.Existing, s.original.IDs) {
		p.Valid = false
		p.Reason = ReasonCollision
	}
	return p
}

// Release consumes the session and resolves the gesture to its single
// terminal outcome: a click when the pointer never crossed the threshold,
// an update when the final proposal is valid, and a noop otherwise. The
// session must not be used afterwards.
func (s *DragSession) Release() Outcome {
	if !s.moved {
		return Outcome{Kind: OutcomeClick}
	}
	if !s.proposal.Valid {
		return Outcome{Kind: OutcomeNoop, Reason: s.proposal.Reason}
	}
	return Outcome{
		Kind: OutcomeUpdate,
		Update: &UpdateRequest{
			IDs:       s.original.IDs,
			ToolID:    s.original.ToolID,
			Project:   s.original.Project,
			Date:      s.proposal.Date,
			StartTime: s.proposal.StartTime,
			EndTime:   s.proposal.EndTime,
		},
	}
}
