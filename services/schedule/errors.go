package schedule

// Reason explains why a live drag proposal is invalid. It drives visual
// feedback only; an invalid proposal never aborts the gesture.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonOutOfBounds Reason = "outOfBounds"
	ReasonPastTime    Reason = "pastTime"
	ReasonCollision   Reason = "collision"
)

// GestureError refuses to open an interaction session. Refusal happens
// before any session state exists, so nothing needs rolling back.
type GestureError struct {
	Code    string
	Message string
}

func (e *GestureError) Error() string {
	return e.Code + ": " + e.Message
}

var (
	ErrNotPermitted    = &GestureError{Code: "permissionDenied", Message: "you can only edit your own bookings"}
	ErrBookingEnded    = &GestureError{Code: "pastBooking", Message: "cannot modify past bookings"}
	ErrInProgressMove  = &GestureError{Code: "inProgress", Message: "cannot move an in-progress booking; only duration can be adjusted"}
	ErrInProgressStart = &GestureError{Code: "inProgress", Message: "cannot change start time of an in-progress booking"}
	ErrSlotUnavailable = &GestureError{Code: "slotUnavailable", Message: "slot is already booked or in the past"}
	ErrEmptySelection  = &GestureError{Code: "emptySelection", Message: "select at least one time slot"}
)
