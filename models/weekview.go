package models

// WeekView is one tool's calendar week, grouped and column-positioned, ready
// for a client to render without further computation.
type WeekView struct {
	ToolID int                            `json:"tool_id"`
	Dates  []string                       `json:"dates"`
	Days   map[string][]PositionedBooking `json:"days"`
}

// UserBookings partitions a user's bookings around "now".
type UserBookings struct {
	Upcoming []Booking `json:"upcoming"`
	Past     []Booking `json:"past"`
}
