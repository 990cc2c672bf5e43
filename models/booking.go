package models

// BookingRecord is a persisted reservation row. Legacy rows store a single
// 30-minute slot (Time only); newer rows carry an explicit EndTime range.
type BookingRecord struct {
	ID        string `bson:"id" json:"id"`
	ToolID    int    `bson:"tool_id" json:"tool_id"`
	ToolName  string `bson:"tool_name" json:"tool_name"`
	UserID    string `bson:"user_id" json:"user_id"`
	UserName  string `bson:"user_name" json:"user_name"`
	Project   string `bson:"project" json:"project"`
	Date      string `bson:"date" json:"date"`                   // "2006-01-02", no time zone conversion
	Time      string `bson:"time" json:"time"`                   // "HH:MM" start of the slot/range
	EndTime   string `bson:"end_time,omitempty" json:"end_time"` // empty for legacy bare-slot rows
	CreatedAt string `bson:"created_at" json:"created_at"`       // RFC3339; shared across rows created in one request
}

// Booking is a contiguous reservation interval derived from one ranged
// record or from merging adjacent bare-slot records. Never persisted.
type Booking struct {
	IDs       []string `json:"ids"` // underlying record ids, in merge order
	ToolID    int      `json:"tool_id"`
	ToolName  string   `json:"tool_name"`
	UserID    string   `json:"user_id"`
	UserName  string   `json:"user_name"`
	Project   string   `json:"project"`
	Date      string   `json:"date"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	CreatedAt string   `json:"created_at"`
}

// PositionedBooking is a Booking plus its column placement for one day's
// rendering pass.
type PositionedBooking struct {
	Booking
	ColumnIndex  int     `json:"columnIndex"`
	WidthPercent float64 `json:"width"`
	LeftPercent  float64 `json:"left"`
}

// ReservationIDs implements schedule.Reservation.
func (r BookingRecord) ReservationIDs() []string { return []string{r.ID} }

// ToolRef implements schedule.Reservation.
func (r BookingRecord) ToolRef() int { return r.ToolID }

// DateRef implements schedule.Reservation.
func (r BookingRecord) DateRef() string { return r.Date }

// TimeRange implements schedule.Reservation. An empty end marks a bare
// 30-minute slot.
func (r BookingRecord) TimeRange() (start, end string) { return r.Time, r.EndTime }

// ReservationIDs implements schedule.Reservation.
func (b Booking) ReservationIDs() []string { return b.IDs }

// ToolRef implements schedule.Reservation.
func (b Booking) ToolRef() int { return b.ToolID }

// DateRef implements schedule.Reservation.
func (b Booking) DateRef() string { return b.Date }

// TimeRange implements schedule.Reservation.
func (b Booking) TimeRange() (start, end string) { return b.StartTime, b.EndTime }
