package models

// Notification kinds.
const (
	NotifyCancellation = "cancellation"
	NotifyChange       = "change"
)

// BookingNotification is the queued payload for a booking email. The worker
// renders it into a message for the booking owner.
type BookingNotification struct {
	Kind      string `json:"kind"` // "cancellation" or "change"
	OwnerID   string `json:"owner_id"`
	OwnerName string `json:"owner_name"`
	ActorName string `json:"actor_name"` // who cancelled or moved the booking
	ToolName  string `json:"tool_name"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	// Set for "change" notifications only.
	NewDate      string `json:"new_date,omitempty"`
	NewStartTime string `json:"new_start_time,omitempty"`
	NewEndTime   string `json:"new_end_time,omitempty"`
}
