package models

// Tool statuses.
const (
	ToolStatusUp   = "up"
	ToolStatusDown = "down"
)

// Tool is a shared piece of lab equipment that can be reserved.
type Tool struct {
	ID       int    `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Category string `bson:"category" json:"category"`
	Location string `bson:"location,omitempty" json:"location,omitempty"`
	Status   string `bson:"status" json:"status"` // "up" or "down"
}

// Bookable reports whether new reservations may target the tool.
func (t Tool) Bookable() bool { return t.Status == ToolStatusUp }
