package models

// Requester identifies the already-authenticated caller of a mutation.
// Authentication itself happens upstream; we only consume the identity.
type Requester struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Admin    bool   `json:"admin"`
	Licenses []int  `json:"licenses"` // tool ids the user is licensed for
}

// Licensed reports whether the requester holds a license for the tool.
func (r Requester) Licensed(toolID int) bool {
	for _, id := range r.Licenses {
		if id == toolID {
			return true
		}
	}
	return false
}

// MayEdit reports whether the requester may modify the given booking:
// their own booking, or any booking when they are an admin.
func (r Requester) MayEdit(b Booking) bool {
	return r.Admin || b.UserID == r.UserID
}
