package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Booking endpoints
	CreateBookings gin.HandlerFunc
	UpdateBooking  gin.HandlerFunc
	CancelBooking  gin.HandlerFunc
	WeekView       gin.HandlerFunc
	UserBookings   gin.HandlerFunc

	// Tool endpoints
	ListTools     gin.HandlerFunc
	GetTool       gin.HandlerFunc
	SetToolStatus gin.HandlerFunc

	// Calendar export
	UserCalendar gin.HandlerFunc
}
