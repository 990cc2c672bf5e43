package booking

import (
	"context"

	bookingRepo "labreserve/database/repository/booking"
	toolRepo "labreserve/database/repository/tool"
	"labreserve/models"
	"labreserve/services/notification"
	"labreserve/services/schedule"
)

// BookingService is the transactional side of the scheduling engine: it
// re-validates every gesture outcome against fresh repository state before
// persisting, so a stale snapshot can never double-book a tool.
type BookingService interface {
	CreateBookings(ctx context.Context, actor models.Requester, project string, creates []schedule.CreateRequest) ([]models.BookingRecord, error)
	UpdateBooking(ctx context.Context, actor models.Requester, upd schedule.UpdateRequest) (*models.Booking, error)
	CancelBooking(ctx context.Context, actor models.Requester, ids []string) error
	WeekView(ctx context.Context, toolID int, weekStart string) (*models.WeekView, error)
	UserBookings(ctx context.Context, userID string) (*models.UserBookings, error)
}

// SnapshotCache is the subset of utils.SnapshotCache the service needs.
type SnapshotCache interface {
	Get(ctx context.Context, toolID int, weekStart string) ([]models.BookingRecord, bool)
	Set(ctx context.Context, toolID int, weekStart string, records []models.BookingRecord) error
	InvalidateTool(ctx context.Context, toolID int) error
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo        bookingRepo.BookingRepository
	Tools       toolRepo.ToolRepository
	Cache       SnapshotCache
	Notifier    notification.NotificationService
	Now         schedule.Clock
	HorizonDays int // how far ahead non-admins may book; 0 means unlimited
}
