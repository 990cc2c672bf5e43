package booking

import (
	"context"
	"fmt"
	"sort"

	"labreserve/models"
	"labreserve/services/schedule"
	"labreserve/utils"

	"go.uber.org/zap"
)

// WeekView returns one tool's week, grouped and column-positioned. Reads go
// through the short-TTL snapshot cache so that polling clients do not hammer
// Mongo; mutations invalidate the cache.
func (svc *DefaultBookingService) WeekView(ctx context.Context, toolID int, weekStart string) (*models.WeekView, error) {
	dates, err := schedule.WeekDates(weekStart, 7)
	if err != nil {
		return nil, newBookingError(CodeBadRequest, fmt.Sprintf("invalid week start %q", weekStart))
	}

	records, hit := svc.Cache.Get(ctx, toolID, weekStart)
	if !hit {
		records, err = svc.Repo.GetByToolAndDates(ctx, toolID, dates)
		if err != nil {
			return nil, fmt.Errorf("failed to load bookings: %w", err)
		}
		if err := svc.Cache.Set(ctx, toolID, weekStart, records); err != nil {
			utils.GetLogger().Warn("failed to cache snapshot", zap.Int("toolID", toolID), zap.Error(err))
		}
	}

	grouped := schedule.GroupBookings(records)
	days := make(map[string][]models.PositionedBooking, len(dates))
	for _, date := range dates {
		var day []models.Booking
		for _, b := range grouped {
			if b.Date == date {
				day = append(day, b)
			}
		}
		days[date] = schedule.CalculateEventLayout(day)
	}

	return &models.WeekView{ToolID: toolID, Dates: dates, Days: days}, nil
}

// UserBookings lists a user's bookings split into upcoming and past, the
// upcoming ones soonest-first and the past ones most-recent-first.
func (svc *DefaultBookingService) UserBookings(ctx context.Context, userID string) (*models.UserBookings, error) {
	records, err := svc.Repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	now := svc.Now()
	grouped := schedule.GroupBookings(records)

	out := &models.UserBookings{}
	for _, b := range grouped {
		end, err := schedule.DateTimeOf(b.Date, b.EndTime)
		if err != nil {
			continue
		}
		if end.After(now) {
			out.Upcoming = append(out.Upcoming, b)
		} else {
			out.Past = append(out.Past, b)
		}
	}

	byStart := func(s []models.Booking) func(i, j int) bool {
		return func(i, j int) bool {
			if s[i].Date != s[j].Date {
				return s[i].Date < s[j].Date
			}
			return s[i].StartTime < s[j].StartTime
		}
	}
	sort.Slice(out.Upcoming, byStart(out.Upcoming))
	sort.Slice(out.Past, func(i, j int) bool { return byStart(out.Past)(j, i) })

	return out, nil
}
