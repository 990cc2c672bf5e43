package booking

import (
	"context"
	"fmt"

	"labreserve/models"
	"labreserve/services/schedule"
	"labreserve/utils"

	"go.uber.org/zap"
)

// CreateBookings persists the creation requests of one drag-select gesture.
// Every request is re-validated against fresh repository state; the cached
// snapshot the gesture was drawn against may be up to a poll interval stale.
func (svc *DefaultBookingService) CreateBookings(ctx context.Context, actor models.Requester, project string, creates []schedule.CreateRequest) ([]models.BookingRecord, error) {
	if len(creates) == 0 {
		return nil, newBookingError(CodeBadRequest, "no slots selected")
	}

	now := svc.Now()
	tools := make(map[int]*models.Tool)
	datesByTool := make(map[int][]string)

	for _, c := range creates {
		tool, ok := tools[c.ToolID]
		if !ok {
			var err error
			tool, err = svc.Tools.GetByID(ctx, c.ToolID)
			if err != nil {
				return nil, newBookingError(CodeNotFound, fmt.Sprintf("tool %d not found", c.ToolID))
			}
			tools[c.ToolID] = tool

			if !actor.Admin && !actor.Licensed(c.ToolID) {
				return nil, newBookingError(CodeNotLicensed, fmt.Sprintf("no license for %s", tool.Name))
			}
			if !tool.Bookable() {
				return nil, newBookingError(CodeToolDown, fmt.Sprintf("%s is down for maintenance", tool.Name))
			}
		}

		start, err := schedule.DateTimeOf(c.Date, c.StartTime)
		if err != nil {
			return nil, newBookingError(CodeBadRequest, err.Error())
		}
		if _, err := schedule.DateTimeOf(c.Date, c.EndTime); err != nil {
			return nil, newBookingError(CodeBadRequest, err.Error())
		}
		if c.EndTime <= c.StartTime {
			return nil, newBookingError(CodeBadRequest, "end time must be after start time")
		}
		if start.Before(now) && !actor.Admin {
			return nil, newBookingError(CodePastTime, "cannot book a slot in the past")
		}
		if svc.HorizonDays > 0 && start.After(now.AddDate(0, 0, svc.HorizonDays)) && !actor.Admin {
			return nil, newBookingError(CodeBadRequest,
				fmt.Sprintf("bookings open at most %d days ahead", svc.HorizonDays))
		}

		datesByTool[c.ToolID] = append(datesByTool[c.ToolID], c.Date)
	}

	existingByTool := make(map[int][]models.BookingRecord)
	for toolID, dates := range datesByTool {
		existing, err := svc.Repo.GetByToolAndDates(ctx, toolID, dates)
		if err != nil {
			return nil, fmt.Errorf("failed to load existing bookings: %w", err)
		}
		existingByTool[toolID] = existing
	}

	records := make([]models.BookingRecord, 0, len(creates))
	for _, c := range creates {
		cand := schedule.Candidate{
			ToolID:    c.ToolID,
			Date:      c.Date,
			StartTime: c.StartTime,
			EndTime:   c.EndTime,
		}
		if schedule.HasCollision(cand, existingByTool[c.ToolID], nil) {
			return nil, newBookingError(CodeCollision,
				fmt.Sprintf("%s %s-%s is no longer available", c.Date, c.StartTime, c.EndTime))
		}

		rec := models.BookingRecord{
			ToolID:    c.ToolID,
			ToolName:  tools[c.ToolID].Name,
			UserID:    actor.UserID,
			UserName:  actor.UserName,
			Project:   project,
			Date:      c.Date,
			Time:      c.StartTime,
			EndTime:   c.EndTime,
			CreatedAt: c.CreatedAt,
		}
		records = append(records, rec)
		// Guard requests within the same batch against each other too.
		existingByTool[c.ToolID] = append(existingByTool[c.ToolID], rec)
	}

	ids, err := svc.Repo.CreateMany(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("failed to create bookings: %w", err)
	}
	for i := range records {
		records[i].ID = ids[i]
	}

	svc.invalidateTools(ctx, datesByTool)
	return records, nil
}

// UpdateBooking commits a move or resize gesture. The first underlying
// record is rewritten to the new range and any surplus legacy slot records
// are deleted, so a merged run collapses into a single ranged row.
func (svc *DefaultBookingService) UpdateBooking(ctx context.Context, actor models.Requester, upd schedule.UpdateRequest) (*models.Booking, error) {
	original, records, err := svc.loadBooking(ctx, upd.IDs)
	if err != nil {
		return nil, err
	}
	if !actor.MayEdit(*original) {
		return nil, newBookingError(CodeNotPermitted, "you may only edit your own bookings")
	}

	newStart, err := schedule.DateTimeOf(upd.Date, upd.StartTime)
	if err != nil {
		return nil, newBookingError(CodeBadRequest, err.Error())
	}
	newEnd, err := schedule.DateTimeOf(upd.Date, upd.EndTime)
	if err != nil {
		return nil, newBookingError(CodeBadRequest, err.Error())
	}
	if upd.EndTime <= upd.StartTime {
		return nil, newBookingError(CodeBadRequest, "end time must be after start time")
	}

	now := svc.Now()
	origStart, _ := schedule.DateTimeOf(original.Date, original.StartTime)
	origEnd, _ := schedule.DateTimeOf(original.Date, original.EndTime)
	if origEnd.Before(now) && !actor.Admin {
		return nil, newBookingError(CodePastTime, "booking has already ended")
	}
	active := !origStart.After(now) && origEnd.After(now)
	if active && !actor.Admin {
		// Only the end of a running booking may change.
		if upd.Date != original.Date || upd.StartTime != original.StartTime {
			return nil, newBookingError(CodeInProgress, "a running booking can only have its end adjusted")
		}
		if !newEnd.After(now) {
			return nil, newBookingError(CodePastTime, "new end time must be in the future")
		}
	}
	if !active && newStart.Before(now) && !actor.Admin {
		return nil, newBookingError(CodePastTime, "cannot move a booking into the past")
	}

	existing, err := svc.Repo.GetByToolAndDates(ctx, upd.ToolID, []string{upd.Date})
	if err != nil {
		return nil, fmt.Errorf("failed to load existing bookings: %w", err)
	}
	cand := schedule.Candidate{
		ToolID:    upd.ToolID,
		Date:      upd.Date,
		StartTime: upd.StartTime,
		EndTime:   upd.EndTime,
	}
	if schedule.HasCollision(cand, existing, upd.IDs) {
		return nil, newBookingError(CodeCollision, "target time range is already booked")
	}

	project := upd.Project
	if project == "" {
		project = original.Project
	}
	keep := records[0]
	for _, rec := range records {
		if rec.ID == upd.IDs[0] {
			keep = rec
			break
		}
	}
	keep.Date = upd.Date
	keep.Time = upd.StartTime
	keep.EndTime = upd.EndTime
	keep.Project = project
	if err := svc.Repo.UpdateOne(ctx, upd.IDs[0], keep); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	if len(upd.IDs) > 1 {
		if err := svc.Repo.DeleteByIDs(ctx, upd.IDs[1:]); err != nil {
			return nil, fmt.Errorf("failed to delete merged slot records: %w", err)
		}
	}

	after := *original
	after.IDs = upd.IDs[:1]
	after.Date = upd.Date
	after.StartTime = upd.StartTime
	after.EndTime = upd.EndTime
	after.Project = project

	if err := svc.Cache.InvalidateTool(ctx, upd.ToolID); err != nil {
		utils.GetLogger().Warn("failed to invalidate snapshot cache", zap.Int("toolID", upd.ToolID), zap.Error(err))
	}
	if err := svc.Notifier.NotifyChange(ctx, *original, after, actor); err != nil {
		utils.GetLogger().Warn("failed to queue change notification", zap.Error(err))
	}
	return &after, nil
}

// CancelBooking deletes every record of one booking. A booking that has
// already started can only be cancelled by an admin.
func (svc *DefaultBookingService) CancelBooking(ctx context.Context, actor models.Requester, ids []string) error {
	b, _, err := svc.loadBooking(ctx, ids)
	if err != nil {
		return err
	}
	if !actor.MayEdit(*b) {
		return newBookingError(CodeNotPermitted, "you may only cancel your own bookings")
	}

	now := svc.Now()
	start, _ := schedule.DateTimeOf(b.Date, b.StartTime)
	if !start.After(now) && !actor.Admin {
		return newBookingError(CodeInProgress, "booking has already started")
	}

	if err := svc.Repo.DeleteByIDs(ctx, ids); err != nil {
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	if err := svc.Cache.InvalidateTool(ctx, b.ToolID); err != nil {
		utils.GetLogger().Warn("failed to invalidate snapshot cache", zap.Int("toolID", b.ToolID), zap.Error(err))
	}
	if err := svc.Notifier.NotifyCancellation(ctx, *b, actor); err != nil {
		utils.GetLogger().Warn("failed to queue cancellation notification", zap.Error(err))
	}
	return nil
}

// loadBooking fetches the records behind a set of ids and reconstructs the
// single logical booking they form.
func (svc *DefaultBookingService) loadBooking(ctx context.Context, ids []string) (*models.Booking, []models.BookingRecord, error) {
	if len(ids) == 0 {
		return nil, nil, newBookingError(CodeBadRequest, "no booking ids given")
	}
	records, err := svc.Repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, newBookingError(CodeNotFound, "booking not found")
	}
	grouped := schedule.GroupBookings(records)
	if len(grouped) != 1 {
		return nil, nil, newBookingError(CodeBadRequest, "ids do not form a single booking")
	}
	return &grouped[0], records, nil
}

func (svc *DefaultBookingService) invalidateTools(ctx context.Context, datesByTool map[int][]string) {
	for toolID := range datesByTool {
		if err := svc.Cache.InvalidateTool(ctx, toolID); err != nil {
			utils.GetLogger().Warn("failed to invalidate snapshot cache", zap.Int("toolID", toolID), zap.Error(err))
		}
	}
}
