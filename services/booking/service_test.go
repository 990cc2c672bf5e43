package booking

import (
	"context"
	"fmt"
	"testing"
	"time"

	"labreserve/models"
	"labreserve/services/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2023, 10, 23, 12, 0, 0, 0, time.UTC)

// fakeBookingRepo is an in-memory BookingRepository.
type fakeBookingRepo struct {
	records []models.BookingRecord
	nextID  int
}

func (r *fakeBookingRepo) CreateMany(_ context.Context, records []models.BookingRecord) ([]string, error) {
	ids := make([]string, len(records))
	for i, rec := range records {
		if rec.ID == "" {
			r.nextID++
			rec.ID = fmt.Sprintf("id-%d", r.nextID)
		}
		ids[i] = rec.ID
		r.records = append(r.records, rec)
	}
	return ids, nil
}

func (r *fakeBookingRepo) GetByIDs(_ context.Context, ids []string) ([]models.BookingRecord, error) {
	var out []models.BookingRecord
	for _, rec := range r.records {
		for _, id := range ids {
			if rec.ID == id {
				out = append(out, rec)
			}
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) GetByToolAndDates(_ context.Context, toolID int, dates []string) ([]models.BookingRecord, error) {
	var out []models.BookingRecord
	for _, rec := range r.records {
		if rec.ToolID != toolID {
			continue
		}
		for _, d := range dates {
			if rec.Date == d {
				out = append(out, rec)
			}
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) GetByDates(_ context.Context, dates []string) ([]models.BookingRecord, error) {
	var out []models.BookingRecord
	for _, rec := range r.records {
		for _, d := range dates {
			if rec.Date == d {
				out = append(out, rec)
			}
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) GetByUser(_ context.Context, userID string) ([]models.BookingRecord, error) {
	var out []models.BookingRecord
	for _, rec := range r.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) UpdateOne(_ context.Context, id string, update models.BookingRecord) error {
	for i, rec := range r.records {
		if rec.ID == id {
			update.ID = id
			r.records[i] = update
			return nil
		}
	}
	return fmt.Errorf("record %s not found", id)
}

func (r *fakeBookingRepo) DeleteByIDs(_ context.Context, ids []string) error {
	var kept []models.BookingRecord
	for _, rec := range r.records {
		drop := false
		for _, id := range ids {
			if rec.ID == id {
				drop = true
			}
		}
		if !drop {
			kept = append(kept, rec)
		}
	}
	r.records = kept
	return nil
}

// fakeToolRepo serves a fixed inventory.
type fakeToolRepo struct {
	tools map[int]models.Tool
}

func (r *fakeToolRepo) GetAll(_ context.Context) ([]models.Tool, error) {
	var out []models.Tool
	for _, t := range r.tools {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeToolRepo) GetByID(_ context.Context, id int) (*models.Tool, error) {
	t, ok := r.tools[id]
	if !ok {
		return nil, fmt.Errorf("tool %d not found", id)
	}
	return &t, nil
}

func (r *fakeToolRepo) SetStatus(_ context.Context, id int, status string) error {
	t, ok := r.tools[id]
	if !ok {
		return fmt.Errorf("tool %d not found", id)
	}
	t.Status = status
	r.tools[id] = t
	return nil
}

// fakeCache records invalidations and optionally serves a snapshot.
type fakeCache struct {
	snapshot    []models.BookingRecord
	hit         bool
	sets        int
	invalidated []int
}

func (c *fakeCache) Get(_ context.Context, _ int, _ string) ([]models.BookingRecord, bool) {
	return c.snapshot, c.hit
}

func (c *fakeCache) Set(_ context.Context, _ int, _ string, records []models.BookingRecord) error {
	c.sets++
	c.snapshot = records
	return nil
}

func (c *fakeCache) InvalidateTool(_ context.Context, toolID int) error {
	c.invalidated = append(c.invalidated, toolID)
	return nil
}

// fakeNotifier captures queued notifications.
type fakeNotifier struct {
	cancellations []models.Booking
	changes       []models.Booking
}

func (n *fakeNotifier) NotifyCancellation(_ context.Context, b models.Booking, actor models.Requester) error {
	if actor.UserID == b.UserID {
		return nil
	}
	n.cancellations = append(n.cancellations, b)
	return nil
}

func (n *fakeNotifier) NotifyChange(_ context.Context, before, _ models.Booking, actor models.Requester) error {
	if actor.UserID == before.UserID {
		return nil
	}
	n.changes = append(n.changes, before)
	return nil
}

type fixture struct {
	svc      *DefaultBookingService
	repo     *fakeBookingRepo
	cache    *fakeCache
	notifier *fakeNotifier
}

func newFixture() *fixture {
	repo := &fakeBookingRepo{}
	cache := &fakeCache{}
	notifier := &fakeNotifier{}
	tools := &fakeToolRepo{tools: map[int]models.Tool{
		1: {ID: 1, Name: "SEM", Status: models.ToolStatusUp},
		2: {ID: 2, Name: "AFM", Status: models.ToolStatusDown},
	}}
	return &fixture{
		svc: &DefaultBookingService{
			Repo:     repo,
			Tools:    tools,
			Cache:    cache,
			Notifier: notifier,
			Now:      func() time.Time { return testNow },
		},
		repo:     repo,
		cache:    cache,
		notifier: notifier,
	}
}

var alice = models.Requester{UserID: "alice", UserName: "Alice", Licenses: []int{1}}
var bob = models.Requester{UserID: "bob", UserName: "Bob", Licenses: []int{1}}
var admin = models.Requester{UserID: "root", UserName: "Root", Admin: true}

func createReq(toolID int, date, start, end string) schedule.CreateRequest {
	return schedule.CreateRequest{
		ToolID: toolID, Date: date, StartTime: start, EndTime: end,
		CreatedAt: testNow.Format(time.RFC3339),
	}
}

func TestCreateBookings(t *testing.T) {
	f := newFixture()
	records, err := f.svc.CreateBookings(context.Background(), alice, "thesis", []schedule.CreateRequest{
		createReq(1, "2023-10-24", "09:00", "10:30"),
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NotEmpty(t, records[0].ID)
	assert.Equal(t, "SEM", records[0].ToolName)
	assert.Equal(t, "alice", records[0].UserID)
	assert.Equal(t, "thesis", records[0].Project)
	assert.Equal(t, []int{1}, f.cache.invalidated)
}

func TestCreateBookings_Refusals(t *testing.T) {
	cases := []struct {
		name     string
		actor    models.Requester
		create   schedule.CreateRequest
		wantCode string
	}{
		{"unlicensed tool", models.Requester{UserID: "eve"}, createReq(1, "2023-10-24", "09:00", "10:00"), CodeNotLicensed},
		{"tool down", models.Requester{UserID: "eve", Licenses: []int{2}}, createReq(2, "2023-10-24", "09:00", "10:00"), CodeToolDown},
		{"past slot", alice, createReq(1, "2023-10-23", "08:00", "09:00"), CodePastTime},
		{"inverted range", alice, createReq(1, "2023-10-24", "10:00", "09:00"), CodeBadRequest},
		{"unknown tool", alice, createReq(9, "2023-10-24", "09:00", "10:00"), CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.CreateBookings(context.Background(), tc.actor, "", []schedule.CreateRequest{tc.create})
			var berr *BookingError
			require.ErrorAs(t, err, &berr)
			assert.Equal(t, tc.wantCode, berr.Code)
		})
	}
}

func TestCreateBookings_HorizonGuard(t *testing.T) {
	f := newFixture()
	f.svc.HorizonDays = 7

	_, err := f.svc.CreateBookings(context.Background(), alice, "", []schedule.CreateRequest{
		createReq(1, "2023-11-15", "09:00", "10:00"),
	})
	var berr *BookingError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, CodeBadRequest, berr.Code)

	// Admins schedule beyond the horizon, e.g. for maintenance blocks.
	_, err = f.svc.CreateBookings(context.Background(), admin, "", []schedule.CreateRequest{
		createReq(1, "2023-11-15", "09:00", "10:00"),
	})
	assert.NoError(t, err)
}

func TestCreateBookings_AdminMayBackfillPast(t *testing.T) {
	f := newFixture()
	_, err := f.svc.CreateBookings(context.Background(), admin, "", []schedule.CreateRequest{
		createReq(1, "2023-10-23", "08:00", "09:00"),
	})
	assert.NoError(t, err)
}

func TestCreateBookings_CollisionRecheck(t *testing.T) {
	f := newFixture()
	_, err := f.svc.CreateBookings(context.Background(), alice, "", []schedule.CreateRequest{
		createReq(1, "2023-10-24", "09:00", "10:00"),
	})
	require.NoError(t, err)

	// A second gesture drawn against a stale snapshot must fail at commit.
	_, err = f.svc.CreateBookings(context.Background(), bob, "", []schedule.CreateRequest{
		createReq(1, "2023-10-24", "09:30", "10:30"),
	})
	var berr *BookingError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, CodeCollision, berr.Code)
}

func TestCreateBookings_IntraBatchCollision(t *testing.T) {
	f := newFixture()
	_, err := f.svc.CreateBookings(context.Background(), alice, "", []schedule.CreateRequest{
		createReq(1, "2023-10-24", "09:00", "10:00"),
		createReq(1, "2023-10-24", "09:30", "10:30"),
	})
	var berr *BookingError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, CodeCollision, berr.Code)
}

func seedBooking(f *fixture, user models.Requester, date, start, end string) []string {
	records, err := f.svc.CreateBookings(context.Background(), admin, "seed", []schedule.CreateRequest{
		{ToolID: 1, Date: date, StartTime: start, EndTime: end, CreatedAt: testNow.Format(time.RFC3339)},
	})
	if err != nil {
		panic(err)
	}
	ids := make([]string, len(records))
	for i, rec := range records {
		rec.UserID = user.UserID
		rec.UserName = user.UserName
		f.repo.records[len(f.repo.records)-len(records)+i] = rec
		ids[i] = rec.ID
	}
	return ids
}

func TestUpdateBooking_MoveAndCollapse(t *testing.T) {
	f := newFixture()
	// Three legacy slot records forming one merged booking.
	_, err := f.repo.CreateMany(context.Background(), []models.BookingRecord{
		{ID: "s1", ToolID: 1, ToolName: "SEM", UserID: "alice", UserName: "Alice", Project: "p", Date: "2023-10-24", Time: "09:00", CreatedAt: "t0"},
		{ID: "s2", ToolID: 1, ToolName: "SEM", UserID: "alice", UserName: "Alice", Project: "p", Date: "2023-10-24", Time: "09:30", CreatedAt: "t0"},
		{ID: "s3", ToolID: 1, ToolName: "SEM", UserID: "alice", UserName: "Alice", Project: "p", Date: "2023-10-24", Time: "10:00", CreatedAt: "t0"},
	})
	require.NoError(t, err)

	after, err := f.svc.UpdateBooking(context.Background(), alice, schedule.UpdateRequest{
		IDs: []string{"s1", "s2", "s3"}, ToolID: 1, Project: "p",
		Date: "2023-10-24", StartTime: "11:00", EndTime: "12:30",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, after.IDs)
	assert.Equal(t, "11:00", after.StartTime)
	assert.Equal(t, "12:30", after.EndTime)

	// The surplus slot records are gone; the first carries the new range.
	require.Len(t, f.repo.records, 1)
	assert.Equal(t, "s1", f.repo.records[0].ID)
	assert.Equal(t, "11:00", f.repo.records[0].Time)
	assert.Equal(t, "12:30", f.repo.records[0].EndTime)
	assert.Equal(t, []int{1}, f.cache.invalidated)
}

func TestUpdateBooking_ForeignBookingRefused(t *testing.T) {
	f := newFixture()
	ids := seedBooking(f, alice, "2023-10-24", "09:00", "10:00")

	_, err := f.svc.UpdateBooking(context.Background(), bob, schedule.UpdateRequest{
		IDs: ids, ToolID: 1, Date: "2023-10-24", StartTime: "11:00", EndTime: "12:00",
	})
	var berr *BookingError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, CodeNotPermitted, berr.Code)
}

func TestUpdateBooking_AdminEditNotifiesOwner(t *testing.T) {
	f := newFixture()
	ids := seedBooking(f, alice, "2023-10-24", "09:00", "10:00")

	_, err := f.svc.UpdateBooking(context.Background(), admin, schedule.UpdateRequest{
		IDs: ids, ToolID: 1, Date: "2023-10-24", StartTime: "11:00", EndTime: "12:00",
	})
	require.NoError(t, err)
	require.Len(t, f.notifier.changes, 1)
	assert.Equal(t, "alice", f.notifier.changes[0].UserID)
}

func TestUpdateBooking_CollisionRecheck(t *testing.T) {
	f := newFixture()
	ids := seedBooking(f, alice, "2023-10-24", "09:00", "10:00")
	seedBooking(f, bob, "2023-10-24", "11:00", "12:00")

	_, err := f.svc.UpdateBooking(context.Background(), alice, schedule.UpdateRequest{
		IDs: ids, ToolID: 1, Date: "2023-10-24", StartTime: "11:30", EndTime: "12:30",
	})
	var berr *BookingError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, CodeCollision, berr.Code)
}

func TestUpdateBooking_InProgressEndOnly(t *testing.T) {
	f := newFixture()
	ids := seedBooking(f, alice, "2023-10-23", "11:30", "12:30") // running at 12:00

	// Moving the start is refused.
	_, err := f.svc.UpdateBooking(context.Background(), alice, schedule.UpdateRequest{
		IDs: ids, ToolID: 1, Date: "2023-10-23", StartTime: "12:00", EndTime: "13:00",
	})
	var berr *BookingError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, CodeInProgress, berr.Code)

	// Extending the end is fine.
	after, err := f.svc.UpdateBooking(context.Background(), alice, schedule.UpdateRequest{
		IDs: ids, ToolID: 1, Date: "2023-10-23", StartTime: "11:30", EndTime: "13:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "13:00", after.EndTime)
}

func TestCancelBooking(t *testing.T) {
	f := newFixture()
	ids := seedBooking(f, alice, "2023-10-24", "09:00", "10:00")

	require.NoError(t, f.svc.CancelBooking(context.Background(), alice, ids))
	assert.Empty(t, f.repo.records)
	// Self-service cancellation sends no email.
	assert.Empty(t, f.notifier.cancellations)
}

func TestCancelBooking_StartedIsAdminOnly(t *testing.T) {
	f := newFixture()
	ids := seedBooking(f, alice, "2023-10-23", "11:30", "12:30")

	err := f.svc.CancelBooking(context.Background(), alice, ids)
	var berr *BookingError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, CodeInProgress, berr.Code)

	require.NoError(t, f.svc.CancelBooking(context.Background(), admin, ids))
	require.Len(t, f.notifier.cancellations, 1)
	assert.Equal(t, "alice", f.notifier.cancellations[0].UserID)
}

func TestWeekView(t *testing.T) {
	f := newFixture()
	// Seed two overlapping bookings directly; the service itself would
	// refuse the second one.
	_, err := f.repo.CreateMany(context.Background(), []models.BookingRecord{
		{ID: "w1", ToolID: 1, UserID: "alice", Date: "2023-10-24", Time: "09:00", EndTime: "10:00"},
		{ID: "w2", ToolID: 1, UserID: "bob", Date: "2023-10-24", Time: "09:30", EndTime: "10:30"},
	})
	require.NoError(t, err)

	view, err := f.svc.WeekView(context.Background(), 1, "2023-10-23")
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.sets)
	require.Len(t, view.Dates, 7)
	assert.Equal(t, "2023-10-23", view.Dates[0])
	assert.Equal(t, "2023-10-29", view.Dates[6])

	day := view.Days["2023-10-24"]
	require.Len(t, day, 2)
	// Overlapping bookings split the column into halves.
	for _, p := range day {
		assert.InDelta(t, 50.0, p.WidthPercent, 1e-9)
	}
}

func TestWeekView_ServesFromCache(t *testing.T) {
	f := newFixture()
	f.cache.hit = true
	f.cache.snapshot = []models.BookingRecord{
		{ID: "c1", ToolID: 1, Date: "2023-10-24", Time: "09:00", EndTime: "10:00"},
	}

	view, err := f.svc.WeekView(context.Background(), 1, "2023-10-23")
	require.NoError(t, err)
	assert.Equal(t, 0, f.cache.sets)
	require.Len(t, view.Days["2023-10-24"], 1)
}

func TestUserBookings_Partition(t *testing.T) {
	f := newFixture()
	seedBooking(f, alice, "2023-10-20", "09:00", "10:00")
	seedBooking(f, alice, "2023-10-25", "09:00", "10:00")
	seedBooking(f, alice, "2023-10-24", "09:00", "10:00")

	got, err := f.svc.UserBookings(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, got.Upcoming, 2)
	require.Len(t, got.Past, 1)
	// Upcoming soonest-first, past most-recent-first.
	assert.Equal(t, "2023-10-24", got.Upcoming[0].Date)
	assert.Equal(t, "2023-10-25", got.Upcoming[1].Date)
	assert.Equal(t, "2023-10-20", got.Past[0].Date)
}
