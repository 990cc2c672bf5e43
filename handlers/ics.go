package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"labreserve/services/booking"
	"labreserve/services/schedule"
	"labreserve/utils"

	ics "github.com/emersion/go-ical"
	"github.com/gin-gonic/gin"
)

// CalendarHandler renders a user's bookings as an iCalendar feed, one VEVENT
// per grouped booking, so lab members can subscribe from their calendar app.
type CalendarHandler struct {
	Svc booking.BookingService
}

func NewCalendarHandler(svc booking.BookingService) *CalendarHandler {
	return &CalendarHandler{Svc: svc}
}

// UserCalendar serves GET /api/calendar/:userID.ics.
func (h *CalendarHandler) UserCalendar(c *gin.Context) {
	userID := strings.TrimSuffix(c.Param("userID"), ".ics")

	bookings, err := h.Svc.UserBookings(c.Request.Context(), userID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load bookings", err.Error())
		return
	}

	cal := ics.NewCalendar()
	cal.Props.SetText(ics.PropVersion, "2.0")
	cal.Props.SetText(ics.PropProductID, "-//labreserve//labreserve//EN")

	all := append(bookings.Past, bookings.Upcoming...)
	for _, b := range all {
		start, err := schedule.DateTimeOf(b.Date, b.StartTime)
		if err != nil {
			continue
		}
		end, err := schedule.DateTimeOf(b.Date, b.EndTime)
		if err != nil {
			continue
		}

		comp := ics.NewComponent(ics.CompEvent)
		comp.Props.SetText(ics.PropUID, fmt.Sprintf("%s@labreserve", b.IDs[0]))
		comp.Props.SetText(ics.PropSummary, b.ToolName)
		// DTSTAMP is required by the ICS spec
		comp.Props.SetDateTime(ics.PropDateTimeStamp, time.Now())
		comp.Props.SetDateTime(ics.PropDateTimeStart, start)
		comp.Props.SetDateTime(ics.PropDateTimeEnd, end)
		if b.Project != "" {
			comp.Props.SetText(ics.PropDescription, "Project: "+b.Project)
		}
		cal.Children = append(cal.Children, comp)
	}

	var buf bytes.Buffer
	if err := ics.NewEncoder(&buf).Encode(cal); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to encode calendar", err.Error())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", userID+".ics"))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}
