package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"labreserve/middleware"
	"labreserve/services/booking"
	"labreserve/services/schedule"
	"labreserve/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking service over HTTP.
type BookingHandler struct {
	Svc    booking.BookingService
	Logger *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Svc: svc, Logger: logger}
}

// statusForBookingError maps service error codes to HTTP statuses.
func statusForBookingError(err error) (int, *booking.BookingError) {
	var berr *booking.BookingError
	if !errors.As(err, &berr) {
		return http.StatusInternalServerError, nil
	}
	switch berr.Code {
	case booking.CodeNotFound:
		return http.StatusNotFound, berr
	case booking.CodeNotPermitted, booking.CodeNotLicensed:
		return http.StatusForbidden, berr
	case booking.CodeCollision:
		return http.StatusConflict, berr
	case booking.CodeBadRequest:
		return http.StatusBadRequest, berr
	default: // pastTime, toolDown, inProgress
		return http.StatusUnprocessableEntity, berr
	}
}

func (h *BookingHandler) respondError(c *gin.Context, err error) {
	status, berr := statusForBookingError(err)
	if berr == nil {
		h.Logger.Error("booking request failed", zap.Error(err))
		utils.JSONError(c, status, "internal error", "")
		return
	}
	utils.JSONError(c, status, berr.Code, berr.Message)
}

// CreateBookings persists the outcome of a drag-select gesture.
func (h *BookingHandler) CreateBookings(c *gin.Context) {
	actor, ok := middleware.RequesterFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing identity", "")
		return
	}

	var input struct {
		Project string                   `json:"project"`
		Creates []schedule.CreateRequest `json:"creates"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	records, err := h.Svc.CreateBookings(c.Request.Context(), actor, input.Project, input.Creates)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"bookings": records})
}

// UpdateBooking commits a move or resize gesture.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	actor, ok := middleware.RequesterFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing identity", "")
		return
	}

	var upd schedule.UpdateRequest
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	after, err := h.Svc.UpdateBooking(c.Request.Context(), actor, upd)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": after})
}

// CancelBooking deletes all records of one booking.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	actor, ok := middleware.RequesterFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "missing identity", "")
		return
	}

	var input struct {
		IDs []string `json:"ids"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.Svc.CancelBooking(c.Request.Context(), actor, input.IDs); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// WeekView returns one tool's grouped and positioned calendar week.
func (h *BookingHandler) WeekView(c *gin.Context) {
	toolID, err := strconv.Atoi(c.Query("tool"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "tool must be a numeric id")
		return
	}
	weekStart := c.Query("start")

	view, err := h.Svc.WeekView(c.Request.Context(), toolID, weekStart)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// UserBookings lists a user's bookings split into upcoming and past.
func (h *BookingHandler) UserBookings(c *gin.Context) {
	userID := c.Param("userID")
	out, err := h.Svc.UserBookings(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
