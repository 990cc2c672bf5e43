package handlers

import (
	"net/http"

	"labreserve/config"

	"github.com/gin-gonic/gin"
)

// GridConfig tells clients how to draw the booking grid: the bookable
// window, the slot size and how far ahead bookings open.
func GridConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"dayStartHour":       config.AppConfig.DayStartHour,
		"dayEndHour":         config.AppConfig.DayEndHour,
		"slotSizeMinutes":    config.AppConfig.SlotSizeMinutes,
		"bookingHorizonDays": config.AppConfig.BookingHorizonDays,
	})
}
