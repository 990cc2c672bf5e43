package routes

import (
	"net/http"
	"time"

	"labreserve/handlers"
	"labreserve/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes sets up the endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		// Read endpoints are open to any request; calendar views are the
		// polling surface.
		api.GET("/week", hb.WeekView)
		api.GET("/user/:userID", hb.UserBookings)

		// Mutations require an identity.
		protected := api.Group("")
		protected.Use(middleware.IdentityMiddleware())
		protected.POST("", hb.CreateBookings)
		protected.PUT("", hb.UpdateBooking)
		protected.DELETE("", hb.CancelBooking)
	}
}

// RegisterToolRoutes registers equipment inventory endpoints.
func RegisterToolRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/tools")
	{
		api.GET("", hb.ListTools)
		api.GET("/:id", hb.GetTool)

		protected := api.Group("")
		protected.Use(middleware.IdentityMiddleware())
		protected.PATCH("/:id/status", hb.SetToolStatus)
	}
}

// RegisterCalendarRoutes registers the iCalendar export endpoint.
func RegisterCalendarRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/calendar/:userID", hb.UserCalendar)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "labreserve"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-User-ID", "X-User-Name", "X-Admin", "X-Licenses"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/api/config", handlers.GridConfig)

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterToolRoutes(r, hb)
	RegisterCalendarRoutes(r, hb)
}
