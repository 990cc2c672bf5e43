package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"labreserve/config"
	"labreserve/cron"
	"labreserve/database"
	bookingRepoPkg "labreserve/database/repository/booking"
	toolRepoPkg "labreserve/database/repository/tool"
	"labreserve/handlers"
	"labreserve/middleware"
	"labreserve/routes"
	"labreserve/services/booking"
	"labreserve/services/notification"
	"labreserve/services/tool"
	"labreserve/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	toolRepo := toolRepoPkg.NewMongoToolRepo()

	// services.
	notificationService := notification.NewDefaultNotificationService()
	snapshotCache := utils.NewSnapshotCache(
		utils.GetCacheClient(),
		time.Duration(config.AppConfig.SnapshotTTLSeconds)*time.Second,
	)
	bookingService := &booking.DefaultBookingService{
		Repo:        bookingRepo,
		Tools:       toolRepo,
		Cache:       snapshotCache,
		Notifier:    notificationService,
		Now:         time.Now,
		HorizonDays: config.AppConfig.BookingHorizonDays,
	}
	toolService := &tool.DefaultToolService{
		Repo: toolRepo,
	}

	// Background notification worker.
	cron.InitNotifyWorker(cron.LogMailer{})

	bookingHandler := handlers.NewBookingHandler(bookingService, logger)
	toolHandler := handlers.NewToolHandler(toolService)
	calendarHandler := handlers.NewCalendarHandler(bookingService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		CreateBookings: bookingHandler.CreateBookings,
		UpdateBooking:  bookingHandler.UpdateBooking,
		CancelBooking:  bookingHandler.CancelBooking,
		WeekView:       bookingHandler.WeekView,
		UserBookings:   bookingHandler.UserBookings,

		ListTools:     toolHandler.ListTools,
		GetTool:       toolHandler.GetTool,
		SetToolStatus: toolHandler.SetToolStatus,

		UserCalendar: calendarHandler.UserCalendar,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
