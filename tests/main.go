package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"labreserve/config"
	"labreserve/database"
	"labreserve/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Seeds the tools and bookings collections with a small simulated lab for
// local development.
func main() {
	config.LoadConfig()
	database.InitDB()
	client := database.MongoClient
	db := client.Database(config.AppConfig.DatabaseName)
	toolColl := db.Collection("tools")
	bookingColl := db.Collection("bookings")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if _, err := toolColl.DeleteMany(ctx, bson.M{}); err != nil {
		log.Fatalf("Failed to clear tools collection: %v", err)
	}
	if _, err := bookingColl.DeleteMany(ctx, bson.M{}); err != nil {
		log.Fatalf("Failed to clear bookings collection: %v", err)
	}

	tools := []models.Tool{
		{ID: 1, Name: "SEM", Category: "microscopy", Location: "Room 101", Status: models.ToolStatusUp},
		{ID: 2, Name: "AFM", Category: "microscopy", Location: "Room 101", Status: models.ToolStatusUp},
		{ID: 3, Name: "Sputter Coater", Category: "deposition", Location: "Room 204", Status: models.ToolStatusUp},
		{ID: 4, Name: "Mask Aligner", Category: "lithography", Location: "Cleanroom", Status: models.ToolStatusUp},
		{ID: 5, Name: "Wire Bonder", Category: "packaging", Location: "Room 310", Status: models.ToolStatusDown},
	}
	toolDocs := make([]interface{}, len(tools))
	for i, t := range tools {
		toolDocs[i] = t
	}
	if _, err := toolColl.InsertMany(ctx, toolDocs); err != nil {
		log.Fatalf("Failed to seed tools: %v", err)
	}

	users := []struct {
		id   string
		name string
	}{
		{"alice", "Alice Becker"},
		{"bob", "Bob Tanaka"},
		{"carol", "Carol Osei"},
	}
	projects := []string{"perovskite solar", "graphene sensors", "mems resonators"}

	// Generate dates for the next 7 days.
	var weekDates []string
	for i := 0; i < 7; i++ {
		weekDates = append(weekDates, time.Now().AddDate(0, 0, i).Format("2006-01-02"))
	}

	var bookingDocs []interface{}
	count := 0
	for _, date := range weekDates {
		for _, t := range tools[:4] {
			// Two non-overlapping ranged bookings per tool-day.
			startHour := 8 + rand.Intn(3)
			for i := 0; i < 2; i++ {
				u := users[rand.Intn(len(users))]
				duration := 1 + rand.Intn(3) // slots
				start := startHour*60 + i*4*60
				end := start + duration*30
				bookingDocs = append(bookingDocs, models.BookingRecord{
					ID:        uuid.New().String(),
					ToolID:    t.ID,
					ToolName:  t.Name,
					UserID:    u.id,
					UserName:  u.name,
					Project:   projects[rand.Intn(len(projects))],
					Date:      date,
					Time:      fmt.Sprintf("%02d:%02d", start/60, start%60),
					EndTime:   fmt.Sprintf("%02d:%02d", end/60, end%60),
					CreatedAt: time.Now().UTC().Format(time.RFC3339),
				})
				count++
			}
		}
	}
	if _, err := bookingColl.InsertMany(ctx, bookingDocs); err != nil {
		log.Fatalf("Failed to seed bookings: %v", err)
	}

	log.Printf("Seeded %d tools and %d bookings", len(tools), count)
}
