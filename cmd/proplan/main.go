package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/proplan-dev/proplan/db"
	"github.com/proplan-dev/proplan/internal/auth"
	"github.com/proplan-dev/proplan/internal/config"
	"github.com/proplan-dev/proplan/internal/events"
	"github.com/proplan-dev/proplan/internal/notify"
	"github.com/proplan-dev/proplan/internal/router"
	"github.com/proplan-dev/proplan/internal/scheduler"
	"github.com/proplan-dev/proplan/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := auth.InitJWT(cfg.JWTSecret, cfg.TokenTTL); err != nil {
		log.Fatalf("Failed to initialize JWT: %v", err)
	}

	if err := db.ConnectDatabase(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if len(os.Args) > 1 && os.Args[1] == "seed" {
		if err := seed(db.DB); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
		log.Println("Mock data generated. Admin: admin@example.com / admin123")
		return
	}

	mailer := notify.NewMailer(cfg)
	hub := events.NewHub()

	dayOffService := services.NewDayOffService(db.DB, mailer)
	reminders := scheduler.New(dayOffService, mailer)
	if err := reminders.Start(cfg.ReminderHour); err != nil {
		log.Fatalf("Failed to start reminder scheduler: %v", err)
	}
	defer reminders.Stop()

	r := router.NewRouter(db.DB, mailer, hub)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
