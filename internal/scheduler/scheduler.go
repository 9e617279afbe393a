package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/proplan-dev/proplan/internal/notify"
	"github.com/proplan-dev/proplan/internal/services"
	"github.com/robfig/cron/v3"
)

// Scheduler runs the daily day-off reminder job, independent of any
// HTTP request.
type Scheduler struct {
	cron    *cron.Cron
	daysOff *services.DayOffService
	mailer  *notify.Mailer
	now     func() time.Time
}

func New(daysOff *services.DayOffService, mailer *notify.Mailer) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		daysOff: daysOff,
		mailer:  mailer,
		now:     time.Now,
	}
}

// Start registers the reminder job at the given hour (0..23) and
// starts the timer.
func (s *Scheduler) Start(hour int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("reminder hour must be 0..23, got %d", hour)
	}

	spec := fmt.Sprintf("0 0 %d * * *", hour)
	if _, err := s.cron.AddFunc(spec, s.SendStartReminders); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("Reminder scheduler started (daily at %02d:00)", hour)
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Reminder scheduler stopped")
}

// SendStartReminders emails each affected user's managers about day-off
// entries starting today. One email per distinct manager per user.
func (s *Scheduler) SendStartReminders() {
	today := s.now()

	entries, err := s.daysOff.StartingToday(today)
	if err != nil {
		log.Printf("Failed to load day-off entries starting today: %v", err)
		return
	}

	for _, entry := range entries {
		user, err := s.daysOff.UserOf(entry)
		if err != nil {
			log.Printf("Failed to resolve user %d for reminder: %v", entry.UserID, err)
			continue
		}

		managers, err := s.daysOff.ManagersOf(user.ID)
		if err != nil {
			log.Printf("Failed to resolve managers for user %d: %v", user.ID, err)
			continue
		}

		startStr := time.Time(entry.StartDate).Format("2006-01-02")
		endStr := time.Time(entry.EndDate).Format("2006-01-02")
		for _, m := range managers {
			s.mailer.Send(
				m.Email,
				fmt.Sprintf("Reminder: %s starts %s today", user.Name, entry.Type),
				fmt.Sprintf("User %s (%s) is off from %s to %s (%s).", user.Name, user.Email, startStr, endStr, entry.Type),
			)
		}
	}
}
