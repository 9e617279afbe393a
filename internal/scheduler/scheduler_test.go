package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/proplan-dev/proplan/internal/models"
	"github.com/proplan-dev/proplan/internal/services"
	"github.com/proplan-dev/proplan/internal/types"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T, name string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectWorker{},
		&models.UserDayOff{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestStartRejectsBadHour(t *testing.T) {
	s := New(nil, nil)
	if err := s.Start(-1); err == nil {
		t.Fatalf("expected error for hour -1")
	}
	if err := s.Start(24); err == nil {
		t.Fatalf("expected error for hour 24")
	}
}

func TestSendStartReminders(t *testing.T) {
	db := setupTestDB(t, t.Name())
	daysOff := services.NewDayOffService(db, nil)

	manager := models.User{Name: "M", Email: "m@test.dev", PasswordHash: "x", Role: types.RoleManager, Availability: types.AvailabilityFree}
	worker := models.User{Name: "W", Email: "w@test.dev", PasswordHash: "x", Role: types.RoleWorker, Availability: types.AvailabilityFree}
	for _, u := range []*models.User{&manager, &worker} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	project := models.Project{Name: "Site A", Status: types.ProjectStarted, ManagerID: &manager.ID}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	if err := db.Create(&models.ProjectWorker{ProjectID: project.ID, UserID: worker.ID}).Error; err != nil {
		t.Fatalf("seed membership: %v", err)
	}

	today := time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC)
	entry := models.UserDayOff{
		UserID:    worker.ID,
		Type:      types.DayOffHoliday,
		StartDate: datatypes.Date(today),
		EndDate:   datatypes.Date(today.AddDate(0, 0, 2)),
	}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("seed day off: %v", err)
	}

	s := New(daysOff, nil)
	s.now = func() time.Time { return today }

	// Walks the full entry -> user -> managers chain without a relay
	// configured; the job must complete without error or panic.
	s.SendStartReminders()

	entries, err := daysOff.StartingToday(today)
	if err != nil {
		t.Fatalf("starting today: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	managers, err := daysOff.ManagersOf(worker.ID)
	if err != nil {
		t.Fatalf("managers of: %v", err)
	}
	if len(managers) != 1 || managers[0].ID != manager.ID {
		t.Fatalf("expected the project manager, got %+v", managers)
	}
}
