package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/proplan-dev/proplan/internal/models"
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
		&models.Task{},
		&models.ProjectWorker{},
		&models.TaskWorker{},
		&models.UserDayOff{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, email string, role types.Role) models.User {
	t.Helper()
	u := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		Availability: types.AvailabilityFree,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func seedProject(t *testing.T, db *gorm.DB, name string) models.Project {
	t.Helper()
	p := models.Project{Name: name, Status: types.ProjectStarted}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed project %s: %v", name, err)
	}
	return p
}

func seedTask(t *testing.T, db *gorm.DB, projectID uint, name string) models.Task {
	t.Helper()
	task := models.Task{Name: name, ProjectID: projectID, Status: types.TaskOpen}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("seed task %s: %v", name, err)
	}
	return task
}

func seedMembership(t *testing.T, db *gorm.DB, projectID, userID uint) {
	t.Helper()
	link := models.ProjectWorker{ProjectID: projectID, UserID: userID}
	if err := db.Create(&link).Error; err != nil {
		t.Fatalf("seed membership: %v", err)
	}
}

func seedDayOff(t *testing.T, db *gorm.DB, userID uint, typ types.DayOffType, start, end time.Time) models.UserDayOff {
	t.Helper()
	entry := models.UserDayOff{
		UserID:    userID,
		Type:      typ,
		StartDate: datatypes.Date(start),
		EndDate:   datatypes.Date(end),
	}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("seed day off: %v", err)
	}
	return entry
}

func utcDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", status)
	}
	if got := StatusOf(err); got != status {
		t.Fatalf("expected status %d, got %d (%v)", status, got, err)
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
