package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/proplan-dev/proplan/internal/models"
	"github.com/proplan-dev/proplan/internal/types"
)

func TestDayOffCreateValidation(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewDayOffService(db, nil)
	worker := seedUser(t, db, "W", "w@test.dev", types.RoleWorker)

	_, err := svc.Create(worker, types.DayOffType("Vacation"), utcDate(2025, time.July, 1), utcDate(2025, time.July, 2))
	wantStatus(t, err, http.StatusBadRequest)

	_, err = svc.Create(worker, types.DayOffHoliday, utcDate(2025, time.July, 5), utcDate(2025, time.July, 1))
	wantStatus(t, err, http.StatusBadRequest)

	entry, err := svc.Create(worker, types.DayOffHoliday, utcDate(2025, time.July, 1), utcDate(2025, time.July, 5))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if entry.ID == 0 {
		t.Fatalf("expected persisted entry")
	}

	// A single-day entry is legal.
	if _, err := svc.Create(worker, types.DayOffSickLeave, utcDate(2025, time.August, 1), utcDate(2025, time.August, 1)); err != nil {
		t.Fatalf("single day: %v", err)
	}
}

func TestDayOffDeleteRules(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewDayOffService(db, nil)
	today := utcDate(2025, time.June, 16)
	svc.now = func() time.Time { return today }

	admin := seedUser(t, db, "Admin", "admin@test.dev", types.RoleAdmin)
	worker := seedUser(t, db, "W", "w@test.dev", types.RoleWorker)
	other := seedUser(t, db, "O", "o@test.dev", types.RoleWorker)

	upcoming := seedDayOff(t, db, worker.ID, types.DayOffHoliday, utcDate(2025, time.June, 20), utcDate(2025, time.June, 22))
	past := seedDayOff(t, db, worker.ID, types.DayOffHoliday, utcDate(2025, time.June, 1), utcDate(2025, time.June, 3))

	wantStatus(t, svc.Delete(upcoming.ID, other), http.StatusForbidden)
	wantStatus(t, svc.Delete(past.ID, worker), http.StatusBadRequest)

	if err := svc.Delete(upcoming.ID, worker); err != nil {
		t.Fatalf("delete own upcoming: %v", err)
	}
	if err := svc.Delete(past.ID, admin); err != nil {
		t.Fatalf("admin delete past: %v", err)
	}

	if n := countRows(t, db, &models.UserDayOff{}); n != 0 {
		t.Fatalf("expected all entries gone, got %d", n)
	}
}

func TestDayOffListForProject(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewDayOffService(db, nil)
	manager := seedUser(t, db, "M", "m@test.dev", types.RoleManager)
	worker := seedUser(t, db, "W", "w@test.dev", types.RoleWorker)
	outsider := seedUser(t, db, "O", "o@test.dev", types.RoleWorker)
	project := seedProject(t, db, "Site A")
	seedMembership(t, db, project.ID, worker.ID)

	seedDayOff(t, db, worker.ID, types.DayOffHoliday, utcDate(2025, time.July, 1), utcDate(2025, time.July, 2))
	seedDayOff(t, db, outsider.ID, types.DayOffHoliday, utcDate(2025, time.July, 1), utcDate(2025, time.July, 2))

	entries, err := svc.ListForProject(project.ID, manager)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].UserID != worker.ID {
		t.Fatalf("expected only member entries, got %+v", entries)
	}

	_, err = svc.ListForProject(project.ID, worker)
	wantStatus(t, err, http.StatusForbidden)

	_, err = svc.ListForProject(9999, manager)
	wantStatus(t, err, http.StatusNotFound)
}

func TestDayOffListForUser(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewDayOffService(db, nil)
	manager := seedUser(t, db, "M", "m@test.dev", types.RoleManager)
	worker := seedUser(t, db, "W", "w@test.dev", types.RoleWorker)
	other := seedUser(t, db, "O", "o@test.dev", types.RoleWorker)

	seedDayOff(t, db, worker.ID, types.DayOffHoliday, utcDate(2025, time.July, 1), utcDate(2025, time.July, 2))

	if _, err := svc.ListForUser(worker.ID, manager); err != nil {
		t.Fatalf("manager list: %v", err)
	}
	if _, err := svc.ListForUser(worker.ID, worker); err != nil {
		t.Fatalf("own list: %v", err)
	}
	_, err := svc.ListForUser(worker.ID, other)
	wantStatus(t, err, http.StatusForbidden)
}

func TestStartingToday(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewDayOffService(db, nil)
	worker := seedUser(t, db, "W", "w@test.dev", types.RoleWorker)
	today := utcDate(2025, time.June, 16)

	starts := seedDayOff(t, db, worker.ID, types.DayOffHoliday, today, utcDate(2025, time.June, 18))
	seedDayOff(t, db, worker.ID, types.DayOffSickLeave, utcDate(2025, time.June, 10), utcDate(2025, time.June, 12))
	seedDayOff(t, db, worker.ID, types.DayOffRegular, utcDate(2025, time.June, 20), utcDate(2025, time.June, 20))

	entries, err := svc.StartingToday(today)
	if err != nil {
		t.Fatalf("starting today: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != starts.ID {
		t.Fatalf("expected the entry starting today, got %+v", entries)
	}
}

func TestManagersOfDeduplicates(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewDayOffService(db, nil)
	manager := seedUser(t, db, "M", "m@test.dev", types.RoleManager)
	second := seedUser(t, db, "M2", "m2@test.dev", types.RoleManager)
	worker := seedUser(t, db, "W", "w@test.dev", types.RoleWorker)

	// The same manager runs two of the worker's projects; a third has
	// no manager at all.
	first := seedProject(t, db, "Site A")
	repeat := seedProject(t, db, "Site B")
	orphan := seedProject(t, db, "Site C")
	other := seedProject(t, db, "Site D")
	for _, p := range []models.Project{first, repeat, orphan, other} {
		seedMembership(t, db, p.ID, worker.ID)
	}
	if err := db.Model(&models.Project{}).Where("id IN ?", []uint{first.ID, repeat.ID}).Update("manager_id", manager.ID).Error; err != nil {
		t.Fatalf("set manager: %v", err)
	}
	if err := db.Model(&models.Project{}).Where("id = ?", other.ID).Update("manager_id", second.ID).Error; err != nil {
		t.Fatalf("set manager: %v", err)
	}

	managers, err := svc.ManagersOf(worker.ID)
	if err != nil {
		t.Fatalf("managers of: %v", err)
	}
	if len(managers) != 2 {
		t.Fatalf("expected 2 distinct managers, got %d", len(managers))
	}
	seen := map[uint]bool{}
	for _, m := range managers {
		seen[m.ID] = true
	}
	if !seen[manager.ID] || !seen[second.ID] {
		t.Fatalf("unexpected manager set %+v", managers)
	}
}
