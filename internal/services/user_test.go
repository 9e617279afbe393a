package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/proplan-dev/proplan/internal/models"
	"github.com/proplan-dev/proplan/internal/types"
)

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewUserService(db)
	admin := seedUser(t, db, "Admin", "admin@test.dev", types.RoleAdmin)

	input := CreateUserInput{Name: "W", Email: "w@test.dev", Password: "secret1", Role: types.RoleWorker}
	if _, err := svc.Create(input, admin); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Same address with different case and padding still collides.
	input.Email = "  W@Test.Dev "
	_, err := svc.Create(input, admin)
	wantStatus(t, err, http.StatusConflict)
}

func TestManagerCanOnlyCreateWorkers(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewUserService(db)
	manager := seedUser(t, db, "M", "m@test.dev", types.RoleManager)

	_, err := svc.Create(CreateUserInput{Name: "A", Email: "a@test.dev", Password: "x", Role: types.RoleAdmin}, manager)
	wantStatus(t, err, http.StatusForbidden)

	_, err = svc.Create(CreateUserInput{Name: "M2", Email: "m2@test.dev", Password: "x", Role: types.RoleManager}, manager)
	wantStatus(t, err, http.StatusForbidden)

	created, err := svc.Create(CreateUserInput{Name: "W", Email: "w@test.dev", Password: "x", Role: types.RoleWorker}, manager)
	if err != nil {
		t.Fatalf("create worker: %v", err)
	}
	if created.Role != types.RoleWorker {
		t.Fatalf("expected Worker role, got %s", created.Role)
	}
}

func TestWorkerCannotCreateOrList(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewUserService(db)
	worker := seedUser(t, db, "W", "w@test.dev", types.RoleWorker)

	_, err := svc.Create(CreateUserInput{Name: "X", Email: "x@test.dev", Password: "x", Role: types.RoleWorker}, worker)
	wantStatus(t, err, http.StatusForbidden)

	_, err = svc.List(worker)
	wantStatus(t, err, http.StatusForbidden)
}

func TestUpdateRoleIsAdminOnly(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewUserService(db)
	admin := seedUser(t, db, "Admin", "admin@test.dev", types.RoleAdmin)
	manager := seedUser(t, db, "M", "m@test.dev", types.RoleManager)
	worker := seedUser(t, db, "W", "w@test.dev", types.RoleWorker)

	newRole := types.RoleManager
	_, err := svc.Update(worker.ID, UpdateUserInput{Role: &newRole}, manager)
	wantStatus(t, err, http.StatusForbidden)

	updated, err := svc.Update(worker.ID, UpdateUserInput{Role: &newRole}, admin)
	if err != nil {
		t.Fatalf("admin role change: %v", err)
	}
	if updated.Role != types.RoleManager {
		t.Fatalf("expected Manager, got %s", updated.Role)
	}
}

func TestWorkerUpdatesSelfOnly(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewUserService(db)
	worker := seedUser(t, db, "W", "w@test.dev", types.RoleWorker)
	other := seedUser(t, db, "O", "o@test.dev", types.RoleWorker)

	name := "Renamed"
	_, err := svc.Update(other.ID, UpdateUserInput{Name: &name}, worker)
	wantStatus(t, err, http.StatusForbidden)

	updated, err := svc.Update(worker.ID, UpdateUserInput{Name: &name}, worker)
	if err != nil {
		t.Fatalf("self update: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Fatalf("expected rename, got %q", updated.Name)
	}
}

func TestPasswordUpdateRehashes(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewUserService(db)
	admin := seedUser(t, db, "Admin", "admin@test.dev", types.RoleAdmin)

	created, err := svc.Create(CreateUserInput{Name: "W", Email: "w@test.dev", Password: "old-secret", Role: types.RoleWorker}, admin)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Authenticate("w@test.dev", "old-secret"); err != nil {
		t.Fatalf("authenticate old: %v", err)
	}

	newPassword := "new-secret"
	if _, err := svc.Update(created.ID, UpdateUserInput{Password: &newPassword}, admin); err != nil {
		t.Fatalf("update password: %v", err)
	}

	if _, err := svc.Authenticate("w@test.dev", "new-secret"); err != nil {
		t.Fatalf("authenticate new: %v", err)
	}
	_, err = svc.Authenticate("w@test.dev", "old-secret")
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestAuthenticateBadCredentials(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewUserService(db)

	_, err := svc.Authenticate("nobody@test.dev", "whatever")
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestDeleteUserCascadesLinks(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewUserService(db)
	projects := NewProjectService(db, nil, nil)
	tasks := NewTaskService(db, nil, nil)
	admin := seedUser(t, db, "Admin", "admin@test.dev", types.RoleAdmin)
	manager := seedUser(t, db, "M", "m@test.dev", types.RoleManager)
	worker := seedUser(t, db, "W", "w@test.dev", types.RoleWorker)
	project := seedProject(t, db, "Site A")
	task := seedTask(t, db, project.ID, "Pour foundation")

	if _, err := projects.AddWorker(project.ID, worker.ID, admin); err != nil {
		t.Fatalf("add worker: %v", err)
	}
	if _, err := tasks.AssignWorker(task.ID, worker.ID, admin); err != nil {
		t.Fatalf("assign: %v", err)
	}
	seedDayOff(t, db, worker.ID, types.DayOffHoliday, utcDate(2025, time.July, 1), utcDate(2025, time.July, 3))

	wantStatus(t, svc.Delete(worker.ID, manager), http.StatusForbidden)

	if err := svc.Delete(worker.ID, admin); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if n := countRows(t, db, &models.TaskWorker{}); n != 0 {
		t.Fatalf("expected task links gone, got %d", n)
	}
	if n := countRows(t, db, &models.ProjectWorker{}); n != 0 {
		t.Fatalf("expected memberships gone, got %d", n)
	}
	if n := countRows(t, db, &models.UserDayOff{}); n != 0 {
		t.Fatalf("expected day-off entries gone, got %d", n)
	}
	var gone models.User
	if err := db.Unscoped().First(&gone, worker.ID).Error; err == nil {
		t.Fatalf("expected user row gone, found %+v", gone)
	}
}

func TestWorkerGetSelfOnly(t *testing.T) {
	db := setupTestDB(t, t.Name())
	svc := NewUserService(db)
	worker := seedUser(t, db, "W", "w@test.dev", types.RoleWorker)
	other := seedUser(t, db, "O", "o@test.dev", types.RoleWorker)

	if _, err := svc.Get(worker.ID, worker); err != nil {
		t.Fatalf("get self: %v", err)
	}
	_, err := svc.Get(other.ID, worker)
	wantStatus(t, err, http.StatusForbidden)
}
