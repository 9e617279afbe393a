package main

import (
	"errors"
	"fmt"

	"github.com/proplan-dev/proplan/internal/auth"
	"github.com/proplan-dev/proplan/internal/models"
	"github.com/proplan-dev/proplan/internal/types"
	"gorm.io/gorm"
)

// seed creates a demo data set: an admin, a manager, five workers and
// a project with open tasks. Existing rows are left alone so the
// command can run repeatedly.
func seed(database *gorm.DB) error {
	if _, err := ensureUser(database, "Admin", "admin@example.com", "admin123", types.RoleAdmin); err != nil {
		return err
	}

	manager, err := ensureUser(database, "Manager Mike", "manager@example.com", "manager123", types.RoleManager)
	if err != nil {
		return err
	}

	var workers []models.User
	for i := 1; i <= 5; i++ {
		worker, err := ensureUser(
			database,
			fmt.Sprintf("Worker %d", i),
			fmt.Sprintf("worker%d@example.com", i),
			"worker123",
			types.RoleWorker,
		)
		if err != nil {
			return err
		}
		workers = append(workers, worker)
	}

	var project models.Project
	err = database.Where("name = ?", "Building site industrial zone - IGH").First(&project).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	project = models.Project{
		Name:        "Building site industrial zone - IGH",
		Description: "Contract with IGH for industrial building",
		Status:      types.ProjectStarted,
		ManagerID:   &manager.ID,
	}
	if err := database.Create(&project).Error; err != nil {
		return err
	}

	// The manager is also a member of the project.
	if err := database.Create(&models.ProjectWorker{ProjectID: project.ID, UserID: manager.ID}).Error; err != nil {
		return err
	}

	taskNames := []struct {
		name    string
		details string
	}{
		{"Building site - first visit", "Visit and preview of building site"},
		{"Mobile office", "Transport and set up mobile home on building site"},
		{"Initial excavation", "Per project start excavation"},
	}

	var tasks []models.Task
	for _, t := range taskNames {
		task := models.Task{
			Name:      t.name,
			Details:   t.details,
			ProjectID: project.ID,
			Status:    types.TaskOpen,
		}
		if err := database.Create(&task).Error; err != nil {
			return err
		}
		tasks = append(tasks, task)
	}

	if len(workers) > 0 {
		if err := database.Create(&models.ProjectWorker{ProjectID: project.ID, UserID: workers[0].ID}).Error; err != nil {
			return err
		}
		if err := database.Create(&models.TaskWorker{TaskID: tasks[0].ID, UserID: workers[0].ID}).Error; err != nil {
			return err
		}
	}

	return nil
}

func ensureUser(database *gorm.DB, name, email, password string, role types.Role) (models.User, error) {
	var existing models.User
	err := database.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Availability: types.AvailabilityFree,
	}
	if err := database.Create(&user).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}
