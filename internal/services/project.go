package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/proplan-dev/proplan/internal/events"
	"github.com/proplan-dev/proplan/internal/models"
	"github.com/proplan-dev/proplan/internal/notify"
	"github.com/proplan-dev/proplan/internal/types"
	"gorm.io/gorm"
)

// ProjectService owns the project lifecycle: the Started -> Ongoing ->
// Finished state machine, manager assignment and worker membership.
type ProjectService struct {
	db     *gorm.DB
	mailer *notify.Mailer
	hub    *events.Hub
}

func NewProjectService(db *gorm.DB, mailer *notify.Mailer, hub *events.Hub) *ProjectService {
	return &ProjectService{db: db, mailer: mailer, hub: hub}
}

type CreateProjectInput struct {
	Name        string
	Description string
	StartTime   *time.Time
	EndTime     *time.Time
}

type UpdateProjectInput struct {
	Name        *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	Status      *types.ProjectStatus
}

func (s *ProjectService) List(requester models.User) ([]models.Project, error) {
	if requester.Role == types.RoleWorker {
		return nil, forbidden("Workers cannot access projects")
	}

	var projects []models.Project
	if err := s.db.Order("id").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *ProjectService) Get(projectID uint, requester models.User) (models.Project, error) {
	if requester.Role == types.RoleWorker {
		return models.Project{}, forbidden("Workers cannot access projects")
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Project{}, notFound("Project not found")
		}
		return models.Project{}, err
	}
	return project, nil
}

func (s *ProjectService) Create(input CreateProjectInput, requester models.User) (models.Project, error) {
	if requester.Role == types.RoleWorker {
		return models.Project{}, forbidden("Not allowed")
	}

	project := models.Project{
		Name:        input.Name,
		Description: input.Description,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Status:      types.ProjectStarted,
	}

	if err := s.db.Create(&project).Error; err != nil {
		return models.Project{}, err
	}

	return project, nil
}

func (s *ProjectService) Update(projectID uint, input UpdateProjectInput, requester models.User) (models.Project, error) {
	if requester.Role == types.RoleWorker {
		return models.Project{}, forbidden("Not allowed")
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Project{}, notFound("Project not found")
		}
		return models.Project{}, err
	}

	// Finished is terminal.
	if input.Status != nil && project.Status == types.ProjectFinished && *input.Status != types.ProjectFinished {
		return models.Project{}, badRequest("Cannot move a Finished project back to another state")
	}

	if input.Status != nil && !input.Status.Valid() {
		return models.Project{}, badRequest("Invalid status")
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.StartTime != nil {
		project.StartTime = input.StartTime
	}
	if input.EndTime != nil {
		project.EndTime = input.EndTime
	}
	if input.Status != nil {
		project.Status = *input.Status
	}

	if err := s.db.Save(&project).Error; err != nil {
		return models.Project{}, err
	}

	return project, nil
}

func (s *ProjectService) Delete(projectID uint, requester models.User) error {
	if requester.Role == types.RoleWorker {
		return forbidden("Not allowed")
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Project not found")
		}
		return err
	}

	var taskIDs []uint
	if err := s.db.Model(&models.Task{}).Where("project_id = ?", project.ID).Pluck("id", &taskIDs).Error; err != nil {
		return err
	}
	if len(taskIDs) > 0 {
		if err := s.db.Where("task_id IN ?", taskIDs).Delete(&models.TaskWorker{}).Error; err != nil {
			return err
		}
		if err := s.db.Unscoped().Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return err
		}
	}
	if err := s.db.Where("project_id = ?", project.ID).Delete(&models.ProjectWorker{}).Error; err != nil {
		return err
	}

	return s.db.Unscoped().Delete(&project).Error
}

// AssignManager sets the project's manager and makes sure the manager
// also holds project membership.
func (s *ProjectService) AssignManager(projectID, managerID uint, requester models.User) error {
	if requester.Role == types.RoleWorker {
		return forbidden("Not allowed")
	}

	var project models.Project
	var manager models.User
	projectErr := s.db.First(&project, projectID).Error
	managerErr := s.db.First(&manager, managerID).Error
	if errors.Is(projectErr, gorm.ErrRecordNotFound) || errors.Is(managerErr, gorm.ErrRecordNotFound) {
		return notFound("Project or Manager not found")
	}
	if projectErr != nil {
		return projectErr
	}
	if managerErr != nil {
		return managerErr
	}

	if manager.Role != types.RoleManager {
		return badRequest("User is not a Manager")
	}

	project.ManagerID = &manager.ID
	if err := s.db.Save(&project).Error; err != nil {
		return err
	}

	var existing models.ProjectWorker
	err := s.db.Where("project_id = ? AND user_id = ?", project.ID, manager.ID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		link := models.ProjectWorker{ProjectID: project.ID, UserID: manager.ID}
		if err := s.db.Create(&link).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	s.mailer.Send(
		manager.Email,
		fmt.Sprintf("You are manager of project '%s'", project.Name),
		fmt.Sprintf("Hello %s,\n\nYou have been assigned as manager of project '%s'.", manager.Name, project.Name),
	)

	return nil
}

// RemoveManager detaches the manager unless the project is Ongoing.
func (s *ProjectService) RemoveManager(projectID uint, requester models.User) error {
	if requester.Role == types.RoleWorker {
		return forbidden("Not allowed")
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Project not found")
		}
		return err
	}

	if project.Status == types.ProjectOngoing {
		return badRequest("Cannot remove Manager while Project is Ongoing")
	}

	project.ManagerID = nil
	return s.db.Save(&project).Error
}

// AddWorker creates the membership link; re-adding an existing member
// succeeds with a note instead of erroring.
func (s *ProjectService) AddWorker(projectID, workerID uint, requester models.User) (string, error) {
	if requester.Role != types.RoleAdmin && requester.Role != types.RoleManager {
		return "", forbidden("Not allowed")
	}

	var project models.Project
	var worker models.User
	projectErr := s.db.First(&project, projectID).Error
	workerErr := s.db.First(&worker, workerID).Error
	if errors.Is(projectErr, gorm.ErrRecordNotFound) || errors.Is(workerErr, gorm.ErrRecordNotFound) {
		return "", notFound("Project or Worker not found")
	}
	if projectErr != nil {
		return "", projectErr
	}
	if workerErr != nil {
		return "", workerErr
	}

	if worker.Role != types.RoleWorker {
		return "", badRequest("Only users with role Worker can be added to a project")
	}

	var existing models.ProjectWorker
	err := s.db.Where("project_id = ? AND user_id = ?", project.ID, worker.ID).First(&existing).Error
	if err == nil {
		return "Worker already in project", nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	link := models.ProjectWorker{ProjectID: project.ID, UserID: worker.ID}
	if err := s.db.Create(&link).Error; err != nil {
		return "", err
	}

	s.mailer.Send(
		worker.Email,
		fmt.Sprintf("Added to project '%s'", project.Name),
		fmt.Sprintf("Hello %s,\n\nYou have been added to project '%s'.", worker.Name, project.Name),
	)

	s.hub.Broadcast(map[string]string{
		"type":       "project_member_added",
		"project_id": strconv.FormatUint(uint64(project.ID), 10),
		"worker_id":  strconv.FormatUint(uint64(worker.ID), 10),
	})

	return "Worker assigned to project", nil
}

// RemoveWorker is idempotent; a missing link is not an error.
func (s *ProjectService) RemoveWorker(projectID, workerID uint, requester models.User) (string, error) {
	if requester.Role != types.RoleAdmin && requester.Role != types.RoleManager {
		return "", forbidden("Not allowed")
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", notFound("Project not found")
		}
		return "", err
	}

	var link models.ProjectWorker
	err := s.db.Where("project_id = ? AND user_id = ?", projectID, workerID).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "Worker not in project", nil
	}
	if err != nil {
		return "", err
	}

	if err := s.db.Where("project_id = ? AND user_id = ?", projectID, workerID).Delete(&models.ProjectWorker{}).Error; err != nil {
		return "", err
	}

	return "Worker removed from project", nil
}
