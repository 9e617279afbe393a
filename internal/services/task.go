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

// TaskService owns the task lifecycle: the Open -> In Progress -> Done
// state machine and the worker-assignment rules.
type TaskService struct {
	db     *gorm.DB
	mailer *notify.Mailer
	hub    *events.Hub
	now    func() time.Time
}

func NewTaskService(db *gorm.DB, mailer *notify.Mailer, hub *events.Hub) *TaskService {
	return &TaskService{db: db, mailer: mailer, hub: hub, now: time.Now}
}

type CreateTaskInput struct {
	Name      string
	ProjectID uint
	StartTime *time.Time
	EndTime   *time.Time
	Details   string
}

type UpdateTaskInput struct {
	Name      *string
	StartTime *time.Time
	EndTime   *time.Time
	Status    *types.TaskStatus
	Details   *string
}

func (s *TaskService) List(requester models.User) ([]models.Task, error) {
	var tasks []models.Task

	if requester.Role == types.RoleWorker {
		err := s.db.
			Joins("JOIN task_workers ON task_workers.task_id = tasks.id").
			Where("task_workers.user_id = ?", requester.ID).
			Order("tasks.id").
			Find(&tasks).Error
		return tasks, err
	}

	if err := s.db.Order("id").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskService) Get(taskID uint, requester models.User) (models.Task, error) {
	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, notFound("Task not found")
		}
		return models.Task{}, err
	}

	if requester.Role == types.RoleWorker {
		var link models.TaskWorker
		err := s.db.Where("task_id = ? AND user_id = ?", taskID, requester.ID).First(&link).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, forbidden("Not allowed")
		}
		if err != nil {
			return models.Task{}, err
		}
	}

	return task, nil
}

func (s *TaskService) Create(input CreateTaskInput, requester models.User) (models.Task, error) {
	if requester.Role == types.RoleWorker {
		return models.Task{}, forbidden("Not allowed")
	}

	var project models.Project
	if err := s.db.First(&project, input.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, notFound("Project not found")
		}
		return models.Task{}, err
	}

	task := models.Task{
		Name:      input.Name,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		Details:   input.Details,
		ProjectID: input.ProjectID,
		Status:    types.TaskOpen,
	}

	if err := s.db.Create(&task).Error; err != nil {
		return models.Task{}, err
	}

	return task, nil
}

func (s *TaskService) Update(taskID uint, input UpdateTaskInput, requester models.User) (models.Task, error) {
	if requester.Role == types.RoleWorker {
		return models.Task{}, forbidden("Not allowed")
	}

	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Task{}, notFound("Task not found")
		}
		return models.Task{}, err
	}

	// Done is terminal.
	if input.Status != nil && task.Status == types.TaskDone && *input.Status != types.TaskDone {
		return models.Task{}, badRequest("Cannot move a Done task back to another state")
	}

	if input.Status != nil && !input.Status.Valid() {
		return models.Task{}, badRequest("Invalid status")
	}

	if input.Name != nil {
		task.Name = *input.Name
	}
	if input.StartTime != nil {
		task.StartTime = input.StartTime
	}
	if input.EndTime != nil {
		task.EndTime = input.EndTime
	}
	if input.Status != nil {
		task.Status = *input.Status
	}
	if input.Details != nil {
		task.Details = *input.Details
	}

	if err := s.db.Save(&task).Error; err != nil {
		return models.Task{}, err
	}

	return task, nil
}

func (s *TaskService) Delete(taskID uint, requester models.User) error {
	if requester.Role == types.RoleWorker {
		return forbidden("Not allowed")
	}

	var task models.Task
	if err := s.db.First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Task not found")
		}
		return err
	}

	if err := s.db.Where("task_id = ?", task.ID).Delete(&models.TaskWorker{}).Error; err != nil {
		return err
	}

	return s.db.Unscoped().Delete(&task).Error
}

// AssignWorker links a worker to a task after the full check sequence:
// both rows exist, the worker is already a member of the task's
// project, holds no other task assignment anywhere, and is not on
// leave today. Re-assigning an existing link is a no-op with a note.
func (s *TaskService) AssignWorker(taskID, workerID uint, requester models.User) (string, error) {
	if requester.Role == types.RoleWorker {
		return "", forbidden("Not allowed")
	}

	var task models.Task
	var worker models.User
	taskErr := s.db.First(&task, taskID).Error
	workerErr := s.db.First(&worker, workerID).Error
	if errors.Is(taskErr, gorm.ErrRecordNotFound) || errors.Is(workerErr, gorm.ErrRecordNotFound) {
		return "", notFound("Task or Worker not found")
	}
	if taskErr != nil {
		return "", taskErr
	}
	if workerErr != nil {
		return "", workerErr
	}

	var membership models.ProjectWorker
	err := s.db.Where("project_id = ? AND user_id = ?", task.ProjectID, worker.ID).First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", badRequest("Worker must be part of the Project first")
	}
	if err != nil {
		return "", err
	}

	// One active assignment per worker across the whole system.
	var other models.TaskWorker
	err = s.db.Where("user_id = ? AND task_id <> ?", worker.ID, task.ID).First(&other).Error
	if err == nil {
		return "", badRequest("Worker is already assigned to another task")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	onLeave, err := s.onLeaveToday(worker.ID)
	if err != nil {
		return "", err
	}
	if onLeave {
		return "", badRequest("Worker is currently on leave and cannot be assigned")
	}

	var existing models.TaskWorker
	err = s.db.Where("task_id = ? AND user_id = ?", task.ID, worker.ID).First(&existing).Error
	if err == nil {
		return "Already assigned", nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	link := models.TaskWorker{TaskID: task.ID, UserID: worker.ID}
	if err := s.db.Create(&link).Error; err != nil {
		return "", err
	}

	s.mailer.Send(
		worker.Email,
		fmt.Sprintf("You were assigned to task '%s'", task.Name),
		fmt.Sprintf("Hello %s,\n\nYou have been assigned to task '%s' in project ID %d.", worker.Name, task.Name, task.ProjectID),
	)

	s.hub.Broadcast(map[string]string{
		"type":      "task_assigned",
		"task_id":   strconv.FormatUint(uint64(task.ID), 10),
		"worker_id": strconv.FormatUint(uint64(worker.ID), 10),
	})

	return "", nil
}

// RemoveWorker is idempotent; a missing link is not an error.
func (s *TaskService) RemoveWorker(taskID, workerID uint, requester models.User) error {
	if requester.Role == types.RoleWorker {
		return forbidden("Not allowed")
	}

	return s.db.Where("task_id = ? AND user_id = ?", taskID, workerID).Delete(&models.TaskWorker{}).Error
}

// ReassignWorker removes the old link, then runs the full assignment
// checks for the new worker. The two steps commit independently: when
// the assign step is rejected the old link stays removed.
func (s *TaskService) ReassignWorker(taskID, oldWorkerID, newWorkerID uint, requester models.User) (string, error) {
	if err := s.RemoveWorker(taskID, oldWorkerID, requester); err != nil {
		return "", err
	}
	return s.AssignWorker(taskID, newWorkerID, requester)
}

func (s *TaskService) onLeaveToday(userID uint) (bool, error) {
	today := dateOnly(s.now())

	var entry models.UserDayOff
	err := s.db.Where("user_id = ? AND start_date <= ? AND end_date >= ?", userID, today, today).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func dateOnly(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
