package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/proplan-dev/proplan/internal/models"
	"github.com/proplan-dev/proplan/internal/services"
	"github.com/proplan-dev/proplan/internal/types"
	"github.com/proplan-dev/proplan/internal/utils"
)

type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

type CreateTaskRequest struct {
	Name      string     `json:"name" binding:"required"`
	ProjectID uint       `json:"project_id" binding:"required"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Details   string     `json:"details"`
}

type UpdateTaskRequest struct {
	Name      *string           `json:"name"`
	StartTime *time.Time        `json:"start_time"`
	EndTime   *time.Time        `json:"end_time"`
	Status    *types.TaskStatus `json:"status"`
	Details   *string           `json:"details"`
}

type ReassignWorkerRequest struct {
	OldWorkerID uint `json:"old_worker_id" binding:"required"`
	NewWorkerID uint `json:"new_worker_id" binding:"required"`
}

type TaskResponse struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name"`
	StartTime *time.Time       `json:"start_time"`
	EndTime   *time.Time       `json:"end_time"`
	Status    types.TaskStatus `json:"status"`
	Details   string           `json:"details"`
	ProjectID uint             `json:"project_id"`
}

func taskResponse(task models.Task) TaskResponse {
	return TaskResponse{
		ID:        task.ID,
		Name:      task.Name,
		StartTime: task.StartTime,
		EndTime:   task.EndTime,
		Status:    task.Status,
		Details:   task.Details,
		ProjectID: task.ProjectID,
	}
}

func (h *TaskHandler) List(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	tasks, err := h.tasks.List(currentUser)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		response = append(response, taskResponse(task))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *TaskHandler) Get(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	taskID, ok := paramID(ctx, "task_id")
	if !ok {
		return
	}

	task, err := h.tasks.Get(taskID, currentUser)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, taskResponse(task))
}

func (h *TaskHandler) Create(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if currentUser.Role == types.RoleWorker {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	var body CreateTaskRequest
	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.tasks.Create(services.CreateTaskInput{
		Name:      body.Name,
		ProjectID: body.ProjectID,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		Details:   body.Details,
	}, currentUser)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, taskResponse(task))
}

func (h *TaskHandler) Update(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if currentUser.Role == types.RoleWorker {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	taskID, ok := paramID(ctx, "task_id")
	if !ok {
		return
	}

	var body UpdateTaskRequest
	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := h.tasks.Update(taskID, services.UpdateTaskInput{
		Name:      body.Name,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		Status:    body.Status,
		Details:   body.Details,
	}, currentUser)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, taskResponse(task))
}

func (h *TaskHandler) Delete(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if currentUser.Role == types.RoleWorker {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	taskID, ok := paramID(ctx, "task_id")
	if !ok {
		return
	}

	if err := h.tasks.Delete(taskID, currentUser); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (h *TaskHandler) AssignWorker(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if currentUser.Role == types.RoleWorker {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	taskID, ok := paramID(ctx, "task_id")
	if !ok {
		return
	}
	workerID, ok := paramID(ctx, "user_id")
	if !ok {
		return
	}

	note, err := h.tasks.AssignWorker(taskID, workerID, currentUser)
	if err != nil {
		respondError(ctx, err)
		return
	}

	if note != "" {
		ctx.JSON(http.StatusOK, gin.H{"ok": true, "note": note})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *TaskHandler) RemoveWorker(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if currentUser.Role == types.RoleWorker {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	taskID, ok := paramID(ctx, "task_id")
	if !ok {
		return
	}
	workerID, ok := paramID(ctx, "user_id")
	if !ok {
		return
	}

	if err := h.tasks.RemoveWorker(taskID, workerID, currentUser); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *TaskHandler) ReassignWorker(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if currentUser.Role == types.RoleWorker {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	taskID, ok := paramID(ctx, "task_id")
	if !ok {
		return
	}

	var body ReassignWorkerRequest
	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	note, err := h.tasks.ReassignWorker(taskID, body.OldWorkerID, body.NewWorkerID, currentUser)
	if err != nil {
		respondError(ctx, err)
		return
	}

	if note != "" {
		ctx.JSON(http.StatusOK, gin.H{"ok": true, "note": note})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
