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

type DayOffHandler struct {
	daysOff *services.DayOffService
}

func NewDayOffHandler(daysOff *services.DayOffService) *DayOffHandler {
	return &DayOffHandler{daysOff: daysOff}
}

const dateLayout = "2006-01-02"

type CreateDayOffRequest struct {
	Type      types.DayOffType `json:"type" binding:"required"`
	StartDate string           `json:"start_date" binding:"required"`
	EndDate   string           `json:"end_date" binding:"required"`
}

type DayOffResponse struct {
	ID        uint             `json:"id"`
	UserID    uint             `json:"user_id"`
	Type      types.DayOffType `json:"type"`
	StartDate string           `json:"start_date"`
	EndDate   string           `json:"end_date"`
}

func dayOffResponse(entry models.UserDayOff) DayOffResponse {
	return DayOffResponse{
		ID:        entry.ID,
		UserID:    entry.UserID,
		Type:      entry.Type,
		StartDate: time.Time(entry.StartDate).Format(dateLayout),
		EndDate:   time.Time(entry.EndDate).Format(dateLayout),
	}
}

func dayOffResponses(entries []models.UserDayOff) []DayOffResponse {
	response := make([]DayOffResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, dayOffResponse(entry))
	}
	return response
}

func (h *DayOffHandler) Create(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateDayOffRequest
	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	start, err := time.Parse(dateLayout, body.StartDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
		return
	}
	end, err := time.Parse(dateLayout, body.EndDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "end_date must be YYYY-MM-DD"})
		return
	}

	entry, err := h.daysOff.Create(currentUser, body.Type, start, end)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dayOffResponse(entry))
}

func (h *DayOffHandler) ListMine(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	entries, err := h.daysOff.ListMine(currentUser)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dayOffResponses(entries))
}

func (h *DayOffHandler) ListForUser(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userID, ok := paramID(ctx, "user_id")
	if !ok {
		return
	}

	entries, err := h.daysOff.ListForUser(userID, currentUser)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dayOffResponses(entries))
}

func (h *DayOffHandler) ListForProject(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if currentUser.Role == types.RoleWorker {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	projectID, ok := paramID(ctx, "project_id")
	if !ok {
		return
	}

	entries, err := h.daysOff.ListForProject(projectID, currentUser)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dayOffResponses(entries))
}

func (h *DayOffHandler) Delete(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	entryID, ok := paramID(ctx, "entry_id")
	if !ok {
		return
	}

	if err := h.daysOff.Delete(entryID, currentUser); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}
