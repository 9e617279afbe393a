package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/proplan-dev/proplan/internal/models"
	"github.com/proplan-dev/proplan/internal/services"
	"github.com/proplan-dev/proplan/internal/types"
	"github.com/proplan-dev/proplan/internal/utils"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type CreateUserRequest struct {
	Name         string             `json:"name" binding:"required"`
	Email        string             `json:"email" binding:"required,email"`
	Password     string             `json:"password" binding:"required,min=8"`
	Availability types.Availability `json:"availability"`
	Role         types.Role         `json:"role"`
}

type UpdateUserRequest struct {
	Name         *string             `json:"name"`
	Availability *types.Availability `json:"availability"`
	Role         *types.Role         `json:"role"`
	Password     *string             `json:"password" binding:"omitempty,min=8"`
}

func userResponse(user models.User) types.UserResponse {
	return types.UserResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		Role:         user.Role,
		Availability: user.Availability,
	}
}

func (h *UserHandler) Create(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if currentUser.Role == types.RoleWorker {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	var body CreateUserRequest
	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.Role == "" {
		body.Role = types.RoleWorker
	}
	if !body.Role.Valid() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}
	if body.Availability == "" {
		body.Availability = types.AvailabilityFree
	}
	if !body.Availability.Valid() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid availability"})
		return
	}

	user, err := h.users.Create(services.CreateUserInput{
		Name:         body.Name,
		Email:        body.Email,
		Password:     body.Password,
		Availability: body.Availability,
		Role:         body.Role,
	}, currentUser)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, userResponse(user))
}

func (h *UserHandler) List(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if currentUser.Role == types.RoleWorker {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	users, err := h.users.List(currentUser)
	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]types.UserResponse, 0, len(users))
	for _, user := range users {
		response = append(response, userResponse(user))
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *UserHandler) Get(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userID, ok := paramID(ctx, "user_id")
	if !ok {
		return
	}

	user, err := h.users.Get(userID, currentUser)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, userResponse(user))
}

func (h *UserHandler) Update(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userID, ok := paramID(ctx, "user_id")
	if !ok {
		return
	}

	var body UpdateUserRequest
	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := h.users.Update(userID, services.UpdateUserInput{
		Name:         body.Name,
		Availability: body.Availability,
		Role:         body.Role,
		Password:     body.Password,
	}, currentUser)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, userResponse(user))
}

func (h *UserHandler) Delete(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if currentUser.Role != types.RoleAdmin {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only Admins can delete users"})
		return
	}

	userID, ok := paramID(ctx, "user_id")
	if !ok {
		return
	}

	if err := h.users.Delete(userID, currentUser); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
