package services

import (
	"errors"
	"strings"

	"github.com/proplan-dev/proplan/internal/auth"
	"github.com/proplan-dev/proplan/internal/models"
	"github.com/proplan-dev/proplan/internal/types"
	"gorm.io/gorm"
)

// UserService owns validation and persistence for user records. Role
// checks run here again even when the handler already filtered the
// caller.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type CreateUserInput struct {
	Name         string
	Email        string
	Password     string
	Availability types.Availability
	Role         types.Role
}

type UpdateUserInput struct {
	Name         *string
	Availability *types.Availability
	Role         *types.Role
	Password     *string
}

func (s *UserService) Create(input CreateUserInput, requester models.User) (models.User, error) {
	if requester.Role == types.RoleWorker {
		return models.User{}, forbidden("Not allowed")
	}

	if requester.Role == types.RoleManager && input.Role != types.RoleWorker {
		return models.User{}, forbidden("Managers can only create Worker users")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	var existing models.User
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return models.User{}, conflict("Email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Name:         input.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
		Availability: input.Availability,
	}
	if user.Role == "" {
		user.Role = types.RoleWorker
	}
	if user.Availability == "" {
		user.Availability = types.AvailabilityFree
	}

	if err := s.db.Create(&user).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (s *UserService) Update(userID uint, input UpdateUserInput, requester models.User) (models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, notFound("User not found")
		}
		return models.User{}, err
	}

	if requester.Role == types.RoleWorker && requester.ID != user.ID {
		return models.User{}, forbidden("Not allowed")
	}

	if input.Role != nil && requester.Role != types.RoleAdmin {
		return models.User{}, forbidden("Only Admins can change roles")
	}

	updates := make(map[string]interface{})

	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}

	if input.Availability != nil {
		if !input.Availability.Valid() {
			return models.User{}, badRequest("Invalid availability")
		}
		updates["availability"] = *input.Availability
	}

	if input.Role != nil {
		if !input.Role.Valid() {
			return models.User{}, badRequest("Invalid role")
		}
		updates["role"] = *input.Role
	}

	if input.Password != nil {
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return models.User{}, err
		}
		updates["password_hash"] = hash
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return models.User{}, err
		}
	}

	if err := s.db.First(&user, user.ID).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Delete removes the user and every membership link that references
// them. sqlite does not enforce the declared cascades, so links are
// removed explicitly.
func (s *UserService) Delete(userID uint, requester models.User) error {
	if requester.Role != types.RoleAdmin {
		return forbidden("Only Admins can delete users")
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("User not found")
		}
		return err
	}

	if err := s.db.Where("user_id = ?", user.ID).Delete(&models.TaskWorker{}).Error; err != nil {
		return err
	}
	if err := s.db.Where("user_id = ?", user.ID).Delete(&models.ProjectWorker{}).Error; err != nil {
		return err
	}
	if err := s.db.Unscoped().Where("user_id = ?", user.ID).Delete(&models.UserDayOff{}).Error; err != nil {
		return err
	}

	return s.db.Unscoped().Delete(&user).Error
}

func (s *UserService) Get(userID uint, requester models.User) (models.User, error) {
	if requester.Role == types.RoleWorker && requester.ID != userID {
		return models.User{}, forbidden("Not allowed")
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, notFound("User not found")
		}
		return models.User{}, err
	}

	return user, nil
}

func (s *UserService) List(requester models.User) ([]models.User, error) {
	if requester.Role == types.RoleWorker {
		return nil, forbidden("Not allowed")
	}

	var users []models.User
	if err := s.db.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

// Authenticate verifies credentials and returns the matching user.
func (s *UserService) Authenticate(email, password string) (models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, unauthorized("Incorrect email or password")
		}
		return models.User{}, err
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return models.User{}, unauthorized("Incorrect email or password")
	}

	return user, nil
}
