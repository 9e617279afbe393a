package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/proplan-dev/proplan/internal/models"
	"github.com/proplan-dev/proplan/internal/notify"
	"github.com/proplan-dev/proplan/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DayOffService owns day-off records and the manager notification
// fan-out when one is reported.
type DayOffService struct {
	db     *gorm.DB
	mailer *notify.Mailer
	now    func() time.Time
}

func NewDayOffService(db *gorm.DB, mailer *notify.Mailer) *DayOffService {
	return &DayOffService{db: db, mailer: mailer, now: time.Now}
}

// Create stores the entry and emails every distinct manager of the
// projects the user belongs to.
func (s *DayOffService) Create(user models.User, typ types.DayOffType, startDate, endDate time.Time) (models.UserDayOff, error) {
	if !typ.Valid() {
		return models.UserDayOff{}, badRequest("Invalid day-off type")
	}

	start := dateOnly(startDate)
	end := dateOnly(endDate)
	if start.After(end) {
		return models.UserDayOff{}, badRequest("start_date must be <= end_date")
	}

	entry := models.UserDayOff{
		UserID:    user.ID,
		Type:      typ,
		StartDate: datatypes.Date(start),
		EndDate:   datatypes.Date(end),
	}

	if err := s.db.Create(&entry).Error; err != nil {
		return models.UserDayOff{}, err
	}

	managers, err := s.managersOf(user.ID)
	if err != nil {
		return models.UserDayOff{}, err
	}

	startStr := start.Format("2006-01-02")
	endStr := end.Format("2006-01-02")
	for _, m := range managers {
		s.mailer.Send(
			m.Email,
			fmt.Sprintf("%s reported %s (%s to %s)", user.Name, typ, startStr, endStr),
			fmt.Sprintf("User %s (%s) will be off from %s to %s (%s).", user.Name, user.Email, startStr, endStr, typ),
		)
	}

	return entry, nil
}

func (s *DayOffService) ListMine(user models.User) ([]models.UserDayOff, error) {
	var entries []models.UserDayOff
	if err := s.db.Where("user_id = ?", user.ID).Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *DayOffService) ListForUser(userID uint, requester models.User) ([]models.UserDayOff, error) {
	if requester.Role == types.RoleWorker && requester.ID != userID {
		return nil, forbidden("Not allowed")
	}

	var entries []models.UserDayOff
	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *DayOffService) ListForProject(projectID uint, requester models.User) ([]models.UserDayOff, error) {
	if requester.Role == types.RoleWorker {
		return nil, forbidden("Not allowed")
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Project not found")
		}
		return nil, err
	}

	var userIDs []uint
	if err := s.db.Model(&models.ProjectWorker{}).Where("project_id = ?", projectID).Pluck("user_id", &userIDs).Error; err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return []models.UserDayOff{}, nil
	}

	var entries []models.UserDayOff
	if err := s.db.Where("user_id IN ?", userIDs).Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Delete removes an entry. Workers may delete only their own; entries
// already ended are kept unless an Admin asks.
func (s *DayOffService) Delete(entryID uint, requester models.User) error {
	var entry models.UserDayOff
	if err := s.db.First(&entry, entryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Entry not found")
		}
		return err
	}

	if requester.Role == types.RoleWorker && entry.UserID != requester.ID {
		return forbidden("Not allowed")
	}

	today := dateOnly(s.now())
	if time.Time(entry.EndDate).Before(today) && requester.Role != types.RoleAdmin {
		return badRequest("Cannot delete past entries")
	}

	return s.db.Unscoped().Delete(&entry).Error
}

// StartingToday feeds the reminder scheduler.
func (s *DayOffService) StartingToday(today time.Time) ([]models.UserDayOff, error) {
	var entries []models.UserDayOff
	if err := s.db.Where("start_date = ?", dateOnly(today)).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// UserOf loads the owner of a day-off entry.
func (s *DayOffService) UserOf(entry models.UserDayOff) (models.User, error) {
	var user models.User
	if err := s.db.First(&user, entry.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, notFound("User not found")
		}
		return models.User{}, err
	}
	return user, nil
}

// ManagersOf resolves the distinct managers over every project the
// user is a member of.
func (s *DayOffService) ManagersOf(userID uint) ([]models.User, error) {
	return s.managersOf(userID)
}

func (s *DayOffService) managersOf(userID uint) ([]models.User, error) {
	var projects []models.Project
	err := s.db.
		Joins("JOIN project_workers ON project_workers.project_id = projects.id").
		Where("project_workers.user_id = ?", userID).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool)
	var managers []models.User
	for _, p := range projects {
		if p.ManagerID == nil || seen[*p.ManagerID] {
			continue
		}
		seen[*p.ManagerID] = true

		var m models.User
		if err := s.db.First(&m, *p.ManagerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		managers = append(managers, m)
	}

	return managers, nil
}
