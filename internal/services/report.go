package services

import (
	"errors"
	"strconv"
	"time"

	"github.com/proplan-dev/proplan/internal/models"
	"github.com/proplan-dev/proplan/internal/types"
	"gorm.io/gorm"
)

// ReportService aggregates a project's tasks over a past calendar
// month.
type ReportService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db, now: time.Now}
}

type ReportTask struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	StartTime string `json:"start_time"`
}

type MonthlyReport struct {
	ProjectID   uint         `json:"project_id"`
	ProjectName string       `json:"project_name"`
	Year        int          `json:"year"`
	Month       int          `json:"month"`
	Count       int          `json:"count"`
	Tasks       []ReportTask `json:"tasks"`
}

// validateMonth rejects out-of-range, current and future months and
// returns the half-open [first of month, first of next month) range.
func (s *ReportService) validateMonth(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, badRequest("Month must be 1..12")
	}

	now := s.now()
	firstOfRequest := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	firstOfCurrent := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	if firstOfRequest.Equal(firstOfCurrent) {
		return time.Time{}, time.Time{}, badRequest("Cannot request current month")
	}
	if firstOfRequest.After(firstOfCurrent) {
		return time.Time{}, time.Time{}, badRequest("Cannot request future month")
	}

	return firstOfRequest, firstOfRequest.AddDate(0, 1, 0), nil
}

func (s *ReportService) JSONReport(projectID uint, year, month int, requester models.User) (MonthlyReport, error) {
	if requester.Role == types.RoleWorker {
		return MonthlyReport{}, forbidden("Manager only")
	}

	start, end, err := s.validateMonth(year, month)
	if err != nil {
		return MonthlyReport{}, err
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return MonthlyReport{}, notFound("Project not found")
		}
		return MonthlyReport{}, err
	}

	tasks, err := s.tasksInRange(projectID, start, end)
	if err != nil {
		return MonthlyReport{}, err
	}

	report := MonthlyReport{
		ProjectID:   project.ID,
		ProjectName: project.Name,
		Year:        year,
		Month:       month,
		Count:       len(tasks),
		Tasks:       make([]ReportTask, 0, len(tasks)),
	}
	for _, t := range tasks {
		report.Tasks = append(report.Tasks, ReportTask{
			ID:        t.ID,
			Name:      t.Name,
			Status:    string(t.Status),
			StartTime: formatStart(t.StartTime),
		})
	}

	return report, nil
}

// CSVRows returns a header row followed by one row per task.
func (s *ReportService) CSVRows(projectID uint, year, month int, requester models.User) ([][]string, error) {
	if requester.Role == types.RoleWorker {
		return nil, forbidden("Manager only")
	}

	start, end, err := s.validateMonth(year, month)
	if err != nil {
		return nil, err
	}

	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Project not found")
		}
		return nil, err
	}

	tasks, err := s.tasksInRange(projectID, start, end)
	if err != nil {
		return nil, err
	}

	rows := [][]string{{"id", "name", "status", "start_time"}}
	for _, t := range tasks {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(t.ID), 10),
			t.Name,
			string(t.Status),
			formatStart(t.StartTime),
		})
	}

	return rows, nil
}

func (s *ReportService) tasksInRange(projectID uint, start, end time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.
		Where("project_id = ? AND start_time >= ? AND start_time < ?", projectID, start, end).
		Order("id").
		Find(&tasks).Error
	return tasks, err
}

func formatStart(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
