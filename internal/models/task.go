package models

import (
	"time"

	"github.com/proplan-dev/proplan/internal/types"
	"gorm.io/gorm"
)

type Task struct {
	gorm.Model

	Name      string `gorm:"not null"`
	StartTime *time.Time
	EndTime   *time.Time
	Status    types.TaskStatus `gorm:"not null;default:Open"`
	Details   string
	ProjectID uint `gorm:"not null;index"`

	// Relationships
	Project         Project      `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	TaskAssignments []TaskWorker `gorm:"foreignKey:TaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
