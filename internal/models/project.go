package models

import (
	"time"

	"github.com/proplan-dev/proplan/internal/types"
	"gorm.io/gorm"
)

type Project struct {
	gorm.Model

	Name        string `gorm:"not null"`
	Description string
	StartTime   *time.Time
	EndTime     *time.Time
	Status      types.ProjectStatus `gorm:"not null;default:Started"`
	ManagerID   *uint               `gorm:"index"`

	// Relationships
	Manager            *User           `gorm:"foreignKey:ManagerID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	ProjectMemberships []ProjectWorker `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks              []Task          `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
