package models

import (
	"github.com/proplan-dev/proplan/internal/types"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	Name         string             `gorm:"not null"`
	Email        string             `gorm:"uniqueIndex;not null"`
	PasswordHash string             `gorm:"not null"`
	Role         types.Role         `gorm:"not null;default:Worker"`
	Availability types.Availability `gorm:"not null;default:Free"`

	// Relationships
	ManagedProjects    []Project       `gorm:"foreignKey:ManagerID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	ProjectMemberships []ProjectWorker `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	TaskAssignments    []TaskWorker    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	DaysOff            []UserDayOff    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
