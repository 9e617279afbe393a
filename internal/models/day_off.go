package models

import (
	"github.com/proplan-dev/proplan/internal/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserDayOff struct {
	gorm.Model

	UserID    uint             `gorm:"not null;index"`
	Type      types.DayOffType `gorm:"not null"`
	StartDate datatypes.Date   `gorm:"not null"`
	EndDate   datatypes.Date   `gorm:"not null"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
