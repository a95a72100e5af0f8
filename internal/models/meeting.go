package models

import (
	"time"
)

// Meeting represents a consultation meeting scheduled on a case. Only the
// case's primary doctor may schedule one.
type Meeting struct {
	BaseModel
	CaseID        string    `gorm:"size:36;index;not null" json:"caseId"`
	ScheduledByID string    `gorm:"size:36;index;not null" json:"scheduledById"`
	StartTime     time.Time `gorm:"not null" json:"startTime"`
	Title         string    `gorm:"size:255" json:"title"`
	Notes         string    `gorm:"type:text" json:"notes"`

	ScheduledBy User `gorm:"foreignKey:ScheduledByID" json:"-"`
}
