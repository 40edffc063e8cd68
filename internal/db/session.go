package db

import (
	"time"

	"gorm.io/datatypes"
)

type Session struct {
	ID             uint           `gorm:"primaryKey"`
	Code           string         `gorm:"size:12;uniqueIndex;not null"`
	Status         string         `gorm:"size:32;not null"`
	CardSequence   datatypes.JSON `gorm:"type:jsonb;not null"`
	CurrentIndex   int            `gorm:"not null;default:0"`
	RoundStartedAt time.Time      `gorm:"not null"`
	EndedAt        *time.Time
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
	Players        []Player
	Responses      []PlayerResponse
	Events         []Event
}
