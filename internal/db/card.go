package db

import "time"

type Card struct {
	ID               string    `gorm:"primaryKey;size:64"`
	Title            string    `gorm:"size:128;not null"`
	Scenario         string    `gorm:"size:1024;not null"`
	TimeLimitSeconds int       `gorm:"not null;default:0"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
	Options          []ResponseOption `gorm:"foreignKey:CardID"`
}

type ResponseOption struct {
	ID        string    `gorm:"primaryKey;size:64"`
	CardID    string    `gorm:"size:64;index;not null"`
	Text      string    `gorm:"size:512;not null"`
	Stability int       `gorm:"not null;default:0"`
	Trust     int       `gorm:"not null;default:0"`
	Resources int       `gorm:"not null;default:0"`
	Morale    int       `gorm:"not null;default:0"`
	Readiness int       `gorm:"not null;default:0"`
	Score     *int      `gorm:""`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
