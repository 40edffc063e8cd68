package db

import "time"

type Player struct {
	ID          uint      `gorm:"primaryKey"`
	SessionID   uint      `gorm:"index;not null;uniqueIndex:idx_players_session_nickname"`
	Nickname    string    `gorm:"size:64;not null;uniqueIndex:idx_players_session_nickname"`
	Team        string    `gorm:"size:16;not null;default:''"`
	Score       int       `gorm:"not null;default:0"`
	IsLeader    bool      `gorm:"not null;default:false"`
	IsHost      bool      `gorm:"not null;default:false"`
	IsConnected bool      `gorm:"not null;default:true"`
	JoinedAt    time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
	Responses   []PlayerResponse
}
