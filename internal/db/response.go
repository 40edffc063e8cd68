package db

import "time"

// PlayerResponse is the response ledger. The composite unique index enforces
// at most one recorded response per (player, card), whether submitted or
// synthesized by the timeout fallback.
type PlayerResponse struct {
	ID        uint      `gorm:"primaryKey"`
	SessionID uint      `gorm:"index;not null"`
	PlayerID  uint      `gorm:"index;not null;uniqueIndex:idx_responses_player_card"`
	CardID    string    `gorm:"size:64;not null;uniqueIndex:idx_responses_player_card"`
	OptionID  string    `gorm:"size:64;not null"`
	Auto      bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
