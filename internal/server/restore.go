package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"crisis-response/internal/db"
)

// restoreSessionFromDB rebuilds a live session from its database mirror. The
// restored session comes back paused so the host decides when play resumes;
// in-progress sessions record their prior status in PausedFrom.
func (s *Server) restoreSessionFromDB(param string) (*Session, error) {
	if s.db == nil {
		return nil, errors.New("database not configured")
	}
	dbID, err := resolveSessionParam(strings.TrimSpace(param))
	if err != nil {
		return nil, err
	}

	var record db.Session
	if err := s.db.First(&record, dbID).Error; err != nil {
		return nil, err
	}
	if record.Status == statusCompleted {
		return nil, ErrAlreadyCompleted
	}

	if existing, ok := s.store.GetSession(fmt.Sprintf("session-%d", record.ID)); ok {
		return existing, nil
	}
	if existing, ok := s.store.GetSession(record.Code); ok {
		return existing, nil
	}

	var sequence []string
	if err := json.Unmarshal(record.CardSequence, &sequence); err != nil {
		return nil, err
	}
	if len(sequence) == 0 {
		return nil, ErrEmptyCardSequence
	}
	if record.CurrentIndex < 0 || record.CurrentIndex >= len(sequence) {
		return nil, ErrCorruptSequence
	}

	var playerRecords []db.Player
	if err := s.db.Where("session_id = ?", record.ID).Order("joined_at asc").Find(&playerRecords).Error; err != nil {
		return nil, err
	}
	var responseRecords []db.PlayerResponse
	if err := s.db.Where("session_id = ?", record.ID).Order("id asc").Find(&responseRecords).Error; err != nil {
		return nil, err
	}

	session := &Session{
		ID:             fmt.Sprintf("session-%d", record.ID),
		DBID:           record.ID,
		Code:           record.Code,
		Status:         record.Status,
		CardSequence:   sequence,
		CurrentIndex:   record.CurrentIndex,
		RoundStartedAt: record.RoundStartedAt,
		CreatedAt:      record.CreatedAt,
		AuthTokens:     make(map[int]string),
	}
	if record.Status == statusInProgress {
		session.Status = statusPaused
		session.PausedFrom = statusInProgress
	}

	playerIDByDBID := make(map[uint]int, len(playerRecords))
	for _, playerRecord := range playerRecords {
		player := Player{
			ID:        int(playerRecord.ID),
			DBID:      playerRecord.ID,
			Nickname:  playerRecord.Nickname,
			Team:      playerRecord.Team,
			Score:     playerRecord.Score,
			IsLeader:  playerRecord.IsLeader,
			IsHost:    playerRecord.IsHost,
			Connected: false,
			JoinedAt:  playerRecord.JoinedAt,
		}
		session.Players = append(session.Players, player)
		playerIDByDBID[playerRecord.ID] = player.ID
		if player.IsHost {
			session.HostID = player.ID
		}
	}

	for _, responseRecord := range responseRecords {
		playerID, ok := playerIDByDBID[responseRecord.PlayerID]
		if !ok {
			continue
		}
		session.Responses = append(session.Responses, ResponseEntry{
			DBID:     responseRecord.ID,
			PlayerID: playerID,
			CardID:   responseRecord.CardID,
			OptionID: responseRecord.OptionID,
			Auto:     responseRecord.Auto,
		})
	}

	if err := s.store.RestoreSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

func resolveSessionParam(param string) (uint, error) {
	if param == "" {
		return 0, errors.New("session id required")
	}
	raw := strings.TrimPrefix(param, "session-")
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid session id %q", param)
	}
	return uint(value), nil
}
