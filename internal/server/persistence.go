package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"

	"crisis-response/internal/db"
)

// The database is a durable mirror of the in-memory state: writes happen
// after the in-memory commit and failures are logged by callers rather than
// rolled back. The mirror backs admin restore and post-game results.

func (s *Server) persistSession(session *Session) error {
	if s.db == nil {
		return nil
	}
	sequence, err := json.Marshal(session.CardSequence)
	if err != nil {
		return err
	}
	record := db.Session{
		Code:           session.Code,
		Status:         session.Status,
		CardSequence:   datatypes.JSON(sequence),
		CurrentIndex:   session.CurrentIndex,
		RoundStartedAt: session.RoundStartedAt,
	}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
		return err
	}
	session.DBID = record.ID
	newID := fmt.Sprintf("session-%d", record.ID)
	if session.ID != newID {
		s.store.RenameSession(session, newID)
	}
	return s.persistEvent(session, "session_created", EventPayload{
		SessionID: session.ID,
		Code:      session.Code,
	})
}

func (s *Server) ensureSessionDBID(session *Session) error {
	if session.DBID != 0 {
		return nil
	}
	var record db.Session
	if err := s.db.Where("code = ?", session.Code).First(&record).Error; err != nil {
		return err
	}
	session.DBID = record.ID
	return nil
}

func (s *Server) persistPlayer(session *Session, player *Player) error {
	if s.db == nil {
		return nil
	}
	if err := s.ensureSessionDBID(session); err != nil {
		return err
	}
	record := db.Player{
		SessionID:   session.DBID,
		Nickname:    player.Nickname,
		Team:        player.Team,
		Score:       player.Score,
		IsLeader:    player.IsLeader,
		IsHost:      player.IsHost,
		IsConnected: player.Connected,
		JoinedAt:    player.JoinedAt,
	}
	err := s.db.Create(&record).Error
	if err != nil {
		if !isUniqueViolation(err) {
			return err
		}
		var existing db.Player
		if err := s.db.Where("session_id = ? AND nickname = ?", session.DBID, player.Nickname).First(&existing).Error; err != nil {
			return err
		}
		record = existing
	}
	player.DBID = record.ID
	return s.persistEvent(session, "player_joined", EventPayload{
		Nickname: player.Nickname,
		PlayerID: player.ID,
		Team:     player.Team,
	})
}

func (s *Server) persistStatus(session *Session, eventType string, payload EventPayload) error {
	if s.db == nil {
		return nil
	}
	if err := s.ensureSessionDBID(session); err != nil {
		return err
	}
	updates := map[string]any{
		"status":           session.Status,
		"round_started_at": session.RoundStartedAt,
	}
	if session.EndedAt != nil {
		updates["ended_at"] = *session.EndedAt
	}
	if err := s.db.Model(&db.Session{}).Where("id = ?", session.DBID).Updates(updates).Error; err != nil {
		return err
	}
	return s.persistEvent(session, eventType, payload)
}

// persistResponse mirrors one ledger entry. The composite unique index plus
// OnConflict DoNothing makes the write idempotent: when a concurrent process
// already inserted the row, the existing record wins and is reused.
func (s *Server) persistResponse(session *Session, entry *ResponseEntry) error {
	if s.db == nil {
		return nil
	}
	if err := s.ensureSessionDBID(session); err != nil {
		return err
	}
	player, ok := findPlayer(session, entry.PlayerID)
	if !ok {
		return ErrPlayerNotFound
	}
	if player.DBID == 0 {
		if err := s.persistPlayer(session, player); err != nil {
			return err
		}
	}
	record := db.PlayerResponse{
		SessionID: session.DBID,
		PlayerID:  player.DBID,
		CardID:    entry.CardID,
		OptionID:  entry.OptionID,
		Auto:      entry.Auto,
	}
	result := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
	if result.Error != nil && !isUniqueViolation(result.Error) {
		return result.Error
	}
	if result.Error != nil || result.RowsAffected == 0 {
		var existing db.PlayerResponse
		if err := s.db.Where("player_id = ? AND card_id = ?", player.DBID, entry.CardID).First(&existing).Error; err != nil {
			return err
		}
		record = existing
	}
	entry.DBID = record.ID
	return s.persistEvent(session, "response_recorded", EventPayload{
		PlayerID: entry.PlayerID,
		CardID:   entry.CardID,
		OptionID: entry.OptionID,
		Fallback: entry.Auto,
	})
}

func (s *Server) persistAdvance(session *Session, finishedCard string, result AdvanceResult, outcomes []teamOutcome) error {
	if s.db == nil {
		return nil
	}
	if err := s.ensureSessionDBID(session); err != nil {
		return err
	}
	for _, outcome := range outcomes {
		if !outcome.Fallback {
			continue
		}
		entry, ok := findResponse(session, outcome.LeaderID, finishedCard)
		if !ok {
			continue
		}
		if err := s.persistResponse(session, entry); err != nil {
			return err
		}
	}
	for i := range session.Players {
		player := &session.Players[i]
		if player.DBID == 0 {
			if err := s.persistPlayer(session, player); err != nil {
				return err
			}
		}
		updates := map[string]any{
			"score":     player.Score,
			"is_leader": player.IsLeader,
		}
		if err := s.db.Model(&db.Player{}).Where("id = ?", player.DBID).Updates(updates).Error; err != nil {
			return err
		}
	}
	updates := map[string]any{
		"status":           session.Status,
		"current_index":    session.CurrentIndex,
		"round_started_at": session.RoundStartedAt,
	}
	if session.EndedAt != nil {
		updates["ended_at"] = *session.EndedAt
	}
	if err := s.db.Model(&db.Session{}).Where("id = ?", session.DBID).Updates(updates).Error; err != nil {
		return err
	}
	for _, outcome := range outcomes {
		payload := EventPayload{
			Team:     outcome.Team,
			PlayerID: outcome.LeaderID,
			CardID:   finishedCard,
			OptionID: outcome.OptionID,
			Score:    outcome.Score,
			Fallback: outcome.Fallback,
			Reason:   outcome.Skipped,
		}
		if err := s.persistEvent(session, "round_resolved", payload); err != nil {
			return err
		}
	}
	return s.persistEvent(session, "round_advanced", EventPayload{
		CardID: finishedCard,
		Index:  result.CurrentIndex,
		Status: result.Status,
	})
}

func (s *Server) persistEvent(session *Session, eventType string, payload EventPayload) error {
	if s.db == nil {
		return nil
	}
	if err := s.ensureSessionDBID(session); err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := db.Event{
		SessionID: session.DBID,
		PlayerID:  s.resolveEventPlayerID(session, payload),
		Type:      eventType,
		Payload:   datatypes.JSON(data),
	}
	return s.db.Create(&event).Error
}

func (s *Server) resolveEventPlayerID(session *Session, payload EventPayload) *uint {
	if payload.PlayerID == 0 {
		return nil
	}
	player, ok := findPlayer(session, payload.PlayerID)
	if !ok || player.DBID == 0 {
		return nil
	}
	id := player.DBID
	return &id
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
