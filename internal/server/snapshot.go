package server

import "time"

// snapshot is the read projection served to host and player UIs. Scores per
// response option are withheld; only the already-applied player totals are
// visible.
func (s *Server) snapshot(session *Session) map[string]any {
	players := make([]map[string]any, 0, len(session.Players))
	currentCard, _ := currentCardID(session)
	for i := range session.Players {
		player := &session.Players[i]
		_, submitted := findResponse(session, player.ID, currentCard)
		players = append(players, map[string]any{
			"player_id": player.ID,
			"nickname":  player.Nickname,
			"team":      player.Team,
			"score":     player.Score,
			"is_leader": player.IsLeader,
			"is_host":   player.IsHost,
			"connected": player.Connected,
			"submitted": submitted && currentCard != "",
		})
	}

	snapshot := map[string]any{
		"session_id":    session.ID,
		"code":          session.Code,
		"status":        session.Status,
		"current_index": session.CurrentIndex,
		"total_cards":   len(session.CardSequence),
		"players":       players,
	}
	if session.EndedAt != nil {
		snapshot["ended_at"] = session.EndedAt.UTC().Format(time.RFC3339)
	}
	if session.Status != statusInProgress {
		return snapshot
	}

	card, ok := s.cat.Get(currentCard)
	if !ok {
		return snapshot
	}
	options := make([]map[string]any, 0, len(card.Options))
	for _, option := range card.Options {
		options = append(options, map[string]any{
			"option_id": option.ID,
			"text":      option.Text,
		})
	}
	limit := card.TimeLimitSeconds
	if limit <= 0 {
		limit = s.cfg.RoundDurationSeconds
	}
	remaining := limit - int(time.Since(session.RoundStartedAt).Seconds())
	if remaining < 0 {
		remaining = 0
	}
	snapshot["current_card"] = map[string]any{
		"card_id":           card.ID,
		"title":             card.Title,
		"scenario":          card.Scenario,
		"time_limit":        limit,
		"seconds_remaining": remaining,
		"options":           options,
	}
	return snapshot
}

// results is the terminal projection: final standings by team and player.
func (s *Server) results(session *Session) map[string]any {
	teamScores := map[string]int{teamRed: 0, teamBlue: 0}
	players := make([]map[string]any, 0, len(session.Players))
	for i := range session.Players {
		player := &session.Players[i]
		if player.Team != "" {
			teamScores[player.Team] += player.Score
		}
		players = append(players, map[string]any{
			"player_id": player.ID,
			"nickname":  player.Nickname,
			"team":      player.Team,
			"score":     player.Score,
		})
	}
	winner := ""
	switch {
	case teamScores[teamRed] > teamScores[teamBlue]:
		winner = teamRed
	case teamScores[teamBlue] > teamScores[teamRed]:
		winner = teamBlue
	}
	result := map[string]any{
		"session_id":  session.ID,
		"code":        session.Code,
		"status":      session.Status,
		"team_scores": teamScores,
		"players":     players,
		"winner":      winner,
	}
	if session.EndedAt != nil {
		result["ended_at"] = session.EndedAt.UTC().Format(time.RFC3339)
	}
	return result
}
