package server

import (
	"log"
	"net/http"
	"strings"
)

type joinRequest struct {
	Nickname string `json:"nickname"`
}

type hostRequest struct {
	PlayerID int    `json:"player_id"`
	Token    string `json:"token"`
}

type responseRequest struct {
	PlayerID int    `json:"player_id"`
	CardID   string `json:"card_id"`
	OptionID string `json:"option_id"`
}

type connectionRequest struct {
	PlayerID  int  `json:"player_id"`
	Connected bool `json:"connected"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sequence := s.cat.Draw(s.cfg.CardsPerSession)
	if len(sequence) == 0 {
		writeDomainError(w, ErrEmptyCardSequence)
		return
	}
	session := s.store.CreateSession(sequence, timeNowUTC())
	if err := s.persistSession(session); err != nil {
		log.Printf("create persist failed session_code=%s error=%v", session.Code, err)
	}
	log.Printf("session created session_id=%s code=%s cards=%d", session.ID, session.Code, len(sequence))
	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id":  session.ID,
		"code":        session.Code,
		"total_cards": len(sequence),
	})
}

func (s *Server) handleSessionSubroutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	idOrCode := parts[0]
	action := ""
	if len(parts) > 1 {
		action = parts[1]
	}

	switch {
	case r.Method == http.MethodGet && action == "":
		s.handleGetSession(w, r, idOrCode)
	case r.Method == http.MethodGet && action == "results":
		s.handleResults(w, r, idOrCode)
	case r.Method == http.MethodPost && action == "join":
		s.handleJoin(w, r, idOrCode)
	case r.Method == http.MethodPost && action == "start":
		s.handleStart(w, r, idOrCode)
	case r.Method == http.MethodPost && action == "pause":
		s.handlePause(w, r, idOrCode)
	case r.Method == http.MethodPost && action == "resume":
		s.handleResume(w, r, idOrCode)
	case r.Method == http.MethodPost && action == "advance":
		s.handleAdvance(w, r, idOrCode)
	case r.Method == http.MethodPost && action == "responses":
		s.handleSubmitResponse(w, r, idOrCode)
	case r.Method == http.MethodPost && action == "connection":
		s.handleConnection(w, r, idOrCode)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request, idOrCode string) {
	var payload map[string]any
	err := s.store.ViewSession(idOrCode, func(session *Session) {
		payload = s.snapshot(session)
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request, idOrCode string) {
	var payload map[string]any
	err := s.store.ViewSession(idOrCode, func(session *Session) {
		payload = s.results(session)
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request, idOrCode string) {
	var req joinRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" || len(nickname) > 64 {
		writeError(w, http.StatusBadRequest, "nickname required")
		return
	}

	session, player, err := s.store.AddPlayer(idOrCode, nickname, timeNowUTC(), s.cfg.MaxPlayers)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	token := newAuthToken()
	playerID := player.ID
	session, err = s.store.UpdateSession(session.ID, func(session *Session) error {
		if existing, ok := session.AuthTokens[playerID]; ok {
			token = existing
			return nil
		}
		session.AuthTokens[playerID] = token
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := s.persistPlayer(session, player); err != nil {
		log.Printf("join persist failed session_code=%s nickname=%s error=%v", session.Code, nickname, err)
	}
	log.Printf("player joined session_code=%s player_id=%d nickname=%s team=%s", session.Code, player.ID, nickname, player.Team)
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": session.ID,
		"player_id":  player.ID,
		"nickname":   player.Nickname,
		"team":       player.Team,
		"is_host":    player.IsHost,
		"token":      token,
	})
	s.broadcastSessionUpdate(session)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request, idOrCode string) {
	var req hostRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session, err := s.StartSession(idOrCode, req.PlayerID, req.Token)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.respondSnapshot(w, session)
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request, idOrCode string) {
	var req hostRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session, err := s.PauseSession(idOrCode, req.PlayerID, req.Token)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.respondSnapshot(w, session)
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request, idOrCode string) {
	var req hostRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session, err := s.ResumeSession(idOrCode, req.PlayerID, req.Token)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.respondSnapshot(w, session)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request, idOrCode string) {
	result, err := s.AdvanceRound(idOrCode)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSubmitResponse(w http.ResponseWriter, r *http.Request, idOrCode string) {
	var req responseRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CardID == "" || req.OptionID == "" {
		writeError(w, http.StatusBadRequest, "card_id and option_id required")
		return
	}
	session, entry, err := s.SubmitResponse(idOrCode, req.PlayerID, req.CardID, req.OptionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if err := s.persistResponse(session, entry); err != nil {
		log.Printf("response persist failed session_code=%s player_id=%d card_id=%s error=%v", session.Code, req.PlayerID, req.CardID, err)
	}
	log.Printf("response recorded session_code=%s player_id=%d card_id=%s option_id=%s", session.Code, req.PlayerID, req.CardID, req.OptionID)
	writeJSON(w, http.StatusOK, map[string]any{
		"player_id": req.PlayerID,
		"card_id":   req.CardID,
		"option_id": req.OptionID,
	})
	s.broadcastSessionUpdate(session)
}

func (s *Server) handleConnection(w http.ResponseWriter, r *http.Request, idOrCode string) {
	var req connectionRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	session, err := s.SetConnected(idOrCode, req.PlayerID, req.Connected)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.respondSnapshot(w, session)
}

func (s *Server) respondSnapshot(w http.ResponseWriter, session *Session) {
	var payload map[string]any
	if err := s.store.ViewSession(session.ID, func(session *Session) {
		payload = s.snapshot(session)
	}); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}
