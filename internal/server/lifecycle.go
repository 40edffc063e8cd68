package server

import "log"

func (s *Server) requireHost(session *Session, playerID int, token string) error {
	if playerID != session.HostID {
		return ErrNotHost
	}
	if expected, ok := session.AuthTokens[playerID]; !ok || expected != token {
		return ErrNotHost
	}
	return nil
}

// StartSession moves a scheduled session into play: validates the deck,
// initializes the first leader of each non-empty team, and arms the first
// round timer.
func (s *Server) StartSession(idOrCode string, playerID int, token string) (*Session, error) {
	session, err := s.store.UpdateSession(idOrCode, func(session *Session) error {
		if err := s.requireHost(session, playerID, token); err != nil {
			return err
		}
		if len(session.CardSequence) == 0 {
			return ErrEmptyCardSequence
		}
		for _, team := range []string{teamRed, teamBlue} {
			if _, err := leaderIndex(teamMembers(session, team)); err != nil {
				return err
			}
		}
		if err := startSession(session, timeNowUTC()); err != nil {
			return err
		}
		return initializeLeaders(session)
	})
	if err != nil {
		return nil, err
	}
	if err := s.persistStatus(session, "session_started", EventPayload{Status: session.Status}); err != nil {
		log.Printf("start persist failed session_code=%s error=%v", session.Code, err)
	}
	log.Printf("session started session_code=%s cards=%d players=%d", session.Code, len(session.CardSequence), len(session.Players))
	s.scheduleRoundTimer(session.ID, session.CurrentIndex)
	s.broadcastSessionUpdate(session)
	return session, nil
}

// PauseSession is a status-only write. While paused, time-based advancement
// must not fire, so the round timer is cancelled.
func (s *Server) PauseSession(idOrCode string, playerID int, token string) (*Session, error) {
	session, err := s.store.UpdateSession(idOrCode, func(session *Session) error {
		if err := s.requireHost(session, playerID, token); err != nil {
			return err
		}
		return pauseSession(session)
	})
	if err != nil {
		return nil, err
	}
	s.cancelRoundTimer(session.ID)
	if err := s.persistStatus(session, "session_paused", EventPayload{Status: session.Status}); err != nil {
		log.Printf("pause persist failed session_code=%s error=%v", session.Code, err)
	}
	log.Printf("session paused session_code=%s index=%d", session.Code, session.CurrentIndex)
	s.broadcastSessionUpdate(session)
	return session, nil
}

// ResumeSession restarts the clock for the current card rather than crediting
// time that passed while paused.
func (s *Server) ResumeSession(idOrCode string, playerID int, token string) (*Session, error) {
	session, err := s.store.UpdateSession(idOrCode, func(session *Session) error {
		if err := s.requireHost(session, playerID, token); err != nil {
			return err
		}
		return resumeSession(session, timeNowUTC())
	})
	if err != nil {
		return nil, err
	}
	if err := s.persistStatus(session, "session_resumed", EventPayload{Status: session.Status}); err != nil {
		log.Printf("resume persist failed session_code=%s error=%v", session.Code, err)
	}
	log.Printf("session resumed session_code=%s index=%d", session.Code, session.CurrentIndex)
	s.scheduleRoundTimer(session.ID, session.CurrentIndex)
	s.broadcastSessionUpdate(session)
	return session, nil
}

// SetConnected flips a player's connection flag. Leadership and scoring are
// unaffected; a disconnected leader still binds the team until rotation.
func (s *Server) SetConnected(idOrCode string, playerID int, connected bool) (*Session, error) {
	session, err := s.store.UpdateSession(idOrCode, func(session *Session) error {
		player, ok := findPlayer(session, playerID)
		if !ok {
			return ErrPlayerNotFound
		}
		player.Connected = connected
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.broadcastSessionUpdate(session)
	return session, nil
}
