package server

import (
	"errors"
	"log"
	"time"
)

var errRoundChanged = errors.New("round changed")

// scheduleRoundTimer arms the timeout for the card at expectedIndex. When it
// fires, the same advance path runs with an expected-index guard, so a manual
// advance or a pause that got there first turns the timer into a no-op.
func (s *Server) scheduleRoundTimer(sessionID string, expectedIndex int) {
	if !s.cfg.AutoAdvance {
		return
	}
	duration := s.roundDuration(sessionID, expectedIndex)
	if duration <= 0 {
		s.cancelRoundTimer(sessionID)
		return
	}
	s.timersMu.Lock()
	if existing, ok := s.timers[sessionID]; ok {
		existing.Stop()
	}
	timer := time.AfterFunc(duration, func() {
		s.autoAdvance(sessionID, expectedIndex)
	})
	s.timers[sessionID] = timer
	s.timersMu.Unlock()
}

func (s *Server) cancelRoundTimer(sessionID string) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if timer, ok := s.timers[sessionID]; ok {
		timer.Stop()
		delete(s.timers, sessionID)
	}
}

func (s *Server) roundDuration(sessionID string, index int) time.Duration {
	seconds := s.cfg.RoundDurationSeconds
	_ = s.store.ViewSession(sessionID, func(session *Session) {
		if index < 0 || index >= len(session.CardSequence) {
			return
		}
		if card, ok := s.cat.Get(session.CardSequence[index]); ok && card.TimeLimitSeconds > 0 {
			seconds = card.TimeLimitSeconds
		}
	})
	return time.Duration(seconds) * time.Second
}

func (s *Server) autoAdvance(sessionID string, expectedIndex int) {
	var result AdvanceResult
	var outcomes []teamOutcome
	var finishedCard string
	session, err := s.store.UpdateSession(sessionID, func(session *Session) error {
		if session.Status != statusInProgress || session.CurrentIndex != expectedIndex {
			return errRoundChanged
		}
		var err error
		result, outcomes, finishedCard, err = advanceLocked(session, s.cat, s.pick, timeNowUTC())
		return err
	})
	if err != nil {
		if !errors.Is(err, errRoundChanged) && !errors.Is(err, ErrSessionNotFound) {
			log.Printf("auto-advance failed session_id=%s index=%d error=%v", sessionID, expectedIndex, err)
		}
		return
	}

	if err := s.persistAdvance(session, finishedCard, result, outcomes); err != nil {
		log.Printf("auto-advance persist failed session_code=%s error=%v", session.Code, err)
	}
	log.Printf("round auto-advanced session_code=%s card_id=%s index=%d status=%s", session.Code, finishedCard, result.CurrentIndex, result.Status)

	if result.Completed {
		s.cancelRoundTimer(session.ID)
	} else {
		s.scheduleRoundTimer(session.ID, result.CurrentIndex)
	}
	s.broadcastSessionUpdate(session)
}
