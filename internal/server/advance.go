package server

import (
	"log"
	"time"

	"crisis-response/internal/catalog"
)

type AdvanceResult struct {
	Status       string `json:"status"`
	CurrentIndex int    `json:"current_index"`
	Completed    bool   `json:"completed"`
}

// AdvanceRound ends the round for the current card: it resolves scoring and
// leadership rotation for both teams, then either moves the progression
// pointer to the next card or completes the session when the deck is
// exhausted. The whole operation runs under the session lock, so concurrent
// calls serialize and each card is resolved exactly once.
func (s *Server) AdvanceRound(idOrCode string) (AdvanceResult, error) {
	var result AdvanceResult
	var outcomes []teamOutcome
	var finishedCard string
	session, err := s.store.UpdateSession(idOrCode, func(session *Session) error {
		var err error
		result, outcomes, finishedCard, err = advanceLocked(session, s.cat, s.pick, timeNowUTC())
		return err
	})
	if err != nil {
		return AdvanceResult{}, err
	}

	if err := s.persistAdvance(session, finishedCard, result, outcomes); err != nil {
		log.Printf("advance persist failed session_code=%s card_id=%s error=%v", session.Code, finishedCard, err)
	}
	for _, outcome := range outcomes {
		if outcome.Skipped != "" {
			log.Printf("round resolution skipped session_code=%s team=%s card_id=%s reason=%q", session.Code, outcome.Team, finishedCard, outcome.Skipped)
		}
	}
	log.Printf("round advanced session_code=%s card_id=%s index=%d status=%s", session.Code, finishedCard, result.CurrentIndex, result.Status)

	if result.Completed {
		s.cancelRoundTimer(session.ID)
	} else {
		s.scheduleRoundTimer(session.ID, result.CurrentIndex)
	}
	s.broadcastSessionUpdate(session)
	return result, nil
}

// advanceLocked is the state-machine transition. Must be called with the
// session lock held. On error the session is unchanged: all validation,
// including round resolution's, happens before any mutation, and the pointer
// update is the last step.
func advanceLocked(session *Session, cat *catalog.Catalog, pick func(n int) int, now time.Time) (AdvanceResult, []teamOutcome, string, error) {
	switch session.Status {
	case statusInProgress:
	case statusCompleted:
		return AdvanceResult{}, nil, "", ErrAlreadyCompleted
	default:
		return AdvanceResult{}, nil, "", ErrNotInProgress
	}
	total := len(session.CardSequence)
	if total == 0 {
		return AdvanceResult{}, nil, "", ErrEmptyCardSequence
	}
	if session.CurrentIndex < 0 || session.CurrentIndex >= total {
		return AdvanceResult{}, nil, "", ErrCorruptSequence
	}

	finished := session.CardSequence[session.CurrentIndex]
	outcomes, err := resolveRound(session, cat, finished, pick)
	if err != nil {
		return AdvanceResult{}, nil, "", err
	}

	next := session.CurrentIndex + 1
	if next >= total {
		if err := completeSession(session, now); err != nil {
			return AdvanceResult{}, nil, "", err
		}
		return AdvanceResult{Status: session.Status, CurrentIndex: session.CurrentIndex, Completed: true}, outcomes, finished, nil
	}
	session.CurrentIndex = next
	session.RoundStartedAt = now
	return AdvanceResult{Status: session.Status, CurrentIndex: next}, outcomes, finished, nil
}

// SubmitResponse records a player's choice for the current card. Duplicate
// submissions are rejected, never overwritten; the timeout fallback in round
// resolution is the only other writer and it only writes when absent.
func (s *Server) SubmitResponse(idOrCode string, playerID int, cardID, optionID string) (*Session, *ResponseEntry, error) {
	var entry *ResponseEntry
	session, err := s.store.UpdateSession(idOrCode, func(session *Session) error {
		if session.Status != statusInProgress {
			return ErrNotInProgress
		}
		if _, ok := findPlayer(session, playerID); !ok {
			return ErrPlayerNotFound
		}
		current, ok := currentCardID(session)
		if !ok {
			return ErrCorruptSequence
		}
		if cardID != current {
			return ErrNotCurrentCard
		}
		card, ok := s.cat.Get(cardID)
		if !ok {
			return ErrCardNotFound
		}
		if !cardHasOption(card, optionID) {
			return ErrCardNotFound
		}
		if _, exists := findResponse(session, playerID, cardID); exists {
			return ErrDuplicateResponse
		}
		session.Responses = append(session.Responses, ResponseEntry{
			PlayerID: playerID,
			CardID:   cardID,
			OptionID: optionID,
		})
		entry = &session.Responses[len(session.Responses)-1]
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return session, entry, nil
}

func cardHasOption(card catalog.Card, optionID string) bool {
	for _, option := range card.Options {
		if option.ID == optionID {
			return true
		}
	}
	return false
}
