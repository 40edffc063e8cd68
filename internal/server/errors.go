package server

import "errors"

// Expected outcomes (not found / conflict) are returned to callers as-is and
// never logged as errors. Data-integrity errors abort without partial
// mutation and indicate a setup bug.
var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrPlayerNotFound    = errors.New("player not found")
	ErrCardNotFound      = errors.New("card not found")
	ErrNicknameTaken     = errors.New("nickname already taken")
	ErrSessionFull       = errors.New("session full")
	ErrAlreadyStarted    = errors.New("session already started")
	ErrAlreadyCompleted  = errors.New("session already completed")
	ErrNotInProgress     = errors.New("session not in progress")
	ErrNotPaused         = errors.New("session not paused")
	ErrNotHost           = errors.New("player is not the host")
	ErrNotCurrentCard    = errors.New("card is not the current card")
	ErrDuplicateResponse = errors.New("response already recorded")
	ErrEmptyCardSequence = errors.New("card sequence is empty")
	ErrCorruptSequence   = errors.New("card sequence index out of range")
	ErrLeaderConflict    = errors.New("team has more than one leader")
)

func isNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, ErrPlayerNotFound) ||
		errors.Is(err, ErrCardNotFound)
}

func isConflict(err error) bool {
	return errors.Is(err, ErrNicknameTaken) ||
		errors.Is(err, ErrSessionFull) ||
		errors.Is(err, ErrAlreadyStarted) ||
		errors.Is(err, ErrAlreadyCompleted) ||
		errors.Is(err, ErrNotInProgress) ||
		errors.Is(err, ErrNotPaused) ||
		errors.Is(err, ErrNotCurrentCard) ||
		errors.Is(err, ErrDuplicateResponse)
}

func isDataIntegrity(err error) bool {
	return errors.Is(err, ErrEmptyCardSequence) ||
		errors.Is(err, ErrCorruptSequence) ||
		errors.Is(err, ErrLeaderConflict)
}
