package server

import "time"

const (
	statusScheduled  = "scheduled"
	statusInProgress = "in_progress"
	statusPaused     = "paused"
	statusCompleted  = "completed"
)

const (
	teamRed  = "red"
	teamBlue = "blue"
)

type SessionSummary struct {
	ID      string
	Code    string
	Status  string
	Players int
}

// Session is the live in-memory state of one game. All mutation happens under
// the session's lock via Store.UpdateSession.
type Session struct {
	ID             string
	DBID           uint
	Code           string
	Status         string
	PausedFrom     string
	CardSequence   []string
	CurrentIndex   int
	RoundStartedAt time.Time
	EndedAt        *time.Time
	CreatedAt      time.Time
	HostID         int
	AuthTokens     map[int]string
	Players        []Player
	Responses      []ResponseEntry
}

type Player struct {
	ID        int
	DBID      uint
	Nickname  string
	Team      string
	Score     int
	IsLeader  bool
	IsHost    bool
	Connected bool
	JoinedAt  time.Time
}

// ResponseEntry is one row of the response ledger: which option a player chose
// for a card. At most one entry exists per (player, card); Auto marks entries
// synthesized by the timeout fallback.
type ResponseEntry struct {
	DBID     uint
	PlayerID int
	CardID   string
	OptionID string
	Auto     bool
}

// Status transitions. Each rejects invalid source states so status can never
// be written free-form.

func startSession(session *Session, now time.Time) error {
	if session.Status != statusScheduled {
		return ErrAlreadyStarted
	}
	session.Status = statusInProgress
	session.RoundStartedAt = now
	return nil
}

func pauseSession(session *Session) error {
	if session.Status != statusInProgress {
		return ErrNotInProgress
	}
	session.PausedFrom = session.Status
	session.Status = statusPaused
	return nil
}

func resumeSession(session *Session, now time.Time) error {
	if session.Status != statusPaused {
		return ErrNotPaused
	}
	session.Status = statusInProgress
	session.PausedFrom = ""
	session.RoundStartedAt = now
	return nil
}

func completeSession(session *Session, now time.Time) error {
	if session.Status != statusInProgress {
		return ErrNotInProgress
	}
	session.Status = statusCompleted
	ended := now
	session.EndedAt = &ended
	return nil
}

func findResponse(session *Session, playerID int, cardID string) (*ResponseEntry, bool) {
	for i := range session.Responses {
		if session.Responses[i].PlayerID == playerID && session.Responses[i].CardID == cardID {
			return &session.Responses[i], true
		}
	}
	return nil, false
}

func currentCardID(session *Session) (string, bool) {
	if session.CurrentIndex < 0 || session.CurrentIndex >= len(session.CardSequence) {
		return "", false
	}
	return session.CardSequence[session.CurrentIndex], true
}
