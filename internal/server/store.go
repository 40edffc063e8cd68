package server

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Store holds the live sessions. The store mutex only guards the session map
// and ID counters; each session carries its own lock so concurrent work on
// different sessions never serializes. UpdateSession is the single-writer
// critical section required for advance atomicity.
type Store struct {
	mu           sync.Mutex
	nextID       int
	nextPlayerID int
	sessions     map[string]*sessionHandle
}

type sessionHandle struct {
	mu      sync.Mutex
	session *Session
}

func NewStore() *Store {
	return &Store{
		nextID:       1,
		nextPlayerID: 1,
		sessions:     make(map[string]*sessionHandle),
	}
}

func (s *Store) CreateSession(cardSequence []string, now time.Time) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("session-%d", s.nextID)
	s.nextID++
	session := &Session{
		ID:             id,
		Code:           newJoinCode(),
		Status:         statusScheduled,
		CardSequence:   append([]string(nil), cardSequence...),
		CurrentIndex:   0,
		RoundStartedAt: now,
		CreatedAt:      now,
		AuthTokens:     make(map[int]string),
	}
	s.sessions[id] = &sessionHandle{session: session}
	return session
}

func (s *Store) handle(idOrCode string) (*sessionHandle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if handle, ok := s.sessions[idOrCode]; ok {
		return handle, true
	}
	for _, handle := range s.sessions {
		if handle.session.Code == idOrCode {
			return handle, true
		}
	}
	return nil, false
}

// UpdateSession runs update under the session's lock. The update func owns the
// session exclusively for its duration; returning an error leaves whatever
// state the func produced, so updates must not partially mutate on failure.
func (s *Store) UpdateSession(idOrCode string, update func(session *Session) error) (*Session, error) {
	handle, ok := s.handle(idOrCode)
	if !ok {
		return nil, ErrSessionNotFound
	}
	handle.mu.Lock()
	defer handle.mu.Unlock()
	if err := update(handle.session); err != nil {
		return nil, err
	}
	return handle.session, nil
}

// ViewSession runs view under the session's lock without signalling mutation.
func (s *Store) ViewSession(idOrCode string, view func(session *Session)) error {
	handle, ok := s.handle(idOrCode)
	if !ok {
		return ErrSessionNotFound
	}
	handle.mu.Lock()
	defer handle.mu.Unlock()
	view(handle.session)
	return nil
}

func (s *Store) GetSession(idOrCode string) (*Session, bool) {
	handle, ok := s.handle(idOrCode)
	if !ok {
		return nil, false
	}
	return handle.session, true
}

// RenameSession re-keys a session after its database row assigns the
// canonical ID.
func (s *Store) RenameSession(session *Session, newID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session.ID == newID {
		return
	}
	handle, ok := s.sessions[session.ID]
	if !ok {
		return
	}
	delete(s.sessions, session.ID)
	session.ID = newID
	s.sessions[newID] = handle
}

// AddPlayer admits a player by session ID or join code. Teams alternate
// red/blue in join order so rosters stay balanced. The first player becomes
// host. Rejoining with a known nickname reclaims the existing player.
func (s *Store) AddPlayer(idOrCode, nickname string, now time.Time, maxPlayers int) (*Session, *Player, error) {
	handle, ok := s.handle(idOrCode)
	if !ok {
		return nil, nil, ErrSessionNotFound
	}

	s.mu.Lock()
	playerID := s.nextPlayerID
	s.nextPlayerID++
	s.mu.Unlock()

	handle.mu.Lock()
	defer handle.mu.Unlock()
	session := handle.session

	for i := range session.Players {
		if strings.EqualFold(session.Players[i].Nickname, nickname) {
			if session.Status == statusScheduled {
				return nil, nil, ErrNicknameTaken
			}
			session.Players[i].Connected = true
			return session, &session.Players[i], nil
		}
	}
	if session.Status != statusScheduled {
		return nil, nil, ErrAlreadyStarted
	}
	if maxPlayers > 0 && len(session.Players) >= maxPlayers {
		return nil, nil, ErrSessionFull
	}

	player := Player{
		ID:        playerID,
		Nickname:  nickname,
		Team:      pickTeam(len(session.Players)),
		IsHost:    len(session.Players) == 0,
		Connected: true,
		JoinedAt:  now,
	}
	session.Players = append(session.Players, player)
	if player.IsHost {
		session.HostID = player.ID
	}
	return session, &session.Players[len(session.Players)-1], nil
}

// RestoreSession registers a session rebuilt from the database.
func (s *Store) RestoreSession(session *Session) error {
	if session == nil {
		return ErrSessionNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; ok {
		return ErrAlreadyStarted
	}
	for _, handle := range s.sessions {
		if handle.session.Code == session.Code {
			return ErrAlreadyStarted
		}
	}
	s.sessions[session.ID] = &sessionHandle{session: session}
	if id := sessionSortKey(session.ID); id >= s.nextID {
		s.nextID = id + 1
	}
	maxPlayerID := 0
	for _, player := range session.Players {
		if player.ID > maxPlayerID {
			maxPlayerID = player.ID
		}
	}
	if maxPlayerID >= s.nextPlayerID {
		s.nextPlayerID = maxPlayerID + 1
	}
	return nil
}

func (s *Store) ListSummaries() []SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]SessionSummary, 0, len(s.sessions))
	for _, handle := range s.sessions {
		list = append(list, SessionSummary{
			ID:      handle.session.ID,
			Code:    handle.session.Code,
			Status:  handle.session.Status,
			Players: len(handle.session.Players),
		})
	}
	sort.Slice(list, func(i, j int) bool {
		return sessionSortKey(list[i].ID) < sessionSortKey(list[j].ID)
	})
	return list
}

func sessionSortKey(id string) int {
	parts := strings.Split(id, "-")
	if len(parts) < 2 {
		return 0
	}
	value, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0
	}
	return value
}

func pickTeam(index int) string {
	if index%2 == 0 {
		return teamRed
	}
	return teamBlue
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}
