package server

import (
	"fmt"
	"testing"
	"time"
)

func TestCreateSessionDefaults(t *testing.T) {
	store := NewStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	deck := []string{"c1", "c2", "c3"}

	session := store.CreateSession(deck, now)
	if session.Status != statusScheduled {
		t.Fatalf("status = %q, want %q", session.Status, statusScheduled)
	}
	if session.CurrentIndex != 0 {
		t.Fatalf("current index = %d, want 0", session.CurrentIndex)
	}
	if len(session.Code) != 6 {
		t.Fatalf("join code %q, want 6 characters", session.Code)
	}
	if session.EndedAt != nil {
		t.Fatal("new session must not have an end time")
	}

	// The session owns its own copy of the draw.
	deck[0] = "mutated"
	if session.CardSequence[0] != "c1" {
		t.Fatal("card sequence aliases the caller's slice")
	}
}

func TestCreateSessionCodesAreUnique(t *testing.T) {
	store := NewStore()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		session := store.CreateSession([]string{"c1"}, timeNowUTC())
		if seen[session.Code] {
			t.Fatalf("duplicate join code %q", session.Code)
		}
		seen[session.Code] = true
	}
}

func TestLookupByIDOrCode(t *testing.T) {
	store := NewStore()
	session := store.CreateSession([]string{"c1"}, timeNowUTC())

	if got, ok := store.GetSession(session.ID); !ok || got.ID != session.ID {
		t.Fatal("lookup by ID failed")
	}
	if got, ok := store.GetSession(session.Code); !ok || got.ID != session.ID {
		t.Fatal("lookup by join code failed")
	}
	if _, ok := store.GetSession("missing"); ok {
		t.Fatal("lookup of unknown session succeeded")
	}
	if _, err := store.UpdateSession("missing", func(*Session) error { return nil }); err != ErrSessionNotFound {
		t.Fatalf("update of unknown session: %v, want ErrSessionNotFound", err)
	}
}

func TestAddPlayerAlternatesTeams(t *testing.T) {
	store := NewStore()
	session := store.CreateSession([]string{"c1"}, timeNowUTC())

	wantTeams := []string{teamRed, teamBlue, teamRed, teamBlue}
	for i, want := range wantTeams {
		_, player, err := store.AddPlayer(session.Code, fmt.Sprintf("player-%d", i), timeNowUTC(), 0)
		if err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
		if player.Team != want {
			t.Fatalf("join %d: team = %q, want %q", i, player.Team, want)
		}
		if (i == 0) != player.IsHost {
			t.Fatalf("join %d: is_host = %v", i, player.IsHost)
		}
	}
	if session.HostID != session.Players[0].ID {
		t.Fatalf("host id = %d, want %d", session.HostID, session.Players[0].ID)
	}
}

func TestAddPlayerRejectsDuplicateNickname(t *testing.T) {
	store := NewStore()
	session := store.CreateSession([]string{"c1"}, timeNowUTC())

	if _, _, err := store.AddPlayer(session.Code, "Ada", timeNowUTC(), 0); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if _, _, err := store.AddPlayer(session.Code, "ada", timeNowUTC(), 0); err != ErrNicknameTaken {
		t.Fatalf("duplicate join: %v, want ErrNicknameTaken", err)
	}
}

func TestAddPlayerEnforcesCapacity(t *testing.T) {
	store := NewStore()
	session := store.CreateSession([]string{"c1"}, timeNowUTC())

	for i := 0; i < 2; i++ {
		if _, _, err := store.AddPlayer(session.Code, fmt.Sprintf("player-%d", i), timeNowUTC(), 2); err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
	}
	if _, _, err := store.AddPlayer(session.Code, "overflow", timeNowUTC(), 2); err != ErrSessionFull {
		t.Fatalf("overflow join: %v, want ErrSessionFull", err)
	}
}

func TestAddPlayerAfterStartReclaimsOnly(t *testing.T) {
	store := NewStore()
	session := store.CreateSession([]string{"c1"}, timeNowUTC())
	_, ada, err := store.AddPlayer(session.Code, "Ada", timeNowUTC(), 0)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	adaID := ada.ID
	if _, err := store.UpdateSession(session.ID, func(session *Session) error {
		return startSession(session, timeNowUTC())
	}); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, _, err := store.AddPlayer(session.Code, "Ben", timeNowUTC(), 0); err != ErrAlreadyStarted {
		t.Fatalf("new join after start: %v, want ErrAlreadyStarted", err)
	}
	_, rejoined, err := store.AddPlayer(session.Code, "ADA", timeNowUTC(), 0)
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if rejoined.ID != adaID {
		t.Fatalf("rejoin created a new player: id %d, want %d", rejoined.ID, adaID)
	}
	if !rejoined.Connected {
		t.Fatal("rejoin must mark the player connected")
	}
	if len(session.Players) != 1 {
		t.Fatalf("player count = %d, want 1", len(session.Players))
	}
}

func TestRenameSessionRekeys(t *testing.T) {
	store := NewStore()
	session := store.CreateSession([]string{"c1"}, timeNowUTC())
	oldID := session.ID

	store.RenameSession(session, "session-99")
	if session.ID != "session-99" {
		t.Fatalf("session id = %q, want session-99", session.ID)
	}
	if _, ok := store.GetSession(oldID); ok {
		t.Fatal("old key still resolves")
	}
	if _, ok := store.GetSession("session-99"); !ok {
		t.Fatal("new key does not resolve")
	}
}

func TestRestoreSessionBumpsCounters(t *testing.T) {
	store := NewStore()
	restored := &Session{
		ID:         "session-7",
		Code:       "RESTOR",
		Status:     statusPaused,
		PausedFrom: statusInProgress,
		AuthTokens: make(map[int]string),
		Players: []Player{
			{ID: 41, Nickname: "Ada", Team: teamRed, JoinedAt: timeNowUTC()},
		},
	}
	if err := store.RestoreSession(restored); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if err := store.RestoreSession(restored); err != ErrAlreadyStarted {
		t.Fatalf("second restore: %v, want ErrAlreadyStarted", err)
	}

	// New sessions and players must not collide with restored IDs.
	session := store.CreateSession([]string{"c1"}, timeNowUTC())
	if sessionSortKey(session.ID) <= 7 {
		t.Fatalf("new session id %q collides with restored range", session.ID)
	}
	_, player, err := store.AddPlayer(session.Code, "Ben", timeNowUTC(), 0)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if player.ID <= 41 {
		t.Fatalf("new player id %d collides with restored range", player.ID)
	}
}

func TestListSummariesOrdered(t *testing.T) {
	store := NewStore()
	first := store.CreateSession([]string{"c1"}, timeNowUTC())
	second := store.CreateSession([]string{"c1"}, timeNowUTC())
	if _, _, err := store.AddPlayer(second.Code, "Ada", timeNowUTC(), 0); err != nil {
		t.Fatalf("join: %v", err)
	}

	summaries := store.ListSummaries()
	if len(summaries) != 2 {
		t.Fatalf("summary count = %d, want 2", len(summaries))
	}
	if summaries[0].ID != first.ID || summaries[1].ID != second.ID {
		t.Fatalf("summaries out of order: %+v", summaries)
	}
	if summaries[1].Players != 1 {
		t.Fatalf("player count = %d, want 1", summaries[1].Players)
	}
}
