package server

import (
	"fmt"
	"sync"
	"testing"

	"crisis-response/internal/catalog"
	"crisis-response/internal/config"
)

func newTestServer(t *testing.T, cat *catalog.Catalog) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.AutoAdvance = false
	srv := New(nil, cat, cfg)
	srv.pick = pickFirst
	return srv
}

// startedSession creates a session over the given deck, joins the named
// players (teams alternate red/blue in join order) and starts it.
func startedSession(t *testing.T, srv *Server, deck []string, nicknames ...string) *Session {
	t.Helper()
	session := srv.store.CreateSession(deck, timeNowUTC())
	for _, nickname := range nicknames {
		if _, _, err := srv.store.AddPlayer(session.Code, nickname, timeNowUTC(), 0); err != nil {
			t.Fatalf("join %s: %v", nickname, err)
		}
	}
	if _, err := srv.store.UpdateSession(session.ID, func(session *Session) error {
		if err := startSession(session, timeNowUTC()); err != nil {
			return err
		}
		return initializeLeaders(session)
	}); err != nil {
		t.Fatalf("start: %v", err)
	}
	return session
}

func TestAdvanceMonotonicProgression(t *testing.T) {
	srv := newTestServer(t, testCatalog())
	session := startedSession(t, srv, []string{"c1", "c2", "c1"}, "Ada", "Ben")

	for round, wantIndex := range []int{1, 2} {
		result, err := srv.AdvanceRound(session.Code)
		if err != nil {
			t.Fatalf("advance %d: %v", round, err)
		}
		if result.Completed {
			t.Fatalf("advance %d: completed early", round)
		}
		if result.CurrentIndex != wantIndex {
			t.Fatalf("advance %d: index = %d, want %d", round, result.CurrentIndex, wantIndex)
		}
		if result.Status != statusInProgress {
			t.Fatalf("advance %d: status = %q", round, result.Status)
		}
	}

	result, err := srv.AdvanceRound(session.Code)
	if err != nil {
		t.Fatalf("final advance: %v", err)
	}
	if !result.Completed || result.Status != statusCompleted {
		t.Fatalf("final advance: %+v, want completion", result)
	}
	// The pointer parks on the last card rather than running past the deck.
	if result.CurrentIndex != 2 {
		t.Fatalf("final index = %d, want 2", result.CurrentIndex)
	}
	if session.EndedAt == nil {
		t.Fatal("completed session has no end time")
	}
}

func TestAdvanceBeforeStartRejected(t *testing.T) {
	srv := newTestServer(t, testCatalog())
	session := srv.store.CreateSession([]string{"c1"}, timeNowUTC())

	if _, err := srv.AdvanceRound(session.Code); err != ErrNotInProgress {
		t.Fatalf("advance on scheduled session: %v, want ErrNotInProgress", err)
	}
	if session.CurrentIndex != 0 || session.Status != statusScheduled {
		t.Fatal("failed advance mutated the session")
	}
}

func TestAdvanceAfterCompletionRejected(t *testing.T) {
	srv := newTestServer(t, testCatalog())
	session := startedSession(t, srv, []string{"c1"}, "Ada", "Ben")

	if _, err := srv.AdvanceRound(session.Code); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if _, err := srv.AdvanceRound(session.Code); err != ErrAlreadyCompleted {
		t.Fatalf("advance after completion: %v, want ErrAlreadyCompleted", err)
	}
}

func TestAdvanceUnknownSession(t *testing.T) {
	srv := newTestServer(t, testCatalog())
	if _, err := srv.AdvanceRound("missing"); err != ErrSessionNotFound {
		t.Fatalf("advance unknown session: %v, want ErrSessionNotFound", err)
	}
}

func TestAdvanceLeaderConflictLeavesSessionUntouched(t *testing.T) {
	srv := newTestServer(t, testCatalog())
	session := startedSession(t, srv, []string{"c1", "c2"}, "Ada", "Ben", "Cara")

	// Corrupt red leadership to simulate a data-integrity violation.
	if _, err := srv.store.UpdateSession(session.ID, func(session *Session) error {
		for i := range session.Players {
			if session.Players[i].Team == teamRed {
				session.Players[i].IsLeader = true
			}
		}
		return nil
	}); err != nil {
		t.Fatalf("corrupt: %v", err)
	}

	if _, err := srv.AdvanceRound(session.Code); err != ErrLeaderConflict {
		t.Fatalf("advance: %v, want ErrLeaderConflict", err)
	}
	if session.CurrentIndex != 0 {
		t.Fatalf("index = %d after failed advance, want 0", session.CurrentIndex)
	}
	if len(session.Responses) != 0 {
		t.Fatal("failed advance wrote ledger entries")
	}
	for _, player := range session.Players {
		if player.Score != 0 {
			t.Fatalf("player %s scored %d during failed advance", player.Nickname, player.Score)
		}
	}
}

func TestAdvanceAppliesSubmittedResponse(t *testing.T) {
	srv := newTestServer(t, testCatalog())
	session := startedSession(t, srv, []string{"c1", "c2"}, "Ada", "Ben", "Cara", "Dan")

	redLeader := teamMembers(session, teamRed)[0]
	if _, _, err := srv.SubmitResponse(session.Code, redLeader.ID, "c1", "c1-b"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := srv.AdvanceRound(session.Code); err != nil {
		t.Fatalf("advance: %v", err)
	}

	for _, member := range teamMembers(session, teamRed) {
		if member.Score != -5 {
			t.Fatalf("red player %s score = %d, want -5", member.Nickname, member.Score)
		}
	}
	// Blue had no submission; fallback resolves the first option for them.
	for _, member := range teamMembers(session, teamBlue) {
		if member.Score != 10 {
			t.Fatalf("blue player %s score = %d, want 10", member.Nickname, member.Score)
		}
	}
}

func TestSubmitResponseValidation(t *testing.T) {
	srv := newTestServer(t, testCatalog())
	session := startedSession(t, srv, []string{"c1", "c2"}, "Ada", "Ben")
	ada := session.Players[0].ID

	if _, _, err := srv.SubmitResponse(session.Code, 999, "c1", "c1-a"); err != ErrPlayerNotFound {
		t.Fatalf("unknown player: %v, want ErrPlayerNotFound", err)
	}
	if _, _, err := srv.SubmitResponse(session.Code, ada, "c2", "c2-a"); err != ErrNotCurrentCard {
		t.Fatalf("stale card: %v, want ErrNotCurrentCard", err)
	}
	if _, _, err := srv.SubmitResponse(session.Code, ada, "c1", "c2-a"); err != ErrCardNotFound {
		t.Fatalf("foreign option: %v, want ErrCardNotFound", err)
	}
	if _, _, err := srv.SubmitResponse(session.Code, ada, "c1", "c1-a"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, _, err := srv.SubmitResponse(session.Code, ada, "c1", "c1-b"); err != ErrDuplicateResponse {
		t.Fatalf("duplicate: %v, want ErrDuplicateResponse", err)
	}
}

func TestSubmitResponseRequiresInProgress(t *testing.T) {
	srv := newTestServer(t, testCatalog())
	session := srv.store.CreateSession([]string{"c1"}, timeNowUTC())
	_, ada, err := srv.store.AddPlayer(session.Code, "Ada", timeNowUTC(), 0)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, _, err := srv.SubmitResponse(session.Code, ada.ID, "c1", "c1-a"); err != ErrNotInProgress {
		t.Fatalf("submit on scheduled session: %v, want ErrNotInProgress", err)
	}
}

// concurrencyDeck builds n single-option cards worth 10 points each so a full
// play-through has a closed-form final score.
func concurrencyDeck(n int) (*catalog.Catalog, []string) {
	cards := make([]catalog.Card, 0, n)
	deck := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("card-%d", i)
		cards = append(cards, catalog.Card{
			ID:    id,
			Title: fmt.Sprintf("Card %d", i),
			Options: []catalog.ResponseOption{
				{ID: id + "-a", CardID: id, Text: "Only option", Score: scorePtr(10)},
			},
		})
		deck = append(deck, id)
	}
	return catalog.New(cards), deck
}

func TestAdvanceConcurrentCallsResolveEachCardOnce(t *testing.T) {
	const deckSize = 6
	cat, deck := concurrencyDeck(deckSize)
	srv := newTestServer(t, cat)
	session := startedSession(t, srv, deck, "Ada", "Ben")

	const callers = 4 * deckSize
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := srv.AdvanceRound(session.Code)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes := 0
	for err := range errs {
		switch err {
		case nil:
			successes++
		case ErrAlreadyCompleted:
		default:
			t.Fatalf("unexpected advance error: %v", err)
		}
	}
	// Exactly one success per card: every extra call lost the race and saw the
	// completed state.
	if successes != deckSize {
		t.Fatalf("successful advances = %d, want %d", successes, deckSize)
	}
	if session.Status != statusCompleted {
		t.Fatalf("status = %q, want %q", session.Status, statusCompleted)
	}
	if session.CurrentIndex != deckSize-1 {
		t.Fatalf("index = %d, want %d", session.CurrentIndex, deckSize-1)
	}
	// Single-member teams keep their leader, so every round falls back to the
	// only option and credits 10 to each player exactly once.
	for _, player := range session.Players {
		if player.Score != deckSize*10 {
			t.Fatalf("player %s score = %d, want %d", player.Nickname, player.Score, deckSize*10)
		}
	}
	if len(session.Responses) != 2*deckSize {
		t.Fatalf("ledger entries = %d, want %d", len(session.Responses), 2*deckSize)
	}
}

func TestConcurrentSessionsAdvanceIndependently(t *testing.T) {
	cat, deck := concurrencyDeck(3)
	srv := newTestServer(t, cat)
	first := startedSession(t, srv, deck, "Ada", "Ben")
	second := startedSession(t, srv, deck, "Cara", "Dan")

	var wg sync.WaitGroup
	for _, code := range []string{first.Code, second.Code} {
		code := code
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				result, err := srv.AdvanceRound(code)
				if err != nil || result.Completed {
					return
				}
			}
		}()
	}
	wg.Wait()

	for _, session := range []*Session{first, second} {
		if session.Status != statusCompleted {
			t.Fatalf("session %s status = %q, want completed", session.Code, session.Status)
		}
	}
}
