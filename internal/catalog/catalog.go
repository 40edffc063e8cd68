package catalog

import (
	"errors"
	"math/rand/v2"
	"sort"

	"gorm.io/gorm"

	"crisis-response/internal/db"
)

// ResponseOption is one of the 2-3 choices on a scenario card. The five effect
// axes describe the in-fiction consequences; Score is the team reward or
// penalty applied when the option becomes a team's binding response.
type ResponseOption struct {
	ID        string
	CardID    string
	Text      string
	Stability int
	Trust     int
	Resources int
	Morale    int
	Readiness int
	Score     *int
}

type Card struct {
	ID               string
	Title            string
	Scenario         string
	TimeLimitSeconds int
	Options          []ResponseOption
}

// Catalog is the read-only card set for the game. It is immutable once built.
type Catalog struct {
	cards map[string]Card
	order []string
}

func New(cards []Card) *Catalog {
	c := &Catalog{cards: make(map[string]Card, len(cards))}
	for _, card := range cards {
		if _, ok := c.cards[card.ID]; ok {
			continue
		}
		c.cards[card.ID] = card
		c.order = append(c.order, card.ID)
	}
	return c
}

func (c *Catalog) Get(id string) (Card, bool) {
	card, ok := c.cards[id]
	return card, ok
}

func (c *Catalog) Len() int {
	return len(c.order)
}

// Draw returns a freshly shuffled sequence of up to n card IDs. The returned
// slice is the session's fixed draw order; the catalog itself never changes.
func (c *Catalog) Draw(n int) []string {
	sequence := make([]string, len(c.order))
	copy(sequence, c.order)
	rand.Shuffle(len(sequence), func(i, j int) {
		sequence[i], sequence[j] = sequence[j], sequence[i]
	})
	if n > 0 && n < len(sequence) {
		sequence = sequence[:n]
	}
	return sequence
}

// FromDB loads the catalog from Postgres. Falls back to an error rather than
// an empty catalog so a misconfigured deploy fails loudly at startup.
func FromDB(conn *gorm.DB) (*Catalog, error) {
	if conn == nil {
		return nil, errors.New("db connection is nil")
	}
	var records []db.Card
	if err := conn.Order("id asc").Find(&records).Error; err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("card catalog is empty")
	}
	var optionRecords []db.ResponseOption
	if err := conn.Order("id asc").Find(&optionRecords).Error; err != nil {
		return nil, err
	}
	optionsByCard := make(map[string][]ResponseOption)
	for _, record := range optionRecords {
		optionsByCard[record.CardID] = append(optionsByCard[record.CardID], ResponseOption{
			ID:        record.ID,
			CardID:    record.CardID,
			Text:      record.Text,
			Stability: record.Stability,
			Trust:     record.Trust,
			Resources: record.Resources,
			Morale:    record.Morale,
			Readiness: record.Readiness,
			Score:     record.Score,
		})
	}
	cards := make([]Card, 0, len(records))
	for _, record := range records {
		options := optionsByCard[record.ID]
		sort.Slice(options, func(i, j int) bool { return options[i].ID < options[j].ID })
		cards = append(cards, Card{
			ID:               record.ID,
			Title:            record.Title,
			Scenario:         record.Scenario,
			TimeLimitSeconds: record.TimeLimitSeconds,
			Options:          options,
		})
	}
	return New(cards), nil
}
