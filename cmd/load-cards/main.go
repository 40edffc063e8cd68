package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"crisis-response/internal/catalog"
	"crisis-response/internal/config"
	"crisis-response/internal/db"
)

type cardFile struct {
	Cards []cardRecord `json:"cards"`
}

type cardRecord struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Scenario  string         `json:"scenario"`
	TimeLimit int            `json:"time_limit"`
	Options   []optionRecord `json:"options"`
}

type optionRecord struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Stability int    `json:"stability"`
	Trust     int    `json:"trust"`
	Resources int    `json:"resources"`
	Morale    int    `json:"morale"`
	Readiness int    `json:"readiness"`
	Score     *int   `json:"score"`
}

func main() {
	filePath := flag.String("file", "", "path to cards json (builtin set when empty)")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}

	conn, err := db.Open()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	cards, err := readCards(*filePath)
	if err != nil {
		log.Fatalf("failed to read cards: %v", err)
	}

	loaded := 0
	for _, card := range cards {
		record := db.Card{
			ID:               card.ID,
			Title:            card.Title,
			Scenario:         card.Scenario,
			TimeLimitSeconds: card.TimeLimitSeconds,
		}
		if err := conn.Save(&record).Error; err != nil {
			log.Fatalf("failed to upsert card %s: %v", card.ID, err)
		}
		for _, option := range card.Options {
			optionRow := db.ResponseOption{
				ID:        option.ID,
				CardID:    card.ID,
				Text:      option.Text,
				Stability: option.Stability,
				Trust:     option.Trust,
				Resources: option.Resources,
				Morale:    option.Morale,
				Readiness: option.Readiness,
				Score:     option.Score,
			}
			if err := conn.Save(&optionRow).Error; err != nil {
				log.Fatalf("failed to upsert option %s: %v", option.ID, err)
			}
		}
		loaded++
	}
	log.Printf("loaded %d cards", loaded)
}

func readCards(path string) ([]catalog.Card, error) {
	if path == "" {
		return catalog.BuiltinCards(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file cardFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	cards := make([]catalog.Card, 0, len(file.Cards))
	for _, record := range file.Cards {
		card := catalog.Card{
			ID:               record.ID,
			Title:            record.Title,
			Scenario:         record.Scenario,
			TimeLimitSeconds: record.TimeLimit,
		}
		for _, option := range record.Options {
			card.Options = append(card.Options, catalog.ResponseOption{
				ID:        option.ID,
				CardID:    record.ID,
				Text:      option.Text,
				Stability: option.Stability,
				Trust:     option.Trust,
				Resources: option.Resources,
				Morale:    option.Morale,
				Readiness: option.Readiness,
				Score:     option.Score,
			})
		}
		cards = append(cards, card)
	}
	return cards, nil
}
