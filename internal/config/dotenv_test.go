package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg != Default() {
		t.Fatalf("Load with empty environment = %+v, want defaults", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CARDS_PER_SESSION", "4")
	t.Setenv("ROUND_SECONDS", "30")
	t.Setenv("AUTO_ADVANCE", "false")
	t.Setenv("MAX_PLAYERS", "6")

	cfg := Load()
	if cfg.CardsPerSession != 4 {
		t.Fatalf("CardsPerSession = %d, want 4", cfg.CardsPerSession)
	}
	if cfg.RoundDurationSeconds != 30 {
		t.Fatalf("RoundDurationSeconds = %d, want 30", cfg.RoundDurationSeconds)
	}
	if cfg.AutoAdvance {
		t.Fatal("AutoAdvance = true, want false")
	}
	if cfg.MaxPlayers != 6 {
		t.Fatalf("MaxPlayers = %d, want 6", cfg.MaxPlayers)
	}
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("CARDS_PER_SESSION", "zero")
	t.Setenv("ROUND_SECONDS", "-10")

	cfg := Load()
	if cfg.CardsPerSession != Default().CardsPerSession {
		t.Fatalf("CardsPerSession = %d, want default", cfg.CardsPerSession)
	}
	if cfg.RoundDurationSeconds != Default().RoundDurationSeconds {
		t.Fatalf("RoundDurationSeconds = %d, want default", cfg.RoundDurationSeconds)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv("does-not-exist.env"); err != nil {
		t.Fatalf("missing .env must be tolerated, got %v", err)
	}
}
