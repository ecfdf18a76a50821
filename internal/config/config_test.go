package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		App:      AppConfig{SessionStore: "memory"},
		Database: DatabaseConfig{Connection: "postgres://localhost/assistant"},
		Engine: EngineConfig{
			StalenessWindow:  1,
			FollowUpTokens:   4,
			StrictThreshold:  0.45,
			RelaxedThreshold: 0.25,
			TopK:             5,
			TopN:             15,
			ComposeTimeout:   30 * time.Second,
			MaxReplyLength:   2000,
			SessionTTL:       time.Hour,
		},
		Ai: AIConfig{RetryAttempts: 3},
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"missing database", func(c *Config) { c.Database.Connection = "" }, "DB_CONNECTION_STRING"},
		{"inverted thresholds", func(c *Config) { c.Engine.StrictThreshold = 0.2 }, "SEARCH_STRICT_THRESHOLD"},
		{"equal thresholds", func(c *Config) { c.Engine.StrictThreshold = 0.25 }, "SEARCH_STRICT_THRESHOLD"},
		{"zero top k", func(c *Config) { c.Engine.TopK = 0 }, "SEARCH_TOP_K"},
		{"top n below top k", func(c *Config) { c.Engine.TopN = 3 }, "SEARCH_TOP_N"},
		{"negative staleness", func(c *Config) { c.Engine.StalenessWindow = -1 }, "ENGINE_STALENESS_WINDOW"},
		{"zero staleness disables follow-ups", func(c *Config) { c.Engine.StalenessWindow = 0 }, "ENGINE_STALENESS_WINDOW"},
		{"zero timeout", func(c *Config) { c.Engine.ComposeTimeout = 0 }, "COMPOSE_TIMEOUT"},
		{"unknown session store", func(c *Config) { c.App.SessionStore = "etcd" }, "SESSION_STORE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate accepted a broken configuration")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want mention of %s", err, tt.wantMsg)
			}
		})
	}
}
