package config

import (
	stderrors "errors"
	"testing"

	"github.com/JoeChrisman/ChessEngine2021/internal/errors"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	if !cfg.EngineIsWhite {
		t.Error("the engine should default to playing White")
	}
	if cfg.SearchDepth != DefaultSearchDepth {
		t.Errorf("default depth = %d, want %d", cfg.SearchDepth, DefaultSearchDepth)
	}
	if cfg.PerftWorkers != DefaultPerftWorkers {
		t.Errorf("default workers = %d, want %d", cfg.PerftWorkers, DefaultPerftWorkers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("the defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"depth one", func(c *Config) { c.SearchDepth = 1 }, false},
		{"zero depth", func(c *Config) { c.SearchDepth = 0 }, true},
		{"negative depth", func(c *Config) { c.SearchDepth = -2 }, true},
		{"zero workers", func(c *Config) { c.PerftWorkers = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if !stderrors.Is(err, errors.ErrInvalidConfig) {
					t.Errorf("want ErrInvalidConfig, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
