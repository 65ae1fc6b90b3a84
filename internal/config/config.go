// Package config provides runtime configuration for the chess engine.
package config

import (
	"github.com/JoeChrisman/ChessEngine2021/internal/errors"
)

// Default values applied by NewConfig.
const (
	DefaultSearchDepth  = 5
	DefaultMagicSeed    = 0x5EED5EED
	DefaultPerftWorkers = 4
)

// Config holds the knobs an embedder may set before starting a game.
// The engine colour is fixed for the life of a game. It decides the
// starting squares of the kings and queens, the castling geometry and the
// square names (board.Layout); pawn direction does not depend on it.
type Config struct {
	// EngineIsWhite assigns the engine the white pieces (and the first
	// move). The engine's pieces occupy the low square indexes either way.
	EngineIsWhite bool

	// SearchDepth is the fixed alpha-beta depth in plies.
	SearchDepth int

	// MagicSeed seeds the per-instance RNG used by the magic-number
	// search, so table construction is reproducible.
	MagicSeed int64

	// PerftWorkers bounds the worker pool used by parallel perft. The
	// search itself is always single threaded.
	PerftWorkers int
}

// NewConfig returns a Config with the default settings: the engine plays
// White at depth 5.
func NewConfig() *Config {
	return &Config{
		EngineIsWhite: true,
		SearchDepth:   DefaultSearchDepth,
		MagicSeed:     DefaultMagicSeed,
		PerftWorkers:  DefaultPerftWorkers,
	}
}

// Validate reports whether the configuration is usable.
func (c *Config) Validate() error {
	if c.SearchDepth < 1 {
		return errors.Wrapf(errors.ErrInvalidConfig, "search depth %d", c.SearchDepth)
	}
	if c.PerftWorkers < 1 {
		return errors.Wrapf(errors.ErrInvalidConfig, "perft workers %d", c.PerftWorkers)
	}
	return nil
}
