// Package game is the interface the core publishes to its host: a facade
// over the position store, move generator, and searcher. Everything a GUI
// or terminal front end needs goes through here.
package game

import (
	"math/rand"

	bb "github.com/JoeChrisman/ChessEngine2021/internal/bitboard"
	"github.com/JoeChrisman/ChessEngine2021/internal/board"
	"github.com/JoeChrisman/ChessEngine2021/internal/config"
	"github.com/JoeChrisman/ChessEngine2021/internal/movegen"
	"github.com/JoeChrisman/ChessEngine2021/internal/search"
)

// Game holds one running game. It is not safe for concurrent use; the
// search blocks its caller until it finishes.
type Game struct {
	cfg       *config.Config
	board     *board.Board
	generator *movegen.Generator
	searcher  *search.Searcher
}

// New starts a game from the standard starting position. The attack tables
// come from the shared set unless the configuration asks for a different
// magic seed.
func New(cfg *config.Config) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var tables *movegen.AttackTables
	var err error
	if cfg.MagicSeed == config.DefaultMagicSeed {
		tables, err = movegen.DefaultTables()
	} else {
		tables, err = movegen.NewAttackTables(rand.NewSource(cfg.MagicSeed))
	}
	if err != nil {
		return nil, err
	}

	b := board.New(board.NewLayout(cfg.EngineIsWhite))
	g := movegen.NewGenerator(b, tables)
	return &Game{
		cfg:       cfg,
		board:     b,
		generator: g,
		searcher:  search.NewSearcher(b, g, cfg.SearchDepth),
	}, nil
}

// Board exposes the underlying position store, mainly for display code.
func (g *Game) Board() *board.Board {
	return g.board
}

// EngineToMove reports whose turn it is.
func (g *Game) EngineToMove() bool {
	return g.board.EngineToMove
}

// LegalMovesFor returns every legal move for a side, best ordered first.
// An empty list means checkmate or stalemate; InCheck tells them apart.
func (g *Game) LegalMovesFor(isEngine bool) []board.Move {
	g.generator.Generate(isEngine)
	return g.generator.SortedMoves()
}

// ApplyMove plays a move for the side to move. The move must come from
// LegalMovesFor; anything else is the caller's bug and is not validated.
func (g *Game) ApplyMove(m board.Move) {
	g.board.MakeMove(m, g.board.EngineToMove)
}

// PieceAt returns the piece on a square, or NoPiece.
func (g *Game) PieceAt(s bb.Square) board.Piece {
	return g.board.PieceAt(s)
}

// ChooseBestMove runs the search for the engine's best move. The second
// return is false when the engine has no moves and the game is over.
func (g *Game) ChooseBestMove() (board.Move, bool) {
	return g.searcher.BestMove()
}

// InCheck reports whether the given side's king is attacked.
func (g *Game) InCheck(isEngine bool) bool {
	return g.generator.IsKingInCheck(isEngine)
}
