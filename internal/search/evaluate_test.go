package search

import (
	"testing"

	bb "github.com/JoeChrisman/ChessEngine2021/internal/bitboard"
	"github.com/JoeChrisman/ChessEngine2021/internal/board"
	"github.com/JoeChrisman/ChessEngine2021/internal/testutil"
)

// swapSides mirrors a position vertically and hands each side's pieces to
// the other, the transformation under which a correct evaluation negates.
func swapSides(p *board.Position) *board.Position {
	swapped := &board.Position{}
	for k := board.Pawn; k <= board.King; k++ {
		engine := board.PieceOf(k, true)
		player := board.PieceOf(k, false)
		swapped.Pieces[engine] = bb.FlipVertical(p.Pieces[player])
		swapped.Pieces[player] = bb.FlipVertical(p.Pieces[engine])
	}
	return swapped
}

func TestEvaluateStartPositionIsZero(t *testing.T) {
	for _, engineIsWhite := range []bool{true, false} {
		b := board.New(board.NewLayout(engineIsWhite))
		testutil.AssertEqual(t, Evaluate(&b.Position), 0, "engineIsWhite=%v", engineIsWhite)
	}
}

func TestEvaluateMaterial(t *testing.T) {
	tests := []struct {
		name   string
		remove board.Piece
		want   int
	}{
		{"player queen gone", board.PlayerQueen, 800},
		{"player rook gone", board.PlayerRook, 500},
		{"engine knight gone", board.EngineKnight, -350},
		{"engine pawn gone", board.EnginePawn, -100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := board.New(board.NewLayout(true))
			// Clear one piece of the kind; pawns and minor pieces lose
			// their least significant bit.
			pieces := b.Position.Pieces[tt.remove]
			b.Position.Pieces[tt.remove] ^= pieces & (-pieces)
			b.Update()
			testutil.AssertEqual(t, Evaluate(&b.Position), tt.want)
		})
	}
}

func TestEvaluatePositionalBonuses(t *testing.T) {
	tests := []struct {
		name  string
		place board.Piece
		at    bb.Square
		want  int
	}{
		{"engine knight in the centre", board.EngineKnight, 27, 350 + 70},
		{"engine bishop in the centre", board.EngineBishop, 28, 400 + 60},
		{"player knight in the centre", board.PlayerKnight, 36, -(350 + 70)},
		{"engine pawn in the centre four", board.EnginePawn, 27, 100 + 10 + 30 + 15},
		{"engine pawn advanced off centre files", board.EnginePawn, 33, 100},
		{"player pawn in the centre four", board.PlayerPawn, 28, -(100 + 10 + 30 + 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := board.NewEmpty(board.NewLayout(true))
			b.Place(board.EngineKing, 0)
			b.Place(board.PlayerKing, 63)
			b.Place(tt.place, tt.at)
			b.Update()
			testutil.AssertEqual(t, Evaluate(&b.Position), tt.want)
		})
	}
}

// TestEvaluateSymmetric drives the negation law over a handful of
// asymmetric positions reached from the start.
func TestEvaluateSymmetric(t *testing.T) {
	b := board.New(board.NewLayout(true))
	moves := []struct {
		move     board.Move
		isEngine bool
	}{
		{board.Move{Type: board.Normal, From: 11, To: 27, Moving: board.EnginePawn, Captured: board.NoPiece}, true},
		{board.Move{Type: board.Normal, From: 50, To: 34, Moving: board.PlayerPawn, Captured: board.NoPiece}, false},
		{board.Move{Type: board.Normal, From: 1, To: 18, Moving: board.EngineKnight, Captured: board.NoPiece}, true},
	}

	testEvalNegates := func() {
		score := Evaluate(&b.Position)
		mirrored := Evaluate(swapSides(&b.Position))
		testutil.AssertEqual(t, mirrored, -score)
	}

	testEvalNegates()
	for _, m := range moves {
		b.MakeMove(m.move, m.isEngine)
		testEvalNegates()
	}
}
