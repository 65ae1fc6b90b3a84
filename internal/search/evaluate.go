package search

import (
	bb "github.com/JoeChrisman/ChessEngine2021/internal/bitboard"
	"github.com/JoeChrisman/ChessEngine2021/internal/board"
)

// Positional weights, applied with opposite signs for the two sides.
const (
	knightCenterBonus = 70
	bishopCenterBonus = 60
	pawnCenterBonus   = 10
	pawnCenter4Bonus  = 30
	advancedPawnBonus = 15
)

// Evaluate scores a position statically. Positive favours the engine.
// Material counts every piece but the kings; on top of that, minor pieces
// earn a bonus for sitting in the extended centre, and pawns for holding or
// advancing through it.
func Evaluate(p *board.Position) int {
	score := 0

	for piece := board.PlayerPawn; piece <= board.PlayerQueen; piece++ {
		score -= bb.Count(p.Pieces[piece]) * board.PieceValues[piece]
	}
	for piece := board.EnginePawn; piece <= board.EngineQueen; piece++ {
		score += bb.Count(p.Pieces[piece]) * board.PieceValues[piece]
	}

	score -= bb.Count(p.Pieces[board.PlayerKnight]&bb.Center16) * knightCenterBonus
	score += bb.Count(p.Pieces[board.EngineKnight]&bb.Center16) * knightCenterBonus

	score -= bb.Count(p.Pieces[board.PlayerBishop]&bb.Center16) * bishopCenterBonus
	score += bb.Count(p.Pieces[board.EngineBishop]&bb.Center16) * bishopCenterBonus

	score -= bb.Count(p.Pieces[board.PlayerPawn]&bb.PawnCenter) * pawnCenterBonus
	score -= bb.Count(p.Pieces[board.PlayerPawn]&bb.Center4) * pawnCenter4Bonus
	score -= bb.Count(p.Pieces[board.PlayerPawn]&bb.PlayerAdvancedPawns) * advancedPawnBonus

	score += bb.Count(p.Pieces[board.EnginePawn]&bb.PawnCenter) * pawnCenterBonus
	score += bb.Count(p.Pieces[board.EnginePawn]&bb.Center4) * pawnCenter4Bonus
	score += bb.Count(p.Pieces[board.EnginePawn]&bb.EngineAdvancedPawns) * advancedPawnBonus

	return score
}
