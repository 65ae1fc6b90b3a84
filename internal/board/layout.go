package board

import bb "github.com/JoeChrisman/ChessEngine2021/internal/bitboard"

// CastleMasks holds the castling geometry for one side.
//
// KingsidePath and QueensidePath cover the king's transit, including its
// origin and destination squares: every square on them must be safe to
// castle. QueensideGap is the square the queenside rook crosses but the king
// does not; it must be empty but may be attacked.
type CastleMasks struct {
	KingsidePath  bb.Bitboard
	QueensidePath bb.Bitboard
	KingsideDest  bb.Bitboard
	QueensideDest bb.Bitboard
	KingsideRook  bb.Bitboard
	QueensideRook bb.Bitboard
	QueensideGap  bb.Bitboard
}

// Layout carries every constant that depends on which colour the engine
// plays. The engine always occupies the low ranks of the board; its colour
// only decides whether the king starts on square 3 or square 4, which flips
// the castling geometry for both sides.
type Layout struct {
	EngineIsWhite bool

	Engine CastleMasks
	Player CastleMasks

	initial [64]Piece
}

// NewLayout computes the layout for the configured engine colour.
func NewLayout(engineIsWhite bool) Layout {
	l := Layout{EngineIsWhite: engineIsWhite}

	if engineIsWhite {
		l.Engine = CastleMasks{
			KingsidePath:  0x000000000000000E,
			QueensidePath: 0x0000000000000038,
			KingsideDest:  0x0000000000000002,
			QueensideDest: 0x0000000000000020,
			KingsideRook:  0x0000000000000001,
			QueensideRook: 0x0000000000000080,
			QueensideGap:  0x0000000000000040,
		}
		l.Player = CastleMasks{
			KingsidePath:  0x0E00000000000000,
			QueensidePath: 0x3800000000000000,
			KingsideDest:  0x0200000000000000,
			QueensideDest: 0x2000000000000000,
			KingsideRook:  0x0100000000000000,
			QueensideRook: 0x8000000000000000,
			QueensideGap:  0x4000000000000000,
		}
	} else {
		l.Engine = CastleMasks{
			KingsidePath:  0x0000000000000070,
			QueensidePath: 0x000000000000001C,
			KingsideDest:  0x0000000000000040,
			QueensideDest: 0x0000000000000004,
			KingsideRook:  0x0000000000000080,
			QueensideRook: 0x0000000000000001,
			QueensideGap:  0x0000000000000002,
		}
		l.Player = CastleMasks{
			KingsidePath:  0x7000000000000000,
			QueensidePath: 0x1C00000000000000,
			KingsideDest:  0x4000000000000000,
			QueensideDest: 0x0400000000000000,
			KingsideRook:  0x8000000000000000,
			QueensideRook: 0x0100000000000000,
			QueensideGap:  0x0200000000000000,
		}
	}

	backRank := [8]Kind{Rook, Knight, Bishop, King, Queen, Bishop, Knight, Rook}
	if !engineIsWhite {
		backRank[3], backRank[4] = Queen, King
	}
	for i := range l.initial {
		l.initial[i] = NoPiece
	}
	for col := 0; col < 8; col++ {
		l.initial[col] = PieceOf(backRank[col], true)
		l.initial[8+col] = EnginePawn
		l.initial[48+col] = PlayerPawn
		l.initial[56+col] = PieceOf(backRank[col], false)
	}
	return l
}

// Side returns the castle masks for the given side.
func (l *Layout) Side(isEngine bool) *CastleMasks {
	if isEngine {
		return &l.Engine
	}
	return &l.Player
}
