// Package board implements the position store: the bitboard representation
// of one chess position, move application, and the derived occupancy masks
// move generation runs on.
package board

import (
	"fmt"

	bb "github.com/JoeChrisman/ChessEngine2021/internal/bitboard"
)

// Move describes one half-move. Castling is encoded as a Normal king move
// whose from and to columns differ by two; the rook leg is inferred when the
// move is applied.
type Move struct {
	Type     MoveType
	From     bb.Square
	To       bb.Square
	Moving   Piece
	Captured Piece
}

// IsPromotion reports whether the move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Type < EnPassant
}

// IsCastle reports whether the move is a castling king move.
func (m Move) IsCastle() bool {
	return m.Moving.Kind() == King && colDiff(m.From, m.To) > 1
}

// Position is the minimal state of one chess position: twelve piece
// bitboards, the four castling rights, and the en-passant capture square.
type Position struct {
	Pieces [12]bb.Bitboard

	PlayerCastleQueenside bool
	PlayerCastleKingside  bool
	EngineCastleQueenside bool
	EngineCastleKingside  bool

	// EnPassantCapture has at most one bit set: the square of a pawn that
	// just advanced two squares and can be captured en passant.
	EnPassantCapture bb.Bitboard
}

// Snapshot is a deep copy of everything a move can change, used to undo
// moves during search.
type Snapshot struct {
	Position     Position
	EngineToMove bool
}

// Board is a Position plus the derived occupancy masks and side to move.
// The derived masks are refreshed by Update after every change to Pieces.
type Board struct {
	Layout   Layout
	Position Position

	EngineToMove bool

	EnginePieces    bb.Bitboard
	PlayerPieces    bb.Bitboard
	OccupiedSquares bb.Bitboard
	EmptySquares    bb.Bitboard
	PlayerOrEmpty   bb.Bitboard // movable squares for engine pieces
	EngineOrEmpty   bb.Bitboard // movable squares for player pieces
}

// New returns a board set up with the standard starting position for the
// given layout. The engine moves first when it plays White.
func New(layout Layout) *Board {
	b := NewEmpty(layout)
	for sq, piece := range layout.initial {
		if piece != NoPiece {
			b.Position.Pieces[piece] |= bb.BoardOf(bb.Square(sq))
		}
	}
	b.Position.PlayerCastleQueenside = true
	b.Position.PlayerCastleKingside = true
	b.Position.EngineCastleQueenside = true
	b.Position.EngineCastleKingside = true
	b.Update()
	return b
}

// NewEmpty returns a board with no pieces and no castling rights, for
// building fixture positions with Place.
func NewEmpty(layout Layout) *Board {
	b := &Board{Layout: layout}
	b.EngineToMove = layout.EngineIsWhite
	b.Update()
	return b
}

// Place puts a piece on a square. Callers building a position must finish
// with Update before generating moves.
func (b *Board) Place(p Piece, s bb.Square) {
	b.Position.Pieces[p] |= bb.BoardOf(s)
}

// Update refreshes the derived occupancy masks from the piece bitboards.
func (b *Board) Update() {
	p := &b.Position
	b.EnginePieces = p.Pieces[EnginePawn] | p.Pieces[EngineKnight] |
		p.Pieces[EngineBishop] | p.Pieces[EngineRook] |
		p.Pieces[EngineQueen] | p.Pieces[EngineKing]

	b.PlayerPieces = p.Pieces[PlayerPawn] | p.Pieces[PlayerKnight] |
		p.Pieces[PlayerBishop] | p.Pieces[PlayerRook] |
		p.Pieces[PlayerQueen] | p.Pieces[PlayerKing]

	b.OccupiedSquares = b.EnginePieces | b.PlayerPieces
	b.EmptySquares = ^b.OccupiedSquares
	b.PlayerOrEmpty = b.PlayerPieces | b.EmptySquares
	b.EngineOrEmpty = b.EnginePieces | b.EmptySquares
}

// Clone returns an independent copy of the board. Every field is held by
// value, so a shallow copy is a deep one.
func (b *Board) Clone() *Board {
	clone := *b
	return &clone
}

// Snapshot captures the position and side to move for a later Restore.
func (b *Board) Snapshot() Snapshot {
	return Snapshot{Position: b.Position, EngineToMove: b.EngineToMove}
}

// Restore rewinds the board to a snapshot, including the derived masks.
func (b *Board) Restore(s Snapshot) {
	b.Position = s.Position
	b.EngineToMove = s.EngineToMove
	b.Update()
}

// MakeMove applies a move for the given side. The move must come from the
// generator; nothing is validated here.
func (b *Board) MakeMove(m Move, isEngine bool) {
	enPassant := b.Position.EnPassantCapture
	b.Position.EnPassantCapture = 0

	squareTo := bb.BoardOf(m.To)
	squareFrom := bb.BoardOf(m.From)

	// Lift the moving piece off its origin square.
	b.Position.Pieces[m.Moving] ^= squareFrom

	if m.IsPromotion() {
		// The pawn never lands: the promoted piece appears instead.
		b.Position.Pieces[PieceOf(m.Type.PromotionKind(), isEngine)] |= squareTo
	} else {
		b.Position.Pieces[m.Moving] |= squareTo
	}

	if m.Captured != NoPiece {
		if m.Type == EnPassant {
			b.Position.Pieces[m.Captured] ^= enPassant
		} else {
			b.Position.Pieces[m.Captured] ^= squareTo
		}
		// Capturing a rook on its original corner takes the opponent's
		// castling right with it.
		if m.Captured == PieceOf(Rook, !isEngine) {
			opp := b.Layout.Side(!isEngine)
			if squareTo&opp.KingsideRook != 0 {
				b.setCastleRight(!isEngine, true, false)
			}
			if squareTo&opp.QueensideRook != 0 {
				b.setCastleRight(!isEngine, false, false)
			}
		}
	}

	switch {
	case m.Moving == PieceOf(King, isEngine):
		if colDiff(m.From, m.To) > 1 {
			// Castling: the rook jumps to the square the king crossed.
			rook := PieceOf(Rook, isEngine)
			b.Position.Pieces[rook] ^= bb.BoardOf(castleRookCorner(m.From, m.To))
			b.Position.Pieces[rook] |= bb.BoardOf((m.From + m.To) / 2)
		}
		b.setCastleRight(isEngine, true, false)
		b.setCastleRight(isEngine, false, false)

	case m.Moving == PieceOf(Rook, isEngine):
		own := b.Layout.Side(isEngine)
		if squareFrom&own.KingsideRook != 0 {
			b.setCastleRight(isEngine, true, false)
		}
		if squareFrom&own.QueensideRook != 0 {
			b.setCastleRight(isEngine, false, false)
		}

	case m.Moving == PieceOf(Pawn, isEngine):
		if absDiff(m.From, m.To) == 16 {
			// A double push is only capturable en passant when an enemy
			// pawn sits on an adjacent file of the destination rank.
			rank := bb.Rank3
			if !isEngine {
				rank = bb.Rank4
			}
			enemyPawns := b.Position.Pieces[PieceOf(Pawn, !isEngine)]
			if (squareTo<<1|squareTo>>1)&rank&enemyPawns != 0 {
				b.Position.EnPassantCapture = squareTo
			}
		}
	}

	b.Update()
	b.EngineToMove = !b.EngineToMove
}

// setCastleRight sets one castling right. Rights are only ever cleared
// during a game.
func (b *Board) setCastleRight(isEngine, kingside, allowed bool) {
	switch {
	case isEngine && kingside:
		b.Position.EngineCastleKingside = allowed
	case isEngine && !kingside:
		b.Position.EngineCastleQueenside = allowed
	case !isEngine && kingside:
		b.Position.PlayerCastleKingside = allowed
	default:
		b.Position.PlayerCastleQueenside = allowed
	}
}

// castleRookCorner returns the origin square of the rook taking part in a
// castle: the corner on the side the king moved toward.
func castleRookCorner(from, to bb.Square) bb.Square {
	row := bb.Square(from.Row() * 8)
	if to.Col() > from.Col() {
		return row + 7
	}
	return row
}

// PieceAt returns the piece on a square, or NoPiece. It is a linear scan
// over the bitboards and is not used on the search hot path.
func (b *Board) PieceAt(s bb.Square) Piece {
	mask := bb.BoardOf(s)
	if b.EmptySquares&mask != 0 {
		return NoPiece
	}
	if b.PlayerPieces&mask != 0 {
		return b.PlayerPieceAt(s)
	}
	if b.EnginePieces&mask != 0 {
		return b.EnginePieceAt(s)
	}
	panic(fmt.Sprintf("board: square %d neither empty nor occupied; derived masks are stale", s))
}

// PlayerPieceAt returns the player piece on a square, or NoPiece.
func (b *Board) PlayerPieceAt(s bb.Square) Piece {
	return b.sidePieceAt(s, PlayerPawn, EnginePawn)
}

// EnginePieceAt returns the engine piece on a square, or NoPiece.
func (b *Board) EnginePieceAt(s bb.Square) Piece {
	return b.sidePieceAt(s, EnginePawn, NoPiece)
}

// SidePieceAt returns the given side's piece on a square, or NoPiece.
func (b *Board) SidePieceAt(s bb.Square, isEngine bool) Piece {
	if isEngine {
		return b.EnginePieceAt(s)
	}
	return b.PlayerPieceAt(s)
}

func (b *Board) sidePieceAt(s bb.Square, first, limit Piece) Piece {
	mask := bb.BoardOf(s)
	if b.EmptySquares&mask != 0 {
		return NoPiece
	}
	for p := first; p < limit; p++ {
		if b.Position.Pieces[p]&mask != 0 {
			return p
		}
	}
	panic(fmt.Sprintf("board: occupied square %d has no piece in range [%d,%d); bitboards are inconsistent", s, first, limit))
}

// KingSquare returns the given side's king square.
func (b *Board) KingSquare(isEngine bool) bb.Square {
	return bb.LeastSquare(b.Position.Pieces[PieceOf(King, isEngine)])
}

func colDiff(a, c bb.Square) int {
	d := a.Col() - c.Col()
	if d < 0 {
		return -d
	}
	return d
}

func absDiff(a, c bb.Square) int {
	d := int(a) - int(c)
	if d < 0 {
		return -d
	}
	return d
}
