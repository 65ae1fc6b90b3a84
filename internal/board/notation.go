package board

import (
	"fmt"
	"strings"

	bb "github.com/JoeChrisman/ChessEngine2021/internal/bitboard"
)

// SquareName returns the coordinate name of a square ("e4") in the frame of
// the configured engine colour.
func (b *Board) SquareName(s bb.Square) string {
	row := s.Row()
	col := s.Col()
	if b.Layout.EngineIsWhite {
		return fmt.Sprintf("%c%d", 'h'-byte(col), row+1)
	}
	return fmt.Sprintf("%c%d", 'a'+byte(col), 8-row)
}

// ParseSquare converts a coordinate name back into a square index.
func (b *Board) ParseSquare(name string) (bb.Square, error) {
	if len(name) != 2 {
		return 0, fmt.Errorf("board: malformed square %q", name)
	}
	file := name[0]
	rank := name[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return 0, fmt.Errorf("board: malformed square %q", name)
	}
	var row, col int
	if b.Layout.EngineIsWhite {
		col = int('h' - file)
		row = int(rank - '1')
	} else {
		col = int(file - 'a')
		row = int('8' - rank)
	}
	return bb.Square(row*8 + col), nil
}

// MoveNotation renders a move in the short log form the GUI host prints:
// a lowercase piece letter, "x" on captures, "castle" for castling, and the
// destination coordinate for pawn moves and quiet piece moves.
func (b *Board) MoveNotation(m Move) string {
	if m.Moving == NoPiece {
		panic("board: MoveNotation of a move with no moving piece")
	}

	var sb strings.Builder
	switch m.Moving.Kind() {
	case Knight:
		sb.WriteString("n")
	case Bishop:
		sb.WriteString("b")
	case Rook:
		sb.WriteString("r")
	case Queen:
		sb.WriteString("q")
	case King:
		if colDiff(m.From, m.To) > 1 {
			sb.WriteString("castle")
		} else {
			sb.WriteString("k")
		}
	}

	if m.Captured != NoPiece {
		sb.WriteString("x")
	}

	if sb.Len() < 2 {
		sb.WriteString(b.SquareName(m.To))
	}
	return sb.String()
}
