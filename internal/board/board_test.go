package board

import (
	"testing"

	bb "github.com/JoeChrisman/ChessEngine2021/internal/bitboard"
	"github.com/JoeChrisman/ChessEngine2021/internal/testutil"
)

// assertInvariants checks the universal position invariants: disjoint piece
// bitboards, one king per side, fresh derived masks, and a single en-passant
// bit at most.
func assertInvariants(t *testing.T, b *Board) {
	t.Helper()

	var all bb.Bitboard
	for piece := PlayerPawn; piece < NoPiece; piece++ {
		if all&b.Position.Pieces[piece] != 0 {
			t.Errorf("piece bitboards overlap at %v", piece)
		}
		all |= b.Position.Pieces[piece]
	}

	if bb.Count(b.Position.Pieces[EngineKing]) != 1 {
		t.Errorf("engine has %d kings", bb.Count(b.Position.Pieces[EngineKing]))
	}
	if bb.Count(b.Position.Pieces[PlayerKing]) != 1 {
		t.Errorf("player has %d kings", bb.Count(b.Position.Pieces[PlayerKing]))
	}

	fresh := b.Clone()
	fresh.Update()
	testutil.AssertBitboard(t, b.EnginePieces, fresh.EnginePieces, "engine pieces")
	testutil.AssertBitboard(t, b.PlayerPieces, fresh.PlayerPieces, "player pieces")
	testutil.AssertBitboard(t, b.OccupiedSquares, fresh.OccupiedSquares, "occupied")
	testutil.AssertBitboard(t, b.EmptySquares, fresh.EmptySquares, "empty")
	testutil.AssertBitboard(t, b.PlayerOrEmpty, fresh.PlayerOrEmpty, "player or empty")
	testutil.AssertBitboard(t, b.EngineOrEmpty, fresh.EngineOrEmpty, "engine or empty")

	if bb.Count(b.Position.EnPassantCapture) > 1 {
		t.Error("more than one en-passant bit set")
	}
}

func TestNewInitialPosition(t *testing.T) {
	tests := []struct {
		name          string
		engineIsWhite bool
		engineKing    bb.Square
		playerKing    bb.Square
	}{
		{"engine plays white", true, 3, 59},
		{"engine plays black", false, 4, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(NewLayout(tt.engineIsWhite))

			testutil.AssertBitboard(t, b.Position.Pieces[EnginePawn], bb.Rank1, "engine pawns")
			testutil.AssertBitboard(t, b.Position.Pieces[PlayerPawn], bb.Rank6, "player pawns")
			testutil.AssertBitboard(t, b.Position.Pieces[EngineKing], bb.BoardOf(tt.engineKing), "engine king")
			testutil.AssertBitboard(t, b.Position.Pieces[PlayerKing], bb.BoardOf(tt.playerKing), "player king")
			testutil.AssertBitboard(t, b.OccupiedSquares, bb.Rank0|bb.Rank1|bb.Rank6|bb.Rank7, "occupancy")

			testutil.AssertTrue(t, b.Position.EngineCastleKingside)
			testutil.AssertTrue(t, b.Position.EngineCastleQueenside)
			testutil.AssertTrue(t, b.Position.PlayerCastleKingside)
			testutil.AssertTrue(t, b.Position.PlayerCastleQueenside)

			// White always moves first.
			testutil.AssertEqual(t, b.EngineToMove, tt.engineIsWhite)
			assertInvariants(t, b)
		})
	}
}

func TestMakeMovePawnPush(t *testing.T) {
	b := New(NewLayout(true))
	b.MakeMove(Move{Type: Normal, From: 11, To: 19, Moving: EnginePawn, Captured: NoPiece}, true)

	testutil.AssertEqual(t, b.PieceAt(19), EnginePawn)
	testutil.AssertEqual(t, b.PieceAt(11), NoPiece)
	testutil.AssertFalse(t, b.EngineToMove, "side to move should flip")
	testutil.AssertBitboard(t, b.Position.EnPassantCapture, 0, "no en passant after a single push")
	assertInvariants(t, b)
}

func TestMakeMoveCapture(t *testing.T) {
	b := NewEmpty(NewLayout(true))
	b.Place(EngineKing, 0)
	b.Place(PlayerKing, 63)
	b.Place(EngineKnight, 18)
	b.Place(PlayerPawn, 35)
	b.Update()

	b.MakeMove(Move{Type: Normal, From: 18, To: 35, Moving: EngineKnight, Captured: PlayerPawn}, true)

	testutil.AssertEqual(t, b.PieceAt(35), EngineKnight)
	testutil.AssertBitboard(t, b.Position.Pieces[PlayerPawn], 0, "captured pawn should be gone")
	assertInvariants(t, b)
}

func TestMakeMoveCastling(t *testing.T) {
	tests := []struct {
		name          string
		engineIsWhite bool
		isEngine      bool
		from, to      bb.Square
		rookFrom      bb.Square
		rookTo        bb.Square
	}{
		{"engine white kingside", true, true, 3, 1, 0, 2},
		{"engine white queenside", true, true, 3, 5, 7, 4},
		{"engine black kingside", false, true, 4, 6, 7, 5},
		{"engine black queenside", false, true, 4, 2, 0, 3},
		{"player white queenside (engine black)", false, false, 60, 58, 56, 59},
		{"player black kingside (engine white)", true, false, 59, 57, 56, 58},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewEmpty(NewLayout(tt.engineIsWhite))
			king := PieceOf(King, tt.isEngine)
			rook := PieceOf(Rook, tt.isEngine)
			b.Place(king, tt.from)
			b.Place(rook, tt.rookFrom)
			b.Place(PieceOf(King, !tt.isEngine), oppositeCorner(tt.from))
			b.setCastleRight(tt.isEngine, true, true)
			b.setCastleRight(tt.isEngine, false, true)
			b.Update()

			b.MakeMove(Move{Type: Normal, From: tt.from, To: tt.to, Moving: king, Captured: NoPiece}, tt.isEngine)

			testutil.AssertEqual(t, b.PieceAt(tt.to), king)
			testutil.AssertBitboard(t, b.Position.Pieces[rook], bb.BoardOf(tt.rookTo), "rook landing square")
			if tt.isEngine {
				testutil.AssertFalse(t, b.Position.EngineCastleKingside)
				testutil.AssertFalse(t, b.Position.EngineCastleQueenside)
			} else {
				testutil.AssertFalse(t, b.Position.PlayerCastleKingside)
				testutil.AssertFalse(t, b.Position.PlayerCastleQueenside)
			}
			assertInvariants(t, b)
		})
	}
}

// oppositeCorner parks the idle king far away from the action.
func oppositeCorner(s bb.Square) bb.Square {
	if s.Row() < 4 {
		return 63
	}
	return 0
}

func TestRookMoveRevokesCastleRight(t *testing.T) {
	b := New(NewLayout(true))
	// Clear the kingside knight so the rook can slide out.
	b.Position.Pieces[EngineKnight] &^= bb.BoardOf(1)
	b.Update()

	b.MakeMove(Move{Type: Normal, From: 0, To: 1, Moving: EngineRook, Captured: NoPiece}, true)

	testutil.AssertFalse(t, b.Position.EngineCastleKingside, "kingside right should be gone")
	testutil.AssertTrue(t, b.Position.EngineCastleQueenside, "queenside right should survive")
}

func TestRookCaptureRevokesCastleRight(t *testing.T) {
	b := NewEmpty(NewLayout(true))
	b.Place(EngineKing, 3)
	b.Place(PlayerKing, 59)
	b.Place(PlayerRook, 56) // player kingside corner
	b.Place(EngineRook, 32)
	b.Position.PlayerCastleKingside = true
	b.Position.PlayerCastleQueenside = true
	b.Update()

	b.MakeMove(Move{Type: Normal, From: 32, To: 56, Moving: EngineRook, Captured: PlayerRook}, true)

	testutil.AssertFalse(t, b.Position.PlayerCastleKingside, "capturing the corner rook takes the right")
	testutil.AssertTrue(t, b.Position.PlayerCastleQueenside)
	assertInvariants(t, b)
}

func TestDoublePushSetsEnPassant(t *testing.T) {
	tests := []struct {
		name      string
		enemyPawn bb.Square
		wantFlag  bool
	}{
		{"enemy pawn adjacent", 28, true},
		{"enemy pawn elsewhere", 48, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewEmpty(NewLayout(true))
			b.Place(EngineKing, 0)
			b.Place(PlayerKing, 63)
			b.Place(EnginePawn, 11)
			b.Place(PlayerPawn, tt.enemyPawn)
			b.Update()

			b.MakeMove(Move{Type: Normal, From: 11, To: 27, Moving: EnginePawn, Captured: NoPiece}, true)

			want := bb.Bitboard(0)
			if tt.wantFlag {
				want = bb.BoardOf(27)
			}
			testutil.AssertBitboard(t, b.Position.EnPassantCapture, want)
			assertInvariants(t, b)
		})
	}
}

func TestEnPassantCaptureRemovesPawn(t *testing.T) {
	b := NewEmpty(NewLayout(true))
	b.Place(EngineKing, 0)
	b.Place(PlayerKing, 63)
	b.Place(EnginePawn, 27)
	b.Place(PlayerPawn, 52)
	b.EngineToMove = false
	b.Update()

	// First the player double-pushes with the engine pawn off the rank, which
	// sets no flag; then next to the engine pawn, which the engine captures
	// en passant.
	b.MakeMove(Move{Type: Normal, From: 52, To: 36, Moving: PlayerPawn, Captured: NoPiece}, false)
	testutil.AssertBitboard(t, b.Position.EnPassantCapture, 0, "engine pawn is not adjacent on the rank")

	b = NewEmpty(NewLayout(true))
	b.Place(EngineKing, 0)
	b.Place(PlayerKing, 63)
	b.Place(EnginePawn, 35)
	b.Place(PlayerPawn, 52)
	b.EngineToMove = false
	b.Update()

	b.MakeMove(Move{Type: Normal, From: 52, To: 36, Moving: PlayerPawn, Captured: NoPiece}, false)
	testutil.AssertBitboard(t, b.Position.EnPassantCapture, bb.BoardOf(36))

	b.MakeMove(Move{Type: EnPassant, From: 35, To: 44, Moving: EnginePawn, Captured: PlayerPawn}, true)
	testutil.AssertBitboard(t, b.Position.Pieces[PlayerPawn], 0, "captured pawn removed from its own square")
	testutil.AssertEqual(t, b.PieceAt(44), EnginePawn)
	testutil.AssertBitboard(t, b.Position.EnPassantCapture, 0, "flag cleared after the capture")
	assertInvariants(t, b)
}

func TestPromotionApply(t *testing.T) {
	tests := []struct {
		moveType MoveType
		want     Piece
	}{
		{QueenPromotion, EngineQueen},
		{KnightPromotion, EngineKnight},
		{BishopPromotion, EngineBishop},
		{RookPromotion, EngineRook},
	}

	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			b := NewEmpty(NewLayout(true))
			b.Place(EngineKing, 0)
			b.Place(PlayerKing, 39)
			b.Place(EnginePawn, 53)
			b.Update()

			b.MakeMove(Move{Type: tt.moveType, From: 53, To: 61, Moving: EnginePawn, Captured: NoPiece}, true)

			testutil.AssertBitboard(t, b.Position.Pieces[EnginePawn], 0, "the pawn never lands")
			testutil.AssertEqual(t, b.PieceAt(61), tt.want)
			assertInvariants(t, b)
		})
	}
}

// TestSnapshotRoundTrip plays moves of every flavour and checks that
// snapshot, apply, restore leaves the board bit-identical, derived masks
// and side to move included.
func TestSnapshotRoundTrip(t *testing.T) {
	b := New(NewLayout(true))

	moves := []struct {
		move     Move
		isEngine bool
	}{
		{Move{Type: Normal, From: 11, To: 27, Moving: EnginePawn, Captured: NoPiece}, true},
		{Move{Type: Normal, From: 52, To: 36, Moving: PlayerPawn, Captured: NoPiece}, false},
		{Move{Type: Normal, From: 1, To: 18, Moving: EngineKnight, Captured: NoPiece}, true},
	}
	for _, m := range moves {
		snapshot := b.Snapshot()
		before := *b.Clone()

		b.MakeMove(m.move, m.isEngine)
		b.Restore(snapshot)

		testutil.AssertEqual(t, b.Position, before.Position)
		testutil.AssertEqual(t, b.EngineToMove, before.EngineToMove)
		testutil.AssertBitboard(t, b.OccupiedSquares, before.OccupiedSquares, "derived occupancy")
		testutil.AssertBitboard(t, b.EmptySquares, before.EmptySquares, "derived empties")

		// Replay the move for the next iteration.
		b.MakeMove(m.move, m.isEngine)
		assertInvariants(t, b)
	}
}

func TestPieceAt(t *testing.T) {
	b := New(NewLayout(true))

	tests := []struct {
		square bb.Square
		want   Piece
	}{
		{0, EngineRook},
		{3, EngineKing},
		{4, EngineQueen},
		{12, EnginePawn},
		{30, NoPiece},
		{50, PlayerPawn},
		{59, PlayerKing},
		{62, PlayerKnight},
	}
	for _, tt := range tests {
		if got := b.PieceAt(tt.square); got != tt.want {
			t.Errorf("PieceAt(%d) = %v, want %v", tt.square, got, tt.want)
		}
	}
}

func TestSquareNameRoundTrip(t *testing.T) {
	for _, engineIsWhite := range []bool{true, false} {
		b := New(NewLayout(engineIsWhite))
		for s := bb.Square(0); s < 64; s++ {
			name := b.SquareName(s)
			parsed, err := b.ParseSquare(name)
			testutil.AssertNoError(t, err, "parse %q", name)
			testutil.AssertEqual(t, parsed, s, "round trip of %q", name)
		}
	}
}

func TestSquareNameCorners(t *testing.T) {
	white := New(NewLayout(true))
	testutil.AssertEqual(t, white.SquareName(3), "e1", "white engine king start")
	testutil.AssertEqual(t, white.SquareName(59), "e8", "player king start")

	black := New(NewLayout(false))
	testutil.AssertEqual(t, black.SquareName(4), "e8", "black engine king start")
}

func TestMoveNotation(t *testing.T) {
	b := New(NewLayout(true))

	tests := []struct {
		name string
		move Move
		want string
	}{
		{"pawn push", Move{Type: Normal, From: 11, To: 19, Moving: EnginePawn, Captured: NoPiece}, "e3"},
		{"knight move", Move{Type: Normal, From: 1, To: 18, Moving: EngineKnight, Captured: NoPiece}, "nf3"},
		{"knight capture", Move{Type: Normal, From: 1, To: 18, Moving: EngineKnight, Captured: PlayerPawn}, "nx"},
		{"queen capture", Move{Type: Normal, From: 4, To: 12, Moving: EngineQueen, Captured: PlayerRook}, "qx"},
		{"castle", Move{Type: Normal, From: 3, To: 1, Moving: EngineKing, Captured: NoPiece}, "castle"},
		{"king step", Move{Type: Normal, From: 3, To: 11, Moving: EngineKing, Captured: NoPiece}, "ke2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.MoveNotation(tt.move)
			testutil.AssertEqual(t, got, tt.want)
		})
	}
}
