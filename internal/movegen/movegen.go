// Package movegen produces the full set of legal moves for one side of a
// position. Moves are generated legally up front, not pseudo-legally and
// filtered: a blocker-squares mask restricts non-king destinations while the
// king is in check, and two pin masks (one per ray family) restrict pinned
// pieces to their pin rays.
//
// Sliding-piece reach comes from magic-bitboard attack tables built once at
// startup and shared read-only by every generator.
package movegen

import (
	"sort"

	bb "github.com/JoeChrisman/ChessEngine2021/internal/bitboard"
	"github.com/JoeChrisman/ChessEngine2021/internal/board"
)

// Generator produces legal moves for positions on one board. It owns a
// reusable move list that each Generate call overwrites.
type Generator struct {
	board  *board.Board
	tables *AttackTables

	// Squares a non-king piece may land on to resolve check: all squares
	// when not in check, the checker and its ray when checked once, empty
	// when double checked.
	blockerSquares bb.Bitboard

	// Squares along active absolute-pin rays from the king, kept per ray
	// family because a diagonally pinned piece may still move diagonally.
	cardinalPins bb.Bitboard
	ordinalPins  bb.Bitboard

	generated []board.Move
}

// NewGenerator binds a generator to a board and a shared attack-table set.
func NewGenerator(b *board.Board, t *AttackTables) *Generator {
	return &Generator{
		board:          b,
		tables:         t,
		blockerSquares: bb.FilledBoard,
		generated:      make([]board.Move, 0, 64),
	}
}

// Generate fills the internal move list with every legal move for the given
// side, replacing whatever the previous call produced.
func (g *Generator) Generate(isEngine bool) {
	g.computeBlockerSquares(isEngine)
	g.computeCardinalPins(isEngine)
	g.computeOrdinalPins(isEngine)

	g.generated = g.generated[:0]
	g.genPawnMoves(isEngine)
	g.genKnightMoves(isEngine)
	g.genKingMoves(isEngine)
	g.genBishopMoves(isEngine)
	g.genRookMoves(isEngine)
	g.genQueenMoves(isEngine)
}

// SortedMoves drains the generated list in move-ordering order: captures
// first, keyed most-valuable-victim / least-valuable-attacker, then
// everything else in generation order.
func (g *Generator) SortedMoves() []board.Move {
	type scoredMove struct {
		move board.Move
		key  int
	}
	scored := make([]scoredMove, len(g.generated))
	for i, m := range g.generated {
		// Every move starts with a zero key; only captures score.
		key := 0
		if m.Captured != board.NoPiece {
			// At least a pawn's value, so winning captures sort before
			// losing ones (PxQ before QxP).
			key = board.PieceValues[board.EngineQueen] +
				board.PieceValues[m.Captured] - board.PieceValues[m.Moving]
		}
		scored[i] = scoredMove{move: m, key: key}
	}
	g.generated = g.generated[:0]

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].key > scored[j].key })

	sorted := make([]board.Move, len(scored))
	for i, sm := range scored {
		sorted[i] = sm.move
	}
	return sorted
}

// IsKingInCheck reports whether the given side's king is attacked.
func (g *Generator) IsKingInCheck(isEngine bool) bool {
	return !g.IsSafeSquare(g.board.KingSquare(isEngine), isEngine)
}

// IsSafeSquare reports whether a square is free of enemy attacks for the
// given side's king. The king itself is removed from the occupancy first so
// it cannot appear to shelter a square by sliding along a checker's ray.
func (g *Generator) IsSafeSquare(square bb.Square, isEngine bool) bool {
	b := g.board
	p := &b.Position.Pieces
	attacked := bb.BoardOf(square)

	occupied := b.OccupiedSquares &^ p[board.PieceOf(board.King, isEngine)]

	cardinalAttackers := g.tables.cardinalLookup(square, occupied)
	ordinalAttackers := g.tables.ordinalLookup(square, occupied)

	cardinalAttackers &= p[enemy(board.Queen, isEngine)] | p[enemy(board.Rook, isEngine)]
	ordinalAttackers &= p[enemy(board.Queen, isEngine)] | p[enemy(board.Bishop, isEngine)]

	attackers := cardinalAttackers | ordinalAttackers
	attackers |= bb.KnightMoves[square] & p[enemy(board.Knight, isEngine)]
	attackers |= bb.KingMoves[square] & p[enemy(board.King, isEngine)]

	enemyPawns := p[enemy(board.Pawn, isEngine)]
	if isEngine {
		attackers |= (attacked &^ bb.File7) << 9 & enemyPawns
		attackers |= (attacked &^ bb.File0) << 7 & enemyPawns
	} else {
		attackers |= (attacked &^ bb.File0) >> 9 & enemyPawns
		attackers |= (attacked &^ bb.File7) >> 7 & enemyPawns
	}

	return attackers == 0
}

// enemy returns the opposing side's piece of a kind.
func enemy(k board.Kind, isEngine bool) board.Piece {
	return board.PieceOf(k, !isEngine)
}

// friendly returns the moving side's piece of a kind.
func friendly(k board.Kind, isEngine bool) board.Piece {
	return board.PieceOf(k, isEngine)
}

// movable returns the destinations open to the given side: enemy pieces and
// empty squares.
func (g *Generator) movable(isEngine bool) bb.Bitboard {
	if isEngine {
		return g.board.PlayerOrEmpty
	}
	return g.board.EngineOrEmpty
}

// capturedAt returns the enemy piece on a destination square, or NoPiece.
func (g *Generator) capturedAt(to bb.Square, isEngine bool) board.Piece {
	return g.board.SidePieceAt(to, !isEngine)
}

func (g *Generator) push(t board.MoveType, from, to bb.Square, moving, captured board.Piece) {
	g.generated = append(g.generated, board.Move{
		Type:     t,
		From:     from,
		To:       to,
		Moving:   moving,
		Captured: captured,
	})
}

// computeBlockerSquares finds the destinations that resolve check. The scan
// starts at the king and radiates outward in every movement type; whatever
// enemy pieces it lands on are the checkers.
func (g *Generator) computeBlockerSquares(isEngine bool) {
	b := g.board
	p := &b.Position.Pieces
	king := p[friendly(board.King, isEngine)]
	kingSquare := bb.LeastSquare(king)

	cardinalRays := g.tables.cardinalLookup(kingSquare, b.OccupiedSquares)
	ordinalRays := g.tables.ordinalLookup(kingSquare, b.OccupiedSquares)

	cardinalCheckers := cardinalRays & (p[enemy(board.Queen, isEngine)] | p[enemy(board.Rook, isEngine)])
	ordinalCheckers := ordinalRays & (p[enemy(board.Queen, isEngine)] | p[enemy(board.Bishop, isEngine)])

	attackers := cardinalCheckers | ordinalCheckers
	attackers |= bb.KnightMoves[kingSquare] & p[enemy(board.Knight, isEngine)]

	enemyPawns := p[enemy(board.Pawn, isEngine)]
	if isEngine {
		attackers |= (king &^ bb.File7) << 9 & enemyPawns
		attackers |= (king &^ bb.File0) << 7 & enemyPawns
	} else {
		attackers |= (king &^ bb.File0) >> 9 & enemyPawns
		attackers |= (king &^ bb.File7) >> 7 & enemyPawns
	}

	switch {
	case attackers == 0:
		g.blockerSquares = bb.FilledBoard

	case bb.Count(attackers) == 1:
		switch {
		case cardinalCheckers != 0:
			// A slider can be blocked anywhere its ray crosses the
			// king's: intersect the two scans, then add its capture.
			checker := bb.LeastSquare(cardinalCheckers)
			g.blockerSquares = cardinalRays&g.tables.cardinalLookup(checker, b.OccupiedSquares) | attackers
		case ordinalCheckers != 0:
			checker := bb.LeastSquare(ordinalCheckers)
			g.blockerSquares = ordinalRays&g.tables.ordinalLookup(checker, b.OccupiedSquares) | attackers
		default:
			// A knight or pawn check can only be resolved by capture.
			g.blockerSquares = attackers
		}

	default:
		// Double check: only the king can move.
		g.blockerSquares = 0
	}
}

// computeCardinalPins rebuilds the rank/file pin rays. A pin ray runs from
// the king through exactly one friendly piece to the pinning slider, and
// includes the pinner's square so a pinned piece may still capture it.
func (g *Generator) computeCardinalPins(isEngine bool) {
	g.cardinalPins = 0

	b := g.board
	p := &b.Position.Pieces
	king := b.KingSquare(isEngine)

	possiblyPinned := g.tables.cardinalLookup(king, b.OccupiedSquares)
	if isEngine {
		possiblyPinned &= b.EnginePieces
	} else {
		possiblyPinned &= b.PlayerPieces
	}

	// Remove the candidates and scan again to see through them to any
	// pinner beyond.
	seeThrough := b.OccupiedSquares &^ possiblyPinned
	pins := g.tables.cardinalLookup(king, seeThrough)
	pinning := pins & (p[enemy(board.Queen, isEngine)] | p[enemy(board.Rook, isEngine)])

	for pinning != 0 {
		pinner := bb.PopLeastSquare(&pinning)
		ray := g.tables.cardinalLookup(pinner, seeThrough)
		g.cardinalPins |= pins & ray
		g.cardinalPins |= bb.BoardOf(pinner)
	}
}

// computeOrdinalPins rebuilds the diagonal pin rays; see computeCardinalPins.
func (g *Generator) computeOrdinalPins(isEngine bool) {
	g.ordinalPins = 0

	b := g.board
	p := &b.Position.Pieces
	king := b.KingSquare(isEngine)

	possiblyPinned := g.tables.ordinalLookup(king, b.OccupiedSquares)
	if isEngine {
		possiblyPinned &= b.EnginePieces
	} else {
		possiblyPinned &= b.PlayerPieces
	}

	seeThrough := b.OccupiedSquares &^ possiblyPinned
	pins := g.tables.ordinalLookup(king, seeThrough)
	pinning := pins & (p[enemy(board.Queen, isEngine)] | p[enemy(board.Bishop, isEngine)])

	for pinning != 0 {
		pinner := bb.PopLeastSquare(&pinning)
		ray := g.tables.ordinalLookup(pinner, seeThrough)
		g.ordinalPins |= pins & ray
		g.ordinalPins |= bb.BoardOf(pinner)
	}
}

func (g *Generator) genKnightMoves(isEngine bool) {
	knight := friendly(board.Knight, isEngine)
	knights := g.board.Position.Pieces[knight]
	// A pinned knight can never stay on its pin ray.
	knights &^= g.cardinalPins | g.ordinalPins

	for knights != 0 {
		from := bb.PopLeastSquare(&knights)
		moves := bb.KnightMoves[from] & g.movable(isEngine) & g.blockerSquares
		for moves != 0 {
			to := bb.PopLeastSquare(&moves)
			g.push(board.Normal, from, to, knight, g.capturedAt(to, isEngine))
		}
	}
}

func (g *Generator) genBishopMoves(isEngine bool) {
	bishop := friendly(board.Bishop, isEngine)
	bishops := g.board.Position.Pieces[bishop]
	// A rank/file-pinned bishop has no moves at all.
	bishops &^= g.cardinalPins

	for bishops != 0 {
		from := bb.PopLeastSquare(&bishops)
		moves := g.tables.ordinalLookup(from, g.board.OccupiedSquares)
		moves &= g.movable(isEngine)
		moves &= g.blockerSquares
		if bb.BoardOf(from)&g.ordinalPins != 0 {
			moves &= g.ordinalPins
		}
		for moves != 0 {
			to := bb.PopLeastSquare(&moves)
			g.push(board.Normal, from, to, bishop, g.capturedAt(to, isEngine))
		}
	}
}

func (g *Generator) genRookMoves(isEngine bool) {
	rook := friendly(board.Rook, isEngine)
	rooks := g.board.Position.Pieces[rook]
	// A diagonally pinned rook has no moves at all.
	rooks &^= g.ordinalPins

	for rooks != 0 {
		from := bb.PopLeastSquare(&rooks)
		moves := g.tables.cardinalLookup(from, g.board.OccupiedSquares)
		moves &= g.movable(isEngine)
		moves &= g.blockerSquares
		if bb.BoardOf(from)&g.cardinalPins != 0 {
			moves &= g.cardinalPins
		}
		for moves != 0 {
			to := bb.PopLeastSquare(&moves)
			g.push(board.Normal, from, to, rook, g.capturedAt(to, isEngine))
		}
	}
}

func (g *Generator) genQueenMoves(isEngine bool) {
	queen := friendly(board.Queen, isEngine)
	queens := g.board.Position.Pieces[queen]

	for queens != 0 {
		queenBoard := bb.PopLeastBitboard(&queens)
		from := bb.LeastSquare(queenBoard)

		var moves bb.Bitboard
		// Diagonal movement is open unless the queen is pinned on a rank
		// or file, and vice versa; a pinned queen slides along its pin.
		if queenBoard&g.cardinalPins == 0 {
			ordinal := g.tables.ordinalLookup(from, g.board.OccupiedSquares)
			if queenBoard&g.ordinalPins != 0 {
				ordinal &= g.ordinalPins
			}
			moves |= ordinal
		}
		if queenBoard&g.ordinalPins == 0 {
			cardinal := g.tables.cardinalLookup(from, g.board.OccupiedSquares)
			if queenBoard&g.cardinalPins != 0 {
				cardinal &= g.cardinalPins
			}
			moves |= cardinal
		}

		moves &= g.movable(isEngine)
		moves &= g.blockerSquares
		for moves != 0 {
			to := bb.PopLeastSquare(&moves)
			g.push(board.Normal, from, to, queen, g.capturedAt(to, isEngine))
		}
	}
}

func (g *Generator) genKingMoves(isEngine bool) {
	king := friendly(board.King, isEngine)
	from := bb.LeastSquare(g.board.Position.Pieces[king])

	// The king ignores blockerSquares; it resolves check by walking to a
	// safe square instead.
	moves := bb.KingMoves[from] & g.movable(isEngine)
	var safeMoves bb.Bitboard
	for moves != 0 {
		to := bb.PopLeastSquare(&moves)
		if g.IsSafeSquare(to, isEngine) {
			safeMoves |= bb.BoardOf(to)
		}
	}

	safeMoves |= g.castleDestinations(isEngine)

	for safeMoves != 0 {
		to := bb.PopLeastSquare(&safeMoves)
		g.push(board.Normal, from, to, king, g.capturedAt(to, isEngine))
	}
}

// castleDestinations returns the castling destination squares still
// available: the right must be held, the squares between king and rook
// empty, and every square on the king's transit safe. The square only the
// queenside rook crosses must be empty but may be attacked.
func (g *Generator) castleDestinations(isEngine bool) bb.Bitboard {
	b := g.board
	masks := b.Layout.Side(isEngine)

	var destinations bb.Bitboard

	queensideRight := b.Position.PlayerCastleQueenside
	kingsideRight := b.Position.PlayerCastleKingside
	if isEngine {
		queensideRight = b.Position.EngineCastleQueenside
		kingsideRight = b.Position.EngineCastleKingside
	}

	if queensideRight {
		path := (masks.QueensidePath | masks.QueensideGap) & b.EmptySquares
		if bb.Count(path) == 3 && g.allSquaresSafe(masks.QueensidePath, isEngine) {
			destinations |= masks.QueensideDest
		}
	}
	if kingsideRight {
		path := masks.KingsidePath & b.EmptySquares
		if bb.Count(path) == 2 && g.allSquaresSafe(masks.KingsidePath, isEngine) {
			destinations |= masks.KingsideDest
		}
	}
	return destinations
}

func (g *Generator) allSquaresSafe(squares bb.Bitboard, isEngine bool) bool {
	for squares != 0 {
		if !g.IsSafeSquare(bb.PopLeastSquare(&squares), isEngine) {
			return false
		}
	}
	return true
}

func (g *Generator) genPawnMoves(isEngine bool) {
	b := g.board
	pawn := friendly(board.Pawn, isEngine)
	pawns := b.Position.Pieces[pawn]

	// Pushes. A diagonally pinned pawn cannot push at all; a rank/file
	// pinned pawn may only push along its file, checked per move below.
	var singlePush, doublePush bb.Bitboard
	if isEngine {
		singlePush = (pawns &^ g.ordinalPins) << 8 & b.EmptySquares
		doublePush = (singlePush & bb.Rank2) << 8 & b.EmptySquares
	} else {
		singlePush = (pawns &^ g.ordinalPins) >> 8 & b.EmptySquares
		doublePush = (singlePush & bb.Rank5) >> 8 & b.EmptySquares
	}
	singlePush &= g.blockerSquares
	doublePush &= g.blockerSquares

	promotionRank := bb.Rank7
	if !isEngine {
		promotionRank = bb.Rank0
	}

	for singlePush != 0 {
		to := bb.PopLeastSquare(&singlePush)
		from := pawnOrigin(to, 8, isEngine)

		if escapesCardinalPin(g, from, to) {
			continue
		}
		if bb.BoardOf(to)&promotionRank != 0 {
			g.pushPromotions(from, to, pawn, board.NoPiece)
		} else {
			g.push(board.Normal, from, to, pawn, board.NoPiece)
		}
	}

	for doublePush != 0 {
		to := bb.PopLeastSquare(&doublePush)
		from := pawnOrigin(to, 16, isEngine)
		if escapesCardinalPin(g, from, to) {
			continue
		}
		g.push(board.Normal, from, to, pawn, board.NoPiece)
	}

	// Captures. A rank/file-pinned pawn can never capture, so drop those
	// pawns before shifting.
	pawns &^= g.cardinalPins

	enemies := b.PlayerPieces
	if !isEngine {
		enemies = b.EnginePieces
	}

	var leftAttacks, rightAttacks bb.Bitboard
	if isEngine {
		leftAttacks = (pawns &^ bb.File7) << 9
		rightAttacks = (pawns &^ bb.File0) << 7
	} else {
		leftAttacks = (pawns &^ bb.File0) >> 9
		rightAttacks = (pawns &^ bb.File7) >> 7
	}
	leftAttacks &= enemies & g.blockerSquares
	rightAttacks &= enemies & g.blockerSquares

	for leftAttacks != 0 {
		to := bb.PopLeastSquare(&leftAttacks)
		from := pawnOrigin(to, 9, isEngine)
		g.pushPawnCapture(from, to, pawn, promotionRank, isEngine)
	}
	for rightAttacks != 0 {
		to := bb.PopLeastSquare(&rightAttacks)
		from := pawnOrigin(to, 7, isEngine)
		g.pushPawnCapture(from, to, pawn, promotionRank, isEngine)
	}

	if b.Position.EnPassantCapture != 0 {
		g.genEnPassant(pawns, isEngine)
	}
}

// pawnOrigin recovers a pawn move's origin from its destination: the engine
// advances toward higher indexes, the player toward lower.
func pawnOrigin(to bb.Square, shift int, isEngine bool) bb.Square {
	if isEngine {
		return bb.Square(int(to) - shift)
	}
	return bb.Square(int(to) + shift)
}

// escapesCardinalPin rejects pawn pushes that would leave a rank/file pin.
func escapesCardinalPin(g *Generator, from, to bb.Square) bool {
	return bb.BoardOf(from)&g.cardinalPins != 0 && bb.BoardOf(to)&g.cardinalPins == 0
}

// pushPawnCapture emits a diagonal pawn capture, fanned into the four
// promotion choices when it reaches the last rank.
func (g *Generator) pushPawnCapture(from, to bb.Square, pawn board.Piece, promotionRank bb.Bitboard, isEngine bool) {
	// A capture that leaves a diagonal pin is illegal.
	if bb.BoardOf(from)&g.ordinalPins != 0 && bb.BoardOf(to)&g.ordinalPins == 0 {
		return
	}
	captured := g.capturedAt(to, isEngine)
	if bb.BoardOf(to)&promotionRank != 0 {
		g.pushPromotions(from, to, pawn, captured)
	} else {
		g.push(board.Normal, from, to, pawn, captured)
	}
}

// pushPromotions emits one move per promotion choice.
func (g *Generator) pushPromotions(from, to bb.Square, pawn, captured board.Piece) {
	for choice := board.QueenPromotion; choice <= board.RookPromotion; choice++ {
		g.push(choice, from, to, pawn, captured)
	}
}

// genEnPassant emits the en-passant captures. Beyond the usual diagonal-pin
// test, an en-passant capture needs its own horizontal pin scan: both the
// capturing and the captured pawn leave the rank at once, so an absolute pin
// hidden behind the pair never shows up on the normal pin boards.
func (g *Generator) genEnPassant(pawns bb.Bitboard, isEngine bool) {
	b := g.board
	p := &b.Position.Pieces
	ep := b.Position.EnPassantCapture
	pawn := friendly(board.Pawn, isEngine)
	capturedPawn := enemy(board.Pawn, isEngine)

	// Only pawns on the en-passant rank can capture.
	epRank := bb.Rank4
	if !isEngine {
		epRank = bb.Rank3
	}
	pawns &= epRank

	var rightEnPassant, leftEnPassant bb.Bitboard
	if isEngine {
		rightEnPassant = ep & (pawns >> 1) & g.blockerSquares
		leftEnPassant = ep & (pawns << 1) & g.blockerSquares
	} else {
		rightEnPassant = ep & (pawns << 1) & g.blockerSquares
		leftEnPassant = ep & (pawns >> 1) & g.blockerSquares
	}

	emit := func(from, to bb.Square) {
		if bb.BoardOf(from)&g.ordinalPins != 0 && bb.BoardOf(to)&g.ordinalPins == 0 {
			// Breaks a diagonal pin.
			return
		}
		// Scan the rank from the capturing pawn with both pawns removed.
		// Finding our king on one side and an enemy rook or queen on the
		// other means the capture would expose the king.
		scan := g.tables.cardinalLookup(from, b.OccupiedSquares&^ep) & epRank
		scan &= p[friendly(board.King, isEngine)] |
			p[enemy(board.Queen, isEngine)] |
			p[enemy(board.Rook, isEngine)]
		if bb.Count(scan) == 2 {
			return
		}
		g.push(board.EnPassant, from, to, pawn, capturedPawn)
	}

	if rightEnPassant != 0 {
		var from bb.Square
		if isEngine {
			from = bb.LeastSquare(rightEnPassant << 1)
		} else {
			from = bb.LeastSquare(rightEnPassant >> 1)
		}
		emit(from, pawnDestination(from, 7, isEngine))
	}
	if leftEnPassant != 0 {
		var from bb.Square
		if isEngine {
			from = bb.LeastSquare(leftEnPassant >> 1)
		} else {
			from = bb.LeastSquare(leftEnPassant << 1)
		}
		emit(from, pawnDestination(from, 9, isEngine))
	}
}

func pawnDestination(from bb.Square, shift int, isEngine bool) bb.Square {
	if isEngine {
		return bb.Square(int(from) + shift)
	}
	return bb.Square(int(from) - shift)
}
