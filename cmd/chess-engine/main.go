// chess-engine is a terminal front end for the engine core: it plays a game
// against the user on stdin/stdout, or runs perft node counts for testing.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	bb "github.com/JoeChrisman/ChessEngine2021/internal/bitboard"
	"github.com/JoeChrisman/ChessEngine2021/internal/board"
	"github.com/JoeChrisman/ChessEngine2021/internal/config"
	"github.com/JoeChrisman/ChessEngine2021/internal/game"
	"github.com/JoeChrisman/ChessEngine2021/internal/movegen"
	"github.com/JoeChrisman/ChessEngine2021/internal/perft"
)

var (
	depth       = flag.Int("depth", config.DefaultSearchDepth, "search depth in plies")
	engineBlack = flag.Bool("engine-black", false, "the engine plays Black instead of White")
	magicSeed   = flag.Int64("seed", config.DefaultMagicSeed, "seed for the magic-number search")
	perftDepth  = flag.Int("perft", 0, "run a perft node count to this depth instead of playing")
	workers     = flag.Int("workers", config.DefaultPerftWorkers, "worker count for parallel perft")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	cfg := config.NewConfig()
	cfg.SearchDepth = *depth
	cfg.EngineIsWhite = !*engineBlack
	cfg.MagicSeed = *magicSeed
	cfg.PerftWorkers = *workers
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "chess-engine: %v\n", err)
		os.Exit(1)
	}

	if *perftDepth > 0 {
		runPerft(cfg, *perftDepth)
		return
	}
	play(cfg)
}

// runPerft prints the per-root-move node counts (for depths above one,
// counted sequentially) and the total, which is counted in parallel across
// the configured workers.
func runPerft(cfg *config.Config, depth int) {
	tables, err := loadTables(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chess-engine: %v\n", err)
		os.Exit(1)
	}

	b := board.New(board.NewLayout(cfg.EngineIsWhite))
	g := movegen.NewGenerator(b, tables)

	start := time.Now()
	if depth > 1 {
		for _, rc := range perft.Divide(b, g, depth) {
			fmt.Printf("%s%s: %d\n", b.SquareName(rc.Move.From), b.SquareName(rc.Move.To), rc.Nodes)
		}
	}
	total := perft.CountParallel(b, tables, depth, cfg.PerftWorkers)
	fmt.Printf("perft(%d) = %d in %v\n", depth, total, time.Since(start).Round(time.Millisecond))
}

// play runs the interactive game loop until one side has no moves.
func play(cfg *config.Config) {
	g, err := game.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "chess-engine: %v\n", err)
		os.Exit(1)
	}

	reader := bufio.NewScanner(os.Stdin)
	for {
		render(g.Board())

		if g.EngineToMove() {
			move, ok := g.ChooseBestMove()
			if !ok {
				announceGameOver(g, true)
				return
			}
			fmt.Printf("engine plays %s\n", g.Board().MoveNotation(move))
			g.ApplyMove(move)
			continue
		}

		moves := g.LegalMovesFor(false)
		if len(moves) == 0 {
			announceGameOver(g, false)
			return
		}
		move, ok := promptPlayerMove(g.Board(), moves, reader)
		if !ok {
			return
		}
		g.ApplyMove(move)
	}
}

// promptPlayerMove reads coordinate moves ("e2e4", promotions "e7e8q")
// until one matches a legal move. EOF ends the game.
func promptPlayerMove(b *board.Board, moves []board.Move, reader *bufio.Scanner) (board.Move, bool) {
	for {
		fmt.Print("your move: ")
		if !reader.Scan() {
			return board.Move{}, false
		}
		text := strings.TrimSpace(strings.ToLower(reader.Text()))

		move, err := matchMove(b, moves, text)
		if err != nil {
			fmt.Println(err)
			continue
		}
		return move, true
	}
}

// matchMove resolves a coordinate string against the legal move list.
func matchMove(b *board.Board, moves []board.Move, text string) (board.Move, error) {
	if len(text) != 4 && len(text) != 5 {
		return board.Move{}, fmt.Errorf("moves look like e2e4 or e7e8q")
	}
	from, err := b.ParseSquare(text[:2])
	if err != nil {
		return board.Move{}, err
	}
	to, err := b.ParseSquare(text[2:4])
	if err != nil {
		return board.Move{}, err
	}

	promotion := board.Normal
	if len(text) == 5 {
		switch text[4] {
		case 'q':
			promotion = board.QueenPromotion
		case 'n':
			promotion = board.KnightPromotion
		case 'b':
			promotion = board.BishopPromotion
		case 'r':
			promotion = board.RookPromotion
		default:
			return board.Move{}, fmt.Errorf("promotion piece must be one of q, n, b, r")
		}
	}

	for _, m := range moves {
		if m.From != from || m.To != to {
			continue
		}
		if m.IsPromotion() != (promotion != board.Normal) {
			continue
		}
		if m.IsPromotion() && m.Type != promotion {
			continue
		}
		return m, nil
	}
	return board.Move{}, fmt.Errorf("%s is not a legal move", text)
}

// announceGameOver reports checkmate or stalemate for the side that cannot
// move.
func announceGameOver(g *game.Game, engineStuck bool) {
	side := "you are"
	if engineStuck {
		side = "the engine is"
	}
	if g.InCheck(engineStuck) {
		fmt.Printf("checkmate, %s out of moves\n", side)
	} else {
		fmt.Println("stalemate")
	}
}

// render prints the board with the engine's pieces in upper case.
func render(b *board.Board) {
	letters := map[board.Kind]byte{
		board.Pawn: 'p', board.Knight: 'n', board.Bishop: 'b',
		board.Rook: 'r', board.Queen: 'q', board.King: 'k',
	}
	for row := 0; row < 8; row++ {
		fmt.Printf("%c  ", b.SquareName(bb.Square(row*8))[1])
		for col := 0; col < 8; col++ {
			piece := b.PieceAt(bb.Square(row*8 + col))
			if piece == board.NoPiece {
				fmt.Print(". ")
				continue
			}
			letter := letters[piece.Kind()]
			if piece.IsEngine() {
				letter -= 'a' - 'A'
			}
			fmt.Printf("%c ", letter)
		}
		fmt.Println()
	}
	fmt.Print("\n   ")
	for col := 0; col < 8; col++ {
		fmt.Printf("%c ", b.SquareName(bb.Square(col))[0])
	}
	fmt.Print("\n\n")
}

// loadTables builds or reuses the attack tables for the configured seed.
func loadTables(cfg *config.Config) (*movegen.AttackTables, error) {
	if cfg.MagicSeed == config.DefaultMagicSeed {
		return movegen.DefaultTables()
	}
	return movegen.NewAttackTables(rand.NewSource(cfg.MagicSeed))
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: chess-engine [options]\n\n")
	fmt.Fprintf(os.Stderr, "Play against the engine on the terminal, or run perft counts.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
}
