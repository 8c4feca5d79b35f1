// enginedemo is a minimal line-oriented driver over the engine's Core API,
// for manual smoke-testing. It is deliberately not a UCI or xboard engine:
// there is no protocol handshake, just one command per line.
//
// Commands:
//
//	new [fen]      reset the game, optionally to the given FEN
//	move <mv>      apply a user move in coordinate form, e.g. e2e4
//	go             compute and play the engine's move
//	undo           undo the last confirmed move
//	redo           redo the last undone move
//	position       print the current position as FEN
//	quit           exit
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/kestrelchess/engine/pkg/book"
	"github.com/kestrelchess/engine/pkg/engine"
	"github.com/kestrelchess/engine/pkg/search"
	"github.com/seekerror/logw"
)

var (
	hash      = flag.Uint("hash", 32, "Transposition table size in MB (0 disables it)")
	timeMs    = flag.Int64("movetime", 2000, "Time budget per engine move, in milliseconds")
	maxDepth  = flag.Int("depth", 0, "Maximum search depth (0 uses the engine default)")
	useBook   = flag.Bool("book", false, "Consult the opening book, if loaded")
	bookPath  = flag.String("bookfile", "", "Path to a packed opening-book file")
	randomize = flag.Bool("randomize", false, "Perturb move ordering for variety")
	verbose   = flag.Bool("verbose", false, "Trace each search iteration")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: enginedemo [options]

enginedemo is a line-oriented smoke-test driver for the chess engine Core
API. It is not a UCI or xboard engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	s := search.AlphaBeta{}
	settings := engine.Settings{
		UseBook:      *useBook,
		Randomize:    *randomize,
		Verbose:      *verbose,
		LevelMaxMax:  *maxDepth,
		TimeBudgetMs: *timeMs,
		Hash:         *hash,
	}

	opts := []engine.Option{
		engine.WithSettings(settings),
		engine.WithSendStr(func(mv string) { fmt.Printf("move: %v\n", mv) }),
		engine.WithLogInfo(func(pv string) { fmt.Println(pv) }),
	}
	if *bookPath != "" {
		f, err := os.Open(*bookPath)
		if err != nil {
			logw.Exitf(ctx, "Failed to open book %q: %v", *bookPath, err)
		}
		defer f.Close()

		b, err := book.Load(f)
		if err != nil {
			logw.Exitf(ctx, "Failed to load book %q: %v", *bookPath, err)
		}
		opts = append(opts, engine.WithBook(b))
	}

	e := engine.New(ctx, "enginedemo", "kestrelchess", s, opts...)

	fmt.Printf("%v by %v\n", e.Name(), e.Author())
	fmt.Println(e.Position())

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "new":
			fen := ""
			if len(fields) > 1 {
				fen = strings.Join(fields[1:], " ")
			}
			if err := e.InitGame(ctx, fen); err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			fmt.Println(e.Position())

		case "move":
			if len(fields) != 2 {
				fmt.Println("error: usage: move <mv>")
				continue
			}
			result, err := e.TryMoveStr(ctx, fields[1])
			if err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			fmt.Println(result)

		case "go":
			if err := e.ComputeNextMove(ctx); err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			fmt.Printf("%v %v\n", e.EngineMoveStr(), e.GameState())

		case "undo":
			fmt.Println(e.UserUndoMove())

		case "redo":
			fmt.Println(e.UserRedoMove())

		case "position":
			fmt.Println(e.Position())

		case "quit", "exit":
			return

		default:
			fmt.Printf("error: unknown command %q\n", fields[0])
		}
	}
}
