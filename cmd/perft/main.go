// perft is a movegen debugging tool. See: https://www.chessprogramming.org/Perft_Results.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/kestrelchess/engine/pkg/board"
	"github.com/kestrelchess/engine/pkg/board/fen"
	"github.com/seekerror/logw"
)

var (
	depth    = flag.Int("depth", 4, "Search depth")
	position = flag.String("fen", "", "Start position (default to standard)")
	divide   = flag.Bool("divide", false, "Divide counts by initial move")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	if *position == "" {
		*position = fen.Initial
	}

	p, err := fen.Decode(*position)
	if err != nil {
		logw.Exitf(ctx, "Invalid fen '%v': %v", *position, err)
	}

	for i := 1; i <= *depth; i++ {
		start := time.Now()
		nodes := search(p, i, *divide && i == *depth)
		duration := time.Since(start)

		println(fmt.Sprintf("perft,%v,%v,%v,%v", *position, i, nodes, duration.Microseconds()))
	}
}

// search walks the pseudo-legal move tree to the given depth, discarding any
// move that leaves the mover's own king in check, via the same Make/Unmake
// pairing the search package uses per node.
func search(p *board.Position, depth int, d bool) int64 {
	if depth == 0 {
		return 1
	}

	color := p.SideToMove()

	var nodes int64
	for _, m := range board.Generate(p) {
		if err := p.Make(m); err != nil {
			continue
		}
		if !board.InCheck(p, color) {
			count := search(p, depth-1, false)
			if d {
				println(fmt.Sprintf("%v: %v", m, count))
			}
			nodes += count
		}
		p.Unmake()
	}
	return nodes
}
