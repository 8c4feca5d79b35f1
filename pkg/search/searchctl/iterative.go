package searchctl

import (
	"context"
	"sync"
	"time"

	"github.com/kestrelchess/engine/pkg/board"
	"github.com/kestrelchess/engine/pkg/eval"
	"github.com/kestrelchess/engine/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// Iterative is a search harness that drives search.AlphaBeta through
// increasing depths, publishing a PV after each completed iteration, until
// halted, the depth limit is reached, a time control expires, or a forced
// mate is found within the current search width.
type Iterative struct {
	Root search.Search
}

func (i *Iterative) Launch(ctx context.Context, p *board.Position, tt search.TranspositionTable, ev eval.Evaluator, opt Options) (Handle, <-chan search.PV) {
	out := make(chan search.PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, i.Root, p, tt, ev, opt, out)

	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	pv search.PV
	mu sync.Mutex
}

func (h *handle) process(ctx context.Context, root search.Search, p *board.Position, tt search.TranspositionTable, ev eval.Evaluator, opt Options, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	sctx := &search.Context{
		TT:        tt,
		Killers:   search.NewKillerTable(),
		Eval:      ev,
		Randomize: opt.Randomize,
	}
	soft, useSoft := EnforceTimeControl(ctx, h, opt.TimeControl, p.SideToMove())

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	overallStart := time.Now()
	depth := 1
	for !h.quit.IsClosed() {
		start := time.Now()
		sctx.Killers.Reset()

		nodes, score, moves, err := root.Search(wctx, sctx, p, depth)
		if err != nil {
			if err == search.ErrHalted {
				return // Halt was called.
			}
			logw.Errorf(ctx, "Search failed at depth=%v: %v", depth, err)
			return
		}

		pv := search.PV{
			Depth: depth,
			Nodes: nodes,
			Score: score,
			Moves: moves,
			Time:  time.Since(start),
		}
		if tt != nil {
			pv.Hash = tt.Used()
		}

		logw.Debugf(ctx, "Searched: %v", pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()
		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) == limit {
			return // halt: reached max depth
		}
		if plies, ok := score.MateDistanceIn(); ok && plies <= depth {
			return // halt: forced mate found within full width search. Exact result.
		}
		if useSoft {
			remaining := soft - time.Since(overallStart)
			if 3*time.Since(start) > remaining {
				return // halt: next iteration would likely blow through the soft time limit
			}
		}
		depth++
	}
}

func (h *handle) Halt() search.PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pv
}
