// Package search implements iterative-deepening principal variation search
// over a board.Position.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kestrelchess/engine/pkg/board"
	"github.com/kestrelchess/engine/pkg/eval"
)

// ErrHalted indicates a search was stopped externally (via context
// cancellation) before completing its current depth.
var ErrHalted = errors.New("search halted")

// DepthCap is the hard ceiling on iterative deepening depth, regardless of
// time budget.
const DepthCap = 63

// NodesPerClockCheck is how often, in node expansions, the recursive search
// reads the wall clock to check its time budget. Reading the clock on every
// node would dominate the cost of cheap leaf evaluations.
const NodesPerClockCheck = 10000

// Search runs a fixed-depth search from the given position.
type Search interface {
	Search(ctx context.Context, sctx *Context, p *board.Position, depth int) (nodes uint64, score board.Score, pv []board.Move, err error)
}

// Context carries the state shared across one iterative-deepening run:
// transposition table, killer slots, evaluator, time budget and a shared
// node counter.
type Context struct {
	TT       TranspositionTable
	Killers  *KillerTable
	Eval     eval.Evaluator
	Deadline time.Time // zero means no deadline

	// Randomize, when set, perturbs move generation order by starting each
	// node's scan from a rotating square instead of always square 0. It
	// never changes a position's evaluation.
	Randomize bool

	nodes uint64
}

func (c *Context) expired() bool {
	return !c.Deadline.IsZero() && time.Now().After(c.Deadline)
}

func (c *Context) tick() bool {
	c.nodes++
	if c.nodes%NodesPerClockCheck == 0 {
		return c.expired()
	}
	return false
}

// PV is one iteration's completed principal variation.
type PV struct {
	Depth int
	Nodes uint64
	Score board.Score
	Moves []board.Move
	Time  time.Duration
	Hash  float64 // transposition table utilization fraction, if tracked
}

func (pv PV) String() string {
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v pv=%v", pv.Depth, pv.Score, pv.Nodes, pv.Time, pv.Moves)
}

// incrementMateDistance lengthens a mate score by one ply as it is
// propagated back up the recursion, so the search prefers the shortest
// forced mate and the longest survival when losing.
func incrementMateDistance(s board.Score) board.Score {
	switch {
	case s > board.MateScore-board.MateDistance:
		return s - 1
	case s < -board.MateScore+board.MateDistance:
		return s + 1
	default:
		return s
	}
}
