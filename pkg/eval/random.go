package eval

import (
	"context"
	"math/rand"

	"github.com/kestrelchess/engine/pkg/board"
)

// Random draws a seeded pseudo-random value in [-limit/2; limit-limit/2)
// (integer division), or a fixed zero when limit <= 0. The engine reuses its spread to pick uniformly
// among equally good book moves (see Engine.tryBookMove); it does not feed
// the evaluator.
type Random struct {
	rand  *rand.Rand
	limit int
}

func NewRandom(limit int, seed int64) Random {
	return Random{
		limit: limit,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

func (n Random) Evaluate(ctx context.Context, p *board.Position) board.Score {
	if n.limit <= 0 {
		return 0
	}
	return board.Score(n.rand.Intn(n.limit) - n.limit/2)
}
