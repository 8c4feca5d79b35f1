package search

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/kestrelchess/engine/pkg/board"
	"github.com/seekerror/logw"
)

// Bound classifies a stored (or probed) transposition table score.
type Bound uint8

const (
	// NewBoard is returned by Read when the slot held no entry at all.
	NewBoard Bound = iota
	// OtherDepth is returned when the slot matches this position but was
	// stored at a different search depth: the score cannot be trusted as a
	// cutoff, but the move is still a good ordering hint.
	OtherDepth
	UpperBound
	LowerBound
	ExactValue
)

func (b Bound) String() string {
	switch b {
	case NewBoard:
		return "new"
	case OtherDepth:
		return "other-depth"
	case UpperBound:
		return "upper"
	case LowerBound:
		return "lower"
	case ExactValue:
		return "exact"
	default:
		return "?"
	}
}

// entry is a single transposition table slot, packed to 16 bytes: a 32-bit
// verification key (rather than the full 64-bit fingerprint, to keep the
// slot small), the best/refutation move, the score, the depth it was
// searched to, the bound kind, and the captured-piece cell the move
// produced -- a second collision guard alongside the key, matching what a
// direct-mapped table without chaining needs to reject a false hit cheaply.
type entry struct {
	key      uint32
	move     uint32
	score    int16
	depth    uint8
	bound    Bound
	captured byte
}

func (e entry) isEmpty() bool {
	return e.bound == NewBoard && e.key == 0 && e.move == 0
}

// TranspositionTable memoizes search results keyed by position fingerprint.
// It is a plain always-replace, direct-mapped (no probe chain) table: the
// search is single-threaded, so there is no need for the lock-free atomic
// dance a concurrent engine would require.
type TranspositionTable interface {
	// Read looks up the position's fingerprint. ok is false (Bound NewBoard)
	// when the slot is empty, holds a different key, or holds a move that
	// does not fit the position (a fingerprint collision). A slot that matches the key
	// but was stored at a different depth is still returned, with bound
	// OtherDepth, so its move remains a usable ordering hint.
	Read(p *board.Position, depth int) (bound Bound, storedDepth int, score board.Score, move board.Move, ok bool)
	// Write stores a completed node's result, always overwriting whatever
	// was in the slot.
	Write(p *board.Position, bound Bound, depth int, score board.Score, move board.Move)

	Size() uint64
	Used() float64
}

// TranspositionTableFactory allocates a table of a given size in bytes,
// matching NewTranspositionTable's signature. It lets pkg/engine defer the
// choice of table size (or NoTranspositionTable) to construction time.
type TranspositionTableFactory func(ctx context.Context, sizeBytes uint64) TranspositionTable

type table struct {
	slots []entry
	mask  uint64
	used  uint64
}

// DefaultTableSize is the 128 MiB default table allocation.
const DefaultTableSize = 128 << 20

// NewTranspositionTable allocates a table sized to the nearest power of two
// number of 16-byte entries that fits within sizeBytes.
func NewTranspositionTable(ctx context.Context, sizeBytes uint64) TranspositionTable {
	entrySize := uint64(16)
	n := uint64(1) << bits.Len64(sizeBytes/entrySize/2)
	if n == 0 {
		n = 1
	}
	logw.Infof(ctx, "allocating transposition table: %v entries (%v bytes)", n, n*entrySize)
	return &table{slots: make([]entry, n), mask: n - 1}
}

func (t *table) Size() uint64 { return uint64(len(t.slots)) * 16 }

func (t *table) Used() float64 {
	return float64(t.used) / float64(len(t.slots))
}

func slot(t *table, p *board.Position) (uint64, uint32) {
	fp := uint64(p.Fingerprint())
	idx := fp & t.mask
	key := uint32(fp >> 32)
	return idx, key
}

func (t *table) Read(p *board.Position, depth int) (Bound, int, board.Score, board.Move, bool) {
	idx, key := slot(t, p)
	e := t.slots[idx]
	if e.isEmpty() || e.key != key {
		return NewBoard, 0, 0, board.Move{}, false
	}

	move := unpackMove(e.move, e.captured)
	if !move.IsZero() && (board.ColorOf(p.GetPiece(move.From)) != p.SideToMove() || p.GetPiece(move.To) != move.Captured) {
		return NewBoard, 0, 0, board.Move{}, false // collision: the stored move does not fit this board
	}
	if int(e.depth) != depth {
		return OtherDepth, int(e.depth), board.Score(e.score), move, true
	}
	return e.bound, int(e.depth), board.Score(e.score), move, true
}

func (t *table) Write(p *board.Position, bound Bound, depth int, score board.Score, move board.Move) {
	idx, key := slot(t, p)
	if t.slots[idx].isEmpty() {
		t.used++
	}
	t.slots[idx] = entry{
		key:      key,
		move:     move.Value(),
		score:    int16(score),
		depth:    uint8(depth),
		bound:    bound,
		captured: move.Captured,
	}
}

func (t *table) String() string {
	return fmt.Sprintf("TT[%v bytes @ %.1f%%]", t.Size(), 100*t.Used())
}

func unpackMove(v uint32, captured byte) board.Move {
	return board.Move{
		From:     board.Square(byte(v >> 24)),
		To:       board.Square(byte(v >> 16)),
		Captured: captured,
		Special:  board.Special(byte(v)),
	}
}

// NoTranspositionTable is a Nop implementation, used when the host disables
// the table entirely.
type NoTranspositionTable struct{}

func (NoTranspositionTable) Read(p *board.Position, depth int) (Bound, int, board.Score, board.Move, bool) {
	return NewBoard, 0, 0, board.Move{}, false
}
func (NoTranspositionTable) Write(p *board.Position, bound Bound, depth int, score board.Score, move board.Move) {
}
func (NoTranspositionTable) Size() uint64  { return 0 }
func (NoTranspositionTable) Used() float64 { return 0 }
