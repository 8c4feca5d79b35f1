package search

import "github.com/kestrelchess/engine/pkg/board"

// maxKillerPly bounds how deep killer slots are tracked; search depth never
// approaches this in practice since DepthCap is far smaller, but the table
// is sized once up front rather than grown during search.
const maxKillerPly = board.MaxPly

// KillerTable holds two killer moves per ply: quiet moves that caused a beta
// cutoff at that ply in a sibling branch, and are tried early as a result.
// Indexed by the recursion's ply offset from the search root, not by the
// game's absolute ply.
type KillerTable struct {
	slots [maxKillerPly][2]board.Move
}

func NewKillerTable() *KillerTable {
	return &KillerTable{}
}

// Reset clears all killer slots, done once per iterative-deepening
// iteration per spec.md's "reset killer-move slots for this iteration".
func (k *KillerTable) Reset() {
	for i := range k.slots {
		k.slots[i] = [2]board.Move{}
	}
}

func (k *KillerTable) Primary(ply int) board.Move   { return k.slots[ply][0] }
func (k *KillerTable) Secondary(ply int) board.Move { return k.slots[ply][1] }

// Add records a cutoff-causing quiet move at ply, promoting the previous
// primary killer to secondary.
func (k *KillerTable) Add(ply int, m board.Move) {
	if k.slots[ply][0].Equals(m) {
		return
	}
	k.slots[ply][1] = k.slots[ply][0]
	k.slots[ply][0] = m
}
