package search

import (
	"github.com/kestrelchess/engine/pkg/board"
	"github.com/kestrelchess/engine/pkg/eval"
)

// FastSortMoves orders pseudo-legal moves into the fixed bucket sequence the
// search walks: the transposition table's stored move, the two killer
// moves at this ply, captures by MVV/LVA, then quiet moves in their
// generation order. Each move is placed into its bucket in one pass, by
// comparison against the three "special" moves and a capture test; the
// capture bucket is then ordered by MVVLVAScore with a stable comparator
// sort, so captures of equal score keep their generation order.
func FastSortMoves(p *board.Position, moves []board.Move, ttMove board.Move, killer1, killer2 board.Move) []board.Move {
	ordered := make([]board.Move, 0, len(moves))
	var captures, quiets []board.Move

	var hasTT, hasK1, hasK2 bool
	for _, m := range moves {
		switch {
		case !hasTT && !ttMove.IsZero() && m.Equals(ttMove):
			hasTT = true
		case !hasK1 && !killer1.IsZero() && m.Equals(killer1):
			hasK1 = true
		case !hasK2 && !killer2.IsZero() && m.Equals(killer2):
			hasK2 = true
		case m.IsCapture():
			captures = append(captures, m)
		default:
			quiets = append(quiets, m)
		}
	}

	if hasTT {
		ordered = append(ordered, ttMove)
	}
	if hasK1 {
		ordered = append(ordered, killer1)
	}
	if hasK2 {
		ordered = append(ordered, killer2)
	}
	ordered = append(ordered, eval.SortCapturesByMVVLVA(p, captures)...)
	ordered = append(ordered, quiets...)
	return ordered
}
