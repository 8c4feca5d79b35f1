package eval

import (
	"sort"

	"github.com/kestrelchess/engine/pkg/board"
)

// MVVLVAScore ranks a capturing move by "most valuable victim, least
// valuable attacker": the victim's nominal value dominates the ordering key,
// with the attacker's value subtracted as a tiebreaker so that, among equal
// captures, the cheaper attacker sorts first.
func MVVLVAScore(p *board.Position, m board.Move) int {
	if !m.IsCapture() {
		return 0
	}
	victim := board.Queen
	if m.Special == board.EnPassant {
		victim = board.Pawn
	} else {
		victim = board.TypeOf(m.Captured)
	}
	attacker := board.TypeOf(p.GetPiece(m.From))
	return int(board.PieceValue(victim))*16 - int(board.PieceValue(attacker))
}

// SortCapturesByMVVLVA orders capture moves from most to least promising,
// for use in move ordering ahead of the rest of the search.
func SortCapturesByMVVLVA(p *board.Position, moves []board.Move) []board.Move {
	sort.SliceStable(moves, func(i, j int) bool {
		return MVVLVAScore(p, moves[i]) > MVVLVAScore(p, moves[j])
	})
	return moves
}
