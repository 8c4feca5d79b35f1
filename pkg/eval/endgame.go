package eval

import "github.com/kestrelchess/engine/pkg/board"

// kingCornerMalus penalizes a king for standing near a corner once the
// endgame adjustments below are active: with few pieces left, an active,
// centralized king is an asset rather than a liability. Indexed by rank
// (0..7) then file (0..7); symmetric, so it needs no per-color mirroring.
var kingCornerMalus = [8][8]board.Score{
	{40, 30, 20, 10, 10, 20, 30, 40},
	{30, 20, 10, 0, 0, 10, 20, 30},
	{20, 10, 0, -10, -10, 0, 10, 20},
	{10, 0, -10, -20, -20, -10, 0, 10},
	{10, 0, -10, -20, -20, -10, 0, 10},
	{20, 10, 0, -10, -10, 0, 10, 20},
	{30, 20, 10, 0, 0, 10, 20, 30},
	{40, 30, 20, 10, 10, 20, 30, 40},
}

const endgamePieceCount = 24

// endgameScore applies the two adjustments that only make sense once the
// board has thinned out: a bonus for advanced passed-ish pawns (proportional
// to how far they've run, to encourage pushing toward promotion) and a
// penalty for a king that has wandered toward a corner instead of toward the
// center of the action.
func endgameScore(p *board.Position) board.Score {
	if p.PieceCount() >= endgamePieceCount {
		return 0
	}

	var score board.Score
	for idx := 0; idx < board.BoardSize; idx++ {
		sq := board.Square(idx - board.BoardOffset)
		if !sq.IsValid() {
			continue
		}
		cell := p.GetPiece(sq)
		piece := board.TypeOf(cell)
		if piece == board.NoPiece {
			continue
		}
		color := board.ColorOf(cell)
		rank := int(sq.Rank())

		switch piece {
		case board.Pawn:
			if color == board.White {
				score += board.Score(rank) * 8
			} else {
				score -= board.Score(7-rank) * 8
			}
		case board.King:
			malus := kingCornerMalus[rank][sq.File()]
			if color == board.White {
				score -= malus
			} else {
				score += malus
			}
		}
	}
	return score
}
