// Package eval contains static position evaluation.
package eval

import (
	"context"

	"github.com/kestrelchess/engine/pkg/board"
)

// Evaluator scores a position from the side-to-move's perspective, against
// the search's current (alpha, beta) window so it can short-circuit once the
// cheap terms alone already put the score outside that window.
type Evaluator interface {
	Evaluate(ctx context.Context, p *board.Position, alpha, beta board.Score) board.Score
}

// lazyMargin is the window slack (roughly two pawns) beyond which the
// remaining positional terms computed below are assumed unable to pull the
// score back inside (alpha, beta).
const lazyMargin = 170

// Standard is the engine's hand-crafted evaluator: material, a lazy-eval
// short circuit, piece-square tables, a pawn-blockage penalty and endgame
// king/pawn adjustments, each weighted and summed. It is a single flat
// linear combination rather than a tuned network: the evaluator is
// hand-crafted by design, not learned. It is deterministic: the engine's
// Randomize setting perturbs move ordering, not the score a position
// receives.
type Standard struct{}

func NewStandard() Standard {
	return Standard{}
}

func (s Standard) Evaluate(ctx context.Context, p *board.Position, alpha, beta board.Score) board.Score {
	side := p.SideToMove()

	score := p.Material()
	score += horizonCorrection(p)

	if sideScore := perspective(score, side); sideScore >= beta+lazyMargin || sideScore <= alpha-lazyMargin {
		return sideScore
	}

	score += positionalScore(p)
	score += endgameScore(p)

	return perspective(score, side)
}

func perspective(whiteScore board.Score, side board.Color) board.Score {
	if side == board.Black {
		return -whiteScore
	}
	return whiteScore
}

// horizonCorrection discounts half the value of a capture made on the move
// leading to this position, mitigating the horizon effect where a leaf sits
// right after a winning capture that a deeper search would show gets
// refuted.
func horizonCorrection(p *board.Position) board.Score {
	last := p.LastMove()
	if !last.IsCapture() {
		return 0
	}
	mover := p.SideToMove().Opponent()
	capturer := board.TypeOf(p.GetPiece(last.To))
	half := board.PieceValue(capturer) / 2
	if mover == board.White {
		return -half
	}
	return half
}

// positionalScore sums piece-square table values for every piece on the
// board plus the pawn-blockage penalty: an own piece sitting directly in
// front of an own pawn costs it 9 centipawns, since the pawn can't advance
// without that piece moving first.
func positionalScore(p *board.Position) board.Score {
	var score board.Score
	for idx := 0; idx < board.BoardSize; idx++ {
		sq := board.Square(idx - board.BoardOffset)
		if !sq.IsValid() {
			continue
		}
		cell := p.GetPiece(sq)
		piece := board.TypeOf(cell)
		if piece == board.NoPiece || piece == board.King {
			continue // kings are excluded from the piece-square tables
		}
		color := board.ColorOf(cell)
		v := pieceSquareValue(piece, sq, color)
		if color == board.White {
			score += v
		} else {
			score -= v
		}

		if piece == board.Pawn {
			score += pawnBlockagePenalty(p, sq, color)
		}
	}
	return score
}

func pawnBlockagePenalty(p *board.Position, sq board.Square, color board.Color) board.Score {
	const penalty = 9

	front := sq + board.North
	if color == board.Black {
		front = sq + board.South
	}
	if !front.IsValid() {
		return 0
	}
	fcell := p.GetPiece(front)
	if board.TypeOf(fcell) == board.NoPiece || board.ColorOf(fcell) != color {
		return 0
	}
	if color == board.White {
		return -penalty
	}
	return penalty
}

