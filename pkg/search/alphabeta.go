package search

import (
	"context"

	"github.com/kestrelchess/engine/pkg/board"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// AlphaBeta is a negamax principal-variation search: a full-window search of
// the first move at each node, a cheap zero-window probe of the rest, and a
// full-window re-search only when the probe suggests the move might actually
// improve alpha. Combined with transposition-table and killer-move ordering
// this prunes far more of the tree than plain alpha-beta without changing the
// result.
type AlphaBeta struct{}

func (AlphaBeta) Search(ctx context.Context, sctx *Context, p *board.Position, depth int) (uint64, board.Score, []board.Move, error) {
	start := sctx.nodes
	run := &runPVS{
		p:           p,
		sctx:        sctx,
		rootSterile: p.HalfmoveClock(),
	}

	score, pv := run.search(ctx, 0, depth, board.NegInf, board.Inf)
	nodes := sctx.nodes - start
	if score == board.AbortedScore || contextx.IsCancelled(ctx) {
		return nodes, 0, nil, ErrHalted
	}
	return nodes, score, pv, nil
}

// runPVS holds the state of one iterative-deepening call: the position being
// searched (mutated in place via Make/Unmake as the recursion descends) and
// the shared search context (TT, killers, evaluator, node/time budget).
// rootSterile is the sterile-move count at the position the whole search
// started from -- used by the per-level penalties below, which look at the
// confirmed game history rather than anything mutated mid-search.
type runPVS struct {
	p    *board.Position
	sctx *Context

	rootSterile int
}

// search implements pvs: ply is the recursion's distance from the search
// root (used to index killer slots and to gate the root-only per-level
// penalties), depthLeft is the remaining nominal depth. Returns the score
// from the side-to-move's perspective at this node, and the principal
// variation from this node down.
func (r *runPVS) search(ctx context.Context, ply, depthLeft int, alpha, beta board.Score) (board.Score, []board.Move) {
	if r.sctx.tick() || contextx.IsCancelled(ctx) {
		return board.AbortedScore, nil
	}

	side := r.p.SideToMove()

	if depthLeft <= 0 {
		return r.sctx.Eval.Evaluate(ctx, r.p, alpha, beta), nil
	}

	origAlpha := alpha

	var ttMove board.Move
	if bound, _, score, move, ok := r.sctx.TT.Read(r.p, depthLeft); ok {
		ttMove = move
		switch bound {
		case LowerBound:
			if score > alpha {
				alpha = score
			}
		case UpperBound:
			if score < beta {
				beta = score
			}
		}
		if bound == ExactValue || (alpha >= beta && (bound == LowerBound || bound == UpperBound)) {
			return score, []board.Move{move}
		}
	}

	var moves []board.Move
	if r.sctx.Randomize {
		moves = board.GenerateRotated(r.p, int(r.sctx.nodes%uint64(board.BoardSize)))
	} else {
		moves = board.Generate(r.p)
	}
	inCheck := board.InCheck(r.p, side)
	if len(moves) == 0 && !inCheck {
		return board.StalemateScore, nil
	}

	killer1, killer2 := r.sctx.Killers.Primary(ply), r.sctx.Killers.Secondary(ply)
	ordered := FastSortMoves(r.p, moves, ttMove, killer1, killer2)

	// Computed once per node (not needed when already in check, since every
	// move is slow-path legality-checked in that case anyway).
	var pinners []board.Square
	if !inCheck {
		pinners = board.ListKingPinners(r.p, side)
	}

	// Futility margin: at the last ply before a leaf, with plenty of material
	// still on the board and not in check, a quiet move whose static score
	// can't plausibly recover to the current best is not worth exploring.
	// board.Inf stands in for "no futility" (the margin never binds).
	futility := board.Inf
	if depthLeft == 1 && !inCheck && r.p.PieceCount() > 23 {
		material := r.p.Material()
		if side == board.Black {
			material = -material
		}
		futility = 50 + material
	}

	max := board.NegInf
	var bestMove board.Move
	var bestPV []board.Move
	hasLegal := false
	rootPly := r.p.Ply() // constant across siblings: Unmake restores it every iteration

	for _, m := range ordered {
		if hasLegal && !m.IsCapture() && futility < max {
			continue
		}

		if err := r.p.Make(m); err != nil {
			continue
		}
		if (inCheck || isPinnerSquare(pinners, m.From)) && board.InCheck(r.p, side) {
			r.p.Unmake()
			continue
		}
		movedType := board.TypeOf(r.p.GetPiece(m.To))

		var score board.Score
		var childPV []board.Move
		if !hasLegal {
			score, childPV = r.search(ctx, ply+1, depthLeft-1, -beta, -alpha)
		} else {
			score, childPV = r.search(ctx, ply+1, depthLeft-1, -alpha-1, -alpha)
			if score != board.AbortedScore {
				if probe := incrementMateDistance(-score); alpha < probe && probe < beta && depthLeft > 2 {
					score, childPV = r.search(ctx, ply+1, depthLeft-1, -beta, -alpha)
				}
			}
		}
		r.p.Unmake()

		if score == board.AbortedScore {
			return board.AbortedScore, nil
		}
		score = incrementMateDistance(-score)

		if ply == 0 {
			score += rootPenalty(r.p, r.rootSterile, rootPly, m, movedType)
		}

		hasLegal = true
		if score > max {
			max = score
			bestMove = m
			bestPV = append([]board.Move{m}, childPV...)
		}

		if max >= beta {
			if !bestMove.IsCapture() {
				r.sctx.Killers.Add(ply, bestMove)
			}
			break
		}
		if max > alpha {
			alpha = max
		}
	}

	if !hasLegal {
		if inCheck {
			return -(board.MateScore - board.Score(ply)), nil
		}
		return board.StalemateScore, nil
	}

	bound := ExactValue
	switch {
	case max >= beta:
		bound = LowerBound
	case max <= origAlpha:
		bound = UpperBound
	}
	r.sctx.TT.Write(r.p, bound, depthLeft, max, bestMove)

	return max, bestPV
}

// rootPenalty applies the search's mild, root-level-only discouragements:
// sterile shuffling once more than 24 plies have passed without a pawn move
// or capture, moving the king
// or a rook too early, and repeating or reversing one of the last few plies
// of the actual game. These only ever apply at ply 0 (the move about to be
// played), never deeper in the tree, so they shape the engine's choice of
// move without distorting the evaluation of positions it merely visits.
func rootPenalty(p *board.Position, rootSterile, rootPly int, m board.Move, moved board.Piece) board.Score {
	var penalty board.Score

	if rootSterile > 24 && moved != board.Pawn && !m.IsCapture() {
		penalty -= board.Score(rootSterile)
	}
	if moved == board.King {
		penalty -= 8
	}
	if moved == board.Rook && rootPly < 10 {
		penalty -= 20
	}

	if rootPly > 6 {
		if prev := p.MoveAt(rootPly - 2); m.From == prev.To && m.To == prev.From {
			penalty -= 10
		}
		if prev := p.MoveAt(rootPly - 4); m.From == prev.From && m.To == prev.To {
			penalty -= 30
		}
		if prev := p.MoveAt(rootPly - 6); m.From == prev.To && m.To == prev.From {
			penalty -= 100
		}
		if rootPly > 12 {
			if prev := p.MoveAt(rootPly - 8); m.From == prev.From && m.To == prev.To {
				penalty -= 300
			}
			if prev := p.MoveAt(rootPly - 12); m.From == prev.From && m.To == prev.To {
				penalty -= 600
			}
		}
	}

	return penalty
}

func isPinnerSquare(pinners []board.Square, sq board.Square) bool {
	for _, pin := range pinners {
		if pin == sq {
			return true
		}
	}
	return false
}
