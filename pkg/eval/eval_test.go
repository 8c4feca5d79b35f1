package eval_test

import (
	"context"
	"testing"

	"github.com/kestrelchess/engine/pkg/board"
	"github.com/kestrelchess/engine/pkg/board/fen"
	"github.com/kestrelchess/engine/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardEvaluateSymmetricStartPosition(t *testing.T) {
	p := board.NewPosition()
	p.ResetStartPosition()

	e := eval.NewStandard()
	assert.Equal(t, board.Score(0), e.Evaluate(context.Background(), p, board.NegInf, board.Inf))
}

func TestStandardEvaluateMaterialAdvantage(t *testing.T) {
	p, err := fen.Decode("4k3/8/8/8/8/8/8/R3K3 w Q - 0 1")
	require.NoError(t, err)

	e := eval.NewStandard()
	score := e.Evaluate(context.Background(), p, board.NegInf, board.Inf)
	assert.Greater(t, score, board.Score(0))
}

func TestStandardEvaluateLazyExitSkipsPositionalTerms(t *testing.T) {
	p, err := fen.Decode("4k3/8/8/8/8/8/8/3RK3 w - - 0 1")
	require.NoError(t, err)

	e := eval.NewStandard()
	full := e.Evaluate(context.Background(), p, board.NegInf, board.Inf)
	narrow := e.Evaluate(context.Background(), p, board.Score(-5), board.Score(5))

	// The rook's material edge alone clears (-5, 5) by more than the lazy
	// margin, so the narrow call returns before adding piece-square values:
	// it should equal bare material, not the full evaluation.
	assert.Equal(t, p.Material(), narrow)
	assert.NotEqual(t, full, narrow)
}

func TestMVVLVAOrdersQueenCaptureBeforePawnCapture(t *testing.T) {
	p, err := fen.Decode("4k3/8/8/3q1p2/4P3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	d5 := board.NewSquare(board.FileD, board.Rank5)
	f5 := board.NewSquare(board.FileF, board.Rank5)
	var queenCapture, pawnCapture board.Move
	for _, m := range board.Legal(p) {
		switch {
		case m.IsCapture() && m.To == d5:
			queenCapture = m
		case m.IsCapture() && m.To == f5:
			pawnCapture = m
		}
	}
	require.True(t, queenCapture.IsCapture())
	require.True(t, pawnCapture.IsCapture())
	assert.Greater(t, eval.MVVLVAScore(p, queenCapture), eval.MVVLVAScore(p, pawnCapture))
}
