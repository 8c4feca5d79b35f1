package board_test

import (
	"testing"

	"github.com/kestrelchess/engine/pkg/board"
	"github.com/kestrelchess/engine/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perft(p *board.Position, depth int) int {
	if depth == 0 {
		return 1
	}
	moves := board.Legal(p)
	if depth == 1 {
		return len(moves)
	}
	nodes := 0
	for _, m := range moves {
		if err := p.Make(m); err != nil {
			continue
		}
		nodes += perft(p, depth-1)
		p.Unmake()
	}
	return nodes
}

func TestStartPositionLegalMoveCount(t *testing.T) {
	p := board.NewPosition()
	p.ResetStartPosition()
	assert.Len(t, board.Legal(p), 20)
}

func TestPerftStartPosition(t *testing.T) {
	p := board.NewPosition()
	p.ResetStartPosition()

	assert.Equal(t, 20, perft(p, 1))
	assert.Equal(t, 400, perft(p, 2))
	assert.Equal(t, 8902, perft(p, 3))
}

func TestMakeUnmakeRestoresFingerprint(t *testing.T) {
	p := board.NewPosition()
	p.ResetStartPosition()
	before := p.Fingerprint()

	for _, m := range board.Legal(p) {
		require.NoError(t, p.Make(m))
		assert.NotEqual(t, before, p.Fingerprint())
		assert.True(t, p.Unmake())
		assert.Equal(t, before, p.Fingerprint())
	}
}

func TestCastlingRights(t *testing.T) {
	p, err := fen.Decode("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	moves := board.Legal(p)
	var kingSide, queenSide int
	for _, m := range moves {
		switch m.Special {
		case board.CastleKing:
			kingSide++
		case board.CastleQueen:
			queenSide++
		}
	}
	assert.Equal(t, 1, kingSide)
	assert.Equal(t, 1, queenSide)
}

func TestCastlingClearedAfterRookCapture(t *testing.T) {
	p, err := fen.Decode("r3k2r/2N5/8/8/8/8/8/4K3 w kq - 0 1")
	require.NoError(t, err)
	assert.True(t, p.Castling().IsAllowed(board.BlackQueenSideCastle))
	assert.True(t, p.Castling().IsAllowed(board.BlackKingSideCastle))

	c7 := board.NewSquare(board.FileC, board.Rank7)
	a8 := board.NewSquare(board.FileA, board.Rank8)

	found := false
	for _, m := range board.Legal(p) {
		if m.From == c7 && m.To == a8 {
			found = true
			require.NoError(t, p.Make(m))
			break
		}
	}
	require.True(t, found, "expected a knight capture move from c7 to a8")
	assert.False(t, p.Castling().IsAllowed(board.BlackQueenSideCastle))
	assert.True(t, p.Castling().IsAllowed(board.BlackKingSideCastle))
}

func TestEnPassantCapture(t *testing.T) {
	p, err := fen.Decode("4k3/8/8/8/pP6/8/8/4K3 b - b3 0 1")
	require.NoError(t, err)

	a4 := board.NewSquare(board.FileA, board.Rank4)
	b3 := board.NewSquare(board.FileB, board.Rank3)

	var ep board.Move
	for _, m := range board.Legal(p) {
		if m.From == a4 && m.To == b3 {
			ep = m
		}
	}
	require.Equal(t, board.EnPassant, ep.Special)

	beforeMaterial := p.Material()
	require.NoError(t, p.Make(ep))
	assert.Equal(t, board.NoPiece, board.TypeOf(p.GetPiece(board.NewSquare(board.FileB, board.Rank4))))
	assert.NotEqual(t, beforeMaterial, p.Material())
}

func TestPromotion(t *testing.T) {
	p, err := fen.Decode("4k3/P7/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	a7 := board.NewSquare(board.FileA, board.Rank7)
	a8 := board.NewSquare(board.FileA, board.Rank8)

	var promo board.Move
	for _, m := range board.Legal(p) {
		if m.From == a7 && m.To == a8 {
			promo = m
		}
	}
	require.Equal(t, board.Promote, promo.Special)

	require.NoError(t, p.Make(promo))
	assert.Equal(t, board.Queen, board.TypeOf(p.GetPiece(a8)))
}

func TestCheckmateStatus(t *testing.T) {
	// Fool's mate.
	p, err := fen.Decode("rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3")
	require.NoError(t, err)
	assert.Equal(t, board.Mate, board.Status(p))
}

func TestUserUndoRedoMove(t *testing.T) {
	p := board.NewPosition()
	p.ResetStartPosition()
	before := p.Fingerprint()

	m := board.Legal(p)[0]
	require.NoError(t, p.ApplyUserMove(m))
	assert.NotEqual(t, before, p.Fingerprint())

	assert.True(t, p.UserUndoMove())
	assert.Equal(t, before, p.Fingerprint())

	assert.True(t, p.UserRedoMove())
	assert.NotEqual(t, before, p.Fingerprint())

	assert.False(t, p.UserRedoMove())
}
