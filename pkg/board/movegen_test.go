package board_test

import (
	"testing"

	"github.com/kestrelchess/engine/pkg/board"
	"github.com/kestrelchess/engine/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIncludesPseudoLegalKingWalkIntoCheck(t *testing.T) {
	p, err := fen.Decode("4k3/8/8/8/4r3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	// Ke1-e2 walks the king onto the rook's file: pseudo-legal, not legal.
	e2 := board.NewSquare(board.FileE, board.Rank2)
	var sawIllegalKingMove bool
	for _, m := range board.Generate(p) {
		if m.To == e2 {
			sawIllegalKingMove = true
		}
	}
	assert.True(t, sawIllegalKingMove, "Generate should include the pseudo-legal king move")

	for _, m := range board.Legal(p) {
		assert.NotEqual(t, e2, m.To, "Legal must filter out the move that walks into check")
	}
}

func TestGenerateRotatedProducesSameMoveSetAsGenerate(t *testing.T) {
	p := board.NewPosition()
	p.ResetStartPosition()

	base := board.Generate(p)
	rotated := board.GenerateRotated(p, 37)
	assert.ElementsMatch(t, base, rotated, "rotating the scan start must not change which moves are found")
}

func TestGenerateFromReturnsOnlyTheGivenPiecesMoves(t *testing.T) {
	p := board.NewPosition()
	p.ResetStartPosition()

	b1 := board.NewSquare(board.FileB, board.Rank1)
	moves := board.GenerateFrom(p, b1)
	require.Len(t, moves, 2) // knight on b1: Na3, Nc3
	for _, m := range moves {
		assert.Equal(t, b1, m.From)
	}

	empty := board.NewSquare(board.FileE, board.Rank4)
	assert.Nil(t, board.GenerateFrom(p, empty))
}

func TestIsAttackedDetectsRookOnOpenFile(t *testing.T) {
	p, err := fen.Decode("4k3/8/8/8/8/8/8/R3K3 w Q - 0 1")
	require.NoError(t, err)

	a8 := board.NewSquare(board.FileA, board.Rank8)
	assert.True(t, board.IsAttacked(p, a8, board.White))
	assert.False(t, board.IsAttacked(p, a8, board.Black))
}

func TestInCheckMatchesIsAttackedOnKingSquare(t *testing.T) {
	p, err := fen.Decode("4k3/8/8/8/8/8/4r3/4K3 w - - 0 1")
	require.NoError(t, err)

	assert.True(t, board.InCheck(p, board.White))
	assert.False(t, board.InCheck(p, board.Black))
}

func TestListKingPinnersAlwaysIncludesTheKingSquare(t *testing.T) {
	p := board.NewPosition()
	p.ResetStartPosition()

	e1 := board.NewSquare(board.FileE, board.Rank1)
	pinners := board.ListKingPinners(p, board.White)
	assert.Contains(t, pinners, e1)
	assert.Len(t, pinners, 1, "no pins on the starting position besides the king itself")
}

func TestListKingPinnersFindsAnInterposedPinnedPiece(t *testing.T) {
	// White king on e1, white bishop on e2, black rook on e8: the bishop is
	// pinned along the e-file and may not step off it.
	p, err := fen.Decode("4r3/8/8/8/8/8/4B3/4K3 w - - 0 1")
	require.NoError(t, err)

	e1 := board.NewSquare(board.FileE, board.Rank1)
	e2 := board.NewSquare(board.FileE, board.Rank2)
	pinners := board.ListKingPinners(p, board.White)
	assert.Contains(t, pinners, e1)
	assert.Contains(t, pinners, e2)
	assert.Len(t, pinners, 2)
}

func TestListKingPinnersOmitsSquaresNotOnAPinningRay(t *testing.T) {
	p, err := fen.Decode("4r3/8/8/8/8/8/4B3/4K1N1 w - - 0 1")
	require.NoError(t, err)

	g1 := board.NewSquare(board.FileG, board.Rank1)
	pinners := board.ListKingPinners(p, board.White)
	assert.NotContains(t, pinners, g1, "the knight sits off every ray from the king, so it cannot be a pinner square")
}
