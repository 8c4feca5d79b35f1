package board_test

import (
	"testing"

	"github.com/kestrelchess/engine/pkg/board"
	"github.com/stretchr/testify/assert"
)

func TestRank(t *testing.T) {
	assert.True(t, board.Rank1.IsValid())
	assert.True(t, board.Rank3.IsValid())
	assert.True(t, board.Rank8.IsValid())
	assert.False(t, board.Rank(8).IsValid())

	assert.Equal(t, "1", board.Rank1.String())
	assert.Equal(t, "7", board.Rank7.String())
	assert.Equal(t, "5", board.Rank(4).String())
}

func TestFile(t *testing.T) {
	assert.True(t, board.FileA.IsValid())
	assert.True(t, board.FileB.IsValid())
	assert.True(t, board.FileH.IsValid())
	assert.False(t, board.File(8).IsValid())

	assert.Equal(t, "a", board.FileA.String())
	assert.Equal(t, "g", board.FileG.String())
	assert.Equal(t, "e", board.File(4).String())
}

func TestSquare(t *testing.T) {
	c2 := board.NewSquare(board.FileC, board.Rank2)
	g5 := board.NewSquare(board.FileG, board.Rank5)

	assert.Equal(t, board.FileC, c2.File())
	assert.Equal(t, board.Rank2, c2.Rank())
	assert.Equal(t, board.FileG, g5.File())
	assert.Equal(t, board.Rank5, g5.Rank())

	assert.True(t, board.NewSquare(board.FileH, board.Rank1).IsValid())
	assert.True(t, board.NewSquare(board.FileD, board.Rank4).IsValid())
	assert.True(t, board.NewSquare(board.FileA, board.Rank8).IsValid())
	assert.False(t, board.Square(88).IsValid()) // rank 8 border row

	sq, err := board.ParseSquareStr("e4")
	assert.NoError(t, err)
	assert.Equal(t, board.NewSquare(board.FileE, board.Rank4), sq)
	assert.Equal(t, "e4", sq.String())

	_, err = board.ParseSquareStr("z9")
	assert.Error(t, err)
}
