package fen_test

import (
	"testing"

	"github.com/kestrelchess/engine/pkg/board"
	"github.com/kestrelchess/engine/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	tests := []string{
		fen.Initial,
		"4k3/2pppp2/8/4P1K1/4PP2/3P4/8/8 w - - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/5P2/PPPPP1PP/RNBQKBNR w KQkq - 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
		"8/8/8/3k4/8/8/3K4/8 b - - 5 42",
	}

	for _, tt := range tests {
		p, err := fen.Decode(tt)
		require.NoError(t, err)
		assert.Equal(t, tt, fen.Encode(p))
	}
}

func TestDecodePlyFromFullmove(t *testing.T) {
	p, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Ply())
	assert.Equal(t, board.White, p.SideToMove())

	p, err = fen.Decode("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Ply())
	assert.Equal(t, board.Black, p.SideToMove())

	p, err = fen.Decode("8/8/8/3k4/8/8/3K4/8 w - - 0 10")
	require.NoError(t, err)
	assert.Equal(t, 18, p.Ply())
}

func TestDecodeInvalid(t *testing.T) {
	_, err := fen.Decode("not a fen string")
	assert.Error(t, err)
}
