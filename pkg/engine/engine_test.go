package engine_test

import (
	"context"
	"testing"

	"github.com/kestrelchess/engine/pkg/board"
	"github.com/kestrelchess/engine/pkg/board/fen"
	"github.com/kestrelchess/engine/pkg/book"
	"github.com/kestrelchess/engine/pkg/engine"
	"github.com/kestrelchess/engine/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, opts ...engine.Option) *engine.Engine {
	t.Helper()
	var ab search.AlphaBeta
	return engine.New(context.Background(), "testengine", "tester", ab, opts...)
}

func TestTryMoveStrAppliesLegalMove(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.TryMoveStr(context.Background(), "e2e4")
	require.NoError(t, err)
	assert.Equal(t, engine.Applied, result)

	str, ok := e.GetMoveStr(1)
	require.True(t, ok)
	assert.Equal(t, "e2e4", str)
}

func TestTryMoveStrRejectsInvalidSyntax(t *testing.T) {
	e := newTestEngine(t)

	result, err := e.TryMoveStr(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.Equal(t, engine.InvalidSyntax, result)
}

func TestTryMoveStrRejectsIllegalMove(t *testing.T) {
	e := newTestEngine(t)

	// Knight at b1 cannot reach b3 in one hop.
	result, err := e.TryMoveStr(context.Background(), "b1b3")
	require.NoError(t, err)
	assert.Equal(t, engine.Illegal, result)
}

func TestUserUndoRedoRoundTrips(t *testing.T) {
	e := newTestEngine(t)

	before := e.Position()
	result, err := e.TryMoveStr(context.Background(), "e2e4")
	require.NoError(t, err)
	require.Equal(t, engine.Applied, result)

	require.True(t, e.UserUndoMove())
	assert.Equal(t, before, e.Position())

	require.True(t, e.UserRedoMove())
	_, ok := e.GetMoveStr(1)
	assert.True(t, ok)
}

func TestSetPieceAndGetPieceRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.InitGame(context.Background(), "8/8/8/8/8/8/8/8 w - - 0 1"))

	require.NoError(t, e.SetPiece('Q', int(board.Rank4), int(board.FileD)))
	ch, ok := e.GetPiece(int(board.Rank4), int(board.FileD))
	require.True(t, ok)
	assert.Equal(t, 'Q', ch)
}

func TestComputeNextMoveReportsLostWhenAlreadyMated(t *testing.T) {
	e := newTestEngine(t)
	// Fool's mate position: white to move, already checkmated.
	require.NoError(t, e.InitGame(context.Background(), "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"))

	require.NoError(t, e.ComputeNextMove(context.Background()))
	assert.Equal(t, engine.Lost, e.GameState())
	assert.Equal(t, "", e.EngineMoveStr())
}

func TestComputeNextMoveFindsMateInOne(t *testing.T) {
	e := newTestEngine(t, engine.WithSettings(engine.Settings{LevelMaxMax: 3}))
	require.NoError(t, e.InitGame(context.Background(), "6k1/5ppp/8/8/8/8/8/R6K w - - 0 1"))

	require.NoError(t, e.ComputeNextMove(context.Background()))
	assert.Equal(t, engine.Mate, e.GameState())
	assert.NotEmpty(t, e.EngineMoveStr())
}

func TestComputeNextMovePlaysBookMoveWithinPlyWindow(t *testing.T) {
	p, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	e2e4 := board.ParsedMove{From: mustParseSquare(t, "e2"), To: mustParseSquare(t, "e4")}
	realBook, err := book.NewTable(map[board.Fingerprint][]board.ParsedMove{p.Fingerprint(): {e2e4}})
	require.NoError(t, err)

	e := newTestEngine(t, engine.WithBook(realBook), engine.WithSettings(engine.Settings{UseBook: true}))
	require.NoError(t, e.ComputeNextMove(context.Background()))
	assert.Equal(t, "e2e4", e.EngineMoveStr())
}

func TestComputeNextMoveIgnoresBookPastPlyLimit(t *testing.T) {
	p, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	e2e4 := board.ParsedMove{From: mustParseSquare(t, "e2"), To: mustParseSquare(t, "e4")}
	realBook, err := book.NewTable(map[board.Fingerprint][]board.ParsedMove{p.Fingerprint(): {e2e4}})
	require.NoError(t, err)

	e := newTestEngine(t, engine.WithBook(realBook), engine.WithSettings(engine.Settings{UseBook: true, LevelMaxMax: 2}))
	// Replay moves beyond the book's ply window so the fingerprint lookup is
	// for a position (not the initial one) that carries no book entry; the
	// engine must fall through to search instead of erroring.
	for _, mv := range []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6", "b5a4", "g8f6",
		"e1g1", "f8e7", "f1e1", "b7b5", "a4b3", "d7d6", "c2c3", "e8g8"} {
		result, err := e.TryMoveStr(context.Background(), mv)
		require.NoError(t, err)
		require.Equal(t, engine.Applied, result, "move %v", mv)
	}

	require.NoError(t, e.ComputeNextMove(context.Background()))
	assert.NotEmpty(t, e.EngineMoveStr())
}

func mustParseSquare(t *testing.T, s string) board.Square {
	t.Helper()
	sq, err := board.ParseSquareStr(s)
	require.NoError(t, err)
	return sq
}
