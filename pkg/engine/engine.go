// Package engine wires the board, evaluator and search packages into the
// host-facing Core API: position setup, move application, engine move
// computation, and confirmed-history undo/redo.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"
	"unicode"

	"github.com/kestrelchess/engine/pkg/board"
	"github.com/kestrelchess/engine/pkg/board/fen"
	"github.com/kestrelchess/engine/pkg/book"
	"github.com/kestrelchess/engine/pkg/eval"
	"github.com/kestrelchess/engine/pkg/search"
	"github.com/kestrelchess/engine/pkg/search/searchctl"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 89, 3)

// MoveResult is the outcome of TryMoveStr, mirroring the host-facing
// {-1, 0, 1} return codes of spec.md's try_move_str.
type MoveResult int

const (
	InvalidSyntax MoveResult = -1
	Illegal       MoveResult = 0
	Applied       MoveResult = 1
)

func (r MoveResult) String() string {
	switch r {
	case InvalidSyntax:
		return "invalid-syntax"
	case Illegal:
		return "illegal"
	case Applied:
		return "applied"
	default:
		return "?"
	}
}

// GameState is the post-move status oracle, reported for the side now on
// move (or, in the Lost case, for the side that was asked to move).
type GameState int

const (
	Normal GameState = iota
	Check
	Mate
	Pat // stalemate
	Lost
)

func (s GameState) String() string {
	switch s {
	case Normal:
		return "normal"
	case Check:
		return "check"
	case Mate:
		return "mate"
	case Pat:
		return "pat"
	case Lost:
		return "lost"
	default:
		return "?"
	}
}

// bookPlyLimit is the last ply, inclusive, at which the opening book is
// consulted before falling through to search.
const bookPlyLimit = 15

// Settings are the host-tunable knobs of spec.md §6.
type Settings struct {
	// UseBook consults the opening book for plies 0..15.
	UseBook bool
	// Randomize perturbs tie-broken move ordering.
	Randomize bool
	// Verbose emits a per-iteration PV trace to the log sink.
	Verbose bool
	// LevelMaxMax caps the iterative-deepening depth. Zero means
	// search.DepthCap.
	LevelMaxMax int
	// TimeBudgetMs is the soft wall-clock budget, in milliseconds, for a
	// single ComputeNextMove call. Zero means no time limit (depth-limited
	// only).
	TimeBudgetMs int64
	// Hash is the transposition table size in MB. Zero disables the table.
	Hash uint
}

func (s Settings) String() string {
	return fmt.Sprintf("{book=%v, randomize=%v, verbose=%v, depth=%v, time=%vms, hash=%vMB}",
		s.UseBook, s.Randomize, s.Verbose, s.LevelMaxMax, s.TimeBudgetMs, s.Hash)
}

// Engine encapsulates game-playing logic, search and evaluation behind the
// Core API of spec.md §6.
type Engine struct {
	name, author string

	launcher searchctl.Launcher
	factory  search.TranspositionTableFactory
	seed     int64
	settings Settings
	book     book.Book // nil means no book consulted regardless of Settings.UseBook

	logInfo func(string)
	sendStr func(string)

	p             *board.Position
	tt            search.TranspositionTable
	engineMove    string
	lastGameState GameState

	mu sync.Mutex
}

// Option is an engine creation option.
type Option func(*Engine)

// WithTable configures the engine to use the given transposition table factory.
func WithTable(factory search.TranspositionTableFactory) Option {
	return func(e *Engine) {
		e.factory = factory
	}
}

// WithSettings sets the initial tunables.
func WithSettings(s Settings) Option {
	return func(e *Engine) {
		e.settings = s
	}
}

// WithSeed configures the engine to use the given random seed for book
// tie-breaks, instead of the default seed of zero.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// WithBook installs an opening book. Without this option the engine never
// consults a book, even if Settings.UseBook is set.
func WithBook(b book.Book) Option {
	return func(e *Engine) {
		e.book = b
	}
}

// WithLogInfo registers the host's trace sink, driven for per-iteration PV
// traces when Settings.Verbose is set.
func WithLogInfo(fn func(string)) Option {
	return func(e *Engine) {
		e.logInfo = fn
	}
}

// WithSendStr registers the host's user-visible output sink.
func WithSendStr(fn func(string)) Option {
	return func(e *Engine) {
		e.sendStr = fn
	}
}

func New(ctx context.Context, name, author string, root search.Search, opts ...Option) *Engine {
	e := &Engine{
		name:     name,
		author:   author,
		launcher: &searchctl.Iterative{Root: root},
		factory:  search.NewTranspositionTable,
	}
	for _, fn := range opts {
		fn(e)
	}

	_ = e.InitGame(ctx, "")

	logw.Infof(ctx, "initialized engine: %v, settings=%v", e.Name(), e.settings)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.settings
}

func (e *Engine) SetSettings(s Settings) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.settings = s
}

// InitGame resets all state to the given FEN, or the standard initial
// position if fenOrEmpty is "".
func (e *Engine) InitGame(ctx context.Context, fenOrEmpty string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	record := fenOrEmpty
	if record == "" {
		record = fen.Initial
	}

	p, err := fen.Decode(record)
	if err != nil {
		logw.Errorf(ctx, "invalid FEN %q, resetting to initial position: %v", record, err)
		p, err = fen.Decode(fen.Initial)
		if err != nil {
			return fmt.Errorf("decode initial position: %w", err)
		}
	}
	e.p = p
	e.engineMove = ""
	e.lastGameState = Normal

	e.tt = search.NoTranspositionTable{}
	if e.settings.Hash > 0 {
		e.tt = e.factory(ctx, uint64(e.settings.Hash)<<20)
	}

	logw.Infof(ctx, "new game: %v", fen.Encode(e.p))
	return nil
}

// Position returns the current position in FEN format. Convenience function.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return fen.Encode(e.p)
}

// TryMoveStr parses and, if legal, applies a move in long algebraic form.
func (e *Engine) TryMoveStr(ctx context.Context, s string) (MoveResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	parsed, err := board.ParseMove(s)
	if err != nil {
		logw.Debugf(ctx, "invalid move syntax %q: %v", s, err)
		return InvalidSyntax, nil
	}

	for _, m := range board.Legal(e.p) {
		if !parsed.Matches(m) {
			continue
		}
		if err := e.p.ApplyUserMove(m); err != nil {
			return Illegal, nil
		}
		logw.Infof(ctx, "applied %v", m)
		return Applied, nil
	}

	logw.Debugf(ctx, "illegal move %q", s)
	return Illegal, nil
}

// UserUndoMove steps back through confirmed history.
func (e *Engine) UserUndoMove() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.p.UserUndoMove()
}

// UserRedoMove replays the most recently undone move.
func (e *Engine) UserRedoMove() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.p.UserRedoMove()
}

// SetPiece places (or, with ch==' ', clears) a piece during board setup.
func (e *Engine) SetPiece(ch rune, rank, file int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, f := board.Rank(rank), board.File(file)
	if !r.IsValid() || !f.IsValid() {
		return fmt.Errorf("invalid square rank=%v file=%v", rank, file)
	}

	if ch == ' ' || ch == '.' {
		e.p.SetPiece(board.NewSquare(f, r), 0)
		e.p.RecomputeCaches()
		return nil
	}

	piece, ok := board.ParsePiece(ch)
	if !ok {
		return fmt.Errorf("invalid piece %q", ch)
	}
	color := board.Black
	if ch >= 'A' && ch <= 'Z' {
		color = board.White
	}
	e.p.SetPiece(board.NewSquare(f, r), board.Pack(color, piece))
	e.p.RecomputeCaches()
	return nil
}

// GetPiece returns the piece rune at rank/file for UI rendering, and false
// if the square is empty.
func (e *Engine) GetPiece(rank, file int) (rune, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, f := board.Rank(rank), board.File(file)
	if !r.IsValid() || !f.IsValid() {
		return ' ', false
	}

	cell := e.p.GetPiece(board.NewSquare(f, r))
	piece := board.TypeOf(cell)
	if piece == board.NoPiece {
		return ' ', false
	}

	ch := []rune(piece.String())[0]
	if board.ColorOf(cell) == board.White {
		ch = unicode.ToUpper(ch)
	}
	return ch, true
}

// GetMoveStr retrieves the algebraic string for a past ply.
func (e *Engine) GetMoveStr(ply int) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ply <= 0 || ply > e.p.Ply() {
		return "", false
	}
	m := e.p.MoveAt(ply)
	if m.IsZero() {
		return "", false
	}
	return m.String(), true
}

// EngineMoveStr returns the move string set by the most recent
// ComputeNextMove call.
func (e *Engine) EngineMoveStr() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.engineMove
}

// GameState returns the status set by the most recent ComputeNextMove call.
func (e *Engine) GameState() GameState {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.lastGameState
}

// ComputeNextMove runs the engine: a book probe for early plies, else an
// iterative-deepening search bounded by Settings.LevelMaxMax and
// Settings.TimeBudgetMs. It plays the chosen move and sets EngineMoveStr and
// GameState for the resulting position.
func (e *Engine) ComputeNextMove(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if board.Status(e.p) == board.Mate {
		e.engineMove = ""
		e.lastGameState = Lost
		return nil
	}

	move, ok := e.tryBookMove(ctx)
	if !ok {
		var err error
		move, err = e.searchMove(ctx)
		if err != nil {
			return err
		}
	}

	if err := e.p.ApplyUserMove(move); err != nil {
		return fmt.Errorf("apply engine move %v: %w", move, err)
	}

	e.engineMove = move.String()
	e.lastGameState = reportState(e.p)

	logw.Infof(ctx, "computed %v: %v", move, e.lastGameState)
	if e.sendStr != nil {
		e.sendStr(e.engineMove)
	}
	return nil
}

func reportState(p *board.Position) GameState {
	switch board.Status(p) {
	case board.Mate:
		return Mate
	case board.Check:
		return Check
	default:
		if len(board.Legal(p)) == 0 {
			return Pat
		}
		return Normal
	}
}

// tryBookMove probes the opening book when enabled and within the early-ply
// window, picking uniformly at random among the book moves that resolve to
// an actual legal move in the current position.
func (e *Engine) tryBookMove(ctx context.Context) (board.Move, bool) {
	if !e.settings.UseBook || e.book == nil || e.p.Ply() > bookPlyLimit {
		return board.Move{}, false
	}

	candidates, ok := e.book.Find(e.p.Fingerprint())
	if !ok || len(candidates) == 0 {
		return board.Move{}, false
	}

	legal := board.Legal(e.p)
	var resolved []board.Move
	for _, c := range candidates {
		for _, m := range legal {
			if c.Matches(m) {
				resolved = append(resolved, m)
				break
			}
		}
	}
	if len(resolved) == 0 {
		return board.Move{}, false
	}

	n := eval.NewRandom(len(resolved), e.seed+int64(e.p.Ply())).Evaluate(ctx, e.p)
	idx := int(n) % len(resolved)
	if idx < 0 {
		idx += len(resolved)
	}

	logw.Infof(ctx, "book move: %v (of %v candidates)", resolved[idx], len(resolved))
	return resolved[idx], true
}

func (e *Engine) searchMove(ctx context.Context) (board.Move, error) {
	opt := searchctl.Options{DepthLimit: lang.Some(uint(search.DepthCap))}
	if e.settings.LevelMaxMax > 0 {
		opt.DepthLimit = lang.Some(uint(e.settings.LevelMaxMax))
	}
	if e.settings.TimeBudgetMs > 0 {
		// The core API exposes a single per-move millisecond budget rather
		// than a two-sided clock, so it is modeled as a TimeControl with one
		// move left to play: Limits() then derives a soft limit equal to
		// the configured budget and a 3x hard safety margin.
		budget := time.Duration(e.settings.TimeBudgetMs) * time.Millisecond
		opt.TimeControl = lang.Some(searchctl.TimeControl{White: 4 * budget, Black: 4 * budget, Moves: 1})
	}

	opt.Randomize = e.settings.Randomize
	ev := eval.NewStandard()

	_, out := e.launcher.Launch(ctx, e.p, e.tt, ev, opt)

	var last search.PV
	for pv := range out {
		last = pv
		if e.settings.Verbose && e.logInfo != nil {
			e.logInfo(pv.String())
		}
	}

	if len(last.Moves) == 0 {
		return board.Move{}, fmt.Errorf("search produced no move")
	}
	return last.Moves[0], nil
}
