// Package book implements the opening book: a fixed-size, open-addressed
// table keyed by position fingerprint, loaded from a packed binary file.
// Building the table from PGN game data is out of scope here (see spec
// non-goals); this package only loads and looks up an already-built table.
package book

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/kestrelchess/engine/pkg/board"
)

// movesPerEntry is the fixed number of move slots carried per fingerprint,
// matching the on-disk entry layout.
const movesPerEntry = 10

// entrySize is the on-disk byte size of one slot: an 8-byte fingerprint, a
// 4-byte move count, and 10 4-byte packed moves.
const entrySize = 8 + 4 + movesPerEntry*4

// slot is one in-memory table entry. A slot with fingerprint 0 and count 0
// is empty.
type slot struct {
	fingerprint uint64
	count       int32
	moves       [movesPerEntry]uint32
}

func (s slot) isEmpty() bool {
	return s.fingerprint == 0 && s.count == 0
}

// Book is an opening book lookup: moves for a position, keyed by its
// fingerprint.
type Book interface {
	Find(fp board.Fingerprint) ([]board.ParsedMove, bool)
}

// Table is an opening book: a power-of-two array of slots probed by linear
// open addressing on the position fingerprint.
type Table struct {
	slots []slot
}

// Load reads a packed opening-book file: a power-of-two-sized array of
// (fingerprint uint64, move_count int32, move[10] uint32) records, as
// written by an offline book-building tool. The size of r's contents must be
// an exact multiple of the entry size and a power of two number of entries.
func Load(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	data, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("read book: %w", err)
	}
	if len(data)%entrySize != 0 {
		return nil, fmt.Errorf("malformed book: size %v is not a multiple of entry size %v", len(data), entrySize)
	}

	n := len(data) / entrySize
	if n == 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("malformed book: entry count %v is not a power of two", n)
	}

	slots := make([]slot, n)
	for i := range slots {
		off := i * entrySize
		s := slot{
			fingerprint: binary.LittleEndian.Uint64(data[off:]),
			count:       int32(binary.LittleEndian.Uint32(data[off+8:])),
		}
		for j := 0; j < movesPerEntry; j++ {
			s.moves[j] = binary.LittleEndian.Uint32(data[off+12+j*4:])
		}
		slots[i] = s
	}
	return &Table{slots: slots}, nil
}

// Find looks up a fingerprint by linear probing from its natural slot. It
// returns the moves stored there, or ok=false if no slot along the probe
// sequence carries a matching fingerprint before an empty slot is reached.
func (t *Table) Find(fp board.Fingerprint) ([]board.ParsedMove, bool) {
	n := len(t.slots)
	if n == 0 {
		return nil, false
	}

	idx := int(uint64(fp) % uint64(n))
	for probed := 0; probed < n; probed++ {
		s := t.slots[idx]
		if s.isEmpty() {
			return nil, false
		}
		if s.fingerprint == uint64(fp) {
			moves := make([]board.ParsedMove, s.count)
			for i := 0; i < int(s.count); i++ {
				moves[i] = decodeMove(s.moves[i])
			}
			return moves, true
		}
		idx = (idx + 1) % n
	}
	return nil, false
}

// Size reports the number of slots in the table.
func (t *Table) Size() int {
	return len(t.slots)
}

// NewTable builds an in-memory table from already-fingerprinted entries,
// sized to the next power of two with headroom for open addressing. It
// exists for tests and for a future offline precomputation tool to call;
// it does not itself derive fingerprints from PGN or FEN data.
func NewTable(entries map[board.Fingerprint][]board.ParsedMove) (*Table, error) {
	n := 1
	for n < 2*len(entries) {
		n *= 2
	}
	if n == 0 {
		n = 1
	}

	slots := make([]slot, n)
	for fp, moves := range entries {
		if len(moves) > movesPerEntry {
			return nil, fmt.Errorf("too many moves for fingerprint %x: %v > %v", fp, len(moves), movesPerEntry)
		}

		idx := int(uint64(fp) % uint64(n))
		for !slots[idx].isEmpty() {
			idx = (idx + 1) % n
		}

		s := slot{fingerprint: uint64(fp), count: int32(len(moves))}
		for i, m := range moves {
			s.moves[i] = encodeMove(m)
		}
		slots[idx] = s
	}
	return &Table{slots: slots}, nil
}

// encodeMove packs a ParsedMove into the book's on-disk 32-bit move
// representation: from and to squares one byte each, plus a promotion bit.
// This is narrower than board.Move.Value() (it carries no captured-piece or
// special-tag byte) since a book move is always re-resolved against the
// position's generated moves before being played.
func encodeMove(m board.ParsedMove) uint32 {
	var promote uint32
	if m.Promotes {
		promote = 1
	}
	return uint32(byte(m.From))<<16 | uint32(byte(m.To))<<8 | promote
}

func decodeMove(v uint32) board.ParsedMove {
	return board.ParsedMove{
		From:     board.Square(byte(v >> 16)),
		To:       board.Square(byte(v >> 8)),
		Promotes: v&1 != 0,
	}
}
