package board

import "github.com/cespare/xxhash/v2"

// Fingerprint is a 64-bit digest of a position, used as the transposition
// table key and the opening book lookup key. Unlike the classic
// Zobrist-incremental scheme, it is recomputed directly from the board
// buffer on demand: the playable area is already a flat byte slice, so
// hashing it is one pass over contiguous memory rather than an XOR chain
// threaded through every Make/Unmake call.
type Fingerprint uint64

// Fingerprint hashes the whole 100-byte snapshot of the current ply (the 64
// playable cells plus the border and file-8/file-9 gap cells, which hold the
// same STOP bytes in every position) together with castling rights, en
// passant file and side to move, in a single xxhash pass over that buffer,
// so that positions differing in a single byte still end up with widely
// different digests.
func (p *Position) Fingerprint() Fingerprint {
	nb := p.board()

	var buf [BoardSize + 3]byte
	copy(buf[:BoardSize], nb)
	buf[BoardSize] = byte(p.Castling())
	buf[BoardSize+1] = byte(p.EnPassant().File()) + 1
	if p.EnPassant() == NoSquare {
		buf[BoardSize+1] = 0
	}
	buf[BoardSize+2] = byte(p.SideToMove())

	return Fingerprint(xxhash.Sum64(buf[:]))
}
