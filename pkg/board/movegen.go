package board

// Generate returns every pseudo-legal move for the side to move: it obeys
// piece movement rules and cannot move through or onto a friendly piece, but
// does not check whether the mover's own king ends up in check. Callers
// needing strictly legal moves should use Legal instead.
func Generate(p *Position) []Move {
	return generate(p, 0)
}

// GenerateRotated behaves like Generate, but scans the board's squares
// starting at a rotated offset instead of always index 0. It backs the
// engine's Randomize setting: the move order this produces differs only in
// which of several identically scored moves sorts first, so it perturbs
// move choice without touching any position's evaluation.
func GenerateRotated(p *Position, offset int) []Move {
	return generate(p, offset)
}

func generate(p *Position, offset int) []Move {
	moves := make([]Move, 0, 48)
	color := p.SideToMove()

	for i := 0; i < BoardSize; i++ {
		idx := (i + offset) % BoardSize
		sq := Square(idx - BoardOffset)
		if !sq.IsValid() {
			continue
		}
		cell := p.GetPiece(sq)
		if TypeOf(cell) == NoPiece || ColorOf(cell) != color {
			continue
		}
		moves = appendPieceMoves(p, moves, sq, cell)
	}

	return moves
}

// GenerateFrom returns the pseudo-legal moves for the single piece occupying
// sq, regardless of whose turn it is, or nil if sq is empty.
func GenerateFrom(p *Position, sq Square) []Move {
	cell := p.GetPiece(sq)
	if TypeOf(cell) == NoPiece {
		return nil
	}
	return appendPieceMoves(p, nil, sq, cell)
}

func appendPieceMoves(p *Position, moves []Move, sq Square, cell byte) []Move {
	switch TypeOf(cell) {
	case Pawn:
		return appendPawnMoves(p, moves, sq, ColorOf(cell))
	case Knight:
		return appendStepMoves(p, moves, sq, ColorOf(cell), KnightDirs[:])
	case King:
		moves = appendStepMoves(p, moves, sq, ColorOf(cell), KingDirs[:])
		return appendCastleMoves(p, moves, sq, ColorOf(cell))
	case Bishop:
		return appendSlideMoves(p, moves, sq, ColorOf(cell), BishopDirs[:])
	case Rook:
		return appendSlideMoves(p, moves, sq, ColorOf(cell), RookDirs[:])
	case Queen:
		moves = appendSlideMoves(p, moves, sq, ColorOf(cell), RookDirs[:])
		return appendSlideMoves(p, moves, sq, ColorOf(cell), BishopDirs[:])
	}
	return moves
}

func rookTag(color Color, from Square) Special {
	switch {
	case color == White && from == whiteLRookHome, color == Black && from == blackLRookHome:
		return LRook
	case color == White && from == whiteRRookHome, color == Black && from == blackRRookHome:
		return RRook
	default:
		return None
	}
}

func appendStepMoves(p *Position, moves []Move, from Square, color Color, dirs []Square) []Move {
	for _, d := range dirs {
		to := from + d
		if !to.IsValid() {
			continue
		}
		target := p.GetPiece(to)
		if TypeOf(target) != NoPiece && ColorOf(target) == color {
			continue
		}
		moves = append(moves, Move{From: from, To: to, Captured: target})
	}
	return moves
}

func appendSlideMoves(p *Position, moves []Move, from Square, color Color, dirs []Square) []Move {
	special := rookTag(color, from)
	for _, d := range dirs {
		for to := from + d; to.IsValid(); to += d {
			target := p.GetPiece(to)
			if TypeOf(target) != NoPiece && ColorOf(target) == color {
				break
			}
			moves = append(moves, Move{From: from, To: to, Captured: target, Special: special})
			if TypeOf(target) != NoPiece {
				break
			}
		}
	}
	return moves
}

func appendCastleMoves(p *Position, moves []Move, kingSq Square, color Color) []Move {
	rights := p.Castling()
	rank := Rank1
	if color == Black {
		rank = Rank8
	}
	e := NewSquare(FileE, rank)
	if kingSq != e {
		return moves
	}
	if InCheck(p, color) {
		return moves
	}

	if rights.IsAllowed(KingSide(color)) {
		f, g, h := NewSquare(FileF, rank), NewSquare(FileG, rank), NewSquare(FileH, rank)
		if TypeOf(p.GetPiece(f)) == NoPiece && TypeOf(p.GetPiece(g)) == NoPiece &&
			TypeOf(p.GetPiece(h)) == Rook && ColorOf(p.GetPiece(h)) == color &&
			!IsAttacked(p, f, color.Opponent()) && !IsAttacked(p, g, color.Opponent()) {
			moves = append(moves, Move{From: kingSq, To: g, Special: CastleKing})
		}
	}
	if rights.IsAllowed(QueenSide(color)) {
		b, c, d, a := NewSquare(FileB, rank), NewSquare(FileC, rank), NewSquare(FileD, rank), NewSquare(FileA, rank)
		if TypeOf(p.GetPiece(b)) == NoPiece && TypeOf(p.GetPiece(c)) == NoPiece && TypeOf(p.GetPiece(d)) == NoPiece &&
			TypeOf(p.GetPiece(a)) == Rook && ColorOf(p.GetPiece(a)) == color &&
			!IsAttacked(p, d, color.Opponent()) && !IsAttacked(p, c, color.Opponent()) {
			moves = append(moves, Move{From: kingSq, To: c, Special: CastleQueen})
		}
	}
	return moves
}

func appendPawnMoves(p *Position, moves []Move, from Square, color Color) []Move {
	forward := North
	startRank, promoteRank := Rank2, Rank8
	if color == Black {
		forward = South
		startRank, promoteRank = Rank7, Rank1
	}

	one := from + forward
	if one.IsValid() && TypeOf(p.GetPiece(one)) == NoPiece {
		moves = appendPawnDestination(moves, from, one, 0, promoteRank)
		if from.Rank() == startRank {
			two := one + forward
			if TypeOf(p.GetPiece(two)) == NoPiece {
				moves = append(moves, Move{From: from, To: two, Special: DoublePush})
			}
		}
	}

	for _, capDir := range pawnCaptureDirs(color) {
		to := from + capDir
		if !to.IsValid() {
			continue
		}
		if to == p.EnPassant() {
			moves = append(moves, Move{From: from, To: to, Special: EnPassant})
			continue
		}
		target := p.GetPiece(to)
		if TypeOf(target) != NoPiece && ColorOf(target) != color {
			moves = appendPawnDestination(moves, from, to, target, promoteRank)
		}
	}
	return moves
}

func pawnCaptureDirs(color Color) [2]Square {
	if color == White {
		return [2]Square{NorthEast, NorthWest}
	}
	return [2]Square{SouthEast, SouthWest}
}

func appendPawnDestination(moves []Move, from, to Square, captured byte, promoteRank Rank) []Move {
	if to.Rank() == promoteRank {
		return append(moves, Move{From: from, To: to, Captured: captured, Special: Promote})
	}
	return append(moves, Move{From: from, To: to, Captured: captured})
}

// IsAttacked reports whether sq is attacked by any piece of the given color
// in the current position. Used for check detection and castling-through-
// check tests.
func IsAttacked(p *Position, sq Square, by Color) bool {
	for _, d := range KnightDirs {
		from := sq + d
		if !from.IsValid() {
			continue
		}
		cell := p.GetPiece(from)
		if TypeOf(cell) == Knight && ColorOf(cell) == by {
			return true
		}
	}

	for _, d := range KingDirs {
		from := sq + d
		if !from.IsValid() {
			continue
		}
		cell := p.GetPiece(from)
		if TypeOf(cell) == King && ColorOf(cell) == by {
			return true
		}
	}

	for _, d := range RookDirs {
		for from := sq + d; from.IsValid(); from += d {
			cell := p.GetPiece(from)
			if TypeOf(cell) == NoPiece {
				continue
			}
			if ColorOf(cell) == by && (TypeOf(cell) == Rook || TypeOf(cell) == Queen) {
				return true
			}
			break
		}
	}
	for _, d := range BishopDirs {
		for from := sq + d; from.IsValid(); from += d {
			cell := p.GetPiece(from)
			if TypeOf(cell) == NoPiece {
				continue
			}
			if ColorOf(cell) == by && (TypeOf(cell) == Bishop || TypeOf(cell) == Queen) {
				return true
			}
			break
		}
	}

	pawnDirs := [2]Square{SouthEast, SouthWest} // squares a white pawn attacking sq would sit on
	if by == Black {
		pawnDirs = [2]Square{NorthEast, NorthWest}
	}
	for _, d := range pawnDirs {
		from := sq + d
		if !from.IsValid() {
			continue
		}
		cell := p.GetPiece(from)
		if TypeOf(cell) == Pawn && ColorOf(cell) == by {
			return true
		}
	}

	return false
}

func InCheck(p *Position, color Color) bool {
	king := p.KingSquare(color)
	if king == NoSquare {
		return false
	}
	return IsAttacked(p, king, color.Opponent())
}

// ListKingPinners returns the set of own squares whose movement might
// uncover a check on color's king: the king's own square, plus every square
// holding exactly one own piece on a sliding ray between the king and an
// opposing slider of the matching kind (rook/queen on a rook ray,
// bishop/queen on a bishop ray). A move from any other square cannot change
// the king's check status, so the caller only needs a slow legality check
// (make, IsAttacked, unmake) for moves originating from one of these
// squares, or when already in check.
func ListKingPinners(p *Position, color Color) []Square {
	king := p.KingSquare(color)
	if king == NoSquare {
		return nil
	}

	pinners := []Square{king}
	opp := color.Opponent()
	for _, d := range RookDirs {
		if sq, ok := findPinner(p, king, d, color, opp, Rook); ok {
			pinners = append(pinners, sq)
		}
	}
	for _, d := range BishopDirs {
		if sq, ok := findPinner(p, king, d, color, opp, Bishop); ok {
			pinners = append(pinners, sq)
		}
	}
	return pinners
}

// findPinner walks one ray from the king looking for exactly one own piece
// followed by an opposing slider of sliderType (or queen). Returns the own
// piece's square and true if so; otherwise false.
func findPinner(p *Position, king, d Square, own, opp Color, sliderType Piece) (Square, bool) {
	var candidate Square = NoSquare
	for sq := king + d; sq.IsValid(); sq += d {
		cell := p.GetPiece(sq)
		if TypeOf(cell) == NoPiece {
			continue
		}
		if candidate == NoSquare {
			if ColorOf(cell) != own {
				return NoSquare, false // enemy piece adjacent on the ray: no interposed own piece to pin
			}
			candidate = sq
			continue
		}
		if ColorOf(cell) == opp && (TypeOf(cell) == sliderType || TypeOf(cell) == Queen) {
			return candidate, true
		}
		return NoSquare, false
	}
	return NoSquare, false
}

// Legal filters Generate's pseudo-legal moves down to those that do not
// leave the mover's own king in check. It drives every candidate through
// Make/Unmake/IsAttacked regardless of ListKingPinners: this path is used
// for host-facing move lists and perft, where simplicity matters more than
// the search's per-node optimization.
func Legal(p *Position) []Move {
	color := p.SideToMove()
	pseudo := Generate(p)
	legal := make([]Move, 0, len(pseudo))
	for _, m := range pseudo {
		if err := p.Make(m); err != nil {
			continue
		}
		if !InCheck(p, color) {
			legal = append(legal, m)
		}
		p.Unmake()
	}
	return legal
}

// Status reports whether the side to move is in normal play, in check, or
// checkmated (no legal move escapes check). Stalemate is reported as Normal
// with zero legal moves; callers that need to tell the two apart should
// check len(Legal(p)) == 0 directly alongside InCheck.
func Status(p *Position) Status {
	color := p.SideToMove()
	check := InCheck(p, color)
	if !check {
		return Normal
	}
	if len(Legal(p)) == 0 {
		return Mate
	}
	return Check
}
