package board

import "fmt"

// Special tags a Move with the one piece of context that plain from/to/captured
// bytes cannot express: the move generator sets exactly one of these per move.
type Special uint8

const (
	None Special = iota
	DoublePush
	EnPassant
	Promote
	CastleKing
	CastleQueen
	// LRook and RRook mark a rook's first move away from its home corner, so
	// Position.Make can clear the matching castle right without re-deriving it
	// from the move's from-square on every ply.
	LRook
	RRook
)

func (s Special) String() string {
	switch s {
	case None:
		return "-"
	case DoublePush:
		return "double-push"
	case EnPassant:
		return "en-passant"
	case Promote:
		return "promote"
	case CastleKing:
		return "O-O"
	case CastleQueen:
		return "O-O-O"
	case LRook:
		return "l-rook"
	case RRook:
		return "r-rook"
	default:
		return "?"
	}
}

// Move is a 32-bit packed value: from, to, captured-cell and special tag, one
// byte each. Moves compare by their packed Value for equality, which is what
// move ordering (TT move, killer slots) relies on.
type Move struct {
	From, To Square
	Captured byte // packed color|piece cell of the captured piece, 0 if none
	Special  Special
}

// Value packs the move into its canonical 32-bit representation.
func (m Move) Value() uint32 {
	return uint32(byte(m.From))<<24 | uint32(byte(m.To))<<16 | uint32(m.Captured)<<8 | uint32(m.Special)
}

func (m Move) Equals(o Move) bool {
	return m.Value() == o.Value()
}

// IsZero reports whether the move is the zero value (no move / empty TT slot).
func (m Move) IsZero() bool {
	return m.From == 0 && m.To == 0 && m.Captured == 0 && m.Special == None
}

func (m Move) IsCapture() bool {
	return m.Captured != 0 || m.Special == EnPassant
}

func (m Move) IsPromotion() bool {
	return m.Special == Promote
}

func (m Move) IsCastle() bool {
	return m.Special == CastleKing || m.Special == CastleQueen
}

func (m Move) String() string {
	if m.Special == Promote {
		return fmt.Sprintf("%v%vq", m.From, m.To)
	}
	return fmt.Sprintf("%v%v", m.From, m.To)
}

// ParsedMove is the bare from/to/promotion triple recoverable from algebraic
// long-form text alone. It carries no captured-piece or special-tag context: a
// full Move can only be recovered by matching a ParsedMove against the
// generated pseudo-legal moves for the position (see engine.TryMoveStr).
type ParsedMove struct {
	From, To Square
	Promotes bool
}

// ParseMove parses a move in pure algebraic coordinate notation, such as "e2e4"
// or "e7e8q". Promotion, per spec.md, is always to queen.
func ParseMove(str string) (ParsedMove, error) {
	runes := []rune(str)
	if len(runes) < 4 || len(runes) > 5 {
		return ParsedMove{}, fmt.Errorf("invalid move syntax: %q", str)
	}

	from, err := ParseSquare(runes[0], runes[1])
	if err != nil {
		return ParsedMove{}, fmt.Errorf("invalid move syntax %q: %w", str, err)
	}
	to, err := ParseSquare(runes[2], runes[3])
	if err != nil {
		return ParsedMove{}, fmt.Errorf("invalid move syntax %q: %w", str, err)
	}

	promotes := false
	if len(runes) == 5 {
		if runes[4] != 'q' && runes[4] != 'Q' {
			return ParsedMove{}, fmt.Errorf("invalid move syntax %q: only queen promotion is supported", str)
		}
		promotes = true
	}

	return ParsedMove{From: from, To: to, Promotes: promotes}, nil
}

// Matches reports whether a generated Move corresponds to this parsed text.
func (p ParsedMove) Matches(m Move) bool {
	return p.From == m.From && p.To == m.To && p.Promotes == m.IsPromotion()
}

func (p ParsedMove) String() string {
	if p.Promotes {
		return fmt.Sprintf("%v%vq", p.From, p.To)
	}
	return fmt.Sprintf("%v%v", p.From, p.To)
}
