// Package fen reads and writes positions in Forsyth-Edwards Notation.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/kestrelchess/engine/pkg/board"
)

const (
	Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
)

// Decode parses a FEN record into a fresh Position. The position's root ply
// is pinned at the loaded ply, so a search (or UserUndoMove) can never
// retreat past it.
//
// Example: "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
func Decode(record string) (*board.Position, error) {
	parts := strings.Split(strings.TrimSpace(record), " ")
	if len(parts) != 6 {
		return nil, fmt.Errorf("invalid number of sections in FEN: %q", record)
	}

	p := board.NewPosition()

	// (1) Piece placement, rank 8 down to rank 1, file a through file h.

	rank, file := board.Rank8, board.FileA
	for _, r := range parts[0] {
		switch {
		case r == '/':
			rank--
			file = board.FileA

		case unicode.IsDigit(r):
			file += board.File(r - '0')

		case unicode.IsLetter(r):
			piece, ok := board.ParsePiece(r)
			if !ok {
				return nil, fmt.Errorf("invalid piece %q in FEN: %q", r, record)
			}
			color := board.Black
			if unicode.IsUpper(r) {
				color = board.White
			}
			if !file.IsValid() || !rank.IsValid() {
				return nil, fmt.Errorf("invalid placement in FEN: %q", record)
			}
			p.SetPiece(board.NewSquare(file, rank), board.Pack(color, piece))
			file++

		default:
			return nil, fmt.Errorf("invalid character %q in FEN: %q", r, record)
		}
	}

	// (2) Active color.

	active, ok := parseColor(parts[1])
	if !ok {
		return nil, fmt.Errorf("invalid active color in FEN: %q", record)
	}

	// (3) Castling availability.

	castling, ok := parseCastling(parts[2])
	if !ok {
		return nil, fmt.Errorf("invalid castling in FEN: %q", record)
	}
	p.SetCastling(castling)

	// (4) En passant target square.

	ep := board.NoSquare
	if parts[3] != "-" {
		sq, err := board.ParseSquareStr(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant in FEN: %q", record)
		}
		ep = sq
	}
	p.SetEnPassant(ep)

	// (5) Halfmove clock.

	halfmove, err := strconv.Atoi(parts[4])
	if err != nil || halfmove < 0 {
		return nil, fmt.Errorf("invalid halfmove clock in FEN: %q", record)
	}
	p.SetHalfmoveClock(halfmove)

	// (6) Fullmove number.

	fullmove, err := strconv.Atoi(parts[5])
	if err != nil || fullmove < 1 || fullmove > board.MaxPly/2 {
		return nil, fmt.Errorf("invalid fullmove number in FEN: %q", record)
	}

	p.RecomputeCaches()
	p.SetPlyFromFullmove(fullmove, active)
	p.SetRoot()

	return p, nil
}

// Encode renders the current position as a FEN record.
func Encode(p *board.Position) string {
	var sb strings.Builder
	for rank := board.Rank8; ; rank-- {
		blanks := 0
		for file := board.FileA; file <= board.FileH; file++ {
			cell := p.GetPiece(board.NewSquare(file, rank))
			piece := board.TypeOf(cell)
			if piece == board.NoPiece {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteRune(printPiece(board.ColorOf(cell), piece))
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if rank == board.Rank1 {
			break
		}
		sb.WriteString("/")
	}

	turn := printColor(p.SideToMove())
	castling := printCastling(p.Castling())

	ep := "-"
	if p.EnPassant() != board.NoSquare {
		ep = p.EnPassant().String()
	}

	fullmove := p.Ply()/2 + 1
	return fmt.Sprintf("%v %v %v %v %v %v", sb.String(), turn, castling, ep, p.HalfmoveClock(), fullmove)
}

func parseCastling(str string) (board.Castling, bool) {
	var ret board.Castling
	if str == "-" {
		return ret, true
	}
	for _, r := range str {
		switch r {
		case 'K':
			ret |= board.WhiteKingSideCastle
		case 'Q':
			ret |= board.WhiteQueenSideCastle
		case 'k':
			ret |= board.BlackKingSideCastle
		case 'q':
			ret |= board.BlackQueenSideCastle
		default:
			return 0, false
		}
	}
	return ret, true
}

func printCastling(c board.Castling) string {
	return c.String()
}

func parseColor(str string) (board.Color, bool) {
	switch str {
	case "w", "W":
		return board.White, true
	case "b", "B":
		return board.Black, true
	default:
		return 0, false
	}
}

func printColor(c board.Color) string {
	if c == board.White {
		return "w"
	}
	return "b"
}

func printPiece(c board.Color, p board.Piece) rune {
	r := []rune(p.String())[0]
	if c == board.White {
		return unicode.ToUpper(r)
	}
	return r
}
