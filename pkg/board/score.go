package board

import "fmt"

// Score is a signed position or move score in centipawns, from White's perspective
// unless noted otherwise. Mate scores are encoded close to +/-MateScore and are
// distinguished from ordinary material scores by the MateDistance margin.
type Score int32

const (
	MateScore    Score = 30000
	MateDistance Score = 1000 // scores within this margin of MateScore are forced mates
	Inf          Score = MateScore + MateDistance
	NegInf             = -Inf

	// AbortedScore is returned by a search node that was cut short by the time-budget
	// check. It sits outside the legal score range so a caller never mistakes it for
	// a real evaluation. Scores are kept within int16 range (the transposition
	// table packs them into 2 bytes per entry), so this still fits comfortably.
	AbortedScore = NegInf - 1

	// StalemateScore is returned, from the stalemated side's own perspective, when
	// that side has no legal move and is not in check. It is deliberately a large
	// positive number rather than zero: negamax negates it on the way back up the
	// recursion, so a move that stalemates the opponent scores as strongly bad for
	// the side that played it. The engine would rather keep grinding a winning
	// position than accidentally hand the opponent a draw.
	StalemateScore Score = 500
)

func (s Score) String() string {
	return fmt.Sprintf("%.2f", float64(s)/100)
}

// IsMate reports whether the score represents a forced mate (for or against the side).
func (s Score) IsMate() bool {
	return s > MateScore-MateDistance || s < -MateScore+MateDistance
}

// MateDistanceIn reports the number of plies to the forced mate this score
// encodes, if any. ok is false for an ordinary material score.
func (s Score) MateDistanceIn() (plies int, ok bool) {
	switch {
	case s > MateScore-MateDistance:
		return int(MateScore - s), true
	case s < -MateScore+MateDistance:
		return int(MateScore + s), true
	default:
		return 0, false
	}
}

func Max(a, b Score) Score {
	if a > b {
		return a
	}
	return b
}

func Min(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}
