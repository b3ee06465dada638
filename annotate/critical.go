package annotate

import (
	"github.com/notnil/chess"

	"xaichess/board"
)

// CriticalSquares is the union of OccupiedCritical, EmptyCritical and
// HangingSquares for both colors.
func CriticalSquares(st *board.State) board.SquareSet {
	return OccupiedCritical(st).
		Union(EmptyCritical(st)).
		Union(HangingSquares(st, chess.NoColor))
}

// OccupiedCritical returns the occupied squares with the highest
// piece score × number of enemy attackers. Ties are all returned; a board
// without pieces yields the empty set.
func OccupiedCritical(st *board.State) board.SquareSet {
	return argmax(st.Occupied(), func(sq chess.Square) int {
		p := st.PieceAt(sq)
		return PieceScore(p.Type()) * st.Attackers(p.Color().Other(), sq).Len()
	})
}

// EmptyCritical returns the empty squares attacked by the most pieces of the
// side that is not on move.
func EmptyCritical(st *board.State) board.SquareSet {
	opponent := st.Turn().Other()
	return argmax(st.Occupied().Complement(), func(sq chess.Square) int {
		return st.Attackers(opponent, sq).Len()
	})
}

// HangingSquares returns the occupied squares whose piece IsAttacked.
// only restricts the result to pieces of one color; chess.NoColor keeps both.
func HangingSquares(st *board.State, only chess.Color) board.SquareSet {
	candidates := st.Occupied()
	if only != chess.NoColor {
		candidates = st.PiecesOf(only)
	}
	var hanging board.SquareSet
	for _, sq := range candidates.Squares() {
		if IsAttacked(st, sq) {
			hanging = hanging.Add(sq)
		}
	}
	return hanging
}

func argmax(domain board.SquareSet, score func(chess.Square) int) board.SquareSet {
	var best board.SquareSet
	bestScore := -1
	for _, sq := range domain.Squares() {
		s := score(sq)
		switch {
		case s > bestScore:
			bestScore = s
			best = board.SetOf(sq)
		case s == bestScore:
			best = best.Add(sq)
		}
	}
	return best
}
