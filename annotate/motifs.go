package annotate

import (
	"github.com/notnil/chess"

	"xaichess/board"
)

// ActivationThreshold is the control gain a move must exceed to count as
// activating pieces.
const ActivationThreshold = 5

var (
	longDiagonals  board.SquareSet
	centralSquares board.SquareSet
)

func init() {
	// a1-h8, a2-g8, b1-h7, h1-a8, g1-a7, h2-b8
	for _, d := range []struct{ start, stop, step int }{
		{0, 64, 9}, {8, 63, 9}, {1, 56, 9},
		{7, 57, 7}, {6, 49, 7}, {15, 58, 7},
	} {
		for i := d.start; i < d.stop; i += d.step {
			longDiagonals = longDiagonals.Add(chess.Square(i))
		}
	}
	for _, r := range [][2]int{{18, 22}, {26, 30}, {34, 38}, {42, 50}} {
		for i := r[0]; i < r[1]; i++ {
			centralSquares = centralSquares.Add(chess.Square(i))
		}
	}
}

// LongDiagonals returns the squares on the six long diagonals.
func LongDiagonals() board.SquareSet { return longDiagonals }

// CentralSquares returns the central zone used by the occupation motifs.
func CentralSquares() board.SquareSet { return centralSquares }

func enters(zone board.SquareSet, m *chess.Move) bool {
	return !zone.Has(m.S1()) && zone.Has(m.S2())
}

func movesInto(st *board.State, m *chess.Move, kind chess.PieceType, zone board.SquareSet) bool {
	return m != nil && st.PieceAt(m.S1()).Type() == kind && enters(zone, m)
}

// LongDiagonal reports a bishop moving from a passive square onto a long
// diagonal.
func LongDiagonal(st *board.State, m *chess.Move) bool {
	return movesInto(st, m, chess.Bishop, longDiagonals)
}

// KnightCentral reports a knight moving into the center.
func KnightCentral(st *board.State, m *chess.Move) bool {
	return movesInto(st, m, chess.Knight, centralSquares)
}

// QueenCentral reports a queen moving into the center.
func QueenCentral(st *board.State, m *chess.Move) bool {
	return movesInto(st, m, chess.Queen, centralSquares)
}

// Activates reports whether m raises the mover's board control by more than
// ActivationThreshold.
func Activates(st *board.State, m *chess.Move) bool {
	if m == nil {
		return false
	}
	return activates(st, st.Apply(m))
}

// After the move the turn has passed, so the mover is next.Turn().Other().
func activates(st, next *board.State) bool {
	before := ControlCount(st, st.Turn())
	after := ControlCount(next, next.Turn().Other())
	return exceedsActivation(before, after)
}

func exceedsActivation(before, after int) bool {
	return after > before+ActivationThreshold
}
