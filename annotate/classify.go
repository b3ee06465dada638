package annotate

import (
	"errors"
	"fmt"

	"github.com/notnil/chess"

	"xaichess/board"
)

// ErrInvalidMove is returned for a move whose origin square is empty.
var ErrInvalidMove = errors.New("invalid move")

func moverOf(st *board.State, m *chess.Move) (chess.Piece, error) {
	if m == nil {
		return chess.NoPiece, fmt.Errorf("%w: nil move", ErrInvalidMove)
	}
	p := st.PieceAt(m.S1())
	if p == chess.NoPiece {
		return chess.NoPiece, fmt.Errorf("%w: no piece on %s for %s", ErrInvalidMove, m.S1(), m)
	}
	return p, nil
}

// ControlledDelta returns the critical squares of the position after m that
// the moved piece attacks from its destination.
func ControlledDelta(st *board.State, m *chess.Move) (board.SquareSet, error) {
	if _, err := moverOf(st, m); err != nil {
		return board.NoSquares, err
	}
	return controlledDelta(st.Apply(m), m), nil
}

func controlledDelta(next *board.State, m *chess.Move) board.SquareSet {
	return next.Attacks(m.S2()).Intersect(CriticalSquares(next))
}

// Classify returns one attacks tag per enemy piece and one defends tag per
// friendly piece standing on a critical square that the moved piece did not
// attack before the move and attacks after it.
func Classify(st *board.State, m *chess.Move) (attacks, defends []Tag, err error) {
	mover, err := moverOf(st, m)
	if err != nil {
		return nil, nil, err
	}
	attacks, defends, _ = classify(st, st.Apply(m), m, mover)
	return attacks, defends, nil
}

func classify(st, next *board.State, m *chess.Move, mover chess.Piece) (attacks, defends []Tag, fresh board.SquareSet) {
	fresh = st.Attacks(m.S1()).Complement().Intersect(controlledDelta(next, m))
	side := st.Turn()
	for _, sq := range fresh.Squares() {
		target := next.PieceAt(sq)
		if target == chess.NoPiece {
			continue
		}
		tag := Tag{Piece: mover, Target: target, Square: sq}
		if target.Color() != side {
			tag.Kind = Attacks
			attacks = append(attacks, tag)
		} else {
			tag.Kind = Defends
			defends = append(defends, tag)
		}
	}
	return attacks, defends, fresh
}
