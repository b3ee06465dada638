// Package annotate explains chess moves. It finds the critical squares of a
// position, works out which of them a move newly attacks or defends, checks a
// handful of positional motifs and orders the findings into commentary.
package annotate

import (
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"xaichess/board"
)

// Annotator produces commentary for moves. It holds no position state and
// may be reused for any number of calls.
type Annotator struct {
	log         zerolog.Logger
	threatLimit time.Duration
}

// New returns an Annotator logging to log.
func New(log zerolog.Logger) *Annotator {
	return &Annotator{
		log:         log.With().Str("component", "annotate").Logger(),
		threatLimit: ThreatTimeLimit,
	}
}

// Commentary returns the tags for m played in st, ordered attacks, defends,
// activation, bishop on long diagonal, knight in center, queen in center.
func (a *Annotator) Commentary(st *board.State, m *chess.Move) ([]Tag, error) {
	mover, err := moverOf(st, m)
	if err != nil {
		return nil, err
	}
	next := st.Apply(m)

	attacks, defends, fresh := classify(st, next, m, mover)
	a.log.Debug().
		Str("move", m.String()).
		Strs("squares", fresh.Names()).
		Msg("newly controlled critical squares")

	tags := make([]Tag, 0, len(attacks)+len(defends)+4)
	tags = append(tags, attacks...)
	tags = append(tags, defends...)

	motif := func(kind Kind) Tag { return Tag{Kind: kind, Piece: mover, Square: m.S2()} }
	if activates(st, next) {
		tags = append(tags, motif(Activation))
	}
	if LongDiagonal(st, m) {
		tags = append(tags, motif(BishopLongDiagonal))
	}
	if KnightCentral(st, m) {
		tags = append(tags, motif(KnightCenter))
	}
	if QueenCentral(st, m) {
		tags = append(tags, motif(QueenCenter))
	}
	return tags, nil
}

// CommentaryStrings is Commentary rendered as text.
func (a *Annotator) CommentaryStrings(st *board.State, m *chess.Move) ([]string, error) {
	tags, err := a.Commentary(st, m)
	if err != nil {
		return nil, err
	}
	return Strings(tags), nil
}
