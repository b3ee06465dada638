package annotate

import (
	"context"
	"fmt"
	"time"

	"github.com/notnil/chess"

	"xaichess/board"
	"xaichess/bots"
)

// ThreatTimeLimit is the default search budget handed to the engine per
// threat query.
const ThreatTimeLimit = time.Second

// WithThreatLimit returns a copy of a that gives the engine d per threat
// query. Non-positive d restores ThreatTimeLimit.
func (a *Annotator) WithThreatLimit(d time.Duration) *Annotator {
	if d <= 0 {
		d = ThreatTimeLimit
	}
	c := *a
	c.threatLimit = d
	return &c
}

// BestThreat asks bot what the side not on move would play if it were its
// turn. Only the side to move is changed; the flipped position is not checked
// for legality.
func (a *Annotator) BestThreat(ctx context.Context, st *board.State, bot bots.ChessBot) (*chess.Move, error) {
	if bot == nil {
		return nil, bots.ErrEngineUnavailable
	}
	flipped, err := st.WithTurnFlipped()
	if err != nil {
		return nil, fmt.Errorf("flip turn: %w", err)
	}
	m, err := bot.BestMove(ctx, flipped.Position(), a.threatLimit)
	if err != nil {
		return nil, fmt.Errorf("best threat from %s: %w", bot.Name(), err)
	}
	a.log.Debug().
		Str("engine", bot.Name()).
		Str("fen", flipped.FEN()).
		Str("threat", m.String()).
		Msg("threat evaluated")
	return m, nil
}
