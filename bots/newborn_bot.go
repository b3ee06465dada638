package bots

import (
	"context"
	"time"

	"github.com/notnil/chess"
)

// NewbornBot always plays the first legal move. It is deterministic, which
// makes it the bot of choice for tests and dry runs without an engine binary.
type NewbornBot struct {
	lifecycle
}

func NewNewbornBot() *NewbornBot {
	return &NewbornBot{}
}

func (b *NewbornBot) BestMove(_ context.Context, pos *chess.Position, _ time.Duration) (*chess.Move, error) {
	if err := b.acquire(); err != nil {
		return nil, err
	}
	defer b.release()
	moves := pos.ValidMoves()
	if len(moves) == 0 {
		return nil, ErrNoMove
	}
	return moves[0], nil
}

func (b *NewbornBot) Configure(Strength) error { return nil }

func (b *NewbornBot) Name() string {
	return "Newborn"
}

func (b *NewbornBot) Close() error {
	b.shutdown()
	return nil
}
