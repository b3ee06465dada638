package bots

import (
	"context"
	"math/rand"
	"time"

	"github.com/notnil/chess"
)

// RandomBot plays a uniformly random legal move.
type RandomBot struct {
	lifecycle
	rng *rand.Rand
}

func NewRandomBot(seed int64) *RandomBot {
	return &RandomBot{rng: rand.New(rand.NewSource(seed))}
}

func (b *RandomBot) BestMove(_ context.Context, pos *chess.Position, _ time.Duration) (*chess.Move, error) {
	if err := b.acquire(); err != nil {
		return nil, err
	}
	defer b.release()
	moves := pos.ValidMoves()
	if len(moves) == 0 {
		return nil, ErrNoMove
	}
	return moves[b.rng.Intn(len(moves))], nil
}

func (b *RandomBot) Configure(Strength) error { return nil }

func (b *RandomBot) Name() string {
	return "Random Bot"
}

func (b *RandomBot) Close() error {
	b.shutdown()
	return nil
}
