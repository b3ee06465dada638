package bots

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/notnil/chess"

	"xaichess/board"
)

const mateScore = 1e9

// MinimaxBot is a small in-process alpha-beta searcher.
type MinimaxBot struct {
	lifecycle
	Depth     int
	TimeLimit time.Duration
	Evaluator PositionEvaluator
	deadline  time.Time
}

func NewMinimaxBot(depth int, timeLimit time.Duration) *MinimaxBot {
	return &MinimaxBot{
		Depth:     depth,
		TimeLimit: timeLimit,
		Evaluator: DefaultEvaluator{},
	}
}

func (b *MinimaxBot) Name() string {
	return fmt.Sprintf("Minimax Bot (depth %d)", b.Depth)
}

// Configure applies s.Depth; Elo has no meaning here.
func (b *MinimaxBot) Configure(s Strength) error {
	if err := b.acquire(); err != nil {
		return err
	}
	defer b.release()
	if s.Depth > 0 {
		b.Depth = s.Depth
	}
	return nil
}

// BestMove searches to b.Depth or until the shorter of limit, b.TimeLimit and
// the ctx deadline runs out.
func (b *MinimaxBot) BestMove(ctx context.Context, pos *chess.Position, limit time.Duration) (*chess.Move, error) {
	if err := b.acquire(); err != nil {
		return nil, err
	}
	defer b.release()

	validMoves := pos.ValidMoves()
	if len(validMoves) == 0 {
		return nil, ErrNoMove
	}

	if b.TimeLimit > 0 && (limit <= 0 || b.TimeLimit < limit) {
		limit = b.TimeLimit
	}
	b.deadline = searchDeadline(ctx, limit)

	result := b.minimax(ctx, pos, b.Depth, math.Inf(-1), math.Inf(1))
	if result.move == nil {
		return validMoves[0], nil
	}
	return result.move, nil
}

func (b *MinimaxBot) Close() error {
	b.shutdown()
	return nil
}

type scoredMove struct {
	move  *chess.Move
	score float64
}

func (b *MinimaxBot) expired(ctx context.Context) bool {
	return ctx.Err() != nil || time.Now().After(b.deadline)
}

// minimax scores from White's side: White maximizes, Black minimizes.
func (b *MinimaxBot) minimax(ctx context.Context, pos *chess.Position, depth int, alpha, beta float64) scoredMove {
	switch pos.Status() {
	case chess.Checkmate:
		// The side to move is mated; nearer mates score higher.
		return scoredMove{nil, -colorSign(pos.Turn()) * (mateScore + float64(depth))}
	case chess.NoMethod:
	default:
		return scoredMove{nil, 0}
	}
	if depth <= 0 || b.expired(ctx) {
		return scoredMove{nil, b.Evaluator.Evaluate(board.New(pos))}
	}

	maximizing := pos.Turn() == chess.White
	best := scoredMove{score: math.Inf(1)}
	if maximizing {
		best.score = math.Inf(-1)
	}

	for _, move := range pos.ValidMoves() {
		current := b.minimax(ctx, pos.Update(move), depth-1, alpha, beta)
		if maximizing {
			if best.move == nil || current.score > best.score {
				best = scoredMove{move, current.score}
			}
			alpha = math.Max(alpha, best.score)
		} else {
			if best.move == nil || current.score < best.score {
				best = scoredMove{move, current.score}
			}
			beta = math.Min(beta, best.score)
		}
		if beta <= alpha {
			break
		}
	}
	return best
}
