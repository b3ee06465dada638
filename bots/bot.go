// Package bots provides the move-search engines the annotator consults:
// an external UCI process and a few in-process players.
package bots

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
)

var (
	// ErrEngineUnavailable is returned when an engine cannot be started, has
	// died, or has already been closed.
	ErrEngineUnavailable = errors.New("engine unavailable")
	// ErrNoMove is returned when a search ends without a move.
	ErrNoMove = errors.New("engine returned no move")
)

// DefaultElo matches the strength the annotations were tuned with.
const DefaultElo = 2850

// Strength configures how hard a bot plays. Zero fields keep the bot's own
// defaults.
type Strength struct {
	Elo   int // UCI_Elo with UCI_LimitStrength; UCI bots only
	Depth int // search depth; minimax only
}

// ChessBot is a search engine. Bots are not safe for concurrent searches;
// implementations serialize calls.
type ChessBot interface {
	Name() string
	Configure(s Strength) error
	BestMove(ctx context.Context, pos *chess.Position, limit time.Duration) (*chess.Move, error)
	Close() error
}

// Opener starts a bot.
type Opener func() (ChessBot, error)

// WithBot opens a bot, configures it, hands it to fn and closes it on every
// path out, including a failing Configure or fn.
func WithBot(open Opener, s Strength, fn func(ChessBot) error) (err error) {
	bot, err := open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := bot.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close %s: %w", bot.Name(), cerr))
		}
	}()

	if err := bot.Configure(s); err != nil {
		return fmt.Errorf("configure %s: %w", bot.Name(), err)
	}
	return fn(bot)
}

var registry = map[string]func(path string, log zerolog.Logger) (ChessBot, error){
	"uci": func(path string, log zerolog.Logger) (ChessBot, error) {
		return NewUCIBot(path, log)
	},
	"minimax": func(string, zerolog.Logger) (ChessBot, error) {
		return NewMinimaxBot(3, 5*time.Second), nil
	},
	"newborn": func(string, zerolog.Logger) (ChessBot, error) {
		return NewNewbornBot(), nil
	},
	"random": func(string, zerolog.Logger) (ChessBot, error) {
		return NewRandomBot(time.Now().UnixNano()), nil
	},
}

// Kinds lists the bot names accepted by Open.
func Kinds() []string {
	kinds := make([]string, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Open returns an Opener for the named bot kind. path is the engine
// executable and only matters for "uci".
func Open(kind, path string, log zerolog.Logger) Opener {
	return func() (ChessBot, error) {
		newBot, ok := registry[kind]
		if !ok {
			return nil, fmt.Errorf("unknown engine %q (want one of %v)", kind, Kinds())
		}
		return newBot(path, log)
	}
}

// lifecycle serializes calls into a bot and refuses them once closed.
type lifecycle struct {
	mu     sync.Mutex
	closed bool
}

// acquire locks the bot for one call; release must follow on success.
func (l *lifecycle) acquire() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrEngineUnavailable
	}
	return nil
}

func (l *lifecycle) release() { l.mu.Unlock() }

// shutdown marks the bot closed and reports whether this call did it.
func (l *lifecycle) shutdown() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	l.closed = true
	return true
}

func searchDeadline(ctx context.Context, limit time.Duration) time.Time {
	deadline := time.Now().Add(limit)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	return deadline
}
