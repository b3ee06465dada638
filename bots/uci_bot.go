package bots

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/notnil/chess"
	"github.com/notnil/chess/uci"
	"github.com/rs/zerolog"
)

const (
	// DefaultGrace is how long an engine may overrun a deadline before it is
	// given up on.
	DefaultGrace = 2 * time.Second

	handshakeTimeout = 10 * time.Second
)

// UCIBot drives an external engine process such as Stockfish over UCI.
//
// Every exchange with the process is watched: if the engine misses its
// deadline by more than Grace, or the caller's context ends, the bot closes
// itself and the call fails with ErrEngineUnavailable. Close never waits for
// an exchange in flight.
type UCIBot struct {
	Grace time.Duration

	path string
	eng  *uci.Engine
	log  zerolog.Logger

	busy     chan struct{} // one exchange at a time
	done     chan struct{} // closed by Close
	once     sync.Once
	closeErr error
}

// NewUCIBot starts the engine at path and completes the UCI handshake.
func NewUCIBot(path string, log zerolog.Logger) (*UCIBot, error) {
	eng, err := uci.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: start %s: %v", ErrEngineUnavailable, path, err)
	}
	b := &UCIBot{
		Grace: DefaultGrace,
		path:  path,
		eng:   eng,
		log:   log.With().Str("engine", filepath.Base(path)).Logger(),
		busy:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	deadline := time.Now().Add(handshakeTimeout)
	if _, err := b.exchange(context.Background(), deadline, uci.CmdUCI, uci.CmdIsReady, uci.CmdUCINewGame); err != nil {
		b.Close()
		return nil, fmt.Errorf("%w: handshake with %s: %v", ErrEngineUnavailable, path, err)
	}
	b.log.Info().Str("path", path).Msg("engine started")
	return b, nil
}

func (b *UCIBot) Name() string {
	return "UCI " + filepath.Base(b.path)
}

// Configure limits the engine to s.Elo when set. A zero Elo leaves the
// engine at full strength.
func (b *UCIBot) Configure(s Strength) error {
	var cmds []uci.Cmd
	if s.Elo > 0 {
		cmds = append(cmds,
			uci.CmdSetOption{Name: "UCI_LimitStrength", Value: "true"},
			uci.CmdSetOption{Name: "UCI_Elo", Value: strconv.Itoa(s.Elo)},
		)
	}
	cmds = append(cmds, uci.CmdIsReady)
	if _, err := b.exchange(context.Background(), time.Now().Add(handshakeTimeout), cmds...); err != nil {
		return unavailable("configure", err)
	}
	b.log.Info().Int("elo", s.Elo).Msg("engine configured")
	return nil
}

// BestMove searches pos for limit. The search is abandoned, and the bot
// closed, once the earlier of limit and the ctx deadline has passed by more
// than Grace, or when ctx is cancelled.
func (b *UCIBot) BestMove(ctx context.Context, pos *chess.Position, limit time.Duration) (*chess.Move, error) {
	if b.closed() {
		return nil, ErrEngineUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(pos.ValidMoves()) == 0 {
		return nil, ErrNoMove
	}

	start := time.Now()
	res, err := b.exchange(ctx, searchDeadline(ctx, limit), uci.CmdPosition{Position: pos}, uci.CmdGo{MoveTime: limit})
	switch {
	case err != nil && strings.Contains(err.Error(), `"(none)"`):
		// bestmove (none): the engine sees no legal move.
		return nil, ErrNoMove
	case err != nil:
		return nil, unavailable("search", err)
	case res.BestMove == nil:
		return nil, fmt.Errorf("%w: engine output ended without bestmove", ErrEngineUnavailable)
	}
	b.log.Debug().
		Str("fen", pos.String()).
		Str("bestmove", res.BestMove.String()).
		Dur("took", time.Since(start)).
		Msg("search finished")
	return res.BestMove, nil
}

// Close stops the engine process. Later calls fail with ErrEngineUnavailable.
// If an exchange is stuck, the process is left to exit on its own and Close
// returns after Grace.
func (b *UCIBot) Close() error {
	b.once.Do(func() {
		close(b.done)
		b.closeErr = b.stopEngine()
	})
	return b.closeErr
}

func (b *UCIBot) closed() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

func (b *UCIBot) stopEngine() error {
	stopped := make(chan error, 1)
	go func() { stopped <- b.eng.Close() }()

	select {
	case err := <-stopped:
		if errors.Is(err, os.ErrProcessDone) {
			err = nil
		}
		b.log.Info().Msg("engine stopped")
		return err
	case <-time.After(b.Grace):
		b.log.Warn().Msg("engine did not shut down")
		return fmt.Errorf("%w: %s did not shut down", ErrEngineUnavailable, b.Name())
	}
}

type reply struct {
	res uci.SearchResults
	err error
}

// exchange runs cmds against the engine and waits for them until deadline.
// At the deadline the engine is told to stop and gets Grace to answer; after
// that, or when ctx ends first, the bot is closed.
func (b *UCIBot) exchange(ctx context.Context, deadline time.Time, cmds ...uci.Cmd) (uci.SearchResults, error) {
	select {
	case b.busy <- struct{}{}:
	case <-b.done:
		return uci.SearchResults{}, ErrEngineUnavailable
	case <-ctx.Done():
		return uci.SearchResults{}, ctx.Err()
	}
	if b.closed() {
		<-b.busy
		return uci.SearchResults{}, ErrEngineUnavailable
	}

	replies := make(chan reply, 1)
	go func() {
		defer func() { <-b.busy }()
		err := b.eng.Run(cmds...)
		replies <- reply{b.eng.SearchResults(), err}
	}()

	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()
	stopSent := false
	for {
		select {
		case r := <-replies:
			return r.res, r.err
		case <-b.done:
			return uci.SearchResults{}, ErrEngineUnavailable
		case <-ctx.Done():
			b.abandon("search cancelled")
			return uci.SearchResults{}, fmt.Errorf("%w: %w", ErrEngineUnavailable, ctx.Err())
		case <-timer.C:
			if stopSent {
				b.abandon("engine stopped responding")
				return uci.SearchResults{}, fmt.Errorf("%w: no reply %s past the deadline", ErrEngineUnavailable, b.Grace)
			}
			// stop is written without the engine lock, so it reaches an
			// engine that is still searching.
			stopSent = true
			go b.eng.Run(uci.CmdStop)
			timer.Reset(b.Grace)
		}
	}
}

func (b *UCIBot) abandon(reason string) {
	b.log.Warn().Str("reason", reason).Msg("giving up on engine")
	b.Close()
}

func unavailable(op string, err error) error {
	if errors.Is(err, ErrEngineUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrEngineUnavailable, op, err)
}
