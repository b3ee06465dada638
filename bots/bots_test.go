package bots

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"

	"xaichess/board"
)

func position(t *testing.T, fen string) *chess.Position {
	t.Helper()
	st, err := board.FromFEN(fen)
	if err != nil {
		t.Fatal(err)
	}
	return st.Position()
}

func TestMinimaxFindsMateInOne(t *testing.T) {
	bot := NewMinimaxBot(2, 10*time.Second)
	defer bot.Close()

	pos := position(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")
	move, err := bot.BestMove(context.Background(), pos, 10*time.Second)
	if err != nil {
		t.Fatalf("BestMove: %v", err)
	}
	if move.String() != "a1a8" {
		t.Errorf("BestMove = %s, want a1a8", move)
	}
}

func TestMinimaxConfigureDepth(t *testing.T) {
	bot := NewMinimaxBot(3, time.Second)
	if err := bot.Configure(Strength{Depth: 1, Elo: 1500}); err != nil {
		t.Fatal(err)
	}
	if bot.Depth != 1 {
		t.Errorf("Depth = %d, want 1", bot.Depth)
	}
	if err := bot.Configure(Strength{}); err != nil {
		t.Fatal(err)
	}
	if bot.Depth != 1 {
		t.Errorf("zero Strength changed depth to %d", bot.Depth)
	}
}

func TestNoLegalMoves(t *testing.T) {
	// Black is mated.
	pos := position(t, "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1")
	for _, bot := range []ChessBot{NewNewbornBot(), NewRandomBot(1), NewMinimaxBot(1, time.Second)} {
		if _, err := bot.BestMove(context.Background(), pos, time.Second); !errors.Is(err, ErrNoMove) {
			t.Errorf("%s: err = %v, want ErrNoMove", bot.Name(), err)
		}
	}
}

func TestClosedBotsFailFast(t *testing.T) {
	pos := chess.NewGame().Position()
	for _, bot := range []ChessBot{NewNewbornBot(), NewRandomBot(7), NewMinimaxBot(2, time.Second)} {
		if err := bot.Close(); err != nil {
			t.Fatalf("%s: Close: %v", bot.Name(), err)
		}
		if err := bot.Close(); err != nil {
			t.Errorf("%s: second Close: %v", bot.Name(), err)
		}
		if _, err := bot.BestMove(context.Background(), pos, time.Second); !errors.Is(err, ErrEngineUnavailable) {
			t.Errorf("%s: BestMove after Close err = %v, want ErrEngineUnavailable", bot.Name(), err)
		}
	}
}

func TestNewbornPlaysFirstLegalMove(t *testing.T) {
	pos := chess.NewGame().Position()
	move, err := NewNewbornBot().BestMove(context.Background(), pos, 0)
	if err != nil {
		t.Fatal(err)
	}
	if want := pos.ValidMoves()[0]; move.String() != want.String() {
		t.Errorf("move = %s, want %s", move, want)
	}
}

func TestRandomBotPlaysLegalMoves(t *testing.T) {
	pos := chess.NewGame().Position()
	legal := map[string]bool{}
	for _, m := range pos.ValidMoves() {
		legal[m.String()] = true
	}
	bot := NewRandomBot(42)
	for i := 0; i < 20; i++ {
		m, err := bot.BestMove(context.Background(), pos, 0)
		if err != nil {
			t.Fatal(err)
		}
		if !legal[m.String()] {
			t.Fatalf("illegal move %s", m)
		}
	}
}

type fakeBot struct {
	configureErr error
	closed       int
}

func (f *fakeBot) Name() string { return "fake" }

func (f *fakeBot) Configure(Strength) error { return f.configureErr }

func (f *fakeBot) BestMove(context.Context, *chess.Position, time.Duration) (*chess.Move, error) {
	return nil, ErrNoMove
}

func (f *fakeBot) Close() error {
	f.closed++
	return nil
}

func TestWithBotAlwaysCloses(t *testing.T) {
	boom := errors.New("boom")

	t.Run("fn fails", func(t *testing.T) {
		fake := &fakeBot{}
		err := WithBot(func() (ChessBot, error) { return fake, nil }, Strength{}, func(ChessBot) error {
			return boom
		})
		if !errors.Is(err, boom) {
			t.Errorf("err = %v, want boom", err)
		}
		if fake.closed != 1 {
			t.Errorf("closed %d times, want 1", fake.closed)
		}
	})

	t.Run("configure fails", func(t *testing.T) {
		fake := &fakeBot{configureErr: boom}
		called := false
		err := WithBot(func() (ChessBot, error) { return fake, nil }, Strength{}, func(ChessBot) error {
			called = true
			return nil
		})
		if !errors.Is(err, boom) || called {
			t.Errorf("err = %v, called = %v", err, called)
		}
		if fake.closed != 1 {
			t.Errorf("closed %d times, want 1", fake.closed)
		}
	})

	t.Run("fn panics", func(t *testing.T) {
		fake := &fakeBot{}
		func() {
			defer func() { _ = recover() }()
			_ = WithBot(func() (ChessBot, error) { return fake, nil }, Strength{}, func(ChessBot) error {
				panic("search blew up")
			})
		}()
		if fake.closed != 1 {
			t.Errorf("closed %d times, want 1", fake.closed)
		}
	})

	t.Run("open fails", func(t *testing.T) {
		err := WithBot(func() (ChessBot, error) { return nil, ErrEngineUnavailable }, Strength{}, func(ChessBot) error {
			t.Error("fn called without a bot")
			return nil
		})
		if !errors.Is(err, ErrEngineUnavailable) {
			t.Errorf("err = %v", err)
		}
	})
}

func TestOpen(t *testing.T) {
	if diff := cmp.Diff([]string{"minimax", "newborn", "random", "uci"}, Kinds()); diff != "" {
		t.Errorf("Kinds (-want +got):\n%s", diff)
	}

	bot, err := Open("newborn", "", zerolog.Nop())()
	if err != nil {
		t.Fatal(err)
	}
	defer bot.Close()
	if bot.Name() != "Newborn" {
		t.Errorf("Name = %q", bot.Name())
	}

	if _, err := Open("deep-blue", "", zerolog.Nop())(); err == nil {
		t.Error("unknown engine kind should fail")
	}
}

func TestEvaluatorSymmetricStart(t *testing.T) {
	score := DefaultEvaluator{}.Evaluate(board.Start())
	if math.Abs(score) > 1e-9 {
		t.Errorf("start position = %f, want 0", score)
	}

	st, err := board.FromFEN("4k3/8/8/8/8/8/8/Q3K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if score := (DefaultEvaluator{}).Evaluate(st); score <= 0 {
		t.Errorf("extra white queen scored %f", score)
	}
}
