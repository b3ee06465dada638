package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/notnil/chess"

	"xaichess/board"
)

const immortal = "../famous-games/anderssen_kieseritzky_1851.pgn"

func TestLoadFile(t *testing.T) {
	rec, err := LoadFile(immortal)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got := rec.Plies(); got != 45 {
		t.Errorf("Plies() = %d, want 45", got)
	}
	if got := rec.Tag("White"); got != "Adolf Anderssen" {
		t.Errorf("White = %q", got)
	}
	if got := rec.Tag("Annotator"); got != "" {
		t.Errorf("missing tag = %q, want empty", got)
	}
	if !strings.HasPrefix(rec.Title(), "Adolf Anderssen - Lionel Kieseritzky") {
		t.Errorf("Title() = %q", rec.Title())
	}
}

func TestStateAt(t *testing.T) {
	rec, err := LoadFile(immortal)
	if err != nil {
		t.Fatal(err)
	}

	st, err := rec.StateAt(31)
	if err != nil {
		t.Fatal(err)
	}
	if st.Turn() != chess.Black {
		t.Errorf("turn after 31 plies = %v, want black", st.Turn())
	}
	if st.PieceAt(chess.F8) != chess.BlackBishop {
		t.Errorf("f8 = %v, want black bishop", st.PieceAt(chess.F8))
	}
	if st.PieceAt(chess.C3) != chess.WhiteKnight {
		t.Errorf("c3 = %v, want white knight (16. Nc3)", st.PieceAt(chess.C3))
	}

	m, err := rec.MoveAt(31)
	if err != nil {
		t.Fatal(err)
	}
	if m.String() != "f8c5" {
		t.Errorf("MoveAt(31) = %s, want f8c5", m)
	}

	for _, ply := range []int{-1, 46} {
		if _, err := rec.StateAt(ply); !errors.Is(err, ErrPlyOutOfRange) {
			t.Errorf("StateAt(%d) err = %v", ply, err)
		}
	}
	if _, err := rec.MoveAt(45); !errors.Is(err, ErrPlyOutOfRange) {
		t.Errorf("MoveAt(45) err = %v", err)
	}
}

func TestReplay(t *testing.T) {
	rec, err := Load(strings.NewReader("[Event \"test\"]\n\n1. e4 e5 2. Nf3 Nc6 *\n"))
	if err != nil {
		t.Fatal(err)
	}

	var moves []string
	err = rec.Replay(func(ply int, st *board.State, m *chess.Move) error {
		if st.PieceAt(m.S1()) == chess.NoPiece {
			t.Errorf("ply %d: %s starts from an empty square", ply, m)
		}
		moves = append(moves, m.String())
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"e2e4", "e7e5", "g1f3", "b8c6"}, moves); diff != "" {
		t.Errorf("replayed moves (-want +got):\n%s", diff)
	}

	stop := errors.New("stop")
	calls := 0
	err = rec.Replay(func(int, *board.State, *chess.Move) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Errorf("Replay did not stop on error: err=%v calls=%d", err, calls)
	}
}
