// Package game loads game records and replays them into board states.
package game

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/notnil/chess"

	"xaichess/board"
)

// ErrPlyOutOfRange is returned when a ply index lies outside the game.
var ErrPlyOutOfRange = errors.New("ply out of range")

// Record is a parsed game: its tag pairs, its initial position and the
// mainline moves.
type Record struct {
	game *chess.Game
}

// Load parses a single PGN game from r.
func Load(r io.Reader) (*Record, error) {
	pgn, err := chess.PGN(r)
	if err != nil {
		return nil, fmt.Errorf("parse pgn: %w", err)
	}
	return &Record{game: chess.NewGame(pgn)}, nil
}

// LoadFile parses the PGN game stored at path.
func LoadFile(path string) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rec, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// Tag returns the value of a PGN tag pair or "".
func (r *Record) Tag(key string) string {
	if tp := r.game.GetTagPair(key); tp != nil {
		return tp.Value
	}
	return ""
}

// Title is "White - Black, Event Date" built from whatever tags exist.
func (r *Record) Title() string {
	title := r.Tag("White") + " - " + r.Tag("Black")
	if ev := r.Tag("Event"); ev != "" {
		title += ", " + ev
	}
	if d := r.Tag("Date"); d != "" {
		title += " " + d
	}
	return title
}

// Plies returns the number of half-moves in the mainline.
func (r *Record) Plies() int {
	return len(r.game.Moves())
}

// StateAt returns the position after the first ply half-moves; 0 is the
// initial position.
func (r *Record) StateAt(ply int) (*board.State, error) {
	positions := r.game.Positions()
	if ply < 0 || ply >= len(positions) {
		return nil, fmt.Errorf("%w: %d (game has %d plies)", ErrPlyOutOfRange, ply, r.Plies())
	}
	return board.New(positions[ply]), nil
}

// MoveAt returns the move played from StateAt(ply).
func (r *Record) MoveAt(ply int) (*chess.Move, error) {
	moves := r.game.Moves()
	if ply < 0 || ply >= len(moves) {
		return nil, fmt.Errorf("%w: %d (game has %d plies)", ErrPlyOutOfRange, ply, len(moves))
	}
	return moves[ply], nil
}

// Replay calls fn for each ply with the position before the move and the move
// itself, stopping at the first error.
func (r *Record) Replay(fn func(ply int, st *board.State, m *chess.Move) error) error {
	positions := r.game.Positions()
	for ply, m := range r.game.Moves() {
		if err := fn(ply, board.New(positions[ply]), m); err != nil {
			return err
		}
	}
	return nil
}
