// Package board adapts notnil/chess positions into the queries the annotator
// needs: occupancy, side to move, attack and attacker sets, and move
// application on owned copies.
package board

import (
	"fmt"

	"github.com/notnil/chess"
)

// State is an immutable snapshot of a position. Apply returns a new State and
// never touches the receiver, so a State can be shared by any number of callers.
type State struct {
	pos      *chess.Position
	pieces   [64]chess.Piece
	byKind   [3][7]SquareSet // [chess.Color][chess.PieceType]
	occupied SquareSet
}

// New wraps a position.
func New(pos *chess.Position) *State {
	s := &State{pos: pos}
	for sq, p := range pos.Board().SquareMap() {
		if p == chess.NoPiece {
			continue
		}
		s.pieces[sq] = p
		s.byKind[p.Color()][p.Type()] = s.byKind[p.Color()][p.Type()].Add(sq)
		s.occupied = s.occupied.Add(sq)
	}
	return s
}

// Start returns the standard starting position.
func Start() *State {
	return New(chess.NewGame().Position())
}

// FromFEN parses a FEN string into a State.
func FromFEN(fen string) (*State, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen %q: %w", fen, err)
	}
	return New(chess.NewGame(opt).Position()), nil
}

func (s *State) Position() *chess.Position { return s.pos }

// Turn returns the side to move.
func (s *State) Turn() chess.Color { return s.pos.Turn() }

func (s *State) FEN() string { return s.pos.String() }

// PieceAt returns the piece on sq or chess.NoPiece.
func (s *State) PieceAt(sq chess.Square) chess.Piece { return s.pieces[sq] }

// ColorAt returns the color of the piece on sq or chess.NoColor.
func (s *State) ColorAt(sq chess.Square) chess.Color { return s.pieces[sq].Color() }

func (s *State) Occupied() SquareSet { return s.occupied }

// PiecesOf returns the squares holding pieces of color.
func (s *State) PiecesOf(color chess.Color) SquareSet {
	if color != chess.White && color != chess.Black {
		return NoSquares
	}
	var set SquareSet
	for _, kind := range s.byKind[color] {
		set |= kind
	}
	return set
}

// Apply returns the state after m. The move is not validated.
func (s *State) Apply(m *chess.Move) *State {
	return New(s.pos.Update(m))
}

// ParseMove decodes a move in UCI notation (e.g. "f8c5") against this state.
func (s *State) ParseMove(uci string) (*chess.Move, error) {
	m, err := chess.UCINotation{}.Decode(s.pos, uci)
	if err != nil {
		return nil, fmt.Errorf("decode move %q: %w", uci, err)
	}
	return m, nil
}

// WithTurnFlipped returns a copy of the state with only the side to move
// changed. The resulting position may be illegal.
func (s *State) WithTurnFlipped() (*State, error) {
	fen, err := FlipTurn(s.FEN())
	if err != nil {
		return nil, err
	}
	return FromFEN(fen)
}
