package board

import (
	"math/bits"
	"strings"

	"github.com/notnil/chess"
)

// SquareSet is a set of squares, bit 0 = a1, bit 63 = h8.
type SquareSet uint64

const (
	NoSquares  SquareSet = 0
	AllSquares SquareSet = 0xFFFFFFFFFFFFFFFF
)

// SetOf builds a set from the given squares.
func SetOf(squares ...chess.Square) SquareSet {
	var s SquareSet
	for _, sq := range squares {
		s = s.Add(sq)
	}
	return s
}

func (s SquareSet) Add(sq chess.Square) SquareSet {
	return s | 1<<uint(sq)
}

func (s SquareSet) Has(sq chess.Square) bool {
	return s&(1<<uint(sq)) != 0
}

func (s SquareSet) Union(o SquareSet) SquareSet     { return s | o }
func (s SquareSet) Intersect(o SquareSet) SquareSet { return s & o }
func (s SquareSet) Without(o SquareSet) SquareSet   { return s &^ o }
func (s SquareSet) Complement() SquareSet           { return ^s }

// Len returns the number of squares in the set.
func (s SquareSet) Len() int {
	return bits.OnesCount64(uint64(s))
}

func (s SquareSet) Empty() bool {
	return s == 0
}

// SubsetOf reports whether every square of s is also in o.
func (s SquareSet) SubsetOf(o SquareSet) bool {
	return s&^o == 0
}

// Squares returns the members in ascending index order.
func (s SquareSet) Squares() []chess.Square {
	out := make([]chess.Square, 0, s.Len())
	for b := uint64(s); b != 0; b &= b - 1 {
		out = append(out, chess.Square(bits.TrailingZeros64(b)))
	}
	return out
}

// Names returns the algebraic names of the members, e.g. ["e4", "d5"].
func (s SquareSet) Names() []string {
	sqs := s.Squares()
	names := make([]string, len(sqs))
	for i, sq := range sqs {
		names[i] = sq.String()
	}
	return names
}

func (s SquareSet) String() string {
	return "{" + strings.Join(s.Names(), " ") + "}"
}
