package annotate

import (
	"fmt"

	"github.com/notnil/chess"

	"xaichess/board"
)

// Kind classifies a commentary tag. The declaration order is the order tags
// appear in commentary.
type Kind int

const (
	Attacks Kind = iota
	Defends
	Activation
	BishopLongDiagonal
	KnightCenter
	QueenCenter
)

var kindNames = [...]string{
	Attacks:            "attacks",
	Defends:            "defends",
	Activation:         "activation",
	BishopLongDiagonal: "bishop-long-diagonal",
	KnightCenter:       "knight-center",
	QueenCenter:        "queen-center",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Positional reports whether k is a motif rather than a tactical tag.
func (k Kind) Positional() bool {
	return k >= Activation
}

// Tag is one commentary item. Target is only set for Attacks and Defends.
type Tag struct {
	Kind   Kind
	Piece  chess.Piece
	Target chess.Piece
	Square chess.Square
}

func (t Tag) String() string {
	switch t.Kind {
	case Attacks, Defends:
		return fmt.Sprintf("%s %s %s at %s", board.Symbol(t.Piece), t.Kind, board.Symbol(t.Target), t.Square)
	case Activation:
		return "Activates piece(s)"
	case BishopLongDiagonal:
		return "Places Bishop on long diagonal"
	case KnightCenter:
		return "Places Knight on central square"
	case QueenCenter:
		return "Places Queen on central square"
	}
	return t.Kind.String()
}

// Strings renders tags in order.
func Strings(tags []Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.String()
	}
	return out
}
