package annotate

import (
	"github.com/notnil/chess"

	"xaichess/board"
)

// Control is the verdict on who holds a square.
type Control int

const (
	Lost       Control = -1
	Contested  Control = 0
	Controlled Control = 1
)

// pieceScore weighs pieces for criticality ranking only.
var pieceScore = [...]int{
	chess.King:   10,
	chess.Queen:  9,
	chess.Rook:   5,
	chess.Bishop: 3,
	chess.Knight: 3,
	chess.Pawn:   1,
}

// exchangeRank buckets pieces for the exchange approximation. Minor pieces
// share a bucket.
var exchangeRank = [...]int{
	chess.Pawn:   0,
	chess.Knight: 1,
	chess.Bishop: 1,
	chess.Rook:   2,
	chess.Queen:  3,
	chess.King:   4,
}

const rankBuckets = 5

// PieceScore returns the criticality weight of a piece type.
func PieceScore(t chess.PieceType) int {
	if int(t) >= len(pieceScore) {
		return 0
	}
	return pieceScore[t]
}

// ControlSign compares how many pieces of side and of its opponent attack sq.
func ControlSign(st *board.State, side chess.Color, sq chess.Square) Control {
	own := st.Attackers(side, sq).Len()
	other := st.Attackers(side.Other(), sq).Len()
	switch {
	case own > other:
		return Controlled
	case own < other:
		return Lost
	}
	return Contested
}

// ControlCount sums ControlSign for side over the whole board.
func ControlCount(st *board.State, side chess.Color) int {
	total := 0
	for sq := chess.A1; sq <= chess.H8; sq++ {
		total += int(ControlSign(st, side, sq))
	}
	return total
}

// ExchangeSign estimates whether side wins a fight over sq. Attackers of both
// colors are bucketed by exchangeRank; walking the buckets from cheapest to
// dearest, the first time side's running surplus reaches two pieces either
// way decides the result, otherwise the final surplus does. Returns +1, 0 or
// -1. This is a cheap stand-in for static exchange evaluation and does not
// play out capture sequences.
func ExchangeSign(st *board.State, side chess.Color, sq chess.Square) int {
	own := rankCounts(st.AttackerPieces(side, sq))
	other := rankCounts(st.AttackerPieces(side.Other(), sq))

	sum := 0
	for i := 0; i < rankBuckets; i++ {
		sum += own[i] - other[i]
		if sum > 1 || sum < -1 {
			return sign(sum)
		}
	}
	return sign(sum)
}

// IsAttacked reports whether the piece on sq is en prise: either the
// opponent can take it with something cheaper, or the opponent wins the
// exchange over the square. Empty squares are never attacked.
func IsAttacked(st *board.State, sq chess.Square) bool {
	target := st.PieceAt(sq)
	if target == chess.NoPiece {
		return false
	}
	attacker := target.Color().Other()
	attackers := st.AttackerPieces(attacker, sq)
	if len(attackers) == 0 {
		return false
	}

	cheapest := rankBuckets
	for _, p := range attackers {
		if r := exchangeRank[p.Type()]; r < cheapest {
			cheapest = r
		}
	}
	if exchangeRank[target.Type()] > cheapest {
		return true
	}
	return ExchangeSign(st, attacker, sq) == 1
}

func rankCounts(pieces []chess.Piece) [rankBuckets]int {
	var counts [rankBuckets]int
	for _, p := range pieces {
		counts[exchangeRank[p.Type()]]++
	}
	return counts
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
