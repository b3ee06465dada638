package board

import "github.com/notnil/chess"

// Pre-computed attack tables for non-sliding pieces, indexed by chess.Color
// where a color is involved.
var (
	knightAttacks [64]SquareSet
	kingAttacks   [64]SquareSet
	pawnAttacks   [3][64]SquareSet
)

type direction struct{ df, dr int }

var (
	rookDirs    = []direction{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	bishopDirs  = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightJumps = []direction{
		{1, 2}, {2, 1}, {2, -1}, {1, -2},
		{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
	}
)

func init() {
	for i := 0; i < 64; i++ {
		sq := chess.Square(i)
		f, r := i%8, i/8

		for _, d := range knightJumps {
			if to, ok := offset(f, r, d); ok {
				knightAttacks[sq] = knightAttacks[sq].Add(to)
			}
		}
		for _, d := range append(append([]direction{}, rookDirs...), bishopDirs...) {
			if to, ok := offset(f, r, d); ok {
				kingAttacks[sq] = kingAttacks[sq].Add(to)
			}
		}
		for _, df := range []int{-1, 1} {
			if to, ok := offset(f, r, direction{df, 1}); ok {
				pawnAttacks[chess.White][sq] = pawnAttacks[chess.White][sq].Add(to)
			}
			if to, ok := offset(f, r, direction{df, -1}); ok {
				pawnAttacks[chess.Black][sq] = pawnAttacks[chess.Black][sq].Add(to)
			}
		}
	}
}

func offset(f, r int, d direction) (chess.Square, bool) {
	f, r = f+d.df, r+d.dr
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return 0, false
	}
	return chess.Square(r*8 + f), true
}

// slidingAttacks walks each ray from sq and stops at (and includes) the first
// occupied square.
func slidingAttacks(sq chess.Square, occupied SquareSet, dirs []direction) SquareSet {
	var attacks SquareSet
	f0, r0 := int(sq)%8, int(sq)/8
	for _, d := range dirs {
		f, r := f0, r0
		for {
			to, ok := offset(f, r, d)
			if !ok {
				break
			}
			attacks = attacks.Add(to)
			if occupied.Has(to) {
				break
			}
			f, r = int(to)%8, int(to)/8
		}
	}
	return attacks
}

// Attacks returns the squares attacked by the piece standing on sq, including
// squares occupied by pieces of either color. An empty square attacks nothing.
func (s *State) Attacks(sq chess.Square) SquareSet {
	p := s.pieces[sq]
	switch p.Type() {
	case chess.Pawn:
		return pawnAttacks[p.Color()][sq]
	case chess.Knight:
		return knightAttacks[sq]
	case chess.Bishop:
		return slidingAttacks(sq, s.occupied, bishopDirs)
	case chess.Rook:
		return slidingAttacks(sq, s.occupied, rookDirs)
	case chess.Queen:
		return slidingAttacks(sq, s.occupied, bishopDirs) | slidingAttacks(sq, s.occupied, rookDirs)
	case chess.King:
		return kingAttacks[sq]
	}
	return NoSquares
}

// Attackers returns the squares of all pieces of color that attack sq. Pinned
// pieces still count as attackers.
func (s *State) Attackers(color chess.Color, sq chess.Square) SquareSet {
	if color != chess.White && color != chess.Black {
		return NoSquares
	}
	kinds := &s.byKind[color]
	diag := kinds[chess.Bishop] | kinds[chess.Queen]
	orth := kinds[chess.Rook] | kinds[chess.Queen]

	var attackers SquareSet
	attackers |= pawnAttacks[color.Other()][sq] & kinds[chess.Pawn]
	attackers |= knightAttacks[sq] & kinds[chess.Knight]
	attackers |= kingAttacks[sq] & kinds[chess.King]
	if diag != 0 {
		attackers |= slidingAttacks(sq, s.occupied, bishopDirs) & diag
	}
	if orth != 0 {
		attackers |= slidingAttacks(sq, s.occupied, rookDirs) & orth
	}
	return attackers
}

// AttackerPieces returns the pieces behind Attackers(color, sq), in ascending
// square order.
func (s *State) AttackerPieces(color chess.Color, sq chess.Square) []chess.Piece {
	squares := s.Attackers(color, sq).Squares()
	pieces := make([]chess.Piece, len(squares))
	for i, from := range squares {
		pieces[i] = s.pieces[from]
	}
	return pieces
}
