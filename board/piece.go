package board

import (
	"strings"

	"github.com/notnil/chess"
)

// Symbol returns the FEN letter of a piece: upper case for White, lower case
// for Black, "" for chess.NoPiece.
func Symbol(p chess.Piece) string {
	if p == chess.NoPiece {
		return ""
	}
	letter := p.Type().String()
	if p.Color() == chess.White {
		return strings.ToUpper(letter)
	}
	return strings.ToLower(letter)
}

// TypeName returns the English name of a piece type, e.g. "Bishop".
func TypeName(t chess.PieceType) string {
	switch t {
	case chess.King:
		return "King"
	case chess.Queen:
		return "Queen"
	case chess.Rook:
		return "Rook"
	case chess.Bishop:
		return "Bishop"
	case chess.Knight:
		return "Knight"
	case chess.Pawn:
		return "Pawn"
	}
	return ""
}
