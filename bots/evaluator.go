package bots

import (
	"github.com/notnil/chess"

	"xaichess/board"
)

// PositionEvaluator scores a position from White's point of view.
type PositionEvaluator interface {
	Evaluate(st *board.State) float64
}

type DefaultEvaluator struct{}

const (
	MaterialWeight      = 100
	PawnStructWeight    = 30
	KingSafetyWeight    = 50
	CenterWeight        = 20
	PieceActivityWeight = 15
)

var materialValues = map[chess.PieceType]float64{
	chess.Pawn:   1,
	chess.Knight: 3,
	chess.Bishop: 3,
	chess.Rook:   5,
	chess.Queen:  9,
}

var (
	center         = board.SetOf(chess.D4, chess.E4, chess.D5, chess.E5)
	extendedCenter = board.SetOf(
		chess.C3, chess.D3, chess.E3, chess.F3,
		chess.C4, chess.F4, chess.C5, chess.F5,
		chess.C6, chess.D6, chess.E6, chess.F6,
	)
)

func (e DefaultEvaluator) Evaluate(st *board.State) float64 {
	return e.materialScore(st)*MaterialWeight +
		e.pawnStructure(st)*PawnStructWeight +
		e.kingSafety(st)*KingSafetyWeight +
		e.centerControl(st)*CenterWeight +
		e.pieceActivity(st)*PieceActivityWeight
}

func colorSign(c chess.Color) float64 {
	if c == chess.White {
		return 1
	}
	return -1
}

func (e DefaultEvaluator) materialScore(st *board.State) float64 {
	var score float64
	for _, sq := range st.Occupied().Squares() {
		p := st.PieceAt(sq)
		score += colorSign(p.Color()) * materialValues[p.Type()]
	}
	return score
}

func (e DefaultEvaluator) centerControl(st *board.State) float64 {
	var score float64
	for _, sq := range center.Squares() {
		score += e.squareControl(st, sq)
	}
	for _, sq := range extendedCenter.Squares() {
		score += e.squareControl(st, sq) * 0.5
	}
	return score
}

// squareControl rewards attacking a square that is empty or held by the
// other side.
func (e DefaultEvaluator) squareControl(st *board.State, sq chess.Square) float64 {
	var score float64
	holder := st.ColorAt(sq)
	if holder != chess.White && !st.Attackers(chess.White, sq).Empty() {
		score += 0.2
	}
	if holder != chess.Black && !st.Attackers(chess.Black, sq).Empty() {
		score -= 0.2
	}
	return score
}

func (e DefaultEvaluator) pawnStructure(st *board.State) float64 {
	var pawns [3][8]int
	for _, sq := range st.Occupied().Squares() {
		if p := st.PieceAt(sq); p.Type() == chess.Pawn {
			pawns[p.Color()][int(sq)%8]++
		}
	}

	var score float64
	for _, color := range []chess.Color{chess.White, chess.Black} {
		files := pawns[color]
		var penalty float64
		for file, count := range files {
			if count == 0 {
				continue
			}
			if count > 1 {
				penalty += 0.3 * float64(count-1)
			}
			left := file > 0 && files[file-1] > 0
			right := file < 7 && files[file+1] > 0
			if !left && !right {
				penalty += 0.5
			}
		}
		score -= colorSign(color) * penalty
	}
	return score
}

func (e DefaultEvaluator) kingSafety(st *board.State) float64 {
	var score float64
	for _, color := range []chess.Color{chess.White, chess.Black} {
		for _, sq := range st.PiecesOf(color).Squares() {
			if st.PieceAt(sq).Type() == chess.King {
				score += colorSign(color) * e.kingProtection(st, sq, color)
			}
		}
	}
	return score
}

func (e DefaultEvaluator) kingProtection(st *board.State, kingSq chess.Square, color chess.Color) float64 {
	protection, danger := 0.0, 0.0
	file, rank := int(kingSq)%8, int(kingSq)/8
	for df := -1; df <= 1; df++ {
		for dr := -1; dr <= 1; dr++ {
			f, r := file+df, rank+dr
			if (df == 0 && dr == 0) || f < 0 || f > 7 || r < 0 || r > 7 {
				continue
			}
			switch st.ColorAt(chess.Square(r*8 + f)) {
			case color:
				protection += 0.2
			case color.Other():
				danger += 0.3
			}
		}
	}
	return protection - danger
}

func (e DefaultEvaluator) pieceActivity(st *board.State) float64 {
	var score float64
	for _, sq := range st.Occupied().Squares() {
		p := st.PieceAt(sq)
		if p.Type() == chess.King {
			continue
		}
		file, rank := int(sq)%8, int(sq)/8
		var bonus float64
		if (p.Color() == chess.White && rank >= 4) || (p.Color() == chess.Black && rank <= 3) {
			bonus += 0.1
		}
		if file >= 2 && file <= 5 && rank >= 2 && rank <= 5 {
			bonus += 0.15
		}
		score += colorSign(p.Color()) * bonus
	}
	return score
}
