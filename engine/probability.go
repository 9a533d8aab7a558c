// This file is part of Chessboard.
//
// Chessboard is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Chessboard is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Chessboard.  If not, see <https://www.gnu.org/licenses/>.

package engine

import (
	"math"

	"github.com/notnil/chess"
)

// MateScore is the centipawn score used in place of a forced mate.
const MateScore = 100000

// probabilityScale is the centipawn scale of the logistic function used by
// WinProbability().
const probabilityScale = 400.0

// WinProbability converts a centipawn score from white's point of view into
// the probability that white wins.
func WinProbability(cp int) float64 {
	return 1.0 / (1.0 + math.Exp(-float64(cp)/probabilityScale))
}

// WhiteScore converts the score of a search into centipawns from white's point
// of view. A mate is converted to plus or minus MateScore.
func WhiteScore(info Info, turn chess.Color) int {
	cp := info.ScoreCP
	if info.Mate > 0 {
		cp = MateScore
	} else if info.Mate < 0 {
		cp = -MateScore
	}
	if turn == chess.Black {
		cp = -cp
	}
	return cp
}

var materialValues = map[chess.PieceType]int{
	chess.Pawn:   100,
	chess.Knight: 320,
	chess.Bishop: 330,
	chess.Rook:   500,
	chess.Queen:  900,
}

// MaterialScore estimates the position by counting material. The result is
// in centipawns from white's point of view. Used when the engine is unable to
// analyse a position.
func MaterialScore(pos *chess.Position) int {
	var cp int
	for _, p := range pos.Board().SquareMap() {
		v := materialValues[p.Type()]
		if p.Color() == chess.White {
			cp += v
		} else {
			cp -= v
		}
	}
	return cp
}
