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

package occupancy

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// Presence is the sensed state of a single square.
type Presence int

// List of valid Presence values.
const (
	Empty Presence = iota
	White
	Black
)

func (p Presence) String() string {
	switch p {
	case Empty:
		return "."
	case White:
		return "W"
	case Black:
		return "B"
	}
	return "?"
}

// Color converts the presence to the equivalent chess.Color. An empty square
// is chess.NoColor.
func (p Presence) Color() chess.Color {
	switch p {
	case White:
		return chess.White
	case Black:
		return chess.Black
	}
	return chess.NoColor
}

// FromColor is the inverse of Color().
func FromColor(c chess.Color) Presence {
	switch c {
	case chess.White:
		return White
	case chess.Black:
		return Black
	}
	return Empty
}

// NumSquares is the number of squares on the board.
const NumSquares = 64

// Vector is a complete sensor reading of the board.
type Vector [NumSquares]Presence

// FromBoard returns the vector that the sensors would report for the board.
func FromBoard(b *chess.Board) Vector {
	var v Vector
	for sq, pc := range b.SquareMap() {
		v[sq] = FromColor(pc.Color())
	}
	return v
}

// Diff returns the squares that differ between the two vectors, in square
// order.
func (v Vector) Diff(w Vector) []chess.Square {
	var d []chess.Square
	for i := range v {
		if v[i] != w[i] {
			d = append(d, chess.Square(i))
		}
	}
	return d
}

// Count returns the number of occupied squares.
func (v Vector) Count() int {
	n := 0
	for _, p := range v {
		if p != Empty {
			n++
		}
	}
	return n
}

// String returns the vector as eight ranks, rank 8 first.
func (v Vector) String() string {
	s := strings.Builder{}
	for r := 7; r >= 0; r-- {
		for f := 0; f < 8; f++ {
			s.WriteString(v[r*8+f].String())
		}
		if r > 0 {
			s.WriteString("/")
		}
	}
	return s.String()
}

// Parse is the inverse of String(). Ranks can be separated by a forward slash
// or by whitespace.
func Parse(s string) (Vector, error) {
	var v Vector

	ranks := strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == ' ' || r == '\n' || r == '\t'
	})
	if len(ranks) != 8 {
		return v, fmt.Errorf("occupancy: expected 8 ranks not %d", len(ranks))
	}

	for i, rank := range ranks {
		if len(rank) != 8 {
			return v, fmt.Errorf("occupancy: rank %d has %d squares", 8-i, len(rank))
		}
		r := 7 - i
		for f, c := range rank {
			var p Presence
			switch c {
			case '.':
				p = Empty
			case 'W', 'w':
				p = White
			case 'B', 'b':
				p = Black
			default:
				return v, fmt.Errorf("occupancy: unknown square value '%c'", c)
			}
			v[r*8+f] = p
		}
	}

	return v, nil
}
