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

package sensors

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/notnil/chess"

	"github.com/chessboard/chessboard/events"
	"github.com/chessboard/chessboard/occupancy"
)

var fileLine = regexp.MustCompile(`^(?P<file>[A-H])\|(?P<ranks>( *-?\d+ *\|){7} *-?\d+ *)$`)

// Parser interprets lines from the sensor controller. It is not safe for
// concurrent use.
type Parser struct {
	// readings beyond the offset (in millivolts) indicate a piece
	offset int

	// number of identical readings before a square is considered to have
	// changed
	required int

	colors occupancy.Vector
	counts [occupancy.NumSquares]int

	// a complete reading has been published
	complete bool
}

// NewParser is the preferred method of initialisation for the Parser type.
func NewParser(offset int, required int) *Parser {
	if offset < 0 {
		offset = -offset
	}
	return &Parser{
		offset:   offset,
		required: max(required, 1),
	}
}

// Presence converts a reading in millivolts into a Presence value.
func (p *Parser) Presence(mv int) occupancy.Presence {
	switch {
	case mv >= p.offset:
		return occupancy.Black
	case mv <= -p.offset:
		return occupancy.White
	}
	return occupancy.Empty
}

// Line parses a single line from the sensor controller. The boolean is true if
// the line results in an event.
//
// No event is returned until every square has been read the required number
// of times. The first event is a complete reading and subsequent events list
// only the squares that have changed.
func (p *Parser) Line(line string) (events.OccupancyChanged, bool) {
	m := fileLine.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return events.OccupancyChanged{}, false
	}

	file := int(m[fileLine.SubexpIndex("file")][0] - 'A')
	ranks := strings.Split(m[fileLine.SubexpIndex("ranks")], "|")

	var changed []chess.Square
	for rank, v := range ranks {
		mv, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return events.OccupancyChanged{}, false
		}

		sq := chess.Square(rank*8 + file)
		c := p.Presence(mv)
		if c == p.colors[sq] {
			p.counts[sq]++
		} else {
			p.colors[sq] = c
			p.counts[sq] = 1
		}

		if p.counts[sq] == p.required {
			changed = append(changed, sq)
		}
	}

	if p.complete {
		if len(changed) == 0 {
			return events.OccupancyChanged{}, false
		}
		return events.OccupancyChanged{
			Vector:  p.colors,
			Squares: changed,
			Partial: true,
		}, true
	}

	for _, c := range p.counts {
		if c < p.required {
			return events.OccupancyChanged{}, false
		}
	}
	p.complete = true

	all := make([]chess.Square, occupancy.NumSquares)
	for i := range all {
		all[i] = chess.Square(i)
	}

	return events.OccupancyChanged{
		Vector:  p.colors,
		Squares: all,
	}, true
}

// Reset the parser. The next event will be a complete reading.
func (p *Parser) Reset() {
	p.colors = occupancy.Vector{}
	p.counts = [occupancy.NumSquares]int{}
	p.complete = false
}
