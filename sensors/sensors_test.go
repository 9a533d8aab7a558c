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

package sensors_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/notnil/chess"

	"github.com/chessboard/chessboard/events"
	"github.com/chessboard/chessboard/occupancy"
	"github.com/chessboard/chessboard/sensors"
	"github.com/chessboard/chessboard/test"
)

// scan returns the eight lines the sensor controller would send for the
// vector
func scan(v occupancy.Vector) []string {
	var lines []string
	for file := 0; file < 8; file++ {
		var ranks []string
		for rank := 0; rank < 8; rank++ {
			switch v[rank*8+file] {
			case occupancy.White:
				ranks = append(ranks, " -300 ")
			case occupancy.Black:
				ranks = append(ranks, " 250 ")
			default:
				ranks = append(ranks, " 4 ")
			}
		}
		lines = append(lines, fmt.Sprintf("%c|%s", 'A'+file, strings.Join(ranks, "|")))
	}
	return lines
}

func start() occupancy.Vector {
	return occupancy.FromBoard(chess.NewGame().Position().Board())
}

func TestPresence(t *testing.T) {
	p := sensors.NewParser(100, 1)
	test.ExpectEquality(t, p.Presence(100), occupancy.Black)
	test.ExpectEquality(t, p.Presence(99), occupancy.Empty)
	test.ExpectEquality(t, p.Presence(-99), occupancy.Empty)
	test.ExpectEquality(t, p.Presence(-100), occupancy.White)
}

func TestFirstScan(t *testing.T) {
	p := sensors.NewParser(100, 1)

	lines := scan(start())
	for _, l := range lines[:7] {
		_, ok := p.Line(l)
		test.ExpectFailure(t, ok)
	}

	ev, ok := p.Line(lines[7])
	test.DemandSuccess(t, ok)
	test.ExpectFailure(t, ev.Partial)
	test.ExpectEquality(t, len(ev.Squares), occupancy.NumSquares)
	test.ExpectEquality(t, ev.Vector, start())

	// the same reading again produces nothing
	for _, l := range lines {
		_, ok := p.Line(l)
		test.ExpectFailure(t, ok)
	}
}

func TestPartial(t *testing.T) {
	p := sensors.NewParser(100, 1)
	for _, l := range scan(start()) {
		p.Line(l)
	}

	v := start()
	v[chess.E2] = occupancy.Empty
	lines := scan(v)

	// file E is the fifth line
	ev, ok := p.Line(lines[4])
	test.DemandSuccess(t, ok)
	test.ExpectSuccess(t, ev.Partial)
	test.DemandEquality(t, len(ev.Squares), 1)
	test.ExpectEquality(t, ev.Squares[0], chess.E2)
	test.ExpectEquality(t, ev.Vector, v)
}

func TestConsecutive(t *testing.T) {
	p := sensors.NewParser(100, 2)

	lines := scan(start())
	for _, l := range lines {
		_, ok := p.Line(l)
		test.ExpectFailure(t, ok)
	}

	var got bool
	for _, l := range lines {
		_, got = p.Line(l)
	}
	test.ExpectSuccess(t, got)

	// a single flickering reading is ignored
	v := start()
	v[chess.E2] = occupancy.Empty
	_, ok := p.Line(scan(v)[4])
	test.ExpectFailure(t, ok)
	_, ok = p.Line(scan(start())[4])
	test.ExpectFailure(t, ok)

	// but two in a row are not
	p.Line(scan(v)[4])
	ev, ok := p.Line(scan(v)[4])
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, ev.Vector[chess.E2], occupancy.Empty)
}

func TestMalformed(t *testing.T) {
	p := sensors.NewParser(100, 1)
	for _, l := range []string{
		"",
		"chess:~$ board monitor offset",
		"I| 1 | 2 | 3 | 4 | 5 | 6 | 7 | 8",
		"A| 1 | 2 | 3 | 4 | 5 | 6 | 7",
		"A| 1 | 2 | x | 4 | 5 | 6 | 7 | 8",
	} {
		_, ok := p.Line(l)
		test.ExpectFailure(t, ok, l)
	}
}

func TestReset(t *testing.T) {
	p := sensors.NewParser(100, 1)
	for _, l := range scan(start()) {
		p.Line(l)
	}
	p.Reset()

	lines := scan(start())
	for _, l := range lines[:7] {
		_, ok := p.Line(l)
		test.ExpectFailure(t, ok)
	}
	ev, ok := p.Line(lines[7])
	test.ExpectSuccess(t, ok)
	test.ExpectFailure(t, ev.Partial)
}

// port is a fake serial device
type port struct {
	io.Reader
	crit    sync.Mutex
	written bytes.Buffer
	closed  bool
}

func (p *port) Write(b []byte) (int, error) {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.written.Write(b)
}

func (p *port) Close() error {
	p.crit.Lock()
	defer p.crit.Unlock()
	p.closed = true
	return nil
}

func (p *port) output() string {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.written.String()
}

type recorder struct {
	evs []events.OccupancyChanged
}

func (r *recorder) Publish(ev events.Event) {
	if o, ok := ev.(events.OccupancyChanged); ok {
		r.evs = append(r.evs, o)
	}
}

func TestLink(t *testing.T) {
	v := start()
	v[chess.E2] = occupancy.Empty
	v[chess.E4] = occupancy.White

	var in strings.Builder
	in.WriteString("chess:~$ board monitor offset\n")
	for _, l := range scan(start()) {
		fmt.Fprintln(&in, l)
	}
	for _, l := range scan(v) {
		fmt.Fprintln(&in, l)
	}

	p := &port{Reader: strings.NewReader(in.String())}
	r := &recorder{}
	l := sensors.NewLink(p, r, nil)

	// the link fails when the input is exhausted
	err := l.Run(context.Background())
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, p.output(), "board monitor offset\n")

	test.DemandEquality(t, len(r.evs), 2)
	test.ExpectFailure(t, r.evs[0].Partial)
	test.ExpectSuccess(t, r.evs[1].Partial)
	test.ExpectEquality(t, len(r.evs[1].Squares), 2)
	test.ExpectEquality(t, r.evs[1].Vector, v)
}

func TestCommand(t *testing.T) {
	p := &port{Reader: strings.NewReader("calibration complete\nchess:~$ ")}
	l := sensors.NewLink(p, &recorder{}, nil)

	out, err := l.Command("board calibrate set")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, out, "calibration complete\n")
	test.ExpectEquality(t, p.output(), "board calibrate set\n")

	// no prompt
	p = &port{Reader: strings.NewReader("")}
	l = sensors.NewLink(p, &recorder{}, nil)
	_, err = l.Command("board calibrate set")
	test.ExpectFailure(t, err)
}
