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

package buttons_test

import (
	"context"
	"strings"
	"testing"

	"github.com/notnil/chess"

	"github.com/chessboard/chessboard/buttons"
	"github.com/chessboard/chessboard/events"
	"github.com/chessboard/chessboard/test"
)

type recorder struct {
	sides []chess.Color
}

func (r *recorder) Publish(ev events.Event) {
	if b, ok := ev.(events.TimeButtonPressed); ok {
		r.sides = append(r.sides, b.Side)
	}
}

func TestDecode(t *testing.T) {
	side, ok := buttons.Decode('\r')
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, side, chess.White)

	side, ok = buttons.Decode('\n')
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, side, chess.White)

	side, ok = buttons.Decode(' ')
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, side, chess.Black)

	_, ok = buttons.Decode('x')
	test.ExpectFailure(t, ok)
}

func TestRead(t *testing.T) {
	r := &recorder{}
	err := buttons.Read(context.Background(), strings.NewReader("\r x \n"), r)
	test.ExpectSuccess(t, err)
	test.DemandEquality(t, len(r.sides), 4)
	test.ExpectEquality(t, r.sides[0], chess.White)
	test.ExpectEquality(t, r.sides[1], chess.Black)
	test.ExpectEquality(t, r.sides[2], chess.Black)
	test.ExpectEquality(t, r.sides[3], chess.White)
}

func TestReadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &recorder{}
	err := buttons.Read(ctx, strings.NewReader("\r\r"), r)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(r.sides), 0)
}
