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


package game

import (
	"bytes"
	"testing"
	"time"

	"github.com/notnil/chess"

	"github.com/chessboard/chessboard/clock"
	"github.com/chessboard/chessboard/test"
)

func TestRecordKey(t *testing.T) {
	ctl := clock.Control{Allotment: time.Minute}
	r := Record{
		Version: RecordVersion,
		State:   InProgress,
		Moves:   []string{"e2e4"},
		Clock: clock.State{
			Version:      clock.StateVersion,
			WhiteElapsed: 3 * time.Second,
			BlackElapsed: time.Second,
			White:        ctl,
			Black:        ctl,
			Current:      chess.Black,
			Running:      true,
		},
	}

	a, err := r.key()
	test.DemandSuccess(t, err)

	// the running side's time does not count as a change
	r.Clock.BlackElapsed = 5 * time.Second
	b, err := r.key()
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, bytes.Equal(a, b))

	// the other side's time does
	r.Clock.WhiteElapsed = 4 * time.Second
	b, err = r.key()
	test.DemandSuccess(t, err)
	test.ExpectFailure(t, bytes.Equal(a, b))

	// as does the time of a stopped clock
	r.Clock.WhiteElapsed = 3 * time.Second
	r.Clock.Running = false
	a, err = r.key()
	test.DemandSuccess(t, err)
	r.Clock.BlackElapsed = 6 * time.Second
	b, err = r.key()
	test.DemandSuccess(t, err)
	test.ExpectFailure(t, bytes.Equal(a, b))

	// and moves
	r.Moves = append(r.Moves, "e7e5")
	a, err = r.key()
	test.DemandSuccess(t, err)
	test.ExpectFailure(t, bytes.Equal(a, b))
}
