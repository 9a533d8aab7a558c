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

package occupancy_test

import (
	"testing"

	"github.com/notnil/chess"

	"github.com/chessboard/chessboard/occupancy"
	"github.com/chessboard/chessboard/test"
)

const startingVector = "BBBBBBBB/BBBBBBBB/......../......../......../......../WWWWWWWW/WWWWWWWW"

func TestFromBoard(t *testing.T) {
	g := chess.NewGame()
	v := occupancy.FromBoard(g.Position().Board())
	test.ExpectEquality(t, v.String(), startingVector)
	test.ExpectEquality(t, v.Count(), 32)
	test.ExpectEquality(t, v[chess.E2], occupancy.White)
	test.ExpectEquality(t, v[chess.E7], occupancy.Black)
	test.ExpectEquality(t, v[chess.E4], occupancy.Empty)
}

func TestParse(t *testing.T) {
	v, err := occupancy.Parse(startingVector)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, v.String(), startingVector)

	_, err = occupancy.Parse("BBBBBBBB")
	test.ExpectFailure(t, err)
	_, err = occupancy.Parse("BBBBBBBX/BBBBBBBB/......../......../......../......../WWWWWWWW/WWWWWWWW")
	test.ExpectFailure(t, err)
}

func TestDiff(t *testing.T) {
	a, _ := occupancy.Parse(startingVector)
	b := a
	b[chess.E2] = occupancy.Empty
	b[chess.E4] = occupancy.White

	d := a.Diff(b)
	test.DemandEquality(t, len(d), 2)
	test.ExpectEquality(t, d[0], chess.E2)
	test.ExpectEquality(t, d[1], chess.E4)
}
