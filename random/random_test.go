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

package random_test

import (
	"testing"

	"github.com/chessboard/chessboard/random"
	"github.com/chessboard/chessboard/test"
)

func TestZeroSeed(t *testing.T) {
	a := random.NewRandom()
	b := random.NewRandom()
	a.ZeroSeed = true
	b.ZeroSeed = true

	for i := 1; i < 256; i++ {
		test.ExpectEquality(t, a.Intn(i), b.Intn(i))
	}
}

func TestRange(t *testing.T) {
	r := random.NewRandom()
	for i := 0; i < 1000; i++ {
		v := r.Range(2, 4)
		test.ExpectSuccess(t, v >= 2 && v <= 4)
	}
	test.ExpectEquality(t, r.Range(3, 3), 3)
	test.ExpectEquality(t, r.Range(5, 1), 5)
	test.ExpectEquality(t, r.Intn(0), 0)
}
