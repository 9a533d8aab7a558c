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

package test_test

import (
	"errors"
	"testing"

	"github.com/chessboard/chessboard/test"
)

func TestExpectFailure(t *testing.T) {
	test.ExpectFailure(t, false)
	test.ExpectFailure(t, errors.New("test"))
}

func TestExpectSuccess(t *testing.T) {
	test.ExpectSuccess(t, true)
	var err error
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, nil)
}

func TestExpectEquality(t *testing.T) {
	test.ExpectEquality(t, 10, 5+5)
	test.ExpectEquality(t, "e2e4", "e2"+"e4")
	test.ExpectInequality(t, 11, 5+5)
}

func TestExpectApproximate(t *testing.T) {
	test.ExpectApproximate(t, 10, 11, 0.1)
	test.ExpectApproximate(t, 297.0, 297.01, 0.001)
}

func TestCompareWriter(t *testing.T) {
	w := &test.CompareWriter{}
	w.Write([]byte("abc"))
	test.ExpectSuccess(t, w.Compare("abc"))
	w.Clear()
	test.ExpectSuccess(t, w.Compare(""))
}
