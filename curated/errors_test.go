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

package curated_test

import (
	"errors"
	"testing"

	"github.com/chessboard/chessboard/curated"
	"github.com/chessboard/chessboard/test"
)

const testError = "test error: %s"
const wrapError = "wrapped: %v"

func TestIs(t *testing.T) {
	e := curated.Errorf(testError, "foo")
	test.ExpectSuccess(t, curated.IsAny(e))
	test.ExpectSuccess(t, curated.Is(e, testError))
	test.ExpectFailure(t, curated.Is(e, wrapError))
	test.ExpectEquality(t, e.Error(), "test error: foo")

	test.ExpectFailure(t, curated.IsAny(nil))
	test.ExpectFailure(t, curated.IsAny(errors.New("plain")))
}

func TestHas(t *testing.T) {
	e := curated.Errorf(testError, "foo")
	f := curated.Errorf(wrapError, e)
	test.ExpectFailure(t, curated.Is(f, testError))
	test.ExpectSuccess(t, curated.Has(f, testError))
	test.ExpectSuccess(t, curated.Has(f, wrapError))
	test.ExpectEquality(t, f.Error(), "wrapped: test error: foo")
}

func TestDuplicateParts(t *testing.T) {
	e := curated.Errorf("engine: %v", curated.Errorf("engine: timeout"))
	test.ExpectEquality(t, e.Error(), "engine: timeout")
}

func TestUnwrap(t *testing.T) {
	sentinel := errors.New("sentinel")
	e := curated.Errorf(wrapError, sentinel)
	test.ExpectSuccess(t, errors.Is(e, sentinel))
}
