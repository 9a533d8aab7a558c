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

package environment_test

import (
	"testing"

	"github.com/chessboard/chessboard/environment"
	"github.com/chessboard/chessboard/test"
)

func TestEnvironment(t *testing.T) {
	env := environment.NewEnvironment(environment.MainLabel, nil)
	test.ExpectSuccess(t, env.IsMain())
	test.ExpectSuccess(t, env.AllowLogging())
	test.ExpectInequality(t, env.Bus, nil)

	other := environment.NewEnvironment("analysis", env.Bus)
	test.ExpectFailure(t, other.IsMain())
	test.ExpectFailure(t, other.AllowLogging())
	test.ExpectEquality(t, other.Bus, env.Bus)

	other.Normalise()
	test.ExpectSuccess(t, other.Random.ZeroSeed)

	test.ExpectSuccess(t, env.Close())
}
