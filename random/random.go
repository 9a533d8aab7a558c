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

package random

import (
	"math/rand"
	"sync"
	"time"
)

// Random is a random number generator that is safe for concurrent use.
type Random struct {
	crit sync.Mutex
	rnd  *rand.Rand

	// use zero seed rather than a seed based on the time. only useful for
	// instances where random numbers must be predictable. has no effect after
	// the first random number has been generated
	ZeroSeed bool
}

// NewRandom is the preferred method of initialisation for the Random type.
func NewRandom() *Random {
	return &Random{}
}

// must be called inside the critical section
func (rnd *Random) source() *rand.Rand {
	if rnd.rnd == nil {
		if rnd.ZeroSeed {
			rnd.rnd = rand.New(rand.NewSource(0))
		} else {
			rnd.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	return rnd.rnd
}

// Intn returns a random number in the range [0, n). Returns zero if n is not
// positive.
func (rnd *Random) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	rnd.crit.Lock()
	defer rnd.crit.Unlock()
	return rnd.source().Intn(n)
}

// Range returns a random number in the closed range [min, max]. If max is
// less than min then min is returned.
func (rnd *Random) Range(min int, max int) int {
	if max <= min {
		return min
	}
	return min + rnd.Intn(max-min+1)
}
