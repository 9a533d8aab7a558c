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

package clock

import (
	"fmt"
	"time"

	"github.com/notnil/chess"

	"github.com/chessboard/chessboard/curated"
)

// StateVersion is the current version of the State type.
const StateVersion = 1

// State is the persistent state of the clock.
type State struct {
	Version      int           `json:"version"`
	WhiteElapsed time.Duration `json:"white_elapsed"`
	BlackElapsed time.Duration `json:"black_elapsed"`
	White        Control       `json:"white"`
	Black        Control       `json:"black"`
	Current      chess.Color   `json:"current"`
	Running      bool          `json:"running"`
}

// State returns the persistent state of the clock.
func (c *Clock) State() State {
	c.crit.Lock()
	defer c.crit.Unlock()

	now := c.now()
	return State{
		Version:      StateVersion,
		WhiteElapsed: c.watches[white].Elapsed(now),
		BlackElapsed: c.watches[black].Elapsed(now),
		White:        c.control[white],
		Black:        c.control[black],
		Current:      c.current,
		Running:      c.watches[index(c.current)].Running(),
	}
}

// Restore the clock from a persistent state. The clock is always restored in
// the stopped state.
func (c *Clock) Restore(s State) error {
	if s.Version != StateVersion {
		return curated.Errorf(BadState, fmt.Errorf("unsupported version %d", s.Version))
	}
	if s.Current != chess.White && s.Current != chess.Black {
		return curated.Errorf(BadState, fmt.Errorf("no side to move"))
	}
	if err := validate("white", s.White); err != nil {
		return curated.Errorf(BadState, err)
	}
	if err := validate("black", s.Black); err != nil {
		return curated.Errorf(BadState, err)
	}

	c.stopWatchdog()

	c.crit.Lock()
	defer c.crit.Unlock()

	c.control = [2]Control{s.White, s.Black}
	c.watches[white].Reset(s.WhiteElapsed)
	c.watches[black].Reset(s.BlackElapsed)
	c.current = s.Current
	c.startWatchdog()
	c.publish()

	return nil
}
