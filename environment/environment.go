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

package environment

import (
	"github.com/chessboard/chessboard/events"
	"github.com/chessboard/chessboard/logger"
	"github.com/chessboard/chessboard/random"
)

// Label is used to name the environment.
type Label string

// MainLabel is the label of the environment that drives the physical board.
const MainLabel = Label("")

// Environment is the context shared by the components of a single board. More
// than one environment can exist in a process, which is how the tests run
// several boards side by side.
type Environment struct {
	Label Label

	// the event bus connecting the components
	Bus *events.Bus

	// any randomisation required by the components should be retrieved through
	// this structure
	Random *random.Random
}

// NewEnvironment is the preferred method of initialisation for the Environment
// type. If bus is nil a new bus is created.
func NewEnvironment(label Label, bus *events.Bus) *Environment {
	if bus == nil {
		bus = events.NewBus()
	}
	return &Environment{
		Label:  label,
		Bus:    bus,
		Random: random.NewRandom(),
	}
}

// Normalise ensures the environment is in a known state. Useful for tests
// where the random choices must be the same for every run.
func (env *Environment) Normalise() {
	env.Random.ZeroSeed = true
}

// IsMain returns true if the environment drives the physical board.
func (env *Environment) IsMain() bool {
	return env.Label == MainLabel
}

// AllowLogging implements the logger.Permission interface. Only the main
// environment is allowed to log.
func (env *Environment) AllowLogging() bool {
	return env.IsMain()
}

// Close stops the event bus.
func (env *Environment) Close() error {
	logger.Logf(env, "environment", "closing %q", env.Label)
	return env.Bus.Stop()
}
