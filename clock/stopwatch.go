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
	"time"
)

// Stopwatch accumulates the time during which it is running. The zero value
// is a stopped stopwatch showing zero elapsed time.
//
// Stopwatch is not safe for concurrent use. The Clock type protects its
// stopwatches.
type Stopwatch struct {
	accumulated time.Duration
	started     time.Time
	running     bool
}

// Start the stopwatch. Returns false if the stopwatch was already running.
func (s *Stopwatch) Start(now time.Time) bool {
	if s.running {
		return false
	}
	s.started = now
	s.running = true
	return true
}

// Stop the stopwatch. Returns false if the stopwatch was already stopped.
func (s *Stopwatch) Stop(now time.Time) bool {
	if !s.running {
		return false
	}
	s.accumulated += now.Sub(s.started)
	s.running = false
	return true
}

// Elapsed returns the accumulated time plus the time since the stopwatch was
// last started, if it is running.
func (s *Stopwatch) Elapsed(now time.Time) time.Duration {
	if s.running {
		return s.accumulated + now.Sub(s.started)
	}
	return s.accumulated
}

// Adjust the accumulated time. A negative value gives time back.
func (s *Stopwatch) Adjust(d time.Duration) {
	s.accumulated += d
}

// Running returns true if the stopwatch is running.
func (s *Stopwatch) Running() bool {
	return s.running
}

// Reset stops the stopwatch and sets the accumulated time.
func (s *Stopwatch) Reset(accumulated time.Duration) {
	s.accumulated = accumulated
	s.running = false
}
