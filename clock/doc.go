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

// Package clock implements a dual chess clock. Each side has a stopwatch and
// only the stopwatch of the side to move may run. A watchdog goroutine sends
// an events.ClockTimeout when a side's time runs out.
//
// Increments are implemented by giving time back: when a side completes its
// move the increment is subtracted from its elapsed time. Taking a move back
// adds the increment again.
//
// The clock is driven by the game controller through direct calls. It tells
// the rest of the system about changes by publishing events.ClockChanged.
package clock
