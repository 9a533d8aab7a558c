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

// Package sensors reads the board's presence sensors over a serial link. The
// sensor controller reports one line per file with a reading in millivolts
// for each of the eight ranks:
//
//	A|  -310 |  -295 |  3 | 0 | -1 | 4 | 288 | 301
//
// A reading beyond the positive offset is a black piece and a reading beyond
// the negative offset is a white piece. Anything between is an empty square.
//
// The Parser type turns these lines into events.OccupancyChanged and can be
// used without any hardware. The Link type drives a real serial device.
package sensors
