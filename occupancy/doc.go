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

// Package occupancy describes the raw state of the board's presence sensors.
// Each of the 64 squares is either empty or occupied by a white or black
// piece. The vector is indexed using the standard square numbering, a1 is zero
// and h8 is 63, which is the same numbering used by the chess package.
//
// An occupancy vector says nothing about which piece is on a square. It is
// the job of the scanner package to interpret a vector against the canonical
// position.
package occupancy
