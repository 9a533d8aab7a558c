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

// Package buttons turns key presses on a terminal into clock button events.
// The board's two time buttons are wired as keyboard keys: the white button
// sends a carriage return and the black button sends a space.
//
// The Keypad type puts the terminal into cbreak mode so that each key press is
// seen immediately. Use Read() directly for input that isn't a terminal.
package buttons
