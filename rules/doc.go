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

// Package rules wraps the chess package to provide the canonical position
// used by the game controller. The chess package does the real work of
// generating legal moves and detecting outcomes. This package adds the things
// a physical board needs: taking moves back, per-square colour queries, the
// king square for check highlighting, and outcomes that the chess package does
// not know about, such as losing on time.
//
// Moves are always given and returned in UCI notation, eg. "e2e4" or "e7e8q".
package rules
