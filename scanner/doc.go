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

// Package scanner infers a move from the board's occupancy sensors. Given the
// canonical position and a sensor reading it decides whether the board shows
// a legal move, an invalid arrangement of pieces, or nothing new.
//
// Every square that differs from the canonical position is put in one or more
// of four buckets, from the point of view of the side to move:
//
//	missing friendly: a friendly piece has been lifted
//	missing opponent: an opponent piece has been lifted
//	extra friendly:   a friendly piece has been put down
//	extra opponent:   an opponent piece has been put down
//
// A square whose sensed colour has changed, which is what a capture looks
// like, is both a missing piece of one colour and an extra piece of the other.
//
// Scanning is a pure function of the position and the reading. The Scanner
// type adds a cache of the previous reading so that it can report which
// squares have just been occupied.
package scanner
