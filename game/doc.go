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

// Package game implements the game controller. The Controller owns the
// canonical chess position and is the only code that changes it. It reacts to
// events from the sensor link, the players, the clock and the engine worker,
// and after every change it publishes a single events.GameState followed by
// the highlights for the board lights.
//
// The controller is a state machine with four states. A game begins in the
// NotStarted state and moves to InProgress when the first move is made or when
// a start is requested. A game in progress can be paused and resumed. The game
// moves to the Over state on checkmate, resignation, time forfeit or a draw.
// Taking back a move is the only way out of the Over state.
//
// Moves from the board are found by the scanner package. If auto-commit is
// enabled a legal move on the board is applied as soon as it is seen.
// Otherwise the player must press their time button to claim the move.
package game
