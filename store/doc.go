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

// Package store keeps the controller's state and the history of finished
// games in an SQLite database.
//
// The controller's state is a single row that is replaced every time the
// controller offers a new game.Record. The Store type implements the
// game.Persister interface for this.
//
// Finished games are added to the history by subscribing the store to the
// event bus with Attach(). Each game is given a UUID and is stored with its
// PGN.
package store
