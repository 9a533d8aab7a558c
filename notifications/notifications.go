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

package notifications

// Notice describes something the players should be told about.
type Notice string

// List of defined notifications.
const (
	// the game has ended. the message gives the result and the reason
	NotifyGameOver Notice = "NotifyGameOver"

	// a draw can be claimed (threefold repetition or the fifty move rule)
	NotifyDrawAvailable Notice = "NotifyDrawAvailable"

	// the engine could not produce a move and has resigned on its own behalf
	NotifyEngineResigned Notice = "NotifyEngineResigned"

	// a move was claimed with a time button but the board does not show a
	// legal move
	NotifyNoMoveToClaim Notice = "NotifyNoMoveToClaim"

	// the previous move has been taken back
	NotifyMoveRegretted Notice = "NotifyMoveRegretted"
)

// Title returns the human readable title for the notice.
func (n Notice) Title() string {
	switch n {
	case NotifyGameOver:
		return "Game over"
	case NotifyDrawAvailable:
		return "Draw available"
	case NotifyEngineResigned:
		return "Engine resigned"
	case NotifyNoMoveToClaim:
		return "No move to claim"
	case NotifyMoveRegretted:
		return "Move taken back"
	}
	return string(n)
}
