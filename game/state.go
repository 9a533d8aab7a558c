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

package game

// State of the game controller.
type State int

// List of possible controller states.
const (
	NotStarted State = iota
	InProgress
	Paused
	Over
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case InProgress:
		return "InProgress"
	case Paused:
		return "Paused"
	case Over:
		return "Over"
	}
	return ""
}

// ParseState is the inverse of String(). Returns false if the string is not
// recognised.
func ParseState(s string) (State, bool) {
	for _, st := range []State{NotStarted, InProgress, Paused, Over} {
		if st.String() == s {
			return st, true
		}
	}
	return NotStarted, false
}

// MarshalText implements the encoding.TextMarshaler interface.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (s *State) UnmarshalText(text []byte) error {
	st, ok := ParseState(string(text))
	if !ok {
		return curatedUnknownState(string(text))
	}
	*s = st
	return nil
}

// Transition checks whether the controller can move from one state to
// another. A new game can be started from any state so a transition to
// NotStarted is always allowed.
//
// Rules:
//
//  1. NotStarted and Paused can only move to InProgress
//
//  2. InProgress can move to Paused or Over, or stay InProgress
//
//  3. Over can only move to InProgress, when a move is taken back
func Transition(from State, to State) bool {
	if to == NotStarted {
		return true
	}
	switch from {
	case NotStarted, Paused:
		return to == InProgress
	case InProgress:
		return to == InProgress || to == Paused || to == Over
	case Over:
		return to == InProgress
	}
	return false
}
