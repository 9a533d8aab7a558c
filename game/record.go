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

import (
	"encoding/json"
	"fmt"

	"github.com/notnil/chess"

	"github.com/chessboard/chessboard/clock"
	"github.com/chessboard/chessboard/curated"
	"github.com/chessboard/chessboard/events"
	"github.com/chessboard/chessboard/rules"
)

// Sentinal errors.
const (
	BadRecord    = "game: cannot restore: %v"
	UnknownState = "game: unknown state: %s"
	BadPlayer    = "game: bad player: %v"
)

func curatedUnknownState(s string) error {
	return curated.Errorf(UnknownState, s)
}

// RecordVersion is the current version of the Record type.
const RecordVersion = 1

// Record is the persistent state of the controller.
type Record struct {
	Version  int           `json:"version"`
	State    State         `json:"state"`
	StartFEN string        `json:"start_fen"`
	Moves    []string      `json:"moves"`
	White    events.Player `json:"white"`
	Black    events.Player `json:"black"`

	// how a game that is over was decided, if it was not decided by the moves
	// alone. Loser is the side that resigned or ran out of time
	Reason string      `json:"reason,omitempty"`
	Loser  chess.Color `json:"loser,omitempty"`

	Clock clock.State `json:"clock"`
}

// key is the serialised record used to decide whether the record has changed
// since it was last persisted. The time used by a running stopwatch changes
// all the time and is left out.
func (r Record) key() ([]byte, error) {
	if r.Clock.Running {
		if r.Clock.Current == chess.Black {
			r.Clock.BlackElapsed = 0
		} else {
			r.Clock.WhiteElapsed = 0
		}
	}
	return json.Marshal(r)
}

// Persister stores the controller's state.
type Persister interface {
	Persist(r Record) error
}

// replay recreates the game described by the record
func (r Record) replay() (*rules.Game, error) {
	if r.Version != RecordVersion {
		return nil, fmt.Errorf("unsupported version %d", r.Version)
	}

	g, err := rules.NewGame(r.StartFEN)
	if err != nil {
		return nil, err
	}
	for _, m := range r.Moves {
		if _, err := g.Push(m); err != nil {
			return nil, err
		}
	}

	switch r.Reason {
	case "Resignation":
		err = g.Resign(r.Loser)
	case "Time forfeit":
		err = g.Forfeit(r.Loser)
	case "Threefold repetition", "Fifty moves":
		err = g.ClaimDraw()
	}
	if err != nil {
		return nil, err
	}

	if r.State == Over && !g.Over() {
		return nil, fmt.Errorf("game is over but the position is not decided")
	}

	return g, nil
}
