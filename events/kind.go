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

package events

// Kind identifies the type of an event. The set of kinds is closed and every
// kind has exactly one event type.
type Kind int

// List of event kinds.
const (
	KindOccupancyChanged Kind = iota
	KindTimeButtonPressed
	KindMoveProposed
	KindEngineMove
	KindAnalysisSample
	KindClockTimeout
	KindClockChanged
	KindResignRequest
	KindRegretRequest
	KindNewGameRequest
	KindPauseRequest
	KindStartRequest
	KindDrawClaimRequest
	KindGameState
	KindHighlights
	KindGameOver
	KindPlayerNotify
	KindMoveApplied
	KindMoveRegretted
	KindShutdown

	// the number of kinds. not a valid kind
	numKinds
)

func (k Kind) String() string {
	switch k {
	case KindOccupancyChanged:
		return "OccupancyChanged"
	case KindTimeButtonPressed:
		return "TimeButtonPressed"
	case KindMoveProposed:
		return "MoveProposed"
	case KindEngineMove:
		return "EngineMove"
	case KindAnalysisSample:
		return "AnalysisSample"
	case KindClockTimeout:
		return "ClockTimeout"
	case KindClockChanged:
		return "ClockChanged"
	case KindResignRequest:
		return "ResignRequest"
	case KindRegretRequest:
		return "RegretRequest"
	case KindNewGameRequest:
		return "NewGameRequest"
	case KindPauseRequest:
		return "PauseRequest"
	case KindStartRequest:
		return "StartRequest"
	case KindDrawClaimRequest:
		return "DrawClaimRequest"
	case KindGameState:
		return "GameState"
	case KindHighlights:
		return "Highlights"
	case KindGameOver:
		return "GameOver"
	case KindPlayerNotify:
		return "PlayerNotify"
	case KindMoveApplied:
		return "MoveApplied"
	case KindMoveRegretted:
		return "MoveRegretted"
	case KindShutdown:
		return "Shutdown"
	}
	return "unknown kind"
}

// Valid returns true if the kind is one of the defined kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < numKinds
}

// Kinds returns every defined kind in order.
func Kinds() []Kind {
	k := make([]Kind, numKinds)
	for i := range k {
		k[i] = Kind(i)
	}
	return k
}
