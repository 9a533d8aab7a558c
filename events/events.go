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

import (
	"time"

	"github.com/notnil/chess"

	"github.com/chessboard/chessboard/notifications"
	"github.com/chessboard/chessboard/occupancy"
	"github.com/chessboard/chessboard/scanner"
)

// Event is implemented by every event type. Events are values and should not
// be modified after they have been published.
type Event interface {
	Kind() Kind
}

// Player describes one side of a game.
type Player struct {
	Name   string `json:"name"`
	Engine bool   `json:"engine"`

	// search depth range for engine players. the depth for each move is
	// chosen at random from the range
	MinDepth int `json:"min_depth,omitempty"`
	MaxDepth int `json:"max_depth,omitempty"`

	// engine network weights. an empty string means the engine's default
	Weight string `json:"weight,omitempty"`

	// time allotment for the game. zero means unlimited
	Time      time.Duration `json:"time"`
	Increment time.Duration `json:"increment"`
}

// OccupancyChanged is sent by the sensor link. If Partial is true then only the
// squares listed in Squares have changed. Vector is always complete.
type OccupancyChanged struct {
	Vector  occupancy.Vector `json:"vector"`
	Squares []chess.Square   `json:"squares,omitempty"`
	Partial bool             `json:"partial"`
}

// TimeButtonPressed is sent when a player presses their clock button. It
// claims the move currently shown on the board.
type TimeButtonPressed struct {
	Side chess.Color `json:"side"`
}

// MoveProposed is a move in UCI notation entered by some means other than the
// board. For example, the transport layer.
type MoveProposed struct {
	Move string `json:"move"`
}

// EngineMove is the result of a get-move request. Exactly one is sent for
// every request.
type EngineMove struct {
	Seq    uint64      `json:"seq"`
	Side   chess.Color `json:"side"`
	Move   string      `json:"move,omitempty"`
	Depth  int         `json:"depth"`
	Resign bool        `json:"resign"`
}

// AnalysisSample is the engine's evaluation at one depth of an analysis. The
// score is always from white's perspective.
type AnalysisSample struct {
	Seq     uint64   `json:"seq"`
	Depth   int      `json:"depth"`
	ScoreCP int      `json:"score_cp"`
	Mate    int      `json:"mate,omitempty"`
	PV      []string `json:"pv"`

	// probability of white winning
	WhiteWinProbability float64 `json:"white_win_probability"`

	// true if this is the last sample of a completed analysis
	Final bool `json:"final"`
}

// ClockTimeout is sent by the clock watchdog when a side runs out of time.
type ClockTimeout struct {
	Side chess.Color `json:"side"`
}

// ClockChanged is a snapshot of the clock. Unlimited time is represented by a
// negative value.
type ClockChanged struct {
	Running   bool          `json:"running"`
	Current   chess.Color   `json:"current"`
	WhiteLeft time.Duration `json:"white_left"`
	BlackLeft time.Duration `json:"black_left"`
}

// ResignRequest asks for the side to resign.
type ResignRequest struct {
	Side chess.Color `json:"side"`
}

// RegretRequest asks for the last move to be taken back.
type RegretRequest struct{}

// NewGameRequest asks for a new game. An empty FEN means the standard starting
// position.
type NewGameRequest struct {
	White Player `json:"white"`
	Black Player `json:"black"`
	FEN   string `json:"fen,omitempty"`
}

// PauseRequest asks for the game to be paused.
type PauseRequest struct{}

// StartRequest asks for the game to be started or resumed.
type StartRequest struct{}

// DrawClaimRequest claims a draw by repetition or the fifty move rule.
type DrawClaimRequest struct{}

// GameState is the canonical game snapshot. It is sent after every change to
// the game.
type GameState struct {
	State    string        `json:"state"`
	FEN      string        `json:"fen"`
	Turn     chess.Color   `json:"turn"`
	Moves    []string      `json:"moves"`
	LastMove string        `json:"last_move,omitempty"`
	InCheck  bool          `json:"in_check"`
	Outcome  chess.Outcome `json:"outcome"`
	Method   string        `json:"method,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	White    Player        `json:"white"`
	Black    Player        `json:"black"`

	// a draw can be claimed in the current position
	DrawClaimable bool `json:"draw_claimable"`
}

// Highlights is the per-square feedback for the board lights.
type Highlights struct {
	Squares [occupancy.NumSquares]scanner.Highlight `json:"squares"`
}

// GameOver is sent once when a game ends.
type GameOver struct {
	Outcome chess.Outcome `json:"outcome"`
	Method  string        `json:"method"`
	Reason  string        `json:"reason"`
	White   Player        `json:"white"`
	Black   Player        `json:"black"`
	FEN     string        `json:"fen"`

	// the complete game in PGN format
	PGN string `json:"pgn"`
}

// PlayerNotify is a human readable notification.
type PlayerNotify struct {
	Notice  notifications.Notice `json:"notice"`
	Title   string               `json:"title"`
	Message string               `json:"message"`
}

// MoveApplied is sent after a move has been pushed to the canonical position.
type MoveApplied struct {
	Move string      `json:"move"`
	Side chess.Color `json:"side"`
	FEN  string      `json:"fen"`
}

// MoveRegretted is sent after a move has been taken back.
type MoveRegretted struct {
	Move string `json:"move"`
	FEN  string `json:"fen"`
}

// Shutdown is sent when the program is terminating.
type Shutdown struct{}

func (OccupancyChanged) Kind() Kind  { return KindOccupancyChanged }
func (TimeButtonPressed) Kind() Kind { return KindTimeButtonPressed }
func (MoveProposed) Kind() Kind      { return KindMoveProposed }
func (EngineMove) Kind() Kind        { return KindEngineMove }
func (AnalysisSample) Kind() Kind    { return KindAnalysisSample }
func (ClockTimeout) Kind() Kind      { return KindClockTimeout }
func (ClockChanged) Kind() Kind      { return KindClockChanged }
func (ResignRequest) Kind() Kind     { return KindResignRequest }
func (RegretRequest) Kind() Kind     { return KindRegretRequest }
func (NewGameRequest) Kind() Kind    { return KindNewGameRequest }
func (PauseRequest) Kind() Kind      { return KindPauseRequest }
func (StartRequest) Kind() Kind      { return KindStartRequest }
func (DrawClaimRequest) Kind() Kind  { return KindDrawClaimRequest }
func (GameState) Kind() Kind         { return KindGameState }
func (Highlights) Kind() Kind        { return KindHighlights }
func (GameOver) Kind() Kind          { return KindGameOver }
func (PlayerNotify) Kind() Kind      { return KindPlayerNotify }
func (MoveApplied) Kind() Kind       { return KindMoveApplied }
func (MoveRegretted) Kind() Kind     { return KindMoveRegretted }
func (Shutdown) Kind() Kind          { return KindShutdown }
