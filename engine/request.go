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

package engine

import (
	"context"
	"fmt"

	"github.com/notnil/chess"
)

// RequestKind identifies the kind of work a Request asks for.
type RequestKind int

// List of valid RequestKind values.
const (
	// None stops the worker. It is not normally submitted directly. Use
	// Worker.Stop() instead.
	None RequestKind = iota
	GetMove
	Analyze
)

func (k RequestKind) String() string {
	switch k {
	case None:
		return "none"
	case GetMove:
		return "get move"
	case Analyze:
		return "analyze"
	}
	return fmt.Sprintf("unknown request kind (%d)", int(k))
}

// Request is a unit of work for the worker.
type Request struct {
	Kind RequestKind

	// Seq is copied into the resulting events. The receiver uses it to ignore
	// results for requests that are no longer relevant.
	Seq uint64

	// the side the engine is playing for. GetMove only
	Side chess.Color

	// the engine weight to use. an empty string means whatever weight is
	// currently loaded
	Weight string

	FEN string

	// inclusive range of search depths. for Analyze requests MinDepth is
	// ignored and MaxDepth is the deepest sample
	MinDepth int
	MaxDepth int
}

func (r Request) String() string {
	return fmt.Sprintf("%s #%d [%s] depth %d-%d", r.Kind, r.Seq, r.FEN, r.MinDepth, r.MaxDepth)
}

// Info is the result of a single search.
type Info struct {
	Depth int

	// score in centipawns from the point of view of the side to move. ignored
	// if Mate is not zero
	ScoreCP int

	// moves until mate. negative if the side to move is being mated
	Mate int

	// principal variation in UCI notation
	PV []string
}

// Searcher is the interface to a chess engine.
type Searcher interface {
	// Configure loads a weight. Only called when the weight changes.
	Configure(weight string) error

	// Search the position to the specified depth and return the best move in
	// UCI notation.
	Search(ctx context.Context, fen string, depth int) (string, Info, error)

	Close() error
}

// Factory starts a new Searcher. It is called lazily when the worker first
// needs an engine and after a failure has closed the previous one.
type Factory func() (Searcher, error)
