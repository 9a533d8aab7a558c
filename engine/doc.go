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

// Package engine runs requests against a chess engine on a dedicated worker
// goroutine. Requests are queued without blocking and handled one at a time in
// the order they were submitted.
//
// There are two kinds of request. A GetMove request always results in exactly
// one events.EngineMove, which may be a resignation if the engine could not
// produce a legal move. An Analyze request results in zero or more
// events.AnalysisSample, one per search depth. Analysis is abandoned between
// samples if another request is waiting in the queue.
//
// The engine itself is accessed through the Searcher interface. The uci
// sub-package provides the implementation for external UCI engines.
package engine
