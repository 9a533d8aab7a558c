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

// Package statsview serves runtime statistics for the chessboard process. The
// real server is only built when the statsview build tag is present:
//
//	go build -tags statsview
//
// Without the tag Available() returns false and Launch() does nothing.
//
// The underlying functionality is provided by "github.com/go-echarts/statsview".
// After launch, graphs of memory use, goroutine counts and GC pauses are at:
//
//	localhost:12600/debug/statsview
//
// and the standard pprof endpoints are at:
//
//	localhost:12600/debug/pprof/
package statsview
