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

// Package test contains helper functions that remove common boilerplate from
// the package tests.
//
// The Expect functions report a failure with t.Errorf() and return false. The
// Demand functions report a failure with t.Fatalf(). ExpectSuccess and
// ExpectFailure understand the bool and error types. A nil value is
// considered a success, because that is how errors work.
//
// The CompareWriter type implements the io.Writer interface and should be
// used to capture output. The Compare() function can then be used to test for
// equality.
package test
