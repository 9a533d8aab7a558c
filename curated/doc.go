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

// Package curated is a helper package for the plain Go language error type.
//
// Curated errors are created with the Errorf() function. The pattern given to
// Errorf() identifies the error, so that sentinel errors can be declared as
// exported string constants and tested with Is() and Has(). For example:
//
//	const IllegalMove = "rules: illegal move: %s"
//
//	err := curated.Errorf(IllegalMove, "e2e5")
//	if curated.Is(err, IllegalMove) {
//		...
//	}
//
// Has() looks for the pattern anywhere in the chain of wrapped curated errors:
//
//	f := curated.Errorf("controller: %v", err)
//	curated.Has(f, IllegalMove) // true
//	curated.Is(f, IllegalMove)  // false
//
// The Error() implementation normalises the message chain so that duplicate
// adjacent parts are removed. "engine: engine: timeout" becomes "engine:
// timeout". This means that a function can wrap errors with its own prefix
// without worrying whether the callee has already done so.
//
// Curated errors also implement Unwrap(), returning the first error in the
// placeholder values, so the errors package in the standard library can see
// through them.
package curated
