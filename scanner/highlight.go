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

package scanner

import (
	"fmt"
)

// Highlight is the feedback for a single square.
type Highlight int

// List of valid Highlight values.
const (
	None Highlight = iota
	OkCapture
	OkDestination
	OkOrigin
	Invalid
	PreviousMove
	InCheck
)

func (h Highlight) String() string {
	switch h {
	case None:
		return "none"
	case OkCapture:
		return "ok-capture"
	case OkDestination:
		return "ok-destination"
	case OkOrigin:
		return "ok-origin"
	case Invalid:
		return "invalid"
	case PreviousMove:
		return "previous-move"
	case InCheck:
		return "in-check"
	}
	return "unknown"
}

// MarshalText implements the encoding.TextMarshaler interface.
func (h Highlight) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (h *Highlight) UnmarshalText(text []byte) error {
	for v := None; v <= InCheck; v++ {
		if v.String() == string(text) {
			*h = v
			return nil
		}
	}
	return fmt.Errorf("scanner: unknown highlight: %s", text)
}

// Verdict is the conclusion of a scan.
type Verdict int

// List of valid Verdict values.
const (
	NoChange Verdict = iota
	LegalMove
	InvalidPlacement
)

func (v Verdict) String() string {
	switch v {
	case NoChange:
		return "no change"
	case LegalMove:
		return "legal move"
	case InvalidPlacement:
		return "invalid"
	}
	return "unknown"
}
