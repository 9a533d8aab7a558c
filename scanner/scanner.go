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
	"sort"

	"github.com/notnil/chess"

	"github.com/chessboard/chessboard/logger"
	"github.com/chessboard/chessboard/occupancy"
)

// Position is the view of the canonical position needed by the scanner.
type Position interface {
	Turn() chess.Color
	ValidMoves() []*chess.Move
	ColorAt(sq chess.Square) chess.Color
	CanCastle(c chess.Color) bool
	Over() bool
	InCheck() bool
	KingSquare(c chess.Color) chess.Square
	LastMove() *chess.Move
}

// Result of a scan.
type Result struct {
	MissingFriendly []chess.Square
	MissingOpponent []chess.Square
	ExtraFriendly   []chess.Square
	ExtraOpponent   []chess.Square

	Verdict Verdict

	// the resolved move. only set if Verdict is LegalMove
	Move *chess.Move

	// squares that make the placement invalid, in square order
	Invalid []chess.Square

	Highlights [occupancy.NumSquares]Highlight

	// squares that are occupied now but were empty in the previous reading.
	// only filled in by Scanner.Scan()
	Dropped []chess.Square
}

// Scanner remembers the previous reading.
type Scanner struct {
	previous     occupancy.Vector
	havePrevious bool
}

// Scan the reading against the position.
func (s *Scanner) Scan(pos Position, occ occupancy.Vector) Result {
	r := Scan(pos, occ)

	if s.havePrevious {
		for i := range occ {
			if occ[i] != occupancy.Empty && s.previous[i] == occupancy.Empty {
				r.Dropped = append(r.Dropped, chess.Square(i))
			}
		}
	}

	s.previous = occ
	s.havePrevious = true

	return r
}

// Previous returns the previous reading. The boolean is false if there has
// been no reading since the scanner was created or reset.
func (s *Scanner) Previous() (occupancy.Vector, bool) {
	return s.previous, s.havePrevious
}

// Reset forgets the previous reading.
func (s *Scanner) Reset() {
	s.havePrevious = false
}

// scan is the working state of a single call to Scan().
type scan struct {
	pos     Position
	r       *Result
	invalid map[chess.Square]bool
}

func (sc *scan) reject(squares ...chess.Square) {
	for _, sq := range squares {
		sc.invalid[sq] = true
	}
}

func (sc *scan) mark(sq chess.Square, h Highlight) {
	if sq >= 0 && int(sq) < occupancy.NumSquares {
		sc.r.Highlights[sq] = h
	}
}

// Scan the reading against the position. Never panics. The worst case result
// is an invalid placement with no move.
func Scan(pos Position, occ occupancy.Vector) (r Result) {
	defer func() {
		if p := recover(); p != nil {
			logger.Logf(logger.Allow, "scanner", "recovered: %v", p)
			r = Result{Verdict: InvalidPlacement}
		}
	}()

	sc := &scan{
		pos:     pos,
		r:       &r,
		invalid: make(map[chess.Square]bool),
	}

	sc.classify(occ)
	sc.background()

	touched := touched(&r)

	if pos.Over() {
		for _, sq := range touched {
			sc.mark(sq, Invalid)
		}
		r.Invalid = touched
		r.Verdict = NoChange
		return r
	}

	capture := sc.opponent()
	sc.friendly(capture)

	if len(sc.invalid) > 0 {
		for sq := range sc.invalid {
			r.Invalid = append(r.Invalid, sq)
		}
		sort.Slice(r.Invalid, func(i, j int) bool { return r.Invalid[i] < r.Invalid[j] })
		for _, sq := range r.Invalid {
			sc.mark(sq, Invalid)
		}
		r.Verdict = InvalidPlacement
		r.Move = nil
		return r
	}

	if r.Move != nil {
		r.Verdict = LegalMove
	} else {
		r.Verdict = NoChange
	}

	return r
}

func (sc *scan) classify(occ occupancy.Vector) {
	turn := sc.pos.Turn()
	for i := range occ {
		sq := chess.Square(i)
		canonical := sc.pos.ColorAt(sq)
		sensed := occ[i].Color()
		if canonical == sensed {
			continue
		}
		if canonical != chess.NoColor {
			if canonical == turn {
				sc.r.MissingFriendly = append(sc.r.MissingFriendly, sq)
			} else {
				sc.r.MissingOpponent = append(sc.r.MissingOpponent, sq)
			}
		}
		if sensed != chess.NoColor {
			if sensed == turn {
				sc.r.ExtraFriendly = append(sc.r.ExtraFriendly, sq)
			} else {
				sc.r.ExtraOpponent = append(sc.r.ExtraOpponent, sq)
			}
		}
	}
}

// background highlights show the previous move and a king in check. they are
// overwritten by any other highlight.
func (sc *scan) background() {
	if m := sc.pos.LastMove(); m != nil {
		sc.mark(m.S1(), PreviousMove)
		sc.mark(m.S2(), PreviousMove)
	}
	if sc.pos.InCheck() {
		sc.mark(sc.pos.KingSquare(sc.pos.Turn()), InCheck)
	}
}

// opponent checks the opponent buckets. returns the square of a plausible
// capture or chess.NoSquare.
func (sc *scan) opponent() chess.Square {
	sc.reject(sc.r.ExtraOpponent...)

	switch len(sc.r.MissingOpponent) {
	case 0:
		return chess.NoSquare
	case 1:
		sq := sc.r.MissingOpponent[0]
		for _, m := range sc.pos.ValidMoves() {
			if capturedSquare(m) == sq {
				sc.mark(sq, OkCapture)
				return sq
			}
		}
		sc.reject(sq)
	default:
		sc.reject(sc.r.MissingOpponent...)
	}

	return chess.NoSquare
}

func (sc *scan) friendly(capture chess.Square) {
	mf := sc.r.MissingFriendly
	ef := sc.r.ExtraFriendly

	switch {
	case len(mf) == 0 && len(ef) == 0:
		return

	case len(mf) >= 1 && len(ef) == 2 && sc.pos.CanCastle(sc.pos.Turn()):
		sc.castle(mf, ef)

	case len(mf) == 1 && len(ef) == 0:
		sc.lift(mf[0], capture)

	case len(mf) == 1 && len(ef) == 1:
		sc.complete(mf[0], ef[0], capture)

	default:
		sc.reject(mf...)
		sc.reject(ef...)
	}
}

func (sc *scan) castle(mf, ef []chess.Square) {
	var found []*chess.Move
	for _, m := range sc.pos.ValidMoves() {
		if !m.HasTag(chess.KingSideCastle) && !m.HasTag(chess.QueenSideCastle) {
			continue
		}
		missing, extra := castleSquares(m)
		if sameSquares(missing, mf) && sameSquares(extra, ef) {
			found = append(found, m)
		}
	}

	if len(found) != 1 {
		sc.reject(mf...)
		sc.reject(ef...)
		return
	}

	for _, sq := range mf {
		sc.mark(sq, OkOrigin)
	}
	for _, sq := range ef {
		sc.mark(sq, OkDestination)
	}
	sc.r.Move = found[0]
}

func (sc *scan) lift(from chess.Square, capture chess.Square) {
	n := 0
	for _, m := range sc.pos.ValidMoves() {
		if m.S1() != from {
			continue
		}
		// with an opponent piece also lifted only its capture is shown
		if capture != chess.NoSquare && capturedSquare(m) != capture {
			continue
		}
		n++
		if isCapture(m) {
			sc.mark(m.S2(), OkCapture)
		} else if sc.r.Highlights[m.S2()] != OkCapture {
			sc.mark(m.S2(), OkDestination)
		}
	}

	if n == 0 {
		sc.reject(from)
		return
	}

	sc.mark(from, OkOrigin)
}

func (sc *scan) complete(from, to chess.Square, capture chess.Square) {
	var move *chess.Move
	for _, m := range sc.pos.ValidMoves() {
		if m.S1() != from || m.S2() != to {
			continue
		}
		// promotions are resolved to a queen
		if move == nil || m.Promo() == chess.Queen {
			move = m
		}
	}

	if move == nil {
		sc.reject(from, to)
		return
	}

	// the lifted opponent piece must be the one captured by the move
	if capturedSquare(move) != capture {
		sc.reject(from, to)
		if capture != chess.NoSquare {
			sc.reject(capture)
		} else if isCapture(move) {
			sc.reject(capturedSquare(move))
		}
		return
	}

	sc.mark(from, OkOrigin)
	if isCapture(move) {
		sc.mark(to, OkCapture)
	} else {
		sc.mark(to, OkDestination)
	}
	sc.r.Move = move
}

func isCapture(m *chess.Move) bool {
	return m.HasTag(chess.Capture) || m.HasTag(chess.EnPassant)
}

// capturedSquare returns the square of the piece captured by the move or
// chess.NoSquare if the move is not a capture.
func capturedSquare(m *chess.Move) chess.Square {
	if m.HasTag(chess.EnPassant) {
		return chess.Square(int(m.S1().Rank())*8 + int(m.S2().File()))
	}
	if m.HasTag(chess.Capture) {
		return m.S2()
	}
	return chess.NoSquare
}

// castleSquares returns the squares a castling move empties and fills.
func castleSquares(m *chess.Move) (missing []chess.Square, extra []chess.Square) {
	rank := int(m.S1().Rank()) * 8

	var rookFrom, rookTo chess.Square
	if m.HasTag(chess.KingSideCastle) {
		rookFrom = chess.Square(rank + int(chess.FileH))
		rookTo = chess.Square(rank + int(chess.FileF))
	} else {
		rookFrom = chess.Square(rank + int(chess.FileA))
		rookTo = chess.Square(rank + int(chess.FileD))
	}

	from := []chess.Square{m.S1(), rookFrom}
	to := []chess.Square{m.S2(), rookTo}

	return without(from, to), without(to, from)
}

// without returns the squares in a that are not in b.
func without(a, b []chess.Square) []chess.Square {
	var r []chess.Square
	for _, sq := range a {
		if !containsSquare(b, sq) {
			r = append(r, sq)
		}
	}
	return r
}

func containsSquare(l []chess.Square, sq chess.Square) bool {
	for _, s := range l {
		if s == sq {
			return true
		}
	}
	return false
}

func sameSquares(a, b []chess.Square) bool {
	if len(a) != len(b) {
		return false
	}
	for _, sq := range a {
		if !containsSquare(b, sq) {
			return false
		}
	}
	return true
}

// touched returns every square in any bucket, in square order.
func touched(r *Result) []chess.Square {
	var t []chess.Square
	seen := make(map[chess.Square]bool)
	for _, l := range [][]chess.Square{r.MissingFriendly, r.MissingOpponent, r.ExtraFriendly, r.ExtraOpponent} {
		for _, sq := range l {
			if !seen[sq] {
				seen[sq] = true
				t = append(t, sq)
			}
		}
	}
	sort.Slice(t, func(i, j int) bool { return t[i] < t[j] })
	return t
}

func (r Result) String() string {
	if r.Move != nil {
		return fmt.Sprintf("%s: %s", r.Verdict, r.Move)
	}
	if len(r.Invalid) > 0 {
		return fmt.Sprintf("%s: %v", r.Verdict, r.Invalid)
	}
	return r.Verdict.String()
}
