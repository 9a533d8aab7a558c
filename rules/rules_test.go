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

package rules_test

import (
	"strings"
	"testing"

	"github.com/notnil/chess"

	"github.com/chessboard/chessboard/curated"
	"github.com/chessboard/chessboard/occupancy"
	"github.com/chessboard/chessboard/rules"
	"github.com/chessboard/chessboard/test"
)

func play(t *testing.T, g *rules.Game, moves ...string) {
	t.Helper()
	for _, m := range moves {
		_, err := g.Push(m)
		test.DemandSuccess(t, err, m)
	}
}

func TestPushAndPop(t *testing.T) {
	g, err := rules.NewGame("")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, g.Turn(), chess.White)
	test.ExpectEquality(t, len(g.ValidMoves()), 20)

	play(t, g, "e2e4", "e7e5")
	test.ExpectEquality(t, g.Ply(), 2)
	test.ExpectEquality(t, g.LastMove().String(), "e7e5")
	test.ExpectEquality(t, g.ColorAt(chess.E4), chess.White)
	test.ExpectEquality(t, g.ColorAt(chess.E2), chess.NoColor)

	_, err = g.Push("e4e5")
	test.ExpectSuccess(t, curated.Is(err, rules.IllegalMove))

	m, err := g.Pop()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, m, "e7e5")
	test.ExpectEquality(t, g.Turn(), chess.Black)

	m, err = g.Pop()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, m, "e2e4")
	test.ExpectEquality(t, g.FEN(), rules.StartingFEN)

	_, err = g.Pop()
	test.ExpectSuccess(t, curated.Is(err, rules.NoMoves))
}

func TestInvalidFEN(t *testing.T) {
	_, err := rules.NewGame("not a fen")
	test.ExpectSuccess(t, curated.Is(err, rules.InvalidFEN))
}

func TestCheckmate(t *testing.T) {
	g, err := rules.NewGame("")
	test.DemandSuccess(t, err)

	play(t, g, "f2f3", "e7e5", "g2g4", "d8h4")
	test.ExpectSuccess(t, g.Over())
	test.ExpectSuccess(t, g.InCheck())
	test.ExpectEquality(t, g.Outcome(), chess.BlackWon)
	test.ExpectEquality(t, g.Winner(), chess.Black)
	test.ExpectEquality(t, g.Reason(), "Checkmate")
	test.ExpectEquality(t, g.KingSquare(chess.White), chess.E1)

	// no more moves once the game is over
	_, err = g.Push("a2a3")
	test.ExpectSuccess(t, curated.Is(err, rules.GameIsOver))

	// taking back the mate reopens the game
	_, err = g.Pop()
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, g.Over())
}

func TestForfeitAndResign(t *testing.T) {
	g, err := rules.NewGame("")
	test.DemandSuccess(t, err)
	play(t, g, "e2e4")

	test.ExpectSuccess(t, g.Forfeit(chess.Black))
	test.ExpectEquality(t, g.Outcome(), chess.WhiteWon)
	test.ExpectEquality(t, g.Reason(), "Time forfeit")
	test.ExpectFailure(t, g.Resign(chess.White))

	// popping clears the forfeit
	_, err = g.Pop()
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, g.Over())

	test.ExpectSuccess(t, g.Resign(chess.White))
	test.ExpectEquality(t, g.Outcome(), chess.BlackWon)
	test.ExpectEquality(t, g.Reason(), "Resignation")
}

func TestCastleRights(t *testing.T) {
	g, err := rules.NewGame("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, g.CanCastle(chess.White))
	test.ExpectSuccess(t, g.Legal("e1g1"))
	test.ExpectSuccess(t, g.Legal("e1c1"))

	play(t, g, "e1f1")
	test.ExpectFailure(t, g.CanCastle(chess.White))
	test.ExpectSuccess(t, g.CanCastle(chess.Black))
}

func TestClaimDraw(t *testing.T) {
	g, err := rules.NewGame("")
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, len(g.ClaimableDraws()), 0)
	test.ExpectFailure(t, g.ClaimDraw())

	play(t, g, "g1f3", "g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8")
	test.ExpectEquality(t, len(g.ClaimableDraws()), 1)
	test.ExpectSuccess(t, g.ClaimDraw())
	test.ExpectEquality(t, g.Outcome(), chess.Draw)
	test.ExpectEquality(t, g.Reason(), "Threefold repetition")
}

func TestOccupancy(t *testing.T) {
	g, err := rules.NewGame("")
	test.DemandSuccess(t, err)
	play(t, g, "e2e4")

	v := g.Occupancy()
	test.ExpectEquality(t, v[chess.E4], occupancy.White)
	test.ExpectEquality(t, v[chess.E2], occupancy.Empty)
}

func TestPGN(t *testing.T) {
	g, err := rules.NewGame("")
	test.DemandSuccess(t, err)
	play(t, g, "f2f3", "e7e5", "g2g4", "d8h4")

	pgn := g.PGN(map[string]string{"White": "Human", "Black": "lc0"})
	test.ExpectSuccess(t, strings.Contains(pgn, `[White "Human"]`))
	test.ExpectSuccess(t, strings.Contains(pgn, `[Termination "Checkmate"]`))
	test.ExpectSuccess(t, strings.Contains(pgn, "0-1"))
}

func TestInCheckFromPosition(t *testing.T) {
	for _, c := range []struct {
		fen   string
		check bool
	}{
		{"4k3/8/8/8/8/8/8/4K2r w - - 0 1", true},
		{"4k3/8/8/8/8/8/8/4KB1r w - - 0 1", false},
		{"4k3/8/8/8/8/3n4/8/4K3 w - - 0 1", true},
		{"4k3/8/8/8/8/8/3p4/4K3 w - - 0 1", true},
		{"4k3/8/8/8/8/8/4p3/4K3 w - - 0 1", false},
		{"4k3/3P4/8/8/8/8/8/4K3 b - - 0 1", true},
		{"4k3/8/8/b7/8/8/8/4K3 w - - 0 1", true},
		{"4k3/8/8/b7/8/8/3P4/4K3 w - - 0 1", false},
	} {
		g, err := rules.NewGame(c.fen)
		test.DemandSuccess(t, err, c.fen)
		test.ExpectEquality(t, g.InCheck(), c.check, c.fen)
	}
}
