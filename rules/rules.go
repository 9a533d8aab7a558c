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

package rules

import (
	"strings"

	"github.com/notnil/chess"

	"github.com/chessboard/chessboard/curated"
	"github.com/chessboard/chessboard/occupancy"
)

// Sentinal errors.
const (
	IllegalMove = "rules: illegal move: %s"
	InvalidFEN  = "rules: invalid fen: %v"
	NoMoves     = "rules: no moves to take back"
	GameIsOver  = "rules: game is over"
	NoDraw      = "rules: no draw can be claimed"
)

// StartingFEN is the standard starting position.
const StartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// termination is for outcomes decided outside of the chess package.
type termination int

const (
	noTermination termination = iota
	timeForfeit
)

// Game is a chess game with a move history that can be taken back.
type Game struct {
	start string
	game  *chess.Game
	moves []string

	term termination
}

// NewGame creates a game from the FEN string. An empty string is the standard
// starting position.
func NewGame(fen string) (*Game, error) {
	if fen == "" {
		fen = StartingFEN
	}

	g := &Game{start: fen}
	if err := g.reset(); err != nil {
		return nil, err
	}

	return g, nil
}

func (g *Game) reset() error {
	opt, err := chess.FEN(g.start)
	if err != nil {
		return curated.Errorf(InvalidFEN, err)
	}
	g.game = chess.NewGame(opt)
	g.term = noTermination
	return nil
}

// Turn returns the side to move.
func (g *Game) Turn() chess.Color {
	return g.game.Position().Turn()
}

// ValidMoves returns the legal moves in the current position.
func (g *Game) ValidMoves() []*chess.Move {
	return g.game.ValidMoves()
}

// ColorAt returns the colour of the piece on the square or chess.NoColor if
// the square is empty.
func (g *Game) ColorAt(sq chess.Square) chess.Color {
	return g.game.Position().Board().Piece(sq).Color()
}

// PieceAt returns the piece on the square.
func (g *Game) PieceAt(sq chess.Square) chess.Piece {
	return g.game.Position().Board().Piece(sq)
}

// CanCastle returns true if the side has castling rights on either side of the
// board. It says nothing about whether castling is legal right now.
func (g *Game) CanCastle(c chess.Color) bool {
	cr := g.game.Position().CastleRights()
	return cr.CanCastle(c, chess.KingSide) || cr.CanCastle(c, chess.QueenSide)
}

// Over returns true if the game has an outcome.
func (g *Game) Over() bool {
	return g.Outcome() != chess.NoOutcome
}

// LastMove returns the most recent move or nil if there have been no moves.
func (g *Game) LastMove() *chess.Move {
	m := g.game.Moves()
	if len(m) == 0 {
		return nil
	}
	return m[len(m)-1]
}

// InCheck returns true if the side to move is in check. It is decided by the
// position so a game started from a position with the king in check is
// reported correctly.
func (g *Game) InCheck() bool {
	turn := g.Turn()
	k := g.KingSquare(turn)
	if k == chess.NoSquare {
		return false
	}
	return attacked(g.game.Position().Board(), k, turn.Other())
}

var (
	knightSteps = [][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps   = [][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	straightRay = [][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	diagonalRay = [][2]int{{1, 1}, {-1, 1}, {-1, -1}, {1, -1}}
)

// piece at file/rank or chess.NoPiece if off the board
func pieceAt(b *chess.Board, f int, r int) chess.Piece {
	if f < 0 || f > 7 || r < 0 || r > 7 {
		return chess.NoPiece
	}
	return b.Piece(chess.Square(r*8 + f))
}

// attacked returns true if any piece of colour by attacks the square
func attacked(b *chess.Board, sq chess.Square, by chess.Color) bool {
	f, r := int(sq.File()), int(sq.Rank())

	is := func(p chess.Piece, types ...chess.PieceType) bool {
		if p == chess.NoPiece || p.Color() != by {
			return false
		}
		for _, t := range types {
			if p.Type() == t {
				return true
			}
		}
		return false
	}

	for _, s := range knightSteps {
		if is(pieceAt(b, f+s[0], r+s[1]), chess.Knight) {
			return true
		}
	}
	for _, s := range kingSteps {
		if is(pieceAt(b, f+s[0], r+s[1]), chess.King) {
			return true
		}
	}

	// pawns attack towards the opposing side
	pr := r - 1
	if by == chess.Black {
		pr = r + 1
	}
	if is(pieceAt(b, f-1, pr), chess.Pawn) || is(pieceAt(b, f+1, pr), chess.Pawn) {
		return true
	}

	ray := func(dirs [][2]int, types ...chess.PieceType) bool {
		for _, d := range dirs {
			for i := 1; i < 8; i++ {
				nf, nr := f+d[0]*i, r+d[1]*i
				if nf < 0 || nf > 7 || nr < 0 || nr > 7 {
					break
				}
				p := pieceAt(b, nf, nr)
				if p == chess.NoPiece {
					continue
				}
				if is(p, types...) {
					return true
				}
				break
			}
		}
		return false
	}

	return ray(straightRay, chess.Rook, chess.Queen) || ray(diagonalRay, chess.Bishop, chess.Queen)
}

// KingSquare returns the square of the king of the given colour or
// chess.NoSquare if there is no such king.
func (g *Game) KingSquare(c chess.Color) chess.Square {
	for sq, pc := range g.game.Position().Board().SquareMap() {
		if pc.Type() == chess.King && pc.Color() == c {
			return sq
		}
	}
	return chess.NoSquare
}

// Find returns the legal move matching the UCI string. Returns nil if there is
// no such move.
func (g *Game) Find(uci string) *chess.Move {
	uci = strings.ToLower(strings.TrimSpace(uci))
	for _, m := range g.game.ValidMoves() {
		if m.String() == uci {
			return m
		}
	}
	return nil
}

// Legal returns true if the UCI move is legal in the current position.
func (g *Game) Legal(uci string) bool {
	return !g.Over() && g.Find(uci) != nil
}

// Push plays the move. The move must be legal and the game must not be over.
func (g *Game) Push(uci string) (*chess.Move, error) {
	if g.Over() {
		return nil, curated.Errorf(GameIsOver)
	}

	m := g.Find(uci)
	if m == nil {
		return nil, curated.Errorf(IllegalMove, uci)
	}

	if err := g.game.Move(m); err != nil {
		return nil, curated.Errorf(IllegalMove, err)
	}
	g.moves = append(g.moves, m.String())

	return m, nil
}

// Pop takes back the most recent move and returns it. Any outcome, including
// resignation and time forfeit, is cleared.
func (g *Game) Pop() (string, error) {
	if len(g.moves) == 0 {
		return "", curated.Errorf(NoMoves)
	}

	popped := g.moves[len(g.moves)-1]
	remaining := g.moves[:len(g.moves)-1]

	if err := g.replay(remaining); err != nil {
		return "", err
	}

	return popped, nil
}

// replay rebuilds the game from the starting position.
func (g *Game) replay(moves []string) error {
	if err := g.reset(); err != nil {
		return err
	}
	g.moves = g.moves[:0]

	for _, uci := range moves {
		m := g.Find(uci)
		if m == nil {
			return curated.Errorf(IllegalMove, uci)
		}
		if err := g.game.Move(m); err != nil {
			return curated.Errorf(IllegalMove, err)
		}
		g.moves = append(g.moves, uci)
	}

	return nil
}

// Moves returns a copy of the move history.
func (g *Game) Moves() []string {
	return append([]string{}, g.moves...)
}

// Ply returns the number of moves played.
func (g *Game) Ply() int {
	return len(g.moves)
}

// FEN returns the current position.
func (g *Game) FEN() string {
	return g.game.Position().String()
}

// StartFEN returns the position the game started from.
func (g *Game) StartFEN() string {
	return g.start
}

// Occupancy returns the occupancy vector for the current position.
func (g *Game) Occupancy() occupancy.Vector {
	return occupancy.FromBoard(g.game.Position().Board())
}

// Resign ends the game with a win for the other side.
func (g *Game) Resign(c chess.Color) error {
	if g.Over() {
		return curated.Errorf(GameIsOver)
	}
	g.game.Resign(c)
	return nil
}

// Forfeit ends the game because the side has run out of time.
func (g *Game) Forfeit(c chess.Color) error {
	if g.Over() {
		return curated.Errorf(GameIsOver)
	}
	g.game.Resign(c)
	g.term = timeForfeit
	return nil
}

// ClaimableDraws lists the draws that the side to move could claim.
func (g *Game) ClaimableDraws() []chess.Method {
	if g.Over() {
		return nil
	}
	var d []chess.Method
	for _, m := range g.game.EligibleDraws() {
		if m == chess.ThreefoldRepetition || m == chess.FiftyMoveRule {
			d = append(d, m)
		}
	}
	return d
}

// ClaimDraw ends the game as a draw if one can be claimed.
func (g *Game) ClaimDraw() error {
	d := g.ClaimableDraws()
	if len(d) == 0 {
		return curated.Errorf(NoDraw)
	}
	if err := g.game.Draw(d[0]); err != nil {
		return curated.Errorf(NoDraw)
	}
	return nil
}

// Outcome of the game. chess.NoOutcome if the game is still in progress.
func (g *Game) Outcome() chess.Outcome {
	return g.game.Outcome()
}

// Method returns the method by which the game ended. A time forfeit is
// reported as chess.Resignation. See Reason().
func (g *Game) Method() chess.Method {
	return g.game.Method()
}

// Winner returns the winning side or chess.NoColor for a draw or a game in
// progress.
func (g *Game) Winner() chess.Color {
	switch g.Outcome() {
	case chess.WhiteWon:
		return chess.White
	case chess.BlackWon:
		return chess.Black
	}
	return chess.NoColor
}

// Reason returns a human readable reason for the outcome. The empty string if
// the game is in progress.
func (g *Game) Reason() string {
	if !g.Over() {
		return ""
	}
	if g.term == timeForfeit {
		return "Time forfeit"
	}
	return MethodName(g.game.Method())
}

// MethodName returns a human readable name for the method.
func MethodName(m chess.Method) string {
	switch m {
	case chess.Checkmate:
		return "Checkmate"
	case chess.Resignation:
		return "Resignation"
	case chess.DrawOffer:
		return "Draw agreed"
	case chess.Stalemate:
		return "Stalemate"
	case chess.ThreefoldRepetition:
		return "Threefold repetition"
	case chess.FivefoldRepetition:
		return "Fivefold repetition"
	case chess.FiftyMoveRule:
		return "Fifty moves"
	case chess.SeventyFiveMoveRule:
		return "Seventy-five moves"
	case chess.InsufficientMaterial:
		return "Insufficient material"
	}
	return ""
}

// PGN returns the game in PGN format. The tags are added to the header.
func (g *Game) PGN(tags map[string]string) string {
	for k, v := range tags {
		g.game.AddTagPair(k, v)
	}
	if g.start != StartingFEN {
		g.game.AddTagPair("FEN", g.start)
		g.game.AddTagPair("SetUp", "1")
	}
	if r := g.Reason(); r != "" {
		g.game.AddTagPair("Termination", r)
	}
	return g.game.String()
}
