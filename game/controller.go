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

package game

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/notnil/chess"

	"github.com/chessboard/chessboard/clock"
	"github.com/chessboard/chessboard/curated"
	"github.com/chessboard/chessboard/engine"
	"github.com/chessboard/chessboard/events"
	"github.com/chessboard/chessboard/logger"
	"github.com/chessboard/chessboard/notifications"
	"github.com/chessboard/chessboard/occupancy"
	"github.com/chessboard/chessboard/rules"
	"github.com/chessboard/chessboard/scanner"
)

// Bus is the part of the event bus used by the controller.
type Bus interface {
	Publish(ev events.Event)
	Subscribe(kind events.Kind, h events.Handler) events.Subscription
	Unsubscribe(sub events.Subscription)
}

// Engine accepts requests for the engine worker.
type Engine interface {
	Submit(req engine.Request)
}

// Controller owns the canonical game. Must be created with NewController().
type Controller struct {
	bus       Bus
	clk       *clock.Clock
	eng       Engine
	prefs     *Preferences
	persister Persister

	subs []events.Subscription

	// every bus handler and every exported function takes the critical
	// section. the fields below must only be accessed inside it
	crit  sync.Mutex
	state State
	game  *rules.Game
	white events.Player
	black events.Player

	scanner scanner.Scanner

	// most recent reading from the sensor link
	occ     occupancy.Vector
	haveOcc bool

	// sequence number of the most recent engine request and of the
	// outstanding get-move request. zero if there is no outstanding request
	seq     uint64
	pending uint64

	// the position in which a draw was last announced
	drawNoticeFEN string

	// the most recent record given to the persister
	persisted []byte
}

// NewController is the preferred method of initialisation for the Controller
// type. The controller starts with a new game between two human players in
// the standard starting position. The persister may be nil. If prefs is nil
// the default preferences are used.
func NewController(bus Bus, clk *clock.Clock, eng Engine, prefs *Preferences, persister Persister) (*Controller, error) {
	if prefs == nil {
		prefs = &Preferences{}
		prefs.SetDefaults()
	}

	g, err := rules.NewGame("")
	if err != nil {
		return nil, err
	}

	c := &Controller{
		bus:       bus,
		clk:       clk,
		eng:       eng,
		prefs:     prefs,
		persister: persister,
		game:      g,
		white:     events.Player{Name: "White"},
		black:     events.Player{Name: "Black"},
	}

	err = c.clk.Configure(clock.UnlimitedControl, clock.UnlimitedControl)
	if err != nil {
		return nil, err
	}

	c.subscribe(events.KindOccupancyChanged, c.onOccupancy)
	c.subscribe(events.KindTimeButtonPressed, c.onTimeButton)
	c.subscribe(events.KindMoveProposed, c.onMoveProposed)
	c.subscribe(events.KindEngineMove, c.onEngineMove)
	c.subscribe(events.KindClockTimeout, c.onClockTimeout)
	c.subscribe(events.KindResignRequest, c.onResign)
	c.subscribe(events.KindRegretRequest, c.onRegret)
	c.subscribe(events.KindNewGameRequest, c.onNewGame)
	c.subscribe(events.KindPauseRequest, c.onPause)
	c.subscribe(events.KindStartRequest, c.onStart)
	c.subscribe(events.KindDrawClaimRequest, c.onDrawClaim)

	return c, nil
}

// wrap a handler in the critical section
func (c *Controller) subscribe(kind events.Kind, h events.Handler) {
	c.subs = append(c.subs, c.bus.Subscribe(kind, func(ctx context.Context, ev events.Event) error {
		c.crit.Lock()
		defer c.crit.Unlock()
		return h(ctx, ev)
	}))
}

// Close unsubscribes the controller from the bus.
func (c *Controller) Close() {
	for _, s := range c.subs {
		c.bus.Unsubscribe(s)
	}
	c.subs = nil
}

// State returns the current state of the controller.
func (c *Controller) State() State {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.state
}

// Snapshot returns the canonical game.
func (c *Controller) Snapshot() events.GameState {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() events.GameState {
	s := events.GameState{
		State:         c.state.String(),
		FEN:           c.game.FEN(),
		Turn:          c.game.Turn(),
		Moves:         c.game.Moves(),
		InCheck:       c.game.InCheck(),
		Outcome:       c.game.Outcome(),
		Reason:        c.game.Reason(),
		White:         c.white,
		Black:         c.black,
		DrawClaimable: len(c.game.ClaimableDraws()) > 0,
	}
	if m := c.game.LastMove(); m != nil {
		s.LastMove = m.String()
	}
	if c.game.Over() {
		s.Method = c.game.Method().String()
	}
	return s
}

// Record returns the persistent state of the controller.
func (c *Controller) Record() Record {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.record()
}

func (c *Controller) record() Record {
	r := Record{
		Version:  RecordVersion,
		State:    c.state,
		StartFEN: c.game.StartFEN(),
		Moves:    c.game.Moves(),
		White:    c.white,
		Black:    c.black,
		Clock:    c.clk.State(),
	}
	switch c.game.Reason() {
	case "Resignation", "Time forfeit":
		r.Reason = c.game.Reason()
		r.Loser = other(c.game.Winner())
	case "Threefold repetition", "Fifty moves":
		r.Reason = c.game.Reason()
	}
	return r
}

// Restore the controller from a record. A game that was in progress is
// restored in the Paused state.
func (c *Controller) Restore(r Record) error {
	c.crit.Lock()
	defer c.crit.Unlock()

	g, err := r.replay()
	if err != nil {
		return curated.Errorf(BadRecord, err)
	}

	err = c.clk.Restore(r.Clock)
	if err != nil {
		return curated.Errorf(BadRecord, err)
	}

	c.game = g
	c.white = r.White
	c.black = r.Black
	c.state = r.State
	if c.state == InProgress {
		c.state = Paused
	}
	c.invalidate()
	c.scanner.Reset()
	c.drawNoticeFEN = ""

	logger.Logf(logger.Allow, "game", "restored game after %d moves (%s)", len(r.Moves), c.state)

	c.changed()

	return nil
}

func other(side chess.Color) chess.Color {
	switch side {
	case chess.White:
		return chess.Black
	case chess.Black:
		return chess.White
	}
	return chess.NoColor
}

func (c *Controller) player(side chess.Color) events.Player {
	if side == chess.Black {
		return c.black
	}
	return c.white
}

// setState changes the state of the controller. the change must be allowed by
// Transition()
func (c *Controller) setState(to State) {
	if !Transition(c.state, to) {
		logger.Logf(logger.Allow, "game", "illegal state transition: %s -> %s", c.state, to)
		return
	}
	if c.state != to {
		logger.Logf(logger.Allow, "game", "%s -> %s", c.state, to)
	}
	c.state = to
}

// invalidate any outstanding engine request
func (c *Controller) invalidate() {
	c.seq++
	c.pending = 0
}

// changed publishes the canonical game and the highlights, and offers the
// state to the persister. called once at the end of every change
func (c *Controller) changed() {
	c.bus.Publish(c.snapshot())
	c.highlight()
	c.persist()
}

// highlight publishes highlights for the most recent sensor reading. if there
// has been no reading the board is assumed to match the canonical position
func (c *Controller) highlight() {
	occ := c.game.Occupancy()
	if c.haveOcc {
		occ = c.occ
	}
	r := scanner.Scan(c.game, occ)
	c.bus.Publish(events.Highlights{Squares: r.Highlights})
}

func (c *Controller) persist() {
	if c.persister == nil {
		return
	}

	r := c.record()
	b, err := r.key()
	if err != nil {
		logger.Log(logger.Allow, "game", err)
		return
	}
	if bytes.Equal(b, c.persisted) {
		return
	}

	err = c.persister.Persist(r)
	if err != nil {
		logger.Log(logger.Allow, "game", err)
		return
	}
	c.persisted = b
}

func (c *Controller) notify(n notifications.Notice, message string) {
	c.bus.Publish(events.PlayerNotify{
		Notice:  n,
		Title:   n.Title(),
		Message: message,
	})
}

// request work from the engine for the current position
func (c *Controller) request() {
	if c.state != InProgress || c.game.Over() || c.eng == nil {
		return
	}

	turn := c.game.Turn()
	p := c.player(turn)

	c.invalidate()

	if p.Engine {
		lo, hi := p.MinDepth, p.MaxDepth
		if lo <= 0 {
			lo = c.prefs.MinDepth.Get().(int)
		}
		if hi < lo {
			hi = max(lo, c.prefs.MaxDepth.Get().(int))
		}
		c.pending = c.seq
		c.eng.Submit(engine.Request{
			Kind:     engine.GetMove,
			Seq:      c.seq,
			Side:     turn,
			Weight:   p.Weight,
			FEN:      c.game.FEN(),
			MinDepth: lo,
			MaxDepth: hi,
		})
		return
	}

	if c.prefs.Analysis.Get().(bool) {
		c.eng.Submit(engine.Request{
			Kind:     engine.Analyze,
			Seq:      c.seq,
			FEN:      c.game.FEN(),
			MaxDepth: c.prefs.AnalysisDepth.Get().(int),
		})
	}
}

// apply a move to the canonical game. returns false if the move was not
// applied
func (c *Controller) apply(move string) bool {
	if c.state == Over {
		logger.Logf(logger.Allow, "game", "ignoring move %s: game is over", move)
		return false
	}

	// the move has been checked already by the scanner or the engine worker
	// but the position may have changed since
	if !c.game.Legal(move) {
		logger.Log(logger.Allow, "game", curated.Errorf(rules.IllegalMove, move))
		return false
	}

	mover := c.game.Turn()
	if _, err := c.game.Push(move); err != nil {
		logger.Log(logger.Allow, "game", err)
		return false
	}

	if c.state != InProgress {
		c.setState(InProgress)
		c.clk.Start()
	}
	c.clk.SetPlayer(c.game.Turn(), true)

	logger.Logf(logger.Allow, "game", "%s plays %s", mover.Name(), move)
	c.bus.Publish(events.MoveApplied{Move: move, Side: mover, FEN: c.game.FEN()})

	if c.game.Over() {
		c.finish()
		return true
	}

	c.request()
	c.changed()
	c.drawNotice()

	return true
}

// finish the game. the outcome must already be decided
func (c *Controller) finish() {
	c.clk.Stop()
	c.invalidate()
	c.setState(Over)
	c.changed()

	reason := c.game.Reason()
	var msg string
	switch c.game.Winner() {
	case chess.White:
		msg = fmt.Sprintf("%s (white) wins. %s", c.white.Name, reason)
	case chess.Black:
		msg = fmt.Sprintf("%s (black) wins. %s", c.black.Name, reason)
	default:
		msg = fmt.Sprintf("Draw. %s", reason)
	}
	logger.Logf(logger.Allow, "game", "game over: %s", msg)

	tags := map[string]string{
		"Event": "Chessboard game",
		"Date":  time.Now().Format("2006.01.02"),
		"White": c.white.Name,
		"Black": c.black.Name,
	}

	c.bus.Publish(events.GameOver{
		Outcome: c.game.Outcome(),
		Method:  c.game.Method().String(),
		Reason:  reason,
		White:   c.white,
		Black:   c.black,
		FEN:     c.game.FEN(),
		PGN:     c.game.PGN(tags),
	})
	c.notify(notifications.NotifyGameOver, msg)
}

// announce a claimable draw once per position
func (c *Controller) drawNotice() {
	d := c.game.ClaimableDraws()
	if len(d) == 0 {
		return
	}
	fen := c.game.FEN()
	if fen == c.drawNoticeFEN {
		return
	}
	c.drawNoticeFEN = fen
	c.notify(notifications.NotifyDrawAvailable, fmt.Sprintf("%s can be claimed", rules.MethodName(d[0])))
}

func (c *Controller) onOccupancy(_ context.Context, ev events.Event) error {
	e := ev.(events.OccupancyChanged)
	c.occ = e.Vector
	c.haveOcc = true

	r := c.scanner.Scan(c.game, c.occ)

	if r.Verdict == scanner.LegalMove && c.state != Over && !c.player(c.game.Turn()).Engine {
		if c.prefs.Autocommit.Get().(bool) {
			if c.apply(r.Move.String()) {
				return nil
			}
		}
	}

	c.bus.Publish(events.Highlights{Squares: r.Highlights})

	return nil
}

func (c *Controller) onTimeButton(_ context.Context, ev events.Event) error {
	e := ev.(events.TimeButtonPressed)

	if c.state == Over {
		return nil
	}
	if e.Side != c.game.Turn() {
		logger.Logf(logger.Allow, "game", "%s pressed the time button out of turn", e.Side.Name())
		return nil
	}
	if c.player(e.Side).Engine {
		logger.Logf(logger.Allow, "game", "time button pressed for the engine (%s)", e.Side.Name())
		return nil
	}

	occ := c.game.Occupancy()
	if c.haveOcc {
		occ = c.occ
	}
	r := scanner.Scan(c.game, occ)
	if r.Verdict != scanner.LegalMove {
		c.notify(notifications.NotifyNoMoveToClaim, "The board does not show a legal move")
		return nil
	}

	c.apply(r.Move.String())
	return nil
}

func (c *Controller) onMoveProposed(_ context.Context, ev events.Event) error {
	e := ev.(events.MoveProposed)
	if c.player(c.game.Turn()).Engine {
		return fmt.Errorf("move %s proposed for the engine", e.Move)
	}
	if !c.apply(e.Move) {
		return curated.Errorf(rules.IllegalMove, e.Move)
	}
	return nil
}

func (c *Controller) onEngineMove(_ context.Context, ev events.Event) error {
	e := ev.(events.EngineMove)

	if e.Seq == 0 || e.Seq != c.pending {
		logger.Logf(logger.Allow, "game", "ignoring stale engine result #%d", e.Seq)
		return nil
	}
	c.pending = 0

	if c.state != InProgress || e.Side != c.game.Turn() {
		return nil
	}

	if e.Resign {
		if err := c.game.Resign(e.Side); err != nil {
			return err
		}
		c.notify(notifications.NotifyEngineResigned, fmt.Sprintf("%s could not find a move", c.player(e.Side).Name))
		c.finish()
		return nil
	}

	if !c.apply(e.Move) {
		// the engine worker has already checked the move so this should not
		// happen. ask again rather than leave the game waiting
		c.request()
	}

	return nil
}

func (c *Controller) onClockTimeout(_ context.Context, ev events.Event) error {
	e := ev.(events.ClockTimeout)
	if c.state != InProgress {
		return nil
	}

	// a timeout queued before a regret can name the side that is no longer
	// to move
	if e.Side != c.game.Turn() {
		logger.Logf(logger.Allow, "game", "ignoring timeout for %s", e.Side.Name())
		return nil
	}

	if err := c.game.Forfeit(e.Side); err != nil {
		return err
	}
	c.finish()
	return nil
}

func (c *Controller) onResign(_ context.Context, ev events.Event) error {
	e := ev.(events.ResignRequest)
	if c.state == Over {
		return nil
	}

	side := e.Side
	if side == chess.NoColor {
		side = c.game.Turn()
	}

	if err := c.game.Resign(side); err != nil {
		return err
	}
	c.finish()
	return nil
}

func (c *Controller) onRegret(_ context.Context, _ events.Event) error {
	if c.game.Ply() == 0 {
		logger.Logf(logger.Allow, "game", "no moves to take back")
		return nil
	}

	wasOver := c.state == Over

	// take back the engine's reply as well as the human move before it
	for first := true; first || (c.player(c.game.Turn()).Engine && c.game.Ply() > 0); first = false {
		move, err := c.game.Pop()
		if err != nil {
			return err
		}
		c.clk.Regret()
		logger.Logf(logger.Allow, "game", "took back %s", move)
		c.bus.Publish(events.MoveRegretted{Move: move, FEN: c.game.FEN()})
	}

	c.invalidate()
	c.drawNoticeFEN = ""

	if wasOver {
		c.setState(InProgress)
		c.clk.Start()
	}

	c.notify(notifications.NotifyMoveRegretted, "")
	c.request()
	c.changed()

	return nil
}

func validatePlayer(p events.Player) error {
	if p.Time < 0 || p.Increment < 0 {
		return curated.Errorf(BadPlayer, fmt.Errorf("%s: negative time", p.Name))
	}
	if p.Engine && p.MaxDepth > 0 && p.MaxDepth < p.MinDepth {
		return curated.Errorf(BadPlayer, fmt.Errorf("%s: bad depth range %d-%d", p.Name, p.MinDepth, p.MaxDepth))
	}
	return nil
}

func control(p events.Player) clock.Control {
	if p.Time == 0 {
		return clock.Control{Allotment: clock.Unlimited, Increment: p.Increment}
	}
	return clock.Control{Allotment: p.Time, Increment: p.Increment}
}

func (c *Controller) onNewGame(_ context.Context, ev events.Event) error {
	e := ev.(events.NewGameRequest)

	if err := validatePlayer(e.White); err != nil {
		return err
	}
	if err := validatePlayer(e.Black); err != nil {
		return err
	}

	g, err := rules.NewGame(e.FEN)
	if err != nil {
		return err
	}

	err = c.clk.Configure(control(e.White), control(e.Black))
	if err != nil {
		return err
	}
	c.clk.SetPlayer(g.Turn(), false)

	c.game = g
	c.white = e.White
	c.black = e.Black
	if c.white.Name == "" {
		c.white.Name = "White"
	}
	if c.black.Name == "" {
		c.black.Name = "Black"
	}

	c.invalidate()
	c.scanner.Reset()
	c.drawNoticeFEN = ""
	c.setState(NotStarted)

	logger.Logf(logger.Allow, "game", "new game: %s v %s", c.white.Name, c.black.Name)

	c.changed()
	return nil
}

func (c *Controller) onPause(_ context.Context, _ events.Event) error {
	if c.state != InProgress {
		return nil
	}
	c.clk.Stop()
	c.invalidate()
	c.setState(Paused)
	c.changed()
	return nil
}

func (c *Controller) onStart(_ context.Context, _ events.Event) error {
	if c.state != NotStarted && c.state != Paused {
		return nil
	}
	c.setState(InProgress)
	c.clk.Start()
	c.request()
	c.changed()
	return nil
}

func (c *Controller) onDrawClaim(_ context.Context, _ events.Event) error {
	if c.state != InProgress && c.state != Paused {
		return nil
	}
	if err := c.game.ClaimDraw(); err != nil {
		return err
	}
	if c.state == Paused {
		c.setState(InProgress)
	}
	c.finish()
	return nil
}
