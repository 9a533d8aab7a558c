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

package game_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/notnil/chess"

	"github.com/chessboard/chessboard/clock"
	"github.com/chessboard/chessboard/engine"
	"github.com/chessboard/chessboard/events"
	"github.com/chessboard/chessboard/game"
	"github.com/chessboard/chessboard/notifications"
	"github.com/chessboard/chessboard/occupancy"
	"github.com/chessboard/chessboard/rules"
	"github.com/chessboard/chessboard/test"
)

type fakeEngine struct {
	crit sync.Mutex
	reqs []engine.Request
}

func (e *fakeEngine) Submit(req engine.Request) {
	e.crit.Lock()
	defer e.crit.Unlock()
	e.reqs = append(e.reqs, req)
}

func (e *fakeEngine) requests(kind engine.RequestKind) []engine.Request {
	e.crit.Lock()
	defer e.crit.Unlock()
	var r []engine.Request
	for _, req := range e.reqs {
		if req.Kind == kind {
			r = append(r, req)
		}
	}
	return r
}

type fakePersister struct {
	crit    sync.Mutex
	records []game.Record
}

func (p *fakePersister) Persist(r game.Record) error {
	p.crit.Lock()
	defer p.crit.Unlock()
	p.records = append(p.records, r)
	return nil
}

func (p *fakePersister) count() int {
	p.crit.Lock()
	defer p.crit.Unlock()
	return len(p.records)
}

func (p *fakePersister) last() game.Record {
	p.crit.Lock()
	defer p.crit.Unlock()
	return p.records[len(p.records)-1]
}

type harness struct {
	t    *testing.T
	bus  *events.Bus
	clk  *clock.Clock
	eng  *fakeEngine
	pers *fakePersister
	ctl  *game.Controller

	crit sync.Mutex
	evs  []events.Event
}

func newHarness(t *testing.T, prefs *game.Preferences) *harness {
	t.Helper()

	h := &harness{
		t:    t,
		bus:  events.NewBus(),
		eng:  &fakeEngine{},
		pers: &fakePersister{},
	}
	h.bus.SubscribeAll(func(_ context.Context, ev events.Event) error {
		h.crit.Lock()
		defer h.crit.Unlock()
		h.evs = append(h.evs, ev)
		return nil
	})
	h.clk = clock.NewClock(h.bus)

	var err error
	h.ctl, err = game.NewController(h.bus, h.clk, h.eng, prefs, h.pers)
	test.DemandSuccess(t, err)

	t.Cleanup(func() {
		h.ctl.Close()
		h.clk.Close()
		_ = h.bus.Stop()
	})

	return h
}

func noAnalysis() *game.Preferences {
	p := &game.Preferences{}
	p.SetDefaults()
	_ = p.Analysis.Set(false)
	return p
}

// publish the event and wait for it and every event published in response to
// it to be dispatched
func (h *harness) publish(ev events.Event) {
	h.t.Helper()
	test.DemandSuccess(h.t, h.bus.PublishAndWait(context.Background(), "test", ev, time.Second))
	test.DemandSuccess(h.t, h.bus.PublishAndWait(context.Background(), "test", events.Shutdown{}, time.Second))
}

func (h *harness) mark() int {
	h.crit.Lock()
	defer h.crit.Unlock()
	return len(h.evs)
}

// events of the kind published since the mark
func (h *harness) since(mark int, kind events.Kind) []events.Event {
	h.crit.Lock()
	defer h.crit.Unlock()
	var r []events.Event
	for _, ev := range h.evs[mark:] {
		if ev.Kind() == kind {
			r = append(r, ev)
		}
	}
	return r
}

func (h *harness) notices(mark int, n notifications.Notice) int {
	var c int
	for _, ev := range h.since(mark, events.KindPlayerNotify) {
		if ev.(events.PlayerNotify).Notice == n {
			c++
		}
	}
	return c
}

// board returns the occupancy of the board after the moves
func board(t *testing.T, moves ...string) occupancy.Vector {
	t.Helper()
	g, err := rules.NewGame("")
	test.DemandSuccess(t, err)
	for _, m := range moves {
		_, err := g.Push(m)
		test.DemandSuccess(t, err, m)
	}
	return g.Occupancy()
}

func (h *harness) propose(moves ...string) {
	for _, m := range moves {
		h.publish(events.MoveProposed{Move: m})
	}
}

func TestNewGame(t *testing.T) {
	h := newHarness(t, noAnalysis())

	h.publish(events.NewGameRequest{
		White: events.Player{Name: "Ann", Time: 5 * time.Minute},
		Black: events.Player{Name: "Bob", Engine: true, MinDepth: 2, MaxDepth: 4},
	})

	s := h.ctl.Snapshot()
	test.ExpectEquality(t, s.State, "NotStarted")
	test.ExpectEquality(t, s.White.Name, "Ann")
	test.ExpectEquality(t, s.Black.Name, "Bob")
	test.ExpectEquality(t, s.Turn, chess.White)
	test.ExpectEquality(t, len(s.Moves), 0)
	test.ExpectEquality(t, h.clk.TimeLeft(chess.White), 5*time.Minute)
	test.ExpectEquality(t, h.clk.TimeLeft(chess.Black), clock.Unlimited)

	ev, ok := h.bus.Last(events.KindGameState)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, ev.(events.GameState).White.Name, "Ann")

	// bad requests leave the game unchanged
	h.publish(events.NewGameRequest{FEN: "not a position"})
	h.publish(events.NewGameRequest{White: events.Player{Time: -time.Second}})
	test.ExpectEquality(t, h.ctl.Snapshot().White.Name, "Ann")
}

func TestBoardMove(t *testing.T) {
	h := newHarness(t, nil)

	m := h.mark()
	h.publish(events.OccupancyChanged{Vector: board(t, "e2e4")})

	s := h.ctl.Snapshot()
	test.ExpectEquality(t, s.State, "InProgress")
	test.DemandEquality(t, len(s.Moves), 1)
	test.ExpectEquality(t, s.Moves[0], "e2e4")
	test.ExpectEquality(t, s.LastMove, "e2e4")
	test.ExpectEquality(t, h.clk.Current(), chess.Black)
	test.ExpectSuccess(t, h.clk.Running())

	test.ExpectEquality(t, len(h.since(m, events.KindGameState)), 1)
	test.ExpectEquality(t, len(h.since(m, events.KindMoveApplied)), 1)
	test.ExpectSuccess(t, len(h.since(m, events.KindHighlights)) >= 1)

	// analysis is requested for the human player to move
	a := h.eng.requests(engine.Analyze)
	test.DemandEquality(t, len(a), 1)
	test.ExpectEquality(t, a[0].FEN, s.FEN)

	// black's reply
	h.publish(events.OccupancyChanged{Vector: board(t, "e2e4", "d7d5")})
	test.ExpectEquality(t, len(h.ctl.Snapshot().Moves), 2)

	// a piece lifted but not placed is not a move
	v := board(t, "e2e4", "d7d5")
	v[chess.G1] = occupancy.Empty
	h.publish(events.OccupancyChanged{Vector: v})
	test.ExpectEquality(t, len(h.ctl.Snapshot().Moves), 2)
}

func TestEngineReply(t *testing.T) {
	h := newHarness(t, noAnalysis())
	h.publish(events.NewGameRequest{
		White: events.Player{Name: "Ann"},
		Black: events.Player{Name: "Bob", Engine: true, MinDepth: 2, MaxDepth: 4},
	})

	h.publish(events.OccupancyChanged{Vector: board(t, "e2e4")})

	reqs := h.eng.requests(engine.GetMove)
	test.DemandEquality(t, len(reqs), 1)
	req := reqs[0]
	test.ExpectEquality(t, req.Side, chess.Black)
	test.ExpectEquality(t, req.MinDepth, 2)
	test.ExpectEquality(t, req.MaxDepth, 4)
	test.ExpectEquality(t, req.FEN, h.ctl.Snapshot().FEN)

	// stale result
	h.publish(events.EngineMove{Seq: req.Seq + 100, Side: chess.Black, Move: "e7e5"})
	test.ExpectEquality(t, len(h.ctl.Snapshot().Moves), 1)

	// the engine's side cannot be moved by hand
	h.publish(events.MoveProposed{Move: "e7e5"})
	test.ExpectEquality(t, len(h.ctl.Snapshot().Moves), 1)

	h.publish(events.EngineMove{Seq: req.Seq, Side: chess.Black, Move: "e7e5"})
	s := h.ctl.Snapshot()
	test.DemandEquality(t, len(s.Moves), 2)
	test.ExpectEquality(t, s.Moves[1], "e7e5")
	test.ExpectEquality(t, s.Turn, chess.White)

	// the same result again is ignored
	h.publish(events.EngineMove{Seq: req.Seq, Side: chess.Black, Move: "d7d5"})
	test.ExpectEquality(t, len(h.ctl.Snapshot().Moves), 2)
}

func TestRegretEngineReply(t *testing.T) {
	h := newHarness(t, noAnalysis())
	ctl := events.Player{Time: 5 * time.Minute, Increment: 2 * time.Second}
	white := ctl
	white.Name = "Ann"
	black := ctl
	black.Name = "Bob"
	black.Engine = true
	h.publish(events.NewGameRequest{White: white, Black: black})

	h.publish(events.MoveProposed{Move: "e2e4"})
	req := h.eng.requests(engine.GetMove)[0]
	h.publish(events.EngineMove{Seq: req.Seq, Side: chess.Black, Move: "e7e5"})
	test.DemandEquality(t, len(h.ctl.Snapshot().Moves), 2)

	m := h.mark()
	h.publish(events.RegretRequest{})

	s := h.ctl.Snapshot()
	test.ExpectEquality(t, len(s.Moves), 0)
	test.ExpectEquality(t, s.Turn, chess.White)
	test.ExpectEquality(t, s.State, "InProgress")
	test.ExpectEquality(t, len(h.since(m, events.KindMoveRegretted)), 2)
	test.ExpectEquality(t, len(h.since(m, events.KindGameState)), 1)

	test.ExpectEquality(t, h.clk.Current(), chess.White)
	test.ExpectSuccess(t, h.clk.Running())
	test.ExpectApproximate(t, h.clk.TimeLeft(chess.White).Seconds(), 300.0, 0.01)
	test.ExpectApproximate(t, h.clk.TimeLeft(chess.Black).Seconds(), 300.0, 0.01)

	// white is human so the engine is not asked for a move
	test.ExpectEquality(t, len(h.eng.requests(engine.GetMove)), 1)

	// nothing to take back
	m = h.mark()
	h.publish(events.RegretRequest{})
	test.ExpectEquality(t, len(h.since(m, events.KindGameState)), 0)
}

func TestRegretWhilePaused(t *testing.T) {
	h := newHarness(t, noAnalysis())
	h.publish(events.NewGameRequest{
		White: events.Player{Time: time.Minute},
		Black: events.Player{Time: time.Minute},
	})
	h.propose("e2e4", "e7e5")

	h.publish(events.PauseRequest{})
	test.DemandEquality(t, h.ctl.State(), game.Paused)

	h.publish(events.RegretRequest{})
	test.ExpectEquality(t, h.ctl.State(), game.Paused)
	test.ExpectEquality(t, len(h.ctl.Snapshot().Moves), 1)
	test.ExpectEquality(t, h.clk.Current(), chess.Black)
	test.ExpectFailure(t, h.clk.Running())
}

func TestRegretTimeForfeit(t *testing.T) {
	h := newHarness(t, noAnalysis())
	h.publish(events.NewGameRequest{
		White: events.Player{Time: 300 * time.Millisecond},
		Black: events.Player{Time: time.Minute},
	})
	h.propose("e2e4", "e7e5")

	deadline := time.Now().Add(5 * time.Second)
	for h.ctl.State() != game.Over {
		if time.Now().After(deadline) {
			t.Fatalf("game did not end")
		}
		time.Sleep(10 * time.Millisecond)
	}
	test.DemandEquality(t, h.ctl.Snapshot().Reason, "Time forfeit")

	m := h.mark()
	h.publish(events.RegretRequest{})
	test.ExpectEquality(t, h.ctl.State(), game.InProgress)
	test.ExpectEquality(t, h.clk.Current(), chess.Black)
	test.ExpectSuccess(t, h.clk.Running())

	// white is out of time but it is black's move
	time.Sleep(200 * time.Millisecond)
	h.publish(events.Shutdown{})
	test.ExpectEquality(t, h.ctl.State(), game.InProgress)
	test.ExpectEquality(t, h.ctl.Snapshot().Turn, chess.Black)
	test.ExpectEquality(t, len(h.since(m, events.KindClockTimeout)), 0)
}

func TestStaleTimeout(t *testing.T) {
	h := newHarness(t, noAnalysis())
	h.publish(events.NewGameRequest{
		White: events.Player{Time: time.Minute},
		Black: events.Player{Time: time.Minute},
	})
	h.propose("e2e4")

	// black is to move so a timeout for white is ignored
	h.publish(events.ClockTimeout{Side: chess.White})
	test.ExpectEquality(t, h.ctl.State(), game.InProgress)

	h.publish(events.ClockTimeout{Side: chess.Black})
	s := h.ctl.Snapshot()
	test.ExpectEquality(t, s.State, "Over")
	test.ExpectEquality(t, s.Outcome, chess.WhiteWon)
}

func TestRegretWhileEngineThinking(t *testing.T) {
	h := newHarness(t, noAnalysis())
	h.publish(events.NewGameRequest{Black: events.Player{Engine: true}})

	h.publish(events.MoveProposed{Move: "e2e4"})
	req := h.eng.requests(engine.GetMove)[0]

	h.publish(events.RegretRequest{})
	test.ExpectEquality(t, len(h.ctl.Snapshot().Moves), 0)

	// the engine's answer arrives too late
	h.publish(events.EngineMove{Seq: req.Seq, Side: chess.Black, Move: "e7e5"})
	test.ExpectEquality(t, len(h.ctl.Snapshot().Moves), 0)
}

func TestAutocommitOff(t *testing.T) {
	prefs := noAnalysis()
	_ = prefs.Autocommit.Set(false)
	h := newHarness(t, prefs)

	m := h.mark()
	h.publish(events.OccupancyChanged{Vector: board(t, "e2e4")})
	test.ExpectEquality(t, len(h.ctl.Snapshot().Moves), 0)
	test.ExpectEquality(t, len(h.since(m, events.KindHighlights)), 1)

	// wrong side
	h.publish(events.TimeButtonPressed{Side: chess.Black})
	test.ExpectEquality(t, len(h.ctl.Snapshot().Moves), 0)

	h.publish(events.TimeButtonPressed{Side: chess.White})
	test.ExpectEquality(t, len(h.ctl.Snapshot().Moves), 1)

	// black has not moved yet
	m = h.mark()
	h.publish(events.TimeButtonPressed{Side: chess.Black})
	test.ExpectEquality(t, len(h.ctl.Snapshot().Moves), 1)
	test.ExpectEquality(t, h.notices(m, notifications.NotifyNoMoveToClaim), 1)
}

func TestIllegalProposal(t *testing.T) {
	h := newHarness(t, noAnalysis())
	h.publish(events.MoveProposed{Move: "e2e5"})
	s := h.ctl.Snapshot()
	test.ExpectEquality(t, len(s.Moves), 0)
	test.ExpectEquality(t, s.State, "NotStarted")
}

func TestCheckmate(t *testing.T) {
	h := newHarness(t, noAnalysis())

	m := h.mark()
	h.propose("f2f3", "e7e5", "g2g4", "d8h4")

	s := h.ctl.Snapshot()
	test.ExpectEquality(t, s.State, "Over")
	test.ExpectEquality(t, s.Outcome, chess.BlackWon)
	test.ExpectEquality(t, s.Reason, "Checkmate")
	test.ExpectSuccess(t, s.InCheck)
	test.ExpectFailure(t, h.clk.Running())

	over := h.since(m, events.KindGameOver)
	test.DemandEquality(t, len(over), 1)
	g := over[0].(events.GameOver)
	test.ExpectEquality(t, g.Reason, "Checkmate")
	test.ExpectInequality(t, g.PGN, "")
	test.ExpectEquality(t, h.notices(m, notifications.NotifyGameOver), 1)

	// no more moves
	h.propose("a2a3")
	test.ExpectEquality(t, len(h.ctl.Snapshot().Moves), 4)

	// taking back the move is the way out of the Over state
	h.publish(events.RegretRequest{})
	s = h.ctl.Snapshot()
	test.ExpectEquality(t, s.State, "InProgress")
	test.ExpectEquality(t, len(s.Moves), 3)
	test.ExpectEquality(t, s.Outcome, chess.NoOutcome)
	test.ExpectSuccess(t, h.clk.Running())
}

func TestResign(t *testing.T) {
	h := newHarness(t, noAnalysis())
	h.propose("e2e4")

	m := h.mark()
	h.publish(events.ResignRequest{Side: chess.White})
	s := h.ctl.Snapshot()
	test.ExpectEquality(t, s.State, "Over")
	test.ExpectEquality(t, s.Outcome, chess.BlackWon)
	test.ExpectEquality(t, s.Reason, "Resignation")
	test.ExpectEquality(t, len(h.since(m, events.KindGameOver)), 1)

	// resigning again does nothing
	m = h.mark()
	h.publish(events.ResignRequest{Side: chess.Black})
	test.ExpectEquality(t, len(h.since(m, events.KindGameOver)), 0)
}

func TestEngineResigns(t *testing.T) {
	h := newHarness(t, noAnalysis())
	h.publish(events.NewGameRequest{White: events.Player{Engine: true}})
	h.publish(events.StartRequest{})

	reqs := h.eng.requests(engine.GetMove)
	test.DemandEquality(t, len(reqs), 1)
	test.ExpectEquality(t, reqs[0].Side, chess.White)

	// depth range from the preferences
	test.ExpectEquality(t, reqs[0].MinDepth, 2)
	test.ExpectEquality(t, reqs[0].MaxDepth, 4)

	m := h.mark()
	h.publish(events.EngineMove{Seq: reqs[0].Seq, Side: chess.White, Resign: true})
	s := h.ctl.Snapshot()
	test.ExpectEquality(t, s.State, "Over")
	test.ExpectEquality(t, s.Outcome, chess.BlackWon)
	test.ExpectEquality(t, h.notices(m, notifications.NotifyEngineResigned), 1)
	test.ExpectEquality(t, h.notices(m, notifications.NotifyGameOver), 1)
}

func TestTimeout(t *testing.T) {
	h := newHarness(t, noAnalysis())
	h.publish(events.NewGameRequest{White: events.Player{Time: 50 * time.Millisecond}})
	h.publish(events.StartRequest{})

	deadline := time.Now().Add(5 * time.Second)
	for h.ctl.State() != game.Over {
		if time.Now().After(deadline) {
			t.Fatalf("game did not end")
		}
		time.Sleep(10 * time.Millisecond)
	}

	s := h.ctl.Snapshot()
	test.ExpectEquality(t, s.Reason, "Time forfeit")
	test.ExpectEquality(t, s.Outcome, chess.BlackWon)
}

func TestPauseAndStart(t *testing.T) {
	h := newHarness(t, noAnalysis())

	// pause does nothing before the game has started
	h.publish(events.PauseRequest{})
	test.ExpectEquality(t, h.ctl.State(), game.NotStarted)

	h.propose("e2e4")
	test.ExpectEquality(t, h.ctl.State(), game.InProgress)

	h.publish(events.PauseRequest{})
	test.ExpectEquality(t, h.ctl.State(), game.Paused)
	test.ExpectFailure(t, h.clk.Running())
	test.ExpectEquality(t, len(h.ctl.Snapshot().Moves), 1)

	h.publish(events.StartRequest{})
	test.ExpectEquality(t, h.ctl.State(), game.InProgress)
	test.ExpectSuccess(t, h.clk.Running())
	test.ExpectEquality(t, h.clk.Current(), chess.Black)

	// a move while paused resumes the game
	h.publish(events.PauseRequest{})
	h.propose("e7e5")
	test.ExpectEquality(t, h.ctl.State(), game.InProgress)
	test.ExpectEquality(t, h.clk.Current(), chess.White)
	test.ExpectSuccess(t, h.clk.Running())
}

func TestDrawClaim(t *testing.T) {
	h := newHarness(t, noAnalysis())

	// claiming without a draw does nothing
	h.propose("g1f3")
	h.publish(events.DrawClaimRequest{})
	test.ExpectEquality(t, h.ctl.State(), game.InProgress)

	m := h.mark()
	h.propose("g8f6", "f3g1", "f6g8", "g1f3", "g8f6", "f3g1", "f6g8")
	test.ExpectSuccess(t, h.ctl.Snapshot().DrawClaimable)
	test.ExpectEquality(t, h.notices(m, notifications.NotifyDrawAvailable), 1)

	h.publish(events.DrawClaimRequest{})
	s := h.ctl.Snapshot()
	test.ExpectEquality(t, s.State, "Over")
	test.ExpectEquality(t, s.Outcome, chess.Draw)
	test.ExpectEquality(t, s.Reason, "Threefold repetition")
}

func TestPersistence(t *testing.T) {
	h := newHarness(t, noAnalysis())
	h.publish(events.NewGameRequest{
		White: events.Player{Name: "Ann", Time: time.Minute},
		Black: events.Player{Name: "Bob", Time: time.Minute},
	})
	h.propose("e2e4", "e7e5")
	h.publish(events.ResignRequest{Side: chess.Black})

	rec := h.pers.last()
	test.ExpectEquality(t, rec.Version, game.RecordVersion)
	test.ExpectEquality(t, rec.State, game.Over)
	test.DemandEquality(t, len(rec.Moves), 2)
	test.ExpectEquality(t, rec.Reason, "Resignation")
	test.ExpectEquality(t, rec.Loser, chess.Black)

	// restore into a second controller
	h2 := newHarness(t, noAnalysis())
	test.DemandSuccess(t, h2.ctl.Restore(rec))
	s := h2.ctl.Snapshot()
	test.ExpectEquality(t, s.State, "Over")
	test.ExpectEquality(t, s.White.Name, "Ann")
	test.ExpectEquality(t, s.Outcome, chess.WhiteWon)
	test.ExpectEquality(t, len(s.Moves), 2)

	// identical state is not written twice
	n := h2.pers.count()
	test.DemandSuccess(t, h2.ctl.Restore(rec))
	test.ExpectEquality(t, h2.pers.count(), n)

	// a game in progress is restored paused
	h.publish(events.RegretRequest{})
	rec = h.ctl.Record()
	test.ExpectEquality(t, rec.State, game.InProgress)
	test.DemandSuccess(t, h2.ctl.Restore(rec))
	test.ExpectEquality(t, h2.ctl.State(), game.Paused)
	test.ExpectFailure(t, h2.clk.Running())

	rec.Version = 0
	test.ExpectFailure(t, h2.ctl.Restore(rec))
}

func TestTransition(t *testing.T) {
	test.ExpectSuccess(t, game.Transition(game.NotStarted, game.InProgress))
	test.ExpectSuccess(t, game.Transition(game.InProgress, game.Paused))
	test.ExpectSuccess(t, game.Transition(game.Paused, game.InProgress))
	test.ExpectSuccess(t, game.Transition(game.InProgress, game.Over))
	test.ExpectSuccess(t, game.Transition(game.Over, game.InProgress))
	test.ExpectSuccess(t, game.Transition(game.Over, game.NotStarted))
	test.ExpectFailure(t, game.Transition(game.NotStarted, game.Over))
	test.ExpectFailure(t, game.Transition(game.Over, game.Paused))
	test.ExpectFailure(t, game.Transition(game.Paused, game.Over))

	for _, s := range []game.State{game.NotStarted, game.InProgress, game.Paused, game.Over} {
		b, err := s.MarshalText()
		test.ExpectSuccess(t, err)
		var u game.State
		test.ExpectSuccess(t, u.UnmarshalText(b))
		test.ExpectEquality(t, u, s)
	}
}
