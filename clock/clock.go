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

package clock

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/notnil/chess"

	"github.com/chessboard/chessboard/curated"
	"github.com/chessboard/chessboard/events"
	"github.com/chessboard/chessboard/logger"
)

// Sentinal errors.
const (
	Misconfigured = "clock: misconfigured: %v"
	BadState      = "clock: cannot restore state: %v"
)

// Unlimited is the allotment for a side that has no time limit.
const Unlimited time.Duration = math.MaxInt64

// Control is the time control for one side.
type Control struct {
	Allotment time.Duration
	Increment time.Duration
}

// UnlimitedControl is a time control with no limit and no increment.
var UnlimitedControl = Control{Allotment: Unlimited}

// Publisher is the part of the event bus used by the clock.
type Publisher interface {
	Publish(ev events.Event)
}

// stopwatches and time controls are indexed by side.
const (
	white = 0
	black = 1
)

func index(c chess.Color) int {
	if c == chess.Black {
		return black
	}
	return white
}

func other(c chess.Color) chess.Color {
	if c == chess.Black {
		return chess.White
	}
	return chess.Black
}

// Clock is a dual chess clock. Must be created with NewClock().
type Clock struct {
	pub Publisher
	now func() time.Time

	crit    sync.Mutex
	watches [2]Stopwatch
	control [2]Control
	current chess.Color

	// the watchdog goroutine is stopped by closing wdStop. wdDone is closed
	// when the goroutine has returned. both are nil if no watchdog has been
	// started since the last stop
	wdStop chan struct{}
	wdDone chan struct{}

	// wakes the watchdog so that it can recalculate its deadline
	poke chan struct{}
}

// NewClock is the preferred method of initialisation for the Clock type. Both
// sides have unlimited time until Configure() is called.
func NewClock(pub Publisher) *Clock {
	return &Clock{
		pub:     pub,
		now:     time.Now,
		control: [2]Control{UnlimitedControl, UnlimitedControl},
		current: chess.White,
		poke:    make(chan struct{}, 1),
	}
}

// SetTimeSource replaces the function used to read the current time. Must be
// called before the clock is used.
func (c *Clock) SetTimeSource(now func() time.Time) {
	c.crit.Lock()
	defer c.crit.Unlock()
	c.now = now
}

func validate(side string, ctl Control) error {
	if ctl.Allotment <= 0 {
		return curated.Errorf(Misconfigured, fmt.Errorf("%s allotment must be positive (%v)", side, ctl.Allotment))
	}
	if ctl.Increment < 0 {
		return curated.Errorf(Misconfigured, fmt.Errorf("%s increment must not be negative (%v)", side, ctl.Increment))
	}
	return nil
}

// Configure resets the clock for a new game. The clock is stopped and it is
// white's turn. The clock is unchanged if either control is invalid.
func (c *Clock) Configure(w Control, b Control) error {
	if err := validate("white", w); err != nil {
		return err
	}
	if err := validate("black", b); err != nil {
		return err
	}

	c.stopWatchdog()

	c.crit.Lock()
	defer c.crit.Unlock()

	c.control = [2]Control{w, b}
	c.watches[white].Reset(0)
	c.watches[black].Reset(0)
	c.current = chess.White
	c.startWatchdog()
	c.publish()

	return nil
}

// Start the stopwatch of the side to move. Returns false if it was already
// running.
func (c *Clock) Start() bool {
	c.crit.Lock()
	defer c.crit.Unlock()

	ok := c.watches[index(c.current)].Start(c.now())
	if ok {
		c.startWatchdog()
		c.publish()
	}
	return ok
}

// Stop the stopwatch of the side to move. Returns false if it was already
// stopped.
func (c *Clock) Stop() bool {
	c.crit.Lock()
	defer c.crit.Unlock()

	ok := c.watches[index(c.current)].Stop(c.now())
	if ok {
		c.publish()
	}
	return ok
}

// SetPlayer makes side the side to move. The outgoing side's stopwatch is
// stopped and, if applyIncrement is true, its increment is given back. The
// incoming side's stopwatch is started only if the outgoing stopwatch had been
// running. Nothing happens if side is already the side to move.
func (c *Clock) SetPlayer(side chess.Color, applyIncrement bool) {
	c.crit.Lock()
	defer c.crit.Unlock()

	if side == c.current {
		return
	}

	now := c.now()
	out := index(c.current)
	running := c.watches[out].Stop(now)
	if applyIncrement {
		c.watches[out].Adjust(-c.control[out].Increment)
	}

	c.current = side
	if running {
		c.watches[index(side)].Start(now)
	}

	c.wake()
	c.publish()
}

// Regret reverses the most recent SetPlayer() with an increment. The side
// that made the move becomes the side to move again and the increment it was
// given is taken back. The clock is left running only if it was running.
func (c *Clock) Regret() {
	c.crit.Lock()
	defer c.crit.Unlock()

	now := c.now()
	running := c.watches[index(c.current)].Stop(now)

	mover := other(c.current)
	c.watches[index(mover)].Adjust(c.control[index(mover)].Increment)
	c.current = mover

	if running {
		c.watches[index(mover)].Start(now)
		c.startWatchdog()
	}

	c.wake()
	c.publish()
}

// Current returns the side to move.
func (c *Clock) Current() chess.Color {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.current
}

// Running returns true if the stopwatch of the side to move is running.
func (c *Clock) Running() bool {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.watches[index(c.current)].Running()
}

// Elapsed returns the time used by the side. It can be negative if the side
// has been given more increment than it has used.
func (c *Clock) Elapsed(side chess.Color) time.Duration {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.watches[index(side)].Elapsed(c.now())
}

// TimeLeft returns the time remaining for the side. Never negative. Returns
// Unlimited if the side has no time limit.
func (c *Clock) TimeLeft(side chess.Color) time.Duration {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.timeLeft(index(side), c.now())
}

func (c *Clock) timeLeft(i int, now time.Time) time.Duration {
	if c.control[i].Allotment == Unlimited {
		return Unlimited
	}
	left := c.control[i].Allotment - c.watches[i].Elapsed(now)
	if left < 0 {
		return 0
	}
	return left
}

func (c *Clock) unlimited() bool {
	return c.control[white].Allotment == Unlimited && c.control[black].Allotment == Unlimited
}

// Close stops the watchdog.
func (c *Clock) Close() {
	c.stopWatchdog()
}

// must be called inside the critical section
func (c *Clock) publish() {
	if c.pub == nil {
		return
	}
	c.pub.Publish(c.changed(c.now()))
}

func (c *Clock) changed(now time.Time) events.ClockChanged {
	ev := events.ClockChanged{
		Running:   c.watches[index(c.current)].Running(),
		Current:   c.current,
		WhiteLeft: c.timeLeft(white, now),
		BlackLeft: c.timeLeft(black, now),
	}
	if ev.WhiteLeft == Unlimited {
		ev.WhiteLeft = -1
	}
	if ev.BlackLeft == Unlimited {
		ev.BlackLeft = -1
	}
	return ev
}

// Snapshot returns the current state of the clock as an events.ClockChanged.
func (c *Clock) Snapshot() events.ClockChanged {
	c.crit.Lock()
	defer c.crit.Unlock()
	return c.changed(c.now())
}

// must be called inside the critical section
func (c *Clock) wake() {
	select {
	case c.poke <- struct{}{}:
	default:
	}
}

// startWatchdog starts the watchdog goroutine if it is needed and not already
// running. must be called inside the critical section
func (c *Clock) startWatchdog() {
	if c.unlimited() {
		return
	}

	if c.wdDone != nil {
		select {
		case <-c.wdDone:
			// previous watchdog has finished
		default:
			c.wake()
			return
		}
	}

	c.wdStop = make(chan struct{})
	c.wdDone = make(chan struct{})
	go c.watchdog(c.wdStop, c.wdDone)
}

// stopWatchdog stops the watchdog goroutine and waits for it to finish. must
// not be called inside the critical section
func (c *Clock) stopWatchdog() {
	c.crit.Lock()
	stop, done := c.wdStop, c.wdDone
	c.wdStop = nil
	c.wdDone = nil
	c.crit.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}
}

// watchdog waits for the running stopwatch to use up its allotment. only the
// side to move can run out of time
func (c *Clock) watchdog(stop chan struct{}, done chan struct{}) {
	defer close(done)

	for {
		c.crit.Lock()
		now := c.now()
		cur := index(c.current)
		running := c.watches[cur].Running()
		left := c.timeLeft(cur, now)

		if running && left == 0 {
			expired := c.current
			c.watches[cur].Stop(now)
			if c.pub != nil {
				c.pub.Publish(events.ClockTimeout{Side: expired})
			}
			c.publish()
			c.crit.Unlock()
			logger.Logf(logger.Allow, "clock", "%s has run out of time", expired.Name())
			return
		}
		c.crit.Unlock()

		// a stopped clock or an unlimited side only changes when poked
		var t *time.Timer
		var expiry <-chan time.Time
		if running && left != Unlimited {
			t = time.NewTimer(left)
			expiry = t.C
		}

		select {
		case <-stop:
			if t != nil {
				t.Stop()
			}
			return
		case <-c.poke:
			if t != nil {
				t.Stop()
			}
		case <-expiry:
		}
	}
}
