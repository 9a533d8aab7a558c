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

package events

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chessboard/chessboard/curated"
	"github.com/chessboard/chessboard/fifo"
	"github.com/chessboard/chessboard/logger"
)

// Sentinal errors.
const (
	PublishTimeout      = "events: publish of %s timed out after %v"
	PublishFromDispatch = "events: blocking publish of %s from a dispatched handler"
	BusStopped          = "events: bus has stopped"
	StopTimeout         = "events: dispatch did not stop in time"
)

// DefaultTimeout is a reasonable timeout for PublishAndWait().
const DefaultTimeout = 5 * time.Second

// how long Stop() waits for the dispatch loop to finish.
const stopTimeout = 2 * time.Second

// Handler is called by the dispatch loop for every event it is subscribed to.
// An error returned by the handler is logged and otherwise ignored.
//
// The context identifies the dispatch loop. A handler that makes a blocking
// publish must pass it, or a context derived from it, to PublishAndWait(). A
// blocking publish made with an unrelated context, such as
// context.Background(), cannot be recognised and waits for the full timeout
// before failing with PublishTimeout. Handlers should prefer Publish().
type Handler func(ctx context.Context, ev Event) error

// Modifier is applied to an event at the time it is published. It returns the
// event to dispatch, which may be a different event of the same kind, or false
// if the event is to be dropped.
type Modifier func(ev Event) (Event, bool)

// Subscription is returned by Subscribe() and is used to unsubscribe.
type Subscription struct {
	id uint64
}

type subscriber struct {
	id      uint64
	kind    Kind
	all     bool
	handler Handler
}

func (s subscriber) wants(k Kind) bool {
	return s.all || s.kind == k
}

type modifier struct {
	id uint64
	m  Modifier
}

// envelope wraps an event as it passes through the queue.
type envelope struct {
	ev        Event
	origin    string
	timestamp time.Time

	// closed after every subscriber has been called. only for blocking publish
	done chan struct{}

	// replay of the last event of a kind to a single subscriber
	replay     bool
	replayKind Kind
	replayTo   uint64

	// stop the dispatch loop
	stop bool
}

type dispatchKey struct{}
type envelopeKey struct{}

// Bus is an ordered publish/subscribe mediator. Events are delivered by a
// single dispatch goroutine, one event at a time, to each subscriber in the
// order in which they subscribed.
//
// Bus must be created with NewBus().
type Bus struct {
	queue *fifo.Queue[*envelope]

	crit        sync.Mutex
	subscribers []subscriber
	modifiers   map[Kind][]modifier
	last        map[Kind]Event
	nextID      uint64
	stopped     bool

	// the context passed to every handler
	dispatch context.Context

	// closed when the dispatch loop returns
	done chan struct{}

	// number of handler errors and panics
	faults atomic.Int64

	// trace controls the logging of every dispatched event
	trace atomic.Value // tracePermission
}

// atomic.Value requires every stored value to be of the same concrete type.
type tracePermission struct {
	logger.Permission
}

// NewBus is the preferred method of initialisation for the Bus type. The
// dispatch goroutine is started immediately.
func NewBus() *Bus {
	b := &Bus{
		queue:     fifo.New[*envelope](),
		modifiers: make(map[Kind][]modifier),
		last:      make(map[Kind]Event),
		done:      make(chan struct{}),
	}
	b.dispatch = context.WithValue(context.Background(), dispatchKey{}, b)
	b.trace.Store(tracePermission{logger.Deny})

	go b.loop()

	return b
}

// SetTrace sets the permission for logging every dispatched event.
func (b *Bus) SetTrace(perm logger.Permission) {
	b.trace.Store(tracePermission{perm})
}

// Subscribe adds a handler for a kind of event. Handlers are called in the
// order in which they subscribed.
func (b *Bus) Subscribe(kind Kind, h Handler) Subscription {
	return b.subscribe(subscriber{kind: kind, handler: h})
}

// SubscribeAll adds a handler for every kind of event.
func (b *Bus) SubscribeAll(h Handler) Subscription {
	return b.subscribe(subscriber{all: true, handler: h})
}

// SubscribeReplay adds a handler for a kind of event and arranges for the most
// recently dispatched event of that kind to be sent to the new handler. The
// replay is queued like any other event so it can't race with a publish.
func (b *Bus) SubscribeReplay(kind Kind, h Handler) Subscription {
	sub := b.Subscribe(kind, h)
	b.queue.Push(&envelope{
		replay:     true,
		replayKind: kind,
		replayTo:   sub.id,
		timestamp:  time.Now(),
	})
	return sub
}

func (b *Bus) subscribe(s subscriber) Subscription {
	b.crit.Lock()
	defer b.crit.Unlock()
	b.nextID++
	s.id = b.nextID
	b.subscribers = append(b.subscribers, s)
	return Subscription{id: s.id}
}

// Unsubscribe removes the subscription. It is safe to unsubscribe from inside
// a handler. Unsubscribing more than once has no effect.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.crit.Lock()
	defer b.crit.Unlock()
	for i, s := range b.subscribers {
		if s.id == sub.id {
			b.subscribers = append(b.subscribers[:i:i], b.subscribers[i+1:]...)
			return
		}
	}
}

// PushModifier registers a modifier for the kind of event. Only the most
// recently pushed modifier is applied. The returned function removes the
// modifier and is suitable for use with defer. Calling it more than once has
// no effect.
func (b *Bus) PushModifier(kind Kind, m Modifier) (pop func()) {
	b.crit.Lock()
	b.nextID++
	id := b.nextID
	b.modifiers[kind] = append(b.modifiers[kind], modifier{id: id, m: m})
	b.crit.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.crit.Lock()
			defer b.crit.Unlock()
			mods := b.modifiers[kind]
			for i := range mods {
				if mods[i].id == id {
					b.modifiers[kind] = append(mods[:i:i], mods[i+1:]...)
					return
				}
			}
		})
	}
}

// Suppress is a convenience function that pushes a modifier that drops every
// event of the kind.
func (b *Bus) Suppress(kind Kind) (pop func()) {
	return b.PushModifier(kind, func(_ Event) (Event, bool) {
		return nil, false
	})
}

// Last returns the most recently dispatched event of the kind.
func (b *Bus) Last(kind Kind) (Event, bool) {
	b.crit.Lock()
	defer b.crit.Unlock()
	ev, ok := b.last[kind]
	return ev, ok
}

// Faults returns the number of handler errors and panics since the bus was
// created.
func (b *Bus) Faults() int {
	return int(b.faults.Load())
}

// Publish queues the event for dispatch. It never blocks.
func (b *Bus) Publish(ev Event) {
	b.PublishFrom("", ev)
}

// PublishFrom queues the event for dispatch with an origin tag. The tag can be
// retrieved by the handler with the Origin() function.
func (b *Bus) PublishFrom(origin string, ev Event) {
	env, ok := b.envelope(origin, ev)
	if !ok {
		return
	}

	b.crit.Lock()
	stopped := b.stopped
	b.crit.Unlock()
	if stopped {
		logger.Logf(logger.Allow, "events", "%s published after stop", ev.Kind())
		return
	}

	b.queue.Push(env)
}

// PublishAndWait queues the event and waits until every subscriber has been
// called, or until the timeout has elapsed.
//
// If ctx is, or is derived from, the context given to a handler by the
// dispatch loop then the call fails immediately with the PublishFromDispatch
// error. Waiting would otherwise be a deadlock. A handler that drops its
// context is not detected and the call ends with PublishTimeout.
func (b *Bus) PublishAndWait(ctx context.Context, origin string, ev Event, timeout time.Duration) error {
	if d, ok := ctx.Value(dispatchKey{}).(*Bus); ok && d == b {
		return curated.Errorf(PublishFromDispatch, ev.Kind())
	}

	env, ok := b.envelope(origin, ev)
	if !ok {
		// dropped by a modifier. there is nothing to wait for
		return nil
	}

	b.crit.Lock()
	stopped := b.stopped
	b.crit.Unlock()
	if stopped {
		return curated.Errorf(BusStopped)
	}

	env.done = make(chan struct{})
	b.queue.Push(env)

	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-env.done:
		return nil
	case <-t.C:
		return curated.Errorf(PublishTimeout, ev.Kind(), timeout)
	case <-ctx.Done():
		return ctx.Err()
	case <-b.done:
		return curated.Errorf(BusStopped)
	}
}

// envelope applies the current modifier and wraps the event. Returns false if
// the event has been dropped.
func (b *Bus) envelope(origin string, ev Event) (*envelope, bool) {
	b.crit.Lock()
	var m Modifier
	if mods := b.modifiers[ev.Kind()]; len(mods) > 0 {
		m = mods[len(mods)-1].m
	}
	b.crit.Unlock()

	if m != nil {
		var ok bool
		ev, ok = m(ev)
		if !ok || ev == nil {
			return nil, false
		}
	}

	return &envelope{
		ev:        ev,
		origin:    origin,
		timestamp: time.Now(),
	}, true
}

// Stop the dispatch loop. Events already in the queue are dispatched first.
// Events published after Stop() are never dispatched.
func (b *Bus) Stop() error {
	b.crit.Lock()
	if b.stopped {
		b.crit.Unlock()
		return nil
	}
	b.stopped = true
	b.crit.Unlock()

	b.queue.Push(&envelope{stop: true})

	select {
	case <-b.done:
	case <-time.After(stopTimeout):
		return curated.Errorf(StopTimeout)
	}
	return nil
}

// InDispatch returns true if the context was created by the dispatch loop of
// any bus.
func InDispatch(ctx context.Context) bool {
	_, ok := ctx.Value(dispatchKey{}).(*Bus)
	return ok
}

// Origin returns the origin tag of the event being handled. Returns the empty
// string if the context was not given to a handler or if the event was
// published without a tag.
func Origin(ctx context.Context) string {
	if env, ok := ctx.Value(envelopeKey{}).(*envelope); ok {
		return env.origin
	}
	return ""
}

// Timestamp returns the time at which the event being handled was published.
func Timestamp(ctx context.Context) time.Time {
	if env, ok := ctx.Value(envelopeKey{}).(*envelope); ok {
		return env.timestamp
	}
	return time.Time{}
}

func (b *Bus) loop() {
	defer close(b.done)

	for {
		env, err := b.queue.Pop(context.Background())
		if err != nil {
			return
		}

		if env.stop {
			return
		}

		if env.replay {
			b.replay(env)
			continue
		}

		b.deliver(env)
	}
}

func (b *Bus) deliver(env *envelope) {
	kind := env.ev.Kind()

	b.crit.Lock()
	b.last[kind] = env.ev
	subs := make([]subscriber, 0, len(b.subscribers))
	for _, s := range b.subscribers {
		if s.wants(kind) {
			subs = append(subs, s)
		}
	}
	b.crit.Unlock()

	if perm := b.trace.Load().(tracePermission); perm.AllowLogging() {
		if env.origin != "" {
			logger.Logf(perm, "events", "%s from %s (%d subscribers)", kind, env.origin, len(subs))
		} else {
			logger.Logf(perm, "events", "%s (%d subscribers)", kind, len(subs))
		}
	}

	ctx := context.WithValue(b.dispatch, envelopeKey{}, env)
	for _, s := range subs {
		b.invoke(ctx, s, env.ev)
	}

	if env.done != nil {
		close(env.done)
	}
}

func (b *Bus) replay(env *envelope) {
	b.crit.Lock()
	ev, ok := b.last[env.replayKind]
	var sub *subscriber
	for i := range b.subscribers {
		if b.subscribers[i].id == env.replayTo {
			s := b.subscribers[i]
			sub = &s
			break
		}
	}
	b.crit.Unlock()

	if !ok || sub == nil {
		return
	}

	ctx := context.WithValue(b.dispatch, envelopeKey{}, env)
	b.invoke(ctx, *sub, ev)
}

// invoke calls the handler. errors and panics are logged and do not affect
// delivery to other handlers.
func (b *Bus) invoke(ctx context.Context, s subscriber, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.faults.Add(1)
			logger.Logf(logger.Allow, "events", "handler panic for %s: %v", ev.Kind(), r)
		}
	}()

	if err := s.handler(ctx, ev); err != nil {
		b.faults.Add(1)
		logger.Logf(logger.Allow, "events", "%s: %v", ev.Kind(), err)
	}
}
