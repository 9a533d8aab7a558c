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

// Package events is the ordered publish/subscribe mediator used by every other
// component to communicate. The set of events is closed: every event type
// implements the Event interface and is identified by a value of type Kind.
//
// Delivery is strictly sequential. A single dispatch goroutine takes events
// from an unbounded queue and calls every subscribed handler for the event
// before taking the next event. If event A is published before event B then
// every handler subscribed to both will finish with A before starting on B.
// Components that only change their state from inside a handler therefore do
// not need to lock that state.
//
// Publish() never blocks. PublishAndWait() blocks until every handler has
// been called or the timeout expires. Calling PublishAndWait() from inside a
// handler would deadlock and so fails immediately. Handlers must pass on the
// context they are given for this check to work.
//
// A handler that returns an error or panics does not affect the other handlers
// or the delivery of later events. The error is logged.
//
// Modifiers can be pushed for a kind of event to rewrite or drop events as they
// are published. Only the most recent modifier is applied. The pop function
// returned by PushModifier() is intended to be deferred:
//
//	pop := bus.Suppress(events.KindOccupancyChanged)
//	defer pop()
//
// The most recent event of each kind is kept by the bus. SubscribeReplay()
// sends that event to a new subscriber before any events published after
// the call.
package events
