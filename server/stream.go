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

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/chessboard/chessboard/events"
	"github.com/chessboard/chessboard/logger"
)

// Envelope is the websocket message for an event.
type Envelope struct {
	Type  string       `json:"type"`
	Event events.Event `json:"event"`
}

// events that are replayed to a new client so that it starts with a complete
// picture
var replayed = []events.Kind{
	events.KindGameState,
	events.KindClockChanged,
	events.KindHighlights,
}

// events that are only sent as they happen
var streamed = []events.Kind{
	events.KindAnalysisSample,
	events.KindGameOver,
	events.KindPlayerNotify,
	events.KindMoveApplied,
	events.KindMoveRegretted,
}

// messages waiting for a slow client. further messages are dropped
const sendQueue = 64

const pingInterval = 15 * time.Second

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		logger.Logf(logger.Allow, "server", "websocket: %v", err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "")

	// the client isn't expected to send anything. CloseRead() handles the
	// close handshake and cancels the context when the client goes away
	ctx := c.CloseRead(r.Context())

	send := make(chan []byte, sendQueue)
	h := func(_ context.Context, ev events.Event) error {
		b, err := json.Marshal(Envelope{Type: ev.Kind().String(), Event: ev})
		if err != nil {
			return err
		}
		select {
		case send <- b:
		default:
		}
		return nil
	}

	// replays are queued behind the streamed subscriptions so that a client
	// that has seen a replay will see everything that follows
	var subs []events.Subscription
	for _, k := range streamed {
		subs = append(subs, s.bus.Subscribe(k, h))
	}
	for _, k := range replayed {
		subs = append(subs, s.bus.SubscribeReplay(k, h))
	}
	defer func() {
		for _, sub := range subs {
			s.bus.Unsubscribe(sub)
		}
	}()

	logger.Logf(logger.Allow, "server", "websocket client %s connected", r.RemoteAddr)

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case b := <-send:
			if err := c.Write(ctx, websocket.MessageText, b); err != nil {
				return
			}
		case <-ping.C:
			if err := c.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			logger.Logf(logger.Allow, "server", "websocket client %s disconnected", r.RemoteAddr)
			c.Close(websocket.StatusNormalClosure, "")
			return
		}
	}
}
