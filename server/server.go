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
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/notnil/chess"

	"github.com/chessboard/chessboard/curated"
	"github.com/chessboard/chessboard/events"
	"github.com/chessboard/chessboard/logger"
	"github.com/chessboard/chessboard/store"
	"github.com/chessboard/chessboard/version"
)

// Sentinal errors.
const (
	BadSide = "server: unrecognised side (%s)"
)

// origin tag for events published by the server
const origin = "server"

// how long a request waits for the bus
const publishTimeout = 5 * time.Second

// default number of games returned by /api/history
const historyLimit = 50

// Bus is the part of the event bus used by the server.
type Bus interface {
	PublishAndWait(ctx context.Context, origin string, ev events.Event, timeout time.Duration) error
	Subscribe(kind events.Kind, h events.Handler) events.Subscription
	SubscribeReplay(kind events.Kind, h events.Handler) events.Subscription
	Unsubscribe(sub events.Subscription)
	Last(kind events.Kind) (events.Event, bool)
}

// Snapshotter returns the current game state.
type Snapshotter interface {
	Snapshot() events.GameState
}

// History is the store of completed games.
type History interface {
	Games(ctx context.Context, limit int) ([]store.Game, error)
	Game(ctx context.Context, id string) (store.Game, error)
}

// Server is the HTTP transport. Must be created with NewServer().
type Server struct {
	bus     Bus
	game    Snapshotter
	history History
	router  chi.Router
}

// NewServer is the preferred method of initialisation for the Server type.
// The history argument can be nil, in which case the history routes reply
// with 404.
func NewServer(bus Bus, game Snapshotter, history History) *Server {
	s := &Server{
		bus:     bus,
		game:    game,
		history: history,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, version.Get())
		})
		r.Get("/state", s.getState)
		r.Get("/clock", s.getClock)

		r.Route("/game", func(r chi.Router) {
			r.Post("/new", s.postNewGame)
			r.Post("/start", s.request(func(_ *http.Request) (events.Event, error) {
				return events.StartRequest{}, nil
			}))
			r.Post("/pause", s.request(func(_ *http.Request) (events.Event, error) {
				return events.PauseRequest{}, nil
			}))
			r.Post("/regret", s.request(func(_ *http.Request) (events.Event, error) {
				return events.RegretRequest{}, nil
			}))
			r.Post("/draw", s.request(func(_ *http.Request) (events.Event, error) {
				return events.DrawClaimRequest{}, nil
			}))
			r.Post("/resign", s.request(func(r *http.Request) (events.Event, error) {
				side := chess.NoColor
				if q := r.URL.Query().Get("side"); q != "" {
					var err error
					side, err = ParseSide(q)
					if err != nil {
						return nil, err
					}
				}
				return events.ResignRequest{Side: side}, nil
			}))
		})

		r.Post("/move", s.postMove)
		r.Post("/button/{side}", s.request(func(r *http.Request) (events.Event, error) {
			side, err := ParseSide(chi.URLParam(r, "side"))
			if err != nil {
				return nil, err
			}
			return events.TimeButtonPressed{Side: side}, nil
		}))

		r.Route("/history", func(r chi.Router) {
			r.Get("/", s.getHistory)
			r.Get("/{id}", s.getGame)
			r.Get("/{id}/pgn", s.getPGN)
		})
	})

	r.Get("/ws", s.serveWS)

	s.router = r
	return s
}

// Handler returns the http.Handler for the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on the address until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	logger.Logf(logger.Allow, "server", "listening on %s", addr)

	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// ParseSide converts a string to a chess.Color. Accepts "white", "black", "w"
// and "b" in any case.
func ParseSide(s string) (chess.Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return chess.White, nil
	case "black", "b":
		return chess.Black, nil
	}
	return chess.NoColor, curated.Errorf(BadSide, s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// request returns a handler that publishes the event made by fn and replies
// with the game state
func (s *Server) request(fn func(r *http.Request) (events.Event, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ev, err := fn(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		s.publish(w, r, ev)
	}
}

func (s *Server) publish(w http.ResponseWriter, r *http.Request, ev events.Event) {
	err := s.bus.PublishAndWait(r.Context(), origin, ev, publishTimeout)
	if err != nil {
		logger.Logf(logger.Allow, "server", "%s: %v", ev.Kind(), err)
		writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	writeJSON(w, http.StatusOK, s.game.Snapshot())
}

func (s *Server) getState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.game.Snapshot())
}

func (s *Server) getClock(w http.ResponseWriter, _ *http.Request) {
	ev, ok := s.bus.Last(events.KindClockChanged)
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("no clock"))
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) postNewGame(w http.ResponseWriter, r *http.Request) {
	var req events.NewGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.publish(w, r, req)
}

func (s *Server) postMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Move string `json:"move"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Move == "" {
		writeError(w, http.StatusBadRequest, errors.New("no move"))
		return
	}
	s.publish(w, r, events.MoveProposed{Move: req.Move})
}

func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, errors.New("no history"))
		return
	}

	limit := historyLimit
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, errors.New("bad limit"))
			return
		}
		limit = n
	}

	games, err := s.history.Games(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (store.Game, bool) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, errors.New("no history"))
		return store.Game{}, false
	}

	g, err := s.history.Game(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if curated.Is(err, store.NoGame) {
			writeError(w, http.StatusNotFound, err)
		} else {
			writeError(w, http.StatusInternalServerError, err)
		}
		return store.Game{}, false
	}
	return g, true
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request) {
	if g, ok := s.lookup(w, r); ok {
		writeJSON(w, http.StatusOK, g)
	}
}

func (s *Server) getPGN(w http.ResponseWriter, r *http.Request) {
	if g, ok := s.lookup(w, r); ok {
		w.Header().Set("Content-Type", "application/x-chess-pgn")
		_, _ = w.Write([]byte(g.PGN))
	}
}
