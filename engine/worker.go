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

package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/notnil/chess"

	"github.com/chessboard/chessboard/curated"
	"github.com/chessboard/chessboard/events"
	"github.com/chessboard/chessboard/fifo"
	"github.com/chessboard/chessboard/logger"
	"github.com/chessboard/chessboard/random"
)

// Sentinal errors.
const (
	IllegalEngineMove = "engine: illegal move from engine: %s"
	BadPosition       = "engine: bad position: %v"
)

// Publisher is the part of the event bus used by the worker.
type Publisher interface {
	Publish(ev events.Event)
}

// Worker handles engine requests on a dedicated goroutine. Must be created
// with NewWorker().
type Worker struct {
	pub     Publisher
	factory Factory
	rnd     *random.Random
	prefs   *Preferences

	queue *fifo.Queue[Request]

	// the following fields are only accessed by the worker goroutine
	searcher Searcher
	weight   string

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	stop   sync.Once
}

// NewWorker is the preferred method of initialisation for the Worker type. The
// worker goroutine is started immediately but the engine is not started until
// it is first needed. If prefs is nil the default preferences are used.
func NewWorker(pub Publisher, factory Factory, rnd *random.Random, prefs *Preferences) *Worker {
	if prefs == nil {
		prefs = &Preferences{}
		prefs.SetDefaults()
	}
	if rnd == nil {
		rnd = random.NewRandom()
	}

	w := &Worker{
		pub:     pub,
		factory: factory,
		rnd:     rnd,
		prefs:   prefs,
		queue:   fifo.New[Request](),
		done:    make(chan struct{}),
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())

	go w.loop()

	return w
}

// Submit a request to the worker. Never blocks.
func (w *Worker) Submit(req Request) {
	logger.Logf(logger.Allow, "engine", "submit: %s", req)
	w.queue.Push(req)
}

// Pending returns the number of requests waiting in the queue.
func (w *Worker) Pending() int {
	return w.queue.Len()
}

// Stop the worker and close the engine. Any search in progress is cancelled
// and requests still in the queue are discarded without a result.
func (w *Worker) Stop() {
	w.stop.Do(func() {
		w.queue.Push(Request{Kind: None})
		w.cancel()
	})
	<-w.done
}

func (w *Worker) loop() {
	defer close(w.done)
	defer w.discard()

	for {
		req, err := w.queue.Pop(w.ctx)
		if err != nil {
			return
		}

		switch req.Kind {
		case None:
			return
		case GetMove:
			w.getMove(req)
		case Analyze:
			w.analyze(req)
		default:
			logger.Logf(logger.Allow, "engine", "ignoring request: %s", req)
		}
	}
}

// engine returns the running engine, starting it if necessary, with the
// requested weight loaded
func (w *Worker) engine(weight string) (Searcher, error) {
	if w.searcher == nil {
		s, err := w.factory()
		if err != nil {
			return nil, err
		}
		w.searcher = s
		w.weight = ""
	}

	if weight != "" && weight != w.weight {
		err := w.searcher.Configure(weight)
		if err != nil {
			w.discard()
			return nil, err
		}
		w.weight = weight
		logger.Logf(logger.Allow, "engine", "loaded weight %s", weight)
	}

	return w.searcher, nil
}

// discard closes the current engine. the next request will start a new one
func (w *Worker) discard() {
	if w.searcher == nil {
		return
	}
	err := w.searcher.Close()
	if err != nil {
		logger.Log(logger.Allow, "engine", err)
	}
	w.searcher = nil
	w.weight = ""
}

// sleep for the backoff duration. returns false if the worker is stopping
func (w *Worker) backoff() bool {
	t := time.NewTimer(w.prefs.Backoff.Get().(time.Duration))
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-w.ctx.Done():
		return false
	}
}

func position(fen string) (*chess.Game, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, curated.Errorf(BadPosition, err)
	}
	return chess.NewGame(opt), nil
}

func legal(g *chess.Game, move string) bool {
	for _, m := range g.ValidMoves() {
		if m.String() == move {
			return true
		}
	}
	return false
}

func (w *Worker) resign(req Request) {
	logger.Logf(logger.Allow, "engine", "resigning for %s (request #%d)", req.Side.Name(), req.Seq)
	w.pub.Publish(events.EngineMove{
		Seq:    req.Seq,
		Side:   req.Side,
		Resign: true,
	})
}

func (w *Worker) getMove(req Request) {
	g, err := position(req.FEN)
	if err != nil {
		logger.Log(logger.Allow, "engine", err)
		w.resign(req)
		return
	}

	lo := max(req.MinDepth, 1)
	hi := max(req.MaxDepth, lo)

	for depth := w.rnd.Range(lo, hi); depth <= hi; depth++ {
		s, err := w.engine(req.Weight)
		if err != nil {
			logger.Logf(logger.Allow, "engine", "engine unavailable: %v", err)
			break
		}

		move, _, err := s.Search(w.ctx, req.FEN, depth)
		if w.ctx.Err() != nil {
			return
		}

		if err == nil {
			if legal(g, move) {
				logger.Logf(logger.Allow, "engine", "%s plays %s at depth %d", req.Side.Name(), move, depth)
				w.pub.Publish(events.EngineMove{
					Seq:   req.Seq,
					Side:  req.Side,
					Move:  move,
					Depth: depth,
				})
				return
			}
			err = curated.Errorf(IllegalEngineMove, move)
		} else {
			w.discard()
		}

		logger.Logf(logger.Allow, "engine", "search at depth %d failed: %v", depth, err)

		if depth < hi && !w.backoff() {
			return
		}
	}

	w.resign(req)
}

func (w *Worker) analyze(req Request) {
	g, err := position(req.FEN)
	if err != nil {
		logger.Log(logger.Allow, "engine", err)
		return
	}
	if g.Outcome() != chess.NoOutcome || len(g.ValidMoves()) == 0 {
		return
	}

	turn := g.Position().Turn()

	deepest := req.MaxDepth
	if deepest < 1 {
		deepest = w.prefs.AnalysisDepth.Get().(int)
	}

	for depth := 1; depth <= deepest; depth++ {
		var info Info
		s, err := w.engine(req.Weight)
		if err == nil {
			_, info, err = s.Search(w.ctx, req.FEN, depth)
		}
		if w.ctx.Err() != nil {
			return
		}

		// a waiting request takes priority over the rest of the analysis
		if !w.queue.Empty() {
			logger.Logf(logger.Allow, "engine", "analysis #%d abandoned at depth %d", req.Seq, depth)
			return
		}

		if err != nil {
			w.discard()
			logger.Logf(logger.Allow, "engine", "analysis failed: %v", err)

			// a material count is better than nothing
			cp := MaterialScore(g.Position())
			w.pub.Publish(events.AnalysisSample{
				Seq:                 req.Seq,
				ScoreCP:             cp,
				WhiteWinProbability: WinProbability(cp),
				Final:               true,
			})
			return
		}

		cp := WhiteScore(info, turn)
		mate := info.Mate
		if turn == chess.Black {
			mate = -mate
		}

		w.pub.Publish(events.AnalysisSample{
			Seq:                 req.Seq,
			Depth:               depth,
			ScoreCP:             cp,
			Mate:                mate,
			PV:                  info.PV,
			WhiteWinProbability: WinProbability(cp),
			Final:               depth == deepest,
		})
	}
}

func (w *Worker) String() string {
	return fmt.Sprintf("engine worker: %d pending", w.Pending())
}
