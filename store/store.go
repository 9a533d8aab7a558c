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

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/chessboard/chessboard/curated"
	"github.com/chessboard/chessboard/events"
	"github.com/chessboard/chessboard/game"
	"github.com/chessboard/chessboard/logger"
	"github.com/chessboard/chessboard/paths"
)

// Sentinal errors.
const (
	StoreError = "store: %v"
	NoGame     = "store: no game with id %s"
)

// time allowed for a single write by the persister
const persistTimeout = 5 * time.Second

// Store is an SQLite database of the controller state and game history.
type Store struct {
	db *sql.DB

	// when the current game started. set by the NewGameRequest handler
	crit    sync.Mutex
	started time.Time
}

// Game is a finished game in the history.
type Game struct {
	ID       string    `json:"id"`
	White    string    `json:"white"`
	Black    string    `json:"black"`
	Result   string    `json:"result"`
	Reason   string    `json:"reason"`
	FinalFEN string    `json:"final_fen"`
	PGN      string    `json:"pgn,omitempty"`
	Started  time.Time `json:"started"`
	Ended    time.Time `json:"ended"`
}

func (g Game) String() string {
	return fmt.Sprintf("%s %s v %s %s (%s)", g.Ended.Format("2006-01-02 15:04"), g.White, g.Black, g.Result, g.Reason)
}

// Open the database at path. The database is created if necessary and
// brought up to date.
func Open(ctx context.Context, pth string) (*Store, error) {
	if strings.TrimSpace(pth) == "" {
		return nil, curated.Errorf(StoreError, "no path")
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", filepath.Clean(pth))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, curated.Errorf(StoreError, err)
	}

	// sqlite allows only one writer
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, curated.Errorf(StoreError, err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, curated.Errorf(StoreError, err)
	}

	return &Store{db: db, started: time.Now()}, nil
}

// Close the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Persist implements the game.Persister interface.
func (s *Store) Persist(r game.Record) error {
	b, err := json.Marshal(r)
	if err != nil {
		return curated.Errorf(StoreError, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	_, err = s.db.ExecContext(ctx, `INSERT INTO controller_state (id, record, updated_at) VALUES (1, ?, ?)
ON CONFLICT (id) DO UPDATE SET record = excluded.record, updated_at = excluded.updated_at`,
		string(b), time.Now().UTC().UnixMilli())
	if err != nil {
		return curated.Errorf(StoreError, err)
	}

	return nil
}

// Load the most recently persisted controller state. The boolean is false if
// nothing has been persisted.
func (s *Store) Load(ctx context.Context) (game.Record, bool, error) {
	var r game.Record
	var b string

	err := s.db.QueryRowContext(ctx, "SELECT record FROM controller_state WHERE id = 1").Scan(&b)
	if err == sql.ErrNoRows {
		return r, false, nil
	}
	if err != nil {
		return r, false, curated.Errorf(StoreError, err)
	}

	if err := json.Unmarshal([]byte(b), &r); err != nil {
		return r, false, curated.Errorf(StoreError, err)
	}

	return r, true, nil
}

// Subscriber is the part of the event bus used by Attach().
type Subscriber interface {
	Subscribe(kind events.Kind, h events.Handler) events.Subscription
}

// Attach the store to the bus. Finished games are added to the history.
func (s *Store) Attach(bus Subscriber) {
	bus.Subscribe(events.KindNewGameRequest, func(ctx context.Context, _ events.Event) error {
		s.crit.Lock()
		defer s.crit.Unlock()
		s.started = events.Timestamp(ctx)
		return nil
	})

	bus.Subscribe(events.KindGameOver, func(ctx context.Context, ev events.Event) error {
		s.crit.Lock()
		started := s.started
		s.crit.Unlock()

		id, err := s.AddGame(ctx, ev.(events.GameOver), started, events.Timestamp(ctx))
		if err != nil {
			return err
		}
		logger.Logf(logger.Allow, "store", "game %s added to history", id)
		return nil
	})
}

// AddGame adds a finished game to the history. Returns the ID of the new
// entry.
func (s *Store) AddGame(ctx context.Context, ev events.GameOver, started time.Time, ended time.Time) (string, error) {
	id := uuid.NewString()

	_, err := s.db.ExecContext(ctx, `INSERT INTO games
    (id, white, black, result, reason, final_fen, pgn, started_at, ended_at)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, ev.White.Name, ev.Black.Name, string(ev.Outcome), ev.Reason, ev.FEN, ev.PGN,
		started.UTC().UnixMilli(), ended.UTC().UnixMilli())
	if err != nil {
		return "", curated.Errorf(StoreError, err)
	}

	return id, nil
}

const gameColumns = "id, white, black, result, reason, final_fen, pgn, started_at, ended_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (Game, error) {
	var g Game
	var started, ended int64
	err := row.Scan(&g.ID, &g.White, &g.Black, &g.Result, &g.Reason, &g.FinalFEN, &g.PGN, &started, &ended)
	if err != nil {
		return g, err
	}
	g.Started = time.UnixMilli(started).UTC()
	g.Ended = time.UnixMilli(ended).UTC()
	return g, nil
}

// Games returns the most recent games, newest first. The PGN field is not
// filled in. A limit of zero or less returns every game.
func (s *Store) Games(ctx context.Context, limit int) ([]Game, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, "SELECT "+gameColumns+" FROM games ORDER BY ended_at DESC, id LIMIT ?", limit)
	if err != nil {
		return nil, curated.Errorf(StoreError, err)
	}
	defer rows.Close()

	games := []Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, curated.Errorf(StoreError, err)
		}
		g.PGN = ""
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, curated.Errorf(StoreError, err)
	}

	return games, nil
}

// Game returns a single game from the history, including its PGN.
func (s *Store) Game(ctx context.Context, id string) (Game, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+gameColumns+" FROM games WHERE id = ?", id)
	g, err := scanGame(row)
	if err == sql.ErrNoRows {
		return g, curated.Errorf(NoGame, id)
	}
	if err != nil {
		return g, curated.Errorf(StoreError, err)
	}
	return g, nil
}

// List the games in the history to the writer, newest first.
func (s *Store) List(ctx context.Context, output io.Writer) error {
	games, err := s.Games(ctx, 0)
	if err != nil {
		return err
	}

	if len(games) == 0 {
		_, err := output.Write([]byte("history is empty\n"))
		return err
	}

	for _, g := range games {
		if _, err := fmt.Fprintf(output, "%s %s\n", g.ID, g); err != nil {
			return err
		}
	}

	return nil
}

// ExportPGN writes every game in the history, oldest first, to a new PGN file
// in the directory. If dir is empty the history resource directory is used.
// Returns the name of the file.
func (s *Store) ExportPGN(ctx context.Context, dir string) (string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT pgn FROM games ORDER BY ended_at, id")
	if err != nil {
		return "", curated.Errorf(StoreError, err)
	}
	defer rows.Close()

	var b strings.Builder
	for rows.Next() {
		var pgn string
		if err := rows.Scan(&pgn); err != nil {
			return "", curated.Errorf(StoreError, err)
		}
		b.WriteString(strings.TrimSpace(pgn))
		b.WriteString("\n\n")
	}
	if err := rows.Err(); err != nil {
		return "", curated.Errorf(StoreError, err)
	}

	fn := paths.UniqueFilename("games", "", time.Now()) + ".pgn"

	var pth string
	if dir == "" {
		pth, err = paths.ResourcePath("history", fn)
		if err != nil {
			return "", curated.Errorf(StoreError, err)
		}
	} else {
		pth = filepath.Join(dir, fn)
	}

	err = os.WriteFile(pth, []byte(b.String()), 0o600)
	if err != nil {
		return "", curated.Errorf(StoreError, err)
	}

	return pth, nil
}
