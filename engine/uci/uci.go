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

// Package uci handles a running UCI engine. The engine is started as a
// sub-process and searches are requested over the UCI protocol. The UCI type
// implements the engine.Searcher interface.
package uci

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/notnil/chess"
	chessuci "github.com/notnil/chess/uci"

	"github.com/chessboard/chessboard/curated"
	"github.com/chessboard/chessboard/engine"
	"github.com/chessboard/chessboard/logger"
)

// Sentinal errors.
const (
	EngineUnavailable = "uci: engine unavailable: %v"
	SearchFailed      = "uci: search failed: %v"
	NoWeight          = "uci: weight not found: %s"
)

// the UCI option used to load a weight file
const weightsOption = "WeightsFile"

// additional time allowed for the engine to reply after the search time limit
const grace = 2 * time.Second

// UCI handles a running UCI engine.
type UCI struct {
	eng        *chessuci.Engine
	weightsDir string
	timeLimit  time.Duration

	// the engine can be closed by Search() on a timeout and by Close()
	closed sync.Once
	err    error
}

// NewUCI prepares and launches a new UCI engine. Searches are limited to
// timeLimit. Weight names given to Configure() are relative to weightsDir.
func NewUCI(pathToEngine string, weightsDir string, timeLimit time.Duration) (*UCI, error) {
	eng, err := chessuci.New(pathToEngine)
	if err != nil {
		return nil, curated.Errorf(EngineUnavailable, err)
	}

	uci := &UCI{
		eng:        eng,
		weightsDir: weightsDir,
		timeLimit:  timeLimit,
	}

	err = eng.Run(chessuci.CmdUCI, chessuci.CmdIsReady, chessuci.CmdUCINewGame)
	if err != nil {
		_ = uci.Close()
		return nil, curated.Errorf(EngineUnavailable, err)
	}

	name := eng.ID()["name"]
	if name == "" {
		name = pathToEngine
	}
	logger.Logf(logger.Allow, "uci", "started %s", name)

	return uci, nil
}

// Factory returns an engine.Factory that launches engines using the current
// values of the preferences.
func Factory(prefs *engine.Preferences) engine.Factory {
	return func() (engine.Searcher, error) {
		return NewUCI(prefs.Path.String(), prefs.WeightsDir.String(), prefs.TimeLimit.Get().(time.Duration))
	}
}

// Configure implements the engine.Searcher interface.
func (uci *UCI) Configure(weight string) error {
	pth := filepath.Join(uci.weightsDir, weight)
	if _, err := os.Stat(pth); err != nil {
		return curated.Errorf(NoWeight, weight)
	}

	err := uci.eng.Run(chessuci.CmdSetOption{Name: weightsOption, Value: pth}, chessuci.CmdIsReady)
	if err != nil {
		return curated.Errorf(EngineUnavailable, err)
	}

	return nil
}

type result struct {
	res chessuci.SearchResults
	err error
}

// Search implements the engine.Searcher interface. If the engine does not
// reply in time, or the context is cancelled, the engine is closed and must
// not be used again.
func (uci *UCI) Search(ctx context.Context, fen string, depth int) (string, engine.Info, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return "", engine.Info{}, curated.Errorf(SearchFailed, err)
	}
	pos := chess.NewGame(opt).Position()

	cmdPos := chessuci.CmdPosition{Position: pos}
	cmdGo := chessuci.CmdGo{Depth: depth, MoveTime: uci.timeLimit}

	done := make(chan result, 1)
	go func() {
		err := uci.eng.Run(cmdPos, cmdGo)
		done <- result{res: uci.eng.SearchResults(), err: err}
	}()

	t := time.NewTimer(uci.timeLimit + grace)
	defer t.Stop()

	var r result
	select {
	case r = <-done:
	case <-t.C:
		_ = uci.Close()
		return "", engine.Info{}, curated.Errorf(SearchFailed, fmt.Errorf("no reply after %v", uci.timeLimit+grace))
	case <-ctx.Done():
		_ = uci.Close()
		return "", engine.Info{}, curated.Errorf(SearchFailed, ctx.Err())
	}

	if r.err != nil {
		return "", engine.Info{}, curated.Errorf(SearchFailed, r.err)
	}
	if r.res.BestMove == nil {
		return "", engine.Info{}, curated.Errorf(SearchFailed, "no best move")
	}

	info := engine.Info{
		Depth:   r.res.Info.Depth,
		ScoreCP: r.res.Info.Score.CP,
		Mate:    r.res.Info.Score.Mate,
	}
	for _, m := range r.res.Info.PV {
		info.PV = append(info.PV, m.String())
	}

	return r.res.BestMove.String(), info, nil
}

// Close implements the engine.Searcher interface.
func (uci *UCI) Close() error {
	uci.closed.Do(func() {
		uci.err = uci.eng.Close()
	})
	return uci.err
}

// weight files are recognised by their extension
const weightExt = ".pb.gz"

// AvailableWeights lists the weight files in the directory, sorted by name.
// Returns an empty list if the directory does not exist.
func AvailableWeights(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	w := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), weightExt) {
			w = append(w, e.Name())
		}
	}
	sort.Strings(w)

	return w, nil
}

// InstallWeight moves a weight file into the weights directory. The directory
// is created if necessary. Returns the name of the installed weight.
func InstallWeight(src string, dir string) (string, error) {
	name := filepath.Base(src)
	if !strings.HasSuffix(name, weightExt) {
		return "", fmt.Errorf("uci: not a weight file: %s", name)
	}

	err := os.MkdirAll(dir, 0o700)
	if err != nil {
		return "", err
	}

	err = os.Rename(src, filepath.Join(dir, name))
	if err != nil {
		return "", err
	}

	logger.Logf(logger.Allow, "uci", "installed weight %s", name)

	return name, nil
}
