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
	"time"

	"github.com/chessboard/chessboard/prefs"
)

// Preferences for the engine worker and the engine process.
type Preferences struct {
	dsk *prefs.Disk

	// path to the engine executable
	Path prefs.String

	// directory containing weight files
	WeightsDir prefs.String

	// time limit of a single search
	TimeLimit prefs.Duration

	// delay between a failed search and the retry
	Backoff prefs.Duration

	// maximum depth of analysis
	AnalysisDepth prefs.Int
}

// NewPreferences is the preferred method of initialisation for the Preferences
// type. Preferences are stored in the prefs file at path.
func NewPreferences(path string) (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	var err error
	p.dsk, err = prefs.NewDisk(path)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Add("engine.path", &p.Path)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("engine.weightsDir", &p.WeightsDir)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("engine.timeLimit", &p.TimeLimit)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("engine.backoff", &p.Backoff)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("engine.analysisDepth", &p.AnalysisDepth)
	if err != nil {
		return nil, err
	}

	err = p.dsk.Load(true)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() {
	_ = p.Path.Set("lc0")
	_ = p.WeightsDir.Set("weights")
	_ = p.TimeLimit.Set(10 * time.Second)
	_ = p.Backoff.Set(250 * time.Millisecond)
	_ = p.AnalysisDepth.Set(12)
}

// Load preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load(false)
}

// Save current preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
