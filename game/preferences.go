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

package game

import (
	"github.com/chessboard/chessboard/prefs"
)

// Preferences for the game controller.
type Preferences struct {
	dsk *prefs.Disk

	// apply a legal move as soon as it is seen on the board. if false, a
	// move must be claimed by pressing the time button
	Autocommit prefs.Bool

	// analyse the position while a human player is thinking
	Analysis      prefs.Bool
	AnalysisDepth prefs.Int

	// depth range used for engine players that do not specify one
	MinDepth prefs.Int
	MaxDepth prefs.Int
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

	err = p.dsk.Add("game.autocommit", &p.Autocommit)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("game.analysis", &p.Analysis)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("game.analysisDepth", &p.AnalysisDepth)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("game.minDepth", &p.MinDepth)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("game.maxDepth", &p.MaxDepth)
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
	_ = p.Autocommit.Set(true)
	_ = p.Analysis.Set(true)
	_ = p.AnalysisDepth.Set(12)
	_ = p.MinDepth.Set(2)
	_ = p.MaxDepth.Set(4)
}

// Load preferences from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load(false)
}

// Save current preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
