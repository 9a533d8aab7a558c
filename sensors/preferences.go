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

package sensors

import (
	"github.com/chessboard/chessboard/prefs"
)

// Preferences for the sensor link.
type Preferences struct {
	dsk *prefs.Disk

	// reading in millivolts beyond which a square is occupied
	Offset prefs.Int

	// number of identical readings required before a square changes
	Consecutive prefs.Int

	Baud prefs.Int
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

	err = p.dsk.Add("sensors.offset", &p.Offset)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("sensors.consecutive", &p.Consecutive)
	if err != nil {
		return nil, err
	}
	err = p.dsk.Add("sensors.baud", &p.Baud)
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
	_ = p.Offset.Set(100)
	_ = p.Consecutive.Set(1)
	_ = p.Baud.Set(115200)
}

// Save current preferences to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
