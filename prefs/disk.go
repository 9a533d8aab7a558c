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

package prefs

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/chessboard/chessboard/curated"
)

// DefaultPrefsFile is the default filename of the global preferences file.
const DefaultPrefsFile = "preferences"

// WarningBoilerPlate is the first line of every preferences file.
const WarningBoilerPlate = "*** do not edit this file by hand ***"

// Sentinal errors.
const (
	NoPrefsFile = "prefs: no prefs file (%s)"
	DiskError   = "prefs: %v"
)

// separates key and value in the preferences file.
const fieldSep = " :: "

// Disk represents preference values as stored on disk. More than one Disk
// instance can use the same file; keys not belonging to an instance are
// preserved when that instance saves.
type Disk struct {
	path    string
	entries map[string]pref
}

// NewDisk is the preferred method of initialisation for the Disk type.
func NewDisk(path string) (*Disk, error) {
	return &Disk{
		path:    path,
		entries: make(map[string]pref),
	}, nil
}

// Add preference value to list of values to store/load from Disk. The key
// value is the label written to the preferences file.
func (dsk *Disk) Add(key string, p pref) error {
	if strings.Contains(key, fieldSep) || strings.ContainsAny(key, "\n;") {
		return curated.Errorf(DiskError, fmt.Errorf("illegal key: %s", key))
	}
	if _, ok := dsk.entries[key]; ok {
		return curated.Errorf(DiskError, fmt.Errorf("duplicate key: %s", key))
	}
	dsk.entries[key] = p
	return nil
}

// Save current preference values to disk.
func (dsk *Disk) Save() error {
	// start with the values already in the file
	data, err := readFile(dsk.path)
	if err != nil && !curated.Is(err, NoPrefsFile) {
		return err
	}
	if data == nil {
		data = make(map[string]string)
	}

	for k, v := range dsk.entries {
		data[k] = v.String()
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := strings.Builder{}
	s.WriteString(WarningBoilerPlate)
	s.WriteString("\n")
	for _, k := range keys {
		s.WriteString(fmt.Sprintf("%s%s%s\n", k, fieldSep, data[k]))
	}

	err = os.WriteFile(dsk.path, []byte(s.String()), 0o600)
	if err != nil {
		return curated.Errorf(DiskError, err)
	}

	return nil
}

// Load preference values from disk. Values on the top of the command line
// stack override those in the file.
//
// If saveOnFail is true and the file does not exist then the current values
// are saved, creating the file. The NoPrefsFile error is still returned.
func (dsk *Disk) Load(saveOnFail bool) error {
	data, err := readFile(dsk.path)
	if err != nil {
		if curated.Is(err, NoPrefsFile) && saveOnFail {
			if serr := dsk.Save(); serr != nil {
				return serr
			}
		}
		dsk.commandLine()
		return err
	}

	for k, v := range data {
		if p, ok := dsk.entries[k]; ok {
			if err := p.Set(v); err != nil {
				return curated.Errorf(DiskError, fmt.Errorf("%s: %w", k, err))
			}
		}
	}

	return dsk.commandLine()
}

// Reset all values to their reset value.
func (dsk *Disk) Reset() error {
	for _, p := range dsk.entries {
		if err := p.Reset(); err != nil {
			return curated.Errorf(DiskError, err)
		}
	}
	return nil
}

func (dsk *Disk) commandLine() error {
	for k, p := range dsk.entries {
		if ok, v := GetCommandLinePref(k); ok {
			if err := p.Set(v); err != nil {
				return curated.Errorf(DiskError, fmt.Errorf("%s: %w", k, err))
			}
		}
	}
	return nil
}

// readFile returns the key/value pairs in the preferences file.
func readFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, curated.Errorf(NoPrefsFile, path)
		}
		return nil, curated.Errorf(DiskError, err)
	}
	defer f.Close()

	data := make(map[string]string)

	scanner := bufio.NewScanner(f)

	// first line must be the boilerplate
	if !scanner.Scan() || scanner.Text() != WarningBoilerPlate {
		return nil, curated.Errorf(DiskError, fmt.Errorf("not a valid prefs file (%s)", path))
	}

	for scanner.Scan() {
		kv := strings.SplitN(scanner.Text(), fieldSep, 2)
		if len(kv) == 2 {
			data[kv[0]] = kv[1]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, curated.Errorf(DiskError, err)
	}

	return data, nil
}
