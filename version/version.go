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

// Package version reports the build version of the program. The number is set
// at link time:
//
//	go build -ldflags "-X github.com/chessboard/chessboard/version.number=v1.2.0"
//
// Otherwise the version is "unreleased" if there is VCS information in the
// build, or "local" if there isn't (which is the case with "go run").
package version

import (
	"fmt"
	"runtime/debug"
)

// ApplicationName is the name to use when referring to the program.
const ApplicationName = "Chessboard"

// set by the linker
var number string

// Info describes the build.
type Info struct {
	Version  string `json:"version"`
	Revision string `json:"revision"`

	// the build has a version number
	Release bool `json:"release"`
}

func (i Info) String() string {
	if i.Release {
		return fmt.Sprintf("%s %s", ApplicationName, i.Version)
	}
	return fmt.Sprintf("%s %s (%s)", ApplicationName, i.Version, i.Revision)
}

var build Info

// Get returns the build information.
func Get() Info {
	return build
}

func init() {
	build = fromBuildInfo(number, debug.ReadBuildInfo)
}

func fromBuildInfo(number string, read func() (*debug.BuildInfo, bool)) Info {
	var vcs bool
	var revision string
	var modified bool

	if info, ok := read(); ok {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs":
				vcs = true
			case "vcs.revision":
				revision = s.Value
			case "vcs.modified":
				modified = s.Value == "true"
			}
		}
	}

	var i Info

	switch {
	case revision == "":
		i.Revision = "no revision information"
	case modified:
		i.Revision = revision + "+dirty"
	default:
		i.Revision = revision
	}

	switch {
	case number != "":
		i.Version = number
		i.Release = true
	case vcs:
		i.Version = "unreleased"
	default:
		i.Version = "local"
	}

	return i
}
