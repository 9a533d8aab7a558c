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

// Package prefs facilitates the storage of preferences to disk.
//
// Preference values are declared with one of the types in the package (Bool,
// String, Int, Float, Duration, Generic) and then added to a Disk instance
// with a key. For example:
//
//	dsk, _ := prefs.NewDisk(paths.ResourcePath("", prefs.DefaultPrefsFile))
//	var autocommit prefs.Bool
//	dsk.Add("game.autocommit", &autocommit)
//	dsk.Load(true)
//
// The file is a plain list of "key :: value" lines, sorted by key, following
// a boilerplate warning line.
//
// Values can be overridden from the command line with PushCommandLineStack().
// The prefs string is a list of "key::value" pairs separated by semi-colons.
// Overrides are applied when a Disk is loaded and are consumed as they are
// used.
package prefs
