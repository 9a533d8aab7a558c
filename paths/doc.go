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

// Package paths contains functions to prepare paths to chessboard resources.
//
// The ResourcePath() function prepends the supplied resource with the base
// resource directory. For example, the following returns the path to the
// preferences file:
//
//	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
//
// If the directory ".chessboard" is present in the current directory then
// that is the base path. Otherwise the "chessboard" directory in the user's
// config directory is used (see os.UserConfigDir()). Directories in the
// returned path are created if they do not exist, the final element of the
// path is never created.
package paths
