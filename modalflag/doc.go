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

// Package modalflag wraps the flag package of the standard library with
// support for program modes. Each mode has its own set of flags, and a mode
// can have sub-modes of its own.
//
// Arguments are given once with NewArgs() and are then consumed one layer at a
// time with Parse(). For example, a program with a default RUN mode and a
// HISTORY mode:
//
//	md := modalflag.Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("RUN", "HISTORY")
//
//	switch r, err := md.Parse(); r {
//	case modalflag.Help:
//		return nil
//	case modalflag.Error:
//		return err
//	}
//
//	switch md.Mode() {
//	case "RUN":
//		md.NewMode()
//		listen := md.AddString("listen", ":8080", "address of the HTTP server")
//		...
//	}
//
// A mode is selected by naming it as the first non-flag argument. Mode names
// are case insensitive. If no mode is named then the first sub-mode is used.
//
// Flags can be bound to an existing variable with the Bind*() functions. The
// current value of the variable is the flag's default, which is how values
// taken from the environment are overridden by the command line.
package modalflag
