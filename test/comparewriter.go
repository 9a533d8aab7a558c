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

package test

import "sync"

// CompareWriter is an implementation of the io.Writer interface. It should be
// used to capture output and to compare with predefined strings. It is safe to
// write to from more than one goroutine.
type CompareWriter struct {
	crit   sync.Mutex
	buffer []byte
}

func (tw *CompareWriter) Write(p []byte) (n int, err error) {
	tw.crit.Lock()
	defer tw.crit.Unlock()
	tw.buffer = append(tw.buffer, p...)
	return len(p), nil
}

// Clear empties the buffer.
func (tw *CompareWriter) Clear() {
	tw.crit.Lock()
	defer tw.crit.Unlock()
	tw.buffer = tw.buffer[:0]
}

// Compare buffered output with predefined/example string.
func (tw *CompareWriter) Compare(s string) bool {
	return s == tw.String()
}

// String implements the fmt.Stringer interface.
func (tw *CompareWriter) String() string {
	tw.crit.Lock()
	defer tw.crit.Unlock()
	return string(tw.buffer)
}
