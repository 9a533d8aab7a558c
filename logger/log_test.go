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

package logger_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/chessboard/chessboard/logger"
	"github.com/chessboard/chessboard/test"
)

func TestTail(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Write(w)
	test.ExpectEquality(t, w.String(), "")

	log.Log(logger.Allow, "clock", "white to move")
	log.Log(logger.Allow, "engine", "depth 3")

	// too many entries is fine
	log.Tail(w, 100)
	test.ExpectEquality(t, w.String(), "clock: white to move\nengine: depth 3\n")

	w.Reset()
	log.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "engine: depth 3\n")

	w.Reset()
	log.Tail(w, 0)
	test.ExpectEquality(t, w.String(), "")
}

func TestRepeatedEntries(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log(logger.Allow, "scanner", "invalid placement")
	log.Log(logger.Allow, "scanner", "invalid placement")
	log.Log(logger.Allow, "scanner", "invalid placement")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "scanner: invalid placement (repeat x3)\n")
}

func TestMaximumEntries(t *testing.T) {
	log := logger.NewLogger(2)
	w := &strings.Builder{}

	log.Log(logger.Allow, "a", "1")
	log.Log(logger.Allow, "b", "2")
	log.Log(logger.Allow, "c", "3")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "b: 2\nc: 3\n")
}

func TestWriteRecent(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log(logger.Allow, "a", "1")
	log.WriteRecent(w)
	test.ExpectEquality(t, w.String(), "a: 1\n")

	w.Reset()
	log.Log(logger.Allow, "b", "2")
	log.WriteRecent(w)
	test.ExpectEquality(t, w.String(), "b: 2\n")

	w.Reset()
	log.WriteRecent(w)
	test.ExpectEquality(t, w.String(), "")
}

func TestEcho(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.SetEcho(w, false)
	log.Log(logger.Allow, "bus", "stopped")
	test.ExpectEquality(t, w.String(), "bus: stopped\n")

	log.SetEcho(nil, false)
	log.Log(logger.Allow, "bus", "started")
	test.ExpectEquality(t, w.String(), "bus: stopped\n")
}

type prohibitLogging struct {
	allow bool
}

func (p prohibitLogging) AllowLogging() bool {
	return p.allow
}

func TestPermissions(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Log(prohibitLogging{allow: false}, "tag", "detail")
	log.Log(logger.Deny, "tag", "detail")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "")

	log.Log(prohibitLogging{allow: true}, "tag", "detail")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "tag: detail\n")
}

type stringerTest struct{}

func (_ stringerTest) String() string {
	return "stringer test"
}

func TestDetailTypes(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	err := errors.New("engine crashed")
	log.Log(logger.Allow, "tag", err)
	log.Logf(logger.Allow, "tag", "wrapped: %v", err)
	log.Log(logger.Allow, "tag", stringerTest{})
	log.Log(logger.Allow, "tag", 100)
	log.Write(w)
	test.ExpectEquality(t, w.String(), "tag: engine crashed\ntag: wrapped: engine crashed\ntag: stringer test\ntag: 100\n")
}
