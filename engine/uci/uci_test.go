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

package uci_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chessboard/chessboard/curated"
	"github.com/chessboard/chessboard/engine/uci"
	"github.com/chessboard/chessboard/test"
)

func TestUnavailable(t *testing.T) {
	_, err := uci.NewUCI(filepath.Join(t.TempDir(), "no-such-engine"), "", time.Second)
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, uci.EngineUnavailable))
}

func TestWeights(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "weights")

	w, err := uci.AvailableWeights(dir)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(w), 0)

	src := t.TempDir()
	for _, n := range []string{"maia-1500.pb.gz", "maia-1100.pb.gz", "notes.txt"} {
		test.DemandSuccess(t, os.WriteFile(filepath.Join(src, n), []byte{0}, 0o600))
	}

	_, err = uci.InstallWeight(filepath.Join(src, "notes.txt"), dir)
	test.ExpectFailure(t, err)

	for _, n := range []string{"maia-1500.pb.gz", "maia-1100.pb.gz"} {
		name, err := uci.InstallWeight(filepath.Join(src, n), dir)
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, name, n)
	}

	w, err = uci.AvailableWeights(dir)
	test.ExpectSuccess(t, err)
	test.DemandEquality(t, len(w), 2)
	test.ExpectEquality(t, w[0], "maia-1100.pb.gz")
	test.ExpectEquality(t, w[1], "maia-1500.pb.gz")
}
