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

//go:build statsview

package statsview

import (
	"context"
	"fmt"
	"io"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"github.com/chessboard/chessboard/logger"
)

// Address of the statistics server.
const Address = "localhost:12600"

const url = "/debug/statsview"

// Launch the statistics server. It runs until the context is cancelled.
func Launch(ctx context.Context, output io.Writer) {
	viewer.SetConfiguration(viewer.WithAddr(Address))
	mgr := statsview.New()

	go func() {
		mgr.Start()
	}()

	go func() {
		<-ctx.Done()
		mgr.Stop()
	}()

	logger.Logf(logger.Allow, "statsview", "running at %s%s", Address, url)
	fmt.Fprintf(output, "stats server available at %s%s\n", Address, url)
}

// Available returns true if the statistics server can be launched.
func Available() bool {
	return true
}
