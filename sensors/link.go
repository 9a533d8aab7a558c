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
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pkg/term"

	"github.com/chessboard/chessboard/curated"
	"github.com/chessboard/chessboard/events"
	"github.com/chessboard/chessboard/logger"
)

// Sentinal errors.
const (
	LinkError     = "sensors: %v"
	PromptTimeout = "sensors: no prompt after %v"
)

// the sensor controller's command prompt
const prompt = "chess:~$"

// how long to wait for the prompt after a command
const promptTimeout = 5 * time.Second

// Publisher is the part of the event bus used by the link.
type Publisher interface {
	Publish(ev events.Event)
}

// Link is a connection to the sensor controller. Must be created with
// NewLink() or Open().
type Link struct {
	port  io.ReadWriteCloser
	pub   Publisher
	prefs *Preferences

	close sync.Once
}

// Open the serial device and return a new Link.
func Open(device string, pub Publisher, prefs *Preferences) (*Link, error) {
	if prefs == nil {
		prefs = &Preferences{}
		prefs.SetDefaults()
	}

	port, err := term.Open(device, term.Speed(prefs.Baud.Get().(int)), term.RawMode)
	if err != nil {
		return nil, curated.Errorf(LinkError, err)
	}

	logger.Logf(logger.Allow, "sensors", "opened %s", device)

	return NewLink(port, pub, prefs), nil
}

// NewLink is the preferred method of initialisation for the Link type when
// the port is already open. If prefs is nil the default preferences are used.
func NewLink(port io.ReadWriteCloser, pub Publisher, prefs *Preferences) *Link {
	if prefs == nil {
		prefs = &Preferences{}
		prefs.SetDefaults()
	}
	return &Link{
		port:  port,
		pub:   pub,
		prefs: prefs,
	}
}

// Close the link.
func (l *Link) Close() error {
	var err error
	l.close.Do(func() {
		err = l.port.Close()
	})
	return err
}

// Run starts the sensor monitor and publishes an events.OccupancyChanged for
// every change. Run returns when the context is cancelled, in which case the
// link is closed, or when the link fails.
func (l *Link) Run(ctx context.Context) error {
	if _, err := io.WriteString(l.port, "board monitor offset\n"); err != nil {
		return curated.Errorf(LinkError, err)
	}

	logger.Log(logger.Allow, "sensors", "monitoring started")

	// closing the port unblocks the scanner
	stop := context.AfterFunc(ctx, func() {
		_, _ = io.WriteString(l.port, "q")
		_ = l.Close()
	})
	defer stop()

	p := NewParser(l.prefs.Offset.Get().(int), l.prefs.Consecutive.Get().(int))

	scn := bufio.NewScanner(l.port)
	for scn.Scan() {
		if ev, ok := p.Line(scn.Text()); ok {
			l.pub.Publish(ev)
		}
	}

	if ctx.Err() != nil {
		return nil
	}
	if err := scn.Err(); err != nil {
		return curated.Errorf(LinkError, err)
	}
	return curated.Errorf(LinkError, io.EOF)
}

// Command sends a single command to the sensor controller and returns the
// output up to the next prompt. Must not be used while Run() is active.
func (l *Link) Command(cmd string) (string, error) {
	if _, err := fmt.Fprintf(l.port, "%s\n", cmd); err != nil {
		return "", curated.Errorf(LinkError, err)
	}

	type result struct {
		s   string
		err error
	}
	done := make(chan result, 1)

	go func() {
		var b strings.Builder
		buf := make([]byte, 256)
		for {
			n, err := l.port.Read(buf)
			b.Write(buf[:n])
			if i := strings.Index(b.String(), prompt); i != -1 {
				done <- result{s: b.String()[:i]}
				return
			}
			if err != nil {
				done <- result{err: curated.Errorf(LinkError, err)}
				return
			}
		}
	}()

	select {
	case r := <-done:
		return r.s, r.err
	case <-time.After(promptTimeout):
		_ = l.Close()
		return "", curated.Errorf(PromptTimeout, promptTimeout)
	}
}

// Calibrate the sensors. There must be no pieces on the board.
func (l *Link) Calibrate() error {
	out, err := l.Command("board calibrate set")
	if err != nil {
		return err
	}
	logger.Logf(logger.Allow, "sensors", "calibrated: %s", strings.TrimSpace(out))
	return nil
}
