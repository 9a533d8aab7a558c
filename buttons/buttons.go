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

package buttons

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/notnil/chess"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"

	"github.com/chessboard/chessboard/events"
	"github.com/chessboard/chessboard/logger"
)

// list of key codes for the buttons
const (
	KeyCarriageReturn = 13
	KeyLineFeed       = 10
	KeySpace          = 32
)

// Decode a key code into the side of the button that sent it.
func Decode(key byte) (chess.Color, bool) {
	switch key {
	case KeyCarriageReturn, KeyLineFeed:
		return chess.White, true
	case KeySpace:
		return chess.Black, true
	}
	return chess.NoColor, false
}

// Publisher is the part of the event bus used by the keypad.
type Publisher interface {
	Publish(ev events.Event)
}

// Read key codes from r and publish a TimeButtonPressed event for every
// button. Returns nil when the context is cancelled or the input is
// exhausted.
func Read(ctx context.Context, r io.Reader, pub Publisher) error {
	b := bufio.NewReader(r)
	for {
		key, err := b.ReadByte()
		if err != nil {
			if err == io.EOF || ctx.Err() != nil {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		if side, ok := Decode(key); ok {
			pub.Publish(events.TimeButtonPressed{Side: side})
		}
	}
}

// Keypad reads the buttons from a terminal.
type Keypad struct {
	input *os.File

	canAttr    unix.Termios
	cbreakAttr unix.Termios
}

// NewKeypad is the preferred method of initialisation for the Keypad type.
func NewKeypad(input *os.File) (*Keypad, error) {
	if input == nil {
		return nil, fmt.Errorf("buttons: keypad requires an input file")
	}

	k := &Keypad{input: input}

	// prepare the attributes for the two terminal modes we'll be using
	if err := termios.Tcgetattr(k.input.Fd(), &k.canAttr); err != nil {
		return nil, fmt.Errorf("buttons: %w", err)
	}
	k.cbreakAttr = k.canAttr
	termios.Cfmakecbreak(&k.cbreakAttr)

	return k, nil
}

// Run reads the buttons until the context is cancelled. The terminal is
// returned to canonical mode on exit.
func (k *Keypad) Run(ctx context.Context, pub Publisher) error {
	if err := termios.Tcsetattr(k.input.Fd(), termios.TCIFLUSH, &k.cbreakAttr); err != nil {
		return fmt.Errorf("buttons: %w", err)
	}
	defer func() {
		_ = termios.Tcsetattr(k.input.Fd(), termios.TCIFLUSH, &k.canAttr)
	}()

	logger.Log(logger.Allow, "buttons", "reading time buttons")

	// a blocked read on a terminal can't be interrupted so the reader is
	// abandoned when the context is cancelled
	done := make(chan error, 1)
	go func() {
		done <- Read(ctx, k.input, pub)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return nil
	}
}
