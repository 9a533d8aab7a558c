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

package modalflag

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

const modeSeparator = "/"

// Result is returned by the Parse() function.
type Result int

// List of valid Result values.
const (
	// continue with command line processing. check Mode() if sub-modes were
	// added before the call to Parse()
	Continue Result = iota

	// help was requested and has been printed to the Output writer
	Help

	// the arguments could not be parsed. the error is also returned
	Error
)

// Modes handles command line arguments with program modes. The Output field
// should be set before calling Parse() or help messages will not be seen.
type Modes struct {
	Output io.Writer

	flags *flag.FlagSet
	usage strings.Builder

	args    []string
	argsIdx int

	// sub-modes for the next call to Parse(). the first is the default
	subModes []string

	// every mode selected so far
	path []string

	extraHelp string
}

func (md *Modes) String() string {
	return md.Path()
}

// Mode returns the most recently selected mode.
func (md *Modes) Mode() string {
	if len(md.path) == 0 {
		return ""
	}
	return md.path[len(md.path)-1]
}

// Path returns every mode selected so far, separated by a slash.
func (md *Modes) Path() string {
	return strings.Join(md.path, modeSeparator)
}

// NewArgs sets the arguments to be parsed and starts a new mode.
func (md *Modes) NewArgs(args []string) {
	md.args = args
	md.argsIdx = 0
	md.path = md.path[:0]
	md.NewMode()
}

// NewMode discards the flags and sub-modes of the previous mode. Arguments not
// consumed by the previous Parse() are still available.
func (md *Modes) NewMode() {
	md.subModes = md.subModes[:0]
	md.extraHelp = ""
	md.usage.Reset()
	md.flags = flag.NewFlagSet("", flag.ContinueOnError)
	md.flags.SetOutput(&md.usage)
}

// AdditionalHelp is printed after the list of flags and sub-modes.
func (md *Modes) AdditionalHelp(help string) {
	md.extraHelp = help
}

// AddSubModes adds to the list of sub-modes for the next call to Parse(). The
// first sub-mode added is the default.
func (md *Modes) AddSubModes(submodes ...string) {
	for _, s := range submodes {
		md.subModes = append(md.subModes, strings.ToUpper(s))
	}
}

// Parse the arguments for the current mode.
func (md *Modes) Parse() (Result, error) {
	err := md.flags.Parse(md.args[md.argsIdx:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			md.help()
			return Help, nil
		}
		return Error, err
	}

	// the flag set stops at the first non-flag argument
	md.argsIdx = len(md.args) - md.flags.NArg()

	if len(md.subModes) == 0 {
		return Continue, nil
	}

	mode := md.subModes[0]
	arg := strings.ToUpper(md.flags.Arg(0))
	for _, s := range md.subModes {
		if s == arg {
			mode = s
			md.argsIdx++
			break
		}
	}
	md.path = append(md.path, mode)

	return Continue, nil
}

func (md *Modes) help() {
	if md.Output == nil {
		return
	}

	var flags strings.Builder
	md.flags.SetOutput(&flags)
	md.flags.PrintDefaults()
	md.flags.SetOutput(&md.usage)

	if flags.Len() == 0 && len(md.subModes) == 0 && md.extraHelp == "" {
		if p := md.Path(); p != "" {
			fmt.Fprintf(md.Output, "No help available for %s\n", p)
		} else {
			fmt.Fprintln(md.Output, "No help available")
		}
		return
	}

	if p := md.Path(); p != "" {
		fmt.Fprintf(md.Output, "Usage for %s mode:\n", p)
	} else {
		fmt.Fprintln(md.Output, "Usage:")
	}

	io.WriteString(md.Output, flags.String())

	if len(md.subModes) > 0 {
		if flags.Len() > 0 {
			fmt.Fprintln(md.Output)
		}
		fmt.Fprintf(md.Output, "  modes: %s (default %s)\n", strings.Join(md.subModes, ", "), md.subModes[0])
	}

	if md.extraHelp != "" {
		fmt.Fprintf(md.Output, "\n%s\n", md.extraHelp)
	}
}

// RemainingArgs returns the arguments that are neither flags nor a sub-mode.
func (md *Modes) RemainingArgs() []string {
	return md.args[md.argsIdx:]
}

// GetArg returns the numbered argument of RemainingArgs(). Returns the empty
// string if there is no such argument.
func (md *Modes) GetArg(i int) string {
	r := md.RemainingArgs()
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// AddBool flag for next call to Parse().
func (md *Modes) AddBool(name string, value bool, usage string) *bool {
	return md.flags.Bool(name, value, usage)
}

// AddString flag for next call to Parse().
func (md *Modes) AddString(name string, value string, usage string) *string {
	return md.flags.String(name, value, usage)
}

// AddInt flag for next call to Parse().
func (md *Modes) AddInt(name string, value int, usage string) *int {
	return md.flags.Int(name, value, usage)
}

// AddDuration flag for next call to Parse().
func (md *Modes) AddDuration(name string, value time.Duration, usage string) *time.Duration {
	return md.flags.Duration(name, value, usage)
}

// BindBool binds a flag to an existing variable. The current value is the
// default.
func (md *Modes) BindBool(p *bool, name string, usage string) {
	md.flags.BoolVar(p, name, *p, usage)
}

// BindString binds a flag to an existing variable. The current value is the
// default.
func (md *Modes) BindString(p *string, name string, usage string) {
	md.flags.StringVar(p, name, *p, usage)
}

// BindInt binds a flag to an existing variable. The current value is the
// default.
func (md *Modes) BindInt(p *int, name string, usage string) {
	md.flags.IntVar(p, name, *p, usage)
}

// BindDuration binds a flag to an existing variable. The current value is the
// default.
func (md *Modes) BindDuration(p *time.Duration, name string, usage string) {
	md.flags.DurationVar(p, name, *p, usage)
}

// Visit calls fn for every flag that was set on the command line.
func (md *Modes) Visit(fn func(flag string)) {
	md.flags.Visit(func(f *flag.Flag) {
		fn(f.Name)
	})
}
