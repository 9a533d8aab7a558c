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

package prefs

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	commandLineCrit  sync.Mutex
	commandLineStack = make([]map[string]Value, 0)
)

// SizeCommandLineStack returns the number of groups that have been pushed.
func SizeCommandLineStack() int {
	commandLineCrit.Lock()
	defer commandLineCrit.Unlock()
	return len(commandLineStack)
}

// PopCommandLineStack forgets the most recent group pushed by
// PushCommandLineStack(). The returned string contains the preferences in the
// group that were never consumed, sorted by key.
func PopCommandLineStack() string {
	commandLineCrit.Lock()
	defer commandLineCrit.Unlock()

	if len(commandLineStack) == 0 {
		return ""
	}

	popped := commandLineStack[len(commandLineStack)-1]

	commandLineStack = commandLineStack[:len(commandLineStack)-1]

	keys := make([]string, 0, len(popped))
	for key := range popped {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	s := strings.Builder{}
	for _, key := range keys {
		s.WriteString(fmt.Sprintf("%s::%v; ", key, popped[key]))
	}

	return strings.TrimSuffix(s.String(), "; ")
}

// PushCommandLineStack parses a command line and adds it as a new group.
func PushCommandLineStack(prefs string) {
	commandLineCrit.Lock()
	defer commandLineCrit.Unlock()

	cl := make(map[string]Value)
	for _, p := range strings.Split(prefs, ";") {
		// pairs without exactly one separator are ignored
		kv := strings.Split(p, "::")
		if len(kv) == 2 {
			cl[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}
	commandLineStack = append(commandLineStack, cl)
}

// GetCommandLinePref value from current group. The value is deleted when it is returned.
func GetCommandLinePref(key string) (bool, Value) {
	commandLineCrit.Lock()
	defer commandLineCrit.Unlock()

	if len(commandLineStack) == 0 {
		return false, nil
	}

	cl := commandLineStack[len(commandLineStack)-1]
	if v, ok := cl[key]; ok {
		delete(cl, key)
		return true, v
	}

	return false, nil
}
