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
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Value represents the actual Go preference value.
type Value interface{}

// types supported by the prefs system must implement the pref interface.
type pref interface {
	fmt.Stringer
	Set(value Value) error
	Get() Value
	Reset() error
}

// hooks are shared by all the atomic preference types.
type hooks struct {
	hookPre  func(value Value) error
	hookPost func(value Value) error
}

// SetHookPre sets the callback function to be called just before the prefs
// value is updated. The callback is run even if the value hasn't changed. An
// error from the callback prevents the update.
func (h *hooks) SetHookPre(f func(value Value) error) {
	h.hookPre = f
}

// SetHookPost sets the callback function to be called just after the prefs
// value is updated. The callback is run even if the value hasn't changed.
func (h *hooks) SetHookPost(f func(value Value) error) {
	h.hookPost = f
}

func (h *hooks) store(v *atomic.Value, nv Value) error {
	if h.hookPre != nil {
		if err := h.hookPre(nv); err != nil {
			return err
		}
	}
	v.Store(nv)
	if h.hookPost != nil {
		if err := h.hookPost(nv); err != nil {
			return err
		}
	}
	return nil
}

// Bool implements a boolean type in the prefs system.
type Bool struct {
	hooks
	value atomic.Value // bool
}

func (p *Bool) String() string {
	return fmt.Sprintf("%v", p.Get())
}

// Set new value to Bool type. New value must be of type bool or string. A
// string value of anything other than "true" (case insensitive) will set the
// value to false.
func (p *Bool) Set(v Value) error {
	var nv bool
	switch v := v.(type) {
	case bool:
		nv = v
	case string:
		nv = strings.ToLower(strings.TrimSpace(v)) == "true"
	default:
		return fmt.Errorf("set: cannot convert %T to prefs.Bool", v)
	}
	return p.store(&p.value, nv)
}

// Get returns the raw pref value.
func (p *Bool) Get() Value {
	ov := p.value.Load()
	if ov == nil {
		return false
	}
	return ov.(bool)
}

// Reset sets the boolean value to false.
func (p *Bool) Reset() error {
	return p.Set(false)
}

// String implements a string type in the prefs system.
type String struct {
	hooks
	value atomic.Value // string
}

func (p *String) String() string {
	ov := p.value.Load()
	if ov == nil {
		return ""
	}
	return ov.(string)
}

// Set new value to String type.
func (p *String) Set(v Value) error {
	return p.store(&p.value, fmt.Sprintf("%v", v))
}

// Get returns the raw pref value.
func (p *String) Get() Value {
	return p.String()
}

// Reset sets the string value to the empty string.
func (p *String) Reset() error {
	return p.Set("")
}

// Int implements an integer type in the prefs system.
type Int struct {
	hooks
	value atomic.Value // int
}

func (p *Int) String() string {
	return fmt.Sprintf("%d", p.Get())
}

// Set new value to Int type. New value can be an int or string.
func (p *Int) Set(v Value) error {
	var nv int
	switch v := v.(type) {
	case int64:
		nv = int(v)
	case int32:
		nv = int(v)
	case int:
		nv = v
	case string:
		var err error
		nv, err = strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("set: cannot convert %T to prefs.Int: %w", v, err)
		}
	default:
		return fmt.Errorf("set: cannot convert %T to prefs.Int", v)
	}
	return p.store(&p.value, nv)
}

// Get returns the raw pref value.
func (p *Int) Get() Value {
	ov := p.value.Load()
	if ov == nil {
		return 0
	}
	return ov.(int)
}

// Reset sets the int value to zero.
func (p *Int) Reset() error {
	return p.Set(0)
}

// Float implements a floating point type in the prefs system.
type Float struct {
	hooks
	value atomic.Value // float64
}

func (p *Float) String() string {
	return fmt.Sprintf("%.3f", p.Get())
}

// Set new value to Float type. New value can be a float, an int or string.
func (p *Float) Set(v Value) error {
	var nv float64
	switch v := v.(type) {
	case float64:
		nv = v
	case float32:
		nv = float64(v)
	case int:
		nv = float64(v)
	case string:
		var err error
		nv, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("set: cannot convert %T to prefs.Float: %w", v, err)
		}
	default:
		return fmt.Errorf("set: cannot convert %T to prefs.Float", v)
	}
	return p.store(&p.value, nv)
}

// Get returns the raw pref value.
func (p *Float) Get() Value {
	ov := p.value.Load()
	if ov == nil {
		return float64(0.0)
	}
	return ov.(float64)
}

// Reset sets the float value to zero.
func (p *Float) Reset() error {
	return p.Set(0.0)
}

// Duration implements a time.Duration type in the prefs system. Strings are
// parsed with time.ParseDuration(), eg. "10s" or "250ms".
type Duration struct {
	hooks
	value atomic.Value // time.Duration
}

func (p *Duration) String() string {
	return p.Get().(time.Duration).String()
}

// Set new value to Duration type. New value can be a time.Duration or string.
func (p *Duration) Set(v Value) error {
	var nv time.Duration
	switch v := v.(type) {
	case time.Duration:
		nv = v
	case string:
		var err error
		nv, err = time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("set: cannot convert %T to prefs.Duration: %w", v, err)
		}
	default:
		return fmt.Errorf("set: cannot convert %T to prefs.Duration", v)
	}
	return p.store(&p.value, nv)
}

// Get returns the raw pref value.
func (p *Duration) Get() Value {
	ov := p.value.Load()
	if ov == nil {
		return time.Duration(0)
	}
	return ov.(time.Duration)
}

// Reset sets the duration to zero.
func (p *Duration) Reset() error {
	return p.Set(time.Duration(0))
}

// Generic is a general purpose preferences type, useful for values that
// cannot be represented by a single live value. You must use the NewGeneric()
// function to initialise a new instance of Generic.
//
// The Generic type has no hooks and is protected by a mutex rather than an
// atomic value.
type Generic struct {
	crit sync.Mutex
	set  func(Value) error
	get  func() Value

	// the last value sent to the set() function
	mostRecentSetValue Value
}

// GenericGetValueUndefined is a special return value for the get() function
// (see NewGeneric()). It indicates that the value is currently unavailable and
// the most recent previous value should be used.
const GenericGetValueUndefined = "GenericGetValueUndefined"

// NewGeneric is the preferred method of initialisation for the Generic type.
func NewGeneric(set func(Value) error, get func() Value) *Generic {
	return &Generic{
		set: set,
		get: get,
	}
}

func (p *Generic) String() string {
	return fmt.Sprintf("%v", p.Get())
}

// Set triggers the set value procedure for the generic type.
func (p *Generic) Set(v Value) error {
	p.crit.Lock()
	defer p.crit.Unlock()

	s := fmt.Sprintf("%v", v)
	p.mostRecentSetValue = s
	return p.set(s)
}

// Get triggers the get value procedure for the generic type.
func (p *Generic) Get() Value {
	p.crit.Lock()
	defer p.crit.Unlock()

	s := p.get()
	if s == GenericGetValueUndefined {
		s = p.mostRecentSetValue
	} else {
		p.mostRecentSetValue = s
	}

	return s
}

// Reset sets the generic value to the empty string.
func (p *Generic) Reset() error {
	return p.Set("")
}
