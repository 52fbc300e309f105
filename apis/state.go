/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package apis

// KeyOwnership tells an adapter how the value it is testing was reached.
type KeyOwnership uint8

const (
	// KeyUnset means the value was not reached through iteration (the root).
	KeyUnset KeyOwnership = iota
	// KeyOwn means the value is an own member of its container.
	KeyOwn
	// KeyNotOwn means the value is a promoted struct field or an unset array slot.
	KeyNotOwn
)

// IterateMode forces how a non-plain value is walked.
type IterateMode string

const (
	// IterateDefault walks only plain containers.
	IterateDefault IterateMode = ""
	// IterateArray walks the value's elements into a []any clone.
	IterateArray IterateMode = "array"
	// IterateObject walks the value's members into a map[string]any clone.
	IterateObject IterateMode = "object"
)

// State is the mutable bag shared by every adapter call of one top-level
// encapsulate or revive call. Adapters may keep bookkeeping in it with Get
// and Set; the exported flags are maintained by the engine, except that a
// Replace may set IterateIn or IterateUnsetNumeric for the node it returns.
type State struct {
	// Type is the name of the adapter that last matched.
	Type string
	// Replaced is true while the output of a replacement is being walked.
	Replaced bool
	// OwnKeys describes how the current value was reached.
	OwnKeys KeyOwnership
	// IterateIn forces member iteration of the current value.
	IterateIn IterateMode
	// IterateUnsetNumeric additionally walks Hole slots of the current []any.
	IterateUnsetNumeric bool

	values map[string]any
}

// NewState returns an empty State.
func NewState() *State {
	return &State{}
}

// Get returns adapter bookkeeping stored under key.
func (s *State) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores adapter bookkeeping under key.
func (s *State) Set(key string, v any) {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	s.values[key] = v
}

// EnterChild prepares s for walking a member reached with the given
// ownership: the per-node flags are cleared and the returned func restores
// them. OwnKeys is not restored.
func (s *State) EnterChild(own KeyOwnership) (restore func()) {
	s.OwnKeys = own
	typ, replaced, in, unset := s.Type, s.Replaced, s.IterateIn, s.IterateUnsetNumeric
	s.Type, s.Replaced, s.IterateIn, s.IterateUnsetNumeric = "", false, IterateDefault, false
	return func() {
		s.Type, s.Replaced, s.IterateIn, s.IterateUnsetNumeric = typ, replaced, in, unset
	}
}
