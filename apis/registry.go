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

// Registry holds the adapters known to an engine.
// Implementations must be safe for concurrent readers while a writer registers.
type Registry interface {
	// Register adds every adapter of r. A name that is already present is
	// evicted first. Reserved names fail the whole call without side effects.
	Register(r Registrable, opts ...RegisterOption) error
	// Match returns the adapter chosen for v, scanning the plain-object list
	// when plain is true and the non-plain list otherwise.
	Match(v any, st *State, plain bool) (Entry, bool)
	// HasPlainAdapters reports whether any adapter targets plain objects.
	HasPlainAdapters() bool
	// Reviver returns the adapter registered under name if it can revive.
	Reviver(name string) (*Spec, bool)
	// Types returns a snapshot of name -> spec for introspection.
	Types() map[string]*Spec
	// Entries returns the adapters in scan-list order (plain list first).
	Entries() []Entry
	// Count returns the number of registered type names.
	Count() int
	// Reset clears all registered adapters.
	Reset()
}

// Entry is a single registered adapter.
type Entry struct {
	// Name is the type name recorded in $types.
	Name string
	// Spec is the adapter definition.
	Spec *Spec
}

// RegisterOptions controls where Register inserts adapters.
type RegisterOptions struct {
	// Fallback requests insertion at Index instead of appending.
	Fallback bool
	// Index is the insertion index used when Fallback is set.
	// Out-of-range values are clamped.
	Index int
}

// RegisterOption mutates RegisterOptions.
type RegisterOption func(*RegisterOptions)
