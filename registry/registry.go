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

package registry

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"dirpx.dev/typeson/apis"
)

var (
	// ErrEmptyTypeName is returned when a Set contains the empty name.
	ErrEmptyTypeName = errors.New("typeson(registry): empty type name provided")
	// ErrReservedTypeName is returned for "#" and the JSON kind labels.
	ErrReservedTypeName = errors.New("typeson(registry): reserved type name")
	// ErrNilSpec is returned when a Definer expands to nil or to a Spec without Test.
	ErrNilSpec = errors.New("typeson(registry): adapter has no test")
)

// CyclicTypeName marks back-references in the annotation map.
const CyclicTypeName = "#"

// JSONTypes are the labels JSON kinds report; they cannot be adapter names.
var JSONTypes = []string{"null", "boolean", "number", "string", "array", "object"}

// IsReserved reports whether name cannot be registered.
func IsReserved(name string) bool {
	return name == CyclicTypeName || slices.Contains(JSONTypes, name)
}

// WithFallback inserts the registered adapters at the front of their scan
// list, so they are tried after every other adapter.
func WithFallback() apis.RegisterOption {
	return WithFallbackIndex(0)
}

// WithFallbackIndex inserts the registered adapters at index i of their scan
// list. Lists are scanned from the end, so a lower index is tried later.
func WithFallbackIndex(i int) apis.RegisterOption {
	return func(o *apis.RegisterOptions) {
		o.Fallback = true
		o.Index = i
	}
}

// New constructs an empty Registry. Only cfg.Logger is used here.
func New(cfg apis.Config) apis.Registry {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	r := &registry{log: log}
	r.snap.Store(&snapshot{types: map[string]*apis.Spec{}})
	return r
}

// registry publishes immutable snapshots; readers never lock.
type registry struct {
	// log receives registration traces.
	log logrus.FieldLogger
	// mu serializes writers.
	mu sync.Mutex
	// snap is the current state.
	snap atomic.Pointer[snapshot]
}

// snapshot is never mutated after it has been published.
type snapshot struct {
	plain    []apis.Entry
	nonPlain []apis.Entry
	types    map[string]*apis.Spec
}

func (s *snapshot) clone() *snapshot {
	types := make(map[string]*apis.Spec, len(s.types))
	for k, v := range s.types {
		types[k] = v
	}
	return &snapshot{
		plain:    slices.Clone(s.plain),
		nonPlain: slices.Clone(s.nonPlain),
		types:    types,
	}
}

// evict removes name from both scan lists and the type table.
func (s *snapshot) evict(name string) {
	match := func(e apis.Entry) bool { return e.Name == name }
	s.plain = slices.DeleteFunc(s.plain, match)
	s.nonPlain = slices.DeleteFunc(s.nonPlain, match)
	delete(s.types, name)
}

// pending is one validated registration.
type pending struct {
	name string
	spec *apis.Spec
}

// Register adds every adapter of r in flattening order.
// The whole call is validated before the registry changes.
func (r *registry) Register(item apis.Registrable, opts ...apis.RegisterOption) error {
	var o apis.RegisterOptions
	for _, opt := range opts {
		opt(&o)
	}

	// Validate inputs early.
	var batch []pending
	if item != nil {
		for _, set := range item.Flatten() {
			for _, name := range set.Names() {
				p, err := validate(name, set[name])
				if err != nil {
					return err
				}
				batch = append(batch, p)
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.snap.Load().clone()
	for _, p := range batch {
		next.evict(p.name)
		if p.spec == nil {
			r.log.WithField("type", p.name).Debug("typeson: adapter unregistered")
			continue
		}
		e := apis.Entry{Name: p.name, Spec: p.spec}
		if p.spec.TestPlainObjects {
			next.plain = insert(next.plain, e, o)
		} else {
			next.nonPlain = insert(next.nonPlain, e, o)
		}
		next.types[p.name] = p.spec
		r.log.WithFields(logrus.Fields{
			"type":  p.name,
			"plain": p.spec.TestPlainObjects,
		}).Debug("typeson: adapter registered")
	}
	r.snap.Store(next)
	return nil
}

func validate(name string, d apis.Definer) (pending, error) {
	if name == "" {
		return pending{}, ErrEmptyTypeName
	}
	if IsReserved(name) {
		return pending{}, errors.Wrapf(ErrReservedTypeName, "%q", name)
	}
	if d == nil {
		return pending{name: name}, nil
	}
	spec := d.Define()
	if spec == nil || spec.Test == nil {
		return pending{}, errors.Wrapf(ErrNilSpec, "%q", name)
	}
	return pending{name: name, spec: spec}, nil
}

func insert(list []apis.Entry, e apis.Entry, o apis.RegisterOptions) []apis.Entry {
	if !o.Fallback {
		return append(list, e)
	}
	i := max(0, min(o.Index, len(list)))
	return slices.Insert(list, i, e)
}

// Match scans the selected list from its last entry to its first; the first
// adapter whose test passes wins.
func (r *registry) Match(v any, st *apis.State, plain bool) (apis.Entry, bool) {
	s := r.snap.Load()
	list := s.nonPlain
	if plain {
		list = s.plain
	}
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Spec.Test(v, st) {
			return list[i], true
		}
	}
	return apis.Entry{}, false
}

// HasPlainAdapters reports whether the plain-object list is non-empty.
func (r *registry) HasPlainAdapters() bool {
	return len(r.snap.Load().plain) > 0
}

// Reviver returns the spec registered under name if it can revive.
func (r *registry) Reviver(name string) (*apis.Spec, bool) {
	spec, ok := r.snap.Load().types[name]
	if !ok || !spec.CanRevive() {
		return nil, false
	}
	return spec, true
}

// Types returns a copy of the name -> spec table.
func (r *registry) Types() map[string]*apis.Spec {
	return r.snap.Load().clone().types
}

// Entries returns the adapters in scan-list order, plain list first.
func (r *registry) Entries() []apis.Entry {
	s := r.snap.Load()
	out := make([]apis.Entry, 0, len(s.plain)+len(s.nonPlain))
	out = append(out, s.plain...)
	return append(out, s.nonPlain...)
}

// Count returns the number of registered type names.
func (r *registry) Count() int {
	return len(r.snap.Load().types)
}

// Reset clears all registered adapters.
func (r *registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.Store(&snapshot{types: map[string]*apis.Spec{}})
}
