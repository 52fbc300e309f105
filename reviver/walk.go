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

package reviver

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"dirpx.dev/typeson/apis"
	"dirpx.dev/typeson/encapsulator"
	"dirpx.dev/typeson/registry"
	"dirpx.dev/typeson/utils/keypath"
	uref "dirpx.dev/typeson/utils/reflect"
)

// reference is a "#" marker waiting for its target.
type reference struct {
	keyPath string
	path    string
	parent  any
	key     any
}

// walk revives v found at kp. parent and key locate the slot v will be
// stored in; both are nil for the root. The result is apis.Hole when nothing
// must be stored (yet).
func (r *run) walk(kp string, v any, parent any, key any) (any, error) {
	if r.ignoreTypes && kp == encapsulator.TypesKey {
		return apis.Hole, nil
	}

	ann, annotated := r.types[kp]
	annotated = annotated && ann != nil
	var s *slot
	if annotated && ann != registry.CyclicTypeName {
		chain, err := chainOf(ann)
		if err != nil {
			return nil, errors.Wrapf(err, "at %q", kp)
		}
		s = &slot{keyPath: kp, parent: parent, key: key, chain: chain, owner: r.owner}
	}

	switch c := v.(type) {
	case []any:
		clone := make([]any, len(c))
		for i := range clone {
			clone[i] = apis.Hole
		}
		if r.target == nil {
			r.target = clone
		}
		restore := r.enter(s)
		for i, el := range c {
			val, err := r.walk(keypath.JoinIndex(kp, i), el, clone, i)
			if err != nil {
				return nil, err
			}
			store(clone, i, val)
		}
		restore()
		v = clone
		r.resolve()
	case map[string]any:
		clone := make(map[string]any, len(c))
		if r.target == nil {
			r.target = clone
		}
		restore := r.enter(s)
		for _, k := range uref.SortedKeys(c) {
			val, err := r.walk(keypath.Join(kp, k), c[k], clone, k)
			if err != nil {
				return nil, err
			}
			store(clone, k, val)
		}
		restore()
		v = clone
		r.resolve()
	}

	if !annotated {
		return v, nil
	}
	if s == nil {
		return r.reference(kp, v, parent, key), nil
	}
	if s.waiting > 0 {
		// Members are still being revived; the chain runs once they settle.
		s.value = v
		s.hold()
		return apis.Hole, nil
	}
	out, suspended, err := r.apply(s, v)
	if err != nil || suspended {
		return apis.Hole, err
	}
	return out, nil
}

// enter makes s the owner of the members walked until restore is called.
// Nodes without a chain keep the current owner.
func (r *run) enter(s *slot) (restore func()) {
	if s == nil {
		return func() {}
	}
	prev := r.owner
	r.owner = s
	return func() { r.owner = prev }
}

// reference resolves the "#" marker v found at kp, or queues it.
func (r *run) reference(kp string, v any, parent any, key any) any {
	str, ok := v.(string)
	if !ok || !strings.HasPrefix(str, registry.CyclicTypeName) {
		r.invalid = append(r.invalid, &reference{keyPath: kp, path: fmt.Sprint(v), parent: parent, key: key})
		return apis.Hole
	}
	path := strings.TrimPrefix(str, registry.CyclicTypeName)
	if got, found := keypath.Resolve(r.target, path); found {
		return got
	}
	r.refs = append(r.refs, &reference{keyPath: kp, path: path, parent: parent, key: key})
	return apis.Hole
}

// apply reduces v through s.chain. When a reviver suspends, s is queued with
// the rest of the chain and suspended is true; its owner then waits for s.
func (r *run) apply(s *slot, v any) (out any, suspended bool, err error) {
	for i, name := range s.chain {
		spec, ok := r.reg.Reviver(name)
		if !ok {
			return nil, false, errors.Wrapf(apis.ErrUnregisteredType, "%q at %q", name, s.keyPath)
		}
		useAsync := spec.ReviveAsync != nil && (!r.cfg.Sync || spec.Revive == nil)
		if useAsync {
			d := spec.ReviveAsync(v, r.st)
			if d == nil {
				return nil, false, errors.Errorf("typeson: %q returned no deferred at %q", name, s.keyPath)
			}
			s.hold()
			s.d, s.chain = d, s.chain[i+1:]
			r.pending = append(r.pending, s)
			return apis.Hole, true, nil
		}
		res, err := spec.Revive(v, r.st)
		if err != nil {
			return nil, false, errors.Wrapf(err, "typeson: revive %q at %q", name, s.keyPath)
		}
		v = res
	}
	return v, false, nil
}

// settle stores the final value of a queued or held slot and, when it was
// the last member its owner waited for, runs the owner's chain.
func (r *run) settle(s *slot, v any) error {
	for s != nil {
		if s.parent == nil {
			r.result = v
		} else {
			store(s.parent, s.key, v)
		}
		owner := s.owner
		if owner == nil {
			return nil
		}
		if owner.waiting--; owner.waiting > 0 {
			return nil
		}
		r.resolve()
		out, suspended, err := r.apply(owner, owner.value)
		if err != nil || suspended {
			return err
		}
		s, v = owner, out
	}
	return nil
}

// resolve retries queued references in order and stops at the first one
// whose target is still missing.
func (r *run) resolve() {
	for len(r.refs) > 0 {
		ref := r.refs[0]
		got, ok := keypath.Resolve(r.target, ref.path)
		if !ok {
			return
		}
		if ref.parent == nil {
			r.result = got
		} else {
			store(ref.parent, ref.key, got)
		}
		r.refs = r.refs[1:]
	}
}

// chainOf normalizes an annotation into reviver names, outermost first.
func chainOf(ann any) ([]string, error) {
	switch a := ann.(type) {
	case string:
		return []string{a}, nil
	case []string:
		return a, nil
	case []any:
		out := make([]string, len(a))
		for i, n := range a {
			s, ok := n.(string)
			if !ok {
				return nil, errors.Errorf("typeson: invalid type name %v", n)
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, errors.Errorf("typeson: invalid annotation %v", ann)
}

// store assigns v unless it is Hole; Undefined is stored as is.
func store(c any, k any, v any) {
	if apis.IsHole(v) {
		return
	}
	switch p := c.(type) {
	case map[string]any:
		p[k.(string)] = v
	case []any:
		p[k.(int)] = v
	}
}
