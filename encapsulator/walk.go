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

package encapsulator

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"dirpx.dev/typeson/apis"
	"dirpx.dev/typeson/deferred"
	"dirpx.dev/typeson/utils/keypath"
	uref "dirpx.dev/typeson/utils/reflect"
)

// node carries what the observer needs to know about the value being walked.
type node struct {
	r         *run
	kp        string
	value     any
	cyc       cyclicMode
	st        *apis.State
	resolving bool
	detected  string
}

func (n *node) emit(ev apis.Event) {
	if n.r.cfg.Observer == nil {
		return
	}
	ev.KeyPath = n.kp
	ev.Value = n.value
	ev.Cyclic = n.cyc != cyclicOff
	ev.Resolving = n.resolving
	_, ev.Awaiting = n.value.(*deferred.Deferred)
	switch {
	case n.detected != "":
		ev.Type = n.detected
	case n.st.Type != "":
		ev.Type = n.st.Type
	default:
		ev.Type = uref.JSONKind(n.value)
	}
	n.r.cfg.Observer(ev)
}

// walk encapsulates v found at kp. The result is a plain value, Undefined
// when the member must be omitted, or a pending *deferred.Deferred.
func (r *run) walk(kp string, v any, cyc cyclicMode, st *apis.State, resolving bool, detected string) (any, error) {
	return r.visit(&node{r: r, kp: kp, value: v, cyc: cyc, st: st, resolving: resolving, detected: detected}, false)
}

// visit is walk for a prepared node. detectOnly skips adapter matching, so a
// value whose adapter has no replace method is walked as is.
func (r *run) visit(n *node, detectOnly bool) (any, error) {
	kp, v, cyc, st := n.kp, n.value, n.cyc, n.st

	if _, ok := v.(*deferred.Deferred); ok {
		n.emit(apis.Event{Kind: apis.EventVisit})
		return v, nil
	}

	if (apis.IsAbsent(v) || uref.IsSpecialFloat(v)) && !detectOnly {
		out, matched, err := r.replace(n, false)
		if err != nil {
			return nil, err
		}
		ev := apis.Event{Kind: apis.EventVisit}
		if matched {
			ev.Replaced = out
		} else {
			out = apis.Undefined
			if !apis.IsAbsent(v) {
				out = v
			}
		}
		n.emit(ev)
		return out, nil
	}
	if uref.IsScalar(v) || apis.IsAbsent(v) {
		n.emit(apis.Event{Kind: apis.EventVisit})
		if apis.IsHole(v) {
			return apis.Undefined, nil
		}
		return v, nil
	}

	if cyc != cyclicOff && st.IterateIn == apis.IterateDefault && !st.IterateUnsetNumeric {
		if id, ok := uref.IdentityOf(v); ok {
			first, seen := r.refs[id]
			switch {
			case seen && first != kp:
				r.types.cyclic(kp)
				n.emit(apis.Event{Kind: apis.EventCyclic, CyclicKeyPath: first})
				return "#" + first, nil
			case !seen && cyc == cyclicOn:
				r.refs[id] = kp
			}
		}
	}

	arr, isArr := v.([]any)
	obj, isObj := v.(map[string]any)
	plain := isArr || isObj

	if !detectOnly && !(plain && (!r.reg.HasPlainAdapters() || st.Replaced)) && st.IterateIn == apis.IterateDefault {
		out, matched, err := r.replace(n, plain)
		if err != nil {
			return nil, err
		}
		if matched {
			n.emit(apis.Event{Kind: apis.EventVisit, Replaced: out})
			return out, nil
		}
	}

	var clone any
	switch {
	case isArr || st.IterateIn == apis.IterateArray:
		size := len(arr)
		if !isArr {
			size = len(uref.Members(v))
		}
		holes := make([]any, size)
		for i := range holes {
			holes[i] = apis.Hole
		}
		clone = holes
	case isObj || st.IterateIn == apis.IterateObject:
		clone = map[string]any{}
	default:
		n.emit(apis.Event{Kind: apis.EventVisit})
		return v, nil
	}
	n.emit(apis.Event{Kind: apis.EventClone, Clone: clone})

	if r.cfg.IterateNone {
		return clone, nil
	}

	child := cyc.children()
	var err error
	switch {
	case st.IterateIn != apis.IterateDefault:
		err = r.iterateIn(n, v, clone, child)
		if err == nil {
			n.emit(apis.Event{Kind: apis.EventEndIterateIn})
		}
	case isArr:
		for i, el := range arr {
			if apis.IsHole(el) {
				continue
			}
			if err = r.member(n, keypath.JoinIndex(kp, i), el, apis.KeyOwn, child, clone, i); err != nil {
				break
			}
		}
		if err == nil {
			n.emit(apis.Event{Kind: apis.EventEndIterateOwn})
		}
	default:
		for _, k := range uref.SortedKeys(obj) {
			if err = r.member(n, keypath.Join(kp, k), obj[k], apis.KeyOwn, child, clone, k); err != nil {
				break
			}
		}
		if err == nil {
			n.emit(apis.Event{Kind: apis.EventEndIterateOwn})
		}
	}
	if err != nil {
		return nil, err
	}

	if st.IterateUnsetNumeric && isArr {
		for i, el := range arr {
			if !apis.IsHole(el) {
				continue
			}
			if err := r.member(n, keypath.JoinIndex(kp, i), apis.Undefined, apis.KeyNotOwn, child, clone, i); err != nil {
				return nil, err
			}
		}
		n.emit(apis.Event{Kind: apis.EventEndIterateUnsetNumeric})
	}
	return clone, nil
}

// iterateIn walks the members of any value into clone.
func (r *run) iterateIn(n *node, v any, clone any, cyc cyclicMode) error {
	if arr, ok := v.([]any); ok {
		for i, el := range arr {
			if apis.IsHole(el) {
				continue
			}
			if err := r.member(n, keypath.JoinIndex(n.kp, i), el, apis.KeyOwn, cyc, clone, i); err != nil {
				return err
			}
		}
		return nil
	}
	if obj, ok := v.(map[string]any); ok {
		for _, k := range uref.SortedKeys(obj) {
			if err := r.member(n, keypath.Join(n.kp, k), obj[k], apis.KeyOwn, cyc, clone, k); err != nil {
				return err
			}
		}
		return nil
	}
	for _, m := range uref.Members(v) {
		own := apis.KeyOwn
		if !m.Own {
			own = apis.KeyNotOwn
		}
		var key any = m.Key
		if _, isArr := clone.([]any); isArr {
			i, err := strconv.Atoi(m.Key)
			if err != nil {
				continue
			}
			key = i
		}
		if err := r.member(n, keypath.Join(n.kp, m.Key), m.Value, own, cyc, clone, key); err != nil {
			return err
		}
	}
	return nil
}

// member walks one child and stores the result in clone under key, or queues
// it when it is pending.
func (r *run) member(parent *node, kp string, v any, own apis.KeyOwnership, cyc cyclicMode, clone any, key any) error {
	st := parent.st
	restore := st.EnterChild(own)
	defer restore()

	val, err := r.walk(kp, v, cyc, st, parent.resolving, "")
	if err != nil {
		return err
	}
	s := &slot{keyPath: kp, cyclic: cyc, st: st, own: own, parent: clone, key: key, detected: st.Type}
	if d, ok := val.(*deferred.Deferred); ok {
		s.d = d
		r.enqueue(s)
		return nil
	}
	s.assign(val)
	return nil
}

// replace offers n.value to the adapters and, on a match, walks the
// replacement at the same key path.
func (r *run) replace(n *node, plain bool) (any, bool, error) {
	v, st := n.value, n.st
	e, ok := r.reg.Match(v, st, plain)
	if !ok {
		return v, false, nil
	}
	spec := e.Spec
	if spec.CanRevive() {
		r.types.compose(n.kp, e.Name)
	}
	st.Type, st.Replaced = e.Name, true

	r.log.WithFields(logrus.Fields{
		"type":    e.Name,
		"keypath": n.kp,
	}).Debug("typeson: adapter matched")

	cyc := n.cyc.readonly()
	useAsync := spec.ReplaceAsync != nil && (!r.cfg.Sync || spec.Replace == nil)
	switch {
	case useAsync:
		n.emit(apis.Event{Kind: apis.EventReplacing})
		d := spec.ReplaceAsync(v, st)
		if d == nil {
			return nil, true, errors.Errorf("typeson: %q returned no deferred at %q", e.Name, n.kp)
		}
		out, err := r.walk(n.kp, d, cyc, st, n.resolving, e.Name)
		return out, true, err
	case spec.Replace != nil:
		n.emit(apis.Event{Kind: apis.EventReplacing})
		rep, err := spec.Replace(v, st)
		if err != nil {
			return nil, true, errors.Wrapf(err, "typeson: replace %q at %q", e.Name, n.kp)
		}
		out, err := r.walk(n.kp, rep, cyc, st, n.resolving, e.Name)
		return out, true, err
	default:
		n.emit(apis.Event{Kind: apis.EventTypeDetected})
		out, err := r.visit(&node{r: r, kp: n.kp, value: v, cyc: cyc, st: st, resolving: n.resolving, detected: e.Name}, true)
		return out, true, err
	}
}
