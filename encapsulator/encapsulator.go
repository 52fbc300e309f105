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

// Package encapsulator implements the forward half of the codec: it walks a
// value tree, hands special values to the registry's adapters, and produces a
// plain tree annotated with the type names needed to rebuild it.
//
// Plain containers (map[string]any, []any) are cloned, never mutated. Shared
// references and cycles become "#<keypath>" strings when cyclic tracking is
// on. Adapters that suspend return a *deferred.Deferred; such slots are
// queued and filled once the synchronous pass is over.
package encapsulator

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"dirpx.dev/typeson/apis"
	"dirpx.dev/typeson/config"
	"dirpx.dev/typeson/deferred"
	uref "dirpx.dev/typeson/utils/reflect"
)

// Keys used by the finished tree.
const (
	// ValueKey holds the wrapped root.
	ValueKey = "$"
	// TypesKey holds the annotation map.
	TypesKey = "$types"
)

// New constructs an apis.Encapsulator backed by reg.
func New(reg apis.Registry) apis.Encapsulator {
	return &encapsulator{reg: reg}
}

// encapsulator is stateless; every call gets its own run.
type encapsulator struct {
	reg apis.Registry
}

// Ensure encapsulator implements apis.Encapsulator.
var _ apis.Encapsulator = (*encapsulator)(nil)

// Encapsulate walks v and finishes the result. When StrictSync is set, a
// disagreement between cfg.Sync and the presence of pending work fails with
// apis.ErrSyncAsyncMismatch.
func (e *encapsulator) Encapsulate(v any, st *apis.State, cfg apis.Config) (*deferred.Deferred, error) {
	if st == nil {
		st = apis.NewState()
	}
	r := &run{
		reg:   e.reg,
		cfg:   cfg,
		log:   config.Logger(cfg),
		types: newAnnotations(),
		refs:  map[uref.Identity]string{},
	}

	cyc := cyclicOff
	if cfg.Cyclic {
		cyc = cyclicOn
	}
	ret, err := r.walk("", v, cyc, st, false, "")
	if err != nil {
		return nil, err
	}
	if d, ok := ret.(*deferred.Deferred); ok {
		r.enqueue(&slot{d: d, cyclic: cyc, st: st, own: st.OwnKeys, detected: st.Type})
	}
	r.root = ret

	switch {
	case len(r.pending) > 0 && cfg.Sync && cfg.StrictSync:
		return nil, errors.Wrap(apis.ErrSyncAsyncMismatch, "sync method requested but async result obtained")
	case len(r.pending) == 0 && !cfg.Sync && cfg.StrictSync:
		return nil, errors.Wrap(apis.ErrSyncAsyncMismatch, "async method requested but sync result obtained")
	case len(r.pending) == 0:
		return deferred.Resolve(r.finish(r.root)), nil
	}

	r.log.WithField("pending", len(r.pending)).Debug("typeson: encapsulation suspended")
	return deferred.Go(func() (any, error) {
		if err := r.drain(context.Background()); err != nil {
			return nil, err
		}
		return r.finish(r.root), nil
	}), nil
}

// cyclicMode controls identity tracking for one node.
type cyclicMode uint8

const (
	cyclicOff cyclicMode = iota
	cyclicOn
	// cyclicReadonly detects references but records nothing; replacement
	// output is walked this way so it cannot match its own key path.
	cyclicReadonly
)

// children returns the mode used for members of a node walked in m.
func (m cyclicMode) children() cyclicMode {
	if m == cyclicOff {
		return cyclicOff
	}
	return cyclicOn
}

// readonly returns the mode used for the replacement of a node walked in m.
func (m cyclicMode) readonly() cyclicMode {
	if m == cyclicOff {
		return cyclicOff
	}
	return cyclicReadonly
}

// run is the state of one top-level call.
type run struct {
	reg apis.Registry
	cfg apis.Config
	log logrus.FieldLogger

	types *annotations
	// refs maps identities to the key path they were first seen at.
	refs map[uref.Identity]string

	root    any
	pending []*slot
}

// finish applies the output options and wraps the root when needed.
func (r *run) finish(ret any) any {
	if r.cfg.IterateNone {
		if r.types.len() > 0 {
			return r.types.rootName()
		}
		return uref.JSONKind(ret)
	}
	if r.cfg.ReturnTypeNames {
		return r.types.names()
	}
	if apis.IsAbsent(ret) {
		ret = apis.Undefined
	}

	obj, isObj := ret.(map[string]any)
	_, ownTypes := obj[TypesKey]
	switch {
	case r.types.len() > 0 && (!isObj || ownTypes):
		return map[string]any{ValueKey: ret, TypesKey: map[string]any{ValueKey: r.types.export()}}
	case r.types.len() > 0:
		obj[TypesKey] = r.types.export()
		return obj
	case isObj && ownTypes:
		return map[string]any{ValueKey: ret, TypesKey: true}
	}
	return ret
}
