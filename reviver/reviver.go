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

// Package reviver implements the reverse half of the codec: it rebuilds
// containers bottom-up, resolves "#" back-references against the tree under
// construction, and runs the revivers named in the annotation map.
package reviver

import (
	"context"
	"slices"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"dirpx.dev/typeson/apis"
	"dirpx.dev/typeson/config"
	"dirpx.dev/typeson/deferred"
	"dirpx.dev/typeson/encapsulator"
)

// New constructs an apis.Reviver backed by reg.
func New(reg apis.Registry) apis.Reviver {
	return &reviver{reg: reg}
}

type reviver struct {
	reg apis.Registry
}

// Ensure reviver implements apis.Reviver.
var _ apis.Reviver = (*reviver)(nil)

// Revive rebuilds tree. A tree without annotations is returned as is.
func (rv *reviver) Revive(tree any, st *apis.State, cfg apis.Config) (*deferred.Deferred, error) {
	types, value, ignoreTypes, ok := unwrap(tree)
	if !ok {
		return settled(value, cfg)
	}
	if st == nil {
		st = apis.NewState()
	}
	r := &run{
		reg:         rv.reg,
		cfg:         cfg,
		log:         config.Logger(cfg),
		st:          st,
		types:       types,
		ignoreTypes: ignoreTypes,
	}

	ret, err := r.walk("", value, nil, nil)
	if err != nil {
		return nil, err
	}
	r.result = ret

	switch {
	case len(r.pending) > 0 && cfg.Sync && cfg.StrictSync:
		return nil, errors.Wrap(apis.ErrSyncAsyncMismatch, "sync method requested but async result obtained")
	case len(r.pending) > 0:
		r.log.WithField("pending", len(r.pending)).Debug("typeson: revival suspended")
		return deferred.Go(func() (any, error) {
			if err := r.drain(context.Background()); err != nil {
				return nil, err
			}
			return r.finish()
		}), nil
	}
	out, err := r.finish()
	if err != nil {
		return nil, err
	}
	return settled(out, cfg)
}

func settled(v any, cfg apis.Config) (*deferred.Deferred, error) {
	if !cfg.Sync && cfg.StrictSync {
		return nil, errors.Wrap(apis.ErrSyncAsyncMismatch, "async method requested but sync result obtained")
	}
	return deferred.Resolve(v), nil
}

// unwrap locates the annotation map. ok is false when tree carries none, in
// which case value is what Revive returns.
func unwrap(tree any) (types map[string]any, value any, ignoreTypes bool, ok bool) {
	obj, isObj := tree.(map[string]any)
	if !isObj {
		return nil, tree, false, false
	}
	switch t := obj[encapsulator.TypesKey].(type) {
	case bool:
		if t {
			return nil, obj[encapsulator.ValueKey], false, false
		}
	case map[string]any:
		if inner, nested := t[encapsulator.ValueKey].(map[string]any); nested {
			return inner, obj[encapsulator.ValueKey], false, true
		}
		return t, tree, true, true
	}
	return nil, tree, false, false
}

// run is the state of one top-level call.
type run struct {
	reg apis.Registry
	cfg apis.Config
	log logrus.FieldLogger
	st  *apis.State

	types       map[string]any
	ignoreTypes bool

	// target is the first container built; references resolve against it.
	target any
	result any

	refs    []*reference
	invalid []*reference
	pending []*slot
	// owner is the annotated container whose members are being walked.
	owner *slot
}

// finish reports references that never resolved.
func (r *run) finish() (any, error) {
	if unresolved := slices.Concat(r.invalid, r.refs); len(unresolved) > 0 {
		var merr *multierror.Error
		for _, ref := range unresolved {
			r.log.WithFields(logrus.Fields{
				"keypath": ref.keyPath,
				"target":  ref.path,
			}).Warn("typeson: unresolved reference")
			merr = multierror.Append(merr, errors.Wrapf(apis.ErrUnresolvedReference, "%q -> %q", ref.keyPath, ref.path))
		}
		if r.cfg.StrictReferences {
			return nil, merr.ErrorOrNil()
		}
	}
	if apis.IsHole(r.result) {
		return apis.Undefined, nil
	}
	return r.result, nil
}

// Annotations returns the key path -> type map carried by tree, unwrapping
// the "$" form used when the root itself is annotated. ok is false when tree
// carries no annotations.
func Annotations(tree any) (types map[string]any, ok bool) {
	types, _, _, ok = unwrap(tree)
	return types, ok
}
