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
	"context"

	"github.com/sirupsen/logrus"

	"dirpx.dev/typeson/apis"
	"dirpx.dev/typeson/deferred"
)

// slot is a pending member: where its value goes once d settles.
type slot struct {
	keyPath string
	d       *deferred.Deferred
	cyclic  cyclicMode
	st      *apis.State
	own     apis.KeyOwnership
	// parent is the clone receiving the value; nil for the root.
	parent any
	// key is a string for map parents and an int for slice parents.
	key any
	// detected is the adapter that produced d, if any.
	detected string
}

func (r *run) enqueue(s *slot) {
	r.pending = append(r.pending, s)
}

// assign stores v in the slot's parent. Absent values are not stored.
func (s *slot) assign(v any) {
	if apis.IsAbsent(v) {
		return
	}
	switch p := s.parent.(type) {
	case map[string]any:
		p[s.key.(string)] = v
	case []any:
		p[s.key.(int)] = v
	}
}

// drain settles the queue batch by batch in order of first encounter. Values
// discovered while encapsulating a resolved value join the next batch.
func (r *run) drain(ctx context.Context) error {
	for round := 1; len(r.pending) > 0; round++ {
		batch := r.pending
		r.pending = nil

		ds := make([]*deferred.Deferred, len(batch))
		for i, s := range batch {
			ds[i] = s.d
		}
		r.log.WithFields(logrus.Fields{
			"round":   round,
			"pending": len(batch),
		}).Debug("typeson: awaiting replacements")

		res, err := deferred.All(ds...).Await(ctx)
		if err != nil {
			return err
		}
		vals := res.([]any)
		for i, s := range batch {
			if err := r.settle(s, vals[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// settle encapsulates the resolved value of s in place of the deferred.
func (r *run) settle(s *slot, v any) error {
	restore := s.st.EnterChild(s.own)
	defer restore()
	s.st.Type, s.st.Replaced = s.detected, s.detected != ""

	out, err := r.walk(s.keyPath, v, s.cyclic, s.st, true, s.detected)
	if err != nil {
		return err
	}
	if d, ok := out.(*deferred.Deferred); ok {
		next := *s
		next.d = d
		r.enqueue(&next)
		return nil
	}
	if s.parent == nil {
		r.root = out
		return nil
	}
	s.assign(out)
	return nil
}
