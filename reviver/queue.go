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
	"context"

	"github.com/sirupsen/logrus"

	"dirpx.dev/typeson/deferred"
)

// slot is an annotated node. It is queued while one of its revivers is
// pending and held while members below it are.
type slot struct {
	keyPath string
	d       *deferred.Deferred
	// chain holds the revivers still to run on the resolved value.
	chain  []string
	parent any
	key    any

	// owner is the nearest annotated ancestor; it is held until this slot
	// settles.
	owner *slot
	// counted is set once owner holds for this slot.
	counted bool
	// waiting counts unsettled members; value is the container they are
	// stored into.
	waiting int
	value   any
}

// hold makes s.owner wait for s. It is a no-op for the root and for slots
// already counted.
func (s *slot) hold() {
	if s.owner == nil || s.counted {
		return
	}
	s.counted = true
	s.owner.waiting++
}

// drain settles suspended revivals batch by batch in order of first
// encounter, then retries pending references.
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
		}).Debug("typeson: awaiting revivers")

		res, err := deferred.All(ds...).Await(ctx)
		if err != nil {
			return err
		}
		for i, s := range batch {
			out, suspended, err := r.apply(s, res.([]any)[i])
			if err != nil {
				return err
			}
			if suspended {
				continue
			}
			if err := r.settle(s, out); err != nil {
				return err
			}
		}
		r.resolve()
	}
	return nil
}
