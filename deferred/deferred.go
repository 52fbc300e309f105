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

// Package deferred provides a single-resolution result container.
//
// A Deferred is what asynchronous adapters hand back to the engine. The
// engine recognises pending work by its Go type rather than by probing for a
// "then" method, and the same walk serves both the synchronous and the
// asynchronous entry points: a synchronous result is simply a Deferred that
// is already settled.
package deferred

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// ErrSelfResolution is the rejection reason of a Deferred resolved with itself.
var ErrSelfResolution = errors.New("deferred: resolved with itself")

// Deferred holds the eventual outcome of one computation.
// The zero value is not usable; use New, Go, Resolve or Reject.
type Deferred struct {
	done    chan struct{}
	claimed atomic.Bool
	val     any
	err     error
}

func pending() *Deferred {
	return &Deferred{done: make(chan struct{})}
}

// New runs resolver synchronously and returns a Deferred settled by the first
// call to resolve or reject. Later calls are ignored. resolver may hand the
// callbacks to other goroutines.
func New(resolver func(resolve func(any), reject func(error))) *Deferred {
	d := pending()
	resolver(d.resolve, d.reject)
	return d
}

// Go runs fn on a new goroutine and settles with its result.
func Go(fn func() (any, error)) *Deferred {
	d := pending()
	go func() {
		v, err := fn()
		if err != nil {
			d.reject(err)
			return
		}
		d.resolve(v)
	}()
	return d
}

// Resolve returns a Deferred fulfilled with v. If v is itself a Deferred the
// result adopts its outcome.
func Resolve(v any) *Deferred {
	d := pending()
	d.resolve(v)
	return d
}

// Reject returns a Deferred rejected with err.
func Reject(err error) *Deferred {
	d := pending()
	d.reject(err)
	return d
}

func (d *Deferred) settle(v any, err error) {
	d.val, d.err = v, err
	close(d.done)
}

func (d *Deferred) resolve(v any) {
	if !d.claimed.CompareAndSwap(false, true) {
		return
	}
	inner, ok := v.(*Deferred)
	if !ok || inner == nil {
		d.settle(v, nil)
		return
	}
	if inner == d {
		d.settle(nil, ErrSelfResolution)
		return
	}
	if inner.Settled() {
		d.settle(inner.val, inner.err)
		return
	}
	go func() {
		<-inner.done
		d.settle(inner.val, inner.err)
	}()
}

func (d *Deferred) reject(err error) {
	if !d.claimed.CompareAndSwap(false, true) {
		return
	}
	if err == nil {
		err = errors.New("deferred: rejected with nil error")
	}
	d.settle(nil, err)
}

// Done is closed once d has settled.
func (d *Deferred) Done() <-chan struct{} {
	return d.done
}

// Settled reports whether d has an outcome.
func (d *Deferred) Settled() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

// Await blocks until d settles or ctx is done.
func (d *Deferred) Await(ctx context.Context) (any, error) {
	select {
	case <-d.done:
		return d.val, d.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Then returns a Deferred settled by onFulfilled or onRejected once d
// settles. A nil callback passes the outcome through. A callback may return
// a Deferred, which is adopted. Callbacks run inline when d is already
// settled, otherwise on a separate goroutine.
func (d *Deferred) Then(onFulfilled func(any) (any, error), onRejected func(error) (any, error)) *Deferred {
	out := pending()
	run := func() {
		var (
			v   any
			err error
		)
		switch {
		case d.err == nil && onFulfilled != nil:
			v, err = onFulfilled(d.val)
		case d.err == nil:
			v = d.val
		case onRejected != nil:
			v, err = onRejected(d.err)
		default:
			err = d.err
		}
		if err != nil {
			out.reject(err)
			return
		}
		out.resolve(v)
	}
	if d.Settled() {
		run()
		return out
	}
	go func() {
		<-d.done
		run()
	}()
	return out
}

// Catch is Then(nil, onRejected).
func (d *Deferred) Catch(onRejected func(error) (any, error)) *Deferred {
	return d.Then(nil, onRejected)
}

// All settles with a []any of the fulfilled values in argument order, or
// with the first rejection. When every input is already settled the result
// is settled on return.
func All(ds ...*Deferred) *Deferred {
	if allSettled(ds) {
		out := make([]any, len(ds))
		for i, d := range ds {
			if d.err != nil {
				return Reject(d.err)
			}
			out[i] = d.val
		}
		return Resolve(out)
	}
	return Go(func() (any, error) {
		out := make([]any, len(ds))
		g, ctx := errgroup.WithContext(context.Background())
		for i, d := range ds {
			g.Go(func() error {
				v, err := d.Await(ctx)
				if err != nil {
					return err
				}
				out[i] = v
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// Race settles with the outcome of the first input to settle. Inputs that are
// already settled win in argument order. Race of nothing never settles.
func Race(ds ...*Deferred) *Deferred {
	for _, d := range ds {
		if d.Settled() {
			if d.err != nil {
				return Reject(d.err)
			}
			return Resolve(d.val)
		}
	}
	out := pending()
	for _, d := range ds {
		go func() {
			<-d.done
			if d.err != nil {
				out.reject(d.err)
				return
			}
			out.resolve(d.val)
		}()
	}
	return out
}

func allSettled(ds []*Deferred) bool {
	for _, d := range ds {
		if !d.Settled() {
			return false
		}
	}
	return true
}
