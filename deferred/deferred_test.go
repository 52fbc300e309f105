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

package deferred_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"dirpx.dev/typeson/deferred"
)

func await(t *testing.T, d *deferred.Deferred) (any, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.Await(ctx)
}

func TestResolve_SettledImmediately(t *testing.T) {
	d := deferred.Resolve(42)
	if !d.Settled() {
		t.Fatalf("Resolve(42).Settled() = false, want true")
	}
	v, err := await(t, d)
	if err != nil || v != 42 {
		t.Fatalf("Await = (%v,%v), want (42,nil)", v, err)
	}
}

func TestReject(t *testing.T) {
	boom := errors.New("boom")
	_, err := await(t, deferred.Reject(boom))
	if !errors.Is(err, boom) {
		t.Fatalf("Await err = %v, want %v", err, boom)
	}
}

func TestNew_FirstCallWins(t *testing.T) {
	d := deferred.New(func(resolve func(any), reject func(error)) {
		resolve("first")
		resolve("second")
		reject(errors.New("late"))
	})
	v, err := await(t, d)
	if err != nil || v != "first" {
		t.Fatalf("Await = (%v,%v), want (first,nil)", v, err)
	}
}

func TestNew_ResolveLater(t *testing.T) {
	release := make(chan struct{})
	d := deferred.New(func(resolve func(any), _ func(error)) {
		go func() {
			<-release
			resolve("late")
		}()
	})
	if d.Settled() {
		t.Fatalf("Settled() before release = true, want false")
	}
	close(release)
	v, err := await(t, d)
	if err != nil || v != "late" {
		t.Fatalf("Await = (%v,%v), want (late,nil)", v, err)
	}
}

func TestResolve_AdoptsDeferred(t *testing.T) {
	inner := deferred.Go(func() (any, error) { return "inner", nil })
	v, err := await(t, deferred.Resolve(inner))
	if err != nil || v != "inner" {
		t.Fatalf("Await = (%v,%v), want (inner,nil)", v, err)
	}
}

func TestThen_Chaining(t *testing.T) {
	d := deferred.Go(func() (any, error) { return 2, nil }).
		Then(func(v any) (any, error) { return v.(int) * 10, nil }, nil).
		Then(func(v any) (any, error) { return deferred.Resolve(v.(int) + 1), nil }, nil)
	v, err := await(t, d)
	if err != nil || v != 21 {
		t.Fatalf("Await = (%v,%v), want (21,nil)", v, err)
	}
}

func TestThen_SettledRunsInline(t *testing.T) {
	d := deferred.Resolve(1).Then(func(v any) (any, error) { return v, nil }, nil)
	if !d.Settled() {
		t.Fatalf("Then on settled input: Settled() = false, want true")
	}
}

func TestCatch_Recovers(t *testing.T) {
	d := deferred.Reject(errors.New("x")).
		Then(func(any) (any, error) { t.Fatal("onFulfilled must not run"); return nil, nil }, nil).
		Catch(func(err error) (any, error) { return "recovered:" + err.Error(), nil })
	v, err := await(t, d)
	if err != nil || v != "recovered:x" {
		t.Fatalf("Await = (%v,%v), want (recovered:x,nil)", v, err)
	}
}

func TestAll_PreservesOrder(t *testing.T) {
	slow := deferred.Go(func() (any, error) {
		time.Sleep(20 * time.Millisecond)
		return "slow", nil
	})
	fast := deferred.Resolve("fast")
	v, err := await(t, deferred.All(slow, fast))
	if err != nil {
		t.Fatalf("All: unexpected error: %v", err)
	}
	if diff := cmp.Diff([]any{"slow", "fast"}, v); diff != "" {
		t.Fatalf("All mismatch (-want +got):\n%s", diff)
	}
}

func TestAll_SettledInputsStaySynchronous(t *testing.T) {
	d := deferred.All(deferred.Resolve(1), deferred.Resolve(2))
	if !d.Settled() {
		t.Fatalf("All of settled inputs: Settled() = false, want true")
	}
}

func TestAll_FirstRejection(t *testing.T) {
	boom := errors.New("boom")
	never := deferred.New(func(func(any), func(error)) {})
	_, err := await(t, deferred.All(never, deferred.Go(func() (any, error) { return nil, boom })))
	if !errors.Is(err, boom) {
		t.Fatalf("All err = %v, want %v", err, boom)
	}
}

func TestRace_FirstToSettle(t *testing.T) {
	never := deferred.New(func(func(any), func(error)) {})
	quick := deferred.Go(func() (any, error) { return "quick", nil })
	v, err := await(t, deferred.Race(never, quick))
	if err != nil || v != "quick" {
		t.Fatalf("Race = (%v,%v), want (quick,nil)", v, err)
	}
}

func TestAwait_ContextCancelled(t *testing.T) {
	never := deferred.New(func(func(any), func(error)) {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := never.Await(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Await err = %v, want context.Canceled", err)
	}
}

func TestResolve_Self(t *testing.T) {
	var self *deferred.Deferred
	self = deferred.New(func(resolve func(any), _ func(error)) {
		go func() {
			for self == nil {
				time.Sleep(time.Millisecond)
			}
			resolve(self)
		}()
	})
	_, err := await(t, self)
	if !errors.Is(err, deferred.ErrSelfResolution) {
		t.Fatalf("Await err = %v, want ErrSelfResolution", err)
	}
}
