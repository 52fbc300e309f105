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

package builder_test

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/typeson/apis"
	"dirpx.dev/typeson/builder"
	"dirpx.dev/typeson/config"
	"dirpx.dev/typeson/registry"
)

// userType is a plain named type replaced by a single field.
type userType struct{ N float64 }

func userSpec() *apis.Spec {
	return &apis.Spec{
		Test:    func(v any, _ *apis.State) bool { _, ok := v.(userType); return ok },
		Replace: func(v any, _ *apis.State) (any, error) { return v.(userType).N, nil },
		Revive:  func(v any, _ *apis.State) (any, error) { return userType{N: v.(float64)}, nil },
	}
}

// TestBuildRegistry_Basic asserts that BuildRegistry returns a non-nil,
// working Registry when there is nothing to migrate.
func TestBuildRegistry_Basic(t *testing.T) {
	b := builder.New()

	reg, err := b.BuildRegistry(config.DefaultConfig(), nil, nil)
	if err != nil || reg == nil {
		t.Fatalf("BuildRegistry = (%v,%v), want a registry", reg, err)
	}
	if reg.Count() != 0 {
		t.Fatalf("Count() = %d, want 0", reg.Count())
	}
}

// TestBuildRegistry_MigratesInOrder verifies that previous adapters keep
// their scan order and that ext is registered on top.
func TestBuildRegistry_MigratesInOrder(t *testing.T) {
	prev := registry.New(config.DefaultConfig())
	_ = prev.Register(apis.Set{"b": userSpec()})
	_ = prev.Register(apis.Set{"a": userSpec()})
	_ = prev.Register(apis.Set{"p": &apis.Spec{TestPlainObjects: true, Test: func(any, *apis.State) bool { return false }}})

	reg, err := builder.New().BuildRegistry(config.DefaultConfig(), prev, apis.Set{"c": userSpec()})
	if err != nil {
		t.Fatalf("BuildRegistry: unexpected error: %v", err)
	}
	var got []string
	for _, e := range reg.Entries() {
		got = append(got, e.Name)
	}
	want := []string{"p", "b", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("Entries() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Entries() = %v, want %v", got, want)
		}
	}
	if prev.Count() != 3 {
		t.Fatalf("previous registry mutated: Count() = %d", prev.Count())
	}
}

func TestBuildRegistry_Errors(t *testing.T) {
	b := builder.New()
	if _, err := b.BuildRegistry(config.DefaultConfig(), nil, 42); !errors.Is(err, builder.ErrBadExtension) {
		t.Fatalf("ext=42 err = %v, want ErrBadExtension", err)
	}
	if _, err := b.BuildRegistry(config.DefaultConfig(), nil, apis.Set{"#": userSpec()}); !errors.Is(err, registry.ErrReservedTypeName) {
		t.Fatalf("ext with reserved name err = %v, want ErrReservedTypeName", err)
	}
}

// TestBuildEngines_RoundTrip wires both engines over one registry.
func TestBuildEngines_RoundTrip(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()
	reg, err := b.BuildRegistry(cfg, nil, apis.Set{"user": userSpec()})
	if err != nil {
		t.Fatalf("BuildRegistry: unexpected error: %v", err)
	}

	enc := b.BuildEncapsulator(cfg, reg)
	d, err := enc.Encapsulate(map[string]any{"u": userType{N: 2}}, nil, cfg)
	if err != nil {
		t.Fatalf("Encapsulate: unexpected error: %v", err)
	}
	tree, _ := d.Await(context.Background())

	d, err = b.BuildReviver(cfg, reg).Revive(tree, nil, cfg)
	if err != nil {
		t.Fatalf("Revive: unexpected error: %v", err)
	}
	out, _ := d.Await(context.Background())
	if got := out.(map[string]any)["u"]; got != (userType{N: 2}) {
		t.Fatalf("round trip = %#v, want userType{2}", got)
	}
}

// TestBuildEngines_Concurrency_Smoke runs both engines in parallel over a
// shared registry while it is being extended.
func TestBuildEngines_Concurrency_Smoke(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()
	reg, _ := b.BuildRegistry(cfg, nil, apis.Set{"user": userSpec()})
	enc, rev := b.BuildEncapsulator(cfg, reg), b.BuildReviver(cfg, reg)

	workers := runtime.GOMAXPROCS(0) * 4
	var wg sync.WaitGroup
	wg.Add(workers + 1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = reg.Register(apis.Set{"user": userSpec()})
		}
	}()
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				d, err := enc.Encapsulate([]any{userType{N: float64(i)}}, nil, cfg)
				if err != nil {
					t.Errorf("Encapsulate: %v", err)
					return
				}
				tree, _ := d.Await(context.Background())
				d, err = rev.Revive(tree, nil, cfg)
				if err != nil {
					t.Errorf("Revive: %v", err)
					return
				}
				out, _ := d.Await(context.Background())
				if got := out.([]any)[0]; got != (userType{N: float64(i)}) {
					t.Errorf("round trip = %#v", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

// Compile-time check: builder.New() must satisfy apis.Builder.
var _ apis.Builder = builder.New()
