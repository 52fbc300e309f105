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

package typeson

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"dirpx.dev/typeson/apis"
	"dirpx.dev/typeson/builder"
	"dirpx.dev/typeson/config"
	"dirpx.dev/typeson/deferred"
	"dirpx.dev/typeson/presets"
	"dirpx.dev/typeson/wire"
)

// init publishes the process-wide instance with the builtin preset.
func init() {
	t := New()
	t.MustRegister(presets.Builtin)
	std.Store(t)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("typeson: builder returned nil registry")
	// ErrNilBuilder is returned by SetBuilder for a nil builder.
	ErrNilBuilder = errors.New("typeson: nil builder")
)

var std atomic.Pointer[Typeson]

// state is one immutable snapshot of an instance.
type state struct {
	cfg apis.Config
	bld apis.Builder
	reg apis.Registry
	enc apis.Encapsulator
	rev apis.Reviver
}

// config returns the snapshot config with per-call options applied.
func (s *state) config(opts []config.Option) apis.Config {
	return config.Apply(s.cfg, opts...)
}

// assemble builds a snapshot, migrating the adapters of prev.
func assemble(b apis.Builder, cfg apis.Config, prev apis.Registry) (*state, error) {
	reg, err := b.BuildRegistry(cfg, prev, nil)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, ErrNilRegistry
	}
	return &state{
		cfg: cfg,
		bld: b,
		reg: reg,
		enc: b.BuildEncapsulator(cfg, reg),
		rev: b.BuildReviver(cfg, reg),
	}, nil
}

// Typeson pairs a registry with a default config and exposes the
// encapsulate, revive, stringify and parse entry points. It is safe for
// concurrent use; reconfiguration publishes a new snapshot atomically.
type Typeson struct {
	st      atomic.Pointer[state]
	buildMu sync.Mutex
}

// New returns an instance with no adapters.
func New(opts ...config.Option) *Typeson {
	s, err := assemble(builder.New(), config.NewConfig(opts...), nil)
	if err != nil {
		panic(err)
	}
	t := &Typeson{}
	t.st.Store(s)
	return t
}

// Default returns the process-wide instance.
func Default() *Typeson {
	return std.Load()
}

// SetDefault replaces the process-wide instance. A nil t is ignored.
func SetDefault(t *Typeson) {
	if t != nil {
		std.Store(t)
	}
}

// Config returns the default config of t.
func (t *Typeson) Config() apis.Config {
	return t.st.Load().cfg
}

// SetConfig applies opts to the default config and rebuilds the engines.
// Registered adapters are carried over.
func (t *Typeson) SetConfig(opts ...config.Option) error {
	t.buildMu.Lock()
	defer t.buildMu.Unlock()

	old := t.st.Load()
	s, err := assemble(old.bld, old.config(opts), old.reg)
	if err != nil {
		return err
	}
	t.st.Store(s)
	return nil
}

// SetBuilder swaps the builder and rebuilds the engines with it.
func (t *Typeson) SetBuilder(b apis.Builder) error {
	if b == nil {
		return ErrNilBuilder
	}
	t.buildMu.Lock()
	defer t.buildMu.Unlock()

	old := t.st.Load()
	s, err := assemble(b, old.cfg, old.reg)
	if err != nil {
		return err
	}
	t.st.Store(s)
	return nil
}

// Registry returns the current registry.
func (t *Typeson) Registry() apis.Registry {
	return t.st.Load().reg
}

// Types returns the registered adapters by name.
func (t *Typeson) Types() map[string]*apis.Spec {
	return t.st.Load().reg.Types()
}

// Register adds adapters; see apis.Registry.
func (t *Typeson) Register(r apis.Registrable, opts ...apis.RegisterOption) error {
	t.buildMu.Lock()
	defer t.buildMu.Unlock()
	return t.st.Load().reg.Register(r, opts...)
}

// MustRegister is Register that panics on error and returns t for chaining.
func (t *Typeson) MustRegister(r apis.Registrable, opts ...apis.RegisterOption) *Typeson {
	if err := t.Register(r, opts...); err != nil {
		panic(err)
	}
	return t
}

// Encapsulate converts v into a plain tree, waiting for asynchronous
// adapters if any. st may be nil.
func (t *Typeson) Encapsulate(v any, st *apis.State, opts ...config.Option) (any, error) {
	s := t.st.Load()
	d, err := s.enc.Encapsulate(v, st, s.config(opts))
	if err != nil {
		return nil, err
	}
	return d.Await(context.Background())
}

// EncapsulateSync is Encapsulate that fails with apis.ErrSyncAsyncMismatch
// when any adapter suspends.
func (t *Typeson) EncapsulateSync(v any, st *apis.State, opts ...config.Option) (any, error) {
	s := t.st.Load()
	d, err := s.enc.Encapsulate(v, st, strict(s.config(opts), true))
	if err != nil {
		return nil, err
	}
	return d.Await(context.Background())
}

// EncapsulateAsync prefers asynchronous adapters and fails with
// apis.ErrSyncAsyncMismatch when none suspends.
func (t *Typeson) EncapsulateAsync(v any, st *apis.State, opts ...config.Option) (*deferred.Deferred, error) {
	s := t.st.Load()
	return s.enc.Encapsulate(v, st, strict(s.config(opts), false))
}

// Revive rebuilds the values described by an encapsulated tree, waiting for
// asynchronous revivers if any.
func (t *Typeson) Revive(tree any, opts ...config.Option) (any, error) {
	s := t.st.Load()
	d, err := s.rev.Revive(tree, nil, s.config(opts))
	if err != nil {
		return nil, err
	}
	return d.Await(context.Background())
}

// ReviveSync is Revive that fails with apis.ErrSyncAsyncMismatch when any
// reviver suspends.
func (t *Typeson) ReviveSync(tree any, opts ...config.Option) (any, error) {
	s := t.st.Load()
	d, err := s.rev.Revive(tree, nil, strict(s.config(opts), true))
	if err != nil {
		return nil, err
	}
	return d.Await(context.Background())
}

// ReviveAsync prefers asynchronous revivers and fails with
// apis.ErrSyncAsyncMismatch when none suspends.
func (t *Typeson) ReviveAsync(tree any, opts ...config.Option) (*deferred.Deferred, error) {
	s := t.st.Load()
	return s.rev.Revive(tree, nil, strict(s.config(opts), false))
}

// Stringify encapsulates v and renders it as JSON text.
func (t *Typeson) Stringify(v any, opts ...config.Option) (string, error) {
	tree, err := t.Encapsulate(v, nil, opts...)
	if err != nil {
		return "", err
	}
	return t.text(tree, opts)
}

// StringifySync is Stringify over EncapsulateSync.
func (t *Typeson) StringifySync(v any, opts ...config.Option) (string, error) {
	tree, err := t.EncapsulateSync(v, nil, opts...)
	if err != nil {
		return "", err
	}
	return t.text(tree, opts)
}

// StringifyAsync is Stringify over EncapsulateAsync. The Deferred settles
// with a string.
func (t *Typeson) StringifyAsync(v any, opts ...config.Option) (*deferred.Deferred, error) {
	d, err := t.EncapsulateAsync(v, nil, opts...)
	if err != nil {
		return nil, err
	}
	return d.Then(func(tree any) (any, error) { return t.text(tree, opts) }, nil), nil
}

// Parse decodes JSON text (JSONC when the config says so) and revives it.
func (t *Typeson) Parse(text string, opts ...config.Option) (any, error) {
	tree, err := t.tree(text, opts)
	if err != nil {
		return nil, err
	}
	return t.Revive(tree, opts...)
}

// ParseSync is Parse over ReviveSync.
func (t *Typeson) ParseSync(text string, opts ...config.Option) (any, error) {
	tree, err := t.tree(text, opts)
	if err != nil {
		return nil, err
	}
	return t.ReviveSync(tree, opts...)
}

// ParseAsync is Parse over ReviveAsync.
func (t *Typeson) ParseAsync(text string, opts ...config.Option) (*deferred.Deferred, error) {
	tree, err := t.tree(text, opts)
	if err != nil {
		return nil, err
	}
	return t.ReviveAsync(tree, opts...)
}

// Marshal encapsulates v and encodes it in the configured wire format.
func (t *Typeson) Marshal(v any, opts ...config.Option) ([]byte, error) {
	codec, err := wire.For(t.st.Load().config(opts))
	if err != nil {
		return nil, err
	}
	tree, err := t.Encapsulate(v, nil, opts...)
	if err != nil {
		return nil, err
	}
	return codec.Marshal(tree)
}

// Unmarshal decodes data in the configured wire format and revives it.
func (t *Typeson) Unmarshal(data []byte, opts ...config.Option) (any, error) {
	codec, err := wire.For(t.st.Load().config(opts))
	if err != nil {
		return nil, err
	}
	tree, err := codec.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return t.Revive(tree, opts...)
}

// SpecialTypeNames returns the distinct type names v would be annotated
// with, in encounter order.
func (t *Typeson) SpecialTypeNames(v any, opts ...config.Option) ([]string, error) {
	out, err := t.Encapsulate(v, nil, append(slices.Clip(opts), config.WithReturnTypeNames(true))...)
	if err != nil {
		return nil, err
	}
	names, _ := out.([]string)
	return names, nil
}

// RootTypeName returns the type name of v itself: the adapter that matched
// v (the innermost name when its replacement is matched again), or its JSON
// kind when no adapter matches.
func (t *Typeson) RootTypeName(v any, opts ...config.Option) (string, error) {
	out, err := t.Encapsulate(v, nil, append(slices.Clip(opts), config.WithIterateNone(true))...)
	if err != nil {
		return "", err
	}
	name, _ := out.(string)
	return name, nil
}

func (t *Typeson) text(tree any, opts []config.Option) (string, error) {
	b, err := wire.JSON{Indent: t.st.Load().config(opts).Indent}.Marshal(tree)
	return string(b), err
}

func (t *Typeson) tree(text string, opts []config.Option) (any, error) {
	var codec wire.Codec = wire.JSON{}
	if t.st.Load().config(opts).Format == apis.FormatJSONC {
		codec = wire.JSONC{}
	}
	return codec.Unmarshal([]byte(text))
}

func strict(cfg apis.Config, syncMode bool) apis.Config {
	cfg.Sync, cfg.StrictSync = syncMode, true
	return cfg
}

// Register adds adapters to the process-wide instance.
func Register(r apis.Registrable, opts ...apis.RegisterOption) error {
	return Default().Register(r, opts...)
}

// Encapsulate calls Encapsulate on the process-wide instance.
func Encapsulate(v any, opts ...config.Option) (any, error) {
	return Default().Encapsulate(v, nil, opts...)
}

// Revive calls Revive on the process-wide instance.
func Revive(tree any, opts ...config.Option) (any, error) {
	return Default().Revive(tree, opts...)
}

// Stringify calls Stringify on the process-wide instance.
func Stringify(v any, opts ...config.Option) (string, error) {
	return Default().Stringify(v, opts...)
}

// Parse calls Parse on the process-wide instance.
func Parse(text string, opts ...config.Option) (any, error) {
	return Default().Parse(text, opts...)
}
