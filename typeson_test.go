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

package typeson_test

import (
	"context"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/typeson"
	"dirpx.dev/typeson/apis"
	"dirpx.dev/typeson/builder"
	"dirpx.dev/typeson/config"
	"dirpx.dev/typeson/deferred"
	"dirpx.dev/typeson/presets"
	"dirpx.dev/typeson/registry"
	"dirpx.dev/typeson/types"
)

// ---------------------- Test doubles ----------------------

type wrapper struct{ T time.Time }

var wrapperSpec = &apis.Spec{
	Test: func(v any, _ *apis.State) bool {
		_, ok := v.(*wrapper)
		return ok
	},
	Replace: func(v any, _ *apis.State) (any, error) { return v.(*wrapper).T, nil },
	Revive:  func(v any, _ *apis.State) (any, error) { return &wrapper{T: v.(time.Time)}, nil },
}

type ticket struct{ ID string }

// ticketSpec only has asynchronous methods.
var ticketSpec = &apis.Spec{
	Test: func(v any, _ *apis.State) bool {
		_, ok := v.(ticket)
		return ok
	},
	ReplaceAsync: func(v any, _ *apis.State) *deferred.Deferred {
		id := v.(ticket).ID
		return deferred.Go(func() (any, error) { return id, nil })
	},
	ReviveAsync: func(v any, _ *apis.State) *deferred.Deferred {
		id, _ := v.(string)
		return deferred.Go(func() (any, error) { return ticket{ID: id}, nil })
	},
}

type marker struct{}

// constSpec matches every marker and replaces it with out.
func constSpec(out string) *apis.Spec {
	return &apis.Spec{
		Test: func(v any, _ *apis.State) bool {
			_, ok := v.(marker)
			return ok
		},
		Replace: func(any, *apis.State) (any, error) { return out, nil },
		Revive:  func(v any, _ *apis.State) (any, error) { return v, nil },
	}
}

// countingBuilder wraps the default builder and counts registry builds.
type countingBuilder struct {
	apis.Builder
	registries int
}

func (b *countingBuilder) BuildRegistry(cfg apis.Config, prev apis.Registry, ext any) (apis.Registry, error) {
	b.registries++
	return b.Builder.BuildRegistry(cfg, prev, ext)
}

type nilBuilder struct{ apis.Builder }

func (nilBuilder) BuildRegistry(apis.Config, apis.Registry, any) (apis.Registry, error) {
	return nil, nil
}

func sameRef(a, b any) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

// ---------------------- Properties ----------------------

func TestRoundTrip_JSONNativeValues(t *testing.T) {
	ts := typeson.New().MustRegister(presets.Builtin)
	in := map[string]any{
		"a": 1.0,
		"b": []any{"x", true, nil, -2.5},
		"c": map[string]any{"d": "e", "$": "dollar"},
	}

	text, err := ts.Stringify(in)
	require.NoError(t, err)
	assert.NotContains(t, text, "$types")

	out, err := ts.Parse(text)
	require.NoError(t, err)
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCycle_SelfReference(t *testing.T) {
	o := map[string]any{}
	o["self"] = o

	text, err := typeson.New().Stringify(o)
	require.NoError(t, err)
	assert.JSONEq(t, `{"self":"#","$types":{"self":"#"}}`, text)

	out, err := typeson.New().Parse(text)
	require.NoError(t, err)
	m := out.(map[string]any)
	assert.True(t, sameRef(m, m["self"]), "self must be the revived root")
}

func TestSharedReference_SameInstance(t *testing.T) {
	obj := map[string]any{"x": 1.0}

	text, err := typeson.New().Stringify([]any{obj, obj})
	require.NoError(t, err)
	assert.JSONEq(t, `{"$":[{"x":1},"#0"],"$types":{"$":{"1":"#"}}}`, text)

	out, err := typeson.New().Parse(text)
	require.NoError(t, err)
	arr := out.([]any)
	assert.True(t, sameRef(arr[0], arr[1]))
}

func TestRegistrationOverride(t *testing.T) {
	ts := typeson.New()
	require.NoError(t, ts.Register(apis.Set{"date": constSpec("first")}))
	require.NoError(t, ts.Register(apis.Set{"date": constSpec("second")}))

	text, err := ts.Stringify([]any{marker{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"$":["second"],"$types":{"$":{"0":"date"}}}`, text)
	assert.Len(t, ts.Types(), 1)
	assert.Equal(t, 1, ts.Registry().Count())
}

func TestReservedNames(t *testing.T) {
	ts := typeson.New()
	for _, name := range []string{"#", "object", "null", "array"} {
		err := ts.Register(apis.Set{name: constSpec("x")})
		assert.ErrorIs(t, err, registry.ErrReservedTypeName, name)
	}
	assert.Zero(t, ts.Registry().Count())
	assert.Panics(t, func() { ts.MustRegister(apis.Set{"#": constSpec("x")}) })
}

func TestSpecialNumbers(t *testing.T) {
	ts := typeson.New().MustRegister(presets.SpecialNumbers)

	text, err := ts.Stringify(math.NaN())
	require.NoError(t, err)
	assert.JSONEq(t, `{"$":"NaN","$types":{"$":{"":"nan"}}}`, text)
	out, err := ts.Parse(text)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(out.(float64)))

	for _, want := range []float64{math.Inf(1), math.Inf(-1)} {
		text, err := ts.Stringify(want)
		require.NoError(t, err)
		out, err := ts.Parse(text)
		require.NoError(t, err)
		assert.Equal(t, want, out)
	}
}

func TestSpecialNumbers_WithoutAdapter(t *testing.T) {
	_, err := typeson.New().Stringify(math.NaN())
	assert.Error(t, err, "plain JSON cannot carry NaN")
}

func TestSyncAsyncMismatch(t *testing.T) {
	ts := typeson.New().MustRegister(apis.Set{"ticket": ticketSpec})

	_, err := ts.StringifySync(ticket{ID: "t1"})
	assert.ErrorIs(t, err, apis.ErrSyncAsyncMismatch)

	_, err = ts.StringifyAsync([]any{1.0})
	assert.ErrorIs(t, err, apis.ErrSyncAsyncMismatch)

	_, err = ts.ParseSync(`{"$":"t1","$types":{"$":{"":"ticket"}}}`)
	assert.ErrorIs(t, err, apis.ErrSyncAsyncMismatch)
}

func TestAsyncAdapters(t *testing.T) {
	ts := typeson.New().MustRegister(apis.Set{"ticket": ticketSpec})
	in := map[string]any{"a": ticket{ID: "t1"}, "b": []any{ticket{ID: "t2"}}}

	d, err := ts.StringifyAsync(in)
	require.NoError(t, err)
	text, err := d.Await(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"t1","b":["t2"],"$types":{"a":"ticket","b.0":"ticket"}}`, text.(string))

	// Non-strict calls wait for pending work.
	plain, err := ts.Stringify(in)
	require.NoError(t, err)
	assert.Equal(t, text, plain)

	d, err = ts.ParseAsync(text.(string))
	require.NoError(t, err)
	out, err := d.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": ticket{ID: "t1"}, "b": []any{ticket{ID: "t2"}}}, out)
}

func TestComposedChain(t *testing.T) {
	ts := typeson.New().MustRegister(apis.Preset{types.Date, apis.Set{"wrapper": wrapperSpec}})
	in := &wrapper{T: time.UnixMilli(1234567)}

	text, err := ts.Stringify(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"$":1234567,"$types":{"$":{"":["date","wrapper"]}}}`, text)

	out, err := ts.Parse(text)
	require.NoError(t, err)
	got, ok := out.(*wrapper)
	require.True(t, ok, "got %T", out)
	assert.Equal(t, int64(1234567), got.T.UnixMilli())
}

func TestDateScenario(t *testing.T) {
	text, err := typeson.New().MustRegister(types.Date).Stringify(time.UnixMilli(1234567))
	require.NoError(t, err)

	out, err := typeson.New().MustRegister(types.Date).Parse(text)
	require.NoError(t, err)
	assert.Equal(t, int64(1234567), out.(time.Time).UnixMilli())
}

// TestScanOrder_LaterRegistrationWins pins the tie-break between adapters
// that accept the same value: the most recently appended adapter is tried
// first and fallback adapters are tried last.
func TestScanOrder_LaterRegistrationWins(t *testing.T) {
	ts := typeson.New()
	require.NoError(t, ts.Register(apis.Set{"a": constSpec("a")}))
	require.NoError(t, ts.Register(apis.Set{"b": constSpec("b")}))
	require.NoError(t, ts.Register(apis.Set{"c": constSpec("c")}, registry.WithFallback()))

	text, err := ts.Stringify(marker{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"$":"b","$types":{"$":{"":"b"}}}`, text)

	// Within one Set, names register in lexical order, so "z" wins over "y".
	ts = typeson.New().MustRegister(apis.Set{"z": constSpec("z"), "y": constSpec("y")})
	name, err := ts.RootTypeName(marker{})
	require.NoError(t, err)
	assert.Equal(t, "z", name)
}

func TestUnregisteredType(t *testing.T) {
	_, err := typeson.New().Parse(`{"$":1,"$types":{"$":{"":"nope"}}}`)
	assert.ErrorIs(t, err, apis.ErrUnregisteredType)
}

func TestUnresolvedReference(t *testing.T) {
	text := `{"a":"#b.c","b":1,"$types":{"a":"#"}}`

	out, err := typeson.New().Parse(text)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"b": 1.0}, out)

	_, err = typeson.New().Parse(text, config.WithStrictReferences(true))
	assert.ErrorIs(t, err, apis.ErrUnresolvedReference)
}

func TestIntrospection(t *testing.T) {
	ts := typeson.New().MustRegister(presets.Builtin)

	names, err := ts.SpecialTypeNames(map[string]any{"n": math.NaN(), "d": time.Now(), "p": 1.0})
	require.NoError(t, err)
	assert.Equal(t, []string{"date", "nan"}, names)

	names, err = ts.SpecialTypeNames(map[string]any{"p": 1.0})
	require.NoError(t, err)
	assert.Empty(t, names)

	// A boxed NaN is annotated ["nan", "NumberObject"]; the root is the box.
	boxed := math.NaN()
	name, err := ts.RootTypeName(&boxed)
	require.NoError(t, err)
	assert.Equal(t, "NumberObject", name)

	for want, v := range map[string]any{"date": time.Now(), "array": []any{1.0}, "object": map[string]any{}, "number": 1.0, "null": nil} {
		got, err := ts.RootTypeName(v)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestMarshal_CBOR(t *testing.T) {
	ts := typeson.New(config.WithFormat(apis.FormatCBOR)).MustRegister(presets.Builtin)
	in := map[string]any{"d": time.UnixMilli(5), "b": []byte{1, 2}, "n": math.Inf(1)}

	data, err := ts.Marshal(in)
	require.NoError(t, err)
	out, err := ts.Unmarshal(data)
	require.NoError(t, err)

	m := out.(map[string]any)
	assert.True(t, m["d"].(time.Time).Equal(time.UnixMilli(5)))
	assert.Equal(t, []byte{1, 2}, m["b"])
	assert.Equal(t, math.Inf(1), m["n"])
}

func TestParse_JSONC(t *testing.T) {
	ts := typeson.New(config.WithFormat(apis.FormatJSONC)).MustRegister(types.Date)
	out, err := ts.Parse(`{
		// a comment
		"d": 7,
		"$types": {"d": "date",},
	}`)
	require.NoError(t, err)
	assert.Equal(t, int64(7), out.(map[string]any)["d"].(time.Time).UnixMilli())
}

func TestSetConfig_KeepsAdapters(t *testing.T) {
	ts := typeson.New().MustRegister(types.Date)
	require.NoError(t, ts.SetConfig(config.WithIndent("  ")))

	assert.Equal(t, "  ", ts.Config().Indent)
	assert.Contains(t, ts.Types(), "date")
	text, err := ts.Stringify(map[string]any{"a": 1.0})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", text)
}

func TestSetBuilder(t *testing.T) {
	ts := typeson.New().MustRegister(types.Date)
	b := &countingBuilder{Builder: builder.New()}

	require.NoError(t, ts.SetBuilder(b))
	assert.Equal(t, 1, b.registries)
	assert.Contains(t, ts.Types(), "date")

	require.NoError(t, ts.SetConfig(config.WithCyclic(false)))
	assert.Equal(t, 2, b.registries)

	assert.ErrorIs(t, ts.SetBuilder(nil), typeson.ErrNilBuilder)
	assert.ErrorIs(t, ts.SetBuilder(nilBuilder{builder.New()}), typeson.ErrNilRegistry)
	assert.Contains(t, ts.Types(), "date", "a failed rebuild must keep the previous snapshot")
}

func TestDefaultInstance(t *testing.T) {
	prev := typeson.Default()
	t.Cleanup(func() { typeson.SetDefault(prev) })

	text, err := typeson.Stringify(time.UnixMilli(1234567))
	require.NoError(t, err)
	assert.True(t, strings.Contains(text, `"date"`), text)
	out, err := typeson.Parse(text)
	require.NoError(t, err)
	assert.Equal(t, int64(1234567), out.(time.Time).UnixMilli())

	typeson.SetDefault(typeson.New())
	typeson.SetDefault(nil)
	require.NoError(t, typeson.Register(apis.Set{"wrapper": wrapperSpec}))
	assert.Len(t, typeson.Default().Types(), 1)

	in := &wrapper{T: time.UnixMilli(1)}
	tree, err := typeson.Encapsulate(in)
	require.NoError(t, err)
	out, err = typeson.Revive(tree)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestUndefinedRoot(t *testing.T) {
	// Without an adapter the text form of Undefined is JSON null.
	text, err := typeson.New().Stringify(apis.Undefined)
	require.NoError(t, err)
	assert.Equal(t, "null", text)

	ts := typeson.New().MustRegister(presets.Undef)
	text, err = ts.Stringify(apis.Undefined)
	require.NoError(t, err)
	assert.JSONEq(t, `{"$":null,"$types":{"$":{"":"undef"}}}`, text)
	out, err := ts.Parse(text)
	require.NoError(t, err)
	assert.True(t, apis.IsUndefined(out), "got %#v", out)
}
