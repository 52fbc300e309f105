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

package reflect_test

import (
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"dirpx.dev/typeson/apis"
	uref "dirpx.dev/typeson/utils/reflect"
)

// Local test types.
type A struct{}
type G[T any] struct{}

type Base struct {
	ID   int
	Note string `json:"note,omitempty"`
}

type Derived struct {
	Base
	Name   string
	Secret string `json:"-"`
	hidden int
}

func TestNormalize_Pointers(t *testing.T) {
	cases := []struct {
		name string
		typ  reflect.Type
	}{
		{"plain", reflect.TypeOf(A{})},
		{"ptr", reflect.TypeOf(&A{})},
		{"ptrptr", reflect.TypeOf(new(*A))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := uref.Normalize(tc.typ)
			if err != nil {
				t.Fatalf("Normalize(%v): unexpected error: %v", tc.typ, err)
			}
			if got != reflect.TypeOf(A{}) {
				t.Fatalf("Normalize(%v) = %v, want A", tc.typ, got)
			}
		})
	}
}

func TestNormalize_Errors(t *testing.T) {
	if _, err := uref.Normalize(nil); !errors.Is(err, uref.ErrReflectNilType) {
		t.Fatalf("Normalize(nil) err = %v, want ErrReflectNilType", err)
	}
	if _, err := uref.Normalize(reflect.TypeOf(struct{}{})); !errors.Is(err, uref.ErrReflectTypeNotNamed) {
		t.Fatalf("Normalize(anon) err = %v, want ErrReflectTypeNotNamed", err)
	}
	if _, err := uref.Normalize(reflect.TypeOf([]A{})); !errors.Is(err, uref.ErrReflectTypeNotNamed) {
		t.Fatalf("Normalize([]A) err = %v, want ErrReflectTypeNotNamed", err)
	}
}

func TestTypeName(t *testing.T) {
	cases := map[reflect.Type]string{
		reflect.TypeOf(A{}):        "reflect_test.A",
		reflect.TypeOf(&A{}):       "reflect_test.A",
		reflect.TypeOf(G[int]{}):   "reflect_test.G",
		reflect.TypeOf(0):          "int",
		reflect.TypeOf([]string{}): "[]string",
	}
	for typ, want := range cases {
		if got := uref.TypeName(typ); got != want {
			t.Fatalf("TypeName(%v) = %q, want %q", typ, got, want)
		}
	}
	if got := uref.TypeName(nil); got != "" {
		t.Fatalf("TypeName(nil) = %q, want empty", got)
	}
}

func TestTypeName_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := uref.TypeName(reflect.TypeOf(&A{})); got != "reflect_test.A" {
					t.Errorf("TypeName = %q", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestJSONKind(t *testing.T) {
	cases := []struct {
		v    any
		want string
	}{
		{nil, "null"},
		{true, "boolean"},
		{1, "number"},
		{uint8(1), "number"},
		{1.5, "number"},
		{"s", "string"},
		{[]any{}, "array"},
		{map[string]any{}, "object"},
		{apis.Undefined, "undefined"},
		{func() {}, "function"},
		{A{}, "object"},
		{[]int{1}, "object"},
	}
	for _, tc := range cases {
		if got := uref.JSONKind(tc.v); got != tc.want {
			t.Fatalf("JSONKind(%#v) = %q, want %q", tc.v, got, tc.want)
		}
	}
}

func TestClassifiers(t *testing.T) {
	if !uref.IsPlainObject(map[string]any{}) || uref.IsPlainObject(map[string]int{}) {
		t.Fatalf("IsPlainObject misclassified")
	}
	if !uref.IsArray([]any{}) || uref.IsArray([]int{}) {
		t.Fatalf("IsArray misclassified")
	}
	if !uref.IsSpecialFloat(math.NaN()) || !uref.IsSpecialFloat(float32(math.Inf(-1))) || uref.IsSpecialFloat(1.0) {
		t.Fatalf("IsSpecialFloat misclassified")
	}
	if !uref.IsScalar(nil) || !uref.IsScalar(int64(3)) || uref.IsScalar([]any{}) {
		t.Fatalf("IsScalar misclassified")
	}
	if f, ok := uref.ToFloat64(uint16(7)); !ok || f != 7 {
		t.Fatalf("ToFloat64(uint16(7)) = (%v,%v), want (7,true)", f, ok)
	}
}

func TestSortedKeys(t *testing.T) {
	got := uref.SortedKeys(map[string]any{"b": 1, "a": 2, "c": 3})
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("SortedKeys mismatch (-want +got):\n%s", diff)
	}
}

func TestIdentityOf(t *testing.T) {
	m := map[string]any{}
	if a, ok := uref.IdentityOf(m); !ok {
		t.Fatalf("IdentityOf(map) ok = false")
	} else if b, _ := uref.IdentityOf(m); a != b {
		t.Fatalf("IdentityOf(map) not stable")
	}
	if a, _ := uref.IdentityOf(map[string]any{}); func() bool { b, _ := uref.IdentityOf(m); return a == b }() {
		t.Fatalf("distinct maps share identity")
	}

	s := []any{1, 2, 3}
	full, _ := uref.IdentityOf(s)
	head, _ := uref.IdentityOf(s[:1])
	if full == head {
		t.Fatalf("slices of different length share identity")
	}

	p := &A{}
	if _, ok := uref.IdentityOf(p); !ok {
		t.Fatalf("IdentityOf(ptr) ok = false")
	}
	for _, v := range []any{nil, 1, "s", A{}, []any{}, (*A)(nil), map[string]any(nil)} {
		if _, ok := uref.IdentityOf(v); ok {
			t.Fatalf("IdentityOf(%#v) ok = true, want false", v)
		}
	}
}

func TestMembers_Struct(t *testing.T) {
	d := &Derived{Base: Base{ID: 7, Note: "n"}, Name: "x", Secret: "s", hidden: 1}
	got := uref.Members(d)
	want := []uref.Member{
		{Key: "ID", Value: 7, Own: false},
		{Key: "note", Value: "n", Own: false},
		{Key: "Name", Value: "x", Own: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Members mismatch (-want +got):\n%s", diff)
	}
}

func TestMembers_MapAndSlice(t *testing.T) {
	got := uref.Members(map[int]string{2: "b", 1: "a"})
	want := []uref.Member{{Key: "1", Value: "a", Own: true}, {Key: "2", Value: "b", Own: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Members(map) mismatch (-want +got):\n%s", diff)
	}

	got = uref.Members([2]int{5, 6})
	want = []uref.Member{{Key: "0", Value: 5, Own: true}, {Key: "1", Value: 6, Own: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Members(array) mismatch (-want +got):\n%s", diff)
	}

	if got := uref.Members(42); got != nil {
		t.Fatalf("Members(42) = %v, want nil", got)
	}
}
