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

package apis

import (
	"reflect"
	"sort"

	"dirpx.dev/typeson/deferred"
)

// TestFunc reports whether an adapter handles v.
type TestFunc func(v any, st *State) bool

// ReplaceFunc converts a special value into something closer to a plain tree.
// The result is walked again, so it may itself contain special values.
type ReplaceFunc func(v any, st *State) (any, error)

// ReviveFunc rebuilds a special value from its plain representation.
type ReviveFunc func(v any, st *State) (any, error)

// AsyncFunc is the asynchronous form of ReplaceFunc and ReviveFunc.
type AsyncFunc func(v any, st *State) *deferred.Deferred

// Spec is a complete adapter definition for one type name.
//
// Test is required. Replace/ReplaceAsync and Revive/ReviveAsync are optional:
// an adapter without any replace method only detects (the value is walked
// as is under the type name); an adapter without any revive method is never
// recorded in the annotation map.
type Spec struct {
	// TestPlainObjects places the adapter on the plain-object list, so Test is
	// offered map[string]any and []any values. Otherwise Test only sees
	// non-plain values.
	TestPlainObjects bool

	Test         TestFunc
	Replace      ReplaceFunc
	ReplaceAsync AsyncFunc
	Revive       ReviveFunc
	ReviveAsync  AsyncFunc
}

// Define implements Definer.
func (s *Spec) Define() *Spec { return s }

// CanRevive reports whether s has any reviver.
func (s *Spec) CanRevive() bool {
	return s != nil && (s.Revive != nil || s.ReviveAsync != nil)
}

// Definer is anything that expands into a Spec. A nil Definer inside a Set
// unregisters the name.
type Definer interface {
	Define() *Spec
}

// Tuple is the [test, replace, revive] shorthand.
type Tuple struct {
	Test    TestFunc
	Replace ReplaceFunc
	Revive  ReviveFunc
}

// Define implements Definer.
func (t Tuple) Define() *Spec {
	return &Spec{Test: t.Test, Replace: t.Replace, Revive: t.Revive}
}

// Class is the class shorthand: values whose dynamic type is exactly Type (or
// a pointer to it) are replaced by a map of their exported fields and revived
// into a fresh value of the same type. Type must be a struct or a pointer to
// one; Define returns nil otherwise.
type Class struct {
	Type reflect.Type
}

// ClassOf returns the Class shorthand for T.
func ClassOf[T any]() Class {
	return Class{Type: reflect.TypeOf((*T)(nil)).Elem()}
}

// Define implements Definer.
func (c Class) Define() *Spec {
	t := c.Type
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	return &Spec{
		Test: func(v any, _ *State) bool {
			if v == nil {
				return false
			}
			vt := reflect.TypeOf(v)
			return vt == t || (vt.Kind() == reflect.Pointer && vt.Elem() == t)
		},
		Replace: func(v any, _ *State) (any, error) {
			rv := reflect.Indirect(reflect.ValueOf(v))
			out := make(map[string]any, rv.NumField())
			for i := 0; i < rv.NumField(); i++ {
				f := t.Field(i)
				if !f.IsExported() {
					continue
				}
				out[f.Name] = rv.Field(i).Interface()
			}
			return out, nil
		},
		Revive: func(v any, _ *State) (any, error) {
			m, _ := v.(map[string]any)
			ptr := reflect.New(t)
			for name, fv := range m {
				f := ptr.Elem().FieldByName(name)
				if !f.IsValid() || !f.CanSet() || fv == nil {
					continue
				}
				val := reflect.ValueOf(fv)
				switch {
				case val.Type().AssignableTo(f.Type()):
					f.Set(val)
				case val.Type().ConvertibleTo(f.Type()):
					f.Set(val.Convert(f.Type()))
				}
			}
			return ptr.Interface(), nil
		},
	}
}

// Registrable is accepted by Registry.Register: a Set or a Preset.
type Registrable interface {
	// Flatten returns the sets in registration order.
	Flatten() []Set
}

// Set maps type names to adapter definitions.
// Entries of a single Set are registered in lexical name order.
type Set map[string]Definer

// Flatten implements Registrable.
func (s Set) Flatten() []Set { return []Set{s} }

// Names returns the set's type names in registration order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Preset is an ordered, possibly nested bundle of sets.
type Preset []Registrable

// Flatten implements Registrable.
func (p Preset) Flatten() []Set {
	var out []Set
	for _, r := range p {
		if r == nil {
			continue
		}
		out = append(out, r.Flatten()...)
	}
	return out
}
