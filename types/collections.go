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

package types

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"dirpx.dev/typeson/apis"
)

// Map encodes any Go map other than map[string]any as a list of [key, value]
// entries in key order and revives it as map[any]any.
var Map = apis.Set{
	"map": &apis.Spec{
		Test: func(v any, _ *apis.State) bool {
			return v != nil && reflect.TypeOf(v).Kind() == reflect.Map
		},
		Replace: func(v any, _ *apis.State) (any, error) {
			rv := reflect.ValueOf(v)
			keys := sortedMapKeys(rv)
			out := make([]any, len(keys))
			for i, k := range keys {
				out[i] = []any{k.Interface(), rv.MapIndex(k).Interface()}
			}
			return out, nil
		},
		Revive: func(v any, _ *apis.State) (any, error) {
			entries, ok := v.([]any)
			if !ok {
				return nil, errors.Errorf("map: want entry list, got %T", v)
			}
			out := make(map[any]any, len(entries))
			for i, e := range entries {
				pair, ok := e.([]any)
				if !ok || len(pair) != 2 {
					return nil, errors.Errorf("map: entry %d is not a [key, value] pair", i)
				}
				if err := checkKey(pair[0]); err != nil {
					return nil, errors.Wrap(err, "map")
				}
				out[pair[0]] = pair[1]
			}
			return out, nil
		},
	},
}

// Set encodes maps with an empty struct element type, the usual Go set, as
// the list of their keys and revives them as map[any]struct{}.
var Set = apis.Set{
	"set": &apis.Spec{
		Test: func(v any, _ *apis.State) bool {
			if v == nil {
				return false
			}
			t := reflect.TypeOf(v)
			return t.Kind() == reflect.Map && t.Elem().Kind() == reflect.Struct && t.Elem().Size() == 0
		},
		Replace: func(v any, _ *apis.State) (any, error) {
			keys := sortedMapKeys(reflect.ValueOf(v))
			out := make([]any, len(keys))
			for i, k := range keys {
				out[i] = k.Interface()
			}
			return out, nil
		},
		Revive: func(v any, _ *apis.State) (any, error) {
			members, ok := v.([]any)
			if !ok {
				return nil, errors.Errorf("set: want member list, got %T", v)
			}
			out := make(map[any]struct{}, len(members))
			for _, m := range members {
				if err := checkKey(m); err != nil {
					return nil, errors.Wrap(err, "set")
				}
				out[m] = struct{}{}
			}
			return out, nil
		},
	},
}

func checkKey(k any) error {
	if k != nil && !reflect.TypeOf(k).Comparable() {
		return errors.Errorf("key of type %T is not comparable", k)
	}
	return nil
}

func sortedMapKeys(rv reflect.Value) []reflect.Value {
	keys := rv.MapKeys()
	slices.SortFunc(keys, compareKeys)
	return keys
}

// compareKeys orders numbers numerically and strings lexically. Keys of
// mixed or other kinds fall back to their kind, then their printed form.
func compareKeys(a, b reflect.Value) int {
	if a.Kind() == reflect.Interface {
		a = a.Elem()
	}
	if b.Kind() == reflect.Interface {
		b = b.Elem()
	}
	if !a.IsValid() || !b.IsValid() {
		return cmp.Compare(boolInt(a.IsValid()), boolInt(b.IsValid()))
	}
	if a.Kind() != b.Kind() {
		return cmp.Compare(a.Kind(), b.Kind())
	}
	switch {
	case a.CanInt():
		return cmp.Compare(a.Int(), b.Int())
	case a.CanUint():
		return cmp.Compare(a.Uint(), b.Uint())
	case a.CanFloat():
		return cmp.Compare(a.Float(), b.Float())
	case a.Kind() == reflect.String:
		return strings.Compare(a.String(), b.String())
	}
	return strings.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
