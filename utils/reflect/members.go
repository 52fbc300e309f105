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

package reflect

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Member is one enumerable member of a value.
type Member struct {
	Key   string
	Value any
	// Own is false for fields promoted from embedded structs.
	Own bool
}

// Members enumerates v: exported struct fields (keyed as FieldKey does),
// map entries in sorted key order, and slice or array elements by index.
// Pointers are followed. Anything else has no members.
func Members(v any) []Member {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	switch rv.Kind() {
	case reflect.Struct:
		return structMembers(rv)
	case reflect.Map:
		out := make([]Member, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out = append(out, Member{Key: keyString(iter.Key()), Value: iter.Value().Interface(), Own: true})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
		return out
	case reflect.Slice, reflect.Array:
		out := make([]Member, rv.Len())
		for i := range out {
			out[i] = Member{Key: strconv.Itoa(i), Value: rv.Index(i).Interface(), Own: true}
		}
		return out
	}
	return nil
}

func structMembers(rv reflect.Value) []Member {
	var out []Member
	for _, f := range reflect.VisibleFields(rv.Type()) {
		if f.Anonymous && isStructLike(f.Type) {
			continue
		}
		key, ok := FieldKey(f)
		if !ok {
			continue
		}
		fv, err := rv.FieldByIndexErr(f.Index)
		if err != nil || !fv.CanInterface() {
			continue
		}
		out = append(out, Member{Key: key, Value: fv.Interface(), Own: len(f.Index) == 1})
	}
	return out
}

// FieldKey returns the member name of an exported struct field, honouring
// the name part of a json tag. It reports false for unexported fields and
// fields tagged json:"-".
func FieldKey(f reflect.StructField) (string, bool) {
	if !f.IsExported() {
		return "", false
	}
	tag := f.Tag.Get("json")
	if tag == "-" {
		return "", false
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name, true
	}
	return f.Name, true
}

func isStructLike(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func keyString(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}
