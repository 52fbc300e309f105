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

// Package reflect classifies values of the tree the codec walks: plain
// containers versus special values, JSON kinds, reference identity, and the
// members of arbitrary Go values.
package reflect

import (
	"maps"
	"math"
	"reflect"
	"slices"

	"dirpx.dev/typeson/apis"
)

// IsPlainObject reports whether v is a map[string]any.
func IsPlainObject(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

// IsArray reports whether v is a []any.
func IsArray(v any) bool {
	_, ok := v.([]any)
	return ok
}

// IsPlain reports whether v is a plain container.
func IsPlain(v any) bool {
	return IsPlainObject(v) || IsArray(v)
}

// IsNumber reports whether v has a Go numeric kind.
func IsNumber(v any) bool {
	_, ok := ToFloat64(v)
	return ok
}

// ToFloat64 converts any numeric kind to float64.
func ToFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uintptr:
		return float64(n), true
	}
	return 0, false
}

// IsSpecialFloat reports whether v is a float32 or float64 NaN or infinity.
func IsSpecialFloat(v any) bool {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	default:
		return false
	}
	return math.IsNaN(f) || math.IsInf(f, 0)
}

// IsScalar reports whether v is nil, a bool, a string or a number.
func IsScalar(v any) bool {
	switch v.(type) {
	case nil, bool, string:
		return true
	}
	return IsNumber(v)
}

// JSONKind returns the JSON-ish label of v: "null", "boolean", "number",
// "string", "array", "undefined", "function" or "object".
func JSONKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	case apis.UndefinedType, apis.HoleType:
		return "undefined"
	}
	if IsNumber(v) {
		return "number"
	}
	if reflect.TypeOf(v).Kind() == reflect.Func {
		return "function"
	}
	return "object"
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}
