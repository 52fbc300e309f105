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
	"path"
	"reflect"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// DefaultMaxUnwrap bounds pointer unwrapping in Normalize.
const DefaultMaxUnwrap = 8

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("typeson(reflect): nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after unwrapping pointers)
	// is not a named type (e.g., anonymous struct, func, map literal type).
	ErrReflectTypeNotNamed = errors.New("typeson(reflect): type has no name")
)

// Normalize strips up to DefaultMaxUnwrap pointer levels and returns the
// named type underneath, or an error if none is found.
func Normalize(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	for i := 0; i < DefaultMaxUnwrap && t.Kind() == reflect.Pointer; i++ {
		t = t.Elem()
	}
	if t.Kind() == reflect.Pointer || t.Name() == "" {
		return nil, ErrReflectTypeNotNamed
	}
	return t, nil
}

// typeNameCache memoizes TypeName by reflect.Type.
var typeNameCache sync.Map // key: reflect.Type, val: string

// TypeName returns a short "pkg.Type" label for t, used where a value's
// dynamic type has to be recorded as data (error names, diagnostics).
// Builtin types yield their bare name; unnamed types yield t.String().
func TypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if v, ok := typeNameCache.Load(t); ok {
		return v.(string)
	}
	name := t.String()
	if base, err := Normalize(t); err == nil {
		name = stripTypeParams(base.Name())
		if p := base.PkgPath(); p != "" {
			name = path.Base(p) + "." + name
		}
	}
	typeNameCache.Store(t, name)
	return name
}

// stripTypeParams removes generic type instantiation suffix: "T[int,string]" -> "T".
func stripTypeParams(s string) string {
	if i := strings.IndexByte(s, '['); i >= 0 {
		return s[:i]
	}
	return s
}
