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
	"reflect"
)

// Identity distinguishes reference-like values for cycle detection.
// Two values share an Identity only if they alias the same storage with the
// same Go type.
type Identity struct {
	t   reflect.Type
	ptr uintptr
	n   int
}

// IdentityOf returns the identity of v when v is a non-nil map or pointer,
// or a slice with a backing array. Other values have no identity.
func IdentityOf(v any) (Identity, bool) {
	if v == nil {
		return Identity{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Pointer:
		if rv.IsNil() {
			return Identity{}, false
		}
		return Identity{t: rv.Type(), ptr: rv.Pointer()}, true
	case reflect.Slice:
		if rv.IsNil() || rv.Cap() == 0 {
			return Identity{}, false
		}
		return Identity{t: rv.Type(), ptr: rv.Pointer(), n: rv.Len()}, true
	}
	return Identity{}, false
}
