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
	"dirpx.dev/typeson/apis"
)

// Undef preserves Undefined found at the root or as an own member by
// encoding it as null. Unset array slots are left to SparseUndefined.
var Undef = apis.Set{
	"undef": &apis.Spec{
		Test: func(v any, st *apis.State) bool {
			return apis.IsUndefined(v) && st.OwnKeys != apis.KeyNotOwn
		},
		Replace: func(any, *apis.State) (any, error) { return nil, nil },
		Revive:  func(any, *apis.State) (any, error) { return apis.Undefined, nil },
	},
}

// SparseArrays walks the unset slots of every []any so that SparseUndefined
// can mark them. It never annotates anything itself.
var SparseArrays = apis.Set{
	"sparseArrays": &apis.Spec{
		TestPlainObjects: true,
		Test: func(v any, _ *apis.State) bool {
			_, ok := v.([]any)
			return ok
		},
		Replace: func(v any, st *apis.State) (any, error) {
			st.IterateUnsetNumeric = true
			return v, nil
		},
	},
}

// SparseUndefined encodes an unset array slot as null and revives it as an
// unset slot again.
var SparseUndefined = apis.Set{
	"sparseUndefined": &apis.Spec{
		Test: func(v any, st *apis.State) bool {
			return apis.IsUndefined(v) && st.OwnKeys == apis.KeyNotOwn
		},
		Replace: func(any, *apis.State) (any, error) { return nil, nil },
		Revive:  func(any, *apis.State) (any, error) { return apis.Hole, nil },
	},
}
