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

// UndefinedType is the type of Undefined.
type UndefinedType struct{}

// Undefined stands for a value that exists but has no content. It is
// distinct from nil, which is JSON null. Encapsulation offers it to adapters
// and omits it from objects when none replaces it; a reviver returning it
// stores it explicitly.
var Undefined = UndefinedType{}

// MarshalJSON encodes Undefined as null, like JSON.stringify inside arrays.
func (UndefinedType) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// MarshalCBOR encodes Undefined as the CBOR undefined simple value.
func (UndefinedType) MarshalCBOR() ([]byte, error) { return []byte{0xf7}, nil }

// String implements fmt.Stringer.
func (UndefinedType) String() string { return "undefined" }

// HoleType is the type of Hole.
type HoleType struct{}

// Hole marks an absent value: an unset slot of a []any, or, when returned
// by a reviver, a value that must not be assigned at all.
var Hole = HoleType{}

// MarshalJSON encodes Hole as null.
func (HoleType) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

// MarshalCBOR encodes Hole as CBOR null.
func (HoleType) MarshalCBOR() ([]byte, error) { return []byte{0xf6}, nil }

// String implements fmt.Stringer.
func (HoleType) String() string { return "<hole>" }

// IsUndefined reports whether v is Undefined.
func IsUndefined(v any) bool {
	_, ok := v.(UndefinedType)
	return ok
}

// IsHole reports whether v is Hole.
func IsHole(v any) bool {
	_, ok := v.(HoleType)
	return ok
}

// IsAbsent reports whether v is Undefined or Hole.
func IsAbsent(v any) bool {
	return IsUndefined(v) || IsHole(v)
}
