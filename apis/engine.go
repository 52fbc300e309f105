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
	"dirpx.dev/typeson/deferred"
)

// Encapsulator turns a value tree into a plain tree plus type annotations.
type Encapsulator interface {
	// Encapsulate walks v. The returned Deferred is already settled unless an
	// adapter suspended. A nil st gets a fresh State.
	Encapsulate(v any, st *State, cfg Config) (*deferred.Deferred, error)
}

// Reviver rebuilds a value tree from the output of an Encapsulator.
type Reviver interface {
	// Revive rebuilds tree. The returned Deferred is already settled unless a
	// reviver suspended. A nil st gets a fresh State.
	Revive(tree any, st *State, cfg Config) (*deferred.Deferred, error)
}
