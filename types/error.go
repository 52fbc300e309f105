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
	"reflect"

	"dirpx.dev/typeson/apis"
	uref "dirpx.dev/typeson/utils/reflect"
)

// Error is the revived form of any encoded error value.
type Error struct {
	Name    string
	Message string
}

// Error implements error.
func (e *Error) Error() string { return e.Message }

// Errors encodes any error as {name, message}. The name is the Go type name
// of the error, or Error.Name for an already revived error.
var Errors = apis.Set{
	"error": &apis.Spec{
		Test: func(v any, _ *apis.State) bool {
			_, ok := v.(error)
			return ok
		},
		Replace: func(v any, _ *apis.State) (any, error) {
			err := v.(error)
			name := uref.TypeName(reflect.TypeOf(err))
			if e, ok := err.(*Error); ok {
				name = e.Name
			}
			return map[string]any{"name": name, "message": err.Error()}, nil
		},
		Revive: func(v any, _ *apis.State) (any, error) {
			m, _ := v.(map[string]any)
			name, _ := m["name"].(string)
			msg, _ := m["message"].(string)
			return &Error{Name: name, Message: msg}, nil
		},
	},
}
