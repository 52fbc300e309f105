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
	"github.com/pkg/errors"

	"dirpx.dev/typeson/apis"
	uref "dirpx.dev/typeson/utils/reflect"
)

// PrimitiveObjects keeps boxed scalars (*string, *bool, *float64) boxed.
var PrimitiveObjects = apis.Set{
	"StringObject": &apis.Spec{
		Test: func(v any, _ *apis.State) bool {
			p, ok := v.(*string)
			return ok && p != nil
		},
		Replace: func(v any, _ *apis.State) (any, error) { return *v.(*string), nil },
		Revive: func(v any, _ *apis.State) (any, error) {
			s, ok := v.(string)
			if !ok {
				return nil, errors.Errorf("StringObject: want string, got %T", v)
			}
			return &s, nil
		},
	},
	"BooleanObject": &apis.Spec{
		Test: func(v any, _ *apis.State) bool {
			p, ok := v.(*bool)
			return ok && p != nil
		},
		Replace: func(v any, _ *apis.State) (any, error) { return *v.(*bool), nil },
		Revive: func(v any, _ *apis.State) (any, error) {
			b, ok := v.(bool)
			if !ok {
				return nil, errors.Errorf("BooleanObject: want bool, got %T", v)
			}
			return &b, nil
		},
	},
	"NumberObject": &apis.Spec{
		Test: func(v any, _ *apis.State) bool {
			p, ok := v.(*float64)
			return ok && p != nil
		},
		Replace: func(v any, _ *apis.State) (any, error) { return *v.(*float64), nil },
		Revive: func(v any, _ *apis.State) (any, error) {
			f, ok := uref.ToFloat64(v)
			if !ok {
				return nil, errors.Errorf("NumberObject: want number, got %T", v)
			}
			return &f, nil
		},
	},
}
