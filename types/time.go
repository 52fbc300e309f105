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
	"time"

	"github.com/pkg/errors"

	"dirpx.dev/typeson/apis"
	uref "dirpx.dev/typeson/utils/reflect"
)

// Date encodes time.Time as Unix milliseconds.
// The string "NaN" revives as the zero time.
var Date = apis.Set{
	"date": &apis.Spec{
		Test: func(v any, _ *apis.State) bool {
			_, ok := v.(time.Time)
			return ok
		},
		Replace: func(v any, _ *apis.State) (any, error) {
			return v.(time.Time).UnixMilli(), nil
		},
		Revive: func(v any, _ *apis.State) (any, error) {
			if s, ok := v.(string); ok && s == "NaN" {
				return time.Time{}, nil
			}
			ms, ok := uref.ToFloat64(v)
			if !ok {
				return nil, errors.Errorf("date: want milliseconds, got %T", v)
			}
			return time.UnixMilli(int64(ms)), nil
		},
	},
}

// Duration encodes time.Duration as integer nanoseconds.
var Duration = apis.Set{
	"duration": &apis.Spec{
		Test: func(v any, _ *apis.State) bool {
			_, ok := v.(time.Duration)
			return ok
		},
		Replace: func(v any, _ *apis.State) (any, error) {
			return int64(v.(time.Duration)), nil
		},
		Revive: func(v any, _ *apis.State) (any, error) {
			ns, ok := uref.ToFloat64(v)
			if !ok {
				return nil, errors.Errorf("duration: want nanoseconds, got %T", v)
			}
			return time.Duration(ns), nil
		},
	},
}
