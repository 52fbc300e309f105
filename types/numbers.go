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
	"math"

	"dirpx.dev/typeson/apis"
)

func isFloat(v any, pred func(float64) bool) bool {
	switch f := v.(type) {
	case float64:
		return pred(f)
	case float32:
		return pred(float64(f))
	}
	return false
}

// NaN encodes float NaN as the string "NaN".
var NaN = apis.Set{
	"nan": &apis.Spec{
		Test:    func(v any, _ *apis.State) bool { return isFloat(v, math.IsNaN) },
		Replace: func(any, *apis.State) (any, error) { return "NaN", nil },
		Revive:  func(any, *apis.State) (any, error) { return math.NaN(), nil },
	},
}

// Infinity encodes +Inf as the string "Infinity".
var Infinity = apis.Set{
	"infinity": &apis.Spec{
		Test:    func(v any, _ *apis.State) bool { return isFloat(v, func(f float64) bool { return math.IsInf(f, 1) }) },
		Replace: func(any, *apis.State) (any, error) { return "Infinity", nil },
		Revive:  func(any, *apis.State) (any, error) { return math.Inf(1), nil },
	},
}

// NegativeInfinity encodes -Inf as the string "-Infinity".
var NegativeInfinity = apis.Set{
	"negativeInfinity": &apis.Spec{
		Test:    func(v any, _ *apis.State) bool { return isFloat(v, func(f float64) bool { return math.IsInf(f, -1) }) },
		Replace: func(any, *apis.State) (any, error) { return "-Infinity", nil },
		Revive:  func(any, *apis.State) (any, error) { return math.Inf(-1), nil },
	},
}
