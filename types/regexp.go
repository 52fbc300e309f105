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
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"dirpx.dev/typeson/apis"
)

var leadingFlags = regexp.MustCompile(`^\(\?([imsU]+)\)`)

// Regexp encodes *regexp.Regexp as {source, flags}. A leading group of
// inline flags is moved to flags; flags Go does not know are ignored on
// revival.
var Regexp = apis.Set{
	"regexp": &apis.Spec{
		Test: func(v any, _ *apis.State) bool {
			re, ok := v.(*regexp.Regexp)
			return ok && re != nil
		},
		Replace: func(v any, _ *apis.State) (any, error) {
			src, flags := v.(*regexp.Regexp).String(), ""
			if m := leadingFlags.FindStringSubmatch(src); m != nil {
				src, flags = src[len(m[0]):], m[1]
			}
			return map[string]any{"source": src, "flags": flags}, nil
		},
		Revive: func(v any, _ *apis.State) (any, error) {
			m, ok := v.(map[string]any)
			if !ok {
				return nil, errors.Errorf("regexp: want object, got %T", v)
			}
			src, _ := m["source"].(string)
			flags, _ := m["flags"].(string)
			var known strings.Builder
			for _, f := range flags {
				if strings.ContainsRune("imsU", f) {
					known.WriteRune(f)
				}
			}
			if known.Len() > 0 {
				src = "(?" + known.String() + ")" + src
			}
			return regexp.Compile(src)
		},
	},
}
