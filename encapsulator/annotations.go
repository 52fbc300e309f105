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

package encapsulator

import (
	"slices"

	"dirpx.dev/typeson/registry"
)

// annotations is the key path -> type map of one call, in insertion order.
// A value is a string, or a []string for a replacement chain (outermost first).
type annotations struct {
	keys []string
	m    map[string]any
}

func newAnnotations() *annotations {
	return &annotations{m: map[string]any{}}
}

func (a *annotations) len() int { return len(a.keys) }

func (a *annotations) set(kp string, v any) {
	if _, ok := a.m[kp]; !ok {
		a.keys = append(a.keys, kp)
	}
	a.m[kp] = v
}

// compose prepends name to whatever is recorded at kp.
func (a *annotations) compose(kp, name string) {
	switch ex := a.m[kp].(type) {
	case string:
		a.set(kp, []string{name, ex})
	case []string:
		a.set(kp, append([]string{name}, ex...))
	default:
		a.set(kp, name)
	}
}

func (a *annotations) cyclic(kp string) {
	a.set(kp, registry.CyclicTypeName)
}

// rootName returns the name of the adapter that matched the earliest
// recorded node; for a replacement chain that is the innermost name.
func (a *annotations) rootName() string {
	switch v := a.m[a.keys[0]].(type) {
	case string:
		return v
	case []string:
		return v[len(v)-1]
	}
	return ""
}

// names returns the distinct type names in encounter order.
func (a *annotations) names() []string {
	out := []string{}
	add := func(n string) {
		if !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	for _, k := range a.keys {
		switch v := a.m[k].(type) {
		case string:
			add(v)
		case []string:
			for _, n := range v {
				add(n)
			}
		}
	}
	return out
}

// export returns the map as it is written under "$types".
func (a *annotations) export() map[string]any {
	out := make(map[string]any, len(a.m))
	for k, v := range a.m {
		if chain, ok := v.([]string); ok {
			list := make([]any, len(chain))
			for i, n := range chain {
				list[i] = n
			}
			v = list
		}
		out[k] = v
	}
	return out
}
