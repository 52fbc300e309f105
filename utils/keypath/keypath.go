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

// Package keypath addresses nodes of a plain value tree with dotted paths.
//
// Segments are escaped so that a key containing "." stays one segment:
// "~" becomes "~0" and "." becomes "~1". The empty path is the root.
package keypath

import (
	"strconv"
	"strings"

	"dirpx.dev/typeson/apis"
	uref "dirpx.dev/typeson/utils/reflect"
)

var (
	escaper   = strings.NewReplacer("~", "~0", ".", "~1")
	unescaper = strings.NewReplacer("~1", ".", "~0", "~")
)

// Escape escapes a single key for use as a path segment.
func Escape(key string) string {
	return escaper.Replace(key)
}

// Unescape reverses Escape.
func Unescape(seg string) string {
	return unescaper.Replace(seg)
}

// Join appends key to parent, escaping it.
func Join(parent, key string) string {
	if parent == "" {
		return Escape(key)
	}
	return parent + "." + Escape(key)
}

// JoinIndex appends a slice index to parent.
func JoinIndex(parent string, i int) string {
	return Join(parent, strconv.Itoa(i))
}

// Split returns the unescaped segments of path. The root yields nil.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	segs := strings.Split(path, ".")
	for i, s := range segs {
		segs[i] = Unescape(s)
	}
	return segs
}

// Resolve walks root along path through map[string]any keys and []any
// indices. Other values are entered through their reflective members, so a
// path may cross a node that has already been revived into a Go value.
// It reports false when a segment is missing, an index is out of range or
// addresses a Hole, or a value without members is met midway.
func Resolve(root any, path string) (any, bool) {
	cur := root
	for _, seg := range Split(path) {
		switch c := cur.(type) {
		case map[string]any:
			v, ok := c[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(c) {
				return nil, false
			}
			cur = c[i]
		default:
			v, ok := member(cur, seg)
			if !ok {
				return nil, false
			}
			cur = v
		}
		if apis.IsHole(cur) {
			return nil, false
		}
	}
	return cur, true
}

func member(v any, key string) (any, bool) {
	if v == nil {
		return nil, false
	}
	for _, m := range uref.Members(v) {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}
