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

// Package presets bundles adapters from package types into ready-made
// registrations. Within a preset, later entries are tried first.
package presets

import (
	"slices"
	"strings"

	"dirpx.dev/typeson/apis"
	"dirpx.dev/typeson/types"
)

var (
	// SpecialNumbers covers NaN and both infinities.
	SpecialNumbers = apis.Preset{types.NaN, types.Infinity, types.NegativeInfinity}

	// SparseUndefined keeps unset array slots unset.
	SparseUndefined = apis.Preset{types.SparseArrays, types.SparseUndefined}

	// Undef keeps Undefined members and unset array slots.
	Undef = apis.Preset{SparseUndefined, types.Undef}

	// Builtin covers the Go standard library values with a natural plain form.
	Builtin = apis.Preset{
		Undef,
		types.PrimitiveObjects,
		SpecialNumbers,
		types.Date,
		types.Duration,
		types.Errors,
		types.Regexp,
		types.Map,
		types.Set,
		types.ArrayBuffer,
		types.TypedArrays,
		types.BigInt,
		types.URL,
		types.LanguageTag,
	}

	// Universal is everything expected to work on both ends of any transport.
	Universal = apis.Preset{Builtin}

	// PostMessage is the error adapter alone, for transports that clone
	// everything else natively.
	PostMessage = apis.Preset{types.Errors}

	// Socketio is Builtin with []byte left as is and numeric slices sent as
	// raw bytes, for binary-capable transports.
	Socketio = apis.Preset{
		Builtin,
		apis.Set{"arraybuffer": nil},
		types.TypedArraysSocketio,
	}

	// StructuredCloning mirrors what a structured clone keeps. UserObject
	// comes first so it is tried last.
	StructuredCloning = apis.Preset{
		types.UserObject,
		Undef,
		types.PrimitiveObjects,
		SpecialNumbers,
		types.Date,
		types.Duration,
		types.Regexp,
		types.ImageData,
		types.ImageBitmap,
		types.Files,
		types.FileLists,
		types.Blobs,
		types.Map,
		types.Set,
		types.ArrayBuffer,
		types.TypedArrays,
		types.BigInt,
	}

	// StructuredCloningThrowing is StructuredCloning that fails on values a
	// structured clone rejects.
	StructuredCloningThrowing = apis.Preset{StructuredCloning, types.CheckDataCloneException}
)

var byName = map[string]apis.Preset{
	"builtin":                   Builtin,
	"postmessage":               PostMessage,
	"socketio":                  Socketio,
	"sparseundefined":           SparseUndefined,
	"specialnumbers":            SpecialNumbers,
	"structuredcloning":         StructuredCloning,
	"structuredcloningthrowing": StructuredCloningThrowing,
	"undef":                     Undef,
	"universal":                 Universal,
}

// ByName looks a preset up by name, ignoring case and dashes, so
// "structured-cloning" and "structuredCloning" are the same preset.
func ByName(name string) (apis.Preset, bool) {
	p, ok := byName[strings.ToLower(strings.ReplaceAll(name, "-", ""))]
	return p, ok
}

// Names returns the canonical preset names in lexical order.
func Names() []string {
	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
