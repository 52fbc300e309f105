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

// Package typeson is a type-preserving codec for Go value trees.
//
// typeson turns arbitrary in-memory values (shared references and cycles,
// NaN and infinities, time.Time, byte and numeric slices, non-string-keyed
// maps, sets, structs, ...) into a plain tree that JSON can carry, and
// rebuilds a faithful copy on the other side. The plain tree is the value
// itself plus an annotation map that records, per key path, which adapter
// produced the node:
//
//	{"d": 1234567, "$types": {"d": "date"}}
//
// When the root is not an object, or already owns a "$types" key, the tree
// is wrapped:
//
//	{"$": [{"x": 1}, "#0"], "$types": {"$": {"1": "#"}}}
//
// "#" marks a repeated reference; its value is "#" followed by the key path
// of the first occurrence.
//
// # Design
//
// The work is split into small layers, each behind an interface in package
// apis:
//
//   - Registry: named adapters (apis.Spec) in two ordered lists, one for
//     plain containers and one for everything else. Matching scans each
//     list from the most recently appended adapter backwards; the first
//     adapter whose Test accepts the value wins. WithFallback registers an
//     adapter that is tried last.
//
//   - Encapsulator: walks the value, offers special values to the adapters,
//     re-walks what they return, tracks identities for cycle detection and
//     records annotations. Adapters may answer asynchronously with a
//     *deferred.Deferred; such slots are drained in encounter order once the
//     synchronous pass is done.
//
//   - Reviver: the inverse. It rebuilds containers bottom-up, reduces each
//     annotated node through its chain of revivers and resolves "#" markers
//     against the revived root.
//
//   - Builder: constructs the three above for a config, migrating the
//     adapters of a previous registry.
//
// A Typeson holds one immutable snapshot of these layers behind an atomic
// pointer. Reads load the snapshot without locking; SetConfig and
// SetBuilder take a short build lock, assemble a new snapshot and publish
// it.
//
// # Entry points
//
// Encapsulate/Revive work on plain trees, Stringify/Parse on JSON text and
// Marshal/Unmarshal on the configured wire format (JSON, JSONC or CBOR).
// The plain forms wait for asynchronous adapters. The *Sync forms fail with
// apis.ErrSyncAsyncMismatch when an adapter suspends; the *Async forms
// prefer asynchronous adapters, return the pending *deferred.Deferred and
// fail when nothing suspended.
//
// Every call accepts config options that override the instance config for
// that call only:
//
//	ts := typeson.New().MustRegister(presets.Builtin)
//	text, err := ts.Stringify(v, config.WithIndent("  "))
//
// # Adapters and presets
//
// Package types provides adapters for common Go values and package presets
// bundles them. The package-level functions (Stringify, Parse, Register, ...)
// use a process-wide instance preloaded with presets.Builtin; SetDefault
// replaces it.
//
// Custom adapters are registered as an apis.Set mapping type names to a
// full *apis.Spec, an apis.Tuple, or an apis.Class for struct types:
//
//	typeson.Register(apis.Set{"point": apis.ClassOf[Point]()})
//
// The typeson command (cmd/typeson) converts documents between JSON and
// CBOR, lists their annotations and validates them against a set of presets.
//
// # Scope
//
// typeson is not an object database and not a schema system. Revival only
// knows what the annotations say; values that no adapter covers travel as
// whatever the wire encoder makes of them.
package typeson
