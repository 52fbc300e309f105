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
	"github.com/sirupsen/logrus"
)

// Format names a wire encoding for plain trees.
type Format string

const (
	// FormatJSON is strict JSON text.
	FormatJSON Format = "json"
	// FormatJSONC is JSON text that may carry comments and trailing commas on input.
	// Output is plain JSON.
	FormatJSONC Format = "jsonc"
	// FormatCBOR is RFC 8949 CBOR using core deterministic encoding.
	FormatCBOR Format = "cbor"
)

// Config carries the knobs of one encapsulate/revive call.
// It is passed by value and should be treated as immutable by implementations.
type Config struct {
	// Cyclic enables identity tracking so repeated references and cycles are
	// emitted as "#<keypath>" markers instead of being cloned again.
	Cyclic bool

	// Sync selects the synchronous adapter methods (Replace/Revive) over the
	// asynchronous ones (ReplaceAsync/ReviveAsync).
	Sync bool

	// StrictSync turns a disagreement between Sync and the actual result
	// (pending work in sync mode, or a ready result in async mode) into
	// ErrSyncAsyncMismatch.
	StrictSync bool

	// StrictReferences makes unresolved cyclic markers fatal during revival.
	// When false they are logged and left absent.
	StrictReferences bool

	// IterateNone stops encapsulation at the root and reports its type name.
	IterateNone bool

	// ReturnTypeNames makes encapsulation report the distinct type names it
	// recorded instead of the encapsulated tree.
	ReturnTypeNames bool

	// Indent is used by the facade when producing JSON text. Empty means compact.
	Indent string

	// Format selects the wire encoding used by Marshal/Unmarshal.
	Format Format

	// Logger receives debug traces and soft-failure warnings.
	// A nil Logger falls back to the logrus standard logger.
	Logger logrus.FieldLogger

	// Observer, if set, is notified for every node visited by encapsulation.
	Observer Observer
}
