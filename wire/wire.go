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

// Package wire converts encapsulated trees to bytes and back.
//
// Decoding always yields the plain value model: map[string]any, []any,
// string, bool, nil and numbers. JSON numbers decode as float64; CBOR
// integers keep an integer type, so revivers should accept any numeric kind.
package wire

import (
	"github.com/pkg/errors"

	"dirpx.dev/typeson/apis"
)

// ErrUnsupportedFormat is returned by For for an unknown format.
var ErrUnsupportedFormat = errors.New("typeson(wire): unsupported format")

// Codec encodes and decodes plain trees.
type Codec interface {
	// Format names the codec.
	Format() apis.Format
	// Marshal encodes a plain tree.
	Marshal(v any) ([]byte, error)
	// Unmarshal decodes data into a plain tree.
	Unmarshal(data []byte) (any, error)
}

// For returns the codec for cfg.Format, honouring cfg.Indent for text output.
func For(cfg apis.Config) (Codec, error) {
	switch cfg.Format {
	case apis.FormatJSON, "":
		return JSON{Indent: cfg.Indent}, nil
	case apis.FormatJSONC:
		return JSONC{Indent: cfg.Indent}, nil
	case apis.FormatCBOR:
		return CBOR{}, nil
	}
	return nil, errors.Wrapf(ErrUnsupportedFormat, "%q", cfg.Format)
}
