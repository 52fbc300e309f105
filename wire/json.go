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

package wire

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tidwall/jsonc"

	"dirpx.dev/typeson/apis"
)

// JSON is strict JSON text.
type JSON struct {
	// Indent, when non-empty, pretty-prints with this string per level.
	Indent string
}

// Format implements Codec.
func (JSON) Format() apis.Format { return apis.FormatJSON }

// Marshal implements Codec. HTML characters are not escaped.
func (j JSON) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if j.Indent != "" {
		enc.SetIndent("", j.Indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "typeson(wire): encode json")
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Unmarshal implements Codec. Trailing data after the first value is an error.
func (JSON) Unmarshal(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(err, "typeson(wire): decode json")
	}
	if dec.More() {
		return nil, errors.New("typeson(wire): trailing data after json value")
	}
	return v, nil
}

// JSONC accepts comments and trailing commas on input and writes plain JSON.
type JSONC struct {
	Indent string
}

// Format implements Codec.
func (JSONC) Format() apis.Format { return apis.FormatJSONC }

// Marshal implements Codec.
func (j JSONC) Marshal(v any) ([]byte, error) {
	return JSON{Indent: j.Indent}.Marshal(v)
}

// Unmarshal implements Codec.
func (JSONC) Unmarshal(data []byte) (any, error) {
	return JSON{}.Unmarshal(jsonc.ToJSON(data))
}
