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
	"reflect"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"

	"dirpx.dev/typeson/apis"
)

// encMode uses Core Deterministic Encoding (RFC 8949 §4.2), so the same tree
// always produces the same bytes.
var encMode cbor.EncMode

// decMode decodes maps into map[string]any, matching the JSON value model.
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("typeson(wire): CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("typeson(wire): CBOR decoder initialization failed: " + err.Error())
	}
}

// CBOR is binary RFC 8949 encoding.
type CBOR struct{}

// Format implements Codec.
func (CBOR) Format() apis.Format { return apis.FormatCBOR }

// Marshal implements Codec.
func (CBOR) Marshal(v any) ([]byte, error) {
	data, err := encMode.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "typeson(wire): encode cbor")
	}
	return data, nil
}

// Unmarshal implements Codec.
func (CBOR) Unmarshal(data []byte) (any, error) {
	var v any
	if err := decMode.Unmarshal(data, &v); err != nil {
		return nil, errors.Wrap(err, "typeson(wire): decode cbor")
	}
	return v, nil
}

// Diagnose returns the CBOR diagnostic notation (RFC 8949 §8) of data.
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(data)
}
