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

package main

import (
	"bytes"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"dirpx.dev/typeson/apis"
	"dirpx.dev/typeson/config"
	"dirpx.dev/typeson/wire"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// formatValue is a pflag.Value restricted to the supported wire formats.
type formatValue apis.Format

func (f *formatValue) String() string { return string(*f) }

func (f *formatValue) Set(s string) error {
	if !config.ValidFormat(apis.Format(s)) {
		return errors.New("must be one of json, jsonc, cbor")
	}
	*f = formatValue(s)
	return nil
}

func (f *formatValue) Type() string { return "format" }

var _ pflag.Value = (*formatValue)(nil)

// addInputFlags registers the flags shared by every command that reads a
// document.
func addInputFlags(fs *pflag.FlagSet, from *formatValue) {
	*from = formatValue(apis.FormatJSON)
	fs.VarP(from, "from", "f", "input format: json, jsonc or cbor")
}

// readInput reads path, or stdin when path is empty or "-". Zstandard
// frames are decompressed transparently.
func readInput(path string, stdin io.Reader) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrap(err, "read input")
	}
	if !bytes.HasPrefix(data, zstdMagic) {
		return data, nil
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, errors.Wrap(err, "zstd reader")
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	return out, errors.Wrap(err, "zstd decompress")
}

// writeOutput writes data to path, or to w when path is empty or "-".
func writeOutput(path string, w io.Writer, data []byte, compress bool) error {
	if compress {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return errors.Wrap(err, "zstd writer")
		}
		data = enc.EncodeAll(data, nil)
		if err := enc.Close(); err != nil {
			return errors.Wrap(err, "zstd writer")
		}
	}
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return errors.Wrap(err, "write output")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "write output")
}

// decode parses data in the given wire format into a plain tree.
func decode(data []byte, from apis.Format) (any, error) {
	codec, err := wire.For(config.NewConfig(config.WithFormat(from)))
	if err != nil {
		return nil, err
	}
	return codec.Unmarshal(data)
}
