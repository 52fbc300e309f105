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

package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"dirpx.dev/typeson/apis"
)

// File is the on-disk form of a configuration.
// Unset keys keep the defaults.
type File struct {
	Cyclic           *bool    `yaml:"cyclic"`
	Sync             *bool    `yaml:"sync"`
	StrictSync       *bool    `yaml:"strict_sync"`
	StrictReferences *bool    `yaml:"strict_references"`
	Indent           *string  `yaml:"indent"`
	Format           string   `yaml:"format"`
	Presets          []string `yaml:"presets"`
}

// LoadFile reads a YAML configuration from path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes a YAML configuration. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	f := &File{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decode config")
	}
	if f.Format != "" && !ValidFormat(apis.Format(f.Format)) {
		return nil, errors.Errorf("unsupported format %q", f.Format)
	}
	return f, nil
}

// Options converts the file into functional options.
func (f *File) Options() []Option {
	var opts []Option
	if f.Cyclic != nil {
		opts = append(opts, WithCyclic(*f.Cyclic))
	}
	if f.Sync != nil {
		opts = append(opts, WithSync(*f.Sync))
	}
	if f.StrictSync != nil {
		opts = append(opts, WithStrictSync(*f.StrictSync))
	}
	if f.StrictReferences != nil {
		opts = append(opts, WithStrictReferences(*f.StrictReferences))
	}
	if f.Indent != nil {
		opts = append(opts, WithIndent(*f.Indent))
	}
	if f.Format != "" {
		opts = append(opts, WithFormat(apis.Format(f.Format)))
	}
	return opts
}
