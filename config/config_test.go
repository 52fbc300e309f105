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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"dirpx.dev/typeson/apis"
	"dirpx.dev/typeson/config"
)

func TestDefaultConfigValues(t *testing.T) {
	got := config.DefaultConfig()

	if got.Cyclic != config.DefaultCyclic {
		t.Fatalf("Cyclic = %v, want %v", got.Cyclic, config.DefaultCyclic)
	}
	if got.Sync != config.DefaultSync {
		t.Fatalf("Sync = %v, want %v", got.Sync, config.DefaultSync)
	}
	if got.StrictSync != config.DefaultStrictSync {
		t.Fatalf("StrictSync = %v, want %v", got.StrictSync, config.DefaultStrictSync)
	}
	if got.Format != config.DefaultFormat {
		t.Fatalf("Format = %q, want %q", got.Format, config.DefaultFormat)
	}
	if got.Logger != nil || got.Observer != nil {
		t.Fatalf("Logger/Observer should default to nil")
	}
}

func TestNewConfig_NoOptions_EqualsDefault(t *testing.T) {
	def := config.DefaultConfig()
	got := config.NewConfig()
	if got.Cyclic != def.Cyclic || got.Sync != def.Sync || got.StrictSync != def.StrictSync ||
		got.StrictReferences != def.StrictReferences || got.Indent != def.Indent || got.Format != def.Format {
		t.Fatalf("NewConfig() = %+v, want default %+v", got, def)
	}
}

func TestBoolOptions(t *testing.T) {
	c := config.NewConfig(
		config.WithCyclic(false),
		config.WithSync(false),
		config.WithStrictSync(true),
		config.WithStrictReferences(true),
		config.WithIterateNone(true),
		config.WithReturnTypeNames(true),
	)
	if c.Cyclic || c.Sync {
		t.Fatalf("Cyclic/Sync = %v/%v, want false/false", c.Cyclic, c.Sync)
	}
	if !c.StrictSync || !c.StrictReferences || !c.IterateNone || !c.ReturnTypeNames {
		t.Fatalf("strict/iterate flags not applied: %+v", c)
	}
}

func TestWithFormat(t *testing.T) {
	c := config.NewConfig(config.WithFormat(apis.FormatCBOR))
	if c.Format != apis.FormatCBOR {
		t.Fatalf("Format = %q, want cbor", c.Format)
	}
	c = config.NewConfig(config.WithFormat("xml"))
	if c.Format != config.DefaultFormat {
		t.Fatalf("Format = %q, want default for unknown", c.Format)
	}
}

func TestApply_OverridesBase(t *testing.T) {
	base := config.NewConfig(config.WithIndent("  "))
	got := config.Apply(base, config.WithIndent(""), nil)
	if got.Indent != "" {
		t.Fatalf("Indent = %q, want empty", got.Indent)
	}
	if base.Indent != "  " {
		t.Fatalf("base mutated: Indent = %q", base.Indent)
	}
}

func TestLoggerAndObserver(t *testing.T) {
	if config.Logger(config.DefaultConfig()) != logrus.StandardLogger() {
		t.Fatalf("Logger(default) should be the standard logger")
	}
	l := logrus.New()
	hits := 0
	c := config.NewConfig(config.WithLogger(l), config.WithObserver(func(apis.Event) { hits++ }))
	if config.Logger(c) != l {
		t.Fatalf("Logger = %v, want custom", config.Logger(c))
	}
	c.Observer(apis.Event{})
	if hits != 1 {
		t.Fatalf("Observer hits = %d, want 1", hits)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typeson.yaml")
	data := []byte("cyclic: false\nindent: \"\t\"\nformat: cbor\nstrict_references: true\npresets: [builtin, undef]\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	f, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: unexpected error: %v", err)
	}
	if len(f.Presets) != 2 || f.Presets[0] != "builtin" || f.Presets[1] != "undef" {
		t.Fatalf("Presets = %v, want [builtin undef]", f.Presets)
	}
	c := config.NewConfig(f.Options()...)
	if c.Cyclic || c.Indent != "\t" || c.Format != apis.FormatCBOR || !c.StrictReferences {
		t.Fatalf("config from file = %+v", c)
	}
	if !c.Sync {
		t.Fatalf("Sync should keep its default when unset")
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := config.Parse([]byte("format: xml\n")); err == nil {
		t.Fatalf("Parse(format: xml) err = nil, want error")
	}
	if _, err := config.Parse([]byte("bogus: 1\n")); err == nil {
		t.Fatalf("Parse(unknown key) err = nil, want error")
	}
	if f, err := config.Parse(nil); err != nil || f == nil {
		t.Fatalf("Parse(empty) = (%v,%v), want (empty,nil)", f, err)
	}
	if _, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("LoadFile(missing) err = nil, want error")
	}
}
