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
	"github.com/sirupsen/logrus"

	"dirpx.dev/typeson/apis"
)

const (
	// DefaultCyclic represents the default for Cyclic.
	// When true, shared references and cycles are tracked.
	DefaultCyclic = true
	// DefaultSync represents the default for Sync.
	DefaultSync = true
	// DefaultStrictSync represents the default for StrictSync.
	// Plain calls wait for pending work instead of failing.
	DefaultStrictSync = false
	// DefaultStrictReferences represents the default for StrictReferences.
	DefaultStrictReferences = false
	// DefaultFormat represents the default wire format.
	DefaultFormat = apis.FormatJSON
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	return Apply(DefaultConfig(), opts...)
}

// Apply returns base with opts applied in order.
func Apply(base apis.Config, opts ...Option) apis.Config {
	for _, opt := range opts {
		if opt != nil {
			opt(&base)
		}
	}
	// Ensure Format is valid.
	if !ValidFormat(base.Format) {
		base.Format = DefaultFormat
	}
	return base
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		Cyclic:           DefaultCyclic,
		Sync:             DefaultSync,
		StrictSync:       DefaultStrictSync,
		StrictReferences: DefaultStrictReferences,
		Format:           DefaultFormat,
	}
}

// ValidFormat reports whether f names a supported wire format.
func ValidFormat(f apis.Format) bool {
	switch f {
	case apis.FormatJSON, apis.FormatJSONC, apis.FormatCBOR:
		return true
	}
	return false
}

// Logger returns cfg.Logger or the logrus standard logger.
func Logger(cfg apis.Config) logrus.FieldLogger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return logrus.StandardLogger()
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithCyclic sets the Cyclic option.
func WithCyclic(cyclic bool) Option {
	return func(c *apis.Config) {
		c.Cyclic = cyclic
	}
}

// WithSync sets the Sync option.
func WithSync(sync bool) Option {
	return func(c *apis.Config) {
		c.Sync = sync
	}
}

// WithStrictSync sets the StrictSync option.
func WithStrictSync(strict bool) Option {
	return func(c *apis.Config) {
		c.StrictSync = strict
	}
}

// WithStrictReferences sets the StrictReferences option.
func WithStrictReferences(strict bool) Option {
	return func(c *apis.Config) {
		c.StrictReferences = strict
	}
}

// WithIterateNone sets the IterateNone option.
func WithIterateNone(none bool) Option {
	return func(c *apis.Config) {
		c.IterateNone = none
	}
}

// WithReturnTypeNames sets the ReturnTypeNames option.
func WithReturnTypeNames(names bool) Option {
	return func(c *apis.Config) {
		c.ReturnTypeNames = names
	}
}

// WithIndent sets the JSON indent string.
func WithIndent(indent string) Option {
	return func(c *apis.Config) {
		c.Indent = indent
	}
}

// WithFormat sets the wire format.
// An unknown format resets to the default.
func WithFormat(f apis.Format) Option {
	return func(c *apis.Config) {
		if !ValidFormat(f) {
			c.Format = DefaultFormat
			return
		}
		c.Format = f
	}
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *apis.Config) {
		c.Logger = l
	}
}

// WithObserver sets the encapsulation observer.
func WithObserver(o apis.Observer) Option {
	return func(c *apis.Config) {
		c.Observer = o
	}
}
