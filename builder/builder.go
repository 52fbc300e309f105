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

package builder

import (
	"github.com/pkg/errors"

	"dirpx.dev/typeson/apis"
	"dirpx.dev/typeson/encapsulator"
	"dirpx.dev/typeson/registry"
	"dirpx.dev/typeson/reviver"
)

// ErrBadExtension is returned when the ext payload is not an apis.Registrable.
var ErrBadExtension = errors.New("typeson(builder): extension is not a Registrable")

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds a new apis.Registry. Adapters of preg, if any, are
// copied over in scan order, then ext (an apis.Registrable, or nil) is
// registered on top.
func (b *builder) BuildRegistry(cfg apis.Config, preg apis.Registry, ext any) (apis.Registry, error) {
	nreg := registry.New(cfg)
	if preg != nil {
		for _, e := range preg.Entries() {
			if err := nreg.Register(apis.Set{e.Name: e.Spec}); err != nil {
				return nil, errors.Wrapf(err, "migrate %q", e.Name)
			}
		}
	}
	switch x := ext.(type) {
	case nil:
	case apis.Registrable:
		if err := nreg.Register(x); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrapf(ErrBadExtension, "%T", ext)
	}
	return nreg, nil
}

// BuildEncapsulator returns the default encapsulation engine over reg.
func (b *builder) BuildEncapsulator(_ apis.Config, reg apis.Registry) apis.Encapsulator {
	return encapsulator.New(reg)
}

// BuildReviver returns the default revival engine over reg.
func (b *builder) BuildReviver(_ apis.Config, reg apis.Registry) apis.Reviver {
	return reviver.New(reg)
}
