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

package types

import (
	"math/big"
	"net/url"

	"github.com/pkg/errors"
	"golang.org/x/text/language"

	"dirpx.dev/typeson/apis"
)

func wantString(name string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", errors.Errorf("%s: want string, got %T", name, v)
	}
	return s, nil
}

// BigInt encodes *big.Int as its decimal string.
var BigInt = apis.Set{
	"bigint": &apis.Spec{
		Test: func(v any, _ *apis.State) bool {
			n, ok := v.(*big.Int)
			return ok && n != nil
		},
		Replace: func(v any, _ *apis.State) (any, error) { return v.(*big.Int).String(), nil },
		Revive: func(v any, _ *apis.State) (any, error) {
			s, err := wantString("bigint", v)
			if err != nil {
				return nil, err
			}
			n, ok := new(big.Int).SetString(s, 10)
			if !ok {
				return nil, errors.Errorf("bigint: invalid integer %q", s)
			}
			return n, nil
		},
	},
}

// URL encodes *url.URL as its string form.
var URL = apis.Set{
	"url": &apis.Spec{
		Test: func(v any, _ *apis.State) bool {
			u, ok := v.(*url.URL)
			return ok && u != nil
		},
		Replace: func(v any, _ *apis.State) (any, error) { return v.(*url.URL).String(), nil },
		Revive: func(v any, _ *apis.State) (any, error) {
			s, err := wantString("url", v)
			if err != nil {
				return nil, err
			}
			return url.Parse(s)
		},
	},
}

// LanguageTag encodes language.Tag as its BCP 47 string.
var LanguageTag = apis.Set{
	"languageTag": &apis.Spec{
		Test: func(v any, _ *apis.State) bool {
			_, ok := v.(language.Tag)
			return ok
		},
		Replace: func(v any, _ *apis.State) (any, error) { return v.(language.Tag).String(), nil },
		Revive: func(v any, _ *apis.State) (any, error) {
			s, err := wantString("languageTag", v)
			if err != nil {
				return nil, err
			}
			tag, err := language.Parse(s)
			if err != nil {
				return nil, errors.Wrap(err, "languageTag")
			}
			return tag, nil
		},
	},
}
