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
	"reflect"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"dirpx.dev/typeson/apis"
	uref "dirpx.dev/typeson/utils/reflect"
)

func isStruct(v any) bool {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	return rv.Kind() == reflect.Struct
}

// UserObject encodes structs, or pointers to them, as a map of their
// exported fields and revives that map as is.
var UserObject = apis.Set{
	"userObject": &apis.Spec{
		Test: func(v any, _ *apis.State) bool { return isStruct(v) },
		Replace: func(v any, _ *apis.State) (any, error) {
			members := uref.Members(v)
			out := make(map[string]any, len(members))
			for _, m := range members {
				out[m.Key] = m.Value
			}
			return out, nil
		},
		Revive: func(v any, _ *apis.State) (any, error) { return v, nil },
	},
}

// Cloneable is implemented by values that encode and revive themselves.
type Cloneable interface {
	// CloneEncapsulate returns the value to encode in place of the receiver.
	CloneEncapsulate() (any, error)
	// CloneRevive rebuilds a value from what CloneEncapsulate returned.
	CloneRevive(encapsulated any) (any, error)
}

var (
	cloneables     sync.Map
	resurrectables sync.Map
)

// Clone encodes a Cloneable as {uuid, encapsulated}. Revival calls
// CloneRevive on the original receiver, so it only works within the process
// that encoded the value.
var Clone = apis.Set{
	"cloneable": &apis.Spec{
		Test: func(v any, _ *apis.State) bool {
			_, ok := v.(Cloneable)
			return ok
		},
		Replace: func(v any, _ *apis.State) (any, error) {
			c := v.(Cloneable)
			enc, err := c.CloneEncapsulate()
			if err != nil {
				return nil, err
			}
			id := uuid.NewString()
			cloneables.Store(id, c)
			return map[string]any{"uuid": id, "encapsulated": enc}, nil
		},
		Revive: func(v any, _ *apis.State) (any, error) {
			m, _ := v.(map[string]any)
			id, _ := m["uuid"].(string)
			c, ok := cloneables.Load(id)
			if !ok {
				return nil, errors.Errorf("cloneable: unknown uuid %q", id)
			}
			return c.(Cloneable).CloneRevive(m["encapsulated"])
		},
	},
}

// Resurrectable encodes any non-plain reference value other than a slice as
// a UUID and revives the very same value. Entries are kept for the lifetime
// of the process; an unknown UUID revives as nothing.
var Resurrectable = apis.Set{
	"resurrectable": &apis.Spec{
		Test: func(v any, _ *apis.State) bool {
			if v == nil || uref.IsPlain(v) {
				return false
			}
			switch reflect.TypeOf(v).Kind() {
			case reflect.Pointer, reflect.Map, reflect.Func, reflect.Chan, reflect.UnsafePointer, reflect.Struct:
				return true
			}
			return false
		},
		Replace: func(v any, _ *apis.State) (any, error) {
			id := uuid.NewString()
			resurrectables.Store(id, v)
			return id, nil
		},
		Revive: func(v any, _ *apis.State) (any, error) {
			id, _ := v.(string)
			if got, ok := resurrectables.Load(id); ok {
				return got, nil
			}
			return apis.Hole, nil
		},
	},
}

func isUncloneableKind(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}

// NonbuiltinIgnore drops functions, channels and unsafe pointers.
var NonbuiltinIgnore = apis.Set{
	"nonbuiltinIgnore": &apis.Spec{
		Test:    func(v any, _ *apis.State) bool { return isUncloneableKind(v) },
		Replace: func(any, *apis.State) (any, error) { return apis.Undefined, nil },
	},
}

// ErrDataClone is returned when CheckDataCloneException meets a value that
// cannot be cloned.
var ErrDataClone = errors.New("typeson(types): the object cannot be cloned")

// CheckDataCloneException fails encapsulation on functions, channels,
// unsafe pointers, errors and closed blobs.
var CheckDataCloneException = apis.Set{
	"checkDataCloneException": &apis.Spec{
		Test: func(v any, _ *apis.State) bool {
			if isUncloneableKind(v) {
				return true
			}
			switch x := v.(type) {
			case error:
				return true
			case *Blob:
				return x != nil && x.Closed
			case *File:
				return x != nil && x.Closed
			}
			return false
		},
		Replace: func(v any, _ *apis.State) (any, error) {
			return nil, errors.Wrapf(ErrDataClone, "%T", v)
		},
	},
}
