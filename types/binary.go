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
	"encoding/base64"
	"encoding/binary"

	"github.com/pkg/errors"

	"dirpx.dev/typeson/apis"
	uref "dirpx.dev/typeson/utils/reflect"
)

const buffersKey = "typeson.buffers"

// buffers is the per-call table of byte buffers shared by ArrayBuffer and
// TypedArrays. Encoding records identities, revival records decoded bytes.
type buffers struct {
	ids  []uref.Identity
	data [][]byte
}

func buffersOf(st *apis.State) *buffers {
	if b, ok := st.Get(buffersKey); ok {
		if bs, ok := b.(*buffers); ok {
			return bs
		}
	}
	bs := &buffers{}
	st.Set(buffersKey, bs)
	return bs
}

// seen returns the index of v if it was recorded before; otherwise it
// records v and returns false.
func (b *buffers) seen(v any) (int, bool) {
	id, ok := uref.IdentityOf(v)
	if ok {
		for i, x := range b.ids {
			if x == id {
				return i, true
			}
		}
	}
	b.ids = append(b.ids, id)
	return len(b.ids) - 1, false
}

func (b *buffers) at(v any) ([]byte, error) {
	f, ok := uref.ToFloat64(v)
	if !ok || f < 0 || int(f) >= len(b.data) {
		return nil, errors.Errorf("buffer index %v out of range", v)
	}
	return b.data[int(f)], nil
}

func (b *buffers) decode(s any) ([]byte, error) {
	str, ok := s.(string)
	if !ok {
		return nil, errors.Errorf("want base64 string, got %T", s)
	}
	buf, err := base64.StdEncoding.DecodeString(str)
	if err != nil {
		return nil, err
	}
	b.data = append(b.data, buf)
	return buf, nil
}

// ArrayBuffer encodes []byte as a base64 string. A slice met again within one
// call is encoded as {index} into the buffers seen so far.
var ArrayBuffer = apis.Set{
	"arraybuffer": &apis.Spec{
		Test: func(v any, _ *apis.State) bool {
			_, ok := v.([]byte)
			return ok
		},
		Replace: func(v any, st *apis.State) (any, error) {
			if i, ok := buffersOf(st).seen(v); ok {
				return map[string]any{"index": i}, nil
			}
			return base64.StdEncoding.EncodeToString(v.([]byte)), nil
		},
		Revive: func(v any, st *apis.State) (any, error) {
			bs := buffersOf(st)
			if m, ok := v.(map[string]any); ok {
				buf, err := bs.at(m["index"])
				return buf, errors.Wrap(err, "arraybuffer")
			}
			buf, err := bs.decode(v)
			return buf, errors.Wrap(err, "arraybuffer")
		},
	},
}

// number is every element type of a typed slice other than byte.
type number interface {
	~int8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// TypedArrays encodes numeric slices as {encoded, byteOffset, length}, the
// elements being little-endian base64. A slice met again within one call is
// encoded as {index, byteOffset, length}.
var TypedArrays = apis.Set{
	"int8array":      typedArray[int8](),
	"int16array":     typedArray[int16](),
	"uint16array":    typedArray[uint16](),
	"int32array":     typedArray[int32](),
	"uint32array":    typedArray[uint32](),
	"bigint64array":  typedArray[int64](),
	"biguint64array": typedArray[uint64](),
	"float32array":   typedArray[float32](),
	"float64array":   typedArray[float64](),
}

// TypedArraysSocketio encodes numeric slices as raw little-endian []byte so
// that a binary-capable transport can carry them untouched. Revival accepts
// []byte or a base64 string and leaves anything else as is.
var TypedArraysSocketio = apis.Set{
	"int8array":      rawTypedArray[int8](),
	"int16array":     rawTypedArray[int16](),
	"uint16array":    rawTypedArray[uint16](),
	"int32array":     rawTypedArray[int32](),
	"uint32array":    rawTypedArray[uint32](),
	"bigint64array":  rawTypedArray[int64](),
	"biguint64array": rawTypedArray[uint64](),
	"float32array":   rawTypedArray[float32](),
	"float64array":   rawTypedArray[float64](),
}

func isSliceOf[T number](v any, _ *apis.State) bool {
	_, ok := v.([]T)
	return ok
}

func typedArray[T number]() *apis.Spec {
	return &apis.Spec{
		Test: isSliceOf[T],
		Replace: func(v any, st *apis.State) (any, error) {
			s := v.([]T)
			if i, ok := buffersOf(st).seen(v); ok {
				return map[string]any{"index": i, "byteOffset": 0, "length": len(s)}, nil
			}
			raw, err := binary.Append(nil, binary.LittleEndian, s)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"encoded":    base64.StdEncoding.EncodeToString(raw),
				"byteOffset": 0,
				"length":     len(s),
			}, nil
		},
		Revive: func(v any, st *apis.State) (any, error) {
			m, ok := v.(map[string]any)
			if !ok {
				return nil, errors.Errorf("typed array: want object, got %T", v)
			}
			bs := buffersOf(st)
			var buf []byte
			var err error
			if idx, ok := m["index"]; ok {
				buf, err = bs.at(idx)
			} else {
				buf, err = bs.decode(m["encoded"])
			}
			if err != nil {
				return nil, errors.Wrap(err, "typed array")
			}
			off, _ := uref.ToFloat64(m["byteOffset"])
			n, ok := uref.ToFloat64(m["length"])
			if !ok {
				n = float64(len(buf)-int(off)) / float64(binary.Size(*new(T)))
			}
			return decodeSlice[T](buf, int(off), int(n))
		},
	}
}

func rawTypedArray[T number]() *apis.Spec {
	return &apis.Spec{
		Test: isSliceOf[T],
		Replace: func(v any, _ *apis.State) (any, error) {
			return binary.Append(nil, binary.LittleEndian, v.([]T))
		},
		Revive: func(v any, _ *apis.State) (any, error) {
			var buf []byte
			switch b := v.(type) {
			case []byte:
				buf = b
			case string:
				raw, err := base64.StdEncoding.DecodeString(b)
				if err != nil {
					return v, nil
				}
				buf = raw
			default:
				return v, nil
			}
			return decodeSlice[T](buf, 0, len(buf)/binary.Size(*new(T)))
		},
	}
}

func decodeSlice[T number](buf []byte, off, n int) ([]T, error) {
	size := binary.Size(*new(T))
	if off < 0 || n < 0 || off+n*size > len(buf) {
		return nil, errors.Errorf("typed array: %d elements at offset %d exceed %d bytes", n, off, len(buf))
	}
	out := make([]T, n)
	if _, err := binary.Decode(buf[off:off+n*size], binary.LittleEndian, out); err != nil {
		return nil, err
	}
	return out, nil
}
