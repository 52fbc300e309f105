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
	"time"

	"github.com/pkg/errors"

	"dirpx.dev/typeson/apis"
	"dirpx.dev/typeson/deferred"
	uref "dirpx.dev/typeson/utils/reflect"
)

// ErrClosed is returned when reading a closed Blob or File.
var ErrClosed = errors.New("typeson(types): blob is closed")

// Blob is an immutable chunk of bytes with a media type. Its content is read
// through a source function, which may be slow.
type Blob struct {
	Type   string
	Closed bool
	source func() ([]byte, error)
}

// NewBlob returns a Blob over a copy of data.
func NewBlob(data []byte, typ string) *Blob {
	data = append([]byte(nil), data...)
	return &Blob{Type: typ, source: func() ([]byte, error) { return data, nil }}
}

// BlobFrom returns a Blob whose content is produced by source on demand.
func BlobFrom(typ string, source func() ([]byte, error)) *Blob {
	return &Blob{Type: typ, source: source}
}

// Bytes reads the content of b.
func (b *Blob) Bytes() ([]byte, error) {
	if b.Closed {
		return nil, ErrClosed
	}
	if b.source == nil {
		return nil, nil
	}
	return b.source()
}

// File is a named Blob.
type File struct {
	Blob
	Name         string
	LastModified time.Time
}

// NewFile returns a File over a copy of data.
func NewFile(data []byte, name, typ string, lastModified time.Time) *File {
	return &File{Blob: *NewBlob(data, typ), Name: name, LastModified: lastModified}
}

// FileList is an ordered list of files.
type FileList []*File

// Item returns the i-th file or nil.
func (l FileList) Item(i int) *File {
	if i < 0 || i >= len(l) {
		return nil
	}
	return l[i]
}

func blobFields(b *Blob) (map[string]any, error) {
	data, err := b.Bytes()
	if err != nil {
		return nil, err
	}
	return map[string]any{"type": b.Type, "contents": base64.StdEncoding.EncodeToString(data)}, nil
}

func fileFields(f *File) (map[string]any, error) {
	m, err := blobFields(&f.Blob)
	if err != nil {
		return nil, err
	}
	m["name"] = f.Name
	m["lastModified"] = f.LastModified.UnixMilli()
	return m, nil
}

func blobFrom(name string, v any) (*Blob, map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, nil, errors.Errorf("%s: want object, got %T", name, v)
	}
	typ, _ := m["type"].(string)
	enc, _ := m["contents"].(string)
	data, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return nil, nil, errors.Wrap(err, name)
	}
	return NewBlob(data, typ), m, nil
}

// Blobs encodes *Blob as {type, contents} with base64 contents. The
// asynchronous replacer reads the content off the calling goroutine.
var Blobs = apis.Set{
	"blob": &apis.Spec{
		Test: func(v any, _ *apis.State) bool {
			b, ok := v.(*Blob)
			return ok && b != nil
		},
		Replace: func(v any, _ *apis.State) (any, error) { return blobFields(v.(*Blob)) },
		ReplaceAsync: func(v any, _ *apis.State) *deferred.Deferred {
			b := v.(*Blob)
			return deferred.Go(func() (any, error) { return blobFields(b) })
		},
		Revive: func(v any, _ *apis.State) (any, error) {
			b, _, err := blobFrom("blob", v)
			return b, err
		},
	},
}

var fileSpec = &apis.Spec{
	Test: func(v any, _ *apis.State) bool {
		f, ok := v.(*File)
		return ok && f != nil
	},
	Replace: func(v any, _ *apis.State) (any, error) { return fileFields(v.(*File)) },
	ReplaceAsync: func(v any, _ *apis.State) *deferred.Deferred {
		f := v.(*File)
		return deferred.Go(func() (any, error) { return fileFields(f) })
	},
	Revive: func(v any, _ *apis.State) (any, error) {
		b, m, err := blobFrom("file", v)
		if err != nil {
			return nil, err
		}
		name, _ := m["name"].(string)
		ms, _ := uref.ToFloat64(m["lastModified"])
		return &File{Blob: *b, Name: name, LastModified: time.UnixMilli(int64(ms))}, nil
	},
}

// Files encodes *File as {type, contents, name, lastModified}.
var Files = apis.Set{"file": fileSpec}

// FileLists encodes FileList as the list of its files. It registers "file"
// as well.
var FileLists = apis.Set{
	"file": fileSpec,
	"filelist": &apis.Spec{
		Test: func(v any, _ *apis.State) bool {
			_, ok := v.(FileList)
			return ok
		},
		Replace: func(v any, _ *apis.State) (any, error) {
			l := v.(FileList)
			out := make([]any, len(l))
			for i, f := range l {
				out[i] = f
			}
			return out, nil
		},
		Revive: func(v any, _ *apis.State) (any, error) {
			arr, ok := v.([]any)
			if !ok {
				return nil, errors.Errorf("filelist: want list, got %T", v)
			}
			out := make(FileList, len(arr))
			for i, x := range arr {
				f, ok := x.(*File)
				if !ok {
					return nil, errors.Errorf("filelist: item %d is %T, not a file", i, x)
				}
				out[i] = f
			}
			return out, nil
		},
	},
}
