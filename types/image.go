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
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"strings"

	"github.com/pkg/errors"

	"dirpx.dev/typeson/apis"
	"dirpx.dev/typeson/deferred"
	uref "dirpx.dev/typeson/utils/reflect"
)

// ImageData encodes *image.RGBA as {array, width, height} with one number per
// channel byte.
var ImageData = apis.Set{
	"imagedata": &apis.Spec{
		Test: func(v any, _ *apis.State) bool {
			img, ok := v.(*image.RGBA)
			return ok && img != nil
		},
		Replace: func(v any, _ *apis.State) (any, error) {
			img := v.(*image.RGBA)
			b := img.Bounds()
			arr := make([]any, 0, b.Dx()*b.Dy()*4)
			for y := b.Min.Y; y < b.Max.Y; y++ {
				row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
				for _, px := range row {
					arr = append(arr, int(px))
				}
			}
			return map[string]any{"array": arr, "width": b.Dx(), "height": b.Dy()}, nil
		},
		Revive: func(v any, _ *apis.State) (any, error) {
			m, ok := v.(map[string]any)
			if !ok {
				return nil, errors.Errorf("imagedata: want object, got %T", v)
			}
			w, _ := uref.ToFloat64(m["width"])
			h, _ := uref.ToFloat64(m["height"])
			arr, _ := m["array"].([]any)
			img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
			if len(arr) != len(img.Pix) {
				return nil, errors.Errorf("imagedata: %d channel values for a %vx%v image", len(arr), w, h)
			}
			for i, c := range arr {
				f, _ := uref.ToFloat64(c)
				img.Pix[i] = uint8(f)
			}
			return img, nil
		},
	},
}

const pngDataURL = "data:image/png;base64,"

// ImageBitmap encodes any other image.Image as a PNG data URL. Revival
// decodes the PNG, asynchronously unless a synchronous call asks otherwise.
var ImageBitmap = apis.Set{
	"imagebitmap": &apis.Spec{
		Test: func(v any, _ *apis.State) bool {
			if _, ok := v.(*image.RGBA); ok {
				return false
			}
			_, ok := v.(image.Image)
			return ok
		},
		Replace: func(v any, _ *apis.State) (any, error) {
			var buf bytes.Buffer
			if err := png.Encode(&buf, v.(image.Image)); err != nil {
				return nil, errors.Wrap(err, "imagebitmap")
			}
			return pngDataURL + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
		},
		Revive: func(v any, _ *apis.State) (any, error) { return decodeDataURL(v) },
		ReviveAsync: func(v any, _ *apis.State) *deferred.Deferred {
			return deferred.Go(func() (any, error) { return decodeDataURL(v) })
		},
	},
}

func decodeDataURL(v any) (any, error) {
	s, err := wantString("imagebitmap", v)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(s, pngDataURL) {
		return nil, errors.New("imagebitmap: not a PNG data URL")
	}
	raw, err := base64.StdEncoding.DecodeString(s[len(pngDataURL):])
	if err != nil {
		return nil, errors.Wrap(err, "imagebitmap")
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.Wrap(err, "imagebitmap")
	}
	return img, nil
}
