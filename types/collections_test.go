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

package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/typeson/apis"
	"dirpx.dev/typeson/config"
	"dirpx.dev/typeson/types"
	"dirpx.dev/typeson/wire"
)

func TestMap(t *testing.T) {
	text, out := roundTrip(t, types.Map, map[int]string{2: "b", 1: "a", 10: "j"})

	assert.JSONEq(t, `{"$":[[1,"a"],[2,"b"],[10,"j"]],"$types":{"$":{"":"map"}}}`, text)
	assert.Equal(t, map[any]any{1.0: "a", 2.0: "b", 10.0: "j"}, out)
}

func TestMap_MixedKeys(t *testing.T) {
	text, _ := roundTrip(t, types.Map, map[any]any{"b": 1, 2: 2, "a": 3})
	assert.JSONEq(t, `{"$":[[2,2],["a",3],["b",1]],"$types":{"$":{"":"map"}}}`, text)
}

func TestMap_UncomparableKey(t *testing.T) {
	_, rev := engines(t, types.Map)
	tree, err := wire.JSON{}.Unmarshal([]byte(`{"$":[[[1],2]],"$types":{"$":{"":"map"}}}`))
	require.NoError(t, err)

	_, err = rev.Revive(tree, nil, config.DefaultConfig())
	assert.ErrorContains(t, err, "not comparable")
}

func TestSet_WinsOverMap(t *testing.T) {
	text, out := roundTrip(t, apis.Preset{types.Map, types.Set}, map[string]struct{}{"y": {}, "x": {}})

	assert.JSONEq(t, `{"$":["x","y"],"$types":{"$":{"":"set"}}}`, text)
	assert.Equal(t, map[any]struct{}{"x": {}, "y": {}}, out)
}

func TestMap_NestedSpecialValues(t *testing.T) {
	set := apis.Preset{types.Map, types.Set}
	in := map[string]map[string]struct{}{"k": {"v": {}}}
	text, out := roundTrip(t, set, in)

	assert.JSONEq(t, `{"$":[["k",["v"]]],"$types":{"$":{"":"map","0.1":"set"}}}`, text)
	assert.Equal(t, map[any]any{"k": map[any]struct{}{"v": {}}}, out)
}
