// Copyright 2015 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package proptools

import (
	"github.com/minisoong/bp2make/parser"
)

// MergeDefaults merges the overlay properties in src into dst, modifying dst in place.  src is
// never modified, and every value taken from it is copied.
//
// The merge is defined key by key:
//   - a key only in src is copied into dst.
//   - a key in both whose values are maps becomes src's map with dst's properties set on top of
//     it, so dst wins on conflicts but keys only in src survive.
//   - a key in both whose values are lists becomes src's elements followed by dst's, so explicit
//     settings in dst act as refinements appended after the overlay.
//   - any other key in dst is left alone.
func MergeDefaults(dst, src *parser.Map) {
	if dst == nil || src == nil {
		return
	}

	for _, srcProp := range src.Properties {
		dstProp, found := dst.GetProperty(srcProp.Name)
		if !found {
			dst.Properties = append(dst.Properties, srcProp.Copy())
			continue
		}

		switch srcValue := srcProp.Value.Eval().(type) {
		case *parser.Map:
			dstValue, ok := dstProp.Value.Eval().(*parser.Map)
			if !ok {
				continue
			}
			merged := srcValue.Copy().(*parser.Map)
			for _, p := range dstValue.Properties {
				merged.SetProperty(p.Name, p.Value.Copy())
			}
			dstProp.Value = merged
		case *parser.List:
			dstValue, ok := dstProp.Value.Eval().(*parser.List)
			if !ok {
				continue
			}
			merged := &parser.List{
				LBracePos: dstValue.LBracePos,
				RBracePos: dstValue.RBracePos,
				Values:    make([]parser.Expression, 0, len(srcValue.Values)+len(dstValue.Values)),
			}
			for _, v := range srcValue.Values {
				merged.Values = append(merged.Values, v.Copy())
			}
			for _, v := range dstValue.Values {
				merged.Values = append(merged.Values, v.Copy())
			}
			dstProp.Value = merged
		}
	}
}

// GetMap returns the map value of the named property, or nil if the property is missing or is
// not a map.
func GetMap(m *parser.Map, name string) *parser.Map {
	if m == nil {
		return nil
	}
	prop, ok := m.GetProperty(name)
	if !ok {
		return nil
	}
	ret, _ := prop.Value.Eval().(*parser.Map)
	return ret
}

// GetStringList returns the string elements of the named list property, or nil if the property
// is missing or is not a list.
func GetStringList(m *parser.Map, name string) []string {
	if m == nil {
		return nil
	}
	prop, ok := m.GetProperty(name)
	if !ok {
		return nil
	}
	list, ok := prop.Value.Eval().(*parser.List)
	if !ok {
		return nil
	}
	return list.Strings()
}
