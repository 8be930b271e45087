// Copyright 2014 Google Inc. All rights reserved.
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
	"fmt"
	"reflect"
	"text/scanner"

	"github.com/minisoong/bp2make/parser"
)

// UnpackError is returned by UnpackProperties when a property's value does not fit the struct
// field it maps to.
type UnpackError struct {
	Property string
	Pos      scanner.Position
	Err      error
}

func (e *UnpackError) Error() string {
	return fmt.Sprintf("%s: property %q: %s", e.Pos, e.Property, e.Err)
}

func (e *UnpackError) Unwrap() error { return e.Err }

// UnpackProperties fills the property structs from the evaluated properties of m.  Every
// exported field is matched against the property named by PropertyNameForField; embedded
// structs share their parent's namespace and other struct fields are filled from a nested map.
// Properties without a matching field are ignored, and a null value leaves the field untouched.
//
// Supported field kinds are string, bool, int64, []string, pointers to those, and structs.
func UnpackProperties(m *parser.Map, propertiesStructs ...interface{}) []error {
	var errs []error
	for _, properties := range propertiesStructs {
		propertiesValue := reflect.ValueOf(properties)
		if propertiesValue.Kind() != reflect.Ptr {
			panic("properties must be a pointer to a struct")
		}

		propertiesValue = propertiesValue.Elem()
		if propertiesValue.Kind() != reflect.Struct {
			panic("properties must be a pointer to a struct")
		}

		errs = append(errs, unpackStructValue("", propertiesValue, m)...)
	}
	return errs
}

func unpackStructValue(namePrefix string, structValue reflect.Value, m *parser.Map) []error {
	structType := structValue.Type()

	var errs []error
	for i := 0; i < structValue.NumField(); i++ {
		fieldValue := structValue.Field(i)
		field := structType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			errs = append(errs, unpackStructValue(namePrefix, fieldValue, m)...)
			continue
		}

		if !field.IsExported() {
			continue
		}

		propertyName := PropertyNameForField(field.Name)
		property, ok := m.GetProperty(propertyName)
		if !ok {
			continue
		}

		value := property.Value.Eval()
		if _, isNull := value.(*parser.Null); isNull {
			continue
		}

		if fieldValue.Kind() == reflect.Struct {
			nested, ok := value.(*parser.Map)
			if !ok {
				errs = append(errs, typeMismatch(namePrefix+propertyName, property, parser.MapType, value))
				continue
			}
			errs = append(errs, unpackStructValue(namePrefix+propertyName+".", fieldValue, nested)...)
			continue
		}

		if expected, ok := unpackValue(fieldValue, value); !ok {
			errs = append(errs, typeMismatch(namePrefix+propertyName, property, expected, value))
		}
	}

	return errs
}

// unpackValue stores value into fieldValue.  When the value has the wrong type it returns the
// type that was expected and false.
func unpackValue(fieldValue reflect.Value, value parser.Expression) (parser.Type, bool) {
	switch kind := fieldValue.Kind(); kind {
	case reflect.String:
		s, ok := value.(*parser.String)
		if !ok {
			return parser.StringType, false
		}
		fieldValue.SetString(s.Value)
	case reflect.Bool:
		b, ok := value.(*parser.Bool)
		if !ok {
			return parser.BoolType, false
		}
		fieldValue.SetBool(b.Value)
	case reflect.Int, reflect.Int64:
		i, ok := value.(*parser.Int64)
		if !ok {
			return parser.Int64Type, false
		}
		fieldValue.SetInt(i.Value)
	case reflect.Slice:
		if fieldValue.Type().Elem().Kind() != reflect.String {
			panic(fmt.Errorf("field of type %s is a non-string slice", fieldValue.Type()))
		}
		list, ok := value.(*parser.List)
		if !ok {
			return parser.ListType, false
		}
		fieldValue.Set(reflect.ValueOf(list.Strings()).Convert(fieldValue.Type()))
	case reflect.Ptr:
		elem := reflect.New(fieldValue.Type().Elem())
		if expected, ok := unpackValue(elem.Elem(), value); !ok {
			return expected, false
		}
		fieldValue.Set(elem)
	default:
		panic(fmt.Errorf("unsupported kind for field of type %s: %s", fieldValue.Type(), kind))
	}
	return 0, true
}

func typeMismatch(name string, property *parser.Property, expected parser.Type,
	value parser.Expression) error {

	return &UnpackError{
		Property: name,
		Pos:      property.ColonPos,
		Err:      fmt.Errorf("can't assign %s value to %s property", value.Type(), expected),
	}
}
