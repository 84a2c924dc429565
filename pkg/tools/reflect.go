/*
 * Copyright 2024 caiflower Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package tools

import (
	"reflect"
	"strconv"
	"time"

	"github.com/modern-go/reflect2"
)

var durationType = reflect.TypeOf(time.Duration(0))

// DoTagFunc calls every fn for each field of the struct v points to.
func DoTagFunc(v interface{}, fn []func(reflect.StructField, reflect.Value)) {
	if reflect2.IsNil(v) {
		return
	}

	vType := reflect2.TypeOf(v).Type1()
	if vType.Kind() != reflect.Ptr || vType.Elem().Kind() != reflect.Struct {
		return
	}

	indirect := reflect.Indirect(reflect.ValueOf(v))
	for i := 0; i < indirect.NumField(); i++ {
		field := indirect.Field(i)
		fieldStruct := vType.Elem().Field(i)
		if !field.CanSet() {
			continue
		}

		for _, f := range fn {
			f(fieldStruct, field)
		}
	}
}

func SetDefaultValueIfNil(structField reflect.StructField, vValue reflect.Value) {
	if !vValue.CanSet() {
		return
	}

	tag, hasTag := structField.Tag.Lookup("default")
	switch vValue.Kind() {
	case reflect.Struct:
		for i := 0; i < vValue.NumField(); i++ {
			SetDefaultValueIfNil(structField.Type.Field(i), vValue.Field(i))
		}
		return
	case reflect.Ptr:
		if vValue.IsNil() || vValue.Elem().Kind() != reflect.Struct {
			return
		}
		elem := vValue.Elem()
		for i := 0; i < elem.NumField(); i++ {
			SetDefaultValueIfNil(elem.Type().Field(i), elem.Field(i))
		}
		return
	}

	if !hasTag || !vValue.IsZero() {
		return
	}

	switch vValue.Kind() {
	case reflect.Int64:
		if vValue.Type() == durationType {
			if d, err := time.ParseDuration(tag); err == nil {
				vValue.SetInt(int64(d))
			}
			return
		}
		if v, err := strconv.ParseInt(tag, 10, 64); err == nil {
			vValue.SetInt(v)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		if v, err := strconv.ParseInt(tag, 10, 64); err == nil {
			vValue.SetInt(v)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v, err := strconv.ParseUint(tag, 10, 64); err == nil {
			vValue.SetUint(v)
		}
	case reflect.String:
		vValue.SetString(tag)
	case reflect.Float32, reflect.Float64:
		if v, err := strconv.ParseFloat(tag, 64); err == nil {
			vValue.SetFloat(v)
		}
	case reflect.Bool:
		if v, err := strconv.ParseBool(tag); err == nil {
			vValue.SetBool(v)
		}
	}
}
