// Copyright 2015 Zalando SE
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package matching

import (
	"encoding/json"
	"strconv"
	"strings"
)

// JSONValue wraps a value decoded from encoding/json with UseNumber(), so
// that the Number/Integer/Decimal distinction survives (a plain interface{}
// decode collapses every number to float64 and loses it).
type JSONValue struct {
	raw interface{}
}

// NewJSONValue wraps a decoded JSON value (string, json.Number, bool, nil,
// map[string]interface{}, or []interface{}) as a Value.
func NewJSONValue(raw interface{}) JSONValue {
	return JSONValue{raw: raw}
}

// Raw returns the wrapped value as decoded by encoding/json.
func (v JSONValue) Raw() interface{} { return v.raw }

func (v JSONValue) Kind() ValueKind {
	switch val := v.raw.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case json.Number:
		return KindNumber
	case float64:
		return KindNumber
	case string:
		return KindString
	case map[string]interface{}:
		return KindObject
	case []interface{}:
		return KindArray
	default:
		_ = val
		return KindNull
	}
}

func (v JSONValue) Text() string {
	switch val := v.raw.(type) {
	case nil:
		return "null"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return val
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}

func (v JSONValue) Len() (int, bool) {
	switch val := v.raw.(type) {
	case map[string]interface{}:
		return len(val), true
	case []interface{}:
		return len(val), true
	default:
		return 0, false
	}
}

func (v JSONValue) NumericText() (string, bool, bool) {
	switch val := v.raw.(type) {
	case json.Number:
		s := val.String()
		return s, isIntegralNumericText(s), true
	case float64:
		s := strconv.FormatFloat(val, 'g', -1, 64)
		return s, isIntegralNumericText(s), true
	case string:
		if isNumericText(val) {
			return val, isIntegralNumericText(val), true
		}
		return "", false, false
	default:
		return "", false, false
	}
}

func isNumericText(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isIntegralNumericText(s string) bool {
	if !isNumericText(s) {
		return false
	}
	return !strings.ContainsAny(s, ".eE")
}

// StringValue wraps a plain string — an XML attribute value or concatenated
// text-node content — as a Value. It always reports KindString but still
// answers NumericText truthfully so Number/Integer/Decimal rules work
// against XML content exactly as they do against JSON.
type StringValue string

func (v StringValue) Kind() ValueKind { return KindString }
func (v StringValue) Text() string    { return string(v) }
func (v StringValue) Len() (int, bool) {
	return 0, false
}
func (v StringValue) NumericText() (string, bool, bool) {
	s := string(v)
	if !isNumericText(s) {
		return "", false, false
	}
	return s, isIntegralNumericText(s), true
}
