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
	"fmt"
)

// Kind identifies the variant of a Mismatch.
type Kind string

const (
	MethodMismatch    Kind = "MethodMismatch"
	PathMismatch      Kind = "PathMismatch"
	StatusMismatch    Kind = "StatusMismatch"
	QueryMismatch     Kind = "QueryMismatch"
	HeaderMismatch    Kind = "HeaderMismatch"
	BodyTypeMismatch  Kind = "BodyTypeMismatch"
	BodyMismatch      Kind = "BodyMismatch"
)

// Mismatch is the single accumulator element every comparator emits into.
// It carries enough to reproduce what was expected, what was received, and
// a human-readable sentence; body-shaped mismatches also carry the dotted
// traversal path and, for query/header mismatches, the offending key.
type Mismatch struct {
	Kind     Kind
	Expected string
	Actual   string
	Message  string
	Path     string
	Key      string
}

func (m Mismatch) String() string {
	if m.Path != "" {
		return fmt.Sprintf("%s at %s: %s", m.Kind, m.Path, m.Message)
	}
	return fmt.Sprintf("%s: %s", m.Kind, m.Message)
}

// MarshalJSON renders the canonical tagged-object form: "type", "expected",
// "actual", plus kind-specific fields ("mismatch" for the message, "path"
// for body mismatches, "parameter"/"key" for query/header mismatches).
func (m Mismatch) MarshalJSON() ([]byte, error) {
	obj := map[string]string{
		"type":     string(m.Kind),
		"expected": m.Expected,
		"actual":   m.Actual,
		"mismatch": m.Message,
	}
	if m.Path != "" {
		obj["path"] = m.Path
	}
	switch m.Kind {
	case QueryMismatch:
		obj["parameter"] = m.Key
	case HeaderMismatch:
		obj["key"] = m.Key
	}
	return json.Marshal(obj)
}

// Summary renders a short, context-free one-liner for the mismatch,
// usable outside of a body-diff display.
func (m Mismatch) Summary() string {
	switch m.Kind {
	case MethodMismatch:
		return fmt.Sprintf("is a %s request", m.Actual)
	case PathMismatch:
		return fmt.Sprintf("to path '%s'", m.Actual)
	case StatusMismatch:
		return fmt.Sprintf("has status code %s", m.Actual)
	case QueryMismatch:
		return fmt.Sprintf("query parameter '%s'", m.Key)
	case HeaderMismatch:
		return fmt.Sprintf("header '%s'", m.Key)
	case BodyTypeMismatch:
		return "has an incompatible body content type"
	case BodyMismatch:
		return fmt.Sprintf("body at %s", m.Path)
	default:
		return string(m.Kind)
	}
}

// Description renders the full sentence, identical to Message for body
// mismatches and a slightly fuller phrasing for the fixed-field kinds.
func (m Mismatch) Description() string {
	switch m.Kind {
	case MethodMismatch:
		return fmt.Sprintf("expected method %s but received %s", m.Expected, m.Actual)
	case StatusMismatch:
		return fmt.Sprintf("expected status %s but received %s", m.Expected, m.Actual)
	default:
		return m.Message
	}
}

func newMethodMismatch(expected, actual string) Mismatch {
	return Mismatch{Kind: MethodMismatch, Expected: expected, Actual: actual,
		Message: fmt.Sprintf("expected %s but was %s", expected, actual)}
}

func newPathMismatch(expected, actual string) Mismatch {
	return Mismatch{Kind: PathMismatch, Expected: expected, Actual: actual,
		Message: fmt.Sprintf("Expected '%s' to be equal to '%s'", expected, actual)}
}

func newStatusMismatch(expected, actual string) Mismatch {
	return Mismatch{Kind: StatusMismatch, Expected: expected, Actual: actual,
		Message: fmt.Sprintf("expected %s but was %s", expected, actual)}
}

func newQueryMismatch(key, expected, actual, message string) Mismatch {
	return Mismatch{Kind: QueryMismatch, Key: key, Expected: expected, Actual: actual, Message: message}
}

func newHeaderMismatch(key, expected, actual, message string) Mismatch {
	return Mismatch{Kind: HeaderMismatch, Key: key, Expected: expected, Actual: actual, Message: message}
}

func newBodyTypeMismatch(expected, actual, message string) Mismatch {
	return Mismatch{Kind: BodyTypeMismatch, Expected: expected, Actual: actual, Message: message}
}

// NewBodyMismatch constructs a path-carrying body mismatch. Exported so
// the json/xml comparator subpackages (which live outside this package)
// can emit into the same accumulator shape.
func NewBodyMismatch(path, expected, actual, message string) Mismatch {
	return Mismatch{Kind: BodyMismatch, Path: path, Expected: expected, Actual: actual, Message: message}
}

// NewMethodMismatch is the exported constructor used by the contract
// package's part comparators.
func NewMethodMismatch(expected, actual string) Mismatch { return newMethodMismatch(expected, actual) }

// NewPathMismatch is the exported constructor used by the contract
// package's part comparators.
func NewPathMismatch(expected, actual string) Mismatch { return newPathMismatch(expected, actual) }

// NewStatusMismatch is the exported constructor used by the contract
// package's part comparators.
func NewStatusMismatch(expected, actual string) Mismatch { return newStatusMismatch(expected, actual) }

// NewQueryMismatch is the exported constructor used by the contract
// package's part comparators.
func NewQueryMismatch(key, expected, actual, message string) Mismatch {
	return newQueryMismatch(key, expected, actual, message)
}

// NewHeaderMismatch is the exported constructor used by the contract
// package's part comparators.
func NewHeaderMismatch(key, expected, actual, message string) Mismatch {
	return newHeaderMismatch(key, expected, actual, message)
}

// NewBodyTypeMismatch is the exported constructor used by the contract
// package's part comparators.
func NewBodyTypeMismatch(expected, actual, message string) Mismatch {
	return newBodyTypeMismatch(expected, actual, message)
}
