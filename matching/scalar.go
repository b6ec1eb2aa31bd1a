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
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ValueKind identifies the dynamic type of a Value, mirroring the six-variant
// JSON sum type (object, array, string, number, boolean, null); XML string
// values (attribute/text content) always report KindString but may still
// satisfy Number/Integer/Decimal rules if their text parses as one.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Boolean"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindObject:
		return "Map"
	case KindArray:
		return "List"
	default:
		return "Unknown"
	}
}

// Value is the minimal surface the scalar matchers need over a dynamic
// value, shared by the JSON comparator (wrapping decoded JSON) and the XML
// comparator (wrapping attribute/text strings) so the thirteen rule kinds
// have exactly one implementation.
type Value interface {
	// Kind reports the value's dynamic type.
	Kind() ValueKind
	// Text returns the canonical textual form: the string itself for
	// strings, the literal number token for numbers, "true"/"false" for
	// booleans, "null" for null. Used by Regex/Include.
	Text() string
	// Len returns a collection's length and true, or (0, false) for a
	// non-collection.
	Len() (int, bool)
	// NumericText returns the value's textual numeric form and whether it
	// denotes an integral (no fractional part, no exponent) number, when
	// the value is numeric (a JSON number, or a string that parses as
	// one). ok is false when the value is not numeric at all.
	NumericText() (text string, integral bool, ok bool)
}

// Matches applies a single MatchingRule kind to an (expected, actual) pair
// and reports success or a failure sentence formatted per the fixed
// phrasing test suites match against literally.
func Matches(rule Rule, expected, actual Value) (bool, string) {
	switch rule.Kind {
	case Equality:
		return matchEquality(expected, actual)
	case Regex:
		return matchRegex(rule, expected, actual)
	case Type:
		return matchType(expected, actual)
	case MinType:
		return matchMinMaxType(expected, actual, &rule.Min, nil)
	case MaxType:
		return matchMinMaxType(expected, actual, nil, &rule.Max)
	case MinMaxType:
		return matchMinMaxType(expected, actual, &rule.Min, &rule.Max)
	case Include:
		return matchInclude(rule, actual)
	case Number:
		return matchNumeric(expected, actual, numericAny)
	case Integer:
		return matchNumeric(expected, actual, numericInteger)
	case Decimal:
		return matchNumeric(expected, actual, numericDecimal)
	case Timestamp:
		return matchTemporal(rule, expected, actual, "yyyy-MM-dd'T'HH:mm:ss")
	case Time:
		return matchTemporal(rule, expected, actual, "HH:mm:ss")
	case Date:
		return matchTemporal(rule, expected, actual, "yyyy-MM-dd")
	default:
		return false, fmt.Sprintf("unknown matcher kind %v", rule.Kind)
	}
}

func matchEquality(expected, actual Value) (bool, string) {
	if expected.Kind() == actual.Kind() && expected.Text() == actual.Text() {
		return true, ""
	}
	return false, fmt.Sprintf("Expected '%s' to be equal to '%s'", expected.Text(), actual.Text())
}

func matchRegex(rule Rule, expected, actual Value) (bool, string) {
	re, err := regexp.Compile(rule.Pattern)
	if err != nil {
		return false, fmt.Sprintf("'%s' is not a valid regular expression - %s", rule.Pattern, err)
	}
	if re.MatchString(actual.Text()) {
		return true, ""
	}
	return false, fmt.Sprintf("Expected '%s' to match '%s'", actual.Text(), rule.Pattern)
}

func matchType(expected, actual Value) (bool, string) {
	if expected.Kind() == actual.Kind() {
		return true, ""
	}
	return false, fmt.Sprintf("Expected '%s' to be the same type as '%s'", expected.Text(), actual.Text())
}

func matchMinMaxType(expected, actual Value, min, max *int) (bool, string) {
	if expected.Kind() != actual.Kind() {
		return false, fmt.Sprintf("Expected '%s' to be the same type as '%s'", expected.Text(), actual.Text())
	}
	n, ok := actual.Len()
	if !ok {
		// Non-collection scalars are only type-checked.
		return true, ""
	}
	if min != nil && n < *min {
		return false, fmt.Sprintf("Expected '%s' to have at least %d item(s)", actual.Text(), *min)
	}
	if max != nil && n > *max {
		return false, fmt.Sprintf("Expected '%s' to have at most %d item(s)", actual.Text(), *max)
	}
	return true, ""
}

func matchInclude(rule Rule, actual Value) (bool, string) {
	if strings.Contains(actual.Text(), rule.Substring) {
		return true, ""
	}
	return false, fmt.Sprintf("Expected '%s' to include '%s'", actual.Text(), rule.Substring)
}

type numericMode int

const (
	numericAny numericMode = iota
	numericInteger
	numericDecimal
)

func matchNumeric(expected, actual Value, mode numericMode) (bool, string) {
	_, integral, ok := actual.NumericText()
	if !ok {
		return false, fmt.Sprintf("Expected '%s' to be a number", actual.Text())
	}
	switch mode {
	case numericInteger:
		if !integral {
			return false, fmt.Sprintf("Expected '%s' to be an integer", actual.Text())
		}
	case numericDecimal:
		if integral {
			return false, fmt.Sprintf("Expected '%s' to be a decimal number", actual.Text())
		}
	}
	return true, ""
}

func matchTemporal(rule Rule, expected, actual Value, fallback string) (bool, string) {
	format := rule.Format
	if format == "" {
		format = fallback
	}
	layout := translateDateFormat(format)
	if _, err := time.Parse(layout, actual.Text()); err != nil {
		return false, fmt.Sprintf("Expected '%s' to match a %s format of '%s'", actual.Text(), kindLabel(rule.Kind), format)
	}
	return true, ""
}

func kindLabel(k RuleKind) string {
	switch k {
	case Timestamp:
		return "timestamp"
	case Time:
		return "time"
	case Date:
		return "date"
	default:
		return "date/time"
	}
}

// translateDateFormat converts a Java SimpleDateFormat-style pattern (the
// format strings matching rules carry) into a Go reference-time layout.
// Only the token set the default ISO-like formats and common rule authoring
// use is handled; unrecognized runs pass through literally. SimpleDateFormat's
// own behavior of erroring on unquoted unknown letters is not replicated —
// best-effort translation is sufficient for the formats this matcher
// actually receives.
func translateDateFormat(format string) string {
	replacer := strings.NewReplacer(
		"yyyy", "2006",
		"yy", "06",
		"MM", "01",
		"dd", "02",
		"HH", "15",
		"mm", "04",
		"ss", "05",
		"SSS", "000",
		"'T'", "T",
		"'Z'", "Z",
		"Z", "Z0700",
	)
	return replacer.Replace(format)
}
