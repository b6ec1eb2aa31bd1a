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

// Package jsonbody implements the recursive JSON body comparator, guided by
// a matching.Rules store through matching.Matches.
package jsonbody

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/cdcmatch/matchcore/matching"
)

// Decode parses raw JSON bytes into the dynamic value tree Compare expects,
// preserving the integer/decimal distinction in numbers via json.Number
// rather than collapsing everything to float64.
func Decode(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Compare recursively compares two decoded JSON values starting at the
// root, emitting into the returned mismatch list.
func Compare(expected, actual interface{}, mode matching.DiffConfig, rules *matching.Rules) []matching.Mismatch {
	return compareValue([]string{"$"}, expected, actual, mode, rules)
}

func text(v interface{}) string {
	return matching.NewJSONValue(v).Text()
}

func dottedPath(path []string) string {
	out := path[0]
	for _, seg := range path[1:] {
		out += "." + seg
	}
	return out
}

func childPath(path []string, seg string) []string {
	next := make([]string, len(path)+1)
	copy(next, path)
	next[len(path)] = seg
	return next
}

func compareValue(path []string, e, a interface{}, mode matching.DiffConfig, rules *matching.Rules) []matching.Mismatch {
	ek := matching.NewJSONValue(e).Kind()
	ak := matching.NewJSONValue(a).Kind()

	switch {
	case ek == matching.KindObject && ak == matching.KindObject:
		return compareMaps(path, e.(map[string]interface{}), a.(map[string]interface{}), mode, rules)
	case ek == matching.KindArray && ak == matching.KindArray:
		return compareLists(path, e.([]interface{}), a.([]interface{}), mode, rules)
	case ek == matching.KindObject || ak == matching.KindObject || ek == matching.KindArray || ak == matching.KindArray:
		return []matching.Mismatch{matching.NewBodyMismatch(dottedPath(path), text(e), text(a),
			fmt.Sprintf("Type mismatch: Expected %s %s but received %s %s", ek, text(e), ak, text(a)))}
	default:
		return compareValues(path, e, a, rules)
	}
}

func compareValues(path []string, e, a interface{}, rules *matching.Rules) []matching.Mismatch {
	dotted := dottedPath(path)
	ev := matching.NewJSONValue(e)
	av := matching.NewJSONValue(a)

	if rules.BodyMatcherIsDefined(path) {
		var out []matching.Mismatch
		for _, r := range rules.BodyResolveBest(path) {
			if ok, msg := matching.Matches(r, ev, av); !ok {
				out = append(out, matching.NewBodyMismatch(dotted, ev.Text(), av.Text(), msg))
			}
		}
		return out
	}

	if ok, msg := matching.Matches(matching.Rule{Kind: matching.Equality}, ev, av); !ok {
		return []matching.Mismatch{matching.NewBodyMismatch(dotted, ev.Text(), av.Text(), msg)}
	}
	return nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// firstValue returns the value for the lexicographically first key, used
// as the exemplar in wildcard map matching. The reference implementation
// this comparator follows uses "first in iteration order"; Go map
// iteration order is randomized, so sorted-key order stands in as the
// deterministic substitute.
func firstValue(m map[string]interface{}) (interface{}, bool) {
	keys := sortedKeys(m)
	if len(keys) == 0 {
		return nil, false
	}
	return m[keys[0]], true
}

func compareMaps(path []string, e, a map[string]interface{}, mode matching.DiffConfig, rules *matching.Rules) []matching.Mismatch {
	dotted := dottedPath(path)
	var out []matching.Mismatch

	if len(e) == 0 && len(a) != 0 {
		return append(out, matching.NewBodyMismatch(dotted, "{}", text(a),
			fmt.Sprintf("Expected an empty Map but received %s", text(a))))
	}
	if mode == matching.AllowUnexpectedKeys && len(e) > len(a) {
		out = append(out, matching.NewBodyMismatch(dotted, text(e), text(a),
			fmt.Sprintf("Expected a Map with at least %d elements but received %d elements", len(e), len(a))))
	}
	if mode == matching.NoUnexpectedKeys && len(e) != len(a) {
		out = append(out, matching.NewBodyMismatch(dotted, text(e), text(a),
			fmt.Sprintf("Expected a Map with %d elements but received %d elements", len(e), len(a))))
	}

	if rules.BodyWildcardMatcherIsDefined(path) {
		exemplar, hasExemplar := firstValue(e)
		for _, k := range sortedKeys(a) {
			cp := childPath(path, k)
			if ev, ok := e[k]; ok {
				out = append(out, compareValue(cp, ev, a[k], mode, rules)...)
			} else if hasExemplar {
				out = append(out, compareValue(cp, exemplar, a[k], mode, rules)...)
			}
		}
		return out
	}

	for _, k := range sortedKeys(e) {
		cp := childPath(path, k)
		if av, ok := a[k]; ok {
			out = append(out, compareValue(cp, e[k], av, mode, rules)...)
		} else {
			out = append(out, matching.NewBodyMismatch(dotted, text(e[k]), "",
				fmt.Sprintf("Expected entry %s=%s but was missing", k, text(e[k]))))
		}
	}
	return out
}

func padExemplar(e []interface{}, n int) []interface{} {
	out := make([]interface{}, n)
	for i := range out {
		out[i] = e[0]
	}
	return out
}

func compareLists(path []string, e, a []interface{}, mode matching.DiffConfig, rules *matching.Rules) []matching.Mismatch {
	dotted := dottedPath(path)
	var out []matching.Mismatch

	working := e
	if rules.BodyMatcherIsDefined(path) {
		for _, r := range rules.BodyResolveBest(path) {
			if ok, msg := matching.Matches(r, matching.NewJSONValue(e), matching.NewJSONValue(a)); !ok {
				out = append(out, matching.NewBodyMismatch(dotted, text(e), text(a), msg))
			}
		}
		if len(e) > 0 {
			working = padExemplar(e, len(a))
		}
	} else {
		if len(e) == 0 && len(a) != 0 {
			out = append(out, matching.NewBodyMismatch(dotted, "[]", text(a),
				fmt.Sprintf("Expected an empty List but received %s", text(a))))
		} else if len(e) != len(a) {
			out = append(out, matching.NewBodyMismatch(dotted, text(e), text(a),
				fmt.Sprintf("Expected a List with %d elements but received %d elements", len(e), len(a))))
		}
	}

	for i := range working {
		cp := childPath(path, strconv.Itoa(i))
		if i < len(a) {
			out = append(out, compareValue(cp, working[i], a[i], mode, rules)...)
		} else if !rules.BodyMatcherIsDefined(cp) {
			out = append(out, matching.NewBodyMismatch(dottedPath(cp), text(working[i]), "",
				fmt.Sprintf("Expected %s but was missing", text(working[i]))))
		}
	}
	return out
}
