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

package contract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cdcmatch/matchcore/matching"
	"github.com/cdcmatch/matchcore/matching/jsonbody"
	"github.com/cdcmatch/matchcore/matching/xmlbody"
)

// MatchMethod compares HTTP methods case-insensitively.
func MatchMethod(expected, actual string) []matching.Mismatch {
	if strings.EqualFold(expected, actual) {
		return nil
	}
	return []matching.Mismatch{matching.NewMethodMismatch(expected, actual)}
}

// MatchPath applies the whole-path rule if one is stored, otherwise plain
// equality.
func MatchPath(expected, actual string, rules *matching.Rules) []matching.Mismatch {
	rules = rulesOf(rules)
	if rules.PathMatcherIsDefined() {
		var out []matching.Mismatch
		for _, r := range rules.PathResolveBest() {
			if ok, msg := matching.Matches(r, matching.StringValue(expected), matching.StringValue(actual)); !ok {
				out = append(out, matching.Mismatch{Kind: matching.PathMismatch, Expected: expected, Actual: actual, Message: msg})
			}
		}
		return out
	}
	if expected == actual {
		return nil
	}
	return []matching.Mismatch{matching.NewPathMismatch(expected, actual)}
}

// MatchStatus compares HTTP status codes for equality.
func MatchStatus(expected, actual uint16) []matching.Mismatch {
	if expected == actual {
		return nil
	}
	return []matching.Mismatch{matching.NewStatusMismatch(strconv.Itoa(int(expected)), strconv.Itoa(int(actual)))}
}

// MatchQuery compares query-parameter maps. Expected-side-only keys drive
// "missing" mismatches, actual-side-only keys drive "unexpected" ones;
// shared keys compare their ordered value sequences positionally.
func MatchQuery(expected, actual map[string][]string, rules *matching.Rules) []matching.Mismatch {
	rules = rulesOf(rules)
	var out []matching.Mismatch

	for _, k := range sortedQueryKeys(expected) {
		evs := expected[k]
		avs, ok := actual[k]
		if !ok {
			out = append(out, matching.Mismatch{Kind: matching.QueryMismatch, Key: k, Expected: strings.Join(evs, ","),
				Message: fmt.Sprintf("Expected query parameter '%s' but was missing", k)})
			continue
		}
		if len(evs) != len(avs) {
			out = append(out, matching.Mismatch{Kind: matching.QueryMismatch, Key: k,
				Expected: strings.Join(evs, ","), Actual: strings.Join(avs, ","),
				Message: fmt.Sprintf("Expected query parameter '%s' with %d value(s) but received %d", k, len(evs), len(avs))})
			continue
		}
		for i := range evs {
			if rules.QueryMatcherIsDefined(k) {
				for _, r := range rules.QueryResolveBest(k) {
					if ok, msg := matching.Matches(r, matching.StringValue(evs[i]), matching.StringValue(avs[i])); !ok {
						out = append(out, matching.Mismatch{Kind: matching.QueryMismatch, Key: k, Expected: evs[i], Actual: avs[i], Message: msg})
					}
				}
			} else if evs[i] != avs[i] {
				out = append(out, matching.Mismatch{Kind: matching.QueryMismatch, Key: k, Expected: evs[i], Actual: avs[i],
					Message: fmt.Sprintf("Expected '%s' to be equal to '%s'", evs[i], avs[i])})
			}
		}
	}

	for _, k := range sortedQueryKeys(actual) {
		if _, ok := expected[k]; ok {
			continue
		}
		out = append(out, matching.Mismatch{Kind: matching.QueryMismatch, Key: k, Actual: strings.Join(actual[k], ","),
			Message: fmt.Sprintf("Unexpected query parameter '%s' received", k)})
	}
	return out
}

func sortedQueryKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortStringsStable(keys)
	return keys
}

// normalizeHeaderValue splits on comma, trims each part, and rejoins —
// the comparison form for header values absent a rule.
func normalizeHeaderValue(v string) string {
	parts := strings.Split(v, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

// MatchHeaders compares header maps case-insensitively by key.
// Expected-side iteration only: actual headers not named by expected are
// ignored. Content-Type is special-cased into media-type-plus-parameters
// comparison.
func MatchHeaders(expected, actual map[string]string, rules *matching.Rules) []matching.Mismatch {
	rules = rulesOf(rules)
	var out []matching.Mismatch

	for _, k := range sortedHeaderKeys(expected) {
		ev := expected[k]
		av, ok := lookupHeader(actual, k)
		if !ok {
			out = append(out, matching.Mismatch{Kind: matching.HeaderMismatch, Key: k, Expected: ev,
				Message: fmt.Sprintf("Expected header '%s' but was missing", k)})
			continue
		}
		if canonicalHeaderKey(k) == "content-type" {
			out = append(out, matchContentTypeHeader(k, ev, av)...)
			continue
		}
		if rules.HeaderMatcherIsDefined(k) {
			for _, r := range rules.HeaderResolveBest(k) {
				if ok, msg := matching.Matches(r, matching.StringValue(ev), matching.StringValue(av)); !ok {
					out = append(out, matching.Mismatch{Kind: matching.HeaderMismatch, Key: k, Expected: ev, Actual: av, Message: msg})
				}
			}
			continue
		}
		ne, na := normalizeHeaderValue(ev), normalizeHeaderValue(av)
		if ne != na {
			out = append(out, matching.Mismatch{Kind: matching.HeaderMismatch, Key: k, Expected: ev, Actual: av,
				Message: fmt.Sprintf("Expected header '%s' to have value '%s' but was '%s'", k, ev, av)})
		}
	}
	return out
}

func matchContentTypeHeader(key, expected, actual string) []matching.Mismatch {
	eMedia, eParams := parseContentType(expected)
	aMedia, aParams := parseContentType(actual)

	var out []matching.Mismatch
	if !strings.EqualFold(eMedia, aMedia) {
		out = append(out, matching.Mismatch{Kind: matching.HeaderMismatch, Key: key, Expected: expected, Actual: actual,
			Message: fmt.Sprintf("Expected header '%s' to have value '%s' but was '%s'", key, expected, actual)})
		return out
	}
	for _, pk := range sortedParamKeys(eParams) {
		ev := eParams[pk]
		av, ok := aParams[pk]
		if !ok || ev != av {
			out = append(out, matching.Mismatch{Kind: matching.HeaderMismatch, Key: key, Expected: expected, Actual: actual,
				Message: fmt.Sprintf("Expected header '%s' parameter '%s' to be '%s' but was '%s'", key, pk, ev, av)})
		}
	}
	return out
}

func parseContentType(v string) (media string, params map[string]string) {
	parts := strings.Split(v, ";")
	media = strings.TrimSpace(parts[0])
	params = map[string]string{}
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		params[strings.ToLower(strings.TrimSpace(kv[0]))] = strings.Trim(strings.TrimSpace(kv[1]), `"`)
	}
	return media, params
}

func sortedParamKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sortStringsStable(keys)
	return keys
}

// MatchBody dispatches the body comparators by content type, honoring the
// OptionalBody state preconditions.
func MatchBody(expectedHeaders, actualHeaders map[string]string, expected, actual OptionalBody, mode matching.DiffConfig, rules *matching.Rules) []matching.Mismatch {
	rules = rulesOf(rules)

	if expected.State == BodyMissing {
		return nil
	}
	if (expected.State == BodyNull || expected.State == BodyEmptyState) && actual.State == BodyPresent && len(actual.Bytes) > 0 {
		return []matching.Mismatch{matching.NewBodyMismatch("$", "", string(actual.Bytes),
			fmt.Sprintf("Expected empty body but received '%s'", string(actual.Bytes)))}
	}
	if expected.State == BodyPresent && actual.State != BodyPresent {
		return []matching.Mismatch{matching.NewBodyMismatch("$", string(expected.Bytes), "",
			fmt.Sprintf("Expected body '%s' but was missing", string(expected.Bytes)))}
	}
	if expected.State != BodyPresent {
		return nil
	}

	eType := DetectContentType(expectedHeaders, expected.Bytes)
	aType := DetectContentType(actualHeaders, actual.Bytes)
	if ComparatorFor(eType) != ComparatorFor(aType) {
		return []matching.Mismatch{matching.NewBodyTypeMismatch(eType, aType,
			fmt.Sprintf("Expected body to have content type %s but was %s", eType, aType))}
	}

	switch ComparatorFor(eType) {
	case ComparatorJSON:
		ev, err := jsonbody.Decode(expected.Bytes)
		if err != nil {
			return []matching.Mismatch{matching.NewBodyMismatch("$", string(expected.Bytes), "", fmt.Sprintf("Failed to parse expected body: %s", err))}
		}
		av, err := jsonbody.Decode(actual.Bytes)
		if err != nil {
			return []matching.Mismatch{matching.NewBodyMismatch("$", "", string(actual.Bytes), fmt.Sprintf("Failed to parse actual body: %s", err))}
		}
		return jsonbody.Compare(ev, av, mode, rules)
	case ComparatorXML:
		ev, err := xmlbody.Parse(expected.Bytes)
		if err != nil {
			return []matching.Mismatch{matching.NewBodyMismatch("$", string(expected.Bytes), "", fmt.Sprintf("Failed to parse expected body: %s", err))}
		}
		av, err := xmlbody.Parse(actual.Bytes)
		if err != nil {
			return []matching.Mismatch{matching.NewBodyMismatch("$", "", string(actual.Bytes), fmt.Sprintf("Failed to parse actual body: %s", err))}
		}
		return xmlbody.Compare([]string{"$"}, ev, av, mode, rules)
	default:
		if string(expected.Bytes) != string(actual.Bytes) {
			return []matching.Mismatch{matching.NewBodyMismatch("$", string(expected.Bytes), string(actual.Bytes),
				fmt.Sprintf("Expected '%s' to be equal to '%s'", string(expected.Bytes), string(actual.Bytes)))}
		}
		return nil
	}
}
