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

import "github.com/cdcmatch/matchcore/matching"

// MatchRequest compares an expected request against an actual one and
// returns every mismatch found. Checks run in a fixed order — method,
// path, body, query, headers — so output ordering is deterministic across
// invocations. Requests use NoUnexpectedKeys: actual may not introduce
// keys the expected body/maps didn't have.
func MatchRequest(expected, actual Request) []matching.Mismatch {
	var out []matching.Mismatch
	out = append(out, MatchMethod(expected.Method, actual.Method)...)
	out = append(out, MatchPath(expected.Path, actual.Path, expected.Rules)...)
	out = append(out, MatchBody(expected.Headers, actual.Headers, expected.Body, actual.Body, matching.NoUnexpectedKeys, expected.Rules)...)
	out = append(out, MatchQuery(expected.Query, actual.Query, expected.Rules)...)
	out = append(out, MatchHeaders(expected.Headers, actual.Headers, expected.Rules)...)
	return out
}

// MatchResponse compares an expected response against an actual one and
// returns every mismatch found, in the fixed order body, status, headers.
// Responses use AllowUnexpectedKeys (Postel's law): actual may carry extra
// map keys the expected body didn't mention.
func MatchResponse(expected, actual Response) []matching.Mismatch {
	var out []matching.Mismatch
	out = append(out, MatchBody(expected.Headers, actual.Headers, expected.Body, actual.Body, matching.AllowUnexpectedKeys, expected.Rules)...)
	out = append(out, MatchStatus(expected.Status, actual.Status)...)
	out = append(out, MatchHeaders(expected.Headers, actual.Headers, expected.Rules)...)
	return out
}
