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
	"sort"
	"strings"
)

func canonicalHeaderKey(name string) string {
	return strings.ToLower(name)
}

func lookupHeader(headers map[string]string, name string) (string, bool) {
	want := canonicalHeaderKey(name)
	for k, v := range headers {
		if canonicalHeaderKey(k) == want {
			return v, true
		}
	}
	return "", false
}

func sortedHeaderKeys(headers map[string]string) []string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortStringsStable sorts a key slice in place and returns it, used
// wherever Go's randomized map iteration needs a deterministic substitute
// for "iteration order".
func sortStringsStable(keys []string) []string {
	sort.Strings(keys)
	return keys
}
