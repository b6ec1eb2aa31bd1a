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

// RuleKind identifies the variant of a MatchingRule.
type RuleKind int

const (
	Equality RuleKind = iota
	Regex
	Type
	MinType
	MaxType
	MinMaxType
	Timestamp
	Time
	Date
	Include
	Number
	Integer
	Decimal
)

func (k RuleKind) String() string {
	switch k {
	case Equality:
		return "equality"
	case Regex:
		return "regex"
	case Type:
		return "type"
	case MinType:
		return "min"
	case MaxType:
		return "max"
	case MinMaxType:
		return "minmax"
	case Timestamp:
		return "timestamp"
	case Time:
		return "time"
	case Date:
		return "date"
	case Include:
		return "include"
	case Number:
		return "number"
	case Integer:
		return "integer"
	case Decimal:
		return "decimal"
	default:
		return "unknown"
	}
}

// Rule is a single MatchingRule: a tagged variant over the fields its kind
// uses. Zero-value fields are ignored by kinds that don't need them.
type Rule struct {
	Kind RuleKind

	Pattern   string // Regex
	Min       int    // MinType, MinMaxType
	Max       int    // MaxType, MinMaxType
	Format    string // Timestamp, Time, Date
	Substring string // Include
}

// RuleList is an ordered sequence of rules sharing a path; typically one
// entry, but when several are present all must succeed.
type RuleList []Rule

// Clone returns an independent copy of the list, since RuleLists returned
// by the store are shared with callers that must not mutate it.
func (l RuleList) Clone() RuleList {
	if l == nil {
		return nil
	}
	out := make(RuleList, len(l))
	copy(out, l)
	return out
}
