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
	log "github.com/sirupsen/logrus"

	"github.com/cdcmatch/matchcore/pathexpr"
)

// Category names a grouping of rules. Each category maps a path-expression
// string to a RuleList; path uses the empty key (the rule applies to the
// whole path).
type Category string

const (
	CategoryBody   Category = "body"
	CategoryHeader Category = "header"
	CategoryQuery  Category = "query"
	CategoryPath   Category = "path"
)

type bodyEntry struct {
	expr  pathexpr.Expression
	rules RuleList
}

// Rules is the matching-rule store (C2). A category is present in the
// underlying maps only once at least one rule has been added to it; rule
// insertion is append-only and the store is immutable once a match begins.
//
// Unlike the body category, header/query/path expressions are always a
// single literal segment (a header or query-parameter name, or nothing),
// so those three categories are stored as plain exact-match lookups rather
// than run through the weighted path-expression resolver; only the body
// category uses the full C1/C3 machinery. This mirrors the category-specific
// wording of the rule store's contract rather than a single generalized
// path-expression walk for every category.
type Rules struct {
	body   []bodyEntry
	header map[string]RuleList
	query  map[string]RuleList
	path   RuleList
}

// NewRules returns an empty rule store.
func NewRules() *Rules {
	return &Rules{
		header: map[string]RuleList{},
		query:  map[string]RuleList{},
	}
}

// AddBody appends rule to the RuleList stored at the given body path
// expression, written relative to the body root (e.g. "$.alligator.name"
// for the body field alligator.name), parsing it with pathexpr. A
// malformed expression is logged and the rule is dropped — a store that
// never matches is the documented failure mode for a bad expression, not a
// construction-time panic.
func (r *Rules) AddBody(expr string, rule Rule) {
	parsed, err := pathexpr.Parse(expr)
	if err != nil {
		log.WithError(err).WithField("expression", expr).Warn("matching: dropping unparsable body rule path")
		return
	}
	for i := range r.body {
		if r.body[i].expr.String() == expr {
			r.body[i].rules = append(r.body[i].rules, rule)
			return
		}
	}
	r.body = append(r.body, bodyEntry{expr: parsed, rules: RuleList{rule}})
}

// AddHeader appends rule for the given header name (case-insensitive).
func (r *Rules) AddHeader(name string, rule Rule) {
	key := canonicalKey(name)
	r.header[key] = append(r.header[key], rule)
}

// AddQuery appends rule for the given query-parameter name.
func (r *Rules) AddQuery(name string, rule Rule) {
	r.query[name] = append(r.query[name], rule)
}

// AddPath appends rule to the whole-path category.
func (r *Rules) AddPath(rule Rule) {
	r.path = append(r.path, rule)
}

// BodyMatcherIsDefined reports whether any stored body expression yields a
// non-zero weight against segments.
func (r *Rules) BodyMatcherIsDefined(segments []string) bool {
	return len(r.bodyCandidates(segments)) > 0
}

// BodyWildcardMatcherIsDefined reports whether a stored expression targets
// the direct children of segments: it is one token longer than segments,
// its leading tokens match segments, and it ends in Star. Detected by comparing expression length to traversal-path
// length, never by substring matching on the raw text.
func (r *Rules) BodyWildcardMatcherIsDefined(segments []string) bool {
	for _, e := range r.body {
		if e.expr.IsChildWildcard(segments) {
			return true
		}
	}
	return false
}

type bodyCandidate struct {
	weight int
	order  int
	rules  RuleList
}

func (r *Rules) bodyCandidates(segments []string) []bodyCandidate {
	var candidates []bodyCandidate
	for i, e := range r.body {
		w := e.expr.Weight(segments)
		if w > 0 {
			candidates = append(candidates, bodyCandidate{weight: w, order: i, rules: e.rules})
		}
	}
	return candidates
}

// BodyResolveBest returns the RuleList of the stored expression with the
// highest weight against segments, ties broken by insertion order. Returns
// nil if no expression applies.
func (r *Rules) BodyResolveBest(segments []string) RuleList {
	candidates := r.bodyCandidates(segments)
	if len(candidates) == 0 {
		return nil
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.weight > best.weight {
			best = c
		}
	}
	return best.rules
}

func canonicalKey(name string) string {
	// Header names fold case-insensitively; query-parameter names and body
	// fields do not, so only header lookups go through this helper.
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// HeaderMatcherIsDefined reports whether a rule is stored for the given
// header name.
func (r *Rules) HeaderMatcherIsDefined(name string) bool {
	_, ok := r.header[canonicalKey(name)]
	return ok
}

// HeaderResolveBest returns the RuleList for the given header name, or nil.
func (r *Rules) HeaderResolveBest(name string) RuleList {
	return r.header[canonicalKey(name)]
}

// QueryMatcherIsDefined reports whether a rule is stored for the given
// query-parameter name.
func (r *Rules) QueryMatcherIsDefined(name string) bool {
	_, ok := r.query[name]
	return ok
}

// QueryResolveBest returns the RuleList for the given query-parameter name,
// or nil.
func (r *Rules) QueryResolveBest(name string) RuleList {
	return r.query[name]
}

// PathMatcherIsDefined reports whether a whole-path rule is stored.
func (r *Rules) PathMatcherIsDefined() bool {
	return len(r.path) > 0
}

// PathResolveBest returns the whole-path RuleList, or nil.
func (r *Rules) PathResolveBest() RuleList {
	return r.path
}
