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

// Package xmlbody implements the recursive XML element-tree comparator,
// guided by a matching.Rules store through matching.Matches.
package xmlbody

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/cdcmatch/matchcore/matching"
)

// Element is an ordered XML element: attributes as a map keyed by local
// name, children in document order, and the concatenation of this
// element's own direct text content (descendant element text is not
// included, matching the "direct text children only" comparison rule).
type Element struct {
	Name     string
	Attrs    map[string]string
	Children []*Element
	Text     string
}

// Parse builds an Element tree from an XML document using the standard
// library's token-stream decoder — no ecosystem XML-to-map library in the
// observed corpus preserves element ordering and the attribute/child/text
// distinction this comparator depends on.
func Parse(data []byte) (*Element, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var root *Element
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name.Local, Attrs: map[string]string{}}
			for _, attr := range t.Attr {
				el.Attrs[attr.Name.Local] = attr.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			} else {
				root = el
			}
			stack = append(stack, el)
		case xml.CharData:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.Text += string(t)
			}
		case xml.EndElement:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.Text = strings.TrimSpace(top.Text)
				stack = stack[:len(stack)-1]
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("xmlbody: document has no root element")
	}
	return root, nil
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

// Compare recursively compares two element trees. path is the traversal
// path of the slot the root element occupies (typically ["$"]); the
// element's own local name is appended before attribute/child/text
// comparison, per the element-path convention ($.foo.@attr, $.foo.0,
// $.foo.#text).
func Compare(path []string, e, a *Element, mode matching.DiffConfig, rules *matching.Rules) []matching.Mismatch {
	identityMismatches, ok := compareIdentity(path, e, a, rules)
	if !ok {
		return identityMismatches
	}

	elemPath := childPath(path, a.Name)
	var out []matching.Mismatch
	out = append(out, compareAttributes(elemPath, e.Attrs, a.Attrs, mode, rules)...)
	out = append(out, compareChildren(elemPath, e.Children, a.Children, mode, rules)...)
	out = append(out, compareText(elemPath, e.Text, a.Text, rules)...)
	return out
}

func compareIdentity(path []string, e, a *Element, rules *matching.Rules) ([]matching.Mismatch, bool) {
	if rules.BodyMatcherIsDefined(path) {
		var out []matching.Mismatch
		for _, r := range rules.BodyResolveBest(path) {
			switch r.Kind {
			case matching.Type:
				// Type at an element's own slot checks name equality, not
				// generic scalar type-matching (which would always pass
				// for two strings).
				if e.Name != a.Name {
					out = append(out, matching.NewBodyMismatch(dottedPath(path), e.Name, a.Name,
						fmt.Sprintf("Expected '%s' to be the same type as '%s'", e.Name, a.Name)))
				}
			case matching.MinType, matching.MaxType, matching.MinMaxType:
				// Min/Max at an element's own slot bound its child count,
				// not a string length.
				if ok, msg := matchChildCount(r, a); !ok {
					out = append(out, matching.NewBodyMismatch(dottedPath(path), e.Name, a.Name, msg))
				}
			default:
				if ok, msg := matching.Matches(r, matching.StringValue(e.Name), matching.StringValue(a.Name)); !ok {
					out = append(out, matching.NewBodyMismatch(dottedPath(path), e.Name, a.Name, msg))
				}
			}
		}
		return out, len(out) == 0
	}
	if e.Name != a.Name {
		return []matching.Mismatch{matching.NewBodyMismatch(dottedPath(path), e.Name, a.Name,
			fmt.Sprintf("Expected '%s' to be equal to '%s'", e.Name, a.Name))}, false
	}
	return nil, true
}

// matchChildCount applies a MinType/MaxType/MinMaxType rule's bound(s) to
// the actual element's child count, the XML analogue of a JSON array's
// length check at that path.
func matchChildCount(rule matching.Rule, a *Element) (bool, string) {
	n := len(a.Children)
	switch rule.Kind {
	case matching.MinType:
		if n < rule.Min {
			return false, fmt.Sprintf("Expected '%s' to have at least %d item(s)", childrenText(a.Children), rule.Min)
		}
	case matching.MaxType:
		if n > rule.Max {
			return false, fmt.Sprintf("Expected '%s' to have at most %d item(s)", childrenText(a.Children), rule.Max)
		}
	case matching.MinMaxType:
		if n < rule.Min {
			return false, fmt.Sprintf("Expected '%s' to have at least %d item(s)", childrenText(a.Children), rule.Min)
		}
		if n > rule.Max {
			return false, fmt.Sprintf("Expected '%s' to have at most %d item(s)", childrenText(a.Children), rule.Max)
		}
	}
	return true, ""
}

func sortedStringKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func attrsText(m map[string]string) string {
	parts := make([]string, 0, len(m))
	for _, k := range sortedStringKeys(m) {
		parts = append(parts, fmt.Sprintf("%s=%s", k, m[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func compareAttributes(path []string, e, a map[string]string, mode matching.DiffConfig, rules *matching.Rules) []matching.Mismatch {
	dotted := dottedPath(path)
	var out []matching.Mismatch

	if len(e) == 0 && len(a) != 0 {
		return append(out, matching.NewBodyMismatch(dotted, "{}", attrsText(a),
			fmt.Sprintf("Expected an empty Map but received %s", attrsText(a))))
	}
	if mode == matching.AllowUnexpectedKeys && len(e) > len(a) {
		out = append(out, matching.NewBodyMismatch(dotted, attrsText(e), attrsText(a),
			fmt.Sprintf("Expected a Map with at least %d elements but received %d elements", len(e), len(a))))
	}
	if mode == matching.NoUnexpectedKeys && len(e) != len(a) {
		out = append(out, matching.NewBodyMismatch(dotted, attrsText(e), attrsText(a),
			fmt.Sprintf("Expected a Map with %d elements but received %d elements", len(e), len(a))))
	}

	for _, k := range sortedStringKeys(e) {
		attrPath := dottedPath(childPath(path, "@"+k))
		if av, ok := a[k]; ok {
			ev := e[k]
			if rules.BodyMatcherIsDefined(childPath(path, "@"+k)) {
				for _, r := range rules.BodyResolveBest(childPath(path, "@"+k)) {
					if ok, msg := matching.Matches(r, matching.StringValue(ev), matching.StringValue(av)); !ok {
						out = append(out, matching.NewBodyMismatch(attrPath, ev, av, msg))
					}
				}
			} else if ok, msg := matching.Matches(matching.Rule{Kind: matching.Equality}, matching.StringValue(ev), matching.StringValue(av)); !ok {
				out = append(out, matching.NewBodyMismatch(attrPath, ev, av, msg))
			}
		} else {
			out = append(out, matching.NewBodyMismatch(dotted, e[k], "",
				fmt.Sprintf("Expected attribute '%s'='%s' but was missing", k, e[k])))
		}
	}
	return out
}

func childrenText(children []*Element) string {
	names := make([]string, len(children))
	for i, c := range children {
		names[i] = c.Name
	}
	return "[" + strings.Join(names, ", ") + "]"
}

func padExemplar(e []*Element, n int) []*Element {
	out := make([]*Element, n)
	for i := range out {
		out[i] = e[0]
	}
	return out
}

func compareChildren(path []string, e, a []*Element, mode matching.DiffConfig, rules *matching.Rules) []matching.Mismatch {
	dotted := dottedPath(path)
	var out []matching.Mismatch

	working := e
	if rules.BodyMatcherIsDefined(path) {
		if len(e) > 0 {
			working = padExemplar(e, len(a))
		}
	} else {
		if len(e) == 0 && len(a) != 0 {
			out = append(out, matching.NewBodyMismatch(dotted, "[]", childrenText(a),
				fmt.Sprintf("Expected an empty List but received %s", childrenText(a))))
		} else if len(e) != len(a) {
			out = append(out, matching.NewBodyMismatch(dotted, childrenText(e), childrenText(a),
				fmt.Sprintf("Expected a List with %d elements but received %d elements", len(e), len(a))))
		}
	}

	for i := range working {
		cp := childPath(path, strconv.Itoa(i))
		if i < len(a) {
			out = append(out, Compare(cp, working[i], a[i], mode, rules)...)
		} else if !rules.BodyMatcherIsDefined(cp) {
			out = append(out, matching.NewBodyMismatch(dottedPath(cp), working[i].Name, "",
				fmt.Sprintf("Expected %s but was missing", working[i].Name)))
		}
	}
	return out
}

func compareText(path []string, e, a string, rules *matching.Rules) []matching.Mismatch {
	textPath := childPath(path, "#text")
	dotted := dottedPath(textPath)

	if rules.BodyMatcherIsDefined(textPath) {
		var out []matching.Mismatch
		for _, r := range rules.BodyResolveBest(textPath) {
			if ok, msg := matching.Matches(r, matching.StringValue(e), matching.StringValue(a)); !ok {
				out = append(out, matching.NewBodyMismatch(dotted, e, a, msg))
			}
		}
		return out
	}
	if ok, msg := matching.Matches(matching.Rule{Kind: matching.Equality}, matching.StringValue(e), matching.StringValue(a)); !ok {
		return []matching.Mismatch{matching.NewBodyMismatch(dotted, e, a, msg)}
	}
	return nil
}
