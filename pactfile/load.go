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

// Package pactfile loads the on-disk contract-file format (consumer,
// provider, interaction list, matching rules) into the Request/Response
// values the matching core consumes. It is a CLI-only collaborator: the
// matching and contract packages never import it, keeping "the core
// consumes already-parsed values" intact.
package pactfile

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/cdcmatch/matchcore/contract"
	"github.com/cdcmatch/matchcore/matching"
)

// Party is a consumer or provider identity.
type Party struct {
	Name string `json:"name"`
}

// RawRequest is the on-disk shape of an interaction's request half.
type RawRequest struct {
	Method        string                     `json:"method"`
	Path          string                     `json:"path"`
	Query         string                     `json:"query"`
	Headers       map[string]string          `json:"headers"`
	Body          json.RawMessage            `json:"body"`
	MatchingRules map[string]json.RawMessage `json:"matchingRules"`
}

// RawResponse is the on-disk shape of an interaction's response half.
type RawResponse struct {
	Status        uint16                     `json:"status"`
	Headers       map[string]string          `json:"headers"`
	Body          json.RawMessage            `json:"body"`
	MatchingRules map[string]json.RawMessage `json:"matchingRules"`
}

// Interaction is one request/response pair in a contract document.
type Interaction struct {
	Description   string      `json:"description"`
	ProviderState string      `json:"providerState"`
	Request       RawRequest  `json:"request"`
	Response      RawResponse `json:"response"`
}

// Document is a whole contract file: consumer/provider identity plus the
// interactions they agreed on.
type Document struct {
	Consumer     Party                  `json:"consumer"`
	Provider     Party                  `json:"provider"`
	Interactions []Interaction          `json:"interactions"`
	Metadata     map[string]interface{} `json:"metadata"`
}

// Load parses a contract-file document.
func Load(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("pactfile: %w", err)
	}
	return &doc, nil
}

// ToContract converts the on-disk request into the value the matching core
// consumes.
func (r RawRequest) ToContract() (contract.Request, error) {
	query, err := url.ParseQuery(r.Query)
	if err != nil {
		return contract.Request{}, fmt.Errorf("pactfile: invalid query %q: %w", r.Query, err)
	}
	rules, err := buildRules(r.MatchingRules)
	if err != nil {
		return contract.Request{}, err
	}
	body, err := decodeBody(r.Body, r.Headers)
	if err != nil {
		return contract.Request{}, err
	}
	return contract.Request{
		Method:  r.Method,
		Path:    r.Path,
		Query:   map[string][]string(query),
		Headers: r.Headers,
		Body:    body,
		Rules:   rules,
	}, nil
}

// ToContract converts the on-disk response into the value the matching
// core consumes.
func (r RawResponse) ToContract() (contract.Response, error) {
	rules, err := buildRules(r.MatchingRules)
	if err != nil {
		return contract.Response{}, err
	}
	body, err := decodeBody(r.Body, r.Headers)
	if err != nil {
		return contract.Response{}, err
	}
	return contract.Response{
		Status:  r.Status,
		Headers: r.Headers,
		Body:    body,
		Rules:   rules,
	}, nil
}

func looksJSONContentType(headers map[string]string) bool {
	for k, v := range headers {
		if strings.EqualFold(k, "Content-Type") {
			return strings.Contains(strings.ToLower(v), "json")
		}
	}
	return false
}

// decodeBody maps the on-disk body encoding to an OptionalBody: an absent
// JSON field (zero-length raw) is Missing, a literal "null" is Null, a
// literal "" is Empty. A JSON string under a JSON content type is re-parsed
// as JSON unless that fails, in which case it is kept as the literal
// string value.
func decodeBody(raw json.RawMessage, headers map[string]string) (contract.OptionalBody, error) {
	if len(raw) == 0 {
		return contract.MissingBody(), nil
	}
	trimmed := strings.TrimSpace(string(raw))
	switch trimmed {
	case "null":
		return contract.NullBody(), nil
	case `""`:
		return contract.EmptyBody(), nil
	}

	if trimmed[0] == '"' && looksJSONContentType(headers) {
		var inner string
		if err := json.Unmarshal(raw, &inner); err == nil && json.Valid([]byte(inner)) {
			return contract.PresentBody([]byte(inner)), nil
		}
	}
	return contract.PresentBody(raw), nil
}

// splitRuleKey maps a matchingRules flat-map key ("$.body.a.b",
// "$.headers.Content-Type", "$.query.page", "$.path") to the category it
// belongs to and, for body rules, the path expression relative to the
// body root (the category already encodes "body", so the stored
// expression drops the redundant ".body" segment and starts again at "$").
func splitRuleKey(key string) (matching.Category, string, error) {
	switch {
	case key == "$.path":
		return matching.CategoryPath, "", nil
	case key == "$.body" || strings.HasPrefix(key, "$.body."):
		return matching.CategoryBody, "$" + strings.TrimPrefix(key, "$.body"), nil
	case strings.HasPrefix(key, "$.headers."):
		return matching.CategoryHeader, strings.TrimPrefix(key, "$.headers."), nil
	case strings.HasPrefix(key, "$.query."):
		return matching.CategoryQuery, strings.TrimPrefix(key, "$.query."), nil
	default:
		return "", "", fmt.Errorf("pactfile: unrecognized matchingRules key %q", key)
	}
}

func buildRules(flat map[string]json.RawMessage) (*matching.Rules, error) {
	rules := matching.NewRules()
	for key, raw := range flat {
		category, expr, err := splitRuleKey(key)
		if err != nil {
			return nil, err
		}
		rule, err := parseRuleDescriptor(raw)
		if err != nil {
			return nil, fmt.Errorf("pactfile: rule %q: %w", key, err)
		}
		switch category {
		case matching.CategoryBody:
			rules.AddBody(expr, rule)
		case matching.CategoryHeader:
			rules.AddHeader(expr, rule)
		case matching.CategoryQuery:
			rules.AddQuery(expr, rule)
		case matching.CategoryPath:
			rules.AddPath(rule)
		}
	}
	return rules, nil
}

// parseRuleDescriptor disambiguates a rule descriptor object by pulling
// only the fields it needs with gjson rather than decoding the whole
// object into a struct, since the descriptor's shape depends on which
// tag is present.
func parseRuleDescriptor(raw json.RawMessage) (matching.Rule, error) {
	result := gjson.ParseBytes(raw)

	tag := result.Get("match").String()
	hasMin := result.Get("min").Exists()
	hasMax := result.Get("max").Exists()

	if tag == "" {
		switch {
		case result.Get("regex").Exists():
			tag = "regex"
		case result.Get("timestamp").Exists():
			tag = "timestamp"
		case result.Get("date").Exists():
			tag = "date"
		case result.Get("time").Exists():
			tag = "time"
		case hasMin || hasMax:
			tag = "type"
		default:
			tag = "equality"
		}
	}

	switch tag {
	case "equality":
		return matching.Rule{Kind: matching.Equality}, nil
	case "regex":
		return matching.Rule{Kind: matching.Regex, Pattern: result.Get("regex").String()}, nil
	case "include":
		return matching.Rule{Kind: matching.Include, Substring: result.Get("value").String()}, nil
	case "number":
		return matching.Rule{Kind: matching.Number}, nil
	case "integer":
		return matching.Rule{Kind: matching.Integer}, nil
	case "decimal", "real":
		return matching.Rule{Kind: matching.Decimal}, nil
	case "timestamp":
		return matching.Rule{Kind: matching.Timestamp, Format: result.Get("timestamp").String()}, nil
	case "date":
		return matching.Rule{Kind: matching.Date, Format: result.Get("date").String()}, nil
	case "time":
		return matching.Rule{Kind: matching.Time, Format: result.Get("time").String()}, nil
	case "min":
		return matching.Rule{Kind: matching.MinType, Min: int(result.Get("min").Int())}, nil
	case "max":
		return matching.Rule{Kind: matching.MaxType, Max: int(result.Get("max").Int())}, nil
	case "type":
		switch {
		case hasMin && hasMax:
			return matching.Rule{Kind: matching.MinMaxType, Min: int(result.Get("min").Int()), Max: int(result.Get("max").Int())}, nil
		case hasMin:
			return matching.Rule{Kind: matching.MinType, Min: int(result.Get("min").Int())}, nil
		case hasMax:
			return matching.Rule{Kind: matching.MaxType, Max: int(result.Get("max").Int())}, nil
		default:
			return matching.Rule{Kind: matching.Type}, nil
		}
	default:
		return matching.Rule{}, fmt.Errorf("unknown matcher tag %q", tag)
	}
}
