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

// Package contract holds the HTTP-shaped data model (Request, Response,
// OptionalBody) and the part comparators, content-type detection, and
// public entry points that drive the body comparators in matching/jsonbody
// and matching/xmlbody.
package contract

import "github.com/cdcmatch/matchcore/matching"

// BodyState identifies which of the four OptionalBody states a body is in.
type BodyState int

const (
	// BodyMissing means no body field was given at all.
	BodyMissing BodyState = iota
	// BodyNull means the body field was present and explicitly null.
	BodyNull
	// BodyEmptyState means the body field was present with zero-length content.
	BodyEmptyState
	// BodyPresent means the body field carries content.
	BodyPresent
)

// OptionalBody is a four-state tagged variant over a request/response body.
// The distinction matters during matching: Missing on the expected side
// never fails; Null/Empty on the expected side fails if actual has content.
type OptionalBody struct {
	State BodyState
	Bytes []byte
}

// MissingBody constructs the Missing state.
func MissingBody() OptionalBody { return OptionalBody{State: BodyMissing} }

// NullBody constructs the Null state.
func NullBody() OptionalBody { return OptionalBody{State: BodyNull} }

// EmptyBody constructs the Empty state.
func EmptyBody() OptionalBody { return OptionalBody{State: BodyEmptyState} }

// PresentBody constructs the Present state carrying b.
func PresentBody(b []byte) OptionalBody { return OptionalBody{State: BodyPresent, Bytes: b} }

// HasContent reports whether this body carries actual bytes.
func (b OptionalBody) HasContent() bool {
	return b.State == BodyPresent && len(b.Bytes) > 0
}

// Request is the expected or actual half of an HTTP request interaction.
type Request struct {
	Method  string
	Path    string
	Query   map[string][]string
	Headers map[string]string
	Body    OptionalBody
	Rules   *matching.Rules
}

// Response is the expected or actual half of an HTTP response interaction.
type Response struct {
	Status  uint16
	Headers map[string]string
	Body    OptionalBody
	Rules   *matching.Rules
}

// rulesOf returns rules, or an empty store if rules is nil, so callers
// never need a nil check before consulting the store.
func rulesOf(rules *matching.Rules) *matching.Rules {
	if rules == nil {
		return matching.NewRules()
	}
	return rules
}
