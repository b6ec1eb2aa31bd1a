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

// DiffConfig governs cardinality strictness for maps and XML attributes.
// AllowUnexpectedKeys tolerates extra keys/attributes on the actual side
// (Postel's law; the default for responses). NoUnexpectedKeys requires
// exact cardinality (requests). Lists and XML child lists always check
// length regardless of DiffConfig, unless a rule overrides it.
type DiffConfig int

const (
	AllowUnexpectedKeys DiffConfig = iota
	NoUnexpectedKeys
)
