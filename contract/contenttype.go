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

import "strings"

// Comparator identifies which body comparator a content type dispatches to.
type Comparator int

const (
	ComparatorPlainText Comparator = iota
	ComparatorJSON
	ComparatorXML
)

// DetectContentType resolves the media type governing a body: the
// Content-Type header's leading media type if present, otherwise a
// byte-sniffed guess from the first 32 bytes of content.
func DetectContentType(headers map[string]string, body []byte) string {
	if ct, ok := lookupHeader(headers, "Content-Type"); ok {
		mediaType := strings.TrimSpace(strings.SplitN(ct, ";", 2)[0])
		if mediaType != "" {
			return mediaType
		}
	}
	return sniffContentType(body)
}

func sniffContentType(body []byte) string {
	n := len(body)
	if n > 32 {
		n = 32
	}
	head := strings.TrimSpace(string(body[:n]))
	lower := strings.ToLower(head)

	switch {
	case strings.HasPrefix(lower, "<?xml"):
		return "application/xml"
	case strings.HasPrefix(lower, "<!doctype"), strings.HasPrefix(lower, "<html>"):
		return "text/html"
	case strings.HasPrefix(head, "<"):
		return "application/xml"
	case looksLikeJSON(head):
		return "application/json"
	default:
		return "text/plain"
	}
}

func looksLikeJSON(head string) bool {
	if head == "" {
		return false
	}
	switch head[0] {
	case '{', '[', '"':
		return true
	}
	for _, token := range []string{"true", "false", "null"} {
		if strings.HasPrefix(head, token) {
			return true
		}
	}
	c := head[0]
	return c == '-' || (c >= '0' && c <= '9')
}

// ComparatorFor maps a detected/declared media type to the comparator that
// should handle the body. Matching requires the "application/" prefix the
// same way the reference implementation's BODY_MATCHERS regexes
// (application/.*json, application/.*xml) do, so text/xml or text/json
// fall through to plain text rather than being treated as structured.
func ComparatorFor(mediaType string) Comparator {
	mt := strings.ToLower(mediaType)
	if !strings.HasPrefix(mt, "application/") {
		return ComparatorPlainText
	}
	switch {
	case strings.Contains(mt, "json"):
		return ComparatorJSON
	case strings.Contains(mt, "xml"):
		return ComparatorXML
	default:
		return ComparatorPlainText
	}
}
