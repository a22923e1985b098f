// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package llmjson cleans up structured JSON embedded in LLM responses.
//
// Models frequently wrap JSON in markdown code fences or emit small
// formatting defects (missing opening quotes before keys). Sanitize applies
// both fixes so callers can run a strict decode against their expected
// schema and treat any remaining failure as a typed fallback branch.
package llmjson

import "strings"

// Sanitize strips markdown code fences and repairs common JSON defects in
// an LLM response. The result is ready for a strict json.Unmarshal.
func Sanitize(response string) string {
	s := strings.TrimSpace(response)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	return repair(s)
}

// repair fixes the one malformation seen in practice: a key missing its
// opening quote. After a '{' or ',' delimiter, a bare identifier that runs
// straight into `":` is such a key; the quote is reinserted before it.
// Everything else passes through untouched.
func repair(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 16)

	for i := 0; i < len(runes); {
		ch := runes[i]
		b.WriteRune(ch)
		i++
		if ch != '{' && ch != ',' {
			continue
		}

		for i < len(runes) && isSpace(runes[i]) {
			b.WriteRune(runes[i])
			i++
		}

		j := i
		for j < len(runes) && isKeyRune(runes[j]) {
			j++
		}
		if j > i && j+1 < len(runes) && runes[j] == '"' && runes[j+1] == ':' {
			b.WriteRune('"')
		}
		b.WriteString(string(runes[i:j]))
		i = j
	}

	return b.String()
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t'
}

// isKeyRune reports whether the rune can appear in a bare JSON key name.
func isKeyRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}
