// Copyright 2015 Google Inc.
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

package yang

// acronyms holds the known initialisms CamelCase upper-cases wholesale
// instead of title-casing, e.g. "ietf-interfaces" -> "IETFInterfaces"
// rather than "IetfInterfaces".
var acronyms = map[string]string{
	"Ietf": "IETF",
}

func isLowerASCII(c byte) bool { return c >= 'a' && c <= 'z' }
func isDigitASCII(c byte) bool { return c >= '0' && c <= '9' }

// normalizeSep maps the YANG identifier separators this package treats as
// word boundaries (dash, dot) onto underscore, the boundary splitWords
// itself looks for.
func normalizeSep(c byte) byte {
	if c == '-' || c == '.' {
		return '_'
	}
	return c
}

// CamelCase returns a CamelCased name for a YANG identifier, suitable for
// use as a Go or proto identifier. Dash and dot are treated as underscore;
// underscores immediately before a lower-case letter are dropped and that
// letter is upper-cased. Bytes outside the YANG identifier grammar
// (https://tools.ietf.org/html/rfc7950#section-6.2) are treated as if
// lower-case. The result always starts with an upper-case letter (or "X"
// if that would otherwise require dropping a leading underscore), so that
// e.g. _my_field-name_2 becomes XMyFieldName_2.
//
// Name collisions this could theoretically introduce (case-folding two
// distinct identifiers onto the same CamelCase spelling) are accepted as
// out of scope, following the same reasoning the Go/C++ protobuf
// generators use for field names.
func CamelCase(s string) string {
	if s == "" {
		return ""
	}

	out := make([]byte, 0, len(s)+1)
	pos := 0
	if normalizeSep(s[0]) == '_' {
		out = append(out, 'X')
		pos++
	}

	for pos < len(s) {
		c := normalizeSep(s[pos])

		// A run of digits is its own word, copied through verbatim.
		if isDigitASCII(c) {
			out = append(out, c)
			pos++
			continue
		}

		// An underscore directly followed by a lower-case letter merely
		// marks where the next word's capital goes; consume it without
		// emitting anything.
		if c == '_' && pos+1 < len(s) && isLowerASCII(s[pos+1]) {
			pos++
			continue
		}

		// Otherwise c begins a new word: title-case it and absorb any
		// lower-case run that follows, then check whether the resulting
		// word is a known acronym that should be upper-cased wholesale.
		wordStart := len(out)
		if isLowerASCII(c) {
			c ^= ' '
		}
		out = append(out, c)
		pos++
		for pos < len(s) && isLowerASCII(s[pos]) {
			out = append(out, s[pos])
			pos++
		}
		if up, ok := acronyms[string(out[wordStart:])]; ok {
			out = append(out[:wordStart], up...)
		}
	}
	return string(out)
}
