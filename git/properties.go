// Copyright (C) 2026  QuitStore Contributors.
//
// This program is free software: you can Use, Study, Modify and Redistribute
// it under the terms of the GNU Affero General Public License version 3, or
// (at your option) any later version, as published by the Free Software
// Foundation.
//
// This program is distributed WITHOUT ANY WARRANTY; without even the implied
// warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//
// See COPYING file for full licensing terms.

package git

import (
	"regexp"
	"strings"
)

// propertyLineRE matches one "key: value" or "key: 'quoted'" property line
// anchored at the start of the string it is applied to. The caller re-roots
// it against the remaining message on every iteration (see extractProperties)
// rather than relying on Go's multiline ^ anchor, since parsing stops
// greedily from the start at the first non-matching line: that rule is about
// position in the residual message, not about matching anywhere in it.
var propertyLineRE = regexp.MustCompile(
	`(?s)^(?P<key>[A-Za-z0-9_]+)[ \t]*:[ \t]*(?:(?P<value>[A-Za-z0-9_]+)|(?P<quoted>"[^"]*"|'[^']*'))[ \t]*(?:\r?\n|$)`,
)

var (
	idxKey    = propertyLineRE.SubexpIndex("key")
	idxValue  = propertyLineRE.SubexpIndex("value")
	idxQuoted = propertyLineRE.SubexpIndex("quoted")
)

// extractProperties lifts the leading "key: value" property block out of a
// raw commit message, per spec.md §3 and §4.B. Matching stops at the first
// line that does not conform to the property grammar; everything from that
// line onward (trimmed of surrounding whitespace) is the returned message.
func extractProperties(raw string) (map[string]string, string) {
	props := map[string]string{}
	rest := raw

	for {
		m := propertyLineRE.FindStringSubmatchIndex(rest)
		if m == nil {
			break
		}

		key := rest[m[2*idxKey]:m[2*idxKey+1]]

		var value string
		if m[2*idxValue] >= 0 {
			value = rest[m[2*idxValue]:m[2*idxValue+1]]
		} else if m[2*idxQuoted] >= 0 {
			quoted := rest[m[2*idxQuoted]:m[2*idxQuoted+1]]
			value = quoted[1 : len(quoted)-1]
		} else {
			break
		}

		props[key] = value
		rest = rest[m[1]:]
	}

	return props, strings.TrimSpace(rest)
}
