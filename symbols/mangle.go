// This file is part of reltools.
//
// reltools is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// reltools is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with reltools.  If not, see <https://www.gnu.org/licenses/>.

package symbols

import (
	"fmt"
	"strconv"
	"strings"
)

// The module-wide anchor labels. They are never mangled and cannot be
// addressed by a relocation tag.
const (
	Entry      = "__entry"
	Exit       = "__exit"
	Unresolved = "__unresolved"
)

// IsAnchor returns true if the label is one of the module-wide anchors.
func IsAnchor(label string) bool {
	switch label {
	case Entry, Exit, Unresolved:
		return true
	}
	return false
}

// prefix of every mangled label
const manglePrefix = "__"

// Mangle encodes the module ID, section ID and label into a single label. Each
// part is preceeded by its decimal length so that the result can be decoded
// without ambiguity:
//
//	__M<len><module>S<len><section>L<len><label>
//
// For example, label "loop" in section 1 of module 27:
//
//	__M227S11L4loop
//
// Anchor labels are returned unchanged.
func Mangle(module uint32, section int, label string) string {
	if IsAnchor(label) {
		return label
	}
	m := strconv.FormatUint(uint64(module), 10)
	s := strconv.Itoa(section)
	return fmt.Sprintf("%sM%d%sS%d%sL%d%s", manglePrefix, len(m), m, len(s), s, len(label), label)
}

// Mangled is a decoded mangled label.
type Mangled struct {
	Module  uint32
	Section int
	Label   string
}

// Demangle returns the raw label from a mangled label. A label that isn't
// mangled is returned unchanged.
func Demangle(label string) string {
	if m, ok := ParseMangled(label); ok {
		return m.Label
	}
	return label
}

// ParseMangled decodes a mangled label. Returns false if the label is not a
// well formed mangled label.
func ParseMangled(label string) (Mangled, bool) {
	var m Mangled

	s, ok := strings.CutPrefix(label, manglePrefix)
	if !ok {
		return m, false
	}

	module, s, ok := segment(s, 'M', 'S')
	if !ok {
		return m, false
	}
	section, s, ok := segment(s, 'S', 'L')
	if !ok {
		return m, false
	}
	raw, _, ok := segment(s, 'L', 0)
	if !ok {
		return m, false
	}

	mod, err := strconv.ParseUint(module, 10, 32)
	if err != nil {
		return m, false
	}
	sec, err := strconv.Atoi(section)
	if err != nil {
		return m, false
	}

	m.Module = uint32(mod)
	m.Section = sec
	m.Label = raw
	return m, true
}

// segment decodes one length-prefixed segment of a mangled label. the segment
// must start with the marker byte and be followed by the next byte, or by the
// end of the string if next is zero.
//
// the length prefix can have more than one digit and the value itself can
// begin with digits. each possible split of the leading digits is tried until
// one of them is followed by the expected next byte.
func segment(s string, marker byte, next byte) (string, string, bool) {
	if len(s) == 0 || s[0] != marker {
		return "", "", false
	}
	s = s[1:]

	for i := 1; i <= len(s) && s[i-1] >= '0' && s[i-1] <= '9'; i++ {
		n, err := strconv.Atoi(s[:i])
		if err != nil {
			return "", "", false
		}

		end := i + n
		if end > len(s) {
			continue // for loop
		}

		if next == 0 {
			if end == len(s) {
				return s[i:end], "", true
			}
			continue // for loop
		}

		if end < len(s) && s[end] == next {
			return s[i:end], s[end:], true
		}
	}

	return "", "", false
}
