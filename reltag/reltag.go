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

package reltag

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/reltools/reltools/curated"
	"github.com/reltools/reltools/rel"
	"github.com/reltools/reltools/symbols"
)

// Sentinal error patterns.
const (
	MalformedTag     = "reltag: malformed tag: %s"
	UnresolvedSymbol = "reltag: unresolved symbol: %s"
	ExpressionError  = "reltag: expression: %s: %v"
)

// Tag is a relocation tag. It describes a relocation of the word on the
// assembly line it is attached to.
type Tag struct {
	Type    rel.Type
	Module  uint32
	Section int
	Label   string

	// optional arithmetic adjustment of the resolved label. for example, "+ 4"
	Expression string
}

// the expression is everything between the label and the closing bracket.
// an optional comma separating the label and the expression is allowed
var tagPattern = regexp.MustCompile(`^\[\s*(\w+)\s*\(\s*("[^"]*"|\w+)\s*,\s*(\d+)\s*,\s*"?(\w+)"?\s*,?\s*(.*?)\s*\)\s*\]$`)

// anything at the end of a line that looks like it was meant to be a tag
var likelyPattern = regexp.MustCompile(`\[\s*\w+\s*\(.*\)\s*\]\s*$`)

// Locate returns the position of text that looks like a relocation tag at the
// end of the line. Returns -1 if there is no such text. The text found is not
// guaranteed to be a well formed tag.
func Locate(line string) int {
	loc := likelyPattern.FindStringIndex(line)
	if loc == nil {
		return -1
	}

	// the pattern is greedy on the left so find the first opening bracket
	// that begins a tag-like suffix
	for i := loc[0]; i < len(line); i++ {
		if line[i] == '[' && likelyPattern.MatchString(line[i:]) {
			loc[0] = i
		}
	}

	return loc[0]
}

// Parse the text as a relocation tag. A module name in double quotes is
// resolved to a module ID with the symbol map, which can be nil.
//
// Failure is a MalformedTag error. Use TryParse() if the text might not be a
// tag.
func Parse(text string, m *symbols.Map) (Tag, error) {
	var t Tag

	s := strings.TrimSpace(text)
	match := tagPattern.FindStringSubmatch(s)
	if match == nil {
		return t, curated.Errorf(MalformedTag, s)
	}

	var ok bool
	t.Type, ok = rel.ParseType(match[1])
	if !ok || t.Type.IsControl() {
		return t, curated.Errorf(MalformedTag, curated.Errorf("%s: unknown relocation type", s))
	}

	if name, quoted := unquote(match[2]); quoted {
		if m == nil {
			return t, curated.Errorf(MalformedTag, curated.Errorf("%s: no symbol map for module name", s))
		}
		t.Module, ok = m.ModuleID(name)
		if !ok {
			return t, curated.Errorf(MalformedTag, curated.Errorf("%s: unknown module %s", s, name))
		}
	} else {
		id, err := strconv.ParseUint(match[2], 0, 32)
		if err != nil {
			return t, curated.Errorf(MalformedTag, curated.Errorf("%s: module: %v", s, err))
		}
		t.Module = uint32(id)
	}

	sec, err := strconv.Atoi(match[3])
	if err != nil {
		return t, curated.Errorf(MalformedTag, curated.Errorf("%s: section: %v", s, err))
	}
	t.Section = sec

	t.Label = match[4]
	if symbols.IsAnchor(t.Label) {
		return t, curated.Errorf(MalformedTag, curated.Errorf("%s: anchors cannot be relocation targets", s))
	}

	t.Expression = match[5]

	return t, nil
}

// TryParse is the same as Parse() except that failure is indicated by the
// boolean return value.
func TryParse(text string, m *symbols.Map) (Tag, bool) {
	t, err := Parse(text, m)
	return t, err == nil
}

func unquote(s string) (string, bool) {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1], true
	}
	return s, false
}

// Format returns the tag in its canonical textual form. If the symbol map
// knows the name of the target module then the name is used in place of the
// module ID. The symbol map can be nil.
func (t Tag) Format(m *symbols.Map) string {
	module := strconv.FormatUint(uint64(t.Module), 10)
	if name, ok := m.ModuleName(t.Module); ok && name != "" {
		module = strconv.Quote(name)
	}

	expr := ""
	if t.Expression != "" {
		expr = " " + t.Expression
	}

	return fmt.Sprintf(`[%s(%s, %d, "%s"%s)]`, t.Type, module, t.Section, t.Label, expr)
}

func (t Tag) String() string {
	return t.Format(nil)
}

// Labels is a table of labels defined by a module being built. Labels are
// looked up by their mangled name.
type Labels interface {
	Lookup(mangled string) (uint32, bool)
}

// prefix of labels that name an offset directly
const locPrefix = "loc_"

// LocLabel returns the synthetic label for an offset.
func LocLabel(offset uint32) string {
	return fmt.Sprintf("%s%X", locPrefix, offset)
}

// ParseLocLabel returns the offset named by a synthetic label.
func ParseLocLabel(label string) (uint32, bool) {
	s, ok := strings.CutPrefix(label, locPrefix)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

// Resolve the tag to the offset of its target. The offset is found in order
// of preference:
//
//  1. the table of local labels
//  2. the symbol map
//  3. a synthetic loc_ label
//
// The local labels and the symbol map can both be nil. If the tag has an
// expression it is applied to the offset.
func (t Tag) Resolve(labels Labels, m *symbols.Map) (uint32, error) {
	base, ok := t.base(labels, m)
	if !ok {
		return 0, curated.Errorf(UnresolvedSymbol, t.Format(m))
	}
	return Evaluate(base, t.Expression)
}

func (t Tag) base(labels Labels, m *symbols.Map) (uint32, bool) {
	if labels != nil {
		if o, ok := labels.Lookup(symbols.Mangle(t.Module, t.Section, t.Label)); ok {
			return o, true
		}
	}

	if sym, ok := m.GetSymbolByName(t.Module, t.Section, t.Label); ok {
		return sym.Offset, true
	}

	return ParseLocLabel(t.Label)
}
