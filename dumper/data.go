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


package dumper

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/reltools/reltools/rel"
)

// the fewest characters that will be considered to be a string
const minStringLength = 4

// limits for float detection. values outside these limits are more likely
// to be integers or addresses
const (
	maxFloat = 10000000.0
	minFloat = 0.0000001
)

func isText(c byte) bool {
	return (c >= 0x20 && c < 0x7f) || c == '\t' || c == '\n' || c == '\r'
}

// detectString looks for a null terminated string starting at the word. it
// returns the directive, the number of words consumed and whether the string
// must be followed by an alignment directive.
//
// a string is never allowed to consume a word that has a relocation or, other
// than the first word, a word with a label.
func (d *Dumper) detectString(s *rel.Section, data []byte, index int) (string, int, bool) {
	start := index * 4
	end := start
	for end < len(data) && data[end] != 0x00 {
		if !isText(data[end]) {
			return "", 0, false
		}
		end++
	}

	// no terminator
	if end >= len(data) {
		return "", 0, false
	}

	if end-start < minStringLength {
		return "", 0, false
	}

	// include the terminator
	size := end - start + 1
	words := (size + 3) / 4

	for i := index; i < index+words; i++ {
		if _, ok := s.Relocations.Command(i); ok {
			return "", 0, false
		}
		if i > index && d.hasLabel(s, i) {
			return "", 0, false
		}
	}

	// the padding after the string must be zero for the rebuilt section to
	// be identical
	for _, c := range data[end:min(index*4+words*4, len(data))] {
		if c != 0x00 {
			return "", 0, false
		}
	}

	return fmt.Sprintf("    .asciz \"%s\"", escape(data[start:end])), words, size%4 != 0
}

func escape(b []byte) string {
	var s strings.Builder
	for _, c := range b {
		switch c {
		case '"':
			s.WriteString(`\"`)
		case '\\':
			s.WriteString(`\\`)
		case '\t':
			s.WriteString(`\t`)
		case '\n':
			s.WriteString(`\n`)
		case '\r':
			s.WriteString(`\r`)
		default:
			s.WriteByte(c)
		}
	}
	return s.String()
}

// detectFloat returns a .float directive if the word looks like a single
// precision float.
func (d *Dumper) detectFloat(s *rel.Section, data []byte, index int) string {
	if _, ok := s.Relocations.Command(index); ok {
		return ""
	}

	o := index * 4
	if o+4 > len(data) {
		return ""
	}

	// no plausible float has a zero in the top four bits
	if data[o]>>4 == 0 {
		return ""
	}

	f := math.Float32frombits(binary.BigEndian.Uint32(data[o:]))
	a := math.Abs(float64(f))
	if f == 0 || math.IsNaN(a) || a >= maxFloat || a < minFloat {
		return ""
	}

	return fmt.Sprintf("    .float %s", strconv.FormatFloat(float64(f), 'g', -1, 32))
}
