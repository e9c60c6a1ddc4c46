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


// Package listing reads the listing file written by the GNU assembler. The
// listing is the only place where the offset of each source line can be
// found.
//
// A listing line that emits code or data looks like this:
//
//	  12 0008 7C0802A6 		mflr r0
//
// The first column is the source line number and the second is the offset of
// the emitted bytes. Lines that don't emit anything have no offset column.
package listing

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"github.com/reltools/reltools/curated"
)

// Sentinal error patterns.
const (
	ListingError = "listing: %v"
)

// line number, offset, and at least one byte of data
var emitting = regexp.MustCompile(`^\s*(\d+)\s+([0-9a-fA-F]{4,8})\s+([0-9a-fA-F]{2,})(\s|$)`)

// Listing is the parsed result of an assembler listing.
type Listing struct {
	// offset of every source line that emits bytes, keyed by line number.
	// line numbers start at one
	emits map[int]uint32
}

// Parse the listing text.
func Parse(text string) (*Listing, error) {
	l := &Listing{
		emits: make(map[int]uint32),
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(nil, 1024*1024)

	for scanner.Scan() {
		m := emitting.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue // for loop
		}

		n, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, curated.Errorf(ListingError, err)
		}
		o, err := strconv.ParseUint(m[2], 16, 32)
		if err != nil {
			return nil, curated.Errorf(ListingError, err)
		}

		// long data is continued over several listing lines with the same
		// line number. the first offset is the one we want
		if _, ok := l.emits[n]; !ok {
			l.emits[n] = uint32(o)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, curated.Errorf(ListingError, err)
	}

	return l, nil
}

// Emits returns the offset of the source line if the line emitted bytes.
func (l *Listing) Emits(line int) (uint32, bool) {
	o, ok := l.emits[line]
	return o, ok
}

// Offsets returns the offset of every source line from one to numLines. The
// offset of line n is at index n-1.
//
// Lines that don't emit anything take the offset of the next line that does.
// Lines after the last emitting line take the end value, which should be the
// size of the assembled code.
func (l *Listing) Offsets(numLines int, end uint32) []uint32 {
	offsets := make([]uint32, numLines)

	next := end
	for n := numLines; n >= 1; n-- {
		if o, ok := l.emits[n]; ok {
			next = o
		}
		offsets[n-1] = next
	}

	return offsets
}
