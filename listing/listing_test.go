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


package listing_test

import (
	"testing"

	"github.com/reltools/reltools/listing"
	"github.com/reltools/reltools/test"
)

const gasListing = "GAS LISTING source.s \t\t\tpage 1\n" +
	"\n" +
	"\n" +
	"   1              \t__entry:\n" +
	"   2 0000 7C0802A6 \t\tmflr r0\n" +
	"   3              \t# a comment\n" +
	"   4              \tloop:\n" +
	"   5 0004 48000001 \t\tbl 0 #@0\n" +
	"   6 0008 00000001 \t\t.4byte 1, 2, 3\n" +
	"   6      00000002 \n" +
	"   6      00000003 \n" +
	"   7              \t1:\n" +
	"   8 0014 4E800020 \t\tblr\n" +
	"   9              \t__exit:\n" +
	"DEFINED SYMBOLS\n" +
	"            source.s:1      .text:00000000 __entry\n"

func TestParse(t *testing.T) {
	l, err := listing.Parse(gasListing)
	test.DemandSuccess(t, err)

	o, ok := l.Emits(2)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, o, uint32(0))

	o, ok = l.Emits(6)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, o, uint32(8))

	_, ok = l.Emits(4)
	test.ExpectFailure(t, ok)
}

func TestOffsets(t *testing.T) {
	l, err := listing.Parse(gasListing)
	test.DemandSuccess(t, err)

	offsets := l.Offsets(9, 0x18)
	test.ExpectDeepEquality(t, offsets, []uint32{
		0x00, // __entry:
		0x00, // mflr
		0x04, // comment
		0x04, // loop:
		0x04, // bl
		0x08, // .4byte
		0x14, // 1:
		0x14, // blr
		0x18, // __exit:
	})
}

func TestEmpty(t *testing.T) {
	l, err := listing.Parse("")
	test.DemandSuccess(t, err)
	test.ExpectDeepEquality(t, l.Offsets(2, 0), []uint32{0, 0})
}
