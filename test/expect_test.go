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

package test_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/reltools/reltools/test"
)

func TestExpectFailure(t *testing.T) {
	test.ExpectFailure(t, false)
	test.ExpectFailure(t, errors.New("test"))
}

func TestExpectSuccess(t *testing.T) {
	test.ExpectSuccess(t, true)
	var err error
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, nil)
}

func TestExpectEquality(t *testing.T) {
	test.ExpectEquality(t, 10, 5+5)
	test.ExpectEquality(t, true, !false)
	test.ExpectEquality(t, uint32(0x80), 0x40*2)
}

func TestExpectInequality(t *testing.T) {
	test.ExpectInequality(t, 11, 5+5)
	test.ExpectInequality(t, "loc_10", "loc_20")
}

func TestExpectDeepEquality(t *testing.T) {
	type entry struct {
		Offset uint32
		Names  []string
	}
	a := []entry{{Offset: 4, Names: []string{"a", "b"}}}
	b := []entry{{Offset: 4, Names: []string{"a", "b"}}}
	test.ExpectDeepEquality(t, a, b)
}

func TestWriter(t *testing.T) {
	w := &test.Writer{}
	fmt.Fprintf(w, "%s %d", "section", 1)
	test.ExpectSuccess(t, w.Compare("section 1"))
	w.Clear()
	test.ExpectEquality(t, w.String(), "")
}
