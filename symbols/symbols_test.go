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

package symbols_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reltools/reltools/curated"
	"github.com/reltools/reltools/symbols"
	"github.com/reltools/reltools/test"
)

const fighterMap = `.module 27, fighter_module
.section 1
00000000 __entry
0000001C attack_fn
.section 5
00000010 table

.module 0
.section 1
80001234 OSReport
`

func TestParse(t *testing.T) {
	m, err := symbols.Parse(strings.NewReader(fighterMap), "test", "default")
	test.DemandSuccess(t, err)

	sym, ok := m.GetSymbolByName(27, 1, "attack_fn")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, sym.Offset, uint32(0x1c))

	sym, ok = m.GetSymbol(27, 5, 0x10)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, sym.Name, "table")

	// wrong section
	_, ok = m.GetSymbol(27, 1, 0x10)
	test.ExpectFailure(t, ok)

	id, ok := m.ModuleID("fighter_module")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, id, uint32(27))

	// module without a name takes the default name
	name, ok := m.ModuleName(0)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, name, "default")

	id, ok = m.ModuleID("unknown")
	test.ExpectFailure(t, ok)
	test.ExpectEquality(t, id, uint32(symbols.NoModule))
}

func TestMainModuleSection(t *testing.T) {
	m, err := symbols.Parse(strings.NewReader(fighterMap), "test", "")
	test.DemandSuccess(t, err)

	// lookups in module 0 always use section 1
	for _, section := range []int{0, 1, 2, 7} {
		sym, ok := m.GetSymbol(0, section, 0x80001234)
		test.ExpectSuccess(t, ok, section)
		test.ExpectEquality(t, sym.Name, "OSReport", section)

		sym, ok = m.GetSymbolByName(0, section, "OSReport")
		test.ExpectSuccess(t, ok, section)
		test.ExpectEquality(t, sym.Offset, uint32(0x80001234), section)
	}
}

func TestFormatErrors(t *testing.T) {
	_, err := symbols.Parse(strings.NewReader("00000000 foo\n"), "test", "")
	test.ExpectSuccess(t, curated.Is(err, symbols.MapFormatError))

	_, err = symbols.Parse(strings.NewReader(".section 1\n00000000 foo\n"), "test", "")
	test.ExpectSuccess(t, curated.Is(err, symbols.MapFormatError))

	_, err = symbols.Parse(strings.NewReader(".module 1\n00000000 foo\n"), "test", "")
	test.ExpectSuccess(t, curated.Is(err, symbols.MapFormatError))

	_, err = symbols.Parse(strings.NewReader(".module 1\n.section 1\nzzzz foo\n"), "test", "")
	test.ExpectSuccess(t, curated.Is(err, symbols.MapFormatError))

	_, err = symbols.Parse(strings.NewReader(".module x\n"), "test", "")
	test.ExpectSuccess(t, curated.Is(err, symbols.MapFormatError))
}

func TestBidirectionalReplace(t *testing.T) {
	m := symbols.NewMap()
	test.ExpectSuccess(t, m.AddSymbol(1, 1, 0x10, "foo", false))

	// collision without replace leaves the map unchanged
	test.ExpectFailure(t, m.AddSymbol(1, 1, 0x10, "bar", false))
	sym, _ := m.GetSymbol(1, 1, 0x10)
	test.ExpectEquality(t, sym.Name, "foo")

	// replacing the name at an offset removes the old name
	test.ExpectSuccess(t, m.AddSymbol(1, 1, 0x10, "bar", true))
	_, ok := m.GetSymbolByName(1, 1, "foo")
	test.ExpectFailure(t, ok)
	sym, _ = m.GetSymbol(1, 1, 0x10)
	test.ExpectEquality(t, sym.Name, "bar")

	// moving a name to a new offset removes the old offset
	test.ExpectSuccess(t, m.AddSymbol(1, 1, 0x20, "bar", true))
	_, ok = m.GetSymbol(1, 1, 0x10)
	test.ExpectFailure(t, ok)
	sym, _ = m.GetSymbolByName(1, 1, "bar")
	test.ExpectEquality(t, sym.Offset, uint32(0x20))

	mm, _ := m.Module(1)
	test.ExpectEquality(t, mm.Section(1).Len(), 1)
}

func TestLayer(t *testing.T) {
	base := symbols.NewMap()
	base.AddModule(symbols.NewModuleMap(3, "item"))
	base.AddSymbol(3, 1, 0x0, "base_sym", true)

	layer := base.Layer()
	layer.AddSymbol(3, 1, 0x0, symbols.Entry, true)
	layer.AddSymbol(3, 1, 0x8, "layer_sym", true)

	// the layer is searched first
	sym, ok := layer.GetSymbol(3, 1, 0x0)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, sym.Name, symbols.Entry)

	// and then the base
	sym, ok = layer.GetSymbolByName(3, 1, "base_sym")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, sym.Offset, uint32(0))

	// module names are found through the layer
	name, ok := layer.ModuleName(3)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, name, "item")

	// the base is untouched
	_, ok = base.GetSymbolByName(3, 1, "layer_sym")
	test.ExpectFailure(t, ok)
}

func TestLoadFilesMerge(t *testing.T) {
	dir := t.TempDir()

	a := filepath.Join(dir, "a.map")
	b := filepath.Join(dir, "b.map")
	test.DemandSuccess(t, os.WriteFile(a, []byte(".module 5\n.section 1\n00000010 X\n00000020 Y\n"), 0644))
	test.DemandSuccess(t, os.WriteFile(b, []byte(".module 5, five\n.section 1\n00000030 Z\n"), 0644))

	m, err := symbols.LoadFiles(a, b)
	test.DemandSuccess(t, err)

	// later file replaces the whole module
	_, ok := m.GetSymbolByName(5, 1, "X")
	test.ExpectFailure(t, ok)
	sym, ok := m.GetSymbolByName(5, 1, "Z")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, sym.Offset, uint32(0x30))

	// only the first file, named after the file
	m, err = symbols.LoadFiles(a)
	test.DemandSuccess(t, err)
	name, _ := m.ModuleName(5)
	test.ExpectEquality(t, name, "a")

	_, err = symbols.LoadFiles(filepath.Join(dir, "missing.map"))
	test.ExpectSuccess(t, curated.Is(err, symbols.MapFileError))
}

func TestWrite(t *testing.T) {
	m := symbols.NewMap()
	m.AddModule(symbols.NewModuleMap(2, "two"))
	m.AddSymbol(2, 1, 0x20, "b", true)
	m.AddSymbol(2, 1, 0x4, "a", true)
	m.AddSymbol(2, 0, 0x0, "c", true)

	w := &strings.Builder{}
	test.DemandSuccess(t, m.Write(w))
	test.ExpectEquality(t, w.String(), ".module 2, two\n.section 0\n00000000 c\n.section 1\n00000004 a\n00000020 b\n")

	// output can be parsed again
	n, err := symbols.Parse(strings.NewReader(w.String()), "test", "")
	test.DemandSuccess(t, err)
	sym, ok := n.GetSymbolByName(2, 1, "b")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, sym.Offset, uint32(0x20))
}
