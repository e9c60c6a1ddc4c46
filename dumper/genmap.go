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
	"io"

	"github.com/reltools/reltools/curated"
	"github.com/reltools/reltools/rel"
	"github.com/reltools/reltools/reltag"
	"github.com/reltools/reltools/symbols"
)

// GenerateMap writes a map file for the module. Every word that is the target
// of a relocation or a branch is given a synthetic loc_ label. Every section
// that is not empty is listed, even if it has no labels.
func GenerateMap(m *rel.Module, w io.Writer) error {
	mm := symbols.NewModuleMap(m.ID, "")

	for _, s := range m.Sections {
		if s.Size == 0 {
			continue // for loop
		}

		sm := mm.Section(s.Index)
		for i := range s.NumWords() {
			if s.Relocations.IsReferenced(i) {
				o := uint32(i * 4)
				sm.Add(symbols.Symbol{Offset: o, Name: reltag.LocLabel(o)}, false)
			}
		}
	}

	if err := mm.Write(w); err != nil {
		return curated.Errorf(DumpError, "map", err)
	}

	return nil
}
