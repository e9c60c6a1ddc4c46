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
	"sort"
	"strings"
)

// Symbol is a named offset within a section.
type Symbol struct {
	Offset uint32
	Name   string
}

func (sym Symbol) String() string {
	return fmt.Sprintf("%08X %s", sym.Offset, sym.Name)
}

// SectionMap maps offsets to names, and names to offsets, for a single
// section of a module.
type SectionMap struct {
	ID int

	byOffset map[uint32]Symbol
	byName   map[string]Symbol

	// sorted array of keys to the byOffset map
	sortedIdx []uint32
}

// newSectionMap is the preferred method of initialisation for the SectionMap type.
func newSectionMap(id int) *SectionMap {
	return &SectionMap{
		ID:        id,
		byOffset:  make(map[uint32]Symbol),
		byName:    make(map[string]Symbol),
		sortedIdx: make([]uint32, 0),
	}
}

func (s *SectionMap) String() string {
	b := strings.Builder{}
	for _, o := range s.sortedIdx {
		b.WriteString(s.byOffset[o].String())
		b.WriteString("\n")
	}
	return b.String()
}

// Len returns the number of symbols in the section.
func (s *SectionMap) Len() int {
	return len(s.sortedIdx)
}

// Get symbol at offset.
func (s *SectionMap) Get(offset uint32) (Symbol, bool) {
	sym, ok := s.byOffset[offset]
	return sym, ok
}

// GetByName returns the symbol with the specified name.
func (s *SectionMap) GetByName(name string) (Symbol, bool) {
	sym, ok := s.byName[name]
	return sym, ok
}

// Add a symbol to the section. If a symbol already exists at the same offset,
// or with the same name, then the existing symbol is replaced if the replace
// flag is true. Replacement removes the old symbol from both directions of the
// mapping so that one offset always has one name and one name always has one
// offset.
//
// Returns true if the symbol was added.
func (s *SectionMap) Add(sym Symbol, replace bool) bool {
	oldByOffset, offsetCollision := s.byOffset[sym.Offset]
	oldByName, nameCollision := s.byName[sym.Name]

	if offsetCollision || nameCollision {
		if !replace {
			return false
		}
		if offsetCollision {
			delete(s.byName, oldByOffset.Name)
			s.removeIdx(oldByOffset.Offset)
			delete(s.byOffset, oldByOffset.Offset)
		}
		if nameCollision {
			delete(s.byOffset, oldByName.Offset)
			s.removeIdx(oldByName.Offset)
			delete(s.byName, oldByName.Name)
		}
	}

	s.byOffset[sym.Offset] = sym
	s.byName[sym.Name] = sym

	i := sort.Search(len(s.sortedIdx), func(i int) bool { return s.sortedIdx[i] >= sym.Offset })
	s.sortedIdx = append(s.sortedIdx, 0)
	copy(s.sortedIdx[i+1:], s.sortedIdx[i:])
	s.sortedIdx[i] = sym.Offset

	return true
}

func (s *SectionMap) removeIdx(offset uint32) {
	i := sort.Search(len(s.sortedIdx), func(i int) bool { return s.sortedIdx[i] >= offset })
	if i < len(s.sortedIdx) && s.sortedIdx[i] == offset {
		s.sortedIdx = append(s.sortedIdx[:i], s.sortedIdx[i+1:]...)
	}
}

// Symbols returns all symbols in the section in ascending order of offset.
func (s *SectionMap) Symbols() []Symbol {
	syms := make([]Symbol, 0, len(s.sortedIdx))
	for _, o := range s.sortedIdx {
		syms = append(syms, s.byOffset[o])
	}
	return syms
}
