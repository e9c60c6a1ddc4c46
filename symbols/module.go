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
	"io"
	"sort"
)

// ModuleMap contains the symbols of a single module, partitioned by section.
type ModuleMap struct {
	ID uint32

	// name of the module. can be empty
	Name string

	sections map[int]*SectionMap
}

// NewModuleMap is the preferred method of initialisation for the ModuleMap type.
func NewModuleMap(id uint32, name string) *ModuleMap {
	return &ModuleMap{
		ID:       id,
		Name:     name,
		sections: make(map[int]*SectionMap),
	}
}

// Section returns the SectionMap for the section ID. The SectionMap is created
// if it does not already exist.
func (mm *ModuleMap) Section(section int) *SectionMap {
	s, ok := mm.sections[section]
	if !ok {
		s = newSectionMap(section)
		mm.sections[section] = s
	}
	return s
}

// HasSection returns true if the section has been created.
func (mm *ModuleMap) HasSection(section int) bool {
	_, ok := mm.sections[section]
	return ok
}

// SectionIDs returns the IDs of all sections in the module in ascending order.
func (mm *ModuleMap) SectionIDs() []int {
	ids := make([]int, 0, len(mm.sections))
	for id := range mm.sections {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Get symbol at offset in section.
func (mm *ModuleMap) Get(section int, offset uint32) (Symbol, bool) {
	if s, ok := mm.sections[section]; ok {
		return s.Get(offset)
	}
	return Symbol{}, false
}

// GetByName returns the symbol with the specified name in section.
func (mm *ModuleMap) GetByName(section int, name string) (Symbol, bool) {
	if s, ok := mm.sections[section]; ok {
		return s.GetByName(name)
	}
	return Symbol{}, false
}

// Add symbol to section. See SectionMap.Add() for the meaning of the replace
// flag.
func (mm *ModuleMap) Add(section int, sym Symbol, replace bool) bool {
	return mm.Section(section).Add(sym, replace)
}

// Write the module in the map file format.
func (mm *ModuleMap) Write(w io.Writer) error {
	var err error
	if mm.Name != "" {
		_, err = fmt.Fprintf(w, ".module %d, %s\n", mm.ID, mm.Name)
	} else {
		_, err = fmt.Fprintf(w, ".module %d\n", mm.ID)
	}
	if err != nil {
		return err
	}

	for _, id := range mm.SectionIDs() {
		if _, err := fmt.Fprintf(w, ".section %d\n", id); err != nil {
			return err
		}
		if _, err := io.WriteString(w, mm.sections[id].String()); err != nil {
			return err
		}
	}

	return nil
}
