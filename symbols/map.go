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
	"io"
	"sort"
)

// MainModule is the module ID of the main executable.
const MainModule = 0

// the main executable's symbols are always found in this section.
const mainModuleSection = 1

// NoModule is returned by ModuleID() when a module name is not known.
const NoModule = 0xffffffff

// Map is a collection of ModuleMaps keyed by module ID.
//
// The zero value is not usable. Use NewMap() or LoadFiles().
type Map struct {
	modules map[uint32]*ModuleMap

	// lookups fall through to the parent if the symbol isn't found in this map
	parent *Map
}

// NewMap is the preferred method of initialisation for the Map type.
func NewMap() *Map {
	return &Map{
		modules: make(map[uint32]*ModuleMap),
	}
}

// Layer creates a new and empty Map that falls back to the receiver for
// lookups. Additions to the layer do not affect the receiver.
//
// A nil receiver is allowed, in which case the layer has no parent.
func (m *Map) Layer() *Map {
	l := NewMap()
	l.parent = m
	return l
}

// Module returns the ModuleMap for the ID. The ModuleMap is not created if it
// does not exist and only the receiver is searched, not the parent.
func (m *Map) Module(id uint32) (*ModuleMap, bool) {
	mm, ok := m.modules[id]
	return mm, ok
}

// AddModule adds a ModuleMap to the Map. Any existing ModuleMap with the same
// ID is replaced.
func (m *Map) AddModule(mm *ModuleMap) {
	m.modules[mm.ID] = mm
}

// Modules returns all ModuleMaps in the receiver (but not the parent) in
// ascending order of module ID.
func (m *Map) Modules() []*ModuleMap {
	mms := make([]*ModuleMap, 0, len(m.modules))
	for _, mm := range m.modules {
		mms = append(mms, mm)
	}
	sort.Slice(mms, func(i, j int) bool { return mms[i].ID < mms[j].ID })
	return mms
}

// Merge the modules from another map into the receiver. Modules in the other
// map replace modules with the same ID.
func (m *Map) Merge(other *Map) {
	for id, mm := range other.modules {
		m.modules[id] = mm
	}
}

// GetSymbol returns the symbol at offset in the module/section.
func (m *Map) GetSymbol(module uint32, section int, offset uint32) (Symbol, bool) {
	if module == MainModule {
		section = mainModuleSection
	}

	for l := m; l != nil; l = l.parent {
		if mm, ok := l.modules[module]; ok {
			if sym, ok := mm.Get(section, offset); ok {
				return sym, true
			}
		}
	}

	return Symbol{}, false
}

// GetSymbolByName returns the named symbol in module/section.
func (m *Map) GetSymbolByName(module uint32, section int, name string) (Symbol, bool) {
	if module == MainModule {
		section = mainModuleSection
	}

	for l := m; l != nil; l = l.parent {
		if mm, ok := l.modules[module]; ok {
			if sym, ok := mm.GetByName(section, name); ok {
				return sym, true
			}
		}
	}

	return Symbol{}, false
}

// AddSymbol adds a symbol to the module/section, creating the module and
// section as required. See SectionMap.Add() for the meaning of the replace
// flag.
func (m *Map) AddSymbol(module uint32, section int, offset uint32, name string, replace bool) bool {
	mm, ok := m.modules[module]
	if !ok {
		mm = NewModuleMap(module, "")
		m.modules[module] = mm
	}
	return mm.Add(section, Symbol{Offset: offset, Name: name}, replace)
}

// ModuleID returns the ID of the named module. Returns NoModule and false if
// the name is not known.
func (m *Map) ModuleID(name string) (uint32, bool) {
	if name == "" {
		return NoModule, false
	}

	for l := m; l != nil; l = l.parent {
		// iterate in order of module ID so that the result is stable if more
		// than one module has the same name
		for _, mm := range l.Modules() {
			if mm.Name == name {
				return mm.ID, true
			}
		}
	}

	return NoModule, false
}

// ModuleName returns the name of the module with the ID. Returns false if
// the module is not known or has no name.
func (m *Map) ModuleName(id uint32) (string, bool) {
	for l := m; l != nil; l = l.parent {
		if mm, ok := l.modules[id]; ok && mm.Name != "" {
			return mm.Name, true
		}
	}

	return "", false
}

// Write every module in the receiver (but not the parent) in the map file
// format.
func (m *Map) Write(w io.Writer) error {
	for _, mm := range m.Modules() {
		if err := mm.Write(w); err != nil {
			return err
		}
	}
	return nil
}
