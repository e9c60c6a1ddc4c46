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


// Package moduleinfo describes how to build a relocatable module. The
// description is stored as a JSON file alongside the assembly source of each
// section. It is written when a module is dumped and read when a module is
// built.
package moduleinfo

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/reltools/reltools/curated"
)

// Sentinal error patterns.
const (
	DescriptorError = "module info: %s: %v"
)

// the only supported module type
const TypeREL = "rel"

// the module version used if the descriptor does not specify one
const DefaultVersion = 3

// Section describes one section of the module.
type Section struct {
	// path to the assembly source, relative to the descriptor
	Path string

	// position of the section in the section table
	SectionID int

	HasCode bool
	IsBSS   bool

	// append ExpandSize zero bytes to the section when it is built
	Expand     bool
	ExpandSize int
}

// Info describes a module. A nil entry in the Sections list is a section that
// is empty.
type Info struct {
	Name        string
	Type        string
	Version     int
	ModuleID    int
	ModuleAlign int
	BSSAlign    int
	FixSize     int

	Sections []*Section

	// the directory containing the descriptor. section paths are relative to
	// this directory. not stored in the descriptor
	root string
}

// NewInfo is the preferred method of initialisation for the Info type.
func NewInfo(name string, moduleID int) *Info {
	return &Info{
		Name:     name,
		Type:     TypeREL,
		Version:  DefaultVersion,
		ModuleID: moduleID,
	}
}

// Load the descriptor at path. Unknown fields in the descriptor are an error,
// as is a descriptor that fails validation.
func Load(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, curated.Errorf(DescriptorError, path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var info Info
	if err := dec.Decode(&info); err != nil {
		return nil, curated.Errorf(DescriptorError, path, err)
	}

	if info.Type == "" {
		info.Type = TypeREL
	}
	if info.Version == 0 {
		info.Version = DefaultVersion
	}

	if err := info.Validate(); err != nil {
		return nil, curated.Errorf(DescriptorError, path, err)
	}

	info.root = filepath.Dir(path)

	return &info, nil
}

// Validate the descriptor.
func (info *Info) Validate() error {
	if info.Name == "" {
		return curated.Errorf("no module name")
	}
	if info.Type != TypeREL {
		return curated.Errorf("unsupported module type (%s)", info.Type)
	}
	if info.Version < 1 || info.Version > 3 {
		return curated.Errorf("unsupported module version (%d)", info.Version)
	}

	// module zero is the main executable
	if info.ModuleID <= 0 {
		return curated.Errorf("module ID must be greater than zero")
	}

	if len(info.Sections) == 0 {
		return curated.Errorf("no sections")
	}

	for i, s := range info.Sections {
		if s == nil {
			continue // for loop
		}
		if s.SectionID != i {
			return curated.Errorf("section %d: section ID is %d", i, s.SectionID)
		}
		if s.Path == "" {
			return curated.Errorf("section %d: no path", i)
		}
		if s.IsBSS && s.HasCode {
			return curated.Errorf("section %d: bss section cannot have code", i)
		}
		if s.ExpandSize < 0 {
			return curated.Errorf("section %d: negative expand size", i)
		}
	}

	return nil
}

// Root returns the directory that section paths are relative to.
func (info *Info) Root() string {
	return info.root
}

// SetRoot changes the directory that section paths are relative to.
func (info *Info) SetRoot(root string) {
	info.root = root
}

// SectionPath returns the path to the assembly source for the section.
func (info *Info) SectionPath(s *Section) string {
	if filepath.IsAbs(s.Path) {
		return s.Path
	}
	return filepath.Join(info.root, s.Path)
}

// Save the descriptor to path.
func (info *Info) Save(path string) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return curated.Errorf(DescriptorError, path, err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return curated.Errorf(DescriptorError, path, err)
	}

	return nil
}
