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

package rel

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/reltools/reltools/ppc"
)

// Anchor is one of the prolog, epilog or unresolved entry points of a module.
type Anchor struct {
	Section int
	Offset  uint32
}

func (a Anchor) String() string {
	return fmt.Sprintf("section %d offset %#08x", a.Section, a.Offset)
}

// Section is a single section of a relocatable module.
type Section struct {
	// position in the section table
	Index int

	// section contents. nil if the section is BSS
	Data []byte

	// size of the section. equal to len(Data) unless the section is BSS
	Size uint32

	HasCode bool
	IsBSS   bool

	// alignment of the section data in the file. zero means the default
	// alignment of four bytes
	Align uint32

	// number of zero bytes to append to the section when it is written
	ExpandSize uint32

	Relocations *Manager
}

// NewSection is the preferred method of initialisation for the Section type.
func NewSection(index int, data []byte) *Section {
	return &Section{
		Index:       index,
		Data:        data,
		Size:        uint32(len(data)),
		Relocations: NewManager(),
	}
}

// NewBSSSection returns a zero-initialised section of the specified size.
func NewBSSSection(index int, size uint32) *Section {
	return &Section{
		Index:       index,
		Size:        size,
		IsBSS:       true,
		Relocations: NewManager(),
	}
}

// Bytes returns the contents of the section. A BSS section returns a new zero
// filled slice of the section size.
func (s *Section) Bytes() []byte {
	if s.IsBSS {
		return make([]byte, s.Size)
	}
	return s.Data
}

// Word returns the big-endian word at the word index. Returns zero if the
// index is outside of the section or if the section is BSS.
func (s *Section) Word(index int) uint32 {
	o := index * 4
	if s.IsBSS || index < 0 || o+4 > len(s.Data) {
		return 0
	}
	return binary.BigEndian.Uint32(s.Data[o:])
}

// NumWords returns the number of whole words in the section.
func (s *Section) NumWords() int {
	return int(s.Size / 4)
}

func (s *Section) String() string {
	var t string
	switch {
	case s.IsBSS:
		t = "bss"
	case s.HasCode:
		t = "code"
	default:
		t = "data"
	}
	return fmt.Sprintf("section %d: %s %d bytes, %d relocations", s.Index, t, s.Size, s.Relocations.Len())
}

// Module is a relocatable module.
type Module struct {
	ID      uint32
	Version uint32

	// location of the module name in the external string table
	NameOffset uint32
	NameSize   uint32

	Prolog     Anchor
	Epilog     Anchor
	Unresolved Anchor

	// version 2 fields
	ModuleAlign uint32
	BSSAlign    uint32

	// version 3 field
	FixSize uint32

	Sections []*Section
}

// NewModule is the preferred method of initialisation for the Module type.
func NewModule(id uint32, version uint32) *Module {
	return &Module{
		ID:      id,
		Version: version,
	}
}

// Section returns the section at the index in the section table.
func (m *Module) Section(index int) (*Section, bool) {
	if index < 0 || index >= len(m.Sections) {
		return nil, false
	}
	return m.Sections[index], true
}

// BSSSize returns the combined size of the BSS sections.
func (m *Module) BSSSize() uint32 {
	var n uint32
	for _, s := range m.Sections {
		if s.IsBSS {
			n += s.Size
		}
	}
	return n
}

// bssSection returns the index of the first BSS section or zero if there
// isn't one.
func (m *Module) bssSection() int {
	for _, s := range m.Sections {
		if s.IsBSS {
			return s.Index
		}
	}
	return 0
}

func (m *Module) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("module %d (version %d), %d sections\n", m.ID, m.Version, len(m.Sections)))
	for _, sec := range m.Sections {
		s.WriteString(sec.String())
		s.WriteString("\n")
	}
	return s.String()
}

// Link computes the incoming references for every word in the module. Any
// previous link information is discarded.
//
// Every relocation command that targets this module is recorded against the
// word it targets. Every relative branch instruction in a code section is
// recorded against the word it branches to, if that word is inside the same
// section. This includes branches with a displacement of zero, which are
// recorded against themselves.
func (m *Module) Link() {
	for _, s := range m.Sections {
		s.Relocations.clearLinks()
	}

	for _, s := range m.Sections {
		for _, i := range s.Relocations.Indices() {
			cmd, _ := s.Relocations.Command(i)
			if cmd.Module != m.ID {
				continue // for loop
			}
			target, ok := m.Section(cmd.Section)
			if !ok {
				continue // for loop
			}
			target.Relocations.addLink(int(cmd.Addend/4), Reference{Section: s.Index, Index: i})
		}

		if !s.HasCode || s.IsBSS {
			continue // for loop
		}

		for i := range s.NumWords() {
			b, ok := ppc.DecodeBranch(s.Word(i))
			if !ok || b.Absolute {
				continue // for loop
			}
			t := b.Target(uint32(i * 4))
			if t < s.Size {
				s.Relocations.addBranch(int(t/4), i)
			}
		}
	}
}
