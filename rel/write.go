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
	"os"
	"slices"

	"github.com/reltools/reltools/curated"
)

// default alignment of section data in the file
const defaultAlign = 4

func align(n int, a uint32) int {
	if a < defaultAlign {
		a = defaultAlign
	}
	r := n % int(a)
	if r == 0 {
		return n
	}
	return n + int(a) - r
}

// WriteFile encodes the module and writes it to path.
func (m *Module) WriteFile(path string) error {
	data, err := m.Bytes()
	if err != nil {
		return curated.Errorf(FileError, path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return curated.Errorf(FileError, path, err)
	}
	return nil
}

// imports returns the IDs of every module referenced by a relocation command.
// Other modules in ascending order come first, then this module, then the
// main executable.
func (m *Module) imports() []uint32 {
	seen := make(map[uint32]bool)
	for _, s := range m.Sections {
		for _, i := range s.Relocations.Indices() {
			cmd, _ := s.Relocations.Command(i)
			seen[cmd.Module] = true
		}
	}

	var ids []uint32
	for id := range seen {
		if id != m.ID && id != 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	if seen[m.ID] {
		ids = append(ids, m.ID)
	}
	if seen[0] && m.ID != 0 {
		ids = append(ids, 0)
	}
	return ids
}

// Bytes encodes the module.
func (m *Module) Bytes() ([]byte, error) {
	be := binary.BigEndian

	hdr := headerSize(m.Version)
	data := make([]byte, hdr+len(m.Sections)*sectionEntrySize)

	be.PutUint32(data[hdrID:], m.ID)
	be.PutUint32(data[hdrNumSections:], uint32(len(m.Sections)))
	be.PutUint32(data[hdrSectionInfoOffset:], uint32(hdr))
	be.PutUint32(data[hdrNameOffset:], m.NameOffset)
	be.PutUint32(data[hdrNameSize:], m.NameSize)
	be.PutUint32(data[hdrVersion:], m.Version)
	be.PutUint32(data[hdrBSSSize:], m.BSSSize())
	data[hdrPrologSection] = uint8(m.Prolog.Section)
	data[hdrEpilogSection] = uint8(m.Epilog.Section)
	data[hdrUnresolvedSection] = uint8(m.Unresolved.Section)
	data[hdrBSSSection] = uint8(m.bssSection())
	be.PutUint32(data[hdrProlog:], m.Prolog.Offset)
	be.PutUint32(data[hdrEpilog:], m.Epilog.Offset)
	be.PutUint32(data[hdrUnresolved:], m.Unresolved.Offset)
	if m.Version >= 2 {
		be.PutUint32(data[hdrAlign:], m.ModuleAlign)
		be.PutUint32(data[hdrBSSAlign:], m.BSSAlign)
	}
	if m.Version >= 3 {
		be.PutUint32(data[hdrFixSize:], m.FixSize)
	}

	// section table and section data
	for i, s := range m.Sections {
		if s.Index != i {
			return nil, curated.Errorf(FormatError, curated.Errorf("section %d has index %d", i, s.Index))
		}

		var offset, size uint32

		switch {
		case s.IsBSS:
			size = s.Size
			if s.Relocations.Len() > 0 {
				return nil, curated.Errorf(FormatError, curated.Errorf("bss section %d has relocations", i))
			}
		case len(s.Data) > 0 || s.ExpandSize > 0:
			pad := align(len(data), s.Align) - len(data)
			data = append(data, make([]byte, pad)...)
			offset = uint32(len(data))
			data = append(data, s.Data...)
			data = append(data, make([]byte, s.ExpandSize)...)
			size = uint32(len(s.Data)) + s.ExpandSize
		}

		if s.HasCode && offset != 0 {
			offset |= 0x01
		}

		e := data[hdr+i*sectionEntrySize:]
		be.PutUint32(e, offset)
		be.PutUint32(e[4:], size)
	}

	// import table
	imports := m.imports()
	data = append(data, make([]byte, align(len(data), defaultAlign)-len(data))...)
	impOffset := len(data)
	data = append(data, make([]byte, len(imports)*importEntrySize)...)

	be.PutUint32(data[hdrImpOffset:], uint32(impOffset))
	be.PutUint32(data[hdrImpSize:], uint32(len(imports)*importEntrySize))
	be.PutUint32(data[hdrRelOffset:], uint32(len(data)))

	// relocation streams
	for i, id := range imports {
		e := data[impOffset+i*importEntrySize:]
		be.PutUint32(e, id)
		be.PutUint32(e[4:], uint32(len(data)))

		var err error
		data, err = m.appendRelocations(data, id)
		if err != nil {
			return nil, curated.Errorf(FormatError, err)
		}
	}

	return data, nil
}

func appendEntry(data []byte, delta uint16, typ Type, section uint8, addend uint32) []byte {
	data = binary.BigEndian.AppendUint16(data, delta)
	data = append(data, uint8(typ), section)
	return binary.BigEndian.AppendUint32(data, addend)
}

// appendRelocations encodes the relocation stream for every command that
// targets the module.
func (m *Module) appendRelocations(data []byte, module uint32) ([]byte, error) {
	current := -1
	var offset int

	for _, s := range m.Sections {
		for _, i := range s.Relocations.Indices() {
			cmd, _ := s.Relocations.Command(i)
			if cmd.Module != module {
				continue // for loop
			}
			if cmd.Type.IsControl() || !cmd.Type.IsValid() {
				return nil, curated.Errorf("section %d: word %d: cannot encode %s", s.Index, i, cmd.Type)
			}

			if s.Index != current {
				data = appendEntry(data, 0, R_DOLPHIN_SECTION, uint8(s.Index), 0)
				current = s.Index
				offset = 0
			}

			o := i * 4
			if cmd.Type.halfword() {
				o += 2
			}

			delta := o - offset
			for delta > 0xffff {
				data = appendEntry(data, 0xffff, R_DOLPHIN_NOP, 0, 0)
				delta -= 0xffff
			}

			data = appendEntry(data, uint16(delta), cmd.Type, uint8(cmd.Section), cmd.Addend)
			offset = o
		}
	}

	return appendEntry(data, 0, R_DOLPHIN_END, 0, 0), nil
}
