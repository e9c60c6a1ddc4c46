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

	"github.com/reltools/reltools/curated"
)

// Sentinal error patterns.
const (
	FormatError = "rel: %v"
	FileError   = "rel: %s: %v"
)

// offsets of fields in the module header
const (
	hdrID                = 0x00
	hdrNumSections       = 0x0c
	hdrSectionInfoOffset = 0x10
	hdrNameOffset        = 0x14
	hdrNameSize          = 0x18
	hdrVersion           = 0x1c
	hdrBSSSize           = 0x20
	hdrRelOffset         = 0x24
	hdrImpOffset         = 0x28
	hdrImpSize           = 0x2c
	hdrPrologSection     = 0x30
	hdrEpilogSection     = 0x31
	hdrUnresolvedSection = 0x32
	hdrBSSSection        = 0x33
	hdrProlog            = 0x34
	hdrEpilog            = 0x38
	hdrUnresolved        = 0x3c
	hdrAlign             = 0x40
	hdrBSSAlign          = 0x44
	hdrFixSize           = 0x48
)

// size of header for each version of the format
func headerSize(version uint32) int {
	switch version {
	case 0, 1:
		return 0x40
	case 2:
		return 0x48
	}
	return 0x4c
}

// size of each entry in the section table, the import table and the
// relocation stream
const (
	sectionEntrySize    = 8
	importEntrySize     = 8
	relocationEntrySize = 8
)

// ReadFile reads and decodes the module at path.
func ReadFile(path string) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, curated.Errorf(FileError, path, err)
	}
	m, err := Read(data)
	if err != nil {
		return nil, curated.Errorf(FileError, path, err)
	}
	return m, nil
}

// Read decodes the module in data. The module is linked before returning.
func Read(data []byte) (*Module, error) {
	if len(data) < headerSize(1) {
		return nil, curated.Errorf(FormatError, "file too short for module header")
	}

	be := binary.BigEndian
	m := &Module{
		ID:         be.Uint32(data[hdrID:]),
		Version:    be.Uint32(data[hdrVersion:]),
		NameOffset: be.Uint32(data[hdrNameOffset:]),
		NameSize:   be.Uint32(data[hdrNameSize:]),
		Prolog: Anchor{
			Section: int(data[hdrPrologSection]),
			Offset:  be.Uint32(data[hdrProlog:]),
		},
		Epilog: Anchor{
			Section: int(data[hdrEpilogSection]),
			Offset:  be.Uint32(data[hdrEpilog:]),
		},
		Unresolved: Anchor{
			Section: int(data[hdrUnresolvedSection]),
			Offset:  be.Uint32(data[hdrUnresolved:]),
		},
	}

	if len(data) < headerSize(m.Version) {
		return nil, curated.Errorf(FormatError, "file too short for version %d header", m.Version)
	}
	if m.Version >= 2 {
		m.ModuleAlign = be.Uint32(data[hdrAlign:])
		m.BSSAlign = be.Uint32(data[hdrBSSAlign:])
	}
	if m.Version >= 3 {
		m.FixSize = be.Uint32(data[hdrFixSize:])
	}

	numSections := int(be.Uint32(data[hdrNumSections:]))
	infoOffset := int(be.Uint32(data[hdrSectionInfoOffset:]))
	if infoOffset+numSections*sectionEntrySize > len(data) {
		return nil, curated.Errorf(FormatError, "section table outside of file")
	}

	for i := range numSections {
		e := data[infoOffset+i*sectionEntrySize:]
		offset := be.Uint32(e)
		size := be.Uint32(e[4:])

		exec := offset&0x01 == 0x01
		offset &^= 0x01

		var s *Section
		if offset == 0 && size > 0 {
			s = NewBSSSection(i, size)
		} else {
			if int(offset)+int(size) > len(data) {
				return nil, curated.Errorf(FormatError, curated.Errorf("section %d outside of file", i))
			}
			var d []byte
			if size > 0 {
				d = make([]byte, size)
				copy(d, data[offset:])
			}
			s = NewSection(i, d)
		}
		s.HasCode = exec
		m.Sections = append(m.Sections, s)
	}

	impOffset := int(be.Uint32(data[hdrImpOffset:]))
	impSize := int(be.Uint32(data[hdrImpSize:]))
	if impOffset+impSize > len(data) {
		return nil, curated.Errorf(FormatError, "import table outside of file")
	}

	for i := range impSize / importEntrySize {
		e := data[impOffset+i*importEntrySize:]
		id := be.Uint32(e)
		offset := int(be.Uint32(e[4:]))
		if err := m.readRelocations(data, id, offset); err != nil {
			return nil, curated.Errorf(FormatError, err)
		}
	}

	m.Link()

	return m, nil
}

// readRelocations decodes the relocation stream for one import table entry.
func (m *Module) readRelocations(data []byte, module uint32, offset int) error {
	be := binary.BigEndian

	var section *Section
	var current uint32

	for {
		if offset+relocationEntrySize > len(data) {
			return curated.Errorf("relocations for module %d: unterminated", module)
		}

		e := data[offset:]
		delta := uint32(be.Uint16(e))
		typ := Type(e[2])
		sec := int(e[3])
		addend := be.Uint32(e[4:])
		offset += relocationEntrySize

		current += delta

		switch typ {
		case R_DOLPHIN_END:
			return nil
		case R_DOLPHIN_SECTION:
			var ok bool
			section, ok = m.Section(sec)
			if !ok {
				return curated.Errorf("relocations for module %d: no section %d", module, sec)
			}
			current = 0
		case R_DOLPHIN_NOP, R_DOLPHIN_MRKREF:
		default:
			if !typ.IsValid() {
				return curated.Errorf("relocations for module %d: unknown type %d", module, typ)
			}
			if section == nil {
				return curated.Errorf("relocations for module %d: no section set", module)
			}
			section.Relocations.SetCommand(int(current/4), Command{
				Type:    typ,
				Module:  module,
				Section: sec,
				Addend:  addend,
			})
		}
	}
}
