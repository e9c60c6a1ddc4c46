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

// Type is the relocation type of a relocation command. The numbering follows
// the PowerPC ELF ABI with the Dolphin control types at the top of the range.
type Type uint8

// List of valid Type values.
const (
	R_PPC_NONE Type = iota
	R_PPC_ADDR32
	R_PPC_ADDR24
	R_PPC_ADDR16
	R_PPC_ADDR16_LO
	R_PPC_ADDR16_HI
	R_PPC_ADDR16_HA
	R_PPC_ADDR14
	R_PPC_ADDR14_BRTAKEN
	R_PPC_ADDR14_BRNTAKEN
	R_PPC_REL24
	R_PPC_REL14
	R_PPC_REL14_BRTAKEN
	R_PPC_REL14_BRNTAKEN
	R_PPC_GOT16
	R_PPC_GOT16_LO
	R_PPC_GOT16_HI
	R_PPC_GOT16_HA
	R_PPC_PLTREL24
	R_PPC_COPY
	R_PPC_GLOB_DAT
	R_PPC_JMP_SLOT
	R_PPC_RELATIVE
	R_PPC_LOCAL24PC
	R_PPC_UADDR32
	R_PPC_UADDR16
	R_PPC_REL32
	R_PPC_PLT32
	R_PPC_PLTREL32
	R_PPC_PLT16_LO
	R_PPC_PLT16_HI
	R_PPC_PLT16_HA
	R_PPC_SDAREL16
	R_PPC_SECTOFF
	R_PPC_SECTOFF_LO
	R_PPC_SECTOFF_HI
	R_PPC_SECTOFF_HA
	R_PPC_ADDR30
)

// Control types. These never appear in a relocation Manager. They only exist
// in the encoded relocation stream.
const (
	R_DOLPHIN_NOP     Type = 201
	R_DOLPHIN_SECTION Type = 202
	R_DOLPHIN_END     Type = 203
	R_DOLPHIN_MRKREF  Type = 204
)

// IsControl returns true if the type is one of the Dolphin control types.
func (t Type) IsControl() bool {
	return t >= R_DOLPHIN_NOP && t <= R_DOLPHIN_MRKREF
}

// IsValid returns true if the type is a known relocation type.
func (t Type) IsValid() bool {
	return t <= R_PPC_ADDR30 || t.IsControl()
}

// halfword returns true if the relocation patches the low halfword of an
// instruction. the encoded offset of these relocations is two bytes past the
// start of the word.
func (t Type) halfword() bool {
	switch t {
	case R_PPC_ADDR16, R_PPC_ADDR16_LO, R_PPC_ADDR16_HI, R_PPC_ADDR16_HA:
		return true
	}
	return false
}

// ParseType returns the Type for the name. The name must match exactly.
func ParseType(name string) (Type, bool) {
	for t := R_PPC_NONE; t <= R_PPC_ADDR30; t++ {
		if t.String() == name {
			return t, true
		}
	}
	for t := R_DOLPHIN_NOP; t <= R_DOLPHIN_MRKREF; t++ {
		if t.String() == name {
			return t, true
		}
	}
	return R_PPC_NONE, false
}
