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

// Package ppc decodes the PowerPC branch instructions that carry a
// displacement. It is not a disassembler. Mnemonic text comes from the
// external disassembler and this package provides the structured operand
// that the text is matched against.
package ppc

import "fmt"

// primary opcodes
const (
	opBC = 16
	opB  = 18
)

// Branch is a decoded branch instruction with a displacement operand.
type Branch struct {
	// the branch displacement in bytes. if Absolute is true then this is the
	// target address
	Displacement int32

	// the AA bit
	Absolute bool

	// the LK bit
	Link bool

	// true for the bc family of instructions
	Conditional bool
}

func (b Branch) String() string {
	s := "b"
	if b.Conditional {
		s = "bc"
	}
	if b.Link {
		s += "l"
	}
	if b.Absolute {
		s += "a"
	}
	return fmt.Sprintf("%s %+d", s, b.Displacement)
}

// DecodeBranch decodes the instruction word. Returns false if the word is not
// a branch with a displacement operand. Branches to the link or count
// registers (opcode 19) are never displacement branches.
func DecodeBranch(word uint32) (Branch, bool) {
	var b Branch

	switch word >> 26 {
	case opB:
		// 24 bit LI field, shifted left by two and sign extended
		b.Displacement = int32(word&0x03fffffc) << 6 >> 6
	case opBC:
		// 14 bit BD field, shifted left by two and sign extended
		b.Displacement = int32(int16(word & 0xfffc))
		b.Conditional = true
	default:
		return b, false
	}

	b.Absolute = word&0x02 == 0x02
	b.Link = word&0x01 == 0x01

	return b, true
}

// Target returns the address of the branch destination for a branch
// instruction located at addr.
func (b Branch) Target(addr uint32) uint32 {
	if b.Absolute {
		return uint32(b.Displacement)
	}
	return addr + uint32(b.Displacement)
}
