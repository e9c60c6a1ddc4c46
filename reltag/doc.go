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

// Package reltag implements the relocation tags that are embedded in assembly
// source as comments. A tag describes the relocation that applies to the word
// emitted by the line it is attached to:
//
//	lis r3, 0 # [R_PPC_ADDR16_HA(27, 5, "table")]
//	bl 0 # [R_PPC_REL24("fighter_module", 1, "attack_fn")]
//	.4byte 0 # [R_PPC_ADDR32(27, 5, "loc_10" + 2)]
//
// The module is either a module ID or the quoted name of a module in the
// symbol map. The label is a symbol name or a synthetic loc_ label naming an
// offset in hexadecimal. An optional expression after the label adjusts the
// resolved offset and is evaluated with the Common Expression Language.
package reltag
