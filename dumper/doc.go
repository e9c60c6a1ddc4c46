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

// Package dumper turns a relocatable module back into assembly source that
// the builder package can rebuild.
//
// Code sections are disassembled by an external disassembler. Other sections
// are written as data directives. Every word that is named in the symbol map,
// or that is referenced by a relocation or a branch, is given a label. Branch
// operands are rewritten to use labels and every word with a relocation has a
// relocation tag appended to its line.
//
// Alongside the source files the dumper writes a moduleinfo descriptor that
// describes how to rebuild the module.
package dumper
