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

// Package builder assembles the sections of a relocatable module and links
// them into a rel.Module.
//
// Each section is assembled independently by an external assembler. The
// relocation tags in the source are removed before assembly and replaced
// with a marker comment. The offset of every source line, and therefore the
// offset of every label and every relocation tag, is recovered from the
// assembler listing.
//
// Once every section has been assembled the relocation tags are resolved and
// installed in the relocation table of the section they belong to. Labels
// are resolved in preference to the symbol map. Local labels are mangled
// with the module ID and section ID so that labels with the same name in
// different sections do not collide. The three anchor labels, __entry, __exit
// and __unresolved, are never mangled and every module must define all of
// them.
//
// A Builder is used once and then discarded.
package builder
