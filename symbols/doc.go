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

// Package symbols keeps track of named offsets in relocatable modules. Symbols
// are organised by module ID and then by section. Within a section every
// offset has at most one name and every name has at most one offset.
//
// A Map is usually loaded from one or more map files with LoadFiles(). The
// map file format is line oriented:
//
//	.module 27, sora_melee
//	.section 1
//	00000000 __entry
//	0000001C some_function
//
// A map file can describe more than one module. When more than one file is
// loaded, modules in later files replace modules with the same ID in earlier
// files.
//
// Lookups for module 0 (the main executable) always use section 1,
// regardless of the section that was requested.
//
// Once loaded, a Map should be treated as read-only if it is to be shared
// between jobs running in parallel. Per-job additions are made to a layer
// created with Layer(). Lookups on a layer look in the layer first and then
// in the parent Map.
//
// The package also provides the label mangling scheme used by the module
// builder to keep identically named local labels in different modules and
// sections apart. See Mangle() and Demangle().
package symbols
