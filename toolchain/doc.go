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

// Package toolchain runs the external programs used to assemble and
// disassemble PowerPC code. The programs are treated as black boxes. A
// program that exits with a non-zero status or that writes anything to
// stderr has failed.
//
// Programs are run to completion. There is no timeout and a program that
// never exits will block the caller indefinitely.
//
// Every invocation works in its own temporary directory so it is safe to run
// more than one assembly or disassembly at the same time.
package toolchain
