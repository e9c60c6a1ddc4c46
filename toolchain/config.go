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


package toolchain

import "os"

// Environment variables that override the default location of each program.
const (
	EnvAssembler    = "RELTOOLS_AS"
	EnvObjCopy      = "RELTOOLS_OBJCOPY"
	EnvDisassembler = "RELTOOLS_DISASM"
)

// Config is the location of each of the external programs.
type Config struct {
	Assembler    string
	ObjCopy      string
	Disassembler string
}

// DefaultConfig returns the default program locations, overridden by any of
// the environment variables that are set.
func DefaultConfig() Config {
	cfg := Config{
		Assembler:    "lib/powerpc-eabi-as",
		ObjCopy:      "lib/powerpc-eabi-objcopy",
		Disassembler: "lib/vdappc",
	}

	if v, ok := os.LookupEnv(EnvAssembler); ok && v != "" {
		cfg.Assembler = v
	}
	if v, ok := os.LookupEnv(EnvObjCopy); ok && v != "" {
		cfg.ObjCopy = v
	}
	if v, ok := os.LookupEnv(EnvDisassembler); ok && v != "" {
		cfg.Disassembler = v
	}

	return cfg
}
