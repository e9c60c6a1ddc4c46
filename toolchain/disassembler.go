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

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/reltools/reltools/curated"
)

// Disassembler turns machine code into assembly text.
type Disassembler interface {
	// Disassemble the code, which is assumed to begin at address zero. The
	// returned slice has one line for every word of code.
	Disassemble(code []byte) ([]string, error)
}

// VDAPPC uses the vdappc program.
type VDAPPC struct {
	Path string
}

// NewVDAPPC is the preferred method of initialisation for the VDAPPC type.
func NewVDAPPC(cfg Config) *VDAPPC {
	return &VDAPPC{
		Path: cfg.Disassembler,
	}
}

// address and instruction word columns at the start of each line
var vdappcColumns = regexp.MustCompile(`^[0-9a-fA-F]{8}:?\s+[0-9a-fA-F]{8}\s+`)

// Disassemble implements the Disassembler interface.
func (v *VDAPPC) Disassemble(code []byte) ([]string, error) {
	dir, err := os.MkdirTemp("", "reltools_disasm_")
	if err != nil {
		return nil, curated.Errorf(ToolFailure, "vdappc", err)
	}
	defer os.RemoveAll(dir)

	bin := filepath.Join(dir, binaryFile)
	if err := os.WriteFile(bin, code, 0644); err != nil {
		return nil, curated.Errorf(ToolFailure, "vdappc", err)
	}

	r, err := Run(v.Path, bin, "0")
	if err != nil {
		return nil, err
	}

	lines := ParseDisassembly(r.Stdout)
	if len(lines) != len(code)/4 {
		return nil, curated.Errorf(ToolFailure, "vdappc",
			curated.Errorf("%d lines of disassembly for %d words", len(lines), len(code)/4))
	}

	return lines, nil
}

// ParseDisassembly splits the disassembler output into lines. Blank lines
// are removed, as are the address and instruction word columns. Tabs are
// replaced with spaces.
func ParseDisassembly(output string) []string {
	var lines []string
	for _, l := range strings.Split(output, "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue // for loop
		}
		l = vdappcColumns.ReplaceAllString(l, "")
		lines = append(lines, strings.ReplaceAll(l, "\t", " "))
	}
	return lines
}
