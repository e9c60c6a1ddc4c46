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
	"strings"

	"github.com/reltools/reltools/curated"
)

// Assembly is the output of a successful assembly.
type Assembly struct {
	// the raw bytes of the assembled code
	Code []byte

	// the assembler listing. the listing correlates source lines with the
	// offset of the bytes that they emit
	Listing string
}

// Assembler turns assembly source into machine code.
type Assembler interface {
	// Assemble the source. Defines are symbols made available to the
	// assembler, either as a plain name or as name=value.
	Assemble(source string, defines []string) (Assembly, error)
}

// GNUAssembler uses the GNU assembler and objcopy programs.
type GNUAssembler struct {
	As      string
	ObjCopy string
}

// NewGNUAssembler is the preferred method of initialisation for the
// GNUAssembler type.
func NewGNUAssembler(cfg Config) *GNUAssembler {
	return &GNUAssembler{
		As:      cfg.Assembler,
		ObjCopy: cfg.ObjCopy,
	}
}

// names of files in the temporary directory
const (
	sourceFile  = "source.s"
	objectFile  = "source.o"
	binaryFile  = "source.bin"
	listingFile = "source.lst"
)

func defsym(d string) string {
	if strings.Contains(d, "=") {
		return d
	}
	return d + "=1"
}

// Assemble implements the Assembler interface.
func (g *GNUAssembler) Assemble(source string, defines []string) (Assembly, error) {
	dir, err := os.MkdirTemp("", "reltools_as_")
	if err != nil {
		return Assembly{}, curated.Errorf(ToolFailure, "as", err)
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, sourceFile)
	obj := filepath.Join(dir, objectFile)
	bin := filepath.Join(dir, binaryFile)
	lst := filepath.Join(dir, listingFile)

	// the assembler complains if the last line is not terminated
	if !strings.HasSuffix(source, "\n") {
		source += "\n"
	}
	if err := os.WriteFile(src, []byte(source), 0644); err != nil {
		return Assembly{}, curated.Errorf(ToolFailure, "as", err)
	}

	args := []string{"-mgekko", "-mregnames", "-aln=" + lst}
	for _, d := range defines {
		args = append(args, "--defsym", defsym(d))
	}
	args = append(args, src, "-o", obj)

	if _, err := Run(g.As, args...); err != nil {
		return Assembly{}, err
	}

	if _, err := Run(g.ObjCopy, "-O", "binary", obj, bin); err != nil {
		return Assembly{}, err
	}

	var a Assembly

	a.Code, err = os.ReadFile(bin)
	if err != nil {
		return Assembly{}, curated.Errorf(ToolFailure, "objcopy", err)
	}

	listing, err := os.ReadFile(lst)
	if err != nil {
		return Assembly{}, curated.Errorf(ToolFailure, "as", err)
	}
	a.Listing = string(listing)

	return a, nil
}
