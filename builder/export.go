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


package builder

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/reltools/reltools/curated"
	"github.com/reltools/reltools/logger"
	"github.com/reltools/reltools/rel"
	"github.com/reltools/reltools/symbols"
)

// prefix of labels created by the dumper for unnamed offsets
const locPrefix = "loc_"

// ExportMap writes the labels of the module in the map file format. Labels
// are raw, not mangled, and are listed in order of offset in each section.
// Synthetic loc_ labels in code sections are not exported.
//
// Should only be called after a successful Build().
func (b *Builder) ExportMap(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, ".module %d, %s\n", b.info.ModuleID, b.info.Name)

	for i, s := range b.info.Sections {
		if s == nil {
			continue // for loop
		}

		var labels []label
		for _, k := range b.order {
			l := b.labels[k]
			if l.section != i {
				continue // for loop
			}
			if s.HasCode && strings.HasPrefix(l.name, locPrefix) {
				continue // for loop
			}
			labels = append(labels, l)
		}

		slices.SortStableFunc(labels, func(x, y label) int {
			switch {
			case x.offset < y.offset:
				return -1
			case x.offset > y.offset:
				return 1
			}
			return x.line - y.line
		})

		fmt.Fprintf(bw, ".section %d\n", i)
		for _, l := range labels {
			fmt.Fprintln(bw, symbols.Symbol{Offset: l.offset, Name: l.name})
		}
	}

	return bw.Flush()
}

// Export the module and its map file to the output directory. The files are
// named after the module.
func (b *Builder) Export(m *rel.Module, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return curated.Errorf(BuildError, outputDir, err)
	}

	relPath := filepath.Join(outputDir, b.info.Name+".rel")
	if err := m.WriteFile(relPath); err != nil {
		return curated.Errorf(BuildError, b.info.Name, err)
	}
	b.log.Logf(logger.Allow, logTag, "wrote %s", relPath)

	mapPath := filepath.Join(outputDir, b.info.Name+".map")
	f, err := os.Create(mapPath)
	if err != nil {
		return curated.Errorf(BuildError, mapPath, err)
	}
	defer f.Close()

	if err := b.ExportMap(f); err != nil {
		return curated.Errorf(BuildError, mapPath, err)
	}
	b.log.Logf(logger.Allow, logTag, "wrote %s", mapPath)

	return f.Close()
}
