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

package symbols

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/reltools/reltools/curated"
	"github.com/reltools/reltools/logger"
)

// Sentinal error patterns.
const (
	MapFileError   = "map file: %v"
	MapFormatError = "map file: %s: line %d: %s"
)

// LoadFiles parses every map file in turn and merges the results. Modules in
// later files replace modules with the same ID in earlier files.
//
// An error in any file is fatal. A partial map is never returned.
func LoadFiles(paths ...string) (*Map, error) {
	m := NewMap()
	for _, p := range paths {
		fm, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		m.Merge(fm)
	}
	return m, nil
}

// LoadFile parses a single map file.
func LoadFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, curated.Errorf(MapFileError, err)
	}
	defer f.Close()

	// modules without an explicit name take the name of the map file
	defaultName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return Parse(f, path, defaultName)
}

// Parse map file data from io.Reader. The source argument is used in error
// messages. Modules declared without a name are given defaultName.
func Parse(r io.Reader, source string, defaultName string) (*Map, error) {
	m := NewMap()

	var curModule *ModuleMap
	var curSection *SectionMap

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// ignore blank lines and comments
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue // for loop
		}

		if strings.HasPrefix(line, ".module") {
			id, name, err := parseModuleDirective(line)
			if err != nil {
				return nil, curated.Errorf(MapFormatError, source, lineNum, err)
			}
			if name == "" {
				name = defaultName
			}

			curModule = NewModuleMap(id, name)
			curSection = nil
			m.AddModule(curModule)

			logger.Logf(logger.Allow, "symbols", "module %d (%s): %s", id, name, source)
			continue // for loop
		}

		if strings.HasPrefix(line, ".section") {
			if curModule == nil {
				return nil, curated.Errorf(MapFormatError, source, lineNum, "no .module directive associated with this section")
			}

			f := strings.Fields(line)
			if len(f) != 2 {
				return nil, curated.Errorf(MapFormatError, source, lineNum, "malformed .section directive")
			}
			id, err := strconv.Atoi(f[1])
			if err != nil {
				return nil, curated.Errorf(MapFormatError, source, lineNum, err)
			}

			curSection = curModule.Section(id)
			continue // for loop
		}

		if curModule == nil {
			return nil, curated.Errorf(MapFormatError, source, lineNum, "no .module directive associated with this symbol")
		}
		if curSection == nil {
			return nil, curated.Errorf(MapFormatError, source, lineNum, "no .section directive associated with this symbol")
		}

		f := strings.Fields(line)
		if len(f) != 2 {
			return nil, curated.Errorf(MapFormatError, source, lineNum, "malformed symbol")
		}

		offset, err := strconv.ParseUint(f[0], 16, 32)
		if err != nil {
			return nil, curated.Errorf(MapFormatError, source, lineNum, err)
		}

		// later symbols replace earlier symbols
		curSection.Add(Symbol{Offset: uint32(offset), Name: f[1]}, true)
	}

	if err := scanner.Err(); err != nil {
		return nil, curated.Errorf(MapFileError, err)
	}

	return m, nil
}

// parse a .module directive. the name part is optional
//
//	.module 27
//	.module 27, sora_melee
func parseModuleDirective(line string) (uint32, string, error) {
	s := strings.TrimSpace(strings.TrimPrefix(line, ".module"))

	var name string
	if i := strings.Index(s, ","); i >= 0 {
		name = strings.TrimSpace(s[i+1:])
		s = strings.TrimSpace(s[:i])
	}

	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, "", err
	}

	return uint32(id), name, nil
}
