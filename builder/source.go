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
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/reltools/reltools/curated"
)

var includeDirective = regexp.MustCompile(`^\s*\.include\s+"([^"]+)"`)

// readSource returns the lines of the file with every .include directive
// replaced by the lines of the included file.
//
// There is no protection against an include cycle.
func readSource(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, curated.Errorf(BuildError, path, err)
	}
	defer f.Close()

	var lines []string

	scanner := bufio.NewScanner(f)
	scanner.Buffer(nil, 1024*1024)
	for scanner.Scan() {
		l := strings.TrimRight(scanner.Text(), "\r")

		if m := includeDirective.FindStringSubmatch(l); m != nil {
			inc, err := readSource(includePath(path, m[1]))
			if err != nil {
				return nil, err
			}
			lines = append(lines, inc...)
			continue // for loop
		}

		lines = append(lines, l)
	}

	if err := scanner.Err(); err != nil {
		return nil, curated.Errorf(BuildError, path, err)
	}

	return lines, nil
}

// includePath resolves the included path relative to the including file. If
// no such file exists the included path is used as it is.
func includePath(from string, inc string) string {
	if filepath.IsAbs(inc) {
		return inc
	}
	p := filepath.Join(filepath.Dir(from), inc)
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return inc
}

// label definitions at the start of a line
var labelDefinition = regexp.MustCompile(`^\s*([A-Za-z_.$][\w.$]*|\d+)\s*:`)

// parseLabel returns the label defined by the line, if any.
func parseLabel(line string) (string, bool) {
	m := labelDefinition.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// isNumeric is true for the assembler's anonymous local labels
func isNumeric(label string) bool {
	for _, c := range label {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(label) > 0
}
