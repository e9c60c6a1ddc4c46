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


package paths

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/reltools/reltools/curated"
)

// Sentinal error patterns.
const (
	TargetError = "paths: %s: %v"
)

// Targets expands the list of files and directories into a list of files.
// Directories are searched recursively for files ending with one of the
// extensions. Extensions are matched without regard to case.
//
// Files found in a directory are sorted. Otherwise the order of the arguments
// is preserved. A file is never listed more than once.
func Targets(args []string, ext ...string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(f string) {
		c := filepath.Clean(f)
		if !seen[c] {
			seen[c] = true
			files = append(files, c)
		}
	}

	for _, a := range args {
		info, err := os.Stat(a)
		if err != nil {
			return nil, curated.Errorf(TargetError, a, err)
		}

		if !info.IsDir() {
			add(a)
			continue // for loop
		}

		var found []string
		err = filepath.WalkDir(a, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && hasExtension(p, ext) {
				found = append(found, p)
			}
			return nil
		})
		if err != nil {
			return nil, curated.Errorf(TargetError, a, err)
		}

		slices.Sort(found)
		for _, f := range found {
			add(f)
		}
	}

	return files, nil
}

func hasExtension(p string, ext []string) bool {
	e := filepath.Ext(p)
	for _, x := range ext {
		if strings.EqualFold(e, x) {
			return true
		}
	}
	return false
}

// BaseName returns the name of the file without its directory or extension.
func BaseName(p string) string {
	b := filepath.Base(p)
	return strings.TrimSuffix(b, filepath.Ext(b))
}
