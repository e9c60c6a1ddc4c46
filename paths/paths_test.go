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


package paths_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/reltools/reltools/curated"
	"github.com/reltools/reltools/paths"
	"github.com/reltools/reltools/test"
)

func touch(t *testing.T, p string) {
	t.Helper()
	test.DemandSuccess(t, os.MkdirAll(filepath.Dir(p), 0755))
	test.DemandSuccess(t, os.WriteFile(p, nil, 0644))
}

func TestTargets(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.rel"))
	touch(t, filepath.Join(dir, "a.REL"))
	touch(t, filepath.Join(dir, "sub", "c.rel"))
	touch(t, filepath.Join(dir, "sub", "c.json"))
	touch(t, filepath.Join(dir, "notes.txt"))

	single := filepath.Join(dir, "notes.txt")

	files, err := paths.Targets([]string{single, dir, filepath.Join(dir, "b.rel")}, ".rel")
	test.DemandSuccess(t, err)
	test.ExpectDeepEquality(t, files, []string{
		single,
		filepath.Join(dir, "a.REL"),
		filepath.Join(dir, "b.rel"),
		filepath.Join(dir, "sub", "c.rel"),
	})

	files, err = paths.Targets([]string{dir}, ".json")
	test.DemandSuccess(t, err)
	test.ExpectDeepEquality(t, files, []string{filepath.Join(dir, "sub", "c.json")})
}

func TestMissingTarget(t *testing.T) {
	_, err := paths.Targets([]string{filepath.Join(t.TempDir(), "missing")}, ".rel")
	test.ExpectSuccess(t, curated.Is(err, paths.TargetError))
}

func TestBaseName(t *testing.T) {
	test.ExpectEquality(t, paths.BaseName("/a/b/mod.rel"), "mod")
	test.ExpectEquality(t, paths.BaseName("mod"), "mod")
}

func TestUniqueFilename(t *testing.T) {
	n := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)
	test.ExpectEquality(t, paths.UniqueFilenameAt(n, "memviz", "maps", ".dot"), "memviz_maps_20240309_140506.dot")
	test.ExpectEquality(t, paths.UniqueFilenameAt(n, "memviz", " ", ""), "memviz_20240309_140506")
}
