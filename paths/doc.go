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


// Package paths finds the files named on the command line and prepares the
// paths of output files.
//
// A command line target can be a file or a directory. A directory is searched
// recursively for files with the required extension. For example, the
// following finds every module under the "modules" directory:
//
//	files, err := paths.Targets([]string{"modules"}, ".rel")
//
// Files named directly are always included, whatever their extension.
package paths
