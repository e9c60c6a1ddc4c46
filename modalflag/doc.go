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


// Package modalflag is a wrapper for the pflag package. It provides a
// convenient method of handling program modes and allows different flags for
// each mode.
//
// Whereas with pflag.FlagSet you call Parse() with the array of strings as the
// only argument, with modalflag you first call NewArgs() with the array of
// arguments and then Parse() with no arguments. For example:
//
//	md = Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	_, _ = md.Parse()
//
// Modes are added with AddSubModes(). The first sub-mode is the default. After
// Parse() the selected mode is returned by Mode(). The program then calls
// NewMode(), adds the flags for that mode and calls Parse() again. Arguments
// are consumed as they are parsed so the second call to Parse() only sees the
// arguments that follow the mode.
//
//	md.NewArgs(os.Args[1:])
//	md.AddSubModes("DUMP", "BUILD")
//	_, _ = md.Parse()
//
//	switch md.Mode() {
//	case "DUMP":
//		md.NewMode()
//		output := md.AddStringP("output", "o", "dump", "output directory")
//		_, _ = md.Parse()
//		...
//	}
//
// The mode argument is matched without regard to case. If the first argument
// is not a mode, or if it is a flag that is not recognised at the current
// level, then the default mode is selected and the argument is left for the
// next call to Parse(). Flags and arguments can be freely mixed once the mode
// has been selected.
package modalflag
