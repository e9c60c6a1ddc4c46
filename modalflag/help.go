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


package modalflag

import (
	"fmt"
	"strings"
)

// help prints the flags and sub-modes for the current mode.
func (md *Modes) help() {
	usages := md.flags.FlagUsages()

	if usages == "" && len(md.subModes) == 0 {
		fmt.Fprint(md.Output, "No help available")
		if md.Path() != "" {
			fmt.Fprintf(md.Output, " for %s", md.Path())
		}
		fmt.Fprintln(md.Output)
		return
	}

	if md.Path() != "" {
		fmt.Fprintf(md.Output, "Usage for %s mode:\n", md.Path())
	} else {
		fmt.Fprintln(md.Output, "Usage:")
	}

	fmt.Fprint(md.Output, usages)

	if len(md.subModes) > 0 {
		if usages != "" {
			fmt.Fprintln(md.Output)
		}
		fmt.Fprintf(md.Output, "  available sub-modes: %s\n", strings.Join(md.subModes, ", "))
		fmt.Fprintf(md.Output, "    default: %s\n", md.subModes[0])
	}

	if md.additionalHelp != "" {
		fmt.Fprintln(md.Output)
		fmt.Fprintln(md.Output, md.additionalHelp)
	}
}
