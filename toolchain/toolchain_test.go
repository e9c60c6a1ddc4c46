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


package toolchain_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/reltools/reltools/curated"
	"github.com/reltools/reltools/test"
	"github.com/reltools/reltools/toolchain"
)

func script(t *testing.T, name string, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not supported")
	}
	p := filepath.Join(t.TempDir(), name)
	test.DemandSuccess(t, os.WriteFile(p, []byte("#!/bin/sh\n"+body), 0755))
	return p
}

func TestRun(t *testing.T) {
	ok := script(t, "ok", "echo hello\n")
	r, err := toolchain.Run(ok)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r.Stdout, "hello\n")

	stderr := script(t, "stderr", "echo output\necho broken >&2\n")
	r, err = toolchain.Run(stderr)
	test.ExpectSuccess(t, curated.Is(err, toolchain.ToolFailure))
	test.ExpectSuccess(t, strings.Contains(err.Error(), "broken"))
	test.ExpectEquality(t, r.Stdout, "output\n")
	test.ExpectEquality(t, r.ExitCode, 0)

	exit := script(t, "exit", "exit 3\n")
	r, err = toolchain.Run(exit)
	test.ExpectSuccess(t, curated.Is(err, toolchain.ToolFailure))
	test.ExpectEquality(t, r.ExitCode, 3)

	_, err = toolchain.Run(filepath.Join(t.TempDir(), "missing"))
	test.ExpectSuccess(t, curated.Is(err, toolchain.ToolFailure))
}

const fakeAs = `lst=""
obj=""
for a in "$@"; do
	case "$a" in
	-aln=*) lst="${a#-aln=}" ;;
	esac
done
args="$*"
while [ $# -gt 0 ]; do
	if [ "$1" = "-o" ]; then obj="$2"; fi
	shift
done
printf '   1 0000 60000000 \tnop\n' > "$lst"
echo "$args" >> "$lst"
printf 'OBJ!' > "$obj"
`

const fakeObjCopy = `cp "$3" "$4"
`

func TestGNUAssembler(t *testing.T) {
	as := toolchain.NewGNUAssembler(toolchain.Config{
		Assembler: script(t, "as", fakeAs),
		ObjCopy:   script(t, "objcopy", fakeObjCopy),
	})

	a, err := as.Assemble("nop", []string{"FOO", "BAR=2"})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(a.Code), "OBJ!")
	test.ExpectSuccess(t, strings.HasPrefix(a.Listing, "   1 0000 60000000"))
	test.ExpectSuccess(t, strings.Contains(a.Listing, "-mgekko -mregnames"))
	test.ExpectSuccess(t, strings.Contains(a.Listing, "--defsym FOO=1 --defsym BAR=2"))
}

func TestGNUAssemblerFailure(t *testing.T) {
	as := toolchain.NewGNUAssembler(toolchain.Config{
		Assembler: script(t, "as", "echo 'source.s:1: Error: unknown pseudo-op' >&2\nexit 1\n"),
		ObjCopy:   script(t, "objcopy", fakeObjCopy),
	})

	_, err := as.Assemble(".bogus", nil)
	test.ExpectSuccess(t, curated.Is(err, toolchain.ToolFailure))
	test.ExpectSuccess(t, strings.Contains(err.Error(), "unknown pseudo-op"))
}

func TestVDAPPC(t *testing.T) {
	disasm := toolchain.NewVDAPPC(toolchain.Config{
		Disassembler: script(t, "vdappc", "printf '00000000: 7c0802a6\\tmflr\\tr0\\n\\n00000004: 4e800020\\tblr\\n'\n"),
	})

	lines, err := disasm.Disassemble(make([]byte, 8))
	test.DemandSuccess(t, err)
	test.ExpectDeepEquality(t, lines, []string{"mflr r0", "blr"})

	// wrong number of lines for the amount of code
	_, err = disasm.Disassemble(make([]byte, 12))
	test.ExpectSuccess(t, curated.Is(err, toolchain.ToolFailure))
}

func TestParseDisassembly(t *testing.T) {
	lines := toolchain.ParseDisassembly("  stw\tr31, 28(r1)  \n\nb 0x10\n")
	test.ExpectDeepEquality(t, lines, []string{"stw r31, 28(r1)", "b 0x10"})
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv(toolchain.EnvAssembler, "/opt/as")
	t.Setenv(toolchain.EnvObjCopy, "")

	cfg := toolchain.DefaultConfig()
	test.ExpectEquality(t, cfg.Assembler, "/opt/as")
	test.ExpectEquality(t, cfg.ObjCopy, "lib/powerpc-eabi-objcopy")
}
