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


package builder_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reltools/reltools/builder"
	"github.com/reltools/reltools/curated"
	"github.com/reltools/reltools/logger"
	"github.com/reltools/reltools/moduleinfo"
	"github.com/reltools/reltools/rel"
	"github.com/reltools/reltools/reltag"
	"github.com/reltools/reltools/symbols"
	"github.com/reltools/reltools/test"
	"github.com/reltools/reltools/toolchain"
)

// fakeAssembler returns each of its outputs in turn
type fakeAssembler struct {
	outputs []toolchain.Assembly
	sources []string
	defines [][]string
}

func (f *fakeAssembler) Assemble(source string, defines []string) (toolchain.Assembly, error) {
	f.sources = append(f.sources, source)
	f.defines = append(f.defines, defines)
	a := f.outputs[0]
	f.outputs = f.outputs[1:]
	return a, nil
}

func words(n int) []byte {
	return make([]byte, n*4)
}

// create a module descriptor with a source file for each section. an empty
// string is a null section
func descriptor(t *testing.T, id int, sources ...string) *moduleinfo.Info {
	t.Helper()

	dir := t.TempDir()
	info := moduleinfo.NewInfo("test_module", id)
	info.SetRoot(dir)

	for i, src := range sources {
		if src == "" {
			info.Sections = append(info.Sections, nil)
			continue
		}
		p := filepath.Join(dir, "section"+string(rune('0'+i))+".asm")
		test.DemandSuccess(t, os.WriteFile(p, []byte(src), 0644))
		info.Sections = append(info.Sections, &moduleinfo.Section{
			Path:      filepath.Base(p),
			SectionID: i,
			HasCode:   true,
		})
	}

	return info
}

const selfBranch = `__entry:
__exit:
__unresolved:
    b 0 # [R_PPC_REL24(27, 0, "target")]
    nop
target:
    blr
`

const selfBranchListing = "   1              \t__entry:\n" +
	"   2              \t__exit:\n" +
	"   3              \t__unresolved:\n" +
	"   4 0000 48000000 \t    b 0 #@reltag 0\n" +
	"   5 0004 60000000 \t    nop\n" +
	"   6              \ttarget:\n" +
	"   7 0008 4E800020 \t    blr\n"

func TestEndToEnd(t *testing.T) {
	info := descriptor(t, 27, selfBranch, "")
	as := &fakeAssembler{
		outputs: []toolchain.Assembly{{Code: words(3), Listing: selfBranchListing}},
	}

	b := builder.NewBuilder(info, nil, as, []string{"DEBUG"}, logger.NewLogger(100))
	m, err := b.Build()
	test.DemandSuccess(t, err)

	// tags are replaced before assembly
	test.DemandEquality(t, len(as.sources), 1)
	test.ExpectFailure(t, strings.Contains(as.sources[0], "["))
	test.ExpectSuccess(t, strings.Contains(as.sources[0], "b 0 # #@reltag 0"))
	test.ExpectDeepEquality(t, as.defines[0], []string{"DEBUG"})

	test.DemandEquality(t, len(m.Sections), 2)
	test.ExpectEquality(t, m.ID, uint32(27))
	test.ExpectEquality(t, m.Sections[0].Size, uint32(12))
	test.ExpectSuccess(t, m.Sections[0].HasCode)
	test.ExpectEquality(t, m.Sections[1].Size, uint32(0))

	cmd, ok := m.Sections[0].Relocations.Command(0)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, cmd, rel.Command{
		Type:    rel.R_PPC_REL24,
		Module:  27,
		Section: 0,
		Addend:  8,
	})
	test.ExpectEquality(t, m.Sections[0].Relocations.Len(), 1)

	test.ExpectEquality(t, m.Prolog, rel.Anchor{Section: 0, Offset: 0})
	test.ExpectEquality(t, m.Epilog, rel.Anchor{Section: 0, Offset: 0})
	test.ExpectEquality(t, m.Unresolved, rel.Anchor{Section: 0, Offset: 0})

	w := &strings.Builder{}
	test.DemandSuccess(t, b.ExportMap(w))
	test.ExpectEquality(t, w.String(), ".module 27, test_module\n"+
		".section 0\n"+
		"00000000 __entry\n"+
		"00000000 __exit\n"+
		"00000000 __unresolved\n"+
		"00000008 target\n")

	// the exported map is a valid map file
	sm, err := symbols.Parse(strings.NewReader(w.String()), "test", "")
	test.DemandSuccess(t, err)
	sym, ok := sm.GetSymbolByName(27, 0, "target")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, sym.Offset, uint32(8))
}

func TestExport(t *testing.T) {
	info := descriptor(t, 27, selfBranch, "")
	as := &fakeAssembler{
		outputs: []toolchain.Assembly{{Code: words(3), Listing: selfBranchListing}},
	}

	b := builder.NewBuilder(info, nil, as, nil, logger.NewLogger(100))
	m, err := b.Build()
	test.DemandSuccess(t, err)

	out := filepath.Join(t.TempDir(), "out")
	test.DemandSuccess(t, b.Export(m, out))

	n, err := rel.ReadFile(filepath.Join(out, "test_module.rel"))
	test.DemandSuccess(t, err)
	cmd, ok := n.Sections[0].Relocations.Command(0)
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, cmd.Addend, uint32(8))

	_, err = symbols.LoadFiles(filepath.Join(out, "test_module.map"))
	test.ExpectSuccess(t, err)
}

func TestAnchorMissing(t *testing.T) {
	const src = `__entry:
__exit:
    blr
`
	const lst = "   1              \t__entry:\n" +
		"   2              \t__exit:\n" +
		"   3 0000 4E800020 \t    blr\n"

	info := descriptor(t, 27, src)
	as := &fakeAssembler{
		outputs: []toolchain.Assembly{{Code: words(1), Listing: lst}},
	}

	_, err := builder.NewBuilder(info, nil, as, nil, logger.NewLogger(100)).Build()
	test.ExpectSuccess(t, curated.Is(err, builder.AnchorMissing))
	test.ExpectSuccess(t, strings.Contains(err.Error(), symbols.Unresolved))
}

func TestLocalLabelPrecedence(t *testing.T) {
	m, err := symbols.Parse(strings.NewReader(".module 5\n.section 1\n00000010 X\n"), "test", "")
	test.DemandSuccess(t, err)

	const src = `__entry:
__exit:
__unresolved:
    .4byte 0 # [R_PPC_ADDR32(5, 1, "X")]
    .space 28
X:
    blr
`
	const lst = "   1              \t__entry:\n" +
		"   2              \t__exit:\n" +
		"   3              \t__unresolved:\n" +
		"   4 0000 00000000 \t    .4byte 0 #@reltag 0\n" +
		"   5 0004 00000000 \t    .space 28\n" +
		"   5      00000000 \n" +
		"   6              \tX:\n" +
		"   7 0020 4E800020 \t    blr\n"

	info := descriptor(t, 5, "", src)
	as := &fakeAssembler{
		outputs: []toolchain.Assembly{{Code: words(9), Listing: lst}},
	}

	mod, err := builder.NewBuilder(info, m, as, nil, logger.NewLogger(100)).Build()
	test.DemandSuccess(t, err)

	cmd, ok := mod.Sections[1].Relocations.Command(0)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, cmd.Addend, uint32(0x20))

	// the symbol map is untouched
	sym, _ := m.GetSymbolByName(5, 1, "X")
	test.ExpectEquality(t, sym.Offset, uint32(0x10))
}

func TestSymbolMapResolution(t *testing.T) {
	m, err := symbols.Parse(strings.NewReader(".module 3, other\n.section 4\n00000040 table\n"), "test", "")
	test.DemandSuccess(t, err)

	const src = `__entry:
__exit:
__unresolved:
    lis r3, 0 # [R_PPC_ADDR16_HA("other", 4, "table")]
    addi r3, r3, 0 # [R_PPC_ADDR16_LO(3, 4, "table" + 0x8)]
    blr
`
	const lst = "   1              \t__entry:\n" +
		"   2              \t__exit:\n" +
		"   3              \t__unresolved:\n" +
		"   4 0000 3C600000 \t    lis r3, 0 #@reltag 0\n" +
		"   5 0004 38630000 \t    addi r3, r3, 0 #@reltag 1\n" +
		"   6 0008 4E800020 \t    blr\n"

	info := descriptor(t, 9, src)
	as := &fakeAssembler{
		outputs: []toolchain.Assembly{{Code: words(3), Listing: lst}},
	}

	mod, err := builder.NewBuilder(info, m, as, nil, logger.NewLogger(100)).Build()
	test.DemandSuccess(t, err)

	cmd, ok := mod.Sections[0].Relocations.Command(0)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, cmd, rel.Command{Type: rel.R_PPC_ADDR16_HA, Module: 3, Section: 4, Addend: 0x40})

	cmd, ok = mod.Sections[0].Relocations.Command(1)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, cmd.Addend, uint32(0x48))
}

func TestNumericLabels(t *testing.T) {
	const src = `__entry:
__exit:
__unresolved:
1:
    b 1b
loc_4:
    blr
`
	const lst = "   1              \t__entry:\n" +
		"   2              \t__exit:\n" +
		"   3              \t__unresolved:\n" +
		"   4              \t1:\n" +
		"   5 0000 48000000 \t    b 1b\n" +
		"   6              \tloc_4:\n" +
		"   7 0004 4E800020 \t    blr\n"

	info := descriptor(t, 27, src)
	as := &fakeAssembler{
		outputs: []toolchain.Assembly{{Code: words(2), Listing: lst}},
	}

	b := builder.NewBuilder(info, nil, as, nil, logger.NewLogger(100))
	_, err := b.Build()
	test.DemandSuccess(t, err)

	_, ok := b.Lookup(symbols.Mangle(27, 0, "1"))
	test.ExpectFailure(t, ok)

	// loc_ labels are usable but are not exported from code sections
	o, ok := b.Lookup(symbols.Mangle(27, 0, "loc_4"))
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, o, uint32(4))

	w := &strings.Builder{}
	test.DemandSuccess(t, b.ExportMap(w))
	test.ExpectFailure(t, strings.Contains(w.String(), " 1\n"))
	test.ExpectFailure(t, strings.Contains(w.String(), "loc_4"))
}

func TestUnresolvedTag(t *testing.T) {
	const src = `__entry:
__exit:
__unresolved:
    bl 0 # [R_PPC_REL24(0, 1, "OSReport")]
`
	const lst = "   1              \t__entry:\n" +
		"   2              \t__exit:\n" +
		"   3              \t__unresolved:\n" +
		"   4 0000 48000001 \t    bl 0 #@reltag 0\n"

	info := descriptor(t, 27, src)
	as := &fakeAssembler{
		outputs: []toolchain.Assembly{{Code: words(1), Listing: lst}},
	}

	_, err := builder.NewBuilder(info, symbols.NewMap(), as, nil, logger.NewLogger(100)).Build()
	test.ExpectSuccess(t, curated.Is(err, builder.BuildError))
	test.ExpectSuccess(t, curated.Has(err, reltag.UnresolvedSymbol))
	test.ExpectSuccess(t, strings.Contains(err.Error(), "OSReport"))
}

func TestMalformedTag(t *testing.T) {
	info := descriptor(t, 27, "__entry:\n    nop # [R_PPC_BOGUS(0, 1, \"x\")]\n")
	as := &fakeAssembler{}

	_, err := builder.NewBuilder(info, nil, as, nil, logger.NewLogger(100)).Build()
	test.ExpectSuccess(t, curated.Has(err, reltag.MalformedTag))

	// the assembler was never run
	test.ExpectEquality(t, len(as.sources), 0)
}

func TestInclude(t *testing.T) {
	info := descriptor(t, 27, ".include \"anchors.inc\"\n    blr\n")
	test.DemandSuccess(t, os.WriteFile(filepath.Join(info.Root(), "anchors.inc"),
		[]byte("__entry:\n__exit:\n__unresolved:\n"), 0644))

	const lst = "   1              \t__entry:\n" +
		"   2              \t__exit:\n" +
		"   3              \t__unresolved:\n" +
		"   4 0000 4E800020 \t    blr\n"

	as := &fakeAssembler{
		outputs: []toolchain.Assembly{{Code: words(1), Listing: lst}},
	}

	m, err := builder.NewBuilder(info, nil, as, nil, logger.NewLogger(100)).Build()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, as.sources[0], "__entry:\n__exit:\n__unresolved:\n    blr\n")
	test.ExpectEquality(t, m.Unresolved, rel.Anchor{Section: 0, Offset: 0})
}

func TestSectionTypes(t *testing.T) {
	info := descriptor(t, 27, "__entry:\n__exit:\n__unresolved:\n    blr\n", "    .space 16\n")
	info.Sections[0].Expand = true
	info.Sections[0].ExpandSize = 8
	info.Sections[1].HasCode = false
	info.Sections[1].IsBSS = true

	as := &fakeAssembler{
		outputs: []toolchain.Assembly{
			{Code: words(1), Listing: "   4 0000 4E800020 \t    blr\n"},
			{Code: words(4), Listing: "   1 0000 00000000 \t    .space 16\n"},
		},
	}

	m, err := builder.NewBuilder(info, nil, as, nil, logger.NewLogger(100)).Build()
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, m.Sections[0].ExpandSize, uint32(8))
	test.ExpectSuccess(t, m.Sections[1].IsBSS)
	test.ExpectEquality(t, m.BSSSize(), uint32(16))

	data, err := m.Bytes()
	test.DemandSuccess(t, err)
	n, err := rel.Read(data)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, n.Sections[0].Size, uint32(12))
}
