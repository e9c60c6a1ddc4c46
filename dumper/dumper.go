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


package dumper

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/reltools/reltools/curated"
	"github.com/reltools/reltools/logger"
	"github.com/reltools/reltools/moduleinfo"
	"github.com/reltools/reltools/ppc"
	"github.com/reltools/reltools/rel"
	"github.com/reltools/reltools/reltag"
	"github.com/reltools/reltools/symbols"
	"github.com/reltools/reltools/toolchain"
)

// Sentinal error patterns.
const (
	DumpError = "dumper: %s: %v"
)

// the tag used for log entries
const logTag = "dumper"

// Options change what the dumper produces.
type Options struct {
	// detect null terminated strings in data sections
	DumpStrings bool

	// detect floating point values in data sections
	DumpFloats bool

	// name the section files after the conventional section names
	UseSectionNames bool
}

// the conventional names of the sections of a module
var sectionNames = []string{
	"init",
	"text",
	"ctors",
	"dtors",
	"rodata",
	"data",
	"bss",
}

// width of the instruction column in code sections and of the data column in
// data sections. relocation tags follow the column
const (
	codeColumn = 60
	dataColumn = 30
)

// Dumper dumps one module.
type Dumper struct {
	module *rel.Module
	name   string
	disasm toolchain.Disassembler
	opts   Options
	log    *logger.Logger

	// layer over the shared symbol map. holds the synthetic labels for
	// referenced words that have no name
	symbols *symbols.Map

	// anchor labels keyed by location
	anchors map[rel.Anchor][]string
}

// NewDumper is the preferred method of initialisation for the Dumper type.
//
// The symbol map is not modified by the Dumper and can be shared with other
// Dumpers. It can be nil.
func NewDumper(module *rel.Module, name string, m *symbols.Map, disasm toolchain.Disassembler, opts Options, log *logger.Logger) *Dumper {
	d := &Dumper{
		module:  module,
		name:    name,
		disasm:  disasm,
		opts:    opts,
		log:     log,
		symbols: m.Layer(),
		anchors: make(map[rel.Anchor][]string),
	}

	d.anchors[module.Prolog] = append(d.anchors[module.Prolog], symbols.Entry)
	d.anchors[module.Epilog] = append(d.anchors[module.Epilog], symbols.Exit)
	d.anchors[module.Unresolved] = append(d.anchors[module.Unresolved], symbols.Unresolved)

	// referenced words without a usable name get a synthetic label
	for _, s := range module.Sections {
		for i := range s.NumWords() {
			if !s.Relocations.IsReferenced(i) {
				continue // for loop
			}
			o := uint32(i * 4)
			if sym, ok := m.GetSymbol(module.ID, s.Index, o); !ok || symbols.IsAnchor(sym.Name) {
				d.symbols.AddSymbol(module.ID, s.Index, o, reltag.LocLabel(o), true)
			}
		}
	}

	return d
}

// sectionFile returns the name of the source file for the section
func (d *Dumper) sectionFile(index int) string {
	if d.opts.UseSectionNames && index < len(sectionNames) {
		return sectionNames[index] + ".asm"
	}
	return fmt.Sprintf("Section[%d].asm", index)
}

// Dump writes the source of every section and the module descriptor to the
// output directory. The descriptor is named after the module.
func (d *Dumper) Dump(outputDir string) (*moduleinfo.Info, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, curated.Errorf(DumpError, d.name, err)
	}

	d.log.Logf(logger.Allow, logTag, "dumping %s (module %d) to %s", d.name, d.module.ID, outputDir)

	info := moduleinfo.NewInfo(d.name, int(d.module.ID))
	info.Version = int(d.module.Version)
	info.ModuleAlign = int(d.module.ModuleAlign)
	info.BSSAlign = int(d.module.BSSAlign)
	info.FixSize = int(d.module.FixSize)
	info.SetRoot(outputDir)

	if len(d.module.Sections) == 0 {
		return nil, curated.Errorf(DumpError, d.name, "module has no sections")
	}

	for _, s := range d.module.Sections {
		if s.Size == 0 {
			info.Sections = append(info.Sections, nil)
			continue // for loop
		}

		si := &moduleinfo.Section{
			Path:       d.sectionFile(s.Index),
			SectionID:  s.Index,
			HasCode:    s.HasCode,
			IsBSS:      s.IsBSS,
			ExpandSize: int(s.ExpandSize),
		}
		info.Sections = append(info.Sections, si)

		if err := d.dumpSectionFile(s, info.SectionPath(si)); err != nil {
			return nil, err
		}
	}

	if err := info.Save(filepath.Join(outputDir, d.name+".json")); err != nil {
		return nil, curated.Errorf(DumpError, d.name, err)
	}

	return info, nil
}

func (d *Dumper) dumpSectionFile(s *rel.Section, path string) error {
	d.log.Logf(logger.Allow, logTag, "section %d: %s", s.Index, path)

	f, err := os.Create(path)
	if err != nil {
		return curated.Errorf(DumpError, d.name, err)
	}
	defer f.Close()

	if err := d.DumpSection(f, s); err != nil {
		return err
	}

	return f.Close()
}

// DumpSection writes the source for a single section.
func (d *Dumper) DumpSection(w io.Writer, s *rel.Section) error {
	bw := bufio.NewWriter(w)

	var err error
	if s.HasCode && !s.IsBSS {
		err = d.dumpCode(bw, s)
	} else {
		err = d.dumpData(bw, s)
	}
	if err != nil {
		return err
	}

	if err := bw.Flush(); err != nil {
		return curated.Errorf(DumpError, d.name, err)
	}

	return nil
}

// writeLabels writes the label lines for the word at the index.
func (d *Dumper) writeLabels(w io.Writer, s *rel.Section, index int) {
	o := uint32(index * 4)
	for _, a := range d.anchors[rel.Anchor{Section: s.Index, Offset: o}] {
		fmt.Fprintf(w, "%s:\n", a)
	}
	if sym, ok := d.symbols.GetSymbol(d.module.ID, s.Index, o); ok && !symbols.IsAnchor(sym.Name) {
		fmt.Fprintf(w, "%s:\n", sym.Name)
	}
}

// hasLabel returns true if the word at the index will have a label
func (d *Dumper) hasLabel(s *rel.Section, index int) bool {
	o := uint32(index * 4)
	if len(d.anchors[rel.Anchor{Section: s.Index, Offset: o}]) > 0 {
		return true
	}
	_, ok := d.symbols.GetSymbol(d.module.ID, s.Index, o)
	return ok
}

// name returns the name for the offset in the module/section. anchors cannot
// be referred to by name so a synthetic label is used instead.
func (d *Dumper) nameFor(module uint32, section int, offset uint32) string {
	if sym, ok := d.symbols.GetSymbol(module, section, offset); ok && !symbols.IsAnchor(sym.Name) {
		return sym.Name
	}
	return reltag.LocLabel(offset)
}

// tag returns the relocation tag for the command. the target is named at the
// word boundary and any remainder is expressed as an addition.
func (d *Dumper) tag(cmd rel.Command) string {
	aligned := cmd.Addend &^ 0x03

	t := reltag.Tag{
		Type:    cmd.Type,
		Module:  cmd.Module,
		Section: cmd.Section,
		Label:   d.nameFor(cmd.Module, cmd.Section, aligned),
	}
	if cmd.Addend != aligned {
		t.Expression = fmt.Sprintf("+ %d", cmd.Addend-aligned)
	}

	return t.Format(d.symbols)
}

func (d *Dumper) dumpCode(w io.Writer, s *rel.Section) error {
	lines, err := d.disasm.Disassemble(s.Data[:s.NumWords()*4])
	if err != nil {
		return curated.Errorf(DumpError, d.name, err)
	}
	if len(lines) != s.NumWords() {
		return curated.Errorf(DumpError, d.name,
			curated.Errorf("section %d: %d lines of disassembly for %d words", s.Index, len(lines), s.NumWords()))
	}

	for i := range s.NumWords() {
		d.writeLabels(w, s, i)

		op := lines[i]
		if b, ok := ppc.DecodeBranch(s.Word(i)); ok && !b.Absolute {
			op = d.branchOperand(s, i, b, op)
		}

		if cmd, ok := s.Relocations.Command(i); ok {
			fmt.Fprintf(w, "    %-*s%s\n", codeColumn, op, d.tag(cmd))
		} else {
			fmt.Fprintf(w, "    %s\n", op)
		}
	}

	return nil
}

// branchOperand replaces the target address in the disassembled branch
// instruction with the name of the target.
func (d *Dumper) branchOperand(s *rel.Section, index int, b ppc.Branch, op string) string {
	target := b.Target(uint32(index * 4))
	if target >= s.Size {
		d.log.Logf(logger.Allow, logTag, "section %d: %#x: branch target %#x outside of section", s.Index, index*4, target)
		return op
	}

	start, end, ok := findAddress(op, target)
	if !ok {
		d.log.Logf(logger.Allow, logTag, "section %d: %#x: cannot find branch target %#x in %q", s.Index, index*4, target, op)
		return op
	}

	return op[:start] + d.nameFor(d.module.ID, s.Index, target) + op[end:]
}

// findAddress returns the position of the address in the text. the address
// must be written in hexadecimal with a 0x prefix.
func findAddress(text string, addr uint32) (int, int, bool) {
	lower := strings.ToLower(text)
	needle := fmt.Sprintf("0x%x", addr)

	from := 0
	for {
		i := strings.Index(lower[from:], needle)
		if i < 0 {
			return 0, 0, false
		}
		start := from + i
		end := start + len(needle)
		if end == len(lower) || !isHexDigit(lower[end]) {
			return start, end, true
		}
		from = end
	}
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
}

func (d *Dumper) dumpData(w io.Writer, s *rel.Section) error {
	data := s.Bytes()

	for i := 0; i < s.NumWords(); i++ {
		d.writeLabels(w, s, i)

		var str string
		var align bool

		if d.opts.DumpStrings {
			var n int
			str, n, align = d.detectString(s, data, i)
			if str != "" {
				i += n - 1
			}
		}
		if str == "" && d.opts.DumpFloats {
			str = d.detectFloat(s, data, i)
		}
		if str == "" {
			str = fmt.Sprintf("    .4byte 0x%08X", s.Word(i))
		}

		if cmd, ok := s.Relocations.Command(i); ok {
			fmt.Fprintf(w, "    %-*s%s\n", dataColumn, str, d.tag(cmd))
		} else {
			fmt.Fprintf(w, "    %s\n", str)
		}

		if align {
			fmt.Fprintln(w, "        .balign 4")
		}
	}

	return nil
}
