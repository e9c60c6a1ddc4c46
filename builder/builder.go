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
	"fmt"
	"strings"

	"github.com/reltools/reltools/curated"
	"github.com/reltools/reltools/listing"
	"github.com/reltools/reltools/logger"
	"github.com/reltools/reltools/moduleinfo"
	"github.com/reltools/reltools/rel"
	"github.com/reltools/reltools/reltag"
	"github.com/reltools/reltools/symbols"
	"github.com/reltools/reltools/toolchain"
)

// Sentinal error patterns.
const (
	AnchorMissing = "builder: anchor missing: %s"
	BuildError    = "builder: %s: %v"
)

// the tag used for log entries
const logTag = "builder"

// marker comment that replaces a relocation tag in the assembly source
const tagMarker = "#@reltag %d"

// label is a label defined by the module being built.
type label struct {
	name    string
	section int
	offset  uint32

	// the position in the source of the section. used to keep the exported
	// map stable when more than one label has the same offset
	line int
}

// pendingTag is a relocation tag found in the source of a section. it is
// resolved once every section has been assembled.
type pendingTag struct {
	section int
	line    int
	text    string
	offset  uint32
}

// section is the result of assembling one section.
type section struct {
	info  *moduleinfo.Section
	path  string
	lines []string
	code  []byte
}

// Builder builds one module.
type Builder struct {
	info    *moduleinfo.Info
	symbols *symbols.Map
	as      toolchain.Assembler
	defines []string
	log     *logger.Logger

	// verbose logging of progress through the build
	verbose logger.Permission

	// labels keyed by mangled name. anchors are keyed by their plain name
	labels map[string]label

	// labels in the order they were defined
	order []string

	tags     []pendingTag
	sections map[int]*section
}

// NewBuilder is the preferred method of initialisation for the Builder type.
//
// The symbol map is not modified by the Builder and can be shared with other
// Builders. It can be nil.
func NewBuilder(info *moduleinfo.Info, m *symbols.Map, as toolchain.Assembler, defines []string, log *logger.Logger) *Builder {
	return &Builder{
		info:     info,
		symbols:  m,
		as:       as,
		defines:  defines,
		log:      log,
		verbose:  logger.Verbosity(false),
		labels:   make(map[string]label),
		sections: make(map[int]*section),
	}
}

// SetVerbose turns on logging of each step of the build.
func (b *Builder) SetVerbose(verbose bool) {
	b.verbose = logger.Verbosity(verbose)
}

// Lookup implements the reltag.Labels interface.
func (b *Builder) Lookup(mangled string) (uint32, bool) {
	l, ok := b.labels[mangled]
	return l.offset, ok
}

// Build assembles every section of the module, resolves the relocation tags
// and returns the linked module.
func (b *Builder) Build() (*rel.Module, error) {
	b.log.Logf(logger.Allow, logTag, "building %s (module %d)", b.info.Name, b.info.ModuleID)

	for _, s := range b.info.Sections {
		if s == nil {
			continue // for loop
		}
		if err := b.assemble(s); err != nil {
			return nil, err
		}
	}

	m := rel.NewModule(uint32(b.info.ModuleID), uint32(b.info.Version))
	m.ModuleAlign = uint32(b.info.ModuleAlign)
	m.BSSAlign = uint32(b.info.BSSAlign)
	m.FixSize = uint32(b.info.FixSize)

	// every entry in the section table needs a section, even if it is empty
	for i, s := range b.info.Sections {
		if s == nil {
			m.Sections = append(m.Sections, rel.NewSection(i, nil))
			continue // for loop
		}

		sec := b.sections[i]

		var rs *rel.Section
		if s.IsBSS {
			rs = rel.NewBSSSection(i, uint32(len(sec.code)))
		} else {
			rs = rel.NewSection(i, sec.code)
			rs.HasCode = s.HasCode
		}
		if s.Expand {
			rs.ExpandSize = uint32(s.ExpandSize)
		}

		m.Sections = append(m.Sections, rs)
	}

	if err := b.link(m); err != nil {
		return nil, err
	}

	var err error
	if m.Prolog, err = b.anchor(symbols.Entry); err != nil {
		return nil, err
	}
	if m.Epilog, err = b.anchor(symbols.Exit); err != nil {
		return nil, err
	}
	if m.Unresolved, err = b.anchor(symbols.Unresolved); err != nil {
		return nil, err
	}

	m.Link()

	return m, nil
}

// assemble one section and collect its labels and relocation tags.
func (b *Builder) assemble(s *moduleinfo.Section) error {
	path := b.info.SectionPath(s)
	b.log.Logf(b.verbose, logTag, "assembling section %d: %s", s.SectionID, path)

	lines, err := readSource(path)
	if err != nil {
		return err
	}

	// replace relocation tags with a marker. the tags are resolved after
	// every section has been assembled
	src := make([]string, len(lines))
	for i, l := range lines {
		idx := reltag.Locate(l)
		if idx < 0 {
			src[i] = l
			continue // for loop
		}

		text := strings.TrimSpace(l[idx:])
		if _, err := reltag.Parse(text, b.symbols); err != nil {
			return curated.Errorf(BuildError, sourcePos(path, i), err)
		}

		src[i] = fmt.Sprintf("%s "+tagMarker, strings.TrimRight(l[:idx], " \t"), len(b.tags))
		b.tags = append(b.tags, pendingTag{
			section: s.SectionID,
			line:    i,
			text:    text,
		})
	}

	a, err := b.as.Assemble(strings.Join(src, "\n")+"\n", b.defines)
	if err != nil {
		return curated.Errorf(BuildError, path, err)
	}

	lst, err := listing.Parse(a.Listing)
	if err != nil {
		return curated.Errorf(BuildError, path, err)
	}
	offsets := lst.Offsets(len(src), uint32(len(a.Code)))

	for i := range b.tags {
		if b.tags[i].section == s.SectionID {
			b.tags[i].offset = offsets[b.tags[i].line]
		}
	}

	for i, l := range lines {
		name, ok := parseLabel(l)
		if !ok {
			continue // for loop
		}

		// anonymous labels only have meaning to the assembler
		if isNumeric(name) {
			continue // for loop
		}

		key := name
		if !symbols.IsAnchor(name) {
			key = symbols.Mangle(uint32(b.info.ModuleID), s.SectionID, name)
		}

		if prev, ok := b.labels[key]; ok {
			b.log.Logf(logger.Allow, logTag, "%s: label %s already defined in section %d", sourcePos(path, i), name, prev.section)
			continue // for loop
		}

		b.labels[key] = label{
			name:    name,
			section: s.SectionID,
			offset:  offsets[i],
			line:    i,
		}
		b.order = append(b.order, key)
	}

	b.sections[s.SectionID] = &section{
		info:  s,
		path:  path,
		lines: lines,
		code:  a.Code,
	}

	b.log.Logf(b.verbose, logTag, "section %d: %d bytes", s.SectionID, len(a.Code))

	return nil
}

// link resolves every relocation tag and installs the relocation in the
// section that the tag belongs to.
func (b *Builder) link(m *rel.Module) error {
	for _, t := range b.tags {
		sec := b.sections[t.section]
		pos := sourcePos(sec.path, t.line)

		tag, err := reltag.Parse(t.text, b.symbols)
		if err != nil {
			return curated.Errorf(BuildError, pos, err)
		}

		v, err := tag.Resolve(b, b.symbols)
		if err != nil {
			return curated.Errorf(BuildError, pos, err)
		}

		if t.offset%4 != 0 {
			b.log.Logf(logger.Allow, logTag, "%s: relocation at unaligned offset %#x", pos, t.offset)
		}

		rs, _ := m.Section(t.section)
		if rs.IsBSS {
			return curated.Errorf(BuildError, pos, "relocation in bss section")
		}
		rs.Relocations.SetCommand(int(t.offset/4), rel.Command{
			Type:    tag.Type,
			Module:  tag.Module,
			Section: tag.Section,
			Addend:  v,
		})
	}

	b.log.Logf(b.verbose, logTag, "%d relocations", len(b.tags))

	return nil
}

// anchor returns the location of one of the three anchor labels.
func (b *Builder) anchor(name string) (rel.Anchor, error) {
	l, ok := b.labels[name]
	if !ok {
		return rel.Anchor{}, curated.Errorf(AnchorMissing, name)
	}
	return rel.Anchor{Section: l.section, Offset: l.offset}, nil
}

func sourcePos(path string, line int) string {
	return fmt.Sprintf("%s:%d", path, line+1)
}
