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


package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bradleyjkemp/memviz"

	"github.com/reltools/reltools/batch"
	"github.com/reltools/reltools/builder"
	"github.com/reltools/reltools/curated"
	"github.com/reltools/reltools/dumper"
	"github.com/reltools/reltools/logger"
	"github.com/reltools/reltools/modalflag"
	"github.com/reltools/reltools/moduleinfo"
	"github.com/reltools/reltools/paths"
	"github.com/reltools/reltools/rel"
	"github.com/reltools/reltools/statsview"
	"github.com/reltools/reltools/symbols"
	"github.com/reltools/reltools/toolchain"
	"github.com/reltools/reltools/version"
)

// the tag used for entries in the central log
const logTag = "reltools"

// exit values
const (
	exitOK         = 0
	exitUsage      = 10
	exitModeFailed = 20
)

func main() {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(os.Args[1:])
	os.Exit(launch(md, os.Stderr))
}

func launch(md *modalflag.Modes, stderr io.Writer) int {
	errOut := logger.NewColorizer(stderr)

	md.AddSubModes("DUMP", "BUILD", "GENMAP")
	showVersion := md.AddBool("version", false, "print version and exit")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		return exitOK

	case modalflag.ParseError:
		fmt.Fprintf(errOut, "* error: %v\n", err)
		return exitUsage
	}

	if *showVersion {
		fmt.Fprintln(md.Output, version.String())
		return exitOK
	}

	switch md.Mode() {
	case "DUMP":
		err = dump(md, errOut)
	case "BUILD":
		err = build(md, errOut)
	case "GENMAP":
		err = genmap(md, errOut)
	}

	if err != nil {
		fmt.Fprintf(errOut, "* error in %s mode: %v\n", md, err)
		return exitModeFailed
	}

	return exitOK
}

// options common to every mode
type common struct {
	output    *string
	maps      *[]string
	jobs      *int
	echo      *bool
	memviz    *string
	statsview *bool
	as        *string
	objcopy   *string
	disasm    *string
}

func addCommon(md *modalflag.Modes, defaultOutput string) *common {
	cfg := toolchain.DefaultConfig()

	return &common{
		output:    md.AddStringP("output", "o", defaultOutput, "output directory"),
		maps:      md.AddStringArrayP("map", "m", nil, "symbol map file or directory of map files (repeatable)"),
		jobs:      md.AddIntP("jobs", "j", 1, "number of targets to process at once"),
		echo:      md.AddBool("echo", false, "echo log entries to the terminal"),
		memviz:    md.AddString("memviz", "", "write a graph of the loaded symbol map to file or directory"),
		statsview: md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsviewHelp())),
		as:        md.AddString("as", cfg.Assembler, fmt.Sprintf("assembler (env %s)", toolchain.EnvAssembler)),
		objcopy:   md.AddString("objcopy", cfg.ObjCopy, fmt.Sprintf("objcopy (env %s)", toolchain.EnvObjCopy)),
		disasm:    md.AddString("disasm", cfg.Disassembler, fmt.Sprintf("disassembler (env %s)", toolchain.EnvDisassembler)),
	}
}

func statsviewHelp() string {
	if statsview.Available() {
		return "available"
	}
	return "not available in this build"
}

func (c *common) config() toolchain.Config {
	return toolchain.Config{
		Assembler:    *c.as,
		ObjCopy:      *c.objcopy,
		Disassembler: *c.disasm,
	}
}

// setup acts on the common options and loads the symbol map. the map is
// read-only once it has been returned.
func (c *common) setup(stdout io.Writer) (*symbols.Map, error) {
	if *c.echo {
		logger.SetEcho(os.Stderr)
	}

	if *c.statsview {
		statsview.Launch(stdout)
	}

	files, err := paths.Targets(*c.maps, ".map")
	if err != nil {
		return nil, err
	}

	m, err := symbols.LoadFiles(files...)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		logger.Logf(logger.Allow, logTag, "loaded map %s", f)
	}

	if *c.memviz != "" {
		if err := writeMemviz(*c.memviz, m); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// writeMemviz writes the graph to path. if path is a directory the graph is
// written to a uniquely named file in it.
func writeMemviz(path string, m *symbols.Map) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, paths.UniqueFilename("memviz", "symbols", "dot"))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	memviz.Map(f, m)
	logger.Logf(logger.Allow, logTag, "symbol map graph written to %s", path)

	return f.Close()
}

// run the job for every target and report the failures
func (c *common) run(targets []string, errOut io.Writer, job batch.Job) error {
	if len(targets) == 0 {
		return curated.Errorf("no targets")
	}

	opts := batch.Options{
		Jobs: *c.jobs,
		Done: func(target string, log *logger.Logger, err error) {
			if err != nil {
				log.Tail(errOut, 5)
			}
		},
	}

	echo := *c.echo
	err := batch.Run(targets, opts, func(target string, log *logger.Logger) error {
		if echo {
			log.SetEcho(os.Stderr)
		}
		return job(target, log)
	})

	errs := batch.Errors(err)
	for _, e := range errs {
		fmt.Fprintf(errOut, "* %v\n", e)
	}

	logger.Logf(logger.Allow, logTag, "%d of %d targets succeeded", len(targets)-len(errs), len(targets))
	if len(errs) > 0 {
		return curated.Errorf("%d of %d targets failed", len(errs), len(targets))
	}

	return nil
}

func dump(md *modalflag.Modes, errOut io.Writer) error {
	md.NewMode()
	md.AdditionalHelp("targets are .rel files or directories containing .rel files")

	c := addCommon(md, "dump")
	var opts dumper.Options
	dumpStrings := md.AddBool("strings", false, "detect null terminated strings in data sections")
	dumpFloats := md.AddBool("floats", false, "detect floating point values in data sections")
	sectionNames := md.AddBool("section-names", false, "name section files after the conventional section names")

	p, err := md.Parse()
	if p != modalflag.ParseContinue {
		return err
	}

	opts.DumpStrings = *dumpStrings
	opts.DumpFloats = *dumpFloats
	opts.UseSectionNames = *sectionNames

	targets, err := paths.Targets(md.RemainingArgs(), ".rel")
	if err != nil {
		return err
	}

	m, err := c.setup(md.Output)
	if err != nil {
		return err
	}

	disasm := toolchain.NewVDAPPC(c.config())
	output := *c.output

	return c.run(targets, errOut, func(target string, log *logger.Logger) error {
		module, err := rel.ReadFile(target)
		if err != nil {
			return err
		}

		name := paths.BaseName(target)
		d := dumper.NewDumper(module, name, m, disasm, opts, log)
		_, err = d.Dump(filepath.Join(output, name))
		return err
	})
}

func build(md *modalflag.Modes, errOut io.Writer) error {
	md.NewMode()
	md.AdditionalHelp("targets are module descriptors (.json) or directories containing them")

	c := addCommon(md, "build")
	defines := md.AddStringArrayP("def", "d", nil, "preprocessor symbol, as NAME or NAME=VALUE (repeatable)")
	verbose := md.AddBoolP("verbose", "v", false, "log each step of the build")

	p, err := md.Parse()
	if p != modalflag.ParseContinue {
		return err
	}

	targets, err := paths.Targets(md.RemainingArgs(), ".json")
	if err != nil {
		return err
	}

	m, err := c.setup(md.Output)
	if err != nil {
		return err
	}

	as := toolchain.NewGNUAssembler(c.config())
	output := *c.output

	return c.run(targets, errOut, func(target string, log *logger.Logger) error {
		info, err := moduleinfo.Load(target)
		if err != nil {
			return err
		}

		b := builder.NewBuilder(info, m, as, *defines, log)
		b.SetVerbose(*verbose)

		module, err := b.Build()
		if err != nil {
			return err
		}

		return b.Export(module, output)
	})
}

func genmap(md *modalflag.Modes, errOut io.Writer) error {
	md.NewMode()
	md.AdditionalHelp("targets are .rel files or directories containing .rel files")

	c := addCommon(md, "maps")

	p, err := md.Parse()
	if p != modalflag.ParseContinue {
		return err
	}

	targets, err := paths.Targets(md.RemainingArgs(), ".rel")
	if err != nil {
		return err
	}

	if _, err := c.setup(md.Output); err != nil {
		return err
	}

	output := *c.output
	if err := os.MkdirAll(output, 0755); err != nil {
		return err
	}

	return c.run(targets, errOut, func(target string, log *logger.Logger) error {
		module, err := rel.ReadFile(target)
		if err != nil {
			return err
		}

		path := filepath.Join(output, paths.BaseName(target)+".map")
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := dumper.GenerateMap(module, f); err != nil {
			return err
		}
		log.Logf(logger.Allow, logTag, "wrote %s", path)

		return f.Close()
	})
}
