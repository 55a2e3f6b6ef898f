// Copyright 2020-2023 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command svfront is the CLI entry point wiring session, libresolve,
// preprocess, splitter, svparser, compile, elaborate, bind, and integrity
// into one run: parse-stage work fans out across pipeline.Executor, then
// compile/elaborate/bind/integrity run sequentially on the main goroutine.
//
// Grounded on standardbeagle-lci/cmd/lci/main.go's cli.App construction,
// the only example in the pack wiring urfave/cli/v2.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/svfront/svfront/bind"
	"github.com/svfront/svfront/compile"
	"github.com/svfront/svfront/elaborate"
	"github.com/svfront/svfront/fcontent"
	"github.com/svfront/svfront/ids"
	"github.com/svfront/svfront/integrity"
	"github.com/svfront/svfront/libresolve"
	"github.com/svfront/svfront/locmap"
	"github.com/svfront/svfront/pipeline"
	"github.com/svfront/svfront/preprocess"
	"github.com/svfront/svfront/reporter"
	"github.com/svfront/svfront/session"
	"github.com/svfront/svfront/splitter"
	"github.com/svfront/svfront/svparser"
	"github.com/svfront/svfront/uhdm"
	"github.com/svfront/svfront/vfs"
)

// splitThreshold is the line count above which a file is chunked by
// splitter before parsing, matching the corpus's own "only pay for this
// when the file is actually large" posture.
const splitThreshold = 2000

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	app := newApp()
	if err := app.Run(translatePlusArgs(args)); err != nil {
		if code, ok := err.(cli.ExitCoder); ok {
			fmt.Fprintln(os.Stderr, err)
			return code.ExitCode()
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitCode
}

// exitCode is set by action's own bookkeeping, since urfave/cli/v2's Action
// signature returns only an error and svfront's exit-code policy (§6: "0 on
// success; non-zero if fatal count > 0") is independent of whether an error
// was returned.
var exitCode int

func newApp() *cli.App {
	return &cli.App{
		Name:  "svfront",
		Usage: "preprocess, parse, and elaborate SystemVerilog sources into a UHDM design",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "y", Usage: "library directory, scanned for +libext+ files"},
			&cli.StringSliceFlag{Name: "v", Usage: "library file"},
			&cli.StringSliceFlag{Name: "I", Usage: "include directory"},
			&cli.StringSliceFlag{Name: "libext", Usage: "recognized library file extension, e.g. .sv"},
			&cli.StringSliceFlag{Name: "define", Usage: "NAME=VALUE macro definition"},
			&cli.StringFlag{Name: "mapfile", Usage: "library .map/.cfg file"},
			&cli.BoolFlag{Name: "sv", Usage: "force SystemVerilog parsing regardless of extension"},
			&cli.BoolFlag{Name: "fileunit", Usage: "give each file its own compilation unit"},
			&cli.BoolFlag{Name: "parseonly", Usage: "stop after parsing; do not compile/elaborate/bind"},
			&cli.BoolFlag{Name: "nostdout", Usage: "suppress diagnostic output to stdout"},
			&cli.IntFlag{Name: "mt", Usage: "parse-stage worker count", Value: 0},
			&cli.IntFlag{Name: "mp", Usage: "accepted for compatibility; folded into -mt (no separate process model)", Value: 0},
			&cli.StringFlag{Name: "o", Usage: "output directory for the elaborated design summary"},
			&cli.StringFlag{Name: "l", Usage: "log file (diagnostics are always appended here in addition to stdout)"},
			&cli.BoolFlag{Name: "nohash", Usage: "bypass the preprocessor cache"},
			&cli.BoolFlag{Name: "synth", Usage: "accepted for compatibility; no synthesizable-subset check is implemented"},
			&cli.BoolFlag{Name: "formal", Usage: "accepted for compatibility; no formal-specific check is implemented"},
		},
		Action: runFrontend,
	}
}

// translatePlusArgs rewrites the SystemVerilog-style `+libext+.sv+.v` and
// `+define+NAME=VALUE` tokens into repeated `--libext`/`--define` flags
// before urfave/cli/v2 ever sees them: its flag parser only understands
// dash-prefixed tokens, never `+`-prefixed ones.
func translatePlusArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		switch {
		case strings.HasPrefix(a, "+libext+"):
			for _, ext := range strings.Split(strings.TrimPrefix(a, "+libext+"), "+") {
				if ext == "" {
					continue
				}
				out = append(out, "--libext", ext)
			}
		case strings.HasPrefix(a, "+define+"):
			out = append(out, "--define", strings.TrimPrefix(a, "+define+"))
		default:
			out = append(out, a)
		}
	}
	return out
}

func runFrontend(c *cli.Context) error {
	nostdout := c.Bool("nostdout")
	handler := reporter.NewHandler(func(d reporter.Diagnostic) error {
		if !nostdout {
			fmt.Fprintln(os.Stdout, d.Error())
		}
		return nil
	})

	opts := session.Options{
		FS:      vfs.OSFileSystem{},
		Handler: handler,
	}
	if !c.Bool("nohash") {
		opts.CacheDir = ".svfront-cache"
	}
	sess := session.New(opts)

	if err := seedDefines(sess, c.StringSlice("define")); err != nil {
		return err
	}

	libs, err := buildLibrarySet(sess, c)
	if err != nil {
		return err
	}

	files := c.Args().Slice()
	if len(files) == 0 {
		return cli.Exit("no input files given", 1)
	}

	trees := parseFiles(c, sess, files)

	var design *uhdm.Design
	if !c.Bool("parseonly") {
		design = compileElaborateBind(sess, libs, trees, c, handler)
	}

	if dir := c.String("o"); dir != "" && design != nil {
		if err := writeSummary(design, dir); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	if logPath := c.String("l"); logPath != "" {
		if f, err := os.Create(logPath); err == nil {
			for _, d := range handler.Diagnostics() {
				fmt.Fprintln(f, d.Error())
			}
			f.Close()
		}
	}

	if handler.FatalCount() > 0 {
		exitCode = 1
	}
	return nil
}

// seedDefines registers every -define NAME=VALUE as a zero-argument macro in
// the session's global compilation unit before any file is preprocessed,
// the command-line equivalent of a `define directive at the top of every
// file in the run.
func seedDefines(sess *session.Session, defines []string) error {
	unit := sess.NewCompilationUnit("", false)
	for _, d := range defines {
		name, value, _ := strings.Cut(d, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("malformed -define %q", d)
		}
		m := &preprocess.MacroInfo{Name: name}
		if value != "" {
			m.Body = []preprocess.MacroToken{{Text: value}}
		}
		unit.Define(m)
	}
	return nil
}

func buildLibrarySet(sess *session.Session, c *cli.Context) (*libresolve.LibrarySet, error) {
	opts := libresolve.Options{
		LibDirs:     c.StringSlice("y"),
		LibFiles:    c.StringSlice("v"),
		IncludeDirs: c.StringSlice("I"),
		LibExts:     c.StringSlice("libext"),
	}
	libs, err := libresolve.Build(sess.FS(), opts)
	if err != nil {
		return nil, fmt.Errorf("resolving libraries: %w", err)
	}
	if mapFile := c.String("mapfile"); mapFile != "" {
		entries, err := libresolve.LoadMapFile(sess.FS(), mapFile)
		if err != nil {
			return nil, fmt.Errorf("loading map file %q: %w", mapFile, err)
		}
		libs.ApplyMapFile(entries)
	}
	return libs, nil
}

// parsedFile is one input file's fully-stitched parser FileContent, ready
// for compile.CompileDesign.Compile.
type parsedFile struct {
	path string
	tree *fcontent.FileContent
}

// parseFiles runs preprocess+split+lex+parse for every input file in
// parallel via pipeline.Executor: each worker writes only to its own slot
// in results, so there is no shared mutable state beyond the already
// thread-safe symtab.Table and the per-worker diagnostic sub-handler the
// Executor hands it.
func parseFiles(c *cli.Context, sess *session.Session, files []string) []parsedFile {
	exec := pipeline.New(sess.Handler(), workerCount(c))
	results := make([]parsedFile, len(files))

	includeDirs := c.StringSlice("I")
	fileUnit := c.Bool("fileunit")

	_ = exec.Run(context.Background(), len(files), func(ctx context.Context, h *reporter.Handler, i int) error {
		path := files[i]
		tree, err := parseOneFile(sess, h, path, includeDirs, fileUnit)
		if err != nil {
			h.HandleErrorf(reporter.Location{}, reporter.PPCannotOpenInclude, "reading %s: %v", path, err)
			return nil
		}
		results[i] = parsedFile{path: path, tree: tree}
		return nil
	})

	out := results[:0]
	for _, r := range results {
		if r.tree != nil {
			out = append(out, r)
		}
	}
	return out
}

// parseOneFile runs stage 3 (preprocess) through stage 6 (listen/build) for
// a single file, manually constructing its own preprocess.Preprocessor
// (rather than via sess.Preprocessor) so it can pass h, its own
// SubHandler, instead of racing every other worker on sess.Handler().
func parseOneFile(sess *session.Session, h *reporter.Handler, path string, includeDirs []string, fileUnit bool) (*fcontent.FileContent, error) {
	canon, err := sess.FS().Canonicalize(path)
	if err != nil {
		canon = path
	}
	file := ids.PathId(sess.Symbols().RegisterPath(canon))

	pp := &preprocess.Preprocessor{
		FS:          sess.FS(),
		Symbols:     sess.Symbols(),
		IncludeDirs: includeDirs,
		Handler:     h,
	}

	unit := sess.NewCompilationUnit(path, fileUnit)
	result, err := preprocessCached(sess, pp, path, file, unit)
	if err != nil {
		return nil, err
	}

	lines := strings.Count(result.Expanded, "\n") + 1
	cache := locmap.Build(file, uint32(lines), result.Trace)

	chunks := splitter.AnalyzeFile(result.Expanded, splitThreshold)
	dst := fcontent.NewParserTree(file)
	for _, chunk := range chunks {
		lexer := svparser.NewLexer([]byte(chunk.Text))
		toks := lexer.Tokenize()
		chunkTree, listener := svparser.ParseLL(toks, file, sess.Symbols(), cache)
		for _, perr := range listener.Errors {
			h.Report(reporter.Diagnostic{
				Kind:     reporter.PASyntaxError,
				Severity: reporter.Syntax,
				Message:  perr.Message,
				Primary:  reporter.Location{File: perr.File, StartLine: perr.Line, StartColumn: perr.Column},
			})
		}
		for _, child := range chunkTree.Children(chunkTree.Root()) {
			fcontent.CloneSubtree(dst, dst.Root(), chunkTree, child)
		}
	}
	return dst, nil
}

// preprocessCached consults sess.Cache() (nil when -nohash was given) before
// running the preprocessor, storing a fresh result under the same key on a
// miss. The cache is caller-driven rather than transparently consulted by
// Preprocessor.Preprocess itself (session.PreprocessCache offers only Get
// and Put, and Preprocess never calls them), so this is the one call site
// responsible for honoring it.
func preprocessCached(sess *session.Session, pp *preprocess.Preprocessor, path string, file ids.PathId, unit *preprocess.CompilationUnit) (*preprocess.Result, error) {
	cache := sess.Cache()
	if cache == nil {
		return pp.Preprocess(path, file, unit)
	}
	f, err := sess.FS().Open(path)
	if err != nil {
		return nil, err
	}
	content, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	key := session.Key(path, content, unit.DefinedNames())
	if result, ok := cache.Get(key); ok {
		return result, nil
	}
	result, err := pp.Preprocess(path, file, unit)
	if err != nil {
		return nil, err
	}
	cache.Put(key, result)
	return result, nil
}

func workerCount(c *cli.Context) int {
	if n := c.Int("mt"); n > 0 {
		return n
	}
	if n := c.Int("mp"); n > 0 {
		return n
	}
	return 0
}

// compileElaborateBind runs stages 7-10 sequentially on the main goroutine:
// compile.CompileDesign.Compile mutates a map shared across every file
// (design.Definitions), so it is deliberately not handed to
// pipeline.Executor the way the parse stage is. Between compiling the
// explicit input files and elaborating, it repeatedly pulls in -y/-v
// library members referenced by an instantiation but never explicitly
// compiled, the behavior -y/-v are for in the first place.
func compileElaborateBind(sess *session.Session, libs *libresolve.LibrarySet, trees []parsedFile, c *cli.Context, handler *reporter.Handler) *uhdm.Design {
	ser := uhdm.NewSerializer()
	design := uhdm.NewDesign(ser)
	cd := compile.NewCompileDesign(sess.Symbols(), design)
	for _, pf := range trees {
		cd.Compile(pf.tree)
	}

	pullLibraryInstantiations(sess, libs, cd, design, c, handler)

	if handler.FatalCount() > 0 {
		return design
	}

	elaborate.NewElaborator(design).Elaborate()
	bind.NewObjectBinder(design).Bind()
	integrity.NewChecker(design).Check(handler)
	return design
}

// pullLibraryInstantiations repeatedly scans design.Definitions for an
// Instantiation or generate-region instantiation naming a type not yet
// present, resolves it via libs.ResolveModule, and compiles the first
// candidate found, until a full pass adds nothing new. Each attempted name
// is recorded in tried regardless of outcome so a module libs cannot
// resolve is not retried every pass (integrity's own
// checkInstantiationTargets rule reports the ones that remain missing).
func pullLibraryInstantiations(sess *session.Session, libs *libresolve.LibrarySet, cd *compile.CompileDesign, design *uhdm.Design, c *cli.Context, handler *reporter.Handler) {
	includeDirs := c.StringSlice("I")
	tried := map[string]bool{}
	for {
		missing := missingInstantiationTargets(design, tried)
		if len(missing) == 0 {
			return
		}
		added := false
		for _, name := range missing {
			tried[name] = true
			candidates := libs.ResolveModule(name)
			if len(candidates) == 0 {
				continue
			}
			tree, err := parseOneFile(sess, handler, candidates[0].Path, includeDirs, false)
			if err != nil {
				handler.HandleErrorf(reporter.Location{}, reporter.PPCannotOpenInclude,
					"library member %q (%s): %v", name, candidates[0].Path, err)
				continue
			}
			cd.Compile(tree)
			added = true
		}
		if !added {
			return
		}
	}
}

func missingInstantiationTargets(design *uhdm.Design, tried map[string]bool) []string {
	seen := map[string]bool{}
	var out []string
	note := func(typeName string) {
		if typeName == "" || tried[typeName] || seen[typeName] {
			return
		}
		if _, ok := design.Definitions[typeName]; ok {
			return
		}
		seen[typeName] = true
		out = append(out, typeName)
	}
	for _, def := range design.Definitions {
		for _, site := range def.Instantiations {
			note(site.TypeName)
		}
		for _, region := range def.GenerateRegions {
			for _, site := range region.Body {
				note(site.TypeName)
			}
			for _, site := range region.Else {
				note(site.TypeName)
			}
		}
	}
	return out
}

// writeSummary writes a plain-text module/port-count summary of the
// elaborated design to dir/design.summary, standing in for the full UHDM
// serializer (the concrete schema is out of scope per the CLI surface's
// own ".uhdm file, format out of scope" note).
func writeSummary(design *uhdm.Design, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %q: %w", dir, err)
	}
	f, err := os.Create(vfs.Join(dir, "design.summary"))
	if err != nil {
		return fmt.Errorf("writing design summary: %w", err)
	}
	defer f.Close()

	names := make([]string, 0, len(design.Definitions))
	for name := range design.Definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		def := design.Definitions[name]
		fmt.Fprintf(f, "%s %s: %d ports, %d nets, %d instantiations\n",
			definitionKindName(def.Kind()), name, len(def.Ports), len(def.Nets), len(def.Instantiations))
	}
	fmt.Fprintf(f, "top instances: %d\n", len(design.TopInstances))
	return nil
}

// definitionKindName renders the subset of uhdm.ObjectKind a top-level
// Definition can hold; ObjectKind has no Stringer of its own since most of
// its values (refs, statements, expressions) never need a human-facing name.
func definitionKindName(k uhdm.ObjectKind) string {
	switch k {
	case uhdm.KindModule:
		return "module"
	case uhdm.KindInterface:
		return "interface"
	case uhdm.KindProgram:
		return "program"
	case uhdm.KindPackage:
		return "package"
	case uhdm.KindClass:
		return "class"
	case uhdm.KindUdp:
		return "primitive"
	case uhdm.KindChecker:
		return "checker"
	default:
		return "definition"
	}
}
