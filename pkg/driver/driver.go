// Package driver compiles sets of source files: it finds the classes to
// compile, runs them through the pipeline concurrently and writes the outputs.
package driver

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/kartiknair/jackc/pkg/ast"
	"github.com/kartiknair/jackc/pkg/gen"
	"github.com/kartiknair/jackc/pkg/lexer"
	"github.com/kartiknair/jackc/pkg/parser"
)

const SourceExt = ".jack"

// Target selects what is produced for each class.
type Target int

const (
	VM Target = iota
	Tokens
	Tree
)

func (t Target) String() string {
	switch t {
	case Tokens:
		return "tokens"
	case Tree:
		return "tree"
	}
	return "vm"
}

// OutputPath is where the output for source goes. An empty outDir places it
// next to the source file.
func OutputPath(source, outDir string, target Target) string {
	dir, file := filepath.Split(source)
	if outDir != "" {
		dir = outDir
	}
	name := strings.TrimSuffix(file, filepath.Ext(file))

	switch target {
	case Tokens:
		return filepath.Join(dir, name+"T.xml")
	case Tree:
		return filepath.Join(dir, name+".xml")
	}
	return filepath.Join(dir, name+".vm")
}

type Options struct {
	Target Target

	// Jobs bounds how many files are compiled at once; 0 means one per CPU.
	Jobs int

	// FailFast stops scheduling files after the first failure.
	FailFast bool

	OutDir string
}

func (o Options) jobs() int {
	if o.Jobs > 0 {
		return o.Jobs
	}
	return runtime.NumCPU()
}

type Result struct {
	Path    string
	OutPath string
	Unit    *ast.Unit
	Output  string

	Err error

	// Skipped is set for files never compiled because an earlier one failed
	// under FailFast.
	Skipped bool
}

// Collect expands paths into the list of source files to compile. A directory
// contributes the source files directly inside it.
func Collect(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read %s", path)
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot list %s", path)
		}
		found := false
		for _, entry := range entries {
			if entry.Type().IsRegular() && filepath.Ext(entry.Name()) == SourceExt {
				files = append(files, filepath.Join(path, entry.Name()))
				found = true
			}
		}
		if !found {
			return nil, errors.Errorf("no %s files in %s", SourceExt, path)
		}
	}

	if len(files) == 0 {
		return nil, errors.New("no source files provided")
	}
	return files, nil
}

// Load reads, lexes and parses one file. The unit is returned even on failure
// so callers can show where compilation stopped.
func Load(path string) (*ast.Unit, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %s", path)
	}

	u := &ast.Unit{Path: path, Source: string(source)}
	if err := lexer.Lex(u); err != nil {
		return u, err
	}
	if err := parser.Parse(u); err != nil {
		return u, err
	}
	return u, nil
}

// CompileSource runs source through the pipeline up to target.
func CompileSource(path, source string, target Target) (*ast.Unit, string, error) {
	u := &ast.Unit{Path: path, Source: source}

	start := time.Now()
	if err := lexer.Lex(u); err != nil {
		return u, "", err
	}
	if target == Tokens {
		return u, gen.TokensXML(u.Tokens), nil
	}

	if err := parser.Parse(u); err != nil {
		return u, "", err
	}
	parsed := time.Now()
	glog.V(1).Infof("%s: %dus for lexing and parsing", path, parsed.Sub(start).Microseconds())

	if target == Tree {
		return u, gen.TreeXML(u.Class), nil
	}

	out, err := gen.VM(u.Class)
	if err != nil {
		return u, "", err
	}
	glog.V(1).Infof("%s: %dus to generate VM code", path, time.Since(parsed).Microseconds())
	return u, out, nil
}

func CompileFile(path string, target Target) (*ast.Unit, string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "cannot read %s", path)
	}
	return CompileSource(path, string(source), target)
}

func compileOne(path string, opts Options) Result {
	r := Result{Path: path, OutPath: OutputPath(path, opts.OutDir, opts.Target)}

	glog.V(1).Infof("compiling %s", path)
	u, out, err := CompileFile(path, opts.Target)
	r.Unit = u
	if err != nil {
		r.Err = errors.Wrapf(err, "%s", path)
		return r
	}
	r.Output = out

	if err := os.WriteFile(r.OutPath, []byte(out), 0o644); err != nil {
		r.Err = errors.Wrapf(err, "cannot write %s", r.OutPath)
		return r
	}
	glog.V(1).Infof("wrote %s", r.OutPath)
	return r
}

// Run compiles every file named by paths and writes the outputs. Each class
// is compiled independently; results come back in file order. Without
// FailFast all failures are reported together as a *multierror.Error.
func Run(parent context.Context, paths []string, opts Options) ([]Result, error) {
	files, err := Collect(paths)
	if err != nil {
		return nil, err
	}

	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "cannot create %s", opts.OutDir)
		}
	}

	results := make([]Result, len(files))
	g, ctx := errgroup.WithContext(parent)
	g.SetLimit(opts.jobs())

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if ctx.Err() != nil {
				results[i] = Result{Path: file, Skipped: true, Err: ctx.Err()}
				return nil
			}

			results[i] = compileOne(file, opts)
			if results[i].Err != nil && opts.FailFast {
				return results[i].Err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := parent.Err(); err != nil {
		return results, err
	}

	var result *multierror.Error
	for _, r := range results {
		if r.Err != nil && !r.Skipped {
			glog.V(3).Infof("%+v", r.Err)
			result = multierror.Append(result, r.Err)
		}
	}
	return results, result.ErrorOrNil()
}
