package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/alecthomas/repr"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/kartiknair/jackc/pkg/ast"
	"github.com/kartiknair/jackc/pkg/diag"
	"github.com/kartiknair/jackc/pkg/driver"
)

func printDiagnostic(u *ast.Unit, err error) {
	fmt.Fprintln(os.Stderr, err)
	if d, ok := diag.As(err); ok && u != nil {
		if excerpt := u.SourceContext(d.Pos); excerpt != "" {
			fmt.Fprintln(os.Stderr, excerpt)
		}
	}
}

// fail flushes glog and exits with status 1. The After hook does not run once
// an action returns an exit error.
func fail(message string) error {
	glog.Flush()
	return cli.Exit(message, 1)
}

func options(c *cli.Context, target driver.Target) driver.Options {
	return driver.Options{
		Target:   target,
		Jobs:     c.Int("jobs"),
		FailFast: c.Bool("fail-fast"),
		OutDir:   c.String("out-dir"),
	}
}

func compileAction(target driver.Target) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.Args().Len() == 0 {
			return errors.New("Source file or directory not provided.")
		}

		results, err := driver.Run(context.Background(), c.Args().Slice(), options(c, target))
		if err == nil {
			return nil
		}
		if results == nil {
			return err
		}

		for _, r := range results {
			if r.Err != nil && !r.Skipped {
				printDiagnostic(r.Unit, r.Err)
			}
		}
		return fail("")
	}
}

func dump(c *cli.Context) error {
	filename := c.Args().First()
	if filename == "" || c.Args().Len() > 1 {
		return errors.New("dump takes a single source file.")
	}

	u, err := driver.Load(filename)
	if err != nil {
		printDiagnostic(u, err)
		return fail("")
	}

	p := repr.New(os.Stdout, repr.Indent("  "), repr.OmitEmpty(true))
	if c.Bool("tokens") {
		p.Println(u.Tokens)
		return nil
	}
	p.Println(u.Class)
	return nil
}

func check(c *cli.Context) error {
	if c.Args().Len() != 2 {
		return errors.New("check takes a source file and the expected VM listing.")
	}
	filename, expectedFile := c.Args().Get(0), c.Args().Get(1)

	expected, err := os.ReadFile(expectedFile)
	if err != nil {
		return errors.Wrapf(err, "cannot read %s", expectedFile)
	}

	u, out, err := driver.CompileFile(filename, driver.VM)
	if err != nil {
		printDiagnostic(u, err)
		return fail("")
	}

	diff, same := driver.Diff(string(expected), out)
	if same {
		fmt.Printf("%s: ok\n", filename)
		return nil
	}
	fmt.Print(diff)
	return fail(fmt.Sprintf("%s: output differs from %s", filename, expectedFile))
}

func main() {
	app := &cli.App{
		Name:  "jackc",
		Usage: "Compiles Jack classes to stack VM code.",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Value:   runtime.NumCPU(),
				Usage:   "Number of files compiled at once.",
				EnvVars: []string{"JACKC_JOBS"},
			},
			&cli.BoolFlag{
				Name:    "fail-fast",
				Usage:   "Stop at the first file that fails to compile.",
				EnvVars: []string{"JACKC_FAIL_FAST"},
			},
			&cli.StringFlag{
				Name:    "out-dir",
				Aliases: []string{"o"},
				Usage:   "Directory for output files (default: next to each source file).",
				EnvVars: []string{"JACKC_OUT_DIR"},
			},
			&cli.BoolFlag{
				Name:  "logtostderr",
				Usage: "Log to stderr instead of to files.",
			},
			&cli.IntFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable verbose logging (e.g., v=3).",
			},
		},
		Before: func(c *cli.Context) error {
			return initLogging(c.Bool("logtostderr"), c.Int("verbose"))
		},
		After: func(c *cli.Context) error {
			glog.Flush()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "compile",
				Usage:     "Compiles source files, or every source file in a directory, to .vm files.",
				ArgsUsage: "<file.jack|dir>...",
				Action:    compileAction(driver.VM),
			},
			{
				Name:      "tokens",
				Usage:     "Writes the token stream of each class as XML (<Name>T.xml).",
				ArgsUsage: "<file.jack|dir>...",
				Action:    compileAction(driver.Tokens),
			},
			{
				Name:      "tree",
				Usage:     "Writes the parse tree of each class as XML (<Name>.xml).",
				ArgsUsage: "<file.jack|dir>...",
				Action:    compileAction(driver.Tree),
			},
			{
				Name:      "dump",
				Usage:     "Prints the syntax tree of a source file.",
				ArgsUsage: "<file.jack>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "tokens",
						Usage: "Print the tokens instead of the tree.",
					},
				},
				Action: dump,
			},
			{
				Name:      "check",
				Usage:     "Compiles a source file and compares it with an expected VM listing.",
				ArgsUsage: "<file.jack> <expected.vm>",
				Action:    check,
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
