package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tebeka/atexit"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/stm2ir/compiler"
	"github.com/slowlang/stm2ir/compiler/format"
	"github.com/slowlang/stm2ir/compiler/front"
	"github.com/slowlang/stm2ir/compiler/ir"
	"github.com/slowlang/stm2ir/compiler/parse"
	"github.com/slowlang/stm2ir/compiler/stmio"
)

func main() {
	compileCmd := &cli.Command{
		Name:        "compile",
		Description: "compile stm programs to llvm ir",
		Action:      compileAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("output,o", "", "output file (stdout if empty)"),
			cli.NewFlag("strict", false, "fail on undefined variables and unresolvable operands"),
			cli.NewFlag("verify", false, "check module invariants before writing"),
			cli.NewFlag("module-id", ir.DefaultID, "ModuleID in the module header"),
			cli.NewFlag("log,v", "", "log topics: front,ir,expr,vars,compile"),
		},
	}

	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "parse stm programs and print them back",
		Action:      parseAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("tree", false, "bracket every operation"),
			cli.NewFlag("log,v", "", "log topics"),
		},
	}

	app := &cli.Command{
		Name:        "stm2ir",
		Description: "stm2ir translates stm statements into llvm ir",
		Commands: []*cli.Command{
			compileCmd,
			parseCmd,
		},
	}

	err := cli.Run(app, os.Args, os.Environ())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func compileAct(c *cli.Command) (err error) {
	ctx := setup(c)

	if len(c.Args) == 0 {
		return errors.New("no input files")
	}

	out := c.String("output")
	if out != "" && len(c.Args) != 1 {
		return errors.New("output file needs exactly one input, got %d", len(c.Args))
	}

	opts := compiler.Options{
		Options: front.Options{
			ModuleID: c.String("module-id"),
			Strict:   c.Bool("strict"),
		},
		Verify: c.Bool("verify"),
	}

	for _, a := range c.Args {
		err = compileFile(ctx, a, out, opts)
		if err != nil {
			return errors.Wrap(err, "compile %v", a)
		}
	}

	return nil
}

func compileFile(ctx context.Context, name, out string, opts compiler.Options) error {
	src, err := stmio.OpenFile(name)
	if err != nil {
		return errors.Wrap(err, "source")
	}

	var dst stmio.Sink = stmio.Writer(os.Stdout)

	if out != "" {
		f, err := stmio.CreateFile(out)
		if err != nil {
			_ = src.Close()
			return errors.Wrap(err, "sink")
		}

		// no-op once the sink is closed
		atexit.Register(func() {
			_ = f.Abort()
		})

		dst = f
	}

	return compiler.Run(ctx, src, dst, opts)
}

func parseAct(c *cli.Command) (err error) {
	ctx := setup(c)

	for _, a := range c.Args {
		err = parseFile(ctx, a, c.Bool("tree"))
		if err != nil {
			return errors.Wrap(err, "parse %v", a)
		}
	}

	return nil
}

func parseFile(ctx context.Context, name string, tree bool) (err error) {
	src, err := stmio.OpenFile(name)
	if err != nil {
		return errors.Wrap(err, "source")
	}

	defer func() {
		e := src.Close()
		if err == nil && e != nil {
			err = errors.Wrap(e, "close")
		}
	}()

	var b []byte

	for n := 1; ; n++ {
		text, ok := src.Next()
		if !ok {
			break
		}

		l, err := parse.ParseLine(ctx, n, text)
		if err != nil {
			return err
		}

		if tree {
			b, err = format.Tree(ctx, b[:0], l)
		} else {
			b, err = format.Format(ctx, b[:0], l)
		}
		if err != nil {
			return errors.Wrap(err, "format line %d", n)
		}

		fmt.Printf("%s\n", b)
	}

	return src.Err()
}

func setup(c *cli.Command) context.Context {
	if v := c.String("log"); v != "" {
		tlog.SetVerbosity(v)
	}

	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	return ctx
}
