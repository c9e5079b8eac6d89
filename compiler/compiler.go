package compiler

import (
	"bytes"
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/stm2ir/compiler/front"
	"github.com/slowlang/stm2ir/compiler/ir"
	"github.com/slowlang/stm2ir/compiler/stmio"
)

type (
	Options struct {
		front.Options

		// Verify checks the module invariants before writing it.
		Verify bool
	}
)

func CompileFile(ctx context.Context, name string, opts Options) (obj []byte, err error) {
	text, err := os.ReadFile(name)
	if os.IsNotExist(err) {
		text, err = nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Compile(ctx, text, opts)
}

// Compile translates a whole program text to IR text.
func Compile(ctx context.Context, text []byte, opts Options) (obj []byte, err error) {
	m, err := compile(ctx, stmio.Reader(bytes.NewReader(text)), opts)
	if err != nil {
		return nil, err
	}

	return m.AppendText(nil)
}

// Run compiles lines from src and writes the module to dst.
// src is closed first, then dst is closed, or aborted if anything failed.
func Run(ctx context.Context, src stmio.Source, dst stmio.Sink, opts Options) (err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile", "strict", opts.Strict, "verify", opts.Verify)
	defer tr.Finish("err", &err)

	defer func() {
		e := src.Close()
		if err == nil && e != nil {
			err = errors.Wrap(e, "close source")
		}

		if err != nil {
			if e := dst.Abort(); e != nil {
				tr.Printw("abort sink", "err", e)
			}

			return
		}

		e = dst.Close()
		if e != nil {
			err = errors.Wrap(e, "close sink")
		}
	}()

	m, err := compile(ctx, src, opts)
	if err != nil {
		return err
	}

	lines, err := m.Lines()
	if err != nil {
		return errors.Wrap(err, "render")
	}

	for _, l := range lines {
		err = dst.WriteLine(l)
		if err != nil {
			return errors.Wrap(err, "write")
		}
	}

	tr.Printw("module written", "lines", len(lines), "body", len(m.Body))

	return nil
}

func compile(ctx context.Context, src stmio.Source, opts Options) (m *ir.Module, err error) {
	c := front.New(opts.Options)

	for {
		line, ok := src.Next()
		if !ok {
			break
		}

		err = c.CompileLine(ctx, line)
		if err != nil {
			return nil, err
		}
	}

	if err = src.Err(); err != nil {
		return nil, errors.Wrap(err, "read source: line %d", c.Lines()+1)
	}

	m = c.Module()

	if opts.Verify {
		err = ir.Verify(m)
		if err != nil {
			return nil, errors.Wrap(err, "verify")
		}
	}

	tlog.V("compile").Printw("compiled", "lines", c.Lines(), "vars", c.Vars().Len(), "regs", c.Temps().Last())

	return m, nil
}
