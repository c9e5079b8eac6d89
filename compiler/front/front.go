package front

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/slowlang/stm2ir/compiler/ast"
	"github.com/slowlang/stm2ir/compiler/ir"
	"github.com/slowlang/stm2ir/compiler/parse"
)

type (
	Options struct {
		ModuleID string

		// Strict rejects operands that would be passed through unresolved:
		// undefined variables, out of range literals and signed non-literals.
		Strict bool
	}

	// Front is the state of one compilation.
	// It is not safe for concurrent use.
	Front struct {
		Options

		vars  Vars
		temps Temps
		m     *ir.Module

		lines int
	}
)

var (
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrUnsupported       = errors.New("unsupported operand")
)

func New(opts Options) *Front {
	return &Front{
		Options: opts,
		m:       ir.NewModule(opts.ModuleID),
	}
}

func (c *Front) Module() *ir.Module { return c.m }

func (c *Front) Vars() *Vars { return &c.vars }

func (c *Front) Temps() *Temps { return &c.temps }

// Lines is the number of lines seen so far, skipped ones included.
func (c *Front) Lines() int { return c.lines }

// CompileLine parses one source line and emits its instructions.
// Nothing is emitted for a line that does not parse.
func (c *Front) CompileLine(ctx context.Context, text []byte) (err error) {
	c.lines++

	l, err := parse.ParseLine(ctx, c.lines, text)
	if err != nil {
		return err
	}

	return c.CompileStmt(ctx, l)
}

func (c *Front) CompileStmt(ctx context.Context, l ast.Line) (err error) {
	if tlog.If("front") {
		tlog.Printw("compile line", "num", l.Num, "text", l.Text, "typ", tlog.NextAsType, l.Stmt, "stmt", l.Stmt)
	}

	switch s := l.Stmt.(type) {
	case ast.Empty:
		return nil
	case ast.Assignment:
		err = c.assign(ctx, l, s)
	case ast.Print:
		err = c.print(ctx, l, s)
	default:
		err = errors.New("unsupported stmt: %T", s)
	}

	if err != nil {
		return errors.Wrap(err, "line %d", l.Num)
	}

	return nil
}

func (c *Front) assign(ctx context.Context, l ast.Line, s ast.Assignment) error {
	slot := ir.Slot(s.Target.Text(l.Text))

	if c.vars.Declare(string(slot)) {
		c.emit(ir.Alloca{Slot: slot})
	}

	v, err := c.value(ctx, l, s.Expr)
	if err != nil {
		return err
	}

	c.emit(ir.Store{Val: v, Slot: slot})

	return nil
}

func (c *Front) print(ctx context.Context, l ast.Line, s ast.Print) error {
	v, err := c.value(ctx, l, s.Expr)
	if err != nil {
		return err
	}

	c.emit(ir.Print{Val: v})
	c.temps.Skip()

	return nil
}

func (c *Front) value(ctx context.Context, l ast.Line, x ast.Node) (ir.Operand, error) {
	v, err := c.lowerExpr(ctx, l.Text, x)
	if err != nil {
		return nil, errors.Wrap(err, "expr")
	}

	return c.resolve(v)
}

// resolve materializes a declared variable into a fresh register.
// Anything else is returned as is.
func (c *Front) resolve(x ir.Operand) (ir.Operand, error) {
	s, ok := x.(ir.Slot)
	if !ok {
		return x, nil
	}

	if !c.vars.Declared(string(s)) {
		if c.Strict {
			return nil, errors.Wrap(ErrUndefinedVariable, "%s", string(s))
		}

		return ir.Raw(s), nil
	}

	r := c.temps.Next()
	c.emit(ir.Load{Out: r, Slot: s})

	return r, nil
}

func (c *Front) emit(x ir.Instr) {
	if tlog.If("ir") {
		tlog.Printw("emit", "line", c.lines, "typ", tlog.NextAsType, x, "instr", x, "from", loc.Caller(1))
	}

	c.m.Append(x)
}
