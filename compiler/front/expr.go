package front

import (
	"bytes"
	"context"
	"sort"
	"strconv"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/stm2ir/compiler/ast"
	"github.com/slowlang/stm2ir/compiler/ir"
	"github.com/slowlang/stm2ir/compiler/parse"
)

type (
	lowering struct {
		*Front

		text []byte

		groups map[string]ir.Operand // by group source text
		ops    map[int]ir.Reg        // by operator position
	}
)

// lowerExpr emits the instructions of an expression and returns its operand.
//
// Parenthesized groups go first, the last opened one first.
// Then operators are reduced class by class (*, /, -, +),
// left to right within a class. The result is left unresolved.
func (c *Front) lowerExpr(ctx context.Context, text []byte, x ast.Node) (ir.Operand, error) {
	l := &lowering{
		Front:  c,
		text:   text,
		groups: map[string]ir.Operand{},
		ops:    map[int]ir.Reg{},
	}

	return l.expr(ctx, x)
}

func (l *lowering) expr(ctx context.Context, x ast.Node) (_ ir.Operand, err error) {
	var groups []ast.Group
	var ops []ast.BinOp

	collect(x, &groups, &ops)

	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Pos > groups[j].Pos
	})

	for _, g := range groups {
		key := string(g.Text(l.text))

		if _, ok := l.groups[key]; ok {
			continue
		}

		v, err := l.expr(ctx, g.X)
		if err != nil {
			return nil, errors.Wrap(err, "group %s", key)
		}

		l.groups[key] = v
	}

	sort.SliceStable(ops, func(i, j int) bool {
		ci, cj := class(ops[i].Op), class(ops[j].Op)
		if ci != cj {
			return ci < cj
		}

		return ops[i].OpPos < ops[j].OpPos
	})

	for _, op := range ops {
		err = l.binOp(ctx, op)
		if err != nil {
			return nil, errors.Wrap(err, "%c at %d", op.Op, op.OpPos)
		}
	}

	return l.operand(x)
}

func (l *lowering) binOp(ctx context.Context, x ast.BinOp) error {
	code, ok := ir.OpFor(x.Op)
	if !ok {
		return errors.New("unsupported operator: %q", x.Op)
	}

	left, err := l.operand(x.Left)
	if err != nil {
		return errors.Wrap(err, "left")
	}

	right, err := l.operand(x.Right)
	if err != nil {
		return errors.Wrap(err, "right")
	}

	left, err = l.resolve(left)
	if err != nil {
		return errors.Wrap(err, "left")
	}

	right, err = l.resolve(right)
	if err != nil {
		return errors.Wrap(err, "right")
	}

	out := l.temps.Next()

	l.emit(ir.BinOp{
		Op:  code,
		Out: out,
		L:   left,
		R:   right,
	})

	l.ops[x.OpPos] = out

	tlog.V("expr").Printw("reduced", "text", x.Text(l.text), "to", out)

	return nil
}

// operand returns the value of an already lowered node.
func (l *lowering) operand(x ast.Node) (ir.Operand, error) {
	switch x := x.(type) {
	case ast.Int:
		return l.literal(x.Text(l.text))
	case ast.Ident:
		return ir.Slot(x.Text(l.text)), nil
	case ast.Group:
		v, ok := l.groups[string(x.Text(l.text))]
		if !ok {
			return nil, errors.New("group is not lowered: %s", x.Text(l.text))
		}

		return v, nil
	case ast.BinOp:
		r, ok := l.ops[x.OpPos]
		if !ok {
			return nil, errors.New("operator is not lowered: %c at %d", x.Op, x.OpPos)
		}

		return r, nil
	case ast.Signed:
		return l.signed(x)
	default:
		return nil, errors.New("unsupported expr: %T", x)
	}
}

// signed glues the sign to the operand text.
// Only literals stay meaningful, anything else becomes raw text such as -%3.
func (l *lowering) signed(x ast.Signed) (ir.Operand, error) {
	var text string

	if n, ok := x.X.(ast.Int); ok {
		text = string(n.Text(l.text))
	} else {
		v, err := l.operand(x.X)
		if err != nil {
			return nil, err
		}

		switch v := v.(type) {
		case ir.Lit:
			text = string(v)
		case ir.Slot:
			text = string(v)
		default:
			text = v.String()
		}

		if _, ok := v.(ir.Lit); !ok {
			if l.Strict {
				return nil, errors.Wrap(ErrUnsupported, "sign before %v", v)
			}

			return ir.Raw(string(x.Sign) + text), nil
		}
	}

	return l.literal([]byte(string(x.Sign) + text))
}

func (l *lowering) literal(text []byte) (ir.Operand, error) {
	_, err := strconv.ParseInt(string(text), 10, 32)
	if err == nil {
		return ir.Lit(text), nil
	}

	if l.Strict {
		return nil, errors.Wrap(ErrUnsupported, "literal %s", text)
	}

	return ir.Raw(text), nil
}

func collect(x ast.Node, groups *[]ast.Group, ops *[]ast.BinOp) {
	switch x := x.(type) {
	case ast.Group:
		*groups = append(*groups, x)
	case ast.Signed:
		collect(x.X, groups, ops)
	case ast.BinOp:
		collect(x.Left, groups, ops)
		collect(x.Right, groups, ops)

		*ops = append(*ops, x)
	}
}

func class(op byte) int {
	return bytes.IndexByte(parse.Classes, op)
}
