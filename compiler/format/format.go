package format

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/stm2ir/compiler/ast"
)

// Format appends the canonical form of a parsed line: no spaces,
// groups and signs kept as written.
func Format(ctx context.Context, b []byte, l ast.Line) ([]byte, error) {
	return formatStmt(ctx, b, l.Text, l.Stmt)
}

// Tree appends the line with every operator and group made explicit
// by brackets, so the binding is visible.
func Tree(ctx context.Context, b []byte, l ast.Line) ([]byte, error) {
	return formatTree(ctx, b, l.Text, l.Stmt)
}

func formatStmt(ctx context.Context, b, text []byte, x ast.Node) (_ []byte, err error) {
	switch x := x.(type) {
	case ast.Empty:
		return b, nil
	case ast.Assignment:
		b = app(b, "%s=", x.Target.Text(text))

		b, err = formatExpr(ctx, b, text, x.Expr)
		if err != nil {
			return nil, errors.Wrap(err, "rhs")
		}
	case ast.Print:
		b, err = formatExpr(ctx, b, text, x.Expr)
		if err != nil {
			return nil, errors.Wrap(err, "expr")
		}
	default:
		return nil, errors.New("unsupported stmt: %T", x)
	}

	return b, nil
}

func formatExpr(ctx context.Context, b, text []byte, x ast.Node) (_ []byte, err error) {
	switch x := x.(type) {
	case ast.Ident:
		b = append(b, x.Text(text)...)
	case ast.Int:
		b = append(b, x.Text(text)...)
	case ast.Signed:
		b = append(b, x.Sign)

		return formatExpr(ctx, b, text, x.X)
	case ast.Group:
		b = append(b, '(')

		b, err = formatExpr(ctx, b, text, x.X)
		if err != nil {
			return nil, errors.Wrap(err, "group")
		}

		b = append(b, ')')
	case ast.BinOp:
		b, err = formatExpr(ctx, b, text, x.Left)
		if err != nil {
			return nil, errors.Wrap(err, "left")
		}

		b = append(b, x.Op)

		b, err = formatExpr(ctx, b, text, x.Right)
		if err != nil {
			return nil, errors.Wrap(err, "right")
		}
	default:
		return nil, errors.New("unsupported expr: %T", x)
	}

	return b, nil
}

func formatTree(ctx context.Context, b, text []byte, x ast.Node) (_ []byte, err error) {
	switch x := x.(type) {
	case ast.Empty:
		return b, nil
	case ast.Assignment:
		b = app(b, "%s = ", x.Target.Text(text))

		return formatTree(ctx, b, text, x.Expr)
	case ast.Print:
		b = app(b, "print ")

		return formatTree(ctx, b, text, x.Expr)
	case ast.Ident, ast.Int:
		return formatExpr(ctx, b, text, x)
	case ast.Signed:
		b = app(b, "%c", x.Sign)

		return formatTree(ctx, b, text, x.X)
	case ast.Group:
		return formatTree(ctx, b, text, x.X)
	case ast.BinOp:
		b = append(b, '[')

		b, err = formatTree(ctx, b, text, x.Left)
		if err != nil {
			return nil, errors.Wrap(err, "left")
		}

		b = app(b, " %c ", x.Op)

		b, err = formatTree(ctx, b, text, x.Right)
		if err != nil {
			return nil, errors.Wrap(err, "right")
		}

		b = append(b, ']')
	default:
		return nil, errors.New("unsupported node: %T", x)
	}

	return b, nil
}

func app(b []byte, f string, args ...any) []byte {
	return hfmt.Appendf(b, f, args...)
}
