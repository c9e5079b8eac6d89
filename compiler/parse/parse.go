package parse

import (
	"bytes"
	"context"
	"fmt"

	"github.com/slowlang/stm2ir/compiler/ast"
)

type (
	Parser interface {
		Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error)
	}

	// ParseError is returned for any malformed line.
	ParseError struct {
		Line int
		Pos  int
		Err  error
	}

	PartialReadError struct {
		End int
		C   byte
	}
)

// ParseLine classifies one line and parses it.
// The first '=' splits an assignment, everything after it is the expression.
func ParseLine(ctx context.Context, num int, text []byte) (l ast.Line, err error) {
	l = ast.Line{
		Num:  num,
		Text: text,
	}

	i := SpaceAll.Skip(text, 0)
	if i == len(text) {
		l.Stmt = ast.Empty{Base: ast.Base{Pos: 0, End: len(text)}}
		return l, nil
	}

	eq := bytes.IndexByte(text, '=')
	if eq < 0 {
		x, err := parseFull(ctx, num, text, 0, Expr{})
		if err != nil {
			return l, err
		}

		l.Stmt = ast.Print{
			Base: ast.Base{Pos: Span(x).Pos, End: Span(x).End},
			Expr: x,
		}

		return l, nil
	}

	t, err := parseFull(ctx, num, text[:eq], 0, Spaced(Ident{}, SpaceAll))
	if err != nil {
		return l, err
	}

	x, err := parseFull(ctx, num, text, eq+1, Expr{})
	if err != nil {
		return l, err
	}

	l.Stmt = ast.Assignment{
		Base:   ast.Base{Pos: Span(t).Pos, End: Span(x).End},
		Target: t.(ast.Ident),
		Expr:   x,
	}

	return l, nil
}

func parseFull(ctx context.Context, num int, b []byte, st int, p Parser) (x ast.Node, err error) {
	x, i, err := p.Parse(ctx, b, st)
	if err != nil {
		return nil, ParseError{Line: num, Pos: i, Err: err}
	}

	i = SpaceAll.Skip(b, i)

	if i != len(b) {
		return nil, ParseError{Line: num, Pos: i, Err: PartialReadError{End: i, C: b[i]}}
	}

	return x, nil
}

func (e ParseError) Error() string {
	return fmt.Sprintf("parse error: line %d: pos %d: %v", e.Line, e.Pos, e.Err)
}

func (e ParseError) Unwrap() error { return e.Err }

func (e PartialReadError) Error() string {
	return fmt.Sprintf("unexpected %q", e.C)
}
