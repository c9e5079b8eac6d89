package parse

import (
	"context"
	"strings"

	"tlog.app/go/errors"

	"github.com/slowlang/stm2ir/compiler/ast"
)

type (
	LeftToRight struct {
		Op  Parser
		Arg Parser

		// Next parses operands after an operator. Arg is used if nil.
		Next Parser
	}

	BinOper interface {
		BinOp(l, r ast.Node) (ast.Node, error)
	}

	// Operator matches one binary operator character.
	Operator byte

	// Signed accepts one of Signs in front of Of.
	Signed struct {
		Signs string
		Of    Parser
	}

	Group struct {
		Of Parser
	}

	opAt struct {
		Op  byte
		Pos int
	}
)

func (p LeftToRight) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	x, i, err = p.Arg.Parse(ctx, b, st)
	if err != nil {
		return nil, i, errors.Wrap(err, "first arg")
	}

	next := p.Next
	if next == nil {
		next = p.Arg
	}

	for i < len(b) {
		var op ast.Node
		opst := i
		op, i, err = p.Op.Parse(ctx, b, i)
		if i == opst {
			err = nil
			break
		}
		if err != nil {
			return nil, i, errors.Wrap(err, "op")
		}

		c, ok := op.(BinOper)
		if !ok {
			return nil, i, errors.New("BinOper expected, got %T", op)
		}

		var r ast.Node
		r, i, err = next.Parse(ctx, b, i)
		if err != nil {
			return nil, i, errors.Wrap(err, "arg")
		}

		x, err = c.BinOp(x, r)
		if err != nil {
			return nil, i, errors.Wrap(err, "%v", c)
		}
	}

	return
}

func (p Operator) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if st < len(b) && b[st] == byte(p) {
		return opAt{Op: byte(p), Pos: st}, st + 1, nil
	}

	return nil, st, errors.New("%q expected", byte(p))
}

func (p Operator) String() string { return string(rune(p)) }

func (o opAt) BinOp(l, r ast.Node) (ast.Node, error) {
	return ast.BinOp{
		Base: ast.Base{
			Pos: Span(l).Pos,
			End: Span(r).End,
		},
		Op:    o.Op,
		OpPos: o.Pos,
		Left:  l,
		Right: r,
	}, nil
}

func (p Signed) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = SpaceAll.Skip(b, st)

	if i == len(b) || b[i] != '+' && b[i] != '-' {
		return p.Of.Parse(ctx, b, st)
	}

	at, sign := i, b[i]

	if strings.IndexByte(p.Signs, sign) < 0 {
		return nil, i, errors.New("unexpected %q", sign)
	}

	x, i, err = p.Of.Parse(ctx, b, i+1)
	if err != nil {
		return nil, i, errors.Wrap(err, "signed")
	}

	return ast.Signed{
		Base: ast.Base{
			Pos: at,
			End: Span(x).End,
		},
		Sign: sign,
		X:    x,
	}, i, nil
}

func (p Group) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	if st == len(b) || b[st] != '(' {
		return nil, st, errors.New("'(' expected")
	}

	r := Context{
		Pre:  Const("("),
		Of:   p.Of,
		Post: Spaced(Const(")"), SpaceAll),
	}

	x, i, err = r.Parse(ctx, b, st)
	if err != nil {
		return nil, i, errors.Wrap(err, "group at %d", st)
	}

	return ast.Group{
		Base: ast.Base{
			Pos: st,
			End: i,
		},
		X: x,
	}, i, nil
}

func (Group) String() string { return "Group" }

// Span returns the source range of a node.
func Span(x ast.Node) ast.Base {
	if s, ok := x.(interface{ Span() ast.Base }); ok {
		return s.Span()
	}

	return ast.Base{}
}
