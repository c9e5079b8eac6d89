package parse

import (
	"context"

	"tlog.app/go/errors"

	"github.com/slowlang/stm2ir/compiler/ast"
)

type (
	Int struct{}
)

// Parse reads an unsigned decimal literal.
// Signs are handled by Signed, range by the resolver.
func (p Int) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	i = st

	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}

	if i == st {
		return nil, st, errors.New("Int expected")
	}

	return ast.Int{
		Base: ast.Base{
			Pos: st,
			End: i,
		},
	}, i, nil
}

func (Int) String() string { return "Int" }
