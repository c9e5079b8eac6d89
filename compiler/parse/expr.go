package parse

import (
	"context"

	"github.com/slowlang/stm2ir/compiler/ast"
)

type (
	Expr struct{}
)

// Operator classes from tightest to loosest binding.
// Expressions are reduced class by class in this order
// and left to right inside one class, so a/b*c is a/(b*c).
var Classes = []byte{'*', '/', '-', '+'}

var exprGrammar Parser

func init() {
	var p Parser = AnyOf{
		Spaced(Int{}, SpaceAll),
		Spaced(Ident{}, SpaceAll),
		Spaced(Group{Of: Expr{}}, SpaceAll),
	}

	for _, op := range Classes {
		signs := "+-"
		if op == '+' {
			// text after '+' is scanned by the '-' pass first
			signs = "+"
		}

		p = LeftToRight{
			Op:   Spaced(Operator(op), SpaceAll),
			Arg:  p,
			Next: Signed{Signs: signs, Of: p},
		}
	}

	exprGrammar = p
}

func (p Expr) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	return exprGrammar.Parse(ctx, b, st)
}

func (Expr) String() string { return "Expr" }
