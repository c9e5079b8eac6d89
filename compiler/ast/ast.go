package ast

type (
	Node interface {
	}

	// Base is a half-open byte range within the line text.
	Base struct {
		Pos int
		End int
	}

	Line struct {
		Num  int
		Text []byte

		Stmt Node
	}

	Empty struct {
		Base `tlog:",embed"`
	}

	Assignment struct {
		Base `tlog:",embed"`

		Target Ident
		Expr   Node
	}

	Print struct {
		Base `tlog:",embed"`

		Expr Node
	}

	Ident struct {
		Base `tlog:",embed"`
	}

	Int struct {
		Base `tlog:",embed"`
	}

	// Group is a parenthesized expression. Base covers the parentheses.
	Group struct {
		Base `tlog:",embed"`

		X Node
	}

	// Signed is a '+' or '-' written directly after a binary operator.
	Signed struct {
		Base `tlog:",embed"`

		Sign byte
		X    Node
	}

	BinOp struct {
		Base `tlog:",embed"`

		Op    byte
		OpPos int

		Left  Node
		Right Node
	}
)

func (b Base) Text(line []byte) []byte {
	return line[b.Pos:b.End]
}

func (b Base) Span() Base { return b }
