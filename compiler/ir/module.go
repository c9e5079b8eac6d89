package ir

import (
	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"
)

type (
	// Module is the append-only instruction list of one compilation.
	Module struct {
		ID string

		Body []Instr
	}
)

const DefaultID = "stm2ir"

const printCall = `call i32 (i8*, ...)* @printf(i8* getelementptr ([4 x i8]* @print.str, i32 0, i32 0), i32 %v )`

var footer = []string{
	"ret i32 0",
	"}",
}

func NewModule(id string) *Module {
	if id == "" {
		id = DefaultID
	}

	return &Module{ID: id}
}

func (m *Module) Append(x Instr) {
	m.Body = append(m.Body, x)
}

func (m *Module) Header() []string {
	return []string{
		"; ModuleID = '" + m.ID + "'",
		"declare i32 @printf(i8*, ...)",
		`@print.str = constant [4 x i8] c"%d\0A\00"`,
		"define i32 @main() {",
	}
}

func (m *Module) Footer() []string { return footer }

// Lines renders header, body and footer, one instruction per line.
func (m *Module) Lines() (l []string, err error) {
	l = append(l, m.Header()...)

	var b []byte

	for i, x := range m.Body {
		b, err = AppendInstr(b[:0], x)
		if err != nil {
			return nil, errors.Wrap(err, "instr %d", i)
		}

		l = append(l, string(b))
	}

	l = append(l, m.Footer()...)

	return l, nil
}

// AppendText appends the whole module, newline terminated.
func (m *Module) AppendText(b []byte) (_ []byte, err error) {
	l, err := m.Lines()
	if err != nil {
		return b, err
	}

	for _, s := range l {
		b = append(b, s...)
		b = append(b, '\n')
	}

	return b, nil
}

func AppendInstr(b []byte, x Instr) ([]byte, error) {
	switch x := x.(type) {
	case Alloca:
		b = hfmt.Appendf(b, "%v = alloca i32", x.Slot)
	case Store:
		b = hfmt.Appendf(b, "store i32 %v, i32* %v", x.Val, x.Slot)
	case Load:
		b = hfmt.Appendf(b, "%v = load i32* %v", x.Out, x.Slot)
	case BinOp:
		b = hfmt.Appendf(b, "%v = %s i32 %v,%v", x.Out, x.Op, x.L, x.R)
	case Print:
		b = hfmt.Appendf(b, printCall, x.Val)
	default:
		return b, errors.New("unsupported instruction: %T", x)
	}

	return b, nil
}
