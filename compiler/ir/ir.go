package ir

import (
	"strconv"

	"tlog.app/go/tlog/tlwire"
)

type (
	// Operand is an instruction argument.
	Operand interface {
		String() string
		operand()
	}

	// Lit is an i32 literal as it was written, sign included.
	Lit string

	// Slot is the memory cell of a declared variable.
	Slot string

	// Reg is a single-assignment virtual register.
	Reg int

	// Raw is text passed through unresolved.
	Raw string

	Op string

	Instr interface {
		instr()
	}

	Alloca struct {
		Slot Slot
	}

	Store struct {
		Val  Operand
		Slot Slot
	}

	Load struct {
		Out  Reg
		Slot Slot
	}

	BinOp struct {
		Op   Op
		Out  Reg
		L, R Operand
	}

	// Print calls printf with a single i32 argument.
	Print struct {
		Val Operand
	}
)

const (
	Mul  Op = "mul"
	SDiv Op = "sdiv"
	Sub  Op = "sub"
	Add  Op = "add"
)

func (x Lit) String() string  { return string(x) }
func (x Slot) String() string { return "%" + string(x) }
func (x Reg) String() string  { return "%" + strconv.Itoa(int(x)) }
func (x Raw) String() string  { return string(x) }

func (Lit) operand()  {}
func (Slot) operand() {}
func (Reg) operand()  {}
func (Raw) operand()  {}

func (Alloca) instr() {}
func (Store) instr()  {}
func (Load) instr()   {}
func (BinOp) instr()  {}
func (Print) instr()  {}

// OpFor maps an operator character to its instruction.
func OpFor(c byte) (Op, bool) {
	switch c {
	case '*':
		return Mul, true
	case '/':
		return SDiv, true
	case '-':
		return Sub, true
	case '+':
		return Add, true
	}

	return "", false
}

func (x Reg) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	return e.AppendString(b, x.String())
}

func (x Slot) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	return e.AppendString(b, x.String())
}
