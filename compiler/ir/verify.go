package ir

import (
	"tlog.app/go/errors"

	"github.com/slowlang/stm2ir/compiler/set"
)

// Verify checks the load/store discipline and register single assignment.
// Raw operands are not checked, they are the unresolved passthrough.
func Verify(m *Module) error {
	slots := map[Slot]struct{}{}
	regs := set.MakeBits[Reg](0)
	var last Reg

	def := func(r Reg) error {
		if r <= 0 {
			return errors.New("bad register %v", r)
		}
		if regs.IsSet(r) {
			return errors.New("register %v redefined", r)
		}
		if r <= last {
			return errors.New("register %v defined after %v", r, last)
		}

		regs.Set(r)
		last = r

		return nil
	}

	use := func(x Operand) error {
		r, ok := x.(Reg)
		if !ok {
			return nil
		}

		if r <= 0 || !regs.IsSet(r) {
			return errors.New("register %v used before definition", r)
		}

		return nil
	}

	slot := func(s Slot) error {
		if _, ok := slots[s]; !ok {
			return errors.New("slot %v used before alloca", s)
		}

		return nil
	}

	for i, x := range m.Body {
		var err error

		switch x := x.(type) {
		case Alloca:
			if _, ok := slots[x.Slot]; ok {
				err = errors.New("slot %v allocated twice", x.Slot)
			}

			slots[x.Slot] = struct{}{}
		case Store:
			err = use(x.Val)
			if err == nil {
				err = slot(x.Slot)
			}
		case Load:
			err = slot(x.Slot)
			if err == nil {
				err = def(x.Out)
			}
		case BinOp:
			err = use(x.L)
			if err == nil {
				err = use(x.R)
			}
			if err == nil {
				err = def(x.Out)
			}
		case Print:
			err = use(x.Val)
		default:
			err = errors.New("unsupported instruction: %T", x)
		}

		if err != nil {
			return errors.Wrap(err, "instr %d", i)
		}
	}

	return nil
}
