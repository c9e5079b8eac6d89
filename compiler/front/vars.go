package front

import (
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/slowlang/stm2ir/compiler/ir"
)

type (
	// Vars is the set of declared variable names.
	Vars struct {
		names map[string]struct{}
	}

	// Temps issues virtual register ids, starting from 1.
	Temps struct {
		last ir.Reg
	}
)

// Declare adds name and reports whether it was new.
func (v *Vars) Declare(name string) bool {
	if _, ok := v.names[name]; ok {
		return false
	}

	if v.names == nil {
		v.names = map[string]struct{}{}
	}

	v.names[name] = struct{}{}

	tlog.V("vars").Printw("declare var", "name", name, "from", loc.Callers(1, 2))

	return true
}

func (v *Vars) Declared(name string) bool {
	_, ok := v.names[name]
	return ok
}

func (v *Vars) Len() int { return len(v.names) }

func (t *Temps) Next() ir.Reg {
	t.last++

	return t.last
}

// Skip burns one id. Unnamed values such as the printf result take one.
func (t *Temps) Skip() {
	t.last++
}

func (t *Temps) Last() ir.Reg { return t.last }
