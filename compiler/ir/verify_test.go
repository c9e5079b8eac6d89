package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerify(t *testing.T) {
	ok := []Instr{
		Alloca{Slot: "a"},
		Store{Val: Lit("1"), Slot: "a"},
		Load{Out: 1, Slot: "a"},
		Print{Val: Reg(1)},
		BinOp{Op: Add, Out: 3, L: Raw("x"), R: Lit("2")},
		Store{Val: Reg(3), Slot: "a"},
	}

	assert.NoError(t, Verify(&Module{Body: ok}))

	for name, body := range map[string][]Instr{
		"load before alloca":  {Load{Out: 1, Slot: "a"}},
		"store before alloca": {Store{Val: Lit("1"), Slot: "a"}},
		"double alloca":       {Alloca{Slot: "a"}, Alloca{Slot: "a"}},
		"use before def":      {Print{Val: Reg(1)}},
		"zero register":       {BinOp{Op: Add, Out: 0, L: Lit("1"), R: Lit("2")}},
		"redefined": {
			BinOp{Op: Add, Out: 1, L: Lit("1"), R: Lit("2")},
			BinOp{Op: Add, Out: 1, L: Lit("1"), R: Lit("2")},
		},
		"decreasing": {
			BinOp{Op: Add, Out: 2, L: Lit("1"), R: Lit("2")},
			BinOp{Op: Add, Out: 1, L: Lit("1"), R: Lit("2")},
		},
		"self use": {BinOp{Op: Mul, Out: 1, L: Reg(1), R: Lit("2")}},
	} {
		assert.Error(t, Verify(&Module{Body: body}), name)
	}
}
