// SPDX-License-Identifier: GPL-3.0-or-later

// Package enginetest provides a small in-memory concolic engine implementing
// the engine interfaces. Expressions range over single symbolic bytes, which is
// enough to exercise branch capture, negation and solving in tests.
package enginetest

import (
	"fmt"

	"github.com/tl455047/TICooperator/plugin/ticoop/engine"
)

var (
	True  = Const{V: 1}
	False = Const{V: 0}
)

type (
	Const struct{ V uint64 }
	Read  struct {
		Array *engine.Array
		Index int
	}
	Eq  struct{ L, R engine.Expr }
	Ult struct{ L, R engine.Expr }
	Not struct{ E engine.Expr }
	And struct{ L, R engine.Expr }
)

func (c Const) String() string { return fmt.Sprintf("%#x", c.V) }
func (c Const) IsTrue() bool   { return c.V != 0 }
func (r Read) String() string  { return fmt.Sprintf("%s[%d]", r.Array.Name, r.Index) }
func (e Eq) String() string    { return fmt.Sprintf("(Eq %s %s)", e.L, e.R) }
func (e Ult) String() string   { return fmt.Sprintf("(Ult %s %s)", e.L, e.R) }
func (e Not) String() string   { return fmt.Sprintf("(Not %s)", e.E) }
func (e And) String() string   { return fmt.Sprintf("(And %s %s)", e.L, e.R) }

func boolConst(v bool) Const {
	if v {
		return True
	}
	return False
}

type lookupFunc func(arr *engine.Array, idx int) (byte, bool)

// fold substitutes bound bytes and reduces constant subexpressions.
func fold(e engine.Expr, lookup lookupFunc) engine.Expr {
	switch e := e.(type) {
	case Read:
		if lookup != nil {
			if b, ok := lookup(e.Array, e.Index); ok {
				return Const{V: uint64(b)}
			}
		}
		return e
	case Eq:
		l, r := fold(e.L, lookup), fold(e.R, lookup)
		lc, lok := l.(Const)
		rc, rok := r.(Const)
		if lok && rok {
			return boolConst(lc.V == rc.V)
		}
		return Eq{L: l, R: r}
	case Ult:
		l, r := fold(e.L, lookup), fold(e.R, lookup)
		lc, lok := l.(Const)
		rc, rok := r.(Const)
		if lok && rok {
			return boolConst(lc.V < rc.V)
		}
		return Ult{L: l, R: r}
	case Not:
		x := fold(e.E, lookup)
		switch x := x.(type) {
		case Const:
			return boolConst(!x.IsTrue())
		case Not:
			return x.E
		}
		return Not{E: x}
	case And:
		l, r := fold(e.L, lookup), fold(e.R, lookup)
		if c, ok := l.(Const); ok {
			if !c.IsTrue() {
				return False
			}
			return r
		}
		if c, ok := r.(Const); ok {
			if !c.IsTrue() {
				return False
			}
			return l
		}
		return And{L: l, R: r}
	}
	return e
}

// Exprs implements engine.ExprBuilder.
type Exprs struct{}

func (Exprs) IsZero(e engine.Expr) engine.Expr { return fold(Not{E: e}, nil) }
func (Exprs) False() engine.Expr               { return False }

// Byte returns an expression reading byte idx of arr.
func Byte(arr *engine.Array, idx int) engine.Expr {
	return Read{Array: arr, Index: idx}
}
