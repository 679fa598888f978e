// SPDX-License-Identifier: GPL-3.0-or-later

package enginetest

import (
	"slices"

	"github.com/tl455047/TICooperator/plugin/ticoop/engine"
)

// Assignment implements engine.Assignment.
type Assignment struct {
	values map[*engine.Array][]byte
}

func NewAssignment() *Assignment {
	return &Assignment{values: make(map[*engine.Array][]byte)}
}

func (a *Assignment) Evaluate(e engine.Expr) engine.Expr {
	return fold(e, a.lookup)
}

func (a *Assignment) Value(arr *engine.Array) ([]byte, bool) {
	v, ok := a.values[arr]
	return v, ok
}

func (a *Assignment) Add(arr *engine.Array, value []byte) {
	a.values[arr] = slices.Clone(value)
}

func (a *Assignment) Clear() {
	clear(a.values)
}

func (a *Assignment) Len() int {
	return len(a.values)
}

func (a *Assignment) copy() *Assignment {
	values := make(map[*engine.Array][]byte, len(a.values))
	for k, v := range a.values {
		values[k] = slices.Clone(v)
	}
	return &Assignment{values: values}
}

func (a *Assignment) lookup(arr *engine.Array, idx int) (byte, bool) {
	v, ok := a.values[arr]
	if !ok || idx < 0 || idx >= len(v) {
		return 0, false
	}
	return v[idx], true
}

// Constraints implements engine.Constraints.
type Constraints struct {
	exprs []engine.Expr
}

func (c *Constraints) Copy() engine.Constraints {
	return &Constraints{exprs: slices.Clone(c.exprs)}
}

func (c *Constraints) Add(e engine.Expr) { c.exprs = append(c.exprs, e) }
func (c *Constraints) Exprs() []engine.Expr {
	return slices.Clone(c.exprs)
}
func (c *Constraints) Len() int { return len(c.exprs) }

// State implements engine.State and engine.Releaser.
type State struct {
	exec *Executor

	id          engine.StateID
	pc          uint64
	concrete    bool
	concolics   *Assignment
	constraints *Constraints
	symbolics   []*engine.Array
	solver      engine.Solver
	released    bool
}

func (s *State) ID() engine.StateID                { return s.id }
func (s *State) PC() uint64                        { return s.pc }
func (s *State) SetPC(pc uint64)                   { s.pc = pc }
func (s *State) IsRunningConcrete() bool           { return s.concrete }
func (s *State) SetRunningConcrete(v bool)         { s.concrete = v }
func (s *State) Simplify(e engine.Expr) engine.Expr { return fold(e, nil) }
func (s *State) Concolics() engine.Assignment      { return s.concolics }
func (s *State) Constraints() engine.Constraints   { return s.constraints }
func (s *State) Symbolics() []*engine.Array        { return slices.Clone(s.symbolics) }
func (s *State) Solver() engine.Solver             { return s.solver }
func (s *State) SetSolver(solver engine.Solver)    { s.solver = solver }
func (s *State) Released() bool                    { return s.released }

// MakeSymbolic creates a symbolic array whose current concrete value is value.
func (s *State) MakeSymbolic(name string, value []byte) *engine.Array {
	arr := &engine.Array{Name: name, Size: len(value)}
	s.symbolics = append(s.symbolics, arr)
	s.concolics.Add(arr, value)
	return arr
}

func (s *State) Clone() engine.State {
	return &State{
		exec:        s.exec,
		id:          s.exec.nextID(),
		pc:          s.pc,
		concrete:    s.concrete,
		concolics:   s.concolics.copy(),
		constraints: &Constraints{exprs: slices.Clone(s.constraints.exprs)},
		symbolics:   slices.Clone(s.symbolics),
		solver:      s.solver,
	}
}

func (s *State) AddConstraint(e engine.Expr) bool {
	if c, ok := s.concolics.Evaluate(e).(Const); ok && !c.IsTrue() {
		return false
	}
	e = fold(e, nil)
	if c, ok := e.(Const); ok {
		return c.IsTrue()
	}
	s.constraints.Add(e)
	return true
}

func (s *State) Release() {
	if s.released {
		return
	}
	s.released = true
	s.exec.mu.Lock()
	s.exec.released++
	s.exec.mu.Unlock()
}

// Values returns the concrete value of every symbolic array keyed by name.
func (s *State) Values() map[string][]byte {
	m := make(map[string][]byte, len(s.symbolics))
	for _, arr := range s.symbolics {
		if v, ok := s.concolics.Value(arr); ok {
			m[arr.Name] = slices.Clone(v)
		}
	}
	return m
}
