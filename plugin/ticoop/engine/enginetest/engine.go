// SPDX-License-Identifier: GPL-3.0-or-later

package enginetest

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/tl455047/TICooperator/plugin/ticoop/engine"
)

// maxSolverBytes bounds the search space of ExhaustiveSolver.
const maxSolverBytes = 2

// ExhaustiveSolver finds the smallest assignment (in lexicographic byte
// order) satisfying a query by enumerating every value of every symbolic byte.
type ExhaustiveSolver struct{}

func (ExhaustiveSolver) InitialValues(ctx context.Context, q engine.Query, arrays []*engine.Array) ([][]byte, error) {
	var n int
	for _, arr := range arrays {
		n += arr.Size
	}
	if n > maxSolverBytes {
		return nil, fmt.Errorf("exhaustive solver: %d symbolic bytes, at most %d supported", n, maxSolverBytes)
	}

	buf := make([]byte, n)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		values := split(buf, arrays)
		if satisfies(q, arrays, values) {
			return values, nil
		}
		if !increment(buf) {
			return nil, engine.ErrUnsatisfiable
		}
	}
}

func split(buf []byte, arrays []*engine.Array) [][]byte {
	values := make([][]byte, 0, len(arrays))
	var off int
	for _, arr := range arrays {
		values = append(values, slices.Clone(buf[off:off+arr.Size]))
		off += arr.Size
	}
	return values
}

func satisfies(q engine.Query, arrays []*engine.Array, values [][]byte) bool {
	a := NewAssignment()
	for i, arr := range arrays {
		a.Add(arr, values[i])
	}
	for _, e := range q.Constraints.Exprs() {
		c, ok := a.Evaluate(e).(Const)
		if !ok || !c.IsTrue() {
			return false
		}
	}
	if q.Expr == nil {
		return true
	}
	c, ok := a.Evaluate(q.Expr).(Const)
	return ok && !c.IsTrue()
}

func increment(buf []byte) bool {
	for i := len(buf) - 1; i >= 0; i-- {
		buf[i]++
		if buf[i] != 0 {
			return true
		}
	}
	return false
}

// SolverFunc adapts a function to engine.Solver.
type SolverFunc func(ctx context.Context, q engine.Query, arrays []*engine.Array) ([][]byte, error)

func (f SolverFunc) InitialValues(ctx context.Context, q engine.Query, arrays []*engine.Array) ([][]byte, error) {
	return f(ctx, q, arrays)
}

// FixedSolver always answers with Values, or with Err if set.
func FixedSolver(values [][]byte, err error) SolverFunc {
	return func(context.Context, engine.Query, []*engine.Array) ([][]byte, error) {
		if err != nil {
			return nil, err
		}
		return values, nil
	}
}

type Termination struct {
	ID     engine.StateID
	Reason string
}

// Executor implements engine.Executor.
type Executor struct {
	mu           sync.Mutex
	seq          int
	states       map[engine.StateID]*State
	terminations []Termination
	released     int
}

func NewExecutor() *Executor {
	return &Executor{states: make(map[engine.StateID]*State)}
}

// NewState creates and registers an active state using ExhaustiveSolver.
func (e *Executor) NewState(pc uint64) *State {
	st := &State{
		exec:        e,
		id:          e.nextID(),
		pc:          pc,
		concolics:   NewAssignment(),
		constraints: &Constraints{},
		solver:      ExhaustiveSolver{},
	}

	e.mu.Lock()
	e.states[st.id] = st
	e.mu.Unlock()

	return st
}

func (e *Executor) LookupState(id engine.StateID) (engine.State, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, ok := e.states[id]
	if !ok {
		return nil, false
	}
	return st, true
}

func (e *Executor) TerminateState(st engine.State, reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.states[st.ID()]; !ok {
		return engine.ErrStateNotFound
	}
	delete(e.states, st.ID())
	e.terminations = append(e.terminations, Termination{ID: st.ID(), Reason: reason})

	return nil
}

// Discard drops a state without a termination record, the way an engine
// silently kills a finished path.
func (e *Executor) Discard(id engine.StateID) {
	e.mu.Lock()
	delete(e.states, id)
	e.mu.Unlock()
}

// Len returns the number of active states.
func (e *Executor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.states)
}

func (e *Executor) Terminations() []Termination {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.terminations)
}

// Released returns how many cloned states have been released.
func (e *Executor) Released() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.released
}

func (e *Executor) nextID() engine.StateID {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq++
	return engine.StateID(e.seq)
}

type TestCase struct {
	Prefix      string
	Type        engine.TestCaseType
	StateID     engine.StateID
	Values      map[string][]byte
	Constraints []string
}

// Generator implements engine.TestCaseGenerator by recording every request.
type Generator struct {
	Err error

	mu    sync.Mutex
	cases []TestCase
}

func (g *Generator) GenerateTestCases(_ context.Context, st engine.State, prefix string, typ engine.TestCaseType) error {
	tc := TestCase{
		Prefix:  prefix,
		Type:    typ,
		StateID: st.ID(),
		Values:  make(map[string][]byte),
	}
	for _, arr := range st.Symbolics() {
		if v, ok := st.Concolics().Value(arr); ok {
			tc.Values[arr.Name] = slices.Clone(v)
		}
	}
	for _, e := range st.Constraints().Exprs() {
		tc.Constraints = append(tc.Constraints, e.String())
	}

	g.mu.Lock()
	g.cases = append(g.cases, tc)
	g.mu.Unlock()

	return g.Err
}

func (g *Generator) Cases() []TestCase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.cases)
}

// Host implements engine.Host and drives registered plugins.
type Host struct {
	Exec *Executor
	Gen  *Generator
	Dir  string

	plugins []engine.Plugin
}

func NewHost(dir string) *Host {
	return &Host{
		Exec: NewExecutor(),
		Gen:  &Generator{},
		Dir:  dir,
	}
}

func (h *Host) Executor() engine.Executor                   { return h.Exec }
func (h *Host) Exprs() engine.ExprBuilder                   { return Exprs{} }
func (h *Host) TestCaseGenerator() engine.TestCaseGenerator { return h.Gen }
func (h *Host) OutputDirectory() string                     { return h.Dir }
func (h *Host) Register(p engine.Plugin)                    { h.plugins = append(h.plugins, p) }

// Fork runs the fork-decide hooks for a branch on cond and reports whether
// the engine would still fork.
func (h *Host) Fork(st engine.State, cond engine.Expr) bool {
	allow := true
	for _, p := range h.plugins {
		p.OnStateForkDecide(st, cond, &allow)
	}
	return allow
}

func (h *Host) Tick() {
	for _, p := range h.plugins {
		p.OnTimer()
	}
}

func (h *Host) Shutdown() {
	for _, p := range h.plugins {
		p.OnEngineShutdown()
	}
}

var errNoPlugins = errors.New("enginetest: no plugins registered")

// Plugins returns the registered plugins.
func (h *Host) Plugins() ([]engine.Plugin, error) {
	if len(h.plugins) == 0 {
		return nil, errNoPlugins
	}
	return slices.Clone(h.plugins), nil
}
