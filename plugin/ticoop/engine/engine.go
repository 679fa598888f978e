// SPDX-License-Identifier: GPL-3.0-or-later

// Package engine describes the symbolic execution engine as seen by the
// cooperator: execution states, expressions, the constraint solver, the
// executor that owns the active state set, and the test case generator.
// The engine itself lives outside this module; hosts adapt it to these
// interfaces.
package engine

import (
	"context"
	"errors"
)

var (
	// ErrUnsatisfiable is returned by a Solver when no assignment satisfies the query.
	ErrUnsatisfiable = errors.New("engine: constraints are unsatisfiable")
	// ErrStateNotFound is returned by an Executor for an unknown or discarded state.
	ErrStateNotFound = errors.New("engine: state not found")
)

// StateID is a stable per-run identifier of an execution state.
type StateID int

// Expr is an engine expression. Its representation is opaque to the cooperator.
type Expr interface {
	String() string
}

// Constant is implemented by expressions that have been reduced to a value.
type Constant interface {
	Expr
	IsTrue() bool
}

// AsConstant reports whether e is a constant expression.
func AsConstant(e Expr) (Constant, bool) {
	c, ok := e.(Constant)
	return c, ok
}

// ExprBuilder creates new expressions.
type ExprBuilder interface {
	// IsZero returns the boolean negation of e.
	IsZero(e Expr) Expr
	// False returns the constant false expression.
	False() Expr
}

// Array is a symbolic object: a named input region.
type Array struct {
	Name string
	Size int
}

// Assignment binds concrete values to symbolic objects.
type Assignment interface {
	// Evaluate substitutes the bound values into e and simplifies the result.
	Evaluate(e Expr) Expr
	Value(arr *Array) ([]byte, bool)
	Add(arr *Array, value []byte)
	Clear()
}

// Constraints is an ordered path constraint set.
type Constraints interface {
	// Copy returns an independent set; adding to the copy leaves the receiver unchanged.
	Copy() Constraints
	Add(e Expr)
	Exprs() []Expr
	Len() int
}

// Query asks whether Expr can be false under Constraints.
type Query struct {
	Constraints Constraints
	Expr        Expr
}

// Solver answers satisfiability queries.
type Solver interface {
	// InitialValues returns a value for every array such that all query constraints hold.
	// It returns ErrUnsatisfiable if there is none.
	InitialValues(ctx context.Context, q Query, arrays []*Array) ([][]byte, error)
}

// State is one execution state (one explored path).
type State interface {
	ID() StateID
	PC() uint64
	IsRunningConcrete() bool

	// Simplify simplifies e under the state's path constraints.
	Simplify(e Expr) Expr
	Concolics() Assignment
	Constraints() Constraints
	Symbolics() []*Array
	Solver() Solver

	// Clone returns a full copy of the state. The copy is not registered with the executor.
	Clone() State
	// AddConstraint adds e to the path constraints.
	// It returns false if the constraint contradicts the current concrete assignment.
	AddConstraint(e Expr) bool
}

// Releaser is implemented by states that hold resources that must be freed
// when a cloned state is discarded.
type Releaser interface {
	Release()
}

// Executor owns the set of active states.
type Executor interface {
	LookupState(id StateID) (State, bool)
	TerminateState(state State, reason string) error
}

type TestCaseType int

const (
	TestCaseFile TestCaseType = iota + 1
	TestCaseLog
)

func (t TestCaseType) String() string {
	switch t {
	case TestCaseFile:
		return "file"
	case TestCaseLog:
		return "log"
	default:
		return "unknown"
	}
}

// TestCaseGenerator persists the concrete inputs of a state.
type TestCaseGenerator interface {
	GenerateTestCases(ctx context.Context, state State, prefix string, typ TestCaseType) error
}

// Plugin is the hook surface the engine invokes.
type Plugin interface {
	// OnStateForkDecide is called before the engine forks state on a non-constant condition.
	// Setting *allowForking to false suppresses the fork.
	OnStateForkDecide(state State, condition Expr, allowForking *bool)
	OnEngineShutdown()
	OnTimer()
}

// Host is the engine instance a plugin attaches to.
type Host interface {
	Executor() Executor
	Exprs() ExprBuilder
	TestCaseGenerator() TestCaseGenerator
	OutputDirectory() string
	Register(p Plugin)
}
