// SPDX-License-Identifier: GPL-3.0-or-later

package cooperator

import (
	"context"
	"errors"

	"github.com/tl455047/TICooperator/plugin/ticoop/engine"
)

// OnStateForkDecide never lets the engine fork. When the branch sits on a
// registered site, the constraint for the direction not taken is solved and
// handed to the test case generator instead.
func (c *Cooperator) OnStateForkDecide(state engine.State, condition engine.Expr, allowForking *bool) {
	*allowForking = false

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasTracked {
		c.tracked, c.hasTracked = state.ID(), true
		c.Debugf("tracking state %d", c.tracked)
	}

	if state.IsRunningConcrete() {
		c.violation("fork decide", state, "state is running concretely")
	}

	cond := state.Simplify(condition)
	if _, ok := engine.AsConstant(cond); ok {
		return
	}

	concrete, ok := engine.AsConstant(state.Concolics().Evaluate(cond))
	if !ok {
		c.violation("fork decide", state, "condition %s does not evaluate to a constant", cond)
	}
	conditionIsTrue := concrete.IsTrue()

	site := c.registry.Lookup(state.PC())
	if site == nil {
		return
	}
	if c.registry.MarkVisited(site) {
		c.Infof("reached site %s at pc %#x", site, state.PC())
	}

	alternate := c.alternate(cond, conditionIsTrue)
	constraints := state.Constraints().Copy()
	constraints.Add(alternate)

	arrays := state.Symbolics()

	c.stats.Total++
	values, err := c.solve(state.Solver(), engine.Query{Constraints: constraints, Expr: c.Exprs.False()}, arrays)
	if err != nil {
		c.stats.Unsolved++
		if errors.Is(err, engine.ErrUnsatisfiable) {
			c.Debugf("site %s: alternate branch is unsatisfiable", site)
		} else {
			c.Warningf("site %s: solve alternate branch: %v", site, err)
		}
		return
	}
	c.stats.Solved++

	c.materialize(state, alternate, arrays, values, *site)
}

func (c *Cooperator) alternate(cond engine.Expr, conditionIsTrue bool) engine.Expr {
	if conditionIsTrue {
		return c.Exprs.IsZero(cond)
	}
	return cond
}

func (c *Cooperator) solve(solver engine.Solver, q engine.Query, arrays []*engine.Array) ([][]byte, error) {
	ctx := c.ctx
	if c.SolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.SolveTimeout.Duration())
		defer cancel()
	}

	values, err := solver.InitialValues(ctx, q, arrays)
	if err != nil {
		return nil, err
	}
	if len(values) != len(arrays) {
		return nil, errors.New("solver returned a value count that does not match the symbolic objects")
	}
	return values, nil
}

