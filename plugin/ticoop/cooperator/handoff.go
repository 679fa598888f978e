// SPDX-License-Identifier: GPL-3.0-or-later

package cooperator

import (
	"fmt"

	"github.com/tl455047/TICooperator/plugin/ticoop/engine"
	"github.com/tl455047/TICooperator/plugin/ticoop/sites"
)

// materialize writes a test case for the solved alternate branch from a
// private clone of state. The clone is never seen by the executor.
func (c *Cooperator) materialize(state engine.State, alternate engine.Expr, arrays []*engine.Array, values [][]byte, site sites.Site) {
	clone := state.Clone()
	if r, ok := clone.(engine.Releaser); ok {
		defer r.Release()
	}

	concolics := clone.Concolics()
	concolics.Clear()
	for i, arr := range arrays {
		concolics.Add(arr, values[i])
	}

	if !clone.AddConstraint(alternate) {
		c.violation("handoff", state, "solved assignment contradicts the alternate constraint %s", alternate)
	}

	label := testCaseLabel(c.handoffs, site)
	c.handoffs++

	if err := c.Generator.GenerateTestCases(c.ctx, clone, label, engine.TestCaseFile); err != nil {
		c.Warningf("generate test case '%s': %v", label, err)
		return
	}

	c.Debugf("generated test case '%s'", label)
}

// testCaseLabel names a handoff. seq is the number of test cases handed off
// before this one in the run, not the ID of the cloned state.
func testCaseLabel(seq int, site sites.Site) string {
	return fmt.Sprintf("id:%06d-%x-%d", seq, site.Address, site.ID)
}
