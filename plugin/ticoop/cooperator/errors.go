// SPDX-License-Identifier: GPL-3.0-or-later

package cooperator

import (
	"fmt"

	"github.com/tl455047/TICooperator/plugin/ticoop/engine"
)

// InvariantError reports a broken engine invariant. The cooperator panics
// with it: continuing would act on a corrupted state.
type InvariantError struct {
	Op      string
	StateID engine.StateID
	PC      uint64
	Msg     string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: state %d at pc %#x: %s", e.Op, e.StateID, e.PC, e.Msg)
}

func (c *Cooperator) violation(op string, state engine.State, format string, a ...any) {
	err := &InvariantError{
		Op:      op,
		StateID: state.ID(),
		PC:      state.PC(),
		Msg:     fmt.Sprintf(format, a...),
	}
	c.Error(err)
	panic(err)
}
