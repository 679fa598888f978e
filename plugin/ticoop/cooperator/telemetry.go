// SPDX-License-Identifier: GPL-3.0-or-later

package cooperator

import (
	"errors"
	"fmt"
	"time"

	"github.com/tl455047/TICooperator/plugin/ticoop/engine"
)

const timeoutReason = "timeout"

func (c *Cooperator) OnTimer() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.collect()
}

// PrintStatistics flushes a statistics row on demand. It is also subject to
// the time budget check.
func (c *Cooperator) PrintStatistics() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.collect()
}

func (c *Cooperator) collect() {
	elapsed := c.cpuTime()

	c.writeStats(elapsed)
	c.checkTimeout(elapsed)
}

func (c *Cooperator) writeStats(elapsed time.Duration) {
	c.Debugf("solved / unsolved / total: %s", c.stats)

	c.writeStatsRow(fmt.Sprintf("%s,%s", formatElapsed(elapsed), c.stats))
}

func (c *Cooperator) writeStatsRow(row string) {
	if c.statsWriter == nil {
		return
	}
	if _, err := fmt.Fprintln(c.statsWriter, row); err != nil {
		c.Warningf("write statistics log: %v", err)
		return
	}
	if err := c.statsWriter.Flush(); err != nil {
		c.Warningf("flush statistics log: %v", err)
	}
}

func (c *Cooperator) checkTimeout(elapsed time.Duration) {
	if c.Timeout <= 0 || elapsed < c.Timeout.Duration() {
		return
	}
	if !c.hasTracked {
		c.Debug("time budget exhausted, but no state is tracked yet")
		return
	}

	state, ok := c.Executor.LookupState(c.tracked)
	if !ok {
		c.Debugf("time budget exhausted, tracked state %d is gone", c.tracked)
		return
	}

	c.Infof("time budget of %s exhausted after %ss, terminating state %d", c.Timeout, formatElapsed(elapsed), c.tracked)

	if err := c.Executor.TerminateState(state, timeoutReason); err != nil {
		if errors.Is(err, engine.ErrStateNotFound) {
			c.Debugf("terminate state %d: %v", c.tracked, err)
			return
		}
		c.Warningf("terminate state %d: %v", c.tracked, err)
	}
}
