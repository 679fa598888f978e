// SPDX-License-Identifier: GPL-3.0-or-later

package cooperator

import (
	"bufio"
	"fmt"
	"os"

	"github.com/tl455047/TICooperator/plugin/ticoop/sites"
)

// OnEngineShutdown writes the unvisited site report, flushes the final
// statistics and closes the logs. Only the first call has an effect.
func (c *Cooperator) OnEngineShutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.shutdown {
		return
	}
	c.shutdown = true

	unvisited := c.registry.Unvisited()
	summary := Summary{
		Elapsed:   c.cpuTime(),
		Visited:   len(c.registry.Visited()),
		Unvisited: len(unvisited),
		Total:     c.registry.Len(),
	}

	if err := c.writeReport(unvisited, summary); err != nil {
		c.Warningf("shutdown report: %v", err)
	}

	c.writeStats(c.cpuTime())
	c.writeStatsRow(summary.String())
	c.closeStatsFile()

	c.Infof("reached %d of %d sites (%s solved / unsolved / total)", summary.Visited, summary.Total, c.stats)
}

func (c *Cooperator) writeReport(unvisited []sites.Site, summary Summary) (err error) {
	f, err := os.Create(c.outputPath(c.ReportFile))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(f)
	for _, s := range unvisited {
		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, summary); err != nil {
		return err
	}

	return w.Flush()
}
