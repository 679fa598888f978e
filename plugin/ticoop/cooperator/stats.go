// SPDX-License-Identifier: GPL-3.0-or-later

package cooperator

import (
	"fmt"
	"strconv"
	"time"
)

// Stats counts alternate-branch constraints. Solved+Unsolved always equals
// Total when observed outside a hook.
type Stats struct {
	Total    uint64
	Solved   uint64
	Unsolved uint64
}

func (s Stats) String() string {
	return fmt.Sprintf("%d,%d,%d", s.Solved, s.Unsolved, s.Total)
}

// Summary is the closing row written at engine shutdown.
type Summary struct {
	Elapsed   time.Duration
	Visited   int
	Unvisited int
	Total     int
}

func (s Summary) String() string {
	return fmt.Sprintf("%s,%d,%d,%d", formatElapsed(s.Elapsed), s.Visited, s.Unvisited, s.Total)
}

func formatElapsed(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
