// SPDX-License-Identifier: GPL-3.0-or-later

package cooperator

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tl455047/TICooperator/pkg/confopt"
	"github.com/tl455047/TICooperator/plugin/ticoop/engine/enginetest"
)

func TestCooperator_OnTimer_WritesStatistics(t *testing.T) {
	coop, host, clock := prepareCooperator(t, "1000 7\n")

	st := host.Exec.NewState(0x1000)
	x := st.MakeSymbolic("x", []byte{0})
	host.Fork(st, enginetest.Eq{L: enginetest.Byte(x, 0), R: enginetest.Const{V: 1}})

	clock.elapsed = 1500 * time.Millisecond
	host.Tick()
	clock.elapsed = 2*time.Second + 250*time.Microsecond
	coop.PrintStatistics()

	lines := readLines(t, filepath.Join(host.Dir, "Solving.stats"))
	assert.Equal(t, []string{"1.500,1,0,1", "2.000,1,0,1"}, lines)
}

func TestCooperator_OnTimer_Timeout(t *testing.T) {
	tests := map[string]struct {
		timeout    time.Duration
		elapsed    time.Duration
		noTracked  bool
		discard    bool
		wantTerm   bool
		wantStates int
	}{
		"below budget": {
			timeout:    10 * time.Second,
			elapsed:    9 * time.Second,
			wantStates: 2,
		},
		"at budget": {
			timeout:    10 * time.Second,
			elapsed:    10 * time.Second,
			wantTerm:   true,
			wantStates: 1,
		},
		"over budget": {
			timeout:    10 * time.Second,
			elapsed:    time.Minute,
			wantTerm:   true,
			wantStates: 1,
		},
		"disabled": {
			timeout:    0,
			elapsed:    time.Hour,
			wantStates: 2,
		},
		"no tracked state": {
			timeout:    10 * time.Second,
			elapsed:    time.Minute,
			noTracked:  true,
			wantStates: 2,
		},
		"tracked state is gone": {
			timeout:    10 * time.Second,
			elapsed:    time.Minute,
			discard:    true,
			wantStates: 1,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			coop, host, clock := prepareCooperator(t, "1000 7\n")
			coop.Timeout = confopt.Duration(test.timeout)

			first := host.Exec.NewState(0x5000)
			second := host.Exec.NewState(0x5000)
			if !test.noTracked {
				x := first.MakeSymbolic("x", []byte{0})
				host.Fork(first, enginetest.Eq{L: enginetest.Byte(x, 0), R: enginetest.Const{V: 1}})
				y := second.MakeSymbolic("y", []byte{0})
				host.Fork(second, enginetest.Eq{L: enginetest.Byte(y, 0), R: enginetest.Const{V: 1}})
			}
			if test.discard {
				host.Exec.Discard(first.ID())
			}

			clock.elapsed = test.elapsed
			host.Tick()

			terms := host.Exec.Terminations()
			if test.wantTerm {
				require.Len(t, terms, 1)
				assert.Equal(t, first.ID(), terms[0].ID)
				assert.Equal(t, "timeout", terms[0].Reason)
			} else {
				assert.Empty(t, terms)
			}
			assert.Equal(t, test.wantStates, host.Exec.Len())
		})
	}
}

func TestCooperator_OnTimer_TimeoutIsReevaluated(t *testing.T) {
	coop, host, clock := prepareCooperator(t, "")
	coop.Timeout = confopt.Duration(time.Second)

	st := host.Exec.NewState(0)
	x := st.MakeSymbolic("x", []byte{0})
	host.Fork(st, enginetest.Eq{L: enginetest.Byte(x, 0), R: enginetest.Const{V: 1}})

	clock.elapsed = 2 * time.Second
	host.Tick()
	host.Tick()
	coop.PrintStatistics()

	assert.Len(t, host.Exec.Terminations(), 1)
	assert.Len(t, readLines(t, filepath.Join(host.Dir, "Solving.stats")), 3)
}

func TestFormatElapsed(t *testing.T) {
	tests := map[string]struct {
		d    time.Duration
		want string
	}{
		"zero":         {d: 0, want: "0.000"},
		"milliseconds": {d: 12 * time.Millisecond, want: "0.012"},
		"rounds":       {d: 1999600 * time.Microsecond, want: "2.000"},
		"hours":        {d: time.Hour, want: "3600.000"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, formatElapsed(test.d))
		})
	}
}
