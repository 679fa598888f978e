// SPDX-License-Identifier: GPL-3.0-or-later

package cooperator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tl455047/TICooperator/plugin/ticoop/sites"
)

func TestTestCaseLabel(t *testing.T) {
	tests := map[string]struct {
		seq  int
		site sites.Site
		want string
	}{
		"first handoff": {seq: 0, site: sites.Site{Address: 0x1000, ID: 7}, want: "id:000000-1000-7"},
		"zero id":       {seq: 12, site: sites.Site{Address: 0x401a2c}, want: "id:000012-401a2c-0"},
		"wide sequence": {seq: 1234567, site: sites.Site{Address: 0xffffffff81000000, ID: 4294967295}, want: "id:1234567-ffffffff81000000-4294967295"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, testCaseLabel(test.seq, test.site))
		})
	}
}
