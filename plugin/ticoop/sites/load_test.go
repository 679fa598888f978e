// SPDX-License-Identifier: GPL-3.0-or-later

package sites

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		input    string
		want     []Site
		wantErrs int
	}{
		"address and id": {
			input: "401a2c 7\n",
			want:  []Site{{Address: 0x401a2c, ID: 7}},
		},
		"missing id defaults to zero": {
			input: "401a2c\n",
			want:  []Site{{Address: 0x401a2c}},
		},
		"0x prefix and uppercase": {
			input: "0X401A2C 3\n0x10 4",
			want:  []Site{{Address: 0x401a2c, ID: 3}, {Address: 0x10, ID: 4}},
		},
		"blank lines and comments": {
			input: "\n# comment\n  10 1  \n\n",
			want:  []Site{{Address: 0x10, ID: 1}},
		},
		"tabs": {
			input: "10\t1\n",
			want:  []Site{{Address: 0x10, ID: 1}},
		},
		"empty input": {
			input: "",
		},
		"malformed lines are skipped": {
			input:    "zz 1\n10 x\n20 2\n30 1 2\n",
			want:     []Site{{Address: 0x20, ID: 2}},
			wantErrs: 3,
		},
		"id overflow": {
			input:    "10 4294967296\n",
			wantErrs: 1,
		},
		"duplicate address keeps first": {
			input:    "10 1\n10 2\n",
			want:     []Site{{Address: 0x10, ID: 1}},
			wantErrs: 1,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			r, errs := Parse(strings.NewReader(test.input))

			assert.Len(t, errs, test.wantErrs)
			assert.Equal(t, test.want, r.Sites())
		})
	}
}

func TestLoad(t *testing.T) {
	r := Load("testdata/ret_addr")

	assert.Equal(t, []Site{
		{Address: 0x401a2c, ID: 1},
		{Address: 0x401b10, ID: 2},
		{Address: 0x401c00, ID: 0},
	}, r.Sites())
}

func TestLoad_Malformed(t *testing.T) {
	r := Load("testdata/ret_addr_malformed")

	assert.Equal(t, []Site{
		{Address: 0x401a2c, ID: 1},
		{Address: 0x401d00, ID: 4},
	}, r.Sites())
}

func TestLoad_Missing(t *testing.T) {
	r := Load(filepath.Join(t.TempDir(), "ret_addr"))

	require.NotNil(t, r)
	assert.Equal(t, 0, r.Len())
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "ret_addr"), 0755))

	r := Load(filepath.Join(dir, "ret_addr"))

	require.NotNil(t, r)
	assert.Equal(t, 0, r.Len())
}
