// SPDX-License-Identifier: GPL-3.0-or-later

package sites

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Lookup(t *testing.T) {
	r, errs := NewRegistry(Site{Address: 0x1000, ID: 7})
	require.Empty(t, errs)

	tests := map[string]struct {
		pc      uint64
		wantHit bool
	}{
		"exact address":        {pc: 0x1000, wantHit: true},
		"inside window":        {pc: 0x1005, wantHit: true},
		"last byte of window":  {pc: 0x100f, wantHit: true},
		"window end":           {pc: 0x1010, wantHit: false},
		"far after":            {pc: 0x2000, wantHit: false},
		"one before":           {pc: 0x0fff, wantHit: false},
		"zero":                 {pc: 0, wantHit: false},
		"max pc does not wrap": {pc: ^uint64(0), wantHit: false},
		"just below by window": {pc: 0x1000 - Tolerance, wantHit: false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			s := r.Lookup(test.pc)

			if !test.wantHit {
				assert.Nil(t, s)
				return
			}
			require.NotNil(t, s)
			assert.Equal(t, uint64(0x1000), s.Address)
			assert.Equal(t, uint32(7), s.ID)
		})
	}
}

func TestRegistry_Lookup_ToleranceProperty(t *testing.T) {
	const base = 0x400000
	r, _ := NewRegistry(Site{Address: base})

	for pc := uint64(base - 0x40); pc < base+0x40; pc++ {
		want := pc >= base && pc-base < Tolerance
		assert.Equalf(t, want, r.Lookup(pc) != nil, "pc %#x", pc)
	}
}

func TestRegistry_Lookup_FirstMatchInRegistrationOrder(t *testing.T) {
	r, errs := NewRegistry(
		Site{Address: 0x1008, ID: 1},
		Site{Address: 0x1000, ID: 2},
	)
	require.Empty(t, errs)

	s := r.Lookup(0x100a)
	require.NotNil(t, s)
	assert.Equal(t, uint32(1), s.ID)

	s = r.Lookup(0x1004)
	require.NotNil(t, s)
	assert.Equal(t, uint32(2), s.ID)
}

func TestNewRegistry_Duplicates(t *testing.T) {
	r, errs := NewRegistry(
		Site{Address: 0x10, ID: 1},
		Site{Address: 0x10, ID: 2},
		Site{Address: 0x20, ID: 3},
	)

	assert.Len(t, errs, 1)
	assert.Equal(t, []Site{{Address: 0x10, ID: 1}, {Address: 0x20, ID: 3}}, r.Sites())
}

func TestRegistry_MarkVisited(t *testing.T) {
	r, _ := NewRegistry(
		Site{Address: 0x1000, ID: 1},
		Site{Address: 0x2000, ID: 2},
		Site{Address: 0x3000, ID: 3},
	)

	s := r.Lookup(0x2004)
	require.NotNil(t, s)

	assert.True(t, r.MarkVisited(s), "first transition")
	assert.False(t, r.MarkVisited(s), "second call is a no-op")
	assert.False(t, r.MarkVisited(r.Lookup(0x2001)), "same site through another pc")
	assert.False(t, r.MarkVisited(nil))

	assert.True(t, r.Lookup(0x2000).Visited())
	assert.Equal(t, []Site{{Address: 0x2000, ID: 2, visited: true}}, r.Visited())
	assert.Equal(t, []Site{{Address: 0x1000, ID: 1}, {Address: 0x3000, ID: 3}}, r.Unvisited())
}

func TestRegistry_Empty(t *testing.T) {
	r, errs := NewRegistry()

	assert.Empty(t, errs)
	assert.Equal(t, 0, r.Len())
	assert.Nil(t, r.Lookup(0))
	assert.Empty(t, r.Unvisited())
}

func TestSite_String(t *testing.T) {
	assert.Equal(t, "401a2c 12", Site{Address: 0x401a2c, ID: 12}.String())
}
