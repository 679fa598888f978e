// SPDX-License-Identifier: GPL-3.0-or-later

package cooperator

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    Command
		wantErr bool
	}{
		"name":               {input: "PRINT_STATISTICS", want: CmdPrintStatistics},
		"lower case name":    {input: "print_statistics", want: CmdPrintStatistics},
		"surrounding spaces": {input: "  PRINT_STATISTICS \t", want: CmdPrintStatistics},
		"numeric code":       {input: "0", want: CmdPrintStatistics},
		"unknown code":       {input: "7", wantErr: true},
		"unknown name":       {input: "RESET", wantErr: true},
		"empty":              {input: "", wantErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			cmd, err := ParseCommand(test.input)

			if test.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, test.want, cmd)
			}
		})
	}
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "PRINT_STATISTICS", CmdPrintStatistics.String())
	assert.Equal(t, "UNKNOWN(42)", Command(42).String())
}

func TestEncodeCommand(t *testing.T) {
	got := EncodeCommand(CmdPrintStatistics, 0x0102030405060708)

	want := []byte{
		0, 0, 0, 0,
		0, 0, 0, 0,
		8, 7, 6, 5, 4, 3, 2, 1,
	}
	assert.Equal(t, want, got)
}

func TestCooperator_HandleOpcodeInvocation(t *testing.T) {
	tests := map[string]struct {
		data     []byte
		wantRows int
	}{
		"print statistics": {
			data:     EncodeCommand(CmdPrintStatistics, 0),
			wantRows: 1,
		},
		"print statistics with parameter": {
			data:     EncodeCommand(CmdPrintStatistics, 0xdead),
			wantRows: 1,
		},
		"unknown command": {
			data: EncodeCommand(Command(3), 0),
		},
		"short buffer": {
			data: EncodeCommand(CmdPrintStatistics, 0)[:8],
		},
		"long buffer": {
			data: append(EncodeCommand(CmdPrintStatistics, 0), 0),
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			coop, host, clock := prepareCooperator(t, "1000 7\n")
			clock.elapsed = time.Second

			coop.HandleOpcodeInvocation(host.Exec.NewState(0), test.data)

			rows := readLines(t, filepath.Join(host.Dir, "Solving.stats"))
			assert.Len(t, rows, test.wantRows)
		})
	}
}
