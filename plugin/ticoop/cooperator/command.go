// SPDX-License-Identifier: GPL-3.0-or-later

package cooperator

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/tl455047/TICooperator/plugin/ticoop/engine"
)

// Command is a control request sent by the guest or by an operator.
type Command uint32

const (
	CmdPrintStatistics Command = iota
)

// CommandSize is the size of an encoded guest command:
// command uint32, padding uint32, parameter uint64, little-endian.
const CommandSize = 16

var commandNames = map[Command]string{
	CmdPrintStatistics: "PRINT_STATISTICS",
}

// Commands returns every known command.
func Commands() []Command {
	return []Command{CmdPrintStatistics}
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "UNKNOWN(" + strconv.FormatUint(uint64(c), 10) + ")"
}

// ParseCommand accepts a command name (case-insensitive) or its numeric code.
func ParseCommand(s string) (Command, error) {
	s = strings.TrimSpace(s)
	for cmd, name := range commandNames {
		if strings.EqualFold(s, name) {
			return cmd, nil
		}
	}
	if v, err := strconv.ParseUint(s, 10, 32); err == nil {
		if _, ok := commandNames[Command(v)]; ok {
			return Command(v), nil
		}
	}
	return 0, fmt.Errorf("unknown command '%s'", s)
}

// EncodeCommand returns the guest wire form of cmd.
func EncodeCommand(cmd Command, param uint64) []byte {
	buf := make([]byte, CommandSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(cmd))
	binary.LittleEndian.PutUint64(buf[8:16], param)
	return buf
}

// HandleOpcodeInvocation executes a command the guest wrote to its command
// buffer. data is the buffer content as read from guest memory.
func (c *Cooperator) HandleOpcodeInvocation(state engine.State, data []byte) {
	if len(data) != CommandSize {
		c.Warningf("state %d: mismatched command structure size %d, want %d", state.ID(), len(data), CommandSize)
		return
	}

	cmd := Command(binary.LittleEndian.Uint32(data[0:4]))
	param := binary.LittleEndian.Uint64(data[8:16])

	c.Debugf("state %d: guest command %s (param %#x)", state.ID(), cmd, param)

	c.Execute(cmd)
}

// Execute runs cmd. Unknown commands are logged and ignored.
func (c *Cooperator) Execute(cmd Command) {
	switch cmd {
	case CmdPrintStatistics:
		c.PrintStatistics()
	default:
		c.Warningf("unknown command %s", cmd)
	}
}
