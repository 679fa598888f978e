// SPDX-License-Identifier: GPL-3.0-or-later

package control

import (
	"errors"
	"fmt"
	"strings"
)

const lineQuit = "QUIT"

// Request is one control line: a command name followed by optional arguments.
type Request struct {
	Name string
	Args []string
}

func (r *Request) String() string {
	return fmt.Sprintf("name: '%s', args: '%v'", r.Name, r.Args)
}

func newInputParser() *inputParser {
	return &inputParser{}
}

type inputParser struct{}

// parse returns nil for lines that carry no request.
func (p *inputParser) parse(line string) (*Request, error) {
	if line = strings.TrimSpace(line); line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	fields := strings.Fields(line)

	name := strings.ToUpper(fields[0])
	if !isValidName(name) {
		return nil, errors.New("unexpected line format")
	}

	return &Request{Name: name, Args: fields[1:]}, nil
}

func isValidName(name string) bool {
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}
