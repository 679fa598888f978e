// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"fmt"
	"os"

	"github.com/tl455047/TICooperator/plugin/ticoop/cooperator"
)

// sendCommand writes cmd to the control channel at path. It fails instead of
// blocking when nothing reads the channel.
func sendCommand(path string, cmd cooperator.Command) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|openNonblock, 0)
	if err != nil {
		return fmt.Errorf("open control channel: %w", err)
	}

	if _, err := fmt.Fprintln(f, cmd); err != nil {
		_ = f.Close()
		return fmt.Errorf("write control channel: %w", err)
	}

	return f.Close()
}
