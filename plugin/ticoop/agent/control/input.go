// SPDX-License-Identifier: GPL-3.0-or-later

package control

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"
)

type input interface {
	lines() chan string
}

var stdinInput = sync.OnceValue(func() input {
	r := &lineReader{chLines: make(chan string)}
	go r.run(context.Background(), os.Stdin)
	return r
})

type lineReader struct {
	chLines chan string
}

func (in *lineReader) run(ctx context.Context, rd io.Reader) {
	defer close(in.chLines)

	sc := bufio.NewScanner(bufio.NewReader(rd))

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return
		case in.chLines <- sc.Text():
		}
	}
}

func (in *lineReader) lines() chan string {
	return in.chLines
}

// newFileInput reads lines from path. A FIFO is opened read-write so that it
// stays open across writers; the file is closed when ctx is done.
func newFileInput(ctx context.Context, path string) (input, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	flag := os.O_RDONLY
	if fi.Mode()&os.ModeNamedPipe != 0 {
		flag = os.O_RDWR
	}

	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, err
	}

	r := &lineReader{chLines: make(chan string)}

	go func() { <-ctx.Done(); _ = f.Close() }()
	go r.run(ctx, f)

	return r, nil
}
