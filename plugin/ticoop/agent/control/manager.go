// SPDX-License-Identifier: GPL-3.0-or-later

package control

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tl455047/TICooperator/logger"
)

// StdinPath selects standard input as the control source.
const StdinPath = "-"

func NewManager(path string) *Manager {
	return &Manager{
		Logger: logger.New().With(
			slog.String("component", "control manager"),
		),
		Path:     path,
		mux:      &sync.Mutex{},
		Registry: make(map[string]func(Request)),
	}
}

// Manager reads control lines and dispatches them to registered handlers.
type Manager struct {
	*logger.Logger

	Path string

	input input

	mux      *sync.Mutex
	Registry map[string]func(Request)
}

func (m *Manager) Register(name string, fn func(Request)) {
	if fn == nil {
		m.Warningf("not registering '%s': nil handler", name)
		return
	}

	m.mux.Lock()
	defer m.mux.Unlock()

	if _, ok := m.Registry[name]; !ok {
		m.Debugf("registering command '%s'", name)
	} else {
		m.Warningf("re-registering command '%s'", name)
	}
	m.Registry[name] = fn
}

func (m *Manager) Unregister(name string) {
	m.mux.Lock()
	defer m.mux.Unlock()

	if _, ok := m.Registry[name]; ok {
		delete(m.Registry, name)
		m.Debugf("unregistering command '%s'", name)
	}
}

// Run serves control lines until ctx is done or the input ends. A QUIT line
// is forwarded to quitCh when it is not nil.
func (m *Manager) Run(ctx context.Context, quitCh chan struct{}) error {
	if m.input == nil {
		in, err := m.openInput(ctx)
		if err != nil {
			return err
		}
		m.input = in
	}

	m.Info("instance is started")
	defer func() { m.Info("instance is stopped") }()

	m.run(ctx, quitCh)

	return nil
}

func (m *Manager) openInput(ctx context.Context) (input, error) {
	if m.Path == StdinPath {
		return stdinInput(), nil
	}
	in, err := newFileInput(ctx, m.Path)
	if err != nil {
		return nil, fmt.Errorf("open control channel: %w", err)
	}
	return in, nil
}

func (m *Manager) run(ctx context.Context, quitCh chan struct{}) {
	parser := newInputParser()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-m.input.lines():
			if !ok {
				return
			}

			req, err := parser.parse(line)
			if err != nil {
				m.Warningf("parse command: %v ('%s')", err, line)
				continue
			}
			if req == nil {
				continue
			}

			if req.Name == lineQuit {
				if quitCh != nil {
					select {
					case quitCh <- struct{}{}:
					case <-ctx.Done():
					}
					return
				}
				continue
			}

			fn, ok := m.lookup(req.Name)
			if !ok {
				m.Warningf("skipping execution of '%s': unknown command", req.Name)
				continue
			}

			fn(*req)
		}
	}
}

func (m *Manager) lookup(name string) (func(Request), bool) {
	m.mux.Lock()
	defer m.mux.Unlock()

	f, ok := m.Registry[name]
	return f, ok
}
