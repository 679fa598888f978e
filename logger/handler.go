// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"context"
	"io"
	"log/slog"
	"runtime"

	"github.com/lmittmann/tint"
)

// newTextHandler writes logfmt records. The timestamp is dropped under
// journald, which stamps records itself.
func newTextHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: Level.lvl,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				if isJournal {
					return slog.Attr{}
				}
			case slog.LevelKey:
				return slog.String(a.Key, levelText(a.Value.Any().(slog.Level)))
			}
			return a
		},
	})
}

// newTerminalHandler writes colored records for interactive use. Sources are
// shown at debug level only.
func newTerminalHandler(w io.Writer) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		NoColor:   runtime.GOOS == "windows",
		AddSource: true,
		Level:     Level.lvl,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				return slog.Attr{}
			case slog.SourceKey:
				if !Level.Enabled(slog.LevelDebug) {
					return slog.Attr{}
				}
			case slog.LevelKey:
				if n, ok := levelNames[a.Value.Any().(slog.Level)]; ok && n.term != "" {
					return slog.String(a.Key, n.term)
				}
			}
			return a
		},
	})
}

// callerHandler fixes the record PC so the source points at the caller of
// the Logger method, not at this package.
type callerHandler struct {
	skip int
	next slog.Handler
}

func withCaller(skip int, h slog.Handler) slog.Handler {
	if ch, ok := h.(*callerHandler); ok {
		h = ch.next
	}
	return &callerHandler{skip: skip, next: h}
}

func (h *callerHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.next.Enabled(ctx, lvl)
}

func (h *callerHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return withCaller(h.skip, h.next.WithAttrs(attrs))
}

func (h *callerHandler) WithGroup(name string) slog.Handler {
	return withCaller(h.skip, h.next.WithGroup(name))
}

func (h *callerHandler) Handle(ctx context.Context, r slog.Record) error {
	var pcs [1]uintptr
	// +2 for runtime.Callers and Handle
	runtime.Callers(h.skip+2, pcs[:])
	r.PC = pcs[0]

	return h.next.Handle(ctx, r)
}
