// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevel_SetByName(t *testing.T) {
	defer Level.Set(slog.LevelInfo)

	tests := map[string]struct {
		name    string
		want    slog.Level
		wantStr string
		wantErr bool
	}{
		"error":          {name: "err", want: slog.LevelError, wantStr: "error"},
		"warning":        {name: "WARNING", want: slog.LevelWarn, wantStr: "warning"},
		"notice":         {name: "notice", want: levelNotice, wantStr: "notice"},
		"info":           {name: " info ", want: slog.LevelInfo, wantStr: "info"},
		"debug":          {name: "Debug", want: slog.LevelDebug, wantStr: "debug"},
		"critical":       {name: "critical", want: levelOff, wantStr: "off"},
		"unknown leaves": {name: "verbose", want: slog.LevelWarn, wantStr: "warning", wantErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			Level.Set(slog.LevelWarn)

			err := Level.SetByName(test.name)

			if test.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, test.want, Level.lvl.Level())
			assert.Equal(t, test.wantStr, Level.String())
		})
	}
}

func TestLogger_With(t *testing.T) {
	defer Level.Set(slog.LevelInfo)
	Level.Set(slog.LevelInfo)

	var buf bytes.Buffer
	l := NewWithWriter(&buf).With(slog.String("component", "test"))

	l.Infof("hello %s", "world")
	l.Debug("invisible")

	assert.Contains(t, buf.String(), "level=info")
	assert.Contains(t, buf.String(), `msg="hello world"`)
	assert.Contains(t, buf.String(), "component=test")
	assert.NotContains(t, buf.String(), "invisible")
}

func TestLogger_Mute(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf)

	l.Mute()
	l.Error("muted")
	assert.Empty(t, buf.String())

	l.Unmute()
	l.Notice("unmuted")
	l.Warning("warned")
	assert.Contains(t, buf.String(), "level=notice")
	assert.Contains(t, buf.String(), "level=warning")
}

func TestLogger_NilReceiver(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.Infof("nil logger %d", 1) })
	assert.NotNil(t, l.With("k", "v"))
}
