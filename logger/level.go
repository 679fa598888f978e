// SPDX-License-Identifier: GPL-3.0-or-later

package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

const (
	levelNotice = slog.Level(2)
	levelOff    = slog.Level(99)
)

type levelName struct {
	text string
	term string
}

var levelNames = map[slog.Level]levelName{
	slog.LevelDebug: {text: "debug", term: "\u001B[90mDBG\u001B[0m"},
	slog.LevelInfo:  {text: "info"},
	levelNotice:     {text: "notice", term: "\u001B[34mNTC\u001B[0m"},
	slog.LevelWarn:  {text: "warning"},
	slog.LevelError: {text: "error"},
}

var levelAliases = map[string]slog.Level{
	"debug":     slog.LevelDebug,
	"info":      slog.LevelInfo,
	"notice":    levelNotice,
	"warn":      slog.LevelWarn,
	"warning":   slog.LevelWarn,
	"err":       slog.LevelError,
	"error":     slog.LevelError,
	"critical":  levelOff,
	"alert":     levelOff,
	"emergency": levelOff,
}

// Level is the minimum level shared by every Logger.
var Level = &level{lvl: &slog.LevelVar{}}

type level struct {
	lvl *slog.LevelVar
}

func (l *level) Enabled(level slog.Level) bool {
	return level >= l.lvl.Level()
}

func (l *level) Set(level slog.Level) {
	l.lvl.Set(level)
}

// SetByName sets the level from a syslog-style name. Levels above error
// silence the logger.
func (l *level) SetByName(name string) error {
	lvl, ok := levelAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("unknown log level '%s'", name)
	}
	l.lvl.Set(lvl)
	return nil
}

func (l *level) String() string {
	return levelText(l.lvl.Level())
}

func levelText(lvl slog.Level) string {
	if n, ok := levelNames[lvl]; ok {
		return n.text
	}
	if lvl >= levelOff {
		return "off"
	}
	return strings.ToLower(lvl.String())
}
