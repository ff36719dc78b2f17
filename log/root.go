// Copyright 2017 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"context"
	"log/slog"
	"sync/atomic"
)

type rootLogger struct{ Logger }

var root atomic.Pointer[rootLogger]

func init() {
	root.Store(&rootLogger{NewLogger(DiscardHandler())})
}

// SetDefault sets the default global logger
func SetDefault(l Logger) {
	root.Store(&rootLogger{l})
	if lg, ok := l.(*logger); ok {
		slog.SetDefault(lg.inner)
	}
}

// Root returns the root logger
func Root() Logger {
	return root.Load().Logger
}

// WithContext returns a logger carrying ctx that always writes through the
// current root logger, so package level loggers follow SetDefault.
func WithContext(ctx ...any) Logger {
	return &contextLogger{ctx: ctx}
}

type contextLogger struct {
	ctx []any
}

func (c *contextLogger) bound() *logger {
	l := Root().With(c.ctx...)
	if lg, ok := l.(*logger); ok {
		return lg
	}
	return &logger{slog.New(l.Handler())}
}

func (c *contextLogger) With(ctx ...any) Logger {
	return &contextLogger{ctx: append(append([]any{}, c.ctx...), ctx...)}
}

func (c *contextLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return Root().Enabled(ctx, level)
}

func (c *contextLogger) Handler() slog.Handler {
	return c.bound().Handler()
}

func (c *contextLogger) Log(level slog.Level, msg string, ctx ...any) {
	c.bound().write(level, msg, 3, ctx...)
}

func (c *contextLogger) Trace(msg string, ctx ...any) { c.bound().write(LevelTrace, msg, 3, ctx...) }
func (c *contextLogger) Debug(msg string, ctx ...any) { c.bound().write(LevelDebug, msg, 3, ctx...) }
func (c *contextLogger) Info(msg string, ctx ...any)  { c.bound().write(LevelInfo, msg, 3, ctx...) }
func (c *contextLogger) Warn(msg string, ctx ...any)  { c.bound().write(LevelWarn, msg, 3, ctx...) }
func (c *contextLogger) Error(msg string, ctx ...any) { c.bound().write(LevelError, msg, 3, ctx...) }

func (c *contextLogger) Crit(msg string, ctx ...any) {
	c.bound().write(LevelCrit, msg, 3, ctx...)
	exit(1)
}

// Trace is a convenient alias for Root().Trace
func Trace(msg string, ctx ...any) {
	Root().Trace(msg, ctx...)
}

// Debug is a convenient alias for Root().Debug
func Debug(msg string, ctx ...any) {
	Root().Debug(msg, ctx...)
}

// Info is a convenient alias for Root().Info
func Info(msg string, ctx ...any) {
	Root().Info(msg, ctx...)
}

// Warn is a convenient alias for Root().Warn
func Warn(msg string, ctx ...any) {
	Root().Warn(msg, ctx...)
}

// Error is a convenient alias for Root().Error
func Error(msg string, ctx ...any) {
	Root().Error(msg, ctx...)
}

// Crit is a convenient alias for Root().Crit
func Crit(msg string, ctx ...any) {
	Root().Crit(msg, ctx...)
}
