/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package logger provides a process-wide leveled logger that can be
// silenced for MCP integrations.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.Mutex
	output io.Writer = os.Stderr
	level            = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	logger           = build(output)
)

func build(w io.Writer) *zap.Logger {
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:       "msg",
		LevelKey:         "level",
		EncodeLevel:      zapcore.LowercaseLevelEncoder,
		ConsoleSeparator: ": ",
	})
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

// SetOutput configures the logger output destination.
// Use io.Discard to silence all logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	logger = build(w)
}

// SetVerbose enables debug messages.
func SetVerbose(verbose bool) {
	if verbose {
		level.SetLevel(zapcore.DebugLevel)
		return
	}
	level.SetLevel(zapcore.InfoLevel)
}

// Zap returns the underlying logger, for sinks that log structured fields.
func Zap() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	Zap().Warn(fmt.Sprintf(format, args...))
}

// Info logs an informational message.
func Info(format string, args ...any) {
	Zap().Info(fmt.Sprintf(format, args...))
}

// Debug logs a message shown only in verbose mode.
func Debug(format string, args ...any) {
	Zap().Debug(fmt.Sprintf(format, args...))
}
