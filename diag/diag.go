/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package diag carries compiler diagnostics. Recoverable problems such as a
// missing import or an unresolved extend are reported to a Sink and
// compilation continues; only structural errors abort.
package diag

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Structural errors.
var (
	ErrUnclosedBlock   = errors.New("unclosed block")
	ErrUnclosedString  = errors.New("unclosed string")
	ErrUnclosedParen   = errors.New("unclosed parenthesis")
	ErrUnexpectedClose = errors.New("unexpected closing brace")
)

// Severity ranks a diagnostic.
type Severity int

// Severities, least severe first.
const (
	Debug Severity = iota
	Info
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diagnostic is one logged condition.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	// File is the source the condition was found in, if known.
	File string `json:"file,omitempty"`
	// Offset is a byte offset into File, or -1.
	Offset int `json:"offset"`
}

func (d Diagnostic) String() string {
	var sb strings.Builder
	sb.WriteString(d.Severity.String())
	sb.WriteString(": ")
	if d.File != "" {
		sb.WriteString(d.File)
		if d.Offset >= 0 {
			fmt.Fprintf(&sb, ":%d", d.Offset)
		}
		sb.WriteString(": ")
	}
	sb.WriteString(d.Message)
	return sb.String()
}

// Sink receives diagnostics.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(d Diagnostic)

// Report implements Sink.
func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Discard drops everything.
var Discard Sink = SinkFunc(func(Diagnostic) {})

// Log collects diagnostics. It is safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	entries []Diagnostic
}

// Report implements Sink.
func (l *Log) Report(d Diagnostic) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, d)
}

// Entries returns a copy of the collected diagnostics in report order.
func (l *Log) Entries() []Diagnostic {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Diagnostic(nil), l.entries...)
}

// Count returns how many diagnostics have at least the given severity.
func (l *Log) Count(atLeast Severity) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, d := range l.entries {
		if d.Severity >= atLeast {
			n++
		}
	}
	return n
}

// ZapSink forwards diagnostics to a zap logger.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink returns a sink logging through logger.
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger}
}

// Report implements Sink.
func (z *ZapSink) Report(d Diagnostic) {
	fields := make([]zap.Field, 0, 2)
	if d.File != "" {
		fields = append(fields, zap.String("file", d.File))
	}
	if d.Offset >= 0 {
		fields = append(fields, zap.Int("offset", d.Offset))
	}
	if ce := z.logger.Check(level(d.Severity), d.Message); ce != nil {
		ce.Write(fields...)
	}
}

func level(s Severity) zapcore.Level {
	switch s {
	case Debug:
		return zapcore.DebugLevel
	case Info:
		return zapcore.InfoLevel
	case Warning:
		return zapcore.WarnLevel
	}
	return zapcore.ErrorLevel
}

// Multi fans diagnostics out to every non-nil sink.
func Multi(sinks ...Sink) Sink {
	var live []Sink
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	return SinkFunc(func(d Diagnostic) {
		for _, s := range live {
			s.Report(d)
		}
	})
}

// StructuralError reports malformed block nesting or quoting.
type StructuralError struct {
	Err error
	// Offset is the byte offset where the problem starts.
	Offset int
	// Header is the selector or directive owning the dangling block.
	Header string
}

func (e *StructuralError) Error() string {
	if e.Header != "" {
		return fmt.Sprintf("%v at offset %d: %q", e.Err, e.Offset, e.Header)
	}
	return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}
