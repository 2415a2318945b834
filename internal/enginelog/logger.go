// Copyright 2024 The Rigid2D Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package enginelog is a small leveled logger the engine package uses
// to report diagnostics (at present one: a warning when a step runs
// slow) without forcing a structured-logging dependency on callers
// that don't want one. It is silent until a Writer is attached.
package enginelog

import (
	"fmt"
	"sync"
	"time"
)

// Levels to filter log output, lowest to highest priority.
const (
	DEBUG = iota
	INFO
	WARN
	ERROR
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

// Writer receives formatted log events. Console is the one writer this
// package provides; callers may supply their own.
type Writer interface {
	Write(event Event)
}

// Event is a single log occurrence handed to every attached Writer.
type Event struct {
	Time    time.Time
	Level   int
	Logger  string
	Message string
}

// Logger is a named, leveled log emitter. The zero Logger is disabled;
// use New to get one with a level and name.
type Logger struct {
	mu      sync.Mutex
	name    string
	level   int
	writers []Writer
}

// New creates a Logger named name, reporting at level and above. A
// freshly created Logger has no writers, so it is silent until one is
// attached with AddWriter.
func New(name string, level int) *Logger {

	return &Logger{name: name, level: level}
}

// SetLevel changes the minimum level this logger emits.
func (l *Logger) SetLevel(level int) {

	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// AddWriter attaches writer to this logger's output set.
func (l *Logger) AddWriter(writer Writer) {

	l.mu.Lock()
	defer l.mu.Unlock()
	l.writers = append(l.writers, writer)
}

func (l *Logger) log(level int, format string, v ...interface{}) {

	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level || len(l.writers) == 0 {
		return
	}

	event := Event{
		Time:    time.Now().UTC(),
		Level:   level,
		Logger:  l.name,
		Message: fmt.Sprintf(format, v...),
	}
	for _, w := range l.writers {
		w.Write(event)
	}
}

// Debug emits a DEBUG level log message.
func (l *Logger) Debug(format string, v ...interface{}) { l.log(DEBUG, format, v...) }

// Info emits an INFO level log message.
func (l *Logger) Info(format string, v ...interface{}) { l.log(INFO, format, v...) }

// Warn emits a WARN level log message.
func (l *Logger) Warn(format string, v ...interface{}) { l.log(WARN, format, v...) }

// Error emits an ERROR level log message.
func (l *Logger) Error(format string, v ...interface{}) { l.log(ERROR, format, v...) }
