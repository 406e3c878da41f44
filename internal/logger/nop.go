// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logger

// nopLogger discards everything.
type nopLogger struct{}

// NewNop returns a Logger that does nothing. Use it in tests and when
// logging is not wanted.
func NewNop() Logger { return nopLogger{} }

func (nopLogger) Debug(string, ...Field) {}
func (nopLogger) Info(string, ...Field)  {}
func (nopLogger) Warn(string, ...Field)  {}
func (nopLogger) Error(string, ...Field) {}
func (n nopLogger) With(...Field) Logger { return n }
func (nopLogger) Sync() error            { return nil }
