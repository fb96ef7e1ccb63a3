package test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"varpipe/pkg/log"
	"varpipe/pkg/runner"
)

// MockCommandRunner is a shared mock implementation of runner.CommandRunner for testing.
// Responses and errors are keyed by the invocation's rendered command text.
type MockCommandRunner struct {
	Commands    []string            // Rendered text of every invocation, in order
	Invocations []runner.Invocation // Every invocation, in order
	Responses   map[string]*runner.Result
	Errors      map[string]error

	// OnRun, when set, is called before the canned response is returned.
	// Tests use it to materialise output files.
	OnRun func(inv runner.Invocation)
}

// NewMockCommandRunner creates a new MockCommandRunner with initialized maps.
func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{
		Commands:    []string{},
		Invocations: []runner.Invocation{},
		Responses:   make(map[string]*runner.Result),
		Errors:      make(map[string]error),
	}
}

// Run records the invocation and returns the configured result or error.
// Unconfigured invocations succeed with no output.
func (r *MockCommandRunner) Run(ctx context.Context, inv runner.Invocation) (*runner.Result, error) {
	key := inv.String()
	r.Commands = append(r.Commands, key)
	r.Invocations = append(r.Invocations, inv)

	if r.OnRun != nil {
		r.OnRun(inv)
	}
	if err, ok := r.Errors[key]; ok {
		return nil, err
	}
	if resp, ok := r.Responses[key]; ok {
		return resp, nil
	}
	return &runner.Result{}, nil
}

// SetResponse configures the result for a command text.
func (r *MockCommandRunner) SetResponse(command string, result *runner.Result) {
	r.Responses[command] = result
}

// SetFailure configures a non-zero exit with the given stderr.
func (r *MockCommandRunner) SetFailure(command string, exitCode int, stderr string) {
	r.Responses[command] = &runner.Result{ExitCode: exitCode, Stderr: []byte(stderr)}
}

// SetError configures a start error for a command text.
func (r *MockCommandRunner) SetError(command string, err error) {
	r.Errors[command] = err
}

// MockLogger is a shared mock implementation of Logger for testing.
// It captures logged messages for verification. Loggers derived with With
// share the parent's message list.
type MockLogger struct {
	Messages *[]string
	Level    slog.Level
	attrs    []any
}

// NewMockLogger creates a new MockLogger with the specified level.
func NewMockLogger(level slog.Level) *MockLogger {
	return &MockLogger{
		Messages: &[]string{},
		Level:    level,
	}
}

// Debug captures debug messages.
func (l *MockLogger) Debug(msg string, args ...any) {
	if l.Level <= slog.LevelDebug {
		l.captureMessage("DEBUG", msg, args...)
	}
}

// Info captures info messages.
func (l *MockLogger) Info(msg string, args ...any) {
	if l.Level <= slog.LevelInfo {
		l.captureMessage("INFO", msg, args...)
	}
}

// Warn captures warn messages.
func (l *MockLogger) Warn(msg string, args ...any) {
	if l.Level <= slog.LevelWarn {
		l.captureMessage("WARN", msg, args...)
	}
}

// Error captures error messages.
func (l *MockLogger) Error(msg string, args ...any) {
	if l.Level <= slog.LevelError {
		l.captureMessage("ERROR", msg, args...)
	}
}

// With returns a logger that appends args to every captured message.
func (l *MockLogger) With(args ...any) log.Logger {
	attrs := append(append([]any{}, l.attrs...), args...)
	return &MockLogger{Messages: l.Messages, Level: l.Level, attrs: attrs}
}

func (l *MockLogger) captureMessage(level, msg string, args ...any) {
	buf := &bytes.Buffer{}
	buf.WriteString(level)
	buf.WriteString(": ")
	buf.WriteString(msg)
	all := append(append([]any{}, args...), l.attrs...)
	for i := 0; i+1 < len(all); i += 2 {
		buf.WriteString(" ")
		buf.WriteString(fmt.Sprintf("%v", all[i]))
		buf.WriteString("=")
		buf.WriteString(fmt.Sprintf("%v", all[i+1]))
	}
	*l.Messages = append(*l.Messages, buf.String())
}

// HasMessage checks if any captured message contains the given substring.
func (l *MockLogger) HasMessage(substring string) bool {
	for _, msg := range *l.Messages {
		if bytes.Contains([]byte(msg), []byte(substring)) {
			return true
		}
	}
	return false
}
