// Package runner defines the command model and the interface used to execute it.
// This package exists to break import cycles between testing and system packages.
package runner

import (
	"context"
	"strings"
)

// Invocation is one external command: a pipeline of argv stages whose final
// stdout optionally lands in StdoutPath.
type Invocation struct {
	Stages     [][]string
	StdoutPath string
}

// Command builds a single-stage invocation.
func Command(name string, args ...string) Invocation {
	return Invocation{Stages: [][]string{append([]string{name}, args...)}}
}

// Pipe appends a stage that reads the previous stage's stdout.
func (inv Invocation) Pipe(name string, args ...string) Invocation {
	stages := make([][]string, 0, len(inv.Stages)+1)
	stages = append(stages, inv.Stages...)
	inv.Stages = append(stages, append([]string{name}, args...))
	return inv
}

// RedirectTo sends the last stage's stdout to path.
func (inv Invocation) RedirectTo(path string) Invocation {
	inv.StdoutPath = path
	return inv
}

// String renders the shell-equivalent command text. It is used for reporting
// only and is never handed to a shell.
func (inv Invocation) String() string {
	parts := make([]string, 0, len(inv.Stages))
	for _, argv := range inv.Stages {
		words := make([]string, len(argv))
		for i, w := range argv {
			words[i] = quote(w)
		}
		parts = append(parts, strings.Join(words, " "))
	}
	text := strings.Join(parts, " | ")
	if inv.StdoutPath != "" {
		text += " > " + quote(inv.StdoutPath)
	}
	return text
}

func quote(word string) string {
	if word == "" {
		return "''"
	}
	if strings.ContainsAny(word, " \t\n'\"\\|&;<>()$`*?[]{}!#~") {
		return "'" + strings.ReplaceAll(word, "'", `'\''`) + "'"
	}
	return word
}

// ExitNotStarted is the status reported for an invocation that never ran,
// matching what a shell reports for a command it cannot find.
const ExitNotStarted = 127

// Result is what a finished invocation left behind.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the invocation exited 0.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// CommandRunner executes invocations. A non-zero exit is reported through
// Result.ExitCode, never as an error.
// This allows for mocking in tests.
type CommandRunner interface {
	Run(ctx context.Context, inv Invocation) (*Result, error)
}
