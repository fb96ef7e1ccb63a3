package system

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"varpipe/pkg/runner"
)

// CommandRunner defines an interface for running commands.
// Re-exported from pkg/runner so callers only import system.
type CommandRunner = runner.CommandRunner

// LiveCommandRunner is an implementation of CommandRunner that runs commands on the live system.
type LiveCommandRunner struct{}

// Run starts every stage of inv, wires stage i's stdout into stage i+1's stdin
// and blocks until all of them exit. The exit code is the rightmost non-zero
// stage status, as with `set -o pipefail`.
func (r *LiveCommandRunner) Run(ctx context.Context, inv runner.Invocation) (*runner.Result, error) {
	if len(inv.Stages) == 0 {
		return nil, fmt.Errorf("empty invocation")
	}
	for i, argv := range inv.Stages {
		if len(argv) == 0 || argv[0] == "" {
			return nil, fmt.Errorf("stage %d of %q has no command", i, inv.String())
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var stdout bytes.Buffer
	stderr := &lockedBuffer{}
	var sink io.Writer = &stdout
	if inv.StdoutPath != "" {
		f, err := AppFs.Create(inv.StdoutPath)
		if err != nil {
			return nil, fmt.Errorf("error creating %s: %w", inv.StdoutPath, err)
		}
		defer f.Close()
		sink = f
	}

	cmds := make([]*exec.Cmd, len(inv.Stages))
	for i, argv := range inv.Stages {
		cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
		cmd.Stderr = stderr
		cmds[i] = cmd
	}
	cmds[len(cmds)-1].Stdout = sink

	// Parent-side pipe ends are closed once every stage has been started so
	// readers see EOF and writers see EPIPE when a neighbour is gone.
	var parentEnds []*os.File
	for i := 0; i < len(cmds)-1; i++ {
		pr, pw, err := os.Pipe()
		if err != nil {
			closeFiles(parentEnds)
			return nil, fmt.Errorf("error creating pipe: %w", err)
		}
		cmds[i].Stdout = pw
		cmds[i+1].Stdin = pr
		parentEnds = append(parentEnds, pr, pw)
	}

	codes := make([]int, len(cmds))
	started := make([]bool, len(cmds))
	for i, cmd := range cmds {
		if err := cmd.Start(); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", cmd.Args[0], err)
			codes[i] = runner.ExitNotStarted
			continue
		}
		started[i] = true
	}
	closeFiles(parentEnds)

	for i, cmd := range cmds {
		if !started[i] {
			continue
		}
		codes[i] = exitCode(cmd.Wait())
	}

	exit := 0
	for _, code := range codes {
		if code != 0 {
			exit = code
		}
	}

	return &runner.Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: exit,
	}, nil
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return 128 + int(ws.Signal())
		}
		return exitErr.ExitCode()
	}
	return 1
}

func closeFiles(files []*os.File) {
	for _, f := range files {
		f.Close()
	}
}

// lockedBuffer is shared as stderr by concurrently running stages.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Bytes()
}
