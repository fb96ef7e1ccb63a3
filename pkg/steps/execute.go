package steps

import (
	"context"
	"strings"

	"varpipe/pkg/log"
	"varpipe/pkg/runner"
)

// Execute runs inv, reports the outcome through logger and returns the
// captured stdout. A failing command is logged, never raised; its stdout
// (possibly empty) is still returned.
func Execute(ctx context.Context, r runner.CommandRunner, logger log.Logger, inv runner.Invocation) string {
	out, _ := ExecuteResult(ctx, r, logger, inv)
	return out
}

// ExecuteResult is Execute that also hands back the Result. An invocation
// that could not be started is reported with runner.ExitNotStarted.
func ExecuteResult(ctx context.Context, r runner.CommandRunner, logger log.Logger, inv runner.Invocation) (string, *runner.Result) {
	command := inv.String()
	logger.Debug("Running command", "command", command)

	res, err := r.Run(ctx, inv)
	if err != nil {
		logger.Error("Command could not be started", "command", command, "error", err)
		return "", &runner.Result{ExitCode: runner.ExitNotStarted, Stderr: []byte(err.Error())}
	}

	if res.Success() {
		logger.Info("Command successful", "command", command)
	} else {
		logger.Error("Command failed",
			"command", command,
			"exit_code", res.ExitCode,
			"stderr", strings.TrimSpace(string(res.Stderr)))
	}
	return string(res.Stdout), res
}
