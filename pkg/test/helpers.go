package test

import (
	"path/filepath"
	"testing"

	"varpipe/pkg/runner"
	"varpipe/pkg/system"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// SetupTestFilesystem points system.AppFs at the real filesystem for tests
// that run actual processes, and returns a scratch directory for their files.
// AppFs goes back to an in-memory filesystem when the test ends.
func SetupTestFilesystem(t *testing.T) string {
	system.AppFs = afero.NewOsFs()
	t.Cleanup(func() { system.AppFs = afero.NewMemMapFs() })
	return t.TempDir()
}

// CreateTestFile creates a file with content in the test filesystem.
func CreateTestFile(t *testing.T, fs afero.Fs, path, content string) {
	err := fs.MkdirAll(filepath.Dir(path), 0755)
	require.NoError(t, err)
	err = afero.WriteFile(fs, path, []byte(content), 0644)
	require.NoError(t, err)
}

// AssertFileExists checks that a step left path behind. An empty want only
// checks existence.
func AssertFileExists(t *testing.T, fs afero.Fs, path, want string) {
	exists, err := afero.Exists(fs, path)
	require.NoError(t, err)
	require.True(t, exists, "%s was not written", path)

	if want != "" {
		got, err := afero.ReadFile(fs, path)
		require.NoError(t, err)
		require.Equal(t, want, string(got), "unexpected content in %s", path)
	}
}

// AssertCommandExecuted checks that the mock runner received an invocation
// rendering to command.
func AssertCommandExecuted(t *testing.T, r *MockCommandRunner, command string) {
	require.Contains(t, r.Commands, command, "expected invocation: %s", command)
}

// AssertCommandNotExecuted is the inverse of AssertCommandExecuted.
func AssertCommandNotExecuted(t *testing.T, r *MockCommandRunner, command string) {
	require.NotContains(t, r.Commands, command, "unexpected invocation: %s", command)
}

// AssertLogContains checks that the logger captured a message containing the substring.
func AssertLogContains(t *testing.T, logger *MockLogger, substring string) {
	require.True(t, logger.HasMessage(substring), "Log should contain: %s", substring)
}

// WriteStepOutputs returns a MockCommandRunner.OnRun hook that creates every
// redirect target and `-o` argument of an invocation found in content,
// standing in for a tool that ran.
func WriteStepOutputs(t *testing.T, fs afero.Fs, content map[string]string) func(inv runner.Invocation) {
	return func(inv runner.Invocation) {
		var targets []string
		if inv.StdoutPath != "" {
			targets = append(targets, inv.StdoutPath)
		}
		for _, argv := range inv.Stages {
			for i := 0; i+1 < len(argv); i++ {
				if argv[i] == "-o" {
					targets = append(targets, argv[i+1])
				}
			}
		}
		for _, target := range targets {
			if body, ok := content[target]; ok {
				CreateTestFile(t, fs, target, body)
			}
		}
	}
}
