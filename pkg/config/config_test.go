package config

import (
	"log/slog"
	"os"
	"testing"

	"varpipe/pkg/model"
	"varpipe/pkg/system"
	"varpipe/pkg/test"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings(t *testing.T) {
	logger := test.NewMockLogger(slog.LevelDebug)

	t.Run("empty filename returns defaults", func(t *testing.T) {
		system.AppFs = afero.NewMemMapFs()

		settings, err := LoadSettings("", logger)
		require.NoError(t, err)
		assert.Equal(t, model.DefaultSettings(), *settings)
	})

	t.Run("overrides only the keys present", func(t *testing.T) {
		system.AppFs = afero.NewMemMapFs()
		content := `
tools:
  bwa: /opt/bwa/bin/bwa
qual:
  field: 7
`
		test.CreateTestFile(t, system.AppFs, "/etc/varpipe.yaml", content)

		settings, err := LoadSettings("/etc/varpipe.yaml", logger)
		require.NoError(t, err)

		expected := model.DefaultSettings()
		expected.Tools.Bwa = "/opt/bwa/bin/bwa"
		expected.Qual.Field = 7
		assert.Equal(t, expected, *settings)
		assert.True(t, logger.HasMessage("Loaded settings"))
	})

	t.Run("empty file returns defaults", func(t *testing.T) {
		system.AppFs = afero.NewMemMapFs()
		test.CreateTestFile(t, system.AppFs, "/varpipe.yaml", "")

		settings, err := LoadSettings("/varpipe.yaml", logger)
		require.NoError(t, err)
		assert.Equal(t, model.DefaultSettings(), *settings)
	})

	t.Run("returns an error if the file does not exist", func(t *testing.T) {
		system.AppFs = afero.NewMemMapFs()

		_, err := LoadSettings("/missing.yaml", logger)
		assert.Error(t, err)
		assert.True(t, os.IsNotExist(err), "expected a file not found error")
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		system.AppFs = afero.NewMemMapFs()
		test.CreateTestFile(t, system.AppFs, "/varpipe.yaml", test.InvalidSettingsYAML())

		_, err := LoadSettings("/varpipe.yaml", logger)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error parsing /varpipe.yaml")
	})

	t.Run("returns validation errors", func(t *testing.T) {
		system.AppFs = afero.NewMemMapFs()
		content := `
tools:
  samtools: ""
qual:
  field: -2
`
		test.CreateTestFile(t, system.AppFs, "/varpipe.yaml", content)

		_, err := LoadSettings("/varpipe.yaml", logger)
		require.Error(t, err)

		var verrs model.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		require.Len(t, verrs, 2)
		assert.Equal(t, "tools.samtools", verrs[0].Field)
		assert.Equal(t, "qual.field", verrs[1].Field)
	})

	t.Run("returns an error for malformed YAML", func(t *testing.T) {
		system.AppFs = afero.NewMemMapFs()
		test.CreateTestFile(t, system.AppFs, "/varpipe.yaml", "tools: [bwa\n  samtools")

		_, err := LoadSettings("/varpipe.yaml", logger)
		assert.Error(t, err)
	})
}
