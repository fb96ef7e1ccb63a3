package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"varpipe/pkg/log"
	"varpipe/pkg/model"
	"varpipe/pkg/system"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// LoadSettings reads the optional YAML settings file. Keys left out of the
// file keep their defaults; an empty filename yields the defaults unchanged.
func LoadSettings(filename string, logger log.Logger) (*model.Settings, error) {
	settings := model.DefaultSettings()
	if filename == "" {
		logger.Debug("No settings file given, using defaults")
		return &settings, nil
	}

	f, err := afero.ReadFile(system.AppFs, filename)
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(f))
	dec.KnownFields(true)
	if err := dec.Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("error parsing %s: %w", filename, err)
	}

	if errs := settings.Validate(); len(errs) > 0 {
		return nil, errs
	}

	logger.Debug("Loaded settings",
		"file", filename,
		"bwa", settings.Tools.Bwa,
		"samtools", settings.Tools.Samtools,
		"bcftools", settings.Tools.Bcftools,
		"qual_field", settings.Qual.Field)

	return &settings, nil
}
