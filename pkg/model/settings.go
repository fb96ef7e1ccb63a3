package model

import (
	"fmt"
	"strings"
)

const (
	DefaultQualField     = 5
	DefaultCommentPrefix = "#"
)

// Tools names the external binaries. Bare names are resolved via PATH.
type Tools struct {
	Bwa      string `yaml:"bwa"`
	Samtools string `yaml:"samtools"`
	Bcftools string `yaml:"bcftools"`
}

// QualSettings controls how the variant-call file is averaged.
type QualSettings struct {
	Field         int    `yaml:"field"`
	CommentPrefix string `yaml:"comment-prefix"`
}

// Settings is the optional YAML settings document.
type Settings struct {
	Tools Tools        `yaml:"tools"`
	Qual  QualSettings `yaml:"qual"`
}

func DefaultSettings() Settings {
	return Settings{
		Tools: Tools{
			Bwa:      "bwa",
			Samtools: "samtools",
			Bcftools: "bcftools",
		},
		Qual: QualSettings{
			Field:         DefaultQualField,
			CommentPrefix: DefaultCommentPrefix,
		},
	}
}

func (s *Settings) Validate() ValidationErrors {
	var errs ValidationErrors

	tools := []struct {
		field string
		value string
	}{
		{"tools.bwa", s.Tools.Bwa},
		{"tools.samtools", s.Tools.Samtools},
		{"tools.bcftools", s.Tools.Bcftools},
	}
	for _, tool := range tools {
		if strings.TrimSpace(tool.value) == "" {
			errs = append(errs, ValidationError{Field: tool.field, Message: "tool path cannot be empty"})
			continue
		}
		if hasControlChars(tool.value) {
			errs = append(errs, ValidationError{Field: tool.field, Message: "tool path contains control characters"})
		}
	}

	if s.Qual.Field < 0 {
		errs = append(errs, ValidationError{Field: "qual.field", Message: fmt.Sprintf("field index must be non-negative, got %d", s.Qual.Field)})
	}
	if s.Qual.CommentPrefix == "" {
		errs = append(errs, ValidationError{Field: "qual.comment-prefix", Message: "comment prefix cannot be empty"})
	}

	return errs
}
