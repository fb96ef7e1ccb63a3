package model

import (
	"fmt"
	"strings"
)

// Sample derives every pipeline filename from a common basename.
type Sample struct {
	Name string
}

func (s Sample) Read1() string        { return s.Name + "_1.fq.gz" }
func (s Sample) Read2() string        { return s.Name + "_2.fq.gz" }
func (s Sample) Alignment() string    { return s.Name + ".sam" }
func (s Sample) Sorted() string       { return s.Name + "_s.sam" }
func (s Sample) VariantCalls() string { return s.Name + ".vcf" }

// RunOptions is the validated command-line input for one pipeline run.
type RunOptions struct {
	Sample       Sample
	BwaReference string
	SamReference string
	// Strict stops the run at the first step that exits non-zero.
	Strict bool
}

func (o RunOptions) Validate() ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(o.Sample.Name) == "" {
		errs = append(errs, ValidationError{Field: "sample_name", Message: "sample name cannot be empty"})
	} else if hasControlChars(o.Sample.Name) {
		errs = append(errs, ValidationError{Field: "sample_name", Message: "sample name contains control characters"})
	}

	refs := []struct {
		field string
		value string
	}{
		{"bwa_ref", o.BwaReference},
		{"sam_ref", o.SamReference},
	}
	for _, ref := range refs {
		if strings.TrimSpace(ref.value) == "" {
			errs = append(errs, ValidationError{Field: ref.field, Message: fmt.Sprintf("%s cannot be empty", ref.field)})
		}
	}

	return errs
}
