// Package steps describes the external tool invocations that make up a
// variant-calling run and executes them with status reporting.
package steps

import (
	"fmt"

	"varpipe/pkg/model"
	"varpipe/pkg/runner"
)

// Step is a single external tool invocation in the pipeline.
type Step interface {
	// Name is a short identifier used in log records.
	Name() string
	// Description returns a human-readable string of what the step does.
	Description() string
	// Invocation builds the command to run.
	Invocation() runner.Invocation
	// Output is the file the step is expected to produce.
	Output() string
	// ExecutionDetails returns a slice of strings describing the low-level operations.
	ExecutionDetails() []string
}

// AlignStep maps paired reads against a reference with `bwa mem`.
type AlignStep struct {
	Tools     model.Tools
	Reference string
	Read1     string
	Read2     string
	Out       string
}

func (s *AlignStep) Name() string { return "align" }

func (s *AlignStep) Description() string {
	return fmt.Sprintf("Aligning %s and %s with %s to produce %s", s.Read1, s.Read2, s.Reference, s.Out)
}

func (s *AlignStep) Invocation() runner.Invocation {
	return runner.Command(s.Tools.Bwa, "mem", s.Reference, s.Read1, s.Read2).RedirectTo(s.Out)
}

func (s *AlignStep) Output() string { return s.Out }

func (s *AlignStep) ExecutionDetails() []string {
	return []string{
		fmt.Sprintf("run: %s", s.Invocation()),
		fmt.Sprintf("reads: %s, %s", s.Read1, s.Read2),
		fmt.Sprintf("writes: %s", s.Out),
	}
}

// SortStep orders an alignment by coordinate with `samtools sort`.
type SortStep struct {
	Tools model.Tools
	In    string
	Out   string
}

func (s *SortStep) Name() string { return "sort" }

func (s *SortStep) Description() string {
	return fmt.Sprintf("Sorting %s for input to bcftools", s.In)
}

func (s *SortStep) Invocation() runner.Invocation {
	return runner.Command(s.Tools.Samtools, "sort", s.In).RedirectTo(s.Out)
}

func (s *SortStep) Output() string { return s.Out }

func (s *SortStep) ExecutionDetails() []string {
	return []string{
		fmt.Sprintf("run: %s", s.Invocation()),
		fmt.Sprintf("reads: %s", s.In),
		fmt.Sprintf("writes: %s", s.Out),
	}
}

// CallVariantsStep piles up the sorted reads and calls variants with bcftools.
type CallVariantsStep struct {
	Tools     model.Tools
	Reference string
	In        string
	Out       string
}

func (s *CallVariantsStep) Name() string { return "call" }

func (s *CallVariantsStep) Description() string {
	return fmt.Sprintf("Processing %s for variant calling with bcftools", s.In)
}

func (s *CallVariantsStep) Invocation() runner.Invocation {
	return runner.Command(s.Tools.Bcftools, "mpileup", "-Ou", "-f", s.Reference, s.In).
		Pipe(s.Tools.Bcftools, "call", "-mv", "-Ov", "-o", s.Out)
}

func (s *CallVariantsStep) Output() string { return s.Out }

func (s *CallVariantsStep) ExecutionDetails() []string {
	return []string{
		fmt.Sprintf("run: %s", s.Invocation()),
		fmt.Sprintf("reads: %s, %s", s.In, s.Reference),
		fmt.Sprintf("writes: %s", s.Out),
	}
}
