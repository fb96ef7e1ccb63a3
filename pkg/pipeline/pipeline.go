// Package pipeline runs align, sort and variant calling for one sample and
// averages the QUAL column of the result.
package pipeline

import (
	"context"
	"fmt"

	"varpipe/pkg/log"
	"varpipe/pkg/model"
	"varpipe/pkg/qual"
	"varpipe/pkg/runner"
	"varpipe/pkg/steps"
	"varpipe/pkg/system"

	"github.com/google/uuid"
)

const dependencyWarning = "This pipeline requires 'bwa', 'samtools' and 'bcftools' to be installed; missing tools will leave empty or missing output files"

// StepOutcome records how one step finished.
type StepOutcome struct {
	Name     string
	Command  string
	ExitCode int
}

// Summary describes a completed run.
type Summary struct {
	RunID       string
	Sample      string
	Steps       []StepOutcome
	AverageQual float64
}

// Failed returns the steps that exited non-zero.
func (s *Summary) Failed() []StepOutcome {
	var failed []StepOutcome
	for _, step := range s.Steps {
		if step.ExitCode != 0 {
			failed = append(failed, step)
		}
	}
	return failed
}

// StepError stops a strict run at the first failing step.
type StepError struct {
	Step     string
	Command  string
	ExitCode int
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed with exit code %d: %s", e.Step, e.ExitCode, e.Command)
}

// BuildPlan returns the three steps in execution order: align, sort, call.
func BuildPlan(opts model.RunOptions, tools model.Tools) []steps.Step {
	sample := opts.Sample
	return []steps.Step{
		&steps.AlignStep{
			Tools:     tools,
			Reference: opts.BwaReference,
			Read1:     sample.Read1(),
			Read2:     sample.Read2(),
			Out:       sample.Alignment(),
		},
		&steps.SortStep{
			Tools: tools,
			In:    sample.Alignment(),
			Out:   sample.Sorted(),
		},
		&steps.CallVariantsStep{
			Tools:     tools,
			Reference: opts.SamReference,
			In:        sample.Sorted(),
			Out:       sample.VariantCalls(),
		},
	}
}

// Run executes the plan in order and then averages the variant-call file.
//
// A step that exits non-zero is logged and, unless opts.Strict is set, the
// run carries on with the next step. Averaging starts only after all three
// steps were issued.
func Run(ctx context.Context, opts model.RunOptions, settings *model.Settings, r runner.CommandRunner, logger log.Logger) (*Summary, error) {
	if errs := opts.Validate(); len(errs) > 0 {
		return nil, errs
	}
	if settings == nil {
		defaults := model.DefaultSettings()
		settings = &defaults
	}

	summary := &Summary{
		RunID:  uuid.New().String(),
		Sample: opts.Sample.Name,
	}
	logger = logger.With("run_id", summary.RunID, "sample", summary.Sample)
	logger.Warn(dependencyWarning)

	for _, step := range BuildPlan(opts, settings.Tools) {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		stepLogger := logger.With("step", step.Name())
		stepLogger.Info(step.Description())

		inv := step.Invocation()
		_, res := steps.ExecuteResult(ctx, r, stepLogger, inv)
		summary.Steps = append(summary.Steps, StepOutcome{
			Name:     step.Name(),
			Command:  inv.String(),
			ExitCode: res.ExitCode,
		})

		checkOutput(step.Output(), stepLogger)

		if !res.Success() {
			if opts.Strict {
				return summary, &StepError{Step: step.Name(), Command: inv.String(), ExitCode: res.ExitCode}
			}
			stepLogger.Warn("Continuing after failed step; later steps may read empty or stale input")
		}
	}

	vcf := opts.Sample.VariantCalls()
	logger.Info("Pipeline executed",
		"failed_steps", len(summary.Failed()),
		"sorted_alignment", opts.Sample.Sorted(),
		"variant_calls", vcf)

	logger.Info("Calculating average QUAL", "file", vcf, "field", settings.Qual.Field)
	avg, err := qual.AverageField(vcf, settings.Qual.Field, settings.Qual.CommentPrefix)
	if err != nil {
		return summary, fmt.Errorf("error averaging QUAL in %s: %w", vcf, err)
	}
	summary.AverageQual = avg
	logger.Info("average qual", "value", avg)

	return summary, nil
}

// checkOutput warns when a step left its output missing or empty.
func checkOutput(path string, logger log.Logger) {
	info, err := system.AppFs.Stat(path)
	if err != nil {
		logger.Warn("Step output missing", "path", path, "error", err)
		return
	}
	if info.Size() == 0 {
		logger.Warn("Step output is empty", "path", path)
	}
}
