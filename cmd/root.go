package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"varpipe/pkg/config"
	"varpipe/pkg/log"
	"varpipe/pkg/model"
	"varpipe/pkg/pipeline"
	"varpipe/pkg/system"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	logLevel  string
	bwaRef    string
	samRef    string
	dryRun    bool
	strict    bool
	logger    log.Logger
	cmdRunner system.CommandRunner = &system.LiveCommandRunner{}
	rootCmd                        = &cobra.Command{
		Use:   "varpipe <sample_name>",
		Short: "varpipe aligns paired reads, calls variants and averages their QUAL",
		Long: `A BWA alignment and variant calling pipeline.

For a sample name S it runs, in order:
  bwa mem <bwa_ref> S_1.fq.gz S_2.fq.gz > S.sam
  samtools sort S.sam > S_s.sam
  bcftools mpileup -Ou -f <sam_ref> S_s.sam | bcftools call -mv -Ov -o S.vcf
and then prints the average QUAL of S.vcf.

A failing step is reported and the run continues; use --strict to stop instead.

A sample named like a subcommand (for example "qual") must follow "--":
  varpipe --bwa_ref <bwa_ref> --sam_ref <sam_ref> -- qual`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLogLevel(logLevel)
			if err != nil {
				return err
			}
			writer := cmd.ErrOrStderr()
			logger = log.NewSlogLogger(level, writer)
			ctx := context.WithValue(cmd.Context(), "logger", logger)
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			logger := cmd.Context().Value("logger").(log.Logger)

			settings, err := config.LoadSettings(cfgFile, logger)
			if err != nil {
				return err
			}

			opts := model.RunOptions{
				Sample:       model.Sample{Name: args[0]},
				BwaReference: bwaRef,
				SamReference: samRef,
				Strict:       strict,
			}

			if dryRun {
				if errs := opts.Validate(); len(errs) > 0 {
					return errs
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Dry run enabled. The following commands would be run:")
				for _, step := range pipeline.BuildPlan(opts, settings.Tools) {
					fmt.Fprintf(cmd.OutOrStdout(), "=> %s\n", step.Description())
					for _, detail := range step.ExecutionDetails() {
						fmt.Fprintf(cmd.OutOrStdout(), "   - %s\n", detail)
					}
				}
				return nil
			}

			summary, err := pipeline.Run(cmd.Context(), opts, settings, cmdRunner, logger)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "average qual: %v\n", summary.AverageQual)
			return nil
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseLogLevel(levelStr string) (slog.Level, error) {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", levelStr)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional YAML settings file (tool paths, QUAL column)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.Flags().StringVar(&bwaRef, "bwa_ref", "", "Path to the BWA reference genome file")
	rootCmd.Flags().StringVar(&samRef, "sam_ref", "", "Path to the SAM reference genome file for bcftools")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the commands that would be run without executing them")
	rootCmd.Flags().BoolVar(&strict, "strict", false, "Stop at the first step that exits non-zero")
	rootCmd.MarkFlagRequired("bwa_ref")
	rootCmd.MarkFlagRequired("sam_ref")
}
