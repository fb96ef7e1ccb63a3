package cmd

import (
	"fmt"

	"varpipe/pkg/config"
	"varpipe/pkg/log"
	"varpipe/pkg/qual"

	"github.com/spf13/cobra"
)

var (
	qualField         int
	qualCommentPrefix string
)

// qualCmd averages an existing variant-call file without running any tool.
var qualCmd = &cobra.Command{
	Use:   "qual <file.vcf[.gz]>",
	Short: "Prints the average QUAL of a variant-call file",
	Long: `The qual command averages one tab-delimited column (QUAL by default) over
every line of a VCF that does not start with the comment prefix. Files ending
in .gz are decompressed on the fly. A file with no records averages to 0.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		logger := cmd.Context().Value("logger").(log.Logger)

		settings, err := config.LoadSettings(cfgFile, logger)
		if err != nil {
			return err
		}
		field := settings.Qual.Field
		if cmd.Flags().Changed("field") {
			field = qualField
		}
		prefix := settings.Qual.CommentPrefix
		if cmd.Flags().Changed("comment-prefix") {
			prefix = qualCommentPrefix
		}

		avg, err := qual.AverageField(args[0], field, prefix)
		if err != nil {
			return err
		}
		logger.Info("average qual", "file", args[0], "value", avg)

		fmt.Fprintf(cmd.OutOrStdout(), "average qual: %v\n", avg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(qualCmd)
	qualCmd.Flags().IntVar(&qualField, "field", 5, "0-based column to average")
	qualCmd.Flags().StringVar(&qualCommentPrefix, "comment-prefix", "#", "Lines starting with this prefix are skipped")
}
