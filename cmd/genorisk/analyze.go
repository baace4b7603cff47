package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/genorisk/genorisk/internal/pipeline"
	"github.com/genorisk/genorisk/internal/report"
)

func newAnalyzeCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "analyze <vcf-file | rsID>",
		Short: "Run one analysis from the command line",
		Long:  "Analyze a VCF file, or a single variant given as a dbSNP identifier,\nand print the result to stdout.",
		Example: `  genorisk analyze cohort.vcf
  genorisk analyze rs429358
  genorisk analyze --format csv cohort.vcf > result.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			p, closers, err := buildPipeline(logger)
			if err != nil {
				return err
			}
			defer func() {
				for _, c := range closers {
					c.Close()
				}
			}()

			input := args[0]
			var res *pipeline.Result
			if strings.HasPrefix(input, "rs") {
				res, err = p.RunRsID(context.Background(), input, nil)
			} else {
				res, err = p.RunFile(context.Background(), input, nil)
			}
			if err != nil {
				return err
			}

			switch format {
			case "json":
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			case "csv":
				return report.NewCSVWriter(os.Stdout).WriteResult(res)
			default:
				return fmt.Errorf("unknown output format %q", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, csv")

	return cmd
}
