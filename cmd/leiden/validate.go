package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/macarthurlab/leiden/internal/output"
	"github.com/macarthurlab/leiden/internal/pipeline"
)

func newValidateCmd() *cobra.Command {
	var (
		fileList         string
		outDir           string
		validatedOutput  string
		discordantOutput string
	)

	cmd := &cobra.Command{
		Use:   "validate [annotated.vcf]...",
		Short: "Compare LOVD protein changes with annotated VCF files",
		Long: `Validate reads VCF files annotated with the predicted amino acid change
(AA_CHANGE) alongside the LOVD change (LAA_CHANGE) and decides for every
variant whether the two agree. Concordant variants are written to the
validated VCF and all others to the discordant VCF. Disagreements and
unusable rows are listed in discordant_annotations.log and
processing_errors.log.`,
		Example: `  leiden validate ACTA1.annotated.vcf DMD.annotated.vcf
  leiden validate --file-list annotated.txt -o results/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := args
			if fileList != "" {
				rows, err := output.ReadTableFile(fileList)
				if err != nil {
					return fmt.Errorf("reading file list: %w", err)
				}
				for _, row := range rows {
					if len(row) > 0 && strings.TrimSpace(row[0]) != "" {
						paths = append(paths, strings.TrimSpace(row[0]))
					}
				}
			}
			if len(paths) == 0 {
				return usageError{"no VCF files given (pass files or --file-list)"}
			}
			if err := ensureDir(outDir); err != nil {
				return err
			}

			v := pipeline.ValidateFiles(paths, logger)

			if err := output.WriteValidationLogs(outDir, v.Report); err != nil {
				return err
			}
			concordant, other := v.Split()
			if err := v.WriteVariantsFile(filepath.Join(outDir, validatedOutput), concordant); err != nil {
				return err
			}
			if err := v.WriteVariantsFile(filepath.Join(outDir, discordantOutput), other); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			output.WriteFileSummary(out, v.Report)
			fmt.Fprintln(out)
			output.WriteValidationSummary(out, v.Report)

			logger.Info("validation complete",
				zap.Int("files", len(paths)),
				zap.Int("variants", v.Report.Total),
				zap.Float64("concordance", v.Report.ConcordanceRate()))
			return nil
		},
	}

	cmd.Flags().StringVar(&fileList, "file-list", "", "File listing one annotated VCF path per line")
	cmd.Flags().StringVarP(&outDir, "output-dir", "o", ".", "Directory for logs and output VCFs")
	cmd.Flags().StringVar(&validatedOutput, "output", "lovd_validated_variants.vcf", "Concordant variants VCF")
	cmd.Flags().StringVar(&discordantOutput, "discordant-output", "lovd_discordant_variants.vcf", "Non-concordant variants VCF")
	return cmd
}
