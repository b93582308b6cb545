package pipeline

import (
	"bytes"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/macarthurlab/leiden/internal/concordance"
	"github.com/macarthurlab/leiden/internal/vcf"
)

// Validation is the outcome of validating a set of annotated VCF files.
type Validation struct {
	Report *concordance.Report
	Header []string // header lines of the first file that has any
}

// ValidateFiles evaluates every variant in the annotated VCF files at
// paths. Unreadable files are logged and listed without variants; a
// malformed row stops only its own file.
func ValidateFiles(paths []string, logger *zap.Logger) *Validation {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := &Validation{Report: concordance.NewReport()}

	for _, path := range paths {
		if err := v.validateFile(path); err != nil {
			logger.Warn("validation stopped early", zap.String("file", path), zap.Error(err))
		}
	}
	return v
}

func (v *Validation) validateFile(path string) error {
	p, err := vcf.NewParser(path)
	if err != nil {
		v.Report.AddFile(path)
		return err
	}
	defer p.Close()

	if v.Header == nil && len(p.Header()) > 0 {
		v.Header = p.Header()
	}
	return v.Report.EvaluateFile(path, p)
}

// Split returns the concordant variants and all others, discordant or not
// comparable, each in input order.
func (v *Validation) Split() (concordant, other []vcf.Variant) {
	for _, d := range v.Report.Decisions {
		if d.Status == concordance.Concordant {
			concordant = append(concordant, d.Variant)
		} else {
			other = append(other, d.Variant)
		}
	}
	return concordant, other
}

// WriteVariantsFile writes variants under the validation's header lines to
// path, replacing any existing file.
func (v *Validation) WriteVariantsFile(path string, variants []vcf.Variant) error {
	var buf bytes.Buffer
	w := vcf.NewWriter(&buf, nil)
	if err := w.WriteHeaderLines(v.Header); err != nil {
		return err
	}
	for i := range variants {
		if err := w.Write(&variants[i]); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
