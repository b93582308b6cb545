package output

import (
	"io"
	"path/filepath"

	"github.com/macarthurlab/leiden/internal/concordance"
)

// Log file names written to the output directory.
const (
	RemappingErrorsLog  = "remapping_errors.log"
	ProcessingErrorsLog = "processing_errors.log"
	DiscordantLog       = "discordant_annotations.log"
)

// Log headers.
var (
	RemappingErrorsHeader  = []string{"gene", "hgvs", "error"}
	ProcessingErrorsHeader = []string{"file", "error", "hgvs", "protein"}
	DiscordantHeader       = []string{
		"file",
		"hgvs",
		"chromosome",
		"coordinate",
		"ref",
		"alt",
		"ucsc",
		"protein",
		"aa_change_lovd",
		"aa_change_vep",
		"severe_impact",
	}
)

// RemapError records a variant that could not be remapped.
type RemapError struct {
	Gene    string
	Variant string
	Err     error
}

// Row returns the remapping_errors.log row.
func (e RemapError) Row() []string {
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return []string{e.Gene, e.Variant, msg}
}

// ProcessingErrorRow returns the processing_errors.log row for d.
func ProcessingErrorRow(d concordance.Decision) []string {
	msg := ""
	if d.Err != nil {
		msg = d.ErrorKind() + ": " + d.Err.Error()
	}
	return []string{d.File, msg, d.HGVS, d.ProteinChange}
}

// DiscordantRow returns the discordant_annotations.log row for d.
func DiscordantRow(d concordance.Decision) []string {
	v := d.Variant
	return []string{
		d.File,
		d.HGVS,
		v.Chrom,
		v.Pos,
		v.Ref,
		v.Alt,
		d.UCSCLink,
		d.ProteinChange,
		d.LAAChange.String(),
		d.PredictedChanges(),
		d.SevereImpact,
	}
}

// WriteRemapErrors writes remapping errors with a header row.
func WriteRemapErrors(w io.Writer, errs []RemapError) error {
	tw := NewTabWriter(w)
	if err := tw.WriteRow(RemappingErrorsHeader...); err != nil {
		return err
	}
	for _, e := range errs {
		if err := tw.WriteRow(e.Row()...); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// WriteRemapErrorsFile writes remapping_errors.log into dir.
func WriteRemapErrorsFile(dir string, errs []RemapError) error {
	rows := make([][]string, len(errs))
	for i, e := range errs {
		rows[i] = e.Row()
	}
	return WriteTableFile(filepath.Join(dir, RemappingErrorsLog), RemappingErrorsHeader, rows)
}

// WriteValidationLogs writes processing_errors.log and
// discordant_annotations.log for the decisions in r into dir.
func WriteValidationLogs(dir string, r *concordance.Report) error {
	var errRows [][]string
	for _, d := range r.WithStatus(concordance.Error) {
		errRows = append(errRows, ProcessingErrorRow(d))
	}
	if err := WriteTableFile(filepath.Join(dir, ProcessingErrorsLog), ProcessingErrorsHeader, errRows); err != nil {
		return err
	}

	var discordantRows [][]string
	for _, d := range r.WithStatus(concordance.Discordant) {
		discordantRows = append(discordantRows, DiscordantRow(d))
	}
	return WriteTableFile(filepath.Join(dir, DiscordantLog), DiscordantHeader, discordantRows)
}
