package output

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/macarthurlab/leiden/internal/concordance"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func percent(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
}

// WriteValidationSummary renders the counts of a validation report.
func WriteValidationSummary(w io.Writer, r *concordance.Report) {
	t := newTable(w)
	t.SetTitle("Validation Summary")
	t.AppendHeader(table.Row{"Category", "Count", "Share"})
	t.AppendRows([]table.Row{
		{"Total Mutations", r.Total, ""},
		{"Concordant Annotations", r.Concordant, percent(r.Concordant, r.Total)},
		{"  by splice site rule", r.SpliceConcordant, percent(r.SpliceConcordant, r.Total)},
		{"Discordant Annotations", r.Discordant, percent(r.Discordant, r.Total)},
		{"Errors and Indels", r.Errors, percent(r.Errors, r.Total)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"HGMD Sites", r.HGMDSites, percent(r.HGMDSites, r.Total)},
		{"HGMD Mutations", r.HGMDMutations, percent(r.HGMDMutations, r.Total)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"High 26K Frequency", r.High26K, percent(r.High26K, r.Total)},
		{"26K Overlap Count", r.Overlap26K, percent(r.Overlap26K, r.Total)},
	})
	t.Render()
}

// WriteFileSummary renders the per-file concordance counts, followed by the
// overall count. Files without variants are reported as not remapped.
func WriteFileSummary(w io.Writer, r *concordance.Report) {
	t := newTable(w)
	t.AppendHeader(table.Row{"File", "Concordant", "Total", "Result"})
	for _, f := range r.Files {
		result := fmt.Sprintf("%d / %d Concordant", f.Concordant, f.Total)
		if f.Total == 0 {
			result = "No annotated variants - variants could not be remapped"
		}
		t.AppendRow(table.Row{f.File, f.Concordant, f.Total, result})
	}
	t.AppendFooter(table.Row{"", r.Concordant, r.Total, fmt.Sprintf("%d / %d Concordant", r.Concordant, r.Total)})
	t.Render()
}

// RemapSummary counts the remapping outcome for one gene.
type RemapSummary struct {
	Gene        string
	Variants    int
	Remapped    int
	Cached      int
	Failed      int
	NeedsReview int // remapped to something other than a single nucleotide substitution
}

// WriteRemapSummary renders per-gene remapping counts with a total row.
func WriteRemapSummary(w io.Writer, summaries []RemapSummary) {
	t := newTable(w)
	t.SetTitle("Remapping Summary")
	t.AppendHeader(table.Row{"Gene", "Variants", "Remapped", "Cached", "Failed", "Needs Review"})

	var total RemapSummary
	for _, s := range summaries {
		t.AppendRow(table.Row{s.Gene, s.Variants, s.Remapped, s.Cached, s.Failed, s.NeedsReview})
		total.Variants += s.Variants
		total.Remapped += s.Remapped
		total.Cached += s.Cached
		total.Failed += s.Failed
		total.NeedsReview += s.NeedsReview
	}
	t.AppendFooter(table.Row{"Total", total.Variants, total.Remapped, total.Cached, total.Failed, total.NeedsReview})
	t.Render()
}
