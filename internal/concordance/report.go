package concordance

import (
	"fmt"

	"github.com/macarthurlab/leiden/internal/vcf"
)

// FileSummary counts the variants validated from one file.
type FileSummary struct {
	File       string
	Total      int
	Concordant int
}

// Report aggregates decisions across files.
type Report struct {
	Total      int
	Concordant int
	Discordant int
	Errors     int

	SpliceConcordant int
	HGMDSites        int
	HGMDMutations    int
	High26K          int // MAC26K frequency above HighFrequencyThreshold
	Overlap26K       int // MAC26K frequency above OverlapThreshold

	Decisions []Decision
	Files     []FileSummary

	fileIndex map[string]int
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{fileIndex: make(map[string]int)}
}

// Add records one decision.
func (r *Report) Add(d Decision) {
	r.Total++
	switch d.Status {
	case Concordant:
		r.Concordant++
		if d.Splice {
			r.SpliceConcordant++
		}
	case Discordant:
		r.Discordant++
	case Error:
		r.Errors++
	}

	if d.HGMDSite {
		r.HGMDSites++
	}
	if d.HGMDMutation {
		r.HGMDMutations++
	}
	if f := d.Frequency26K(); f > HighFrequencyThreshold {
		r.High26K++
	}
	if d.Frequency26K() > OverlapThreshold {
		r.Overlap26K++
	}

	fs := r.file(d.File)
	fs.Total++
	if d.Status == Concordant {
		fs.Concordant++
	}

	r.Decisions = append(r.Decisions, d)
}

// AddFile registers a file so that it is listed even if it has no variants.
func (r *Report) AddFile(file string) {
	r.file(file)
}

func (r *Report) file(name string) *FileSummary {
	i, ok := r.fileIndex[name]
	if !ok {
		i = len(r.Files)
		r.fileIndex[name] = i
		r.Files = append(r.Files, FileSummary{File: name})
	}
	return &r.Files[i]
}

// WithStatus returns the decisions with status s, in the order added.
func (r *Report) WithStatus(s Status) []Decision {
	var out []Decision
	for _, d := range r.Decisions {
		if d.Status == s {
			out = append(out, d)
		}
	}
	return out
}

// ConcordanceRate returns the concordant share of all variants in percent.
func (r *Report) ConcordanceRate() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Concordant) / float64(r.Total) * 100
}

// EvaluateFile validates every variant read from rd and adds the decisions
// to r. Only read errors are returned.
func (r *Report) EvaluateFile(file string, rd vcf.VariantReader) error {
	r.AddFile(file)
	for {
		v, err := rd.Next()
		if err != nil {
			return fmt.Errorf("%s line %d: %w", file, rd.LineNumber(), err)
		}
		if v == nil {
			return nil
		}
		r.Add(Evaluate(file, v))
	}
}
