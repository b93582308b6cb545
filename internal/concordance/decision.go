package concordance

import (
	"strings"

	"github.com/macarthurlab/leiden/internal/hgvs"
	"github.com/macarthurlab/leiden/internal/vcf"
)

// NotFound stands in for tag values missing from a record.
const NotFound = "NOT_FOUND"

// Status is the outcome of comparing the two protein changes of a variant.
type Status int

const (
	Concordant Status = iota
	Discordant
	Error
)

func (s Status) String() string {
	switch s {
	case Concordant:
		return "concordant"
	case Discordant:
		return "discordant"
	case Error:
		return "error"
	}
	return "unknown"
}

// Decision is the full per-variant validation record.
type Decision struct {
	File    string
	Variant vcf.Variant

	HGVS          string // HGVS tag, NotFound if absent
	ProteinChange string // raw LAA_CHANGE tag, NotFound if absent
	SevereImpact  string
	UCSCLink      string

	LAAChange Change
	AAChanges []Change

	Status Status
	Err    error // set when Status is Error
	Splice bool  // concordance was established by the splice site rule

	Frequencies  map[string]float64 // allele frequency in percent by population
	HGMDSite     bool
	HGMDMutation bool
	DBSNP        bool
}

// ErrorKind names the category of the processing error, if any.
func (d *Decision) ErrorKind() string {
	if d.Err == nil {
		return ""
	}
	if k := KindOf(d.Err); k != "" {
		return k
	}
	return "Other"
}

// PredictedChanges formats the predicted changes as a comma list.
func (d *Decision) PredictedChanges() string {
	parts := make([]string, len(d.AAChanges))
	for i, c := range d.AAChanges {
		parts[i] = c.String()
	}
	return strings.Join(parts, ",")
}

// Frequency26K returns the MAC26K allele frequency in percent.
func (d *Decision) Frequency26K() float64 {
	return d.Frequencies[MAC26K]
}

// Evaluate validates one annotated variant from file. Parse failures are
// recorded in the decision and never returned.
func Evaluate(file string, v *vcf.Variant) Decision {
	d := Decision{
		File:          file,
		Variant:       *v,
		HGVS:          tagOr(v.Info, TagHGVS, NotFound),
		ProteinChange: tagOr(v.Info, TagLAAChange, NotFound),
		SevereImpact:  tagOr(v.Info, TagSevereImpact, ""),
		Frequencies:   make(map[string]float64, len(Populations)),
		HGMDSite:      HasHGMDSite(v.Info),
		HGMDMutation:  HasHGMDMutation(v.Info),
		DBSNP:         HasDBSNP(v.Info),
	}

	if pos, err := v.Position(); err == nil {
		d.UCSCLink = UCSCLinkAround(v.NormalizeChrom(), pos)
	}

	for _, pop := range Populations {
		// Malformed counts count as absent.
		f, _ := AlleleFrequency(v.Info, pop)
		d.Frequencies[pop] = f
	}

	d.Status, d.Err = compare(&d, v)
	if d.Status != Concordant && IsSpliceSite(d.SevereImpact) {
		if ok, err := IsConcordantSpliceMutation(v.Info, v.Ref); err == nil && ok {
			d.Status, d.Err, d.Splice = Concordant, nil, true
		}
	}
	return d
}

func compare(d *Decision, v *vcf.Variant) (Status, error) {
	laa, err := GetLAAChange(v.Info)
	if err != nil {
		return Error, err
	}
	d.LAAChange = laa

	aa, err := GetAAChange(v.Info)
	if err != nil {
		return Error, err
	}
	d.AAChanges = aa

	ok, err := IsConcordantAny(laa, aa)
	if err != nil {
		return Error, err
	}
	if ok {
		return Concordant, nil
	}
	return Discordant, nil
}

func tagOr(info, tag, fallback string) string {
	if value, err := hgvs.GetTaggedEntryValue(info, tag); err == nil {
		return value
	}
	return fallback
}
