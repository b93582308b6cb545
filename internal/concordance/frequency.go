package concordance

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/macarthurlab/leiden/internal/hgvs"
)

// Population codes with AC_/AN_ allele count tags.
const (
	MAC26K = "MAC26K"
	EUR    = "EUR"
	AMR    = "AMR"
	AFR    = "AFR"
	SAS    = "SAS"
	EAS    = "EAS"
)

// Populations lists every population in report order.
var Populations = []string{MAC26K, EUR, AMR, AFR, SAS, EAS}

// Thresholds on the 26K allele frequency, in percent.
const (
	HighFrequencyThreshold = 0.5
	OverlapThreshold       = 0
)

// AlleleFrequency returns AC_<pop>/AN_<pop> as a percentage, or 0 when the
// variant has no counts for the population.
func AlleleFrequency(info, pop string) (float64, error) {
	ac, err := hgvs.GetTaggedEntryValue(info, "AC_"+pop)
	if errors.Is(err, hgvs.ErrTagNotFound) || ac == "" {
		return 0, nil
	}
	an, err := hgvs.GetTaggedEntryValue(info, "AN_"+pop)
	if errors.Is(err, hgvs.ErrTagNotFound) || an == "" {
		return 0, nil
	}

	count, err := strconv.ParseFloat(ac, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: AC_%s=%s", ErrUnexpectedFormat, pop, ac)
	}
	number, err := strconv.ParseFloat(an, 64)
	if err != nil || number == 0 {
		return 0, fmt.Errorf("%w: AN_%s=%s", ErrUnexpectedFormat, pop, an)
	}
	return count / number * 100, nil
}

// HasHGMDSite reports whether the variant overlaps an HGMD site.
func HasHGMDSite(info string) bool {
	return hasValue(info, TagHGMDSite)
}

// HasHGMDMutation reports whether the variant matches an HGMD mutation.
func HasHGMDMutation(info string) bool {
	return hasValue(info, TagHGMDMutation)
}

// HasDBSNP reports whether the variant has a dbSNP identifier.
func HasDBSNP(info string) bool {
	return hasValue(info, TagDBSNP)
}

func hasValue(info, tag string) bool {
	v, err := hgvs.GetTaggedEntryValue(info, tag)
	return err == nil && v != ""
}
