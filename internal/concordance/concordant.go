package concordance

import "fmt"

// IsConcordant reports whether the LOVD change and a predicted change
// describe the same amino acid substitution. Two synonymous changes are
// concordant even if their residues differ, since LOVD and annotators use
// different placeholders for "no change".
func IsConcordant(laa, aa Change) (bool, error) {
	l, err := laa.Mapped()
	if err != nil {
		return false, fmt.Errorf("LOVD change %s/%s: %w", laa.Before, laa.After, err)
	}
	a, err := aa.Mapped()
	if err != nil {
		return false, fmt.Errorf("predicted change %s/%s: %w", aa.Before, aa.After, err)
	}

	matching := l == a
	synonymous := l.IsSynonymous() && a.IsSynonymous()
	return matching || synonymous, nil
}

// IsConcordantAny reports whether the LOVD change is concordant with the
// prediction for any transcript. The first concordant transcript wins.
// Transcripts whose prediction cannot be mapped are skipped; an error is
// returned only if the LOVD change itself cannot be mapped or no
// prediction could be compared.
func IsConcordantAny(laa Change, aa []Change) (bool, error) {
	if _, err := laa.Mapped(); err != nil {
		return false, fmt.Errorf("LOVD change %s/%s: %w", laa.Before, laa.After, err)
	}

	var firstErr error
	compared := 0
	for _, c := range aa {
		ok, err := IsConcordant(laa, c)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if ok {
			return true, nil
		}
		compared++
	}

	if compared == 0 && firstErr != nil {
		return false, firstErr
	}
	return false, nil
}
