package concordance

import (
	"fmt"
	"strings"
)

// ViewingWindow is the number of bases shown on each side of a variant.
const ViewingWindow = 25

const ucscBrowserURL = "http://genome.ucsc.edu/cgi-bin/hgTracks?db=hg19&position=chr%s%%3A%s-%s"

// UCSCLink returns a link to the hg19 genome browser showing chrom between
// start and end.
func UCSCLink(chrom, start, end string) string {
	return fmt.Sprintf(ucscBrowserURL, strings.TrimPrefix(chrom, "chr"), start, end)
}

// UCSCLinkAround returns a browser link centred on pos.
func UCSCLinkAround(chrom string, pos int64) string {
	start := max(pos-ViewingWindow, 1)
	return UCSCLink(chrom, fmt.Sprint(start), fmt.Sprint(pos+ViewingWindow))
}
