package lovd

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/macarthurlab/leiden/internal/hgvs"
)

var (
	entryCountRegex  = regexp.MustCompile(`(\d+)\s(?:entries|entry)`)
	headerCleanRegex = regexp.MustCompile(`[^A-Za-z0-9]`)
	whitespaceRegex  = regexp.MustCompile(`\s`)
)

// Database is one LOVD installation.
type Database struct {
	client  *Client
	version Version
	dialect dialect
	baseURL string
}

// Version returns the LOVD version of the installation.
func (db *Database) Version() Version {
	return db.version
}

// BaseURL returns the normalized installation URL, ending in "/".
func (db *Database) BaseURL() string {
	return db.baseURL
}

// GeneList returns the genes listed by the installation.
func (db *Database) GeneList(ctx context.Context) ([]string, error) {
	doc, err := db.client.document(ctx, db.dialect.genesURL(db.baseURL))
	if err != nil {
		return nil, err
	}
	return db.dialect.genes(doc), nil
}

// GeneQueryContext is the state of one gene query: its URLs, reference
// transcript and the first page of the variant listing. It is a value;
// nothing mutates it after Query returns.
type GeneQueryContext struct {
	gene        string
	refSeqID    string
	homepageURL string
	firstPage   *goquery.Document
}

// Gene returns the queried gene symbol.
func (q GeneQueryContext) Gene() string { return q.gene }

// RefSeqID returns the reference transcript, e.g. NM_001100.3, or "" if
// the gene homepage does not name one.
func (q GeneQueryContext) RefSeqID() string { return q.refSeqID }

// HomepageURL returns the gene homepage.
func (q GeneQueryContext) HomepageURL() string { return q.homepageURL }

// Query prepares a query for gene, downloading its homepage and the first
// page of its variant listing.
func (db *Database) Query(ctx context.Context, gene string) (GeneQueryContext, error) {
	genes, err := db.GeneList(ctx)
	if err != nil {
		return GeneQueryContext{}, err
	}
	if !slices.Contains(genes, gene) {
		return GeneQueryContext{}, fmt.Errorf("%w: %s", ErrGeneNotFound, gene)
	}

	first, err := db.client.document(ctx, db.dialect.variantsURL(db.baseURL, gene, 1))
	if err != nil {
		return GeneQueryContext{}, err
	}

	homepageURL := db.dialect.homepageURL(db.baseURL, gene)
	homepage, err := db.client.document(ctx, homepageURL)
	if err != nil {
		return GeneQueryContext{}, err
	}

	q := GeneQueryContext{
		gene:        gene,
		refSeqID:    transcriptRefSeqID(homepage),
		homepageURL: homepageURL,
		firstPage:   first,
	}
	db.client.logger.Debug("gene query ready",
		zap.String("gene", gene),
		zap.String("refseq", q.refSeqID),
		zap.Stringer("version", db.version))
	return q, nil
}

// transcriptRefSeqID returns the text of the first homepage link naming a
// RefSeq transcript.
func transcriptRefSeqID(doc *goquery.Document) string {
	var id string
	doc.Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if text := strings.TrimSpace(s.Text()); strings.Contains(text, "NM_") {
			id = text
			return false
		}
		return true
	})
	return id
}

// TableHeaders returns the normalized column labels of the variant
// listing, left to right: lower case, with every character other than a
// letter or digit replaced by "_".
func (db *Database) TableHeaders(q GeneQueryContext) []string {
	headers := []string{}
	q.firstPage.Find("th").Each(func(_ int, th *goquery.Selection) {
		text, ok := db.dialect.headerText(th)
		if !ok {
			return
		}
		headers = append(headers, NormalizeHeader(text))
	})
	return headers
}

// NormalizeHeader normalizes a column label.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return headerCleanRegex.ReplaceAllString(h, "_")
}

// VariantCount returns the total number of entries in the variant listing.
func (db *Database) VariantCount(q GeneQueryContext) (int, error) {
	m := entryCountRegex.FindStringSubmatch(q.firstPage.Text())
	if m == nil {
		return 0, fmt.Errorf("%w: %s", ErrNoEntries, q.gene)
	}
	return strconv.Atoi(m[1])
}

// Pages returns the number of listing pages needed for count entries.
func Pages(count int) int {
	return (count + PageSize - 1) / PageSize
}

// VariantTable returns every row of the variant listing across all pages.
func (db *Database) VariantTable(ctx context.Context, q GeneQueryContext) ([][]string, error) {
	count, err := db.VariantCount(q)
	if err != nil {
		return nil, err
	}

	var table [][]string
	for page := 1; page <= Pages(count); page++ {
		rows, err := db.VariantTablePage(ctx, q, page)
		if err != nil {
			return nil, fmt.Errorf("%s page %d: %w", q.gene, page, err)
		}
		table = append(table, rows...)
	}
	return table, nil
}

// VariantTablePage returns the rows on one page of the variant listing.
// Cells holding links are reduced to the link values (see CellLinks);
// other cells keep their text with whitespace collapsed to spaces.
func (db *Database) VariantTablePage(ctx context.Context, q GeneQueryContext, page int) ([][]string, error) {
	doc := q.firstPage
	if page != 1 {
		var err error
		doc, err = db.client.document(ctx, db.dialect.variantsURL(db.baseURL, q.gene, page))
		if err != nil {
			return nil, err
		}
	}

	rows := db.dialect.variantRows(doc)
	// Some listings start with a row of column images.
	if rows.First().Find("img").Length() > 0 {
		rows = rows.Slice(1, rows.Length())
	}

	table := [][]string{}
	rows.Each(func(_ int, tr *goquery.Selection) {
		var row []string
		tr.Find("td").Each(func(_ int, td *goquery.Selection) {
			if links := td.Find("a"); links.Length() > 0 {
				row = append(row, whitespaceRegex.ReplaceAllString(CellLinks(links, q.refSeqID), ""))
				return
			}
			row = append(row, whitespaceRegex.ReplaceAllString(strings.TrimSpace(td.Text()), " "))
		})
		table = append(table, row)
	})
	return table, nil
}

// CellLinks reduces the links of a table cell to a comma-separated list.
// Links whose text is an HGVS description become refSeqID:description,
// PubMed and OMIM links become PMID=<id> and OMIM=<id>, other links become
// their URL. Links without text are dropped.
func CellLinks(links *goquery.Selection, refSeqID string) string {
	var values []string
	links.Each(func(_ int, a *goquery.Selection) {
		text := a.Text()
		if strings.TrimSpace(text) == "" {
			return
		}
		href, _ := a.Attr("href")

		switch {
		case strings.Contains(text, "c.") || strings.Contains(text, "p."):
			notation := hgvs.CorrectHGVSParentheses(hgvs.RemoveTimesReported(text))
			values = append(values, refSeqID+":"+strings.TrimSpace(notation))
		case strings.Contains(href, "pubmed"):
			if id, err := hgvs.GetPMID(href); err == nil {
				values = append(values, "PMID="+id)
				return
			}
			values = append(values, href)
		case strings.Contains(href, "omim"):
			if id, err := hgvs.GetOMIMID(href); err == nil {
				values = append(values, "OMIM="+id)
				return
			}
			values = append(values, href)
		default:
			values = append(values, href)
		}
	})
	return strings.Join(values, ",")
}
