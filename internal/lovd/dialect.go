package lovd

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Version is a supported LOVD major version.
type Version int

const (
	LOVD2 Version = 2
	LOVD3 Version = 3
)

func (v Version) String() string {
	return fmt.Sprintf("LOVD%d", int(v))
}

// dialect holds everything that differs between LOVD versions: URL
// layout, where the gene list lives and how the variant table is marked up.
type dialect struct {
	baseURL     func(raw string) string
	genesURL    func(base string) string
	homepageURL func(base, gene string) string
	variantsURL func(base, gene string, page int) string
	genes       func(doc *goquery.Document) []string
	headerText  func(th *goquery.Selection) (string, bool)
	variantRows func(doc *goquery.Document) *goquery.Selection
}

var dialects = map[Version]dialect{
	LOVD2: {
		baseURL: lovd2BaseURL,
		genesURL: func(base string) string {
			return base + "?action=switch_db"
		},
		homepageURL: func(base, gene string) string {
			return base + "home.php?select_db=" + url.QueryEscape(gene)
		},
		variantsURL: func(base, gene string, page int) string {
			return fmt.Sprintf("%svariants.php?action=search_unique&select_db=%s&limit=%d&page=%d",
				base, url.QueryEscape(gene), PageSize, page)
		},
		genes: func(doc *goquery.Document) []string {
			var genes []string
			doc.Find("#SelectGeneDB option").Each(func(_ int, s *goquery.Selection) {
				if v, ok := s.Attr("value"); ok && v != "" {
					genes = append(genes, v)
				}
			})
			return genes
		},
		// Only headers holding a bare string are column labels.
		headerText: func(th *goquery.Selection) (string, bool) {
			if th.Children().Length() > 0 {
				return "", false
			}
			return th.Text(), true
		},
		variantRows: func(doc *goquery.Document) *goquery.Selection {
			return doc.Find("#table_data").First().Find("tr")
		},
	},
	LOVD3: {
		baseURL: lovd3BaseURL,
		genesURL: func(base string) string {
			return fmt.Sprintf("%sgenes/?page_size=%d&page=1", base, PageSize)
		},
		homepageURL: func(base, gene string) string {
			return fmt.Sprintf("%sgenes/%s?page_size=%d&page=1", base, url.PathEscape(gene), PageSize)
		},
		variantsURL: func(base, gene string, page int) string {
			return fmt.Sprintf("%svariants/%s?page_size=%d&page=%d", base, url.PathEscape(gene), PageSize, page)
		},
		genes: func(doc *goquery.Document) []string {
			var genes []string
			doc.Find("tr.data").Each(func(_ int, s *goquery.Selection) {
				if g := strings.TrimSpace(s.Find("td").First().Find("a").First().Text()); g != "" {
					genes = append(genes, g)
				}
			})
			return genes
		},
		headerText: func(th *goquery.Selection) (string, bool) {
			return th.Text(), true
		},
		variantRows: func(doc *goquery.Document) *goquery.Selection {
			rows := doc.Find("tr.data")
			if rows.Length() == 0 {
				rows = doc.Find("tr.marked")
			}
			return rows
		},
	},
}

var phpPageRegex = regexp.MustCompile(`[a-z]+\.php`)

// lovd2BaseURL cuts a page name such as home.php off a LOVD2 URL.
func lovd2BaseURL(raw string) string {
	if loc := phpPageRegex.FindStringIndex(strings.ToLower(raw)); loc != nil {
		return raw[:loc[0]]
	}
	return withSlash(raw)
}

// lovd3BaseURL cuts a trailing genes/ listing off a LOVD3 URL.
func lovd3BaseURL(raw string) string {
	raw = withSlash(raw)
	if strings.HasSuffix(strings.ToLower(raw), "genes/") {
		raw = raw[:len(raw)-len("genes/")]
	}
	return raw
}

func withSlash(raw string) string {
	if strings.HasSuffix(raw, "/") {
		return raw
	}
	return raw + "/"
}
