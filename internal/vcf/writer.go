package vcf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// FileFormat is the VCF version written in the header.
const FileFormat = "VCFv4.0"

// ColumnHeader is the mandatory column header line.
const ColumnHeader = "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO"

// InfoTag declares an INFO tag in the header.
type InfoTag struct {
	ID          string
	Type        string // defaults to String
	Description string
}

// HeaderLine formats the ##INFO meta line for the tag.
func (t InfoTag) HeaderLine() string {
	typ := t.Type
	if typ == "" {
		typ = "String"
	}
	return fmt.Sprintf("##INFO=<ID=%s,Number=1,Type=%s,Description=\"%s\">", t.ID, typ, t.Description)
}

// Writer writes variants as an 8-column VCF.
type Writer struct {
	w    *bufio.Writer
	tags []InfoTag
}

// NewWriter creates a writer that declares tags in its header.
func NewWriter(w io.Writer, tags []InfoTag) *Writer {
	return &Writer{
		w:    bufio.NewWriter(w),
		tags: tags,
	}
}

// WriteHeader writes the file format line, one ##INFO line per tag and
// the column header.
func (vw *Writer) WriteHeader() error {
	lines := make([]string, 0, len(vw.tags)+2)
	lines = append(lines, "##fileformat="+FileFormat)
	for _, t := range vw.tags {
		lines = append(lines, t.HeaderLine())
	}
	lines = append(lines, ColumnHeader)

	for _, line := range lines {
		if _, err := vw.w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteHeaderLines writes header lines copied from another file. The
// column header is added if lines do not end with one.
func (vw *Writer) WriteHeaderLines(lines []string) error {
	if len(lines) == 0 || !strings.HasPrefix(lines[len(lines)-1], "#CHROM") {
		lines = append(lines[:len(lines):len(lines)], ColumnHeader)
	}
	for _, line := range lines {
		if _, err := vw.w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Write writes one data row. Empty fields are written as ".".
func (vw *Writer) Write(v *Variant) error {
	fields := []string{
		orMissing(v.Chrom), orMissing(v.Pos), orMissing(v.ID),
		orMissing(v.Ref), orMissing(v.Alt),
		orMissing(v.Qual), orMissing(v.Filter), orMissing(v.Info),
	}
	_, err := vw.w.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

// Flush writes any buffered data.
func (vw *Writer) Flush() error {
	return vw.w.Flush()
}

// FormatInfo builds an INFO column from tag/value pairs in tag order.
// Values are made VCF-safe: whitespace is removed and the delimiters
// ',', ';' and '|' are replaced with '&'.
func FormatInfo(tags []string, values map[string]string) string {
	entries := make([]string, 0, len(tags))
	for _, t := range tags {
		entries = append(entries, t+"="+SanitizeInfoValue(values[t]))
	}
	return strings.Join(entries, ";")
}

// SanitizeInfoValue makes a free-text value safe for an INFO column.
func SanitizeInfoValue(s string) string {
	return infoReplacer.Replace(s)
}

var infoReplacer = strings.NewReplacer(
	" ", "", "\t", "", "\n", "", "\r", "",
	",", "&", ";", "&", "|", "&",
)
