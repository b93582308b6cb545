// Package output writes the tab-delimited tables, logs and console
// summaries produced by extraction, remapping and validation.
package output

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// cellReplacer keeps cells on one line and in one column.
var cellReplacer = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

// TabWriter writes rows in tab-delimited format.
type TabWriter struct {
	w *bufio.Writer
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{w: bufio.NewWriter(w)}
}

// WriteRow writes a single row. Tabs and line breaks inside cells are
// replaced by spaces.
func (tw *TabWriter) WriteRow(cells ...string) error {
	for i, c := range cells {
		if i > 0 {
			if err := tw.w.WriteByte('\t'); err != nil {
				return err
			}
		}
		if _, err := tw.w.WriteString(cellReplacer.Replace(c)); err != nil {
			return err
		}
	}
	return tw.w.WriteByte('\n')
}

// WriteRows writes every row in order.
func (tw *TabWriter) WriteRows(rows [][]string) error {
	for _, row := range rows {
		if err := tw.WriteRow(row...); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

// WriteTableFile writes header followed by rows to path, replacing any
// existing file. A nil header writes no header row.
func WriteTableFile(path string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	tw := NewTabWriter(&buf)
	if header != nil {
		if err := tw.WriteRow(header...); err != nil {
			return err
		}
	}
	if err := tw.WriteRows(rows); err != nil {
		return err
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadTable reads a tab-delimited table. Blank lines are skipped.
func ReadTable(r io.Reader) ([][]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var rows [][]string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		rows = append(rows, strings.Split(line, "\t"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadTableFile reads the tab-delimited table at path.
func ReadTableFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// FindColumn returns the index of the first header containing search,
// compared case-insensitively with surrounding whitespace ignored, or -1.
func FindColumn(headers []string, search string) int {
	search = strings.ToLower(strings.TrimSpace(search))
	for i, h := range headers {
		if strings.Contains(strings.ToLower(strings.TrimSpace(h)), search) {
			return i
		}
	}
	return -1
}
