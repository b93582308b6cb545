package vcf

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Parser reads variants from a VCF file.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	header     []string
	pending    string // first data line when the file has no #CHROM line
}

// NewParser creates a new VCF parser for the given file.
// Supports both plain VCF and gzipped VCF (.vcf.gz) files.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	p := &Parser{file: file}

	buf := make([]byte, 2)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read vcf header: %w", err)
	}

	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek vcf file: %w", err)
	}

	// gzip magic number (0x1f, 0x8b)
	if n == 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := &Parser{
		reader: bufio.NewReader(r),
	}

	if err := p.parseHeader(); err != nil {
		return nil, err
	}

	return p, nil
}

// parseHeader reads and stores header lines. Files produced by external
// annotators sometimes lack the #CHROM line; the first data line is then
// kept for Next.
func (p *Parser) parseHeader() error {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("read header: %w", err)
		}
		if line == "" && err == io.EOF {
			return nil
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")

		if strings.HasPrefix(line, "#") {
			p.header = append(p.header, line)
			if strings.HasPrefix(line, "#CHROM") || err == io.EOF {
				return nil
			}
			continue
		}

		if line != "" {
			p.pending = line
			return nil
		}
		if err == io.EOF {
			return nil
		}
	}
}

// Next reads the next variant from the VCF file.
// Returns nil, nil when there are no more variants.
func (p *Parser) Next() (*Variant, error) {
	if p.pending != "" {
		line := p.pending
		p.pending = ""
		return p.parseLine(line)
	}

	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read variant line: %w", err)
		}
		if line == "" && err == io.EOF {
			return nil, nil
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			if err == io.EOF {
				return nil, nil
			}
			continue
		}
		return p.parseLine(line)
	}
}

// parseLine parses a single VCF data line into a Variant.
func (p *Parser) parseLine(line string) (*Variant, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 8 {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected at least 8 columns, found %d", len(fields)),
		}
	}

	return &Variant{
		Chrom:  fields[0],
		Pos:    fields[1],
		ID:     fields[2],
		Ref:    fields[3],
		Alt:    fields[4],
		Qual:   fields[5],
		Filter: fields[6],
		Info:   fields[7],
	}, nil
}

// ReadAll reads every remaining variant.
func ReadAll(r VariantReader) ([]*Variant, error) {
	var out []*Variant
	for {
		v, err := r.Next()
		if err != nil {
			return out, err
		}
		if v == nil {
			return out, nil
		}
		out = append(out, v)
	}
}

// Header returns the VCF header lines.
func (p *Parser) Header() []string {
	return p.header
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseError represents an error during VCF parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}
