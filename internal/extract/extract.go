package extract

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// Format is the closed set of supported document formats.
type Format int

const (
	FormatUnsupported Format = iota
	FormatText
	FormatCSV
	FormatExcel
	FormatDocx
	FormatPDF
)

// DetectFormat maps a filename extension onto a Format.
func DetectFormat(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return FormatText
	case ".csv":
		return FormatCSV
	case ".xlsx", ".xls":
		return FormatExcel
	case ".docx":
		return FormatDocx
	case ".pdf":
		return FormatPDF
	default:
		return FormatUnsupported
	}
}

// Options bound how much tabular content is rendered into text.
type Options struct {
	MaxTableRows    int
	MaxColumnValues int
}

// Extractor converts documents of the supported formats into plain text.
type Extractor struct {
	opts Options
}

// New constructs an Extractor with the given bounds.
func New(opts Options) *Extractor {
	return &Extractor{opts: opts}
}

// ErrUnsupportedFormat is returned for extensions outside the closed set.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ExtractText reads the file and returns its text content. Legitimately
// empty content yields an empty string and no error; hard I/O failures and
// corrupt files yield an error.
func (e *Extractor) ExtractText(path string) (string, error) {
	filename := filepath.Base(path)
	switch DetectFormat(filename) {
	case FormatText:
		return extractTxt(path)
	case FormatCSV:
		return e.extractCSV(path)
	case FormatExcel:
		return e.extractExcel(path)
	case FormatDocx:
		return extractDocx(path)
	case FormatPDF:
		return extractPDF(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}
}

// extractTxt reads plain text, decoding as UTF-8 with a Latin-1 fallback
// for legacy single-byte files.
func extractTxt(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return string(decoded), nil
}

func (e *Extractor) extractCSV(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows [][]string
	for len(rows) <= e.opts.MaxTableRows {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read csv %s: %w", filepath.Base(path), err)
		}
		rows = append(rows, record)
	}
	return e.tableToText(rows), nil
}

// extractExcel reads the first sheet only; workbooks routinely hide stale
// scratch sheets after the first.
func (e *Extractor) extractExcel(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("open workbook %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) > e.opts.MaxTableRows+1 {
		rows = rows[:e.opts.MaxTableRows+1]
	}
	return e.tableToText(rows), nil
}

// tableToText renders a header row plus data rows column-wise, one line per
// column: "name: v1, v2, ...". Only the first MaxColumnValues non-empty
// values per column are kept.
func (e *Extractor) tableToText(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	header := rows[0]
	var lines []string
	for col, name := range header {
		var values []string
		for _, row := range rows[1:] {
			if len(values) >= e.opts.MaxColumnValues {
				break
			}
			if col < len(row) && strings.TrimSpace(row[col]) != "" {
				values = append(values, strings.TrimSpace(row[col]))
			}
		}
		lines = append(lines, fmt.Sprintf("%s: %s", name, strings.Join(values, ", ")))
	}
	return strings.Join(lines, "\n")
}

// extractDocx pulls the character data out of word/document.xml, breaking
// lines on paragraph and br ends.
func extractDocx(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open docx %s: %w", filepath.Base(path), err)
	}
	defer zr.Close()

	var docFile *zip.File
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("docx %s: document.xml not found", filepath.Base(path))
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return stripDocxXML(string(raw)), nil
}

func stripDocxXML(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// extractPDF walks the document's plain text. Pages without extractable
// text contribute nothing rather than failing the document.
func extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf %s: %w", filepath.Base(path), err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
