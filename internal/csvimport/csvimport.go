// Package csvimport reads the menu price list exported from the café's
// spreadsheet. Expected columns: Kategorija, Naziv artikla, Cena (RSD).
package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var ErrHeader = errors.New("CSV zaglavlje nije prepoznato. Očekujem: Kategorija, Naziv artikla, Cena (RSD)")

const bom = "\ufeff"

type Row struct {
	Category string          `json:"category"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
}

type columns struct {
	category, name, price int
}

// Delimiter picks ';' when the first line holds more semicolons than
// commas.
func Delimiter(firstLine string) rune {
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		return ';'
	}
	return ','
}

func Parse(text string) ([]Row, error) {
	text = strings.TrimPrefix(text, bom)
	text = strings.ReplaceAll(text, "\r\n", "\n")

	lines := make([]string, 0, strings.Count(text, "\n")+1)
	for _, ln := range strings.Split(text, "\n") {
		if strings.TrimSpace(ln) != "" {
			lines = append(lines, ln)
		}
	}
	if len(lines) == 0 {
		return nil, ErrHeader
	}

	r := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	r.Comma = Delimiter(lines[0])
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return fromRecords(records)
}

func ParseReader(rd io.Reader) ([]Row, error) {
	b, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return Parse(string(b))
}

// ParseXLSX reads the first worksheet of a workbook with the same header
// rules as the CSV form.
func ParseXLSX(rd io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(rd)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrHeader
	}
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read xlsx rows: %w", err)
	}

	nonEmpty := records[:0]
	for _, rec := range records {
		if strings.TrimSpace(strings.Join(rec, "")) != "" {
			nonEmpty = append(nonEmpty, rec)
		}
	}
	return fromRecords(nonEmpty)
}

// Sniff dispatches on the zip magic so uploads need no content type.
func Sniff(data []byte) ([]Row, error) {
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return ParseXLSX(bytes.NewReader(data))
	}
	return Parse(string(data))
}

func fromRecords(records [][]string) ([]Row, error) {
	if len(records) == 0 {
		return nil, ErrHeader
	}
	cols, ok := resolveHeader(records[0])
	if !ok {
		return nil, ErrHeader
	}

	out := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		name := field(rec, cols.name)
		if name == "" {
			continue
		}
		out = append(out, Row{
			Category: field(rec, cols.category),
			Name:     name,
			Price:    ParsePrice(field(rec, cols.price)),
		})
	}
	return out, nil
}

func resolveHeader(header []string) (columns, bool) {
	cols := columns{-1, -1, -1}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, bom)))
		switch {
		case h == "kategorija" && cols.category < 0:
			cols.category = i
		case h == "naziv artikla" && cols.name < 0:
			cols.name = i
		case strings.Contains(h, "cena") && cols.price < 0:
			cols.price = i
		}
	}
	return cols, cols.category >= 0 && cols.name >= 0 && cols.price >= 0
}

func field(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

// ParsePrice accepts "120", "120.50", "120,50", "1.200,50" and a trailing
// currency. Anything unreadable or negative becomes zero.
func ParsePrice(s string) decimal.Decimal {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, "RSD")
	s = strings.TrimSuffix(s, "DIN")
	s = strings.NewReplacer(" ", "", "\u00a0", "").Replace(s)
	if s == "" {
		return decimal.Zero
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
