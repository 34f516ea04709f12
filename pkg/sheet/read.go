package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// PlaceholderPrefix names blank header cells, matching the "Unnamed: <n>"
// columns spreadsheet tooling produces for the same situation.
const PlaceholderPrefix = "Unnamed"

// ReadOptions controls how raw bytes are split into a header and data rows.
// HeaderRow is the zero-based index of the header row; rows above it are ignored.
type ReadOptions struct {
	Format    Format
	HeaderRow int
}

// Read parses data into a Table. It fails with ErrUnreadable when the bytes are
// not a workbook or delimited text, and ErrNoHeader when there is no row at
// opts.HeaderRow. Individual cells are never interpreted.
func Read(data []byte, opts ReadOptions) (*Table, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrUnreadable)
	}

	format := opts.Format
	if format == "" {
		format = DetectFormat("", data)
	}

	var (
		records [][]string
		err     error
	)
	switch format {
	case XLSX:
		records, err = readXLSX(data)
	default:
		records, err = readCSV(data)
	}
	if err != nil {
		return nil, err
	}

	return build(records, opts.HeaderRow)
}

func build(records [][]string, headerRow int) (*Table, error) {
	if headerRow < 0 || headerRow >= len(records) {
		return nil, fmt.Errorf("%w: row %d of %d", ErrNoHeader, headerRow, len(records))
	}

	headers := headerNames(records[headerRow])
	if len(headers) == 0 {
		return nil, fmt.Errorf("%w: row %d is empty", ErrNoHeader, headerRow)
	}

	t := &Table{Headers: headers}
	for _, record := range records[headerRow+1:] {
		if blank(record) {
			continue
		}
		row := make(Row, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// headerNames stringifies the header record. Blank cells become placeholders and
// repeated names get ".1", ".2" suffixes so every column stays addressable.
// Trailing blank cells are dropped.
func headerNames(record []string) []string {
	last := len(record) - 1
	for last >= 0 && strings.TrimSpace(record[last]) == "" {
		last--
	}

	names := make([]string, 0, last+1)
	seen := make(map[string]int)
	for i := 0; i <= last; i++ {
		name := record[i]
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("%s: %d", PlaceholderPrefix, i)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}
		names = append(names, name)
	}
	return names
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadable)
	}

	// Raw values keep date cells as serial numbers, which ParseDate understands
	// regardless of the number format the author picked.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return rows, nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return nil, fmt.Errorf("%w: binary content", ErrUnreadable)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return records, nil
}
