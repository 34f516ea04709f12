// Package sheet reads and writes the loosely structured spreadsheet exports the
// tracker consumes. It is the single place where raw bytes become rows keyed by
// header text; it makes no attempt to interpret the headers themselves.
package sheet

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format identifies a tabular serialization.
type Format string

const (
	XLSX Format = "xlsx"
	CSV  Format = "csv"
)

const xlsxMagic = "PK\x03\x04"

// Row maps a header to its cell text. Absent headers read as "".
type Row map[string]string

// Table is a header row plus the data rows beneath it.
// Headers keeps source column order; duplicate or blank source headers are
// already disambiguated (see Read).
type Table struct {
	Headers []string
	Rows    []Row
}

// Get returns the cell for header in row i, or "" when either is missing.
func (t *Table) Get(i int, header string) string {
	if i < 0 || i >= len(t.Rows) {
		return ""
	}
	return t.Rows[i][header]
}

// ParseFormat resolves a format name such as "xlsx" or "csv".
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "xlsx", "xlsm", "xls":
		return XLSX, true
	case "csv", "txt":
		return CSV, true
	}
	return "", false
}

// DetectFormat picks a format from the filename extension, falling back to the
// zip signature every xlsx workbook starts with.
func DetectFormat(filename string, data []byte) Format {
	if f, ok := ParseFormat(filepath.Ext(filename)); ok {
		return f
	}
	if bytes.HasPrefix(data, []byte(xlsxMagic)) {
		return XLSX
	}
	return CSV
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	if f == CSV {
		return "csv"
	}
	return "xlsx"
}

// ContentType returns the MIME type used when serving the format.
func (f Format) ContentType() string {
	if f == CSV {
		return "text/csv; charset=utf-8"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Filename builds "<prefix>_<suffix>.<ext>". Characters that are unsafe in
// file names are replaced with underscores; an empty prefix becomes "all".
func Filename(prefix, suffix string, f Format) string {
	clean := strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, prefix)
	clean = strings.Trim(clean, " .")
	if clean == "" {
		clean = "all"
	}
	return clean + "_" + suffix + "." + f.Ext()
}
