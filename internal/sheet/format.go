// Package sheet decodes uploaded spreadsheets into tables and encodes tables
// back into downloadable artifacts.
package sheet

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spherical/circuit-extractor/internal/domain"
	"github.com/spherical/circuit-extractor/internal/table"
)

// Format is a supported tabular file format.
type Format string

const (
	XLSX Format = "xlsx"
	CSV  Format = "csv"
)

// XLSXContentType is the MIME type of Office Open XML workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CSVContentType is the MIME type of comma-separated values.
const CSVContentType = "text/csv"

var (
	// ErrUnsupportedFormat is returned for files that are neither xlsx nor csv.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEmptySheet is returned when the input has no header row.
	ErrEmptySheet = errors.New("sheet has no header row")
	// ErrUnserializableCell is returned when a cell cannot be written in its
	// declared kind.
	ErrUnserializableCell = errors.New("cell cannot be serialized")
)

// FormatFromFilename picks a format from the file extension.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return XLSX, nil
	case ".csv":
		return CSV, nil
	default:
		return "", domain.InputError(fmt.Sprintf("cannot read %q", name), ErrUnsupportedFormat)
	}
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type used when offering the file for download.
func (f Format) ContentType() string {
	if f == CSV {
		return CSVContentType
	}
	return XLSXContentType
}

// Options tune encoding.
type Options struct {
	// SheetName names the worksheet written to xlsx output.
	SheetName string
}

// Decode reads a table from r. The first row is the header.
func Decode(r io.Reader, format Format) (*table.Table, error) {
	switch format {
	case XLSX:
		return decodeXLSX(r)
	case CSV:
		return decodeCSV(r)
	default:
		return nil, domain.InputError(fmt.Sprintf("decode %q", format), ErrUnsupportedFormat)
	}
}

// Encode serializes t in the given format.
func Encode(t *table.Table, format Format, opts Options) ([]byte, error) {
	switch format {
	case XLSX:
		return encodeXLSX(t, opts)
	case CSV:
		return encodeCSV(t)
	default:
		return nil, domain.SerializationError(fmt.Sprintf("encode %q", format), ErrUnsupportedFormat)
	}
}

// headerNames fills blank header cells and disambiguates repeated names the
// way spreadsheet readers commonly do: "Unnamed: 3", "Name.1".
func headerNames(raw []string) []string {
	names := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		name := h
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		names[i] = name
	}
	return names
}
