package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/spherical/circuit-extractor/internal/domain"
	"github.com/spherical/circuit-extractor/internal/table"
)

// decodeCSV reads comma-separated input. Every non-empty field is a string
// cell; empty fields are absent. The table is as wide as the widest record.
func decodeCSV(r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, domain.InputError("read csv", err)
	}
	if len(records) == 0 {
		return nil, domain.InputError("csv input", ErrEmptySheet)
	}

	width := 0
	for _, record := range records {
		width = max(width, len(record))
	}
	header := make([]string, width)
	copy(header, records[0])

	t := table.New(headerNames(header)...)
	for _, record := range records[1:] {
		row := make(table.Row, width)
		for i, field := range record {
			if field != "" {
				row[i] = table.Text(field)
			}
		}
		t.Append(row)
	}

	return t, nil
}

func encodeCSV(t *table.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Columns); err != nil {
		return nil, domain.SerializationError("write csv header", err)
	}
	record := make([]string, len(t.Columns))
	for i, row := range t.Rows {
		for j := range record {
			record[j] = ""
			if j < len(row) {
				record[j] = row[j].String()
			}
		}
		// A lone empty field would be a blank line, which readers skip.
		if len(record) == 1 && record[0] == "" {
			w.Flush()
			buf.WriteString(`""` + "\n")
			continue
		}
		if err := w.Write(record); err != nil {
			return nil, domain.SerializationError(fmt.Sprintf("write csv row %d", i+1), err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, domain.SerializationError("flush csv", err)
	}
	return buf.Bytes(), nil
}
