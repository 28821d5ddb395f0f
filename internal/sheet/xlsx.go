package sheet

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/spherical/circuit-extractor/internal/domain"
	"github.com/spherical/circuit-extractor/internal/table"
)

const defaultSheetName = "Sheet1"

// decodeXLSX reads the first worksheet of a workbook.
func decodeXLSX(r io.Reader) (*table.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, domain.InputError("open workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.InputError("workbook has no worksheets", ErrEmptySheet)
	}
	name := sheets[0]

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, domain.InputError(fmt.Sprintf("read worksheet %q", name), err)
	}

	// Trailing blank header cells are trimmed by the reader; data under them
	// still needs a column.
	width := 0
	for _, raw := range rows {
		width = max(width, len(raw))
	}
	if len(rows) == 0 || width == 0 {
		return nil, domain.InputError(fmt.Sprintf("worksheet %q", name), ErrEmptySheet)
	}
	header := make([]string, width)
	copy(header, rows[0])

	t := table.New(headerNames(header)...)
	for i, raw := range rows[1:] {
		row := make(table.Row, width)
		for j, value := range raw {
			cell, err := readXLSXCell(f, name, j+1, i+2, value)
			if err != nil {
				return nil, err
			}
			row[j] = cell
		}
		t.Append(row)
	}

	return t, nil
}

func readXLSXCell(f *excelize.File, sheetName string, col, row int, value string) (table.Cell, error) {
	if value == "" {
		return table.Empty(), nil
	}

	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return table.Cell{}, domain.InputError("cell reference", err)
	}
	typ, err := f.GetCellType(sheetName, ref)
	if err != nil {
		return table.Cell{}, domain.InputError(fmt.Sprintf("cell %s type", ref), err)
	}

	switch typ {
	case excelize.CellTypeBool:
		return table.Cell{Value: value, Kind: table.Bool}, nil
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeDate:
		if _, err := strconv.ParseFloat(value, 64); err == nil {
			format, err := readNumFmt(f, sheetName, ref)
			if err != nil {
				return table.Cell{}, err
			}
			return table.Num(value).WithFormat(format), nil
		}
	}
	return table.Text(value), nil
}

// readNumFmt returns the number format of the cell's style, so dates and
// percentages keep their display.
func readNumFmt(f *excelize.File, sheetName, ref string) (table.NumFmt, error) {
	styleID, err := f.GetCellStyle(sheetName, ref)
	if err != nil {
		return table.NumFmt{}, domain.InputError(fmt.Sprintf("cell %s style", ref), err)
	}
	if styleID == 0 {
		return table.NumFmt{}, nil
	}
	style, err := f.GetStyle(styleID)
	if err != nil {
		return table.NumFmt{}, domain.InputError(fmt.Sprintf("cell %s style", ref), err)
	}
	if style.CustomNumFmt != nil && *style.CustomNumFmt != "" {
		return table.NumFmt{Code: *style.CustomNumFmt}, nil
	}
	return table.NumFmt{ID: style.NumFmt}, nil
}

// encodeXLSX writes the header and rows through a stream writer. Absent
// cells are left out, so separator rows come out blank.
func encodeXLSX(t *table.Table, opts Options) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := opts.SheetName
	if sheetName == "" {
		sheetName = defaultSheetName
	}
	if sheetName != defaultSheetName {
		if err := f.SetSheetName(defaultSheetName, sheetName); err != nil {
			return nil, domain.SerializationError(fmt.Sprintf("name worksheet %q", sheetName), err)
		}
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return nil, domain.SerializationError("open stream writer", err)
	}

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return nil, domain.SerializationError("write header", err)
	}

	styles := make(map[table.NumFmt]int)
	for i, row := range t.Rows {
		values := make([]interface{}, len(t.Columns))
		for j := 0; j < len(row) && j < len(values); j++ {
			v, err := xlsxValue(row[j])
			if err != nil {
				return nil, domain.SerializationError(
					fmt.Sprintf("row %d column %q", i+1, t.Columns[j]), err)
			}
			if v != nil && !row[j].Format.IsGeneral() {
				styleID, err := numFmtStyle(f, styles, row[j].Format)
				if err != nil {
					return nil, domain.SerializationError(
						fmt.Sprintf("row %d column %q format", i+1, t.Columns[j]), err)
				}
				v = excelize.Cell{StyleID: styleID, Value: v}
			}
			values[j] = v
		}
		ref, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, domain.SerializationError("cell reference", err)
		}
		if err := sw.SetRow(ref, values); err != nil {
			return nil, domain.SerializationError(fmt.Sprintf("write row %d", i+1), err)
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, domain.SerializationError("flush worksheet", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, domain.SerializationError("write workbook", err)
	}
	return buf.Bytes(), nil
}

// numFmtStyle returns a style carrying format, creating it on first use.
func numFmtStyle(f *excelize.File, styles map[table.NumFmt]int, format table.NumFmt) (int, error) {
	if id, ok := styles[format]; ok {
		return id, nil
	}
	style := &excelize.Style{NumFmt: format.ID}
	if format.Code != "" {
		code := format.Code
		style = &excelize.Style{CustomNumFmt: &code}
	}
	id, err := f.NewStyle(style)
	if err != nil {
		return 0, err
	}
	styles[format] = id
	return id, nil
}

func xlsxValue(c table.Cell) (interface{}, error) {
	switch c.Kind {
	case table.Absent:
		return nil, nil
	case table.String:
		return c.Value, nil
	case table.Number:
		n, err := strconv.ParseFloat(c.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrUnserializableCell, c.Value)
		}
		return n, nil
	case table.Bool:
		switch c.Value {
		case "1", "TRUE", "true":
			return true, nil
		case "0", "FALSE", "false":
			return false, nil
		}
		return nil, fmt.Errorf("%w: %q is not a boolean", ErrUnserializableCell, c.Value)
	default:
		return nil, fmt.Errorf("%w: unknown kind %s", ErrUnserializableCell, c.Kind)
	}
}
