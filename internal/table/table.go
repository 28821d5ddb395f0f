// Package table holds the in-memory tabular model shared by the sheet codec
// and the extraction pipeline.
package table

import "fmt"

// CellKind describes how a cell value was stored in the source sheet.
type CellKind int

const (
	// Absent marks a cell with no value. It is distinct from an empty string.
	Absent CellKind = iota
	String
	Number
	Bool
)

func (k CellKind) String() string {
	switch k {
	case Absent:
		return "absent"
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "bool"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// NumFmt is a spreadsheet number format: a built-in format ID or a custom
// format code. The zero value is the General format.
type NumFmt struct {
	ID   int
	Code string
}

// IsGeneral reports whether no explicit format is set.
func (f NumFmt) IsGeneral() bool {
	return f.ID == 0 && f.Code == ""
}

// Cell is a single spreadsheet value.
type Cell struct {
	Value string
	Kind  CellKind
	// Format is how a number cell is displayed, e.g. as a date.
	Format NumFmt
}

// Text returns a string cell.
func Text(v string) Cell {
	return Cell{Value: v, Kind: String}
}

// Num returns a number cell holding the textual form of the number.
func Num(v string) Cell {
	return Cell{Value: v, Kind: Number}
}

// WithFormat returns a copy of c displayed with f.
func (c Cell) WithFormat(f NumFmt) Cell {
	c.Format = f
	return c
}

// Empty returns an absent cell.
func Empty() Cell {
	return Cell{}
}

// IsAbsent reports whether the cell holds no value.
func (c Cell) IsAbsent() bool {
	return c.Kind == Absent
}

// String coerces the cell to text. Absent cells become "".
func (c Cell) String() string {
	if c.Kind == Absent {
		return ""
	}
	return c.Value
}

// Row is an ordered list of cells aligned with Table.Columns.
type Row []Cell

// IsSeparator reports whether every cell in the row is absent.
func (r Row) IsSeparator() bool {
	for _, c := range r {
		if !c.IsAbsent() {
			return false
		}
	}
	return true
}

// Table is a header row plus data rows.
type Table struct {
	Columns []string
	Rows    []Row
}

// New creates an empty table with the given header.
func New(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// ColumnIndex returns the position of the first column named exactly name,
// or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Append adds a row, padding or truncating it to the header width.
func (t *Table) Append(row Row) {
	t.Rows = append(t.Rows, t.normalize(row))
}

// AppendSeparator adds an all-absent row.
func (t *Table) AppendSeparator() {
	t.Rows = append(t.Rows, make(Row, len(t.Columns)))
}

// Len returns the number of rows, separators included.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Cell returns the cell at (row, col). Out-of-range positions are absent.
func (t *Table) Cell(row, col int) Cell {
	if row < 0 || row >= len(t.Rows) {
		return Cell{}
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return Cell{}
	}
	return r[col]
}

func (t *Table) normalize(row Row) Row {
	width := len(t.Columns)
	out := make(Row, width)
	copy(out, row)
	return out
}
