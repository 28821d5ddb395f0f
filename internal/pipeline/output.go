package pipeline

import "github.com/spherical/circuit-extractor/internal/table"

// Table renders the assembled output with the input columns only. Derived
// values are dropped and row numbering restarts at zero.
func (r *Result) Table() *table.Table {
	out := table.New(r.Columns...)
	for _, e := range r.Entries() {
		if e.IsSeparator() {
			out.AppendSeparator()
			continue
		}
		out.Append(e.Row.Row)
	}
	return out
}

// EnrichedTable renders every input row with the derived values appended as
// extra columns. Absent values are absent cells.
func (r *Result) EnrichedTable() *table.Table {
	cols := append(append([]string{}, r.Columns...), DerivedColumns...)
	out := table.New(cols...)
	for _, e := range r.Enriched {
		row := make(table.Row, 0, len(cols))
		row = append(row, e.Row...)
		for len(row) < len(r.Columns) {
			row = append(row, table.Empty())
		}
		for _, f := range e.Derived.Values() {
			if f.Present {
				row = append(row, table.Text(f.Value))
			} else {
				row = append(row, table.Empty())
			}
		}
		out.Append(row)
	}
	return out
}
