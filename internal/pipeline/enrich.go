// Package pipeline implements the extraction, filtering and grouping of
// circuit description rows.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/spherical/circuit-extractor/internal/domain"
	"github.com/spherical/circuit-extractor/internal/extract"
	"github.com/spherical/circuit-extractor/internal/table"
)

// DefaultDescriptionColumn is the column the extractors read from.
const DefaultDescriptionColumn = "Description"

// ErrMissingColumn is returned when the description column is not in the
// input header.
var ErrMissingColumn = errors.New("required column not found")

// Field is an optional derived value. The zero Field is absent, which is not
// the same as a present empty string.
type Field struct {
	Value   string
	Present bool
}

func field(v string, ok bool) Field {
	return Field{Value: v, Present: ok}
}

// String renders absent fields as "".
func (f Field) String() string {
	if !f.Present {
		return ""
	}
	return f.Value
}

// Derived holds the five values extracted from one description.
type Derived struct {
	AE2Value        Field // instance keyword match
	OuterValue      Field // flexible outer keyword match
	UnitVal         Field
	InstanceVal     Field
	RoutingInstance Field
}

// EnrichedRow is an input row plus its derived values. Index is the row's
// position in the input table.
type EnrichedRow struct {
	Index   int
	Row     table.Row
	Derived Derived
}

// DerivedColumns names the derived values in their column order.
var DerivedColumns = []string{"ae2_value", "outer_value", "unit_val", "instance_val", "routing_instance"}

// Values returns the derived values in DerivedColumns order.
func (d Derived) Values() []Field {
	return []Field{d.AE2Value, d.OuterValue, d.UnitVal, d.InstanceVal, d.RoutingInstance}
}

// ProgressFunc is told how many rows have been enriched so far.
type ProgressFunc func(done, total int)

// Derive applies the five extractors to one description.
func Derive(m *extract.Matcher, description string) Derived {
	return Derived{
		AE2Value:        field(m.Instance(description)),
		OuterValue:      field(m.Outer(description)),
		UnitVal:         field(extract.ExtractUnit(description)),
		InstanceVal:     field(extract.ExtractInstanceName(description)),
		RoutingInstance: field(extract.ExtractRoutingInstance(description)),
	}
}

// Enrich derives fields for every row of t, in order. column names the
// description column; empty means DefaultDescriptionColumn.
func Enrich(t *table.Table, m *extract.Matcher, column string, progress ProgressFunc) ([]EnrichedRow, error) {
	if column == "" {
		column = DefaultDescriptionColumn
	}
	col := t.ColumnIndex(column)
	if col < 0 {
		return nil, domain.InputError(fmt.Sprintf("column %q", column), ErrMissingColumn)
	}

	rows := make([]EnrichedRow, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = EnrichedRow{
			Index:   i,
			Row:     row,
			Derived: Derive(m, t.Cell(i, col).String()),
		}
		if progress != nil {
			progress(i+1, len(t.Rows))
		}
	}
	return rows, nil
}
