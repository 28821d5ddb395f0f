package pipeline

// Subsets are the three row selections derived from an enriched table.
type Subsets struct {
	// A holds rows where both keywords matched.
	A []EnrichedRow
	// B holds rows with an instance match whose unit appears in A.
	B []EnrichedRow
	// C holds rows whose routing instance names an instance found in B.
	C []EnrichedRow
}

// valueSet is a membership set of present values. Absent fields are never
// added and never found.
type valueSet map[string]struct{}

func collect(rows []EnrichedRow, pick func(Derived) Field) valueSet {
	set := make(valueSet, len(rows))
	for _, r := range rows {
		if f := pick(r.Derived); f.Present {
			set[f.Value] = struct{}{}
		}
	}
	return set
}

func (s valueSet) contains(f Field) bool {
	if !f.Present {
		return false
	}
	_, ok := s[f.Value]
	return ok
}

func selectRows(rows []EnrichedRow, keep func(Derived) bool) []EnrichedRow {
	var out []EnrichedRow
	for _, r := range rows {
		if keep(r.Derived) {
			out = append(out, r)
		}
	}
	return out
}

// Filter computes subsets A, B and C. B and C are re-queried over the full
// table, so B can include rows missing from A.
func Filter(rows []EnrichedRow) Subsets {
	var s Subsets

	s.A = selectRows(rows, func(d Derived) bool {
		return d.AE2Value.Present && d.OuterValue.Present
	})

	units := collect(s.A, func(d Derived) Field { return d.UnitVal })
	s.B = selectRows(rows, func(d Derived) bool {
		return d.AE2Value.Present && units.contains(d.UnitVal)
	})

	instances := collect(s.B, func(d Derived) Field { return d.InstanceVal })
	s.C = selectRows(rows, func(d Derived) bool {
		return instances.contains(d.RoutingInstance)
	})

	return s
}
