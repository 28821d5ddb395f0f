package pipeline

// Entry is one position of the assembled output: a data row or, when Row is
// nil, a separator.
type Entry struct {
	Row *EnrichedRow
}

// IsSeparator reports whether the entry is a blank separator.
func (e Entry) IsSeparator() bool {
	return e.Row == nil
}

// Block is one grouped subset ready for output.
type Block struct {
	Key     string
	Groups  int
	Entries []Entry
}

// Assemble partitions rows by key in first-seen order, keeps input order
// within each partition and follows every partition with one separator.
// Rows whose key is absent are left out. An empty input yields an empty
// block.
func Assemble(key string, rows []EnrichedRow, pick func(Derived) Field) Block {
	var order []string
	parts := make(map[string][]int)
	for i, r := range rows {
		f := pick(r.Derived)
		if !f.Present {
			continue
		}
		if _, seen := parts[f.Value]; !seen {
			order = append(order, f.Value)
		}
		parts[f.Value] = append(parts[f.Value], i)
	}

	b := Block{Key: key, Groups: len(order)}
	for _, k := range order {
		for _, i := range parts[k] {
			b.Entries = append(b.Entries, Entry{Row: &rows[i]})
		}
		b.Entries = append(b.Entries, Entry{})
	}
	return b
}

// ByUnit groups on unit_val.
func ByUnit(rows []EnrichedRow) Block {
	return Assemble("unit_val", rows, func(d Derived) Field { return d.UnitVal })
}

// ByRoutingInstance groups on routing_instance.
func ByRoutingInstance(rows []EnrichedRow) Block {
	return Assemble("routing_instance", rows, func(d Derived) Field { return d.RoutingInstance })
}
