package pipeline

import (
	"github.com/spherical/circuit-extractor/internal/extract"
	"github.com/spherical/circuit-extractor/internal/table"
)

// Options tune a pipeline run.
type Options struct {
	// DescriptionColumn defaults to DefaultDescriptionColumn.
	DescriptionColumn string
	// Progress, if set, is called after each row is enriched.
	Progress ProgressFunc
}

// Report summarizes a run.
type Report struct {
	InputRows     int `json:"inputRows"`
	SubsetA       int `json:"subsetA"`
	SubsetB       int `json:"subsetB"`
	SubsetC       int `json:"subsetC"`
	UnitGroups    int `json:"unitGroups"`
	RoutingGroups int `json:"routingGroups"`
	Separators    int `json:"separators"`
	OutputRows    int `json:"outputRows"`
}

// Result is the outcome of one run. It holds everything needed to render the
// output table or inspect intermediate values.
type Result struct {
	Columns  []string
	Enriched []EnrichedRow
	Subsets  Subsets
	Blocks   []Block
	Report   Report
}

// Run enriches t, filters it and assembles the grouped output: subset B by
// unit, then subset C by routing instance.
func Run(t *table.Table, instanceKeyword, outerKeyword string, opts Options) (*Result, error) {
	m, err := extract.NewMatcher(instanceKeyword, outerKeyword)
	if err != nil {
		return nil, err
	}

	enriched, err := Enrich(t, m, opts.DescriptionColumn, opts.Progress)
	if err != nil {
		return nil, err
	}

	subsets := Filter(enriched)
	blocks := []Block{
		ByUnit(subsets.B),
		ByRoutingInstance(subsets.C),
	}

	res := &Result{
		Columns:  t.Columns,
		Enriched: enriched,
		Subsets:  subsets,
		Blocks:   blocks,
	}
	res.Report = res.report()
	return res, nil
}

func (r *Result) report() Report {
	rep := Report{
		InputRows:     len(r.Enriched),
		SubsetA:       len(r.Subsets.A),
		SubsetB:       len(r.Subsets.B),
		SubsetC:       len(r.Subsets.C),
		UnitGroups:    r.Blocks[0].Groups,
		RoutingGroups: r.Blocks[1].Groups,
	}
	for _, b := range r.Blocks {
		for _, e := range b.Entries {
			if e.IsSeparator() {
				rep.Separators++
			}
			rep.OutputRows++
		}
	}
	return rep
}

// Entries returns the assembled output sequence, all blocks concatenated.
func (r *Result) Entries() []Entry {
	var out []Entry
	for _, b := range r.Blocks {
		out = append(out, b.Entries...)
	}
	return out
}
