package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/circuit-extractor/internal/domain"
	"github.com/spherical/circuit-extractor/internal/extract"
	"github.com/spherical/circuit-extractor/internal/table"
)

// descriptions builds a two-column table: Name (row label) and Description.
func descriptions(descs ...string) *table.Table {
	t := table.New("Name", "Description")
	for i, d := range descs {
		t.Append(table.Row{table.Text(string(rune('a' + i))), table.Text(d)})
	}
	return t
}

func names(rows []EnrichedRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Row[0].Value
	}
	return out
}

func mustMatcher(t *testing.T, instance, outer string) *extract.Matcher {
	t.Helper()
	m, err := extract.NewMatcher(instance, outer)
	require.NoError(t, err)
	return m
}

func TestEnrich_DerivesAllFields(t *testing.T) {
	tbl := descriptions(`unit 5 description "ae2.5 - site" routing-instances VRF-X`)

	rows, err := Enrich(tbl, mustMatcher(t, "ae2", "unit 5"), "", nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	d := rows[0].Derived
	assert.Equal(t, Field{"ae2", true}, d.AE2Value)
	assert.Equal(t, Field{"unit 5", true}, d.OuterValue)
	assert.Equal(t, Field{"5", true}, d.UnitVal)
	assert.Equal(t, Field{"ae2.5", true}, d.InstanceVal)
	assert.Equal(t, Field{"VRF-X", true}, d.RoutingInstance)
}

func TestEnrich_PreservesOrderAndMissingCells(t *testing.T) {
	tbl := table.New("Description", "Other")
	tbl.Append(table.Row{table.Text("unit 9")})
	tbl.Append(table.Row{table.Empty(), table.Text("x")})
	tbl.Append(table.Row{table.Num("42")})

	var calls []int
	rows, err := Enrich(tbl, mustMatcher(t, "ae2", "outer 1"), "Description", func(done, total int) {
		assert.Equal(t, 3, total)
		calls = append(calls, done)
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	for i, r := range rows {
		assert.Equal(t, i, r.Index)
	}
	assert.Equal(t, Field{"9", true}, rows[0].Derived.UnitVal)
	assert.Equal(t, Derived{}, rows[1].Derived, "missing description derives nothing")
	assert.Equal(t, Derived{}, rows[2].Derived)
	assert.Equal(t, []int{1, 2, 3}, calls)
}

func TestEnrich_MissingColumn(t *testing.T) {
	tbl := table.New("Name", "description")

	_, err := Enrich(tbl, mustMatcher(t, "ae2", "outer"), "", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Equal(t, domain.ErrorTypeInput, domain.TypeOf(err))
	assert.Contains(t, err.Error(), `"Description"`)
}

func TestFilter_SubsetBReQueriesFullTable(t *testing.T) {
	tbl := descriptions(
		"ae2 unit 7 outer-1002", // a: in A and B
		"ae2 unit 7 no outer",   // b: only in B, shares unit 7
		"xe-0/0/1 unit 7",       // c: unit 7 but no instance match
		"ae2 unit 8",            // d: unit 8 not in A
	)
	rows, err := Enrich(tbl, mustMatcher(t, "ae2", "outer -1002"), "", nil)
	require.NoError(t, err)

	s := Filter(rows)
	assert.Equal(t, []string{"a"}, names(s.A))
	assert.Equal(t, []string{"a", "b"}, names(s.B))
}

func TestFilter_AbsentNeverMatchesAbsent(t *testing.T) {
	tbl := descriptions(
		"ae2 outer-1002 no unit here", // in A, unit absent
		"ae2 also no unit",            // unit absent: must not join B
	)
	rows, err := Enrich(tbl, mustMatcher(t, "ae2", "outer 1002"), "", nil)
	require.NoError(t, err)

	s := Filter(rows)
	assert.Len(t, s.A, 1)
	assert.Empty(t, s.B)
	assert.Empty(t, s.C)
}

func TestFilter_SubsetCByInstanceMembership(t *testing.T) {
	tbl := descriptions(
		`ae2 unit 5 outer 1002 description "CUST-A - primary"`,
		`set routing-instances CUST-A interface ae2.5`,
		`set routing-instances CUST-B interface ae3.5`,
		`set routing-instances CUST-A route-distinguisher 1:1`,
		`no routing here`,
	)
	rows, err := Enrich(tbl, mustMatcher(t, "ae2", "outer 1002"), "", nil)
	require.NoError(t, err)

	s := Filter(rows)
	assert.Equal(t, []string{"a"}, names(s.B))
	assert.Equal(t, []string{"b", "d"}, names(s.C))
}

func TestAssemble_SeparatorAfterEachGroup(t *testing.T) {
	tbl := descriptions(
		"ae2 unit 20 outer 1",
		"ae2 unit 10 outer 1",
		"ae2 unit 20",
		"ae2 unit 30 outer 1",
		"ae2 unit 10",
	)
	rows, err := Enrich(tbl, mustMatcher(t, "ae2", "outer 1"), "", nil)
	require.NoError(t, err)

	b := ByUnit(Filter(rows).B)
	assert.Equal(t, 3, b.Groups)

	var got []string
	separators := 0
	for _, e := range b.Entries {
		if e.IsSeparator() {
			separators++
			got = append(got, "-")
			continue
		}
		got = append(got, e.Row.Row[0].Value)
	}
	assert.Equal(t, 3, separators)
	// First-seen key order (20, 10, 30); input order inside a group.
	assert.Equal(t, []string{"a", "c", "-", "b", "e", "-", "d", "-"}, got)
}

func TestAssemble_EmptySubset(t *testing.T) {
	b := ByRoutingInstance(nil)
	assert.Zero(t, b.Groups)
	assert.Empty(t, b.Entries)
}

func TestAssemble_SkipsAbsentKeys(t *testing.T) {
	rows := []EnrichedRow{
		{Index: 0, Row: table.Row{table.Text("a")}, Derived: Derived{UnitVal: Field{"1", true}}},
		{Index: 1, Row: table.Row{table.Text("b")}},
	}
	b := ByUnit(rows)
	require.Len(t, b.Entries, 2)
	assert.Equal(t, "a", b.Entries[0].Row.Row[0].Value)
	assert.True(t, b.Entries[1].IsSeparator())
}

func TestRun_SingleRowScenario(t *testing.T) {
	tbl := descriptions(`unit 5 description "ae2.5 - site" routing-instances VRF-X`)

	res, err := Run(tbl, "ae2", "unit 5", Options{})
	require.NoError(t, err)

	assert.Len(t, res.Subsets.A, 1)
	assert.Len(t, res.Subsets.B, 1)
	assert.Empty(t, res.Subsets.C, "no row has routing_instance ae2.5")

	out := res.Table()
	assert.Equal(t, []string{"Name", "Description"}, out.Columns)
	require.Equal(t, 2, out.Len())
	assert.Equal(t, tbl.Rows[0], out.Rows[0])
	assert.True(t, out.Rows[1].IsSeparator())

	assert.Equal(t, Report{
		InputRows:  1,
		SubsetA:    1,
		SubsetB:    1,
		UnitGroups: 1,
		Separators: 1,
		OutputRows: 2,
	}, res.Report)
}

func TestRun_BlocksConcatenateBThenC(t *testing.T) {
	tbl := descriptions(
		`ae2 unit 5 outer 1002 description "VRF-A - edge"`,
		`routing-instances VRF-A interface ae2.5`,
		`ae2 unit 6 outer 1002 description "VRF-B - edge"`,
		`routing-instances VRF-B interface ae2.6`,
	)

	res, err := Run(tbl, "ae2", "outer 1002", Options{})
	require.NoError(t, err)

	out := res.Table()
	var got []string
	for _, r := range out.Rows {
		if r.IsSeparator() {
			got = append(got, "-")
			continue
		}
		got = append(got, r[0].Value)
	}
	// b and d match "ae2" but carry no unit, so they only arrive through C.
	assert.Equal(t, []string{"a", "-", "c", "-", "b", "-", "d", "-"}, got)
	assert.Equal(t, 4, res.Report.Separators)
	assert.Equal(t, 2, res.Report.RoutingGroups)
}

func TestRun_NoMatchesYieldsHeaderOnly(t *testing.T) {
	tbl := descriptions("xe-0/0/1 unit 1", "")

	res, err := Run(tbl, "ae2", "outer 1002", Options{})
	require.NoError(t, err)

	out := res.Table()
	assert.Equal(t, tbl.Columns, out.Columns)
	assert.Zero(t, out.Len())
	assert.Zero(t, res.Report.Separators)
}

func TestRun_Errors(t *testing.T) {
	_, err := Run(descriptions("ae2"), "", "outer", Options{})
	assert.ErrorIs(t, err, extract.ErrEmptyKeyword)

	_, err = Run(descriptions("ae2"), "ae2", "outer", Options{DescriptionColumn: "Desc"})
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), `"Desc"`)
}

func TestRun_Deterministic(t *testing.T) {
	tbl := descriptions(
		"ae2 unit 2 outer 1",
		"ae2 unit 1 outer 1",
		"ae2 unit 2",
		`ae2 unit 1 description "R1 - x"`,
		"routing-instances R1",
	)

	first, err := Run(tbl, "ae2", "outer 1", Options{})
	require.NoError(t, err)
	second, err := Run(tbl, "ae2", "outer 1", Options{})
	require.NoError(t, err)

	assert.Equal(t, first.Table(), second.Table())
	assert.Equal(t, first.Report, second.Report)
}

func TestResult_EnrichedTable(t *testing.T) {
	tbl := descriptions("ae2 unit 3 outer 7", "nothing")

	res, err := Run(tbl, "ae2", "outer 7", Options{})
	require.NoError(t, err)

	et := res.EnrichedTable()
	assert.Equal(t, []string{"Name", "Description",
		"ae2_value", "outer_value", "unit_val", "instance_val", "routing_instance"}, et.Columns)
	require.Equal(t, 2, et.Len())
	assert.Equal(t, table.Text("ae2"), et.Cell(0, 2))
	assert.Equal(t, table.Text("outer 7"), et.Cell(0, 3))
	assert.Equal(t, table.Text("3"), et.Cell(0, 4))
	assert.True(t, et.Cell(0, 5).IsAbsent())
	assert.True(t, et.Cell(1, 2).IsAbsent())
}
