package cleaner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/tidyset/internal/table"
)

func TestStandardizeName(t *testing.T) {
	tests := map[string]string{
		"Name":              "name",
		"  Total Sales  ":   "total_sales",
		"Unit\t \nPrice":    "unit_price",
		"already_clean":     "already_clean",
		"MiXeD Case Header": "mixed_case_header",
		"":                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, StandardizeName(in), "input %q", in)
	}
}

func TestMode(t *testing.T) {
	v, ok := mode([]table.Value{table.Text("b"), table.Text("a"), table.Text("a"), table.Text("b"), table.Missing()})
	require.True(t, ok)
	assert.Equal(t, "b", v.TextValue(), "ties go to the first value in row order")

	v, ok = mode([]table.Value{table.Number(1), table.Number(2), table.Number(2)})
	require.True(t, ok)
	assert.Equal(t, 2.0, v.Float())

	_, ok = mode([]table.Value{table.Missing(), table.Missing()})
	assert.False(t, ok)
}

func TestMeanStdMedian(t *testing.T) {
	m, sd, ok := meanStd([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.True(t, ok)
	assert.InDelta(t, 5.0, m, 1e-12)
	assert.InDelta(t, 2.0, sd, 1e-12, "population standard deviation")

	_, _, ok = meanStd(nil)
	assert.False(t, ok)

	med, ok := median([]float64{5, 1, 3})
	require.True(t, ok)
	assert.Equal(t, 3.0, med)
	med, _ = median([]float64{4, 1, 3, 2})
	assert.Equal(t, 2.5, med)

	_, ok = mean(nil)
	assert.False(t, ok)
}

func TestCountOutliersDegenerate(t *testing.T) {
	assert.Zero(t, countOutliers(nil, 3))
	assert.Zero(t, countOutliers([]float64{4, 4, 4}, 0.1))
	assert.Zero(t, countOutliers([]float64{1, math.MaxFloat64, -math.MaxFloat64}, 1))
}

func TestParseNumber(t *testing.T) {
	for _, s := range []string{"1", "-2", " 3.5 ", "1e3", "+7", "0.0"} {
		_, ok := ParseNumber(s)
		assert.True(t, ok, s)
	}
	for _, s := range []string{"", "a", "1,5", "NaN", "Inf", "-infinity", "1 2"} {
		_, ok := ParseNumber(s)
		assert.False(t, ok, s)
	}
}

func TestStagesThreadBuilder(t *testing.T) {
	tb, err := table.FromRecords([]string{"A B"}, [][]any{{"1"}, {nil}, {"1"}})
	require.NoError(t, err)

	b0 := NewReportBuilder()
	t1, b1 := StandardizeColumns(tb.Clone(), b0)
	t2, b2 := ImputeMissing(t1, b1, StrategyMean)
	t3, b3 := RemoveDuplicates(t2, b2)
	_, b4 := CoerceTypes(t3, b3)

	assert.Empty(t, b0.Stages(), "builders are values")
	assert.Equal(t, []string{StageColumnStandardization}, b1.Stages())
	assert.Equal(t, []string{
		StageColumnStandardization, StageMissingValues, StageDuplicatesRemoved, StageTypeConversions,
	}, b4.Stages())

	r := b4.Report()
	assert.Equal(t, ColumnCounts{{"a_b", 1}}, r.MissingValues)
	assert.Equal(t, 2, r.DuplicatesRemoved, "the imputed row duplicates the first")
	assert.Equal(t, []string{"a_b"}, r.TypeConversions)
	assert.Empty(t, b2.Report().TypeConversions)
}
