package benchmark

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLatencySweep(t *testing.T) {
	table := loadTable(t)

	got, err := table.Sweep("_none_mtls_both", ColumnP90, LatencySweep())
	require.NoError(t, err)

	want := []SweepPoint{
		{Step: 2, Value: 2300},
		{Step: 4, Absent: true},
		{Step: 8, Absent: true},
		{Step: 16, Value: 4478},
		{Step: 32, Absent: true},
		{Step: 64, Absent: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Sweep mismatch (-want +got):\n%s", diff)
	}
}

func TestResourceSweep(t *testing.T) {
	table := loadTable(t)

	got, err := table.Sweep("_none_mtls_both", ColumnServerProxyMem, ResourceSweep())
	require.NoError(t, err)
	require.Len(t, got, len(DefaultQPS))

	assert.True(t, got[0].Absent, "null memory cell at 10 QPS")
	assert.Equal(t, 39.0, got[1].Value)
	assert.True(t, got[2].Absent)
	assert.Equal(t, 41.5, got[3].Value)

	_, err = table.Sweep("_none_mtls_both", ColumnServerProxyCPU, ResourceSweep())
	assert.ErrorIs(t, err, ErrNotNumeric)
}

func TestSweepQuery(t *testing.T) {
	q := LatencySweep().Query(3, "_both", ColumnP99)
	assert.Equal(t, Query{QPS: 1000, Threads: 16, LabelSuffix: "_both", Column: ColumnP99}, q)

	q = ResourceSweep().Query(0, "_both", ColumnServerProxyCPU)
	assert.Equal(t, Query{QPS: 10, Threads: 16, LabelSuffix: "_both", Column: ColumnServerProxyCPU}, q)
}

func TestSweepValidate(t *testing.T) {
	assert.NoError(t, LatencySweep().Validate())
	assert.NoError(t, ResourceSweep().Validate())

	assert.ErrorIs(t, Sweep{Axis: "threads", Steps: []float64{1}}.Validate(), ErrUnknownAxis)
	assert.Error(t, Sweep{Axis: AxisConnections}.Validate())
	assert.Error(t, Sweep{Axis: AxisConnections, Steps: []float64{1.5}, Fixed: 1000}.Validate())
	assert.Error(t, Sweep{Axis: AxisQPS, Steps: []float64{10}, Fixed: 0}.Validate())
}

func TestSweepLabels(t *testing.T) {
	assert.Equal(t, []string{"2", "4", "8", "16", "32", "64"}, LatencySweep().Labels())
	assert.Equal(t, []string{"0.5", "10"}, Sweep{Steps: []float64{0.5, 10}}.Labels())
}

func TestParseAxis(t *testing.T) {
	a, err := ParseAxis("qps")
	require.NoError(t, err)
	assert.Equal(t, AxisQPS, a)

	_, err = ParseAxis("QPS")
	assert.ErrorIs(t, err, ErrUnknownAxis)
}
