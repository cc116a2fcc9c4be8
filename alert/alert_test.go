package alert

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/perfdash/stats"
)

func TestCommitSHA(t *testing.T) {
	tests := []struct {
		release string
		want    string
	}{
		{"release-1.4.20200105-16.c6691c61f845791e58ab42ede6cd836da93aa63a", "c6691c61f845791e58ab42ede6cd836da93aa63a"},
		{"1.7-alpha.d0e07f6e430fd99554ccc3aee3be8a730cd8a226", "d0e07f6e430fd99554ccc3aee3be8a730cd8a226"},
		{"1.7-alpha.d0e07f6", "d0e07f6"},
		{"1.7.0", ""},
		{"master", ""},
		{"1.7-alpha.notahash", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CommitSHA(tt.release), tt.release)
	}
}

func TestFromOutliers(t *testing.T) {
	outliers := []stats.Outlier{
		{Value: 12.5, Date: "20200105", Release: "release-1.4.20200105-16.c6691c6", Severity: stats.Mild},
		{Value: 40, Date: "20200106", Release: "1.5.0", Severity: stats.Extreme},
	}

	alerts := FromOutliers("_none_mtls_both", "p90", outliers, "")
	require.Len(t, alerts, 2)

	assert.Equal(t, Alert{
		Mode:       "_none_mtls_both",
		Percentile: "p90",
		Date:       "20200105",
		Release:    "release-1.4.20200105-16.c6691c6",
		Value:      12.5,
		Severity:   stats.Mild,
		Commit:     "c6691c6",
		CommitURL:  DefaultCommitBase + "c6691c6",
	}, alerts[0])
	assert.Empty(t, alerts[1].Commit)
	assert.Empty(t, alerts[1].CommitURL)

	alerts = FromOutliers("_none_mtls_both", "p90", outliers[:1], "https://example.com/c/")
	assert.Equal(t, "https://example.com/c/c6691c6", alerts[0].CommitURL)

	assert.Empty(t, FromOutliers("m", "p99", nil, ""))
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, []Alert{
		{
			Mode:       "_none_mtls_both",
			Percentile: "p90",
			Date:       "20200105",
			Release:    "release-1.4.20200105-16.c6691c6",
			Value:      12.5,
			Severity:   stats.Mild,
			CommitURL:  DefaultCommitBase + "c6691c6",
		},
		{Mode: "_none_plaintext_both", Percentile: "p99", Date: "20200106", Value: 40, Severity: stats.Extreme},
	})

	out := buf.String()
	assert.Contains(t, out, "DATE")
	assert.Contains(t, out, "_none_mtls_both")
	assert.Contains(t, out, "12.500")
	assert.Contains(t, out, "mild")
	assert.Contains(t, out, "extreme")
	assert.Contains(t, out, DefaultCommitBase+"c6691c6")
	assert.Contains(t, out, "2 alerts")
}
