// Package alert turns trend outliers into regression alerts.
package alert

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/sartorproj/perfdash/stats"
)

// DefaultCommitBase is the URL prefix of commit links.
const DefaultCommitBase = "https://github.com/istio/istio/commit/"

// Alert is one outlying benchmark result.
type Alert struct {
	Mode       string
	Percentile string
	Date       string
	Release    string
	Value      float64
	Severity   stats.Severity
	Commit     string
	CommitURL  string
}

// CommitSHA returns the hex commit suffix after the last "." of a release
// name, or "" when there is none.
//
//	CommitSHA("release-1.4.20200105-16.c6691c61f845") == "c6691c61f845"
func CommitSHA(release string) string {
	i := strings.LastIndexByte(release, '.')
	if i < 0 {
		return ""
	}
	sha := release[i+1:]
	if len(sha) < 7 || len(sha) > 40 {
		return ""
	}
	for _, c := range sha {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return ""
		}
	}
	return sha
}

// FromOutliers builds alerts for the outliers of one mode and percentile.
// An empty commitBase means DefaultCommitBase.
func FromOutliers(mode, percentile string, outliers []stats.Outlier, commitBase string) []Alert {
	if commitBase == "" {
		commitBase = DefaultCommitBase
	}
	alerts := make([]Alert, 0, len(outliers))
	for _, o := range outliers {
		a := Alert{
			Mode:       mode,
			Percentile: percentile,
			Date:       o.Date,
			Release:    o.Release,
			Value:      o.Value,
			Severity:   o.Severity,
			Commit:     CommitSHA(o.Release),
		}
		if a.Commit != "" {
			a.CommitURL = commitBase + a.Commit
		}
		alerts = append(alerts, a)
	}
	return alerts
}

// WriteTable prints alerts as a borderless table.
func WriteTable(w io.Writer, alerts []Alert) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"date", "mode", "percentile", "value", "severity", "release", "commit"})
	table.SetCaption(true, fmt.Sprintf("%d alerts", len(alerts)))
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	for _, a := range alerts {
		commit := a.CommitURL
		if commit == "" {
			commit = "-"
		}
		table.Append([]string{
			a.Date,
			a.Mode,
			a.Percentile,
			strconv.FormatFloat(a.Value, 'f', 3, 64),
			a.Severity.String(),
			a.Release,
			commit,
		})
	}
	table.Render()
}
