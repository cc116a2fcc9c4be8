// Package dashboard holds the chart configuration table and the generic
// chart builder.
//
// Charts are declared in YAML and keyed by kind, metric, percentile and
// environment:
//
//	charts:
//	  - id: latency-p90-release
//	    kind: sweep
//	    metric: latency
//	    percentile: p90
//	    environment: release
//	    series:
//	      - label: baseline
//	        mode: _none_mtls_baseline
//	      - label: both
//	        mode: _none_mtls_both
//
// A Builder reads sweeps and trend series from a Source and produces
// renderer-independent charts:
//
//	cfg, err := dashboard.LoadConfig("dashboard.yaml")
//	b := dashboard.NewBuilder(dataset, log)
//	charts := b.BuildAll(cfg)
package dashboard
