// Package render draws dashboard charts to PNG or SVG images.
//
// Two backends draw the same chart model: gonum/plot and go-chart.
//
//	r, err := render.New(render.BackendPlot, "png")
//	path, err := render.WriteFile(r, "out", chart)
package render
