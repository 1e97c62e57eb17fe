package observability

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RunSummary aggregates counters for one enrichment run.
type RunSummary struct {
	RunID        string
	OutputPath   string
	RowsWritten  int
	Resolved     int
	Reused       int
	Skipped      int
	Fetches      int
	CacheHits    int
	AuthFailures int
}

// RenderSummary prints the end-of-run table.
func RenderSummary(out io.Writer, s RunSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle("Run %s", s.RunID)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Rows written", s.RowsWritten},
		{"Names resolved", s.Resolved},
		{"Names reused", s.Reused},
		{"Rows skipped", s.Skipped},
		{"Fetches", s.Fetches},
		{"Cache hits", s.CacheHits},
		{"Auth failures", s.AuthFailures},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
