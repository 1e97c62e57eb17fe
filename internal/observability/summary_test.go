package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	RenderSummary(&buf, RunSummary{
		RunID:        "test-run",
		RowsWritten:  120,
		Resolved:     80,
		Reused:       30,
		Skipped:      2,
		Fetches:      85,
		CacheHits:    5,
		AuthFailures: 1,
	})

	out := buf.String()
	assert.Contains(t, out, "test-run")
	assert.Contains(t, out, "Rows written")
	assert.Contains(t, out, "120")
	assert.Contains(t, out, "Names resolved")
	assert.Contains(t, out, "80")
	assert.Contains(t, out, "Auth failures")
}
