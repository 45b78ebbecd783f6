package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditops/cadence/pkg/pipeline"
	"github.com/auditops/cadence/pkg/tabular"
)

func scoreTable(scores ...int) *tabular.Table {
	table := tabular.New(pipeline.ColCadenceScore)
	for _, s := range scores {
		table.Append(tabular.Row{pipeline.ColCadenceScore: tabular.Number(float64(s))})
	}
	return table
}

func TestRenderSuccess(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	cadence := scoreTable(30, 30, 60, 365)
	result := &pipeline.Result{
		Success:         true,
		Node:            "BLR",
		Period:          "March 2024",
		RunID:           "0d9f2c11-1111-2222-3333-444455556666",
		Cadence:         cadence,
		CadenceFiltered: cadence,
	}

	out, err := renderer.Render(result)
	require.NoError(t, err)

	assert.Contains(t, out, "0d9f2c11")
	assert.Contains(t, out, "BLR, March 2024")
	assert.Contains(t, out, "Status: success")
	assert.Contains(t, out, "Records: 4 total, 4 valid")
	assert.Contains(t, out, " 30d: ## 2")
	assert.Contains(t, out, "365d: # 1")
}

func TestRenderFailure(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	out, err := renderer.Render(&pipeline.Result{
		Node:   "GDN",
		Period: "March 2024",
		RunID:  "aaaabbbb-0000-0000-0000-000000000000",
		Error:  "no nodes enumerated",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "Status: failed - no nodes enumerated")
	assert.NotContains(t, out, "Records:")
}
