package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditops/cadence/pkg/node"
	"github.com/auditops/cadence/pkg/tabular"
)

func dueDateRow(score float64, nc, resolved, prevCad, prevDue tabular.Value) *tabular.Table {
	table := tabular.New(ColCadenceScore, ColNCCount, ColResolvedDate, ColPrevCadence, ColPrevDueDate)
	table.Append(tabular.Row{
		ColCadenceScore: tabular.Number(score),
		ColNCCount:      nc,
		ColResolvedDate: resolved,
		ColPrevCadence:  prevCad,
		ColPrevDueDate:  prevDue,
	})
	return table
}

func TestCalculateDueDates(t *testing.T) {
	p := newTestPipeline(t, node.BLR)

	tests := []struct {
		name     string
		table    *tabular.Table
		wantDue  string
		wantTier string
	}{
		{
			name:     "clean tier 60 due in 60 days",
			table:    dueDateRow(60, tabular.Number(5), tabular.String("2024-03-15"), tabular.Missing(), tabular.Missing()),
			wantDue:  "2024-05-14",
			wantTier: "60",
		},
		{
			name:     "high nc tier 60 due in 30 days",
			table:    dueDateRow(60, tabular.Number(12), tabular.String("2024-03-15"), tabular.Missing(), tabular.Missing()),
			wantDue:  "2024-04-14",
			wantTier: "60",
		},
		{
			name:     "tier 365 with high nc due in 180 days",
			table:    dueDateRow(365, tabular.Number(20), tabular.String("2024-01-01"), tabular.Missing(), tabular.Missing()),
			wantDue:  "2024-06-29",
			wantTier: "365",
		},
		{
			name:     "no resolved date leaves due missing",
			table:    dueDateRow(60, tabular.Number(5), tabular.Missing(), tabular.Missing(), tabular.Missing()),
			wantDue:  "not Found!",
			wantTier: "60",
		},
		{
			name:     "missing nc falls back to previous state",
			table:    dueDateRow(30, tabular.Missing(), tabular.String("2024-03-15"), tabular.String("60"), tabular.String("2024-03-15")),
			wantDue:  "2024-03-15",
			wantTier: "60",
		},
		{
			name:     "missing nc without previous state stays missing",
			table:    dueDateRow(30, tabular.Missing(), tabular.Missing(), tabular.Missing(), tabular.Missing()),
			wantDue:  "not Found!",
			wantTier: "30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.calculateDueDates(tt.table)
			require.Equal(t, 1, got.Len())

			row := got.Rows[0]
			assert.Equal(t, tt.wantDue, row.Get(ColDueDate).RenderDate())
			assert.Equal(t, tt.wantTier, row.Get(ColCadenceScore).Render())
		})
	}
}

func TestFinalizeComposite(t *testing.T) {
	p := newTestPipeline(t, node.BLR)

	table := tabular.New(
		ColCombinedClasses, ColRiskScore, ColCadenceScore, ColDueDate,
		ColProgram+secondarySuffix, ColCadenceScore+secondarySuffix,
	)
	table.Append(tabular.Row{
		ColCombinedClasses:                tabular.String("k"),
		ColRiskScore:                      tabular.Number(0),
		ColCadenceScore:                   tabular.Number(60.9),
		ColDueDate:                        tabular.String("2024-03-15"),
		ColProgram + secondarySuffix:      tabular.String("CrossListing"),
		ColCadenceScore + secondarySuffix: tabular.Number(90),
	})

	got := p.finalize(table)

	// Secondary working columns disappear from the output.
	assert.False(t, got.HasColumn(ColProgram+secondarySuffix))
	assert.False(t, got.HasColumn(ColCadenceScore+secondarySuffix))

	row := got.Rows[0]
	assert.Equal(t, "1", row.Get(ColRiskScore).Render())
	assert.Equal(t, "60", row.Get(ColCadenceScore).Render())
	assert.Equal(t, "2024-03-15", row.Get(ColDueDate).Render())
}

func TestFinalizeDefaultsUnparseableCadence(t *testing.T) {
	p := newTestPipeline(t, node.GDN)

	table := tabular.New(ColChildClassKey, ColRiskScore, ColCadenceScore, ColDueDate)
	table.Append(tabular.Row{
		ColChildClassKey: tabular.String("Cables"),
		ColRiskScore:     tabular.Number(3),
		ColCadenceScore:  tabular.String("unknown"),
		ColDueDate:       tabular.Missing(),
	})

	got := p.finalize(table)

	row := got.Rows[0]
	assert.Equal(t, "30", row.Get(ColCadenceScore).Render())
	assert.Equal(t, "3", row.Get(ColRiskScore).Render())
	assert.Equal(t, "not Found!", row.Get(ColDueDate).Render())
}
