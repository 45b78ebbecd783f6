package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditops/cadence/internal/testutil"
	"github.com/auditops/cadence/pkg/node"
	"github.com/auditops/cadence/pkg/tabular"
)

func emptyMaster() *tabular.Table {
	return tabular.New(
		ColParentClasses, ColChildClasses, ColSource, ColARC,
		ColCadenceScore, ColDueDate, ColNCCount,
	)
}

func TestRunRejectsMissingInputs(t *testing.T) {
	p := newTestPipeline(t, node.BLR)

	result := p.Run(context.Background(), Inputs{}, "March 2024")

	assert.False(t, result.Success)
	assert.Equal(t, ErrMissingInput.Error(), result.Error)
	assert.NotEmpty(t, result.RunID)
}

func TestRunCanceledContext(t *testing.T) {
	p := newTestPipeline(t, node.BLR)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := p.Run(ctx, Inputs{
		ARMT:    testutil.NewARMT(t),
		Outflow: testutil.NewOutflow(t),
		Master:  emptyMaster(),
	}, "March 2024")

	assert.False(t, result.Success)
	assert.Equal(t, context.Canceled.Error(), result.Error)
}

func TestRunEmptyNodeUniverse(t *testing.T) {
	p := newTestPipeline(t, node.IAS)

	result := p.Run(context.Background(), Inputs{
		// No IAS geography in this ARMT extract.
		ARMT: testutil.NewARMT(t,
			[]string{"AmazonGlobal", "US", "DE", "Electronics", "Cables", "Safety", "2"},
		),
		Outflow: testutil.NewOutflow(t),
		Master:  emptyMaster(),
	}, "March 2024")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, ErrNoNodes.Error())
}

func TestRunFirstPeriod(t *testing.T) {
	p := newTestPipeline(t, node.BLR)

	// First ever run: no master history and no outflow hits for the node.
	result := p.Run(context.Background(), Inputs{
		ARMT: testutil.NewARMT(t,
			[]string{"AmazonGlobal", "US", "DE", "Electronics", "Cables", "Safety", "2"},
		),
		Outflow: testutil.NewOutflow(t),
		Master:  emptyMaster(),
	}, "March 2024")

	require.True(t, result.Success, "run failed: %s\n%s", result.Error, strings.Join(result.Logs, "\n"))
	require.Equal(t, 1, result.Cadence.Len())

	row := result.Cadence.Rows[0]
	assert.Equal(t, "Electronics,Cables,US", row.Get(ColCombinedClasses).Render())
	assert.Equal(t, "2", row.Get(ColRiskScore).Render())
	assert.Equal(t, "60", row.Get(ColCadenceScore).Render())
	assert.Equal(t, "not Found!", row.Get(ColNCCount).Render())
	assert.Equal(t, "not Found!", row.Get(ColDueDate).Render())
	assert.Equal(t, "No", row.Get(ColJSR).Render())

	// Secondary working columns never reach the output.
	for _, col := range result.Cadence.Columns {
		assert.False(t, strings.HasSuffix(col, secondarySuffix), "leaked column %s", col)
	}

	assert.Equal(t, 1, result.CadenceFiltered.Len())
	assert.NotNil(t, result.Master)
	assert.NotNil(t, result.ARMT)
	assert.NotEmpty(t, result.Logs)
}

func TestRunAppliesTransitionAndDueDate(t *testing.T) {
	p := newTestPipeline(t, node.BLR)

	armt := testutil.NewARMT(t,
		[]string{"AmazonGlobal", "US", "DE", "Electronics", "Cables", "Safety", "2"},
	)
	outflow := testutil.NewOutflow(t,
		// NC 12 for the node's composite key.
		[]string{"Mislabeled", `Electronics\\Detail`, "Cables: bad glue", "2024-03-15", `US-Electronics`, "12", "0", "Ops"},
	)
	master := testutil.NewTable(t,
		append([]string{}, emptyMaster().Columns...),
		// Previous period held tier 60 with a clean NC count.
		[]string{"Electronics", "Cables", "US", "US-DE", "60", "2024-02-01", "2"},
	)

	result := p.Run(context.Background(), Inputs{ARMT: armt, Outflow: outflow, Master: master}, "March 2024")
	require.True(t, result.Success, "run failed: %s", result.Error)
	require.Equal(t, 1, result.Cadence.Len())

	row := result.Cadence.Rows[0]
	// NC 12 at tier 60 demotes to 30, due 30 days after resolution.
	assert.Equal(t, "30", row.Get(ColCadenceScore).Render())
	assert.Equal(t, "2024-04-14", row.Get(ColDueDate).Render())
	assert.Equal(t, "12", row.Get(ColNCCount).Render())
}

func TestRunCarriesForwardWithoutSignal(t *testing.T) {
	p := newTestPipeline(t, node.BLR)

	armt := testutil.NewARMT(t,
		[]string{"AmazonGlobal", "US", "DE", "Electronics", "Cables", "Safety", "1"},
	)
	master := testutil.NewTable(t,
		append([]string{}, emptyMaster().Columns...),
		[]string{"Electronics", "Cables", "US", "US-DE", "90", "2024-03-20", ""},
	)

	result := p.Run(context.Background(), Inputs{ARMT: armt, Outflow: testutil.NewOutflow(t), Master: master}, "March 2024")
	require.True(t, result.Success, "run failed: %s", result.Error)

	row := result.Cadence.Rows[0]
	// No current NC: the previous cadence and due date carry forward.
	assert.Equal(t, "90", row.Get(ColCadenceScore).Render())
	assert.Equal(t, "2024-03-20", row.Get(ColDueDate).Render())
}

func TestRunGDNEndToEnd(t *testing.T) {
	p := newTestPipeline(t, node.GDN)

	armt := testutil.NewARMT(t,
		[]string{"AmazonGlobal", "DE", "DE", "Electronics", "Cables", "Safety", "3"},
		[]string{"CrossListing", "PL", "DE", "Garden", "Hoses", "Recall", "1"},
	)
	outflow := testutil.NewOutflow(t,
		[]string{"Mislabeled", `Electronics\\Detail`, "Cables: bad glue", "2024-03-10", "DE-Electronics", "4", "0", "Ops"},
	)
	master := testutil.NewTable(t,
		[]string{ColChildClassKey, ColCadenceScore, ColDueDate, ColNCCount},
		[]string{"Cables", "90", "2024-02-15", "1"},
	)

	result := p.Run(context.Background(), Inputs{ARMT: armt, Outflow: outflow, Master: master}, "March 2024")
	require.True(t, result.Success, "run failed: %s", result.Error)
	require.Equal(t, 2, result.Cadence.Len())

	byKey := result.Cadence.LookupBy(ColChildClassKey)

	cables := byKey["Cables"]
	require.NotNil(t, cables)
	// Tier 90, both periods clean, risk 3: promotion is gated, holds at 90.
	assert.Equal(t, "90", cables.Get(ColCadenceScore).Render())
	assert.Equal(t, "2024-06-08", cables.Get(ColDueDate).Render())

	hoses := byKey["Hoses"]
	require.NotNil(t, hoses)
	// No history, no signal: the risk-derived baseline stands.
	assert.Equal(t, "30", hoses.Get(ColCadenceScore).Render())
	assert.Equal(t, "not Found!", hoses.Get(ColDueDate).Render())
}

func TestRunDeterministic(t *testing.T) {
	p := newTestPipeline(t, node.BLR)

	inputs := func() Inputs {
		return Inputs{
			ARMT: testutil.NewARMT(t,
				[]string{"AmazonGlobal", "US, UK", "DE", "Electronics", "Cables", "Safety", "2"},
				[]string{"CrossListing", "SG", "DE, TR", "Toys", "Blocks", "Safety_JSR", "4"},
			),
			Outflow: testutil.NewOutflow(t,
				[]string{"Mislabeled", `Electronics\\Detail`, "Cables: bad glue", "2024-03-15", `US-Electronics`, "5", "0", "Ops"},
			),
			Master: emptyMaster(),
		}
	}

	a := p.Run(context.Background(), inputs(), "March 2024")
	b := p.Run(context.Background(), inputs(), "March 2024")
	require.True(t, a.Success)
	require.True(t, b.Success)

	require.Equal(t, a.Cadence.Len(), b.Cadence.Len())
	assert.Equal(t, a.Cadence.Columns, b.Cadence.Columns)
	for i := range a.Cadence.Rows {
		for _, col := range a.Cadence.Columns {
			assert.Equal(t,
				a.Cadence.Rows[i].Get(col).Render(),
				b.Cadence.Rows[i].Get(col).Render(),
				"row %d column %s", i, col)
		}
	}

	// Output invariants: unique keys, scores in the tier domain, risk >= 1.
	seen := make(map[string]struct{})
	for _, row := range a.Cadence.Rows {
		key := row.Get(ColCombinedClasses).Render()
		_, dup := seen[key]
		assert.False(t, dup, "duplicate key %s", key)
		seen[key] = struct{}{}

		score, ok := row.Get(ColCadenceScore).AsNumber()
		require.True(t, ok)
		assert.Contains(t, []float64{30, 60, 90, 180, 365}, score)

		risk, ok := row.Get(ColRiskScore).AsNumber()
		require.True(t, ok)
		assert.GreaterOrEqual(t, risk, 1.0)
	}
}
