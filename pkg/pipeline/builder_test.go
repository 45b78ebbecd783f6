package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auditops/cadence/internal/testutil"
	"github.com/auditops/cadence/pkg/node"
	"github.com/auditops/cadence/pkg/tabular"
)

func TestJSRFlag(t *testing.T) {
	assert.Equal(t, "Yes", jsrFlag(tabular.String("Safety_JSR")).Render())
	assert.Equal(t, "Yes", jsrFlag(tabular.String("Safety-JSR,Recall")).Render())
	assert.Equal(t, "No", jsrFlag(tabular.String("Safety")).Render())
	assert.Equal(t, "No", jsrFlag(tabular.Missing()).Render())
}

func TestRiskOf(t *testing.T) {
	assert.InDelta(t, 3.0, riskOf(tabular.Number(3)), 0.0001)
	assert.InDelta(t, 2.0, riskOf(tabular.String("2")), 0.0001)
	assert.InDelta(t, 1.0, riskOf(tabular.Missing()), 0.0001)
	assert.InDelta(t, 1.0, riskOf(tabular.String("high")), 0.0001)
}

func TestBuildCadenceComposite(t *testing.T) {
	p := newTestPipeline(t, node.BLR)

	armt := p.normalizeARMT(testutil.NewARMT(t,
		[]string{"AmazonGlobal", "US", "DE", "Electronics", "Cables", "Safety_JSR", "2"},
		[]string{"CrossListing", "UK", "FR", "Toys", "Blocks", "Recall", "5"},
	))
	outflow := p.normalizeOutflow(testutil.NewOutflow(t,
		[]string{"Mislabeled", `Electronics\\Detail`, "Cables: bad glue", "2024-03-15", `US-Electronics`, "5", "0", "Ops"},
	))
	nodes := p.enumerateNodes(armt)
	require.Equal(t, []string{"Electronics,Cables,US", "Toys,Blocks,UK-FR"}, nodes)

	got := p.buildCadence(nodes, armt, outflow)
	require.Equal(t, 2, got.Len())

	// Primary-keyed node: ARMT attributes under the primary columns.
	first := got.Rows[0]
	assert.Equal(t, "Electronics,Cables,US", first.Get(ColCombinedClasses).Render())
	assert.Equal(t, "AmazonGlobal", first.Get(ColProgram).Render())
	assert.Equal(t, "2", first.Get(ColRiskScore).Render())
	assert.Equal(t, "60", first.Get(ColCadenceScore).Render())
	assert.Equal(t, "Yes", first.Get(ColJSR).Render())
	// Outflow NC lands on the primary key.
	assert.Equal(t, "5", first.Get(ColNCCount).Render())
	assert.Equal(t, "2024-03-15", first.Get(ColResolvedDate).Render())

	// Secondary-keyed node: primary columns miss, secondary columns fill.
	second := got.Rows[1]
	assert.True(t, second.Get(ColProgram).IsMissing())
	assert.Equal(t, "CrossListing", second.Get(ColProgram+secondarySuffix).Render())
	assert.Equal(t, "365", second.Get(ColCadenceScore+secondarySuffix).Render())
	assert.True(t, second.Get(ColNCCount).IsMissing())
	// A missed primary risk lookup defaults to 1 and tier 30.
	assert.Equal(t, "1", second.Get(ColRiskScore).Render())
	assert.Equal(t, "30", second.Get(ColCadenceScore).Render())
}

func TestBuildCadenceByChild(t *testing.T) {
	p := newTestPipeline(t, node.GDN)

	armt := p.normalizeARMT(testutil.NewARMT(t,
		[]string{"AmazonGlobal", "DE", "DE", "Electronics", "Cables", "Safety", "3"},
	))
	outflow := p.normalizeOutflow(testutil.NewOutflow(t,
		[]string{"Mislabeled", `Electronics\\Detail`, "Cables: bad glue", "2024-03-15", "DE-Electronics", "4", "0", "Ops"},
	))
	nodes := p.enumerateNodes(armt)
	require.Equal(t, []string{"Cables"}, nodes)

	got := p.buildCadence(nodes, armt, outflow)
	require.Equal(t, 1, got.Len())

	row := got.Rows[0]
	assert.Equal(t, "Cables", row.Get(ColChildClassKey).Render())
	assert.Equal(t, "Electronics", row.Get(ColParentClasses).Render())
	assert.Equal(t, "3", row.Get(ColRiskScore).Render())
	assert.Equal(t, "90", row.Get(ColCadenceScore).Render())
	assert.Equal(t, "4", row.Get(ColNCCount).Render())
	assert.Equal(t, "2024-03-15", row.Get(ColResolvedDate).Render())

	// Single-key output carries no secondary columns.
	assert.False(t, got.HasColumn(ColProgram+secondarySuffix))
	assert.False(t, got.HasColumn(ColARC))
}
