package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/auditops/cadence/internal/testutil"
	"github.com/auditops/cadence/pkg/node"
)

func TestEnumerateNodesComposite(t *testing.T) {
	p := newTestPipeline(t, node.BLR)

	armt := p.normalizeARMT(testutil.NewARMT(t,
		// Core source: primary key admitted.
		[]string{"AmazonGlobal", "US", "DE", "Electronics", "Cables", "Safety", "2"},
		// Non-core AmazonGlobal source: skipped.
		[]string{"AmazonGlobal", "DE", "DE", "Electronics", "Cables", "Safety", "2"},
		// Cross source: secondary (ARC) key admitted.
		[]string{"CrossListing", "UK", "FR", "Toys", "Blocks", "Safety", "3"},
		// Non-cross CrossListing source: skipped.
		[]string{"CrossListing", "PL", "FR", "Toys", "Blocks", "Safety", "3"},
		// Duplicate of the first row: deduplicated.
		[]string{"AmazonGlobal", "US", "DE", "Electronics", "Cables", "Recall", "2"},
	))

	nodes := p.enumerateNodes(armt)

	assert.Equal(t, []string{
		"Electronics,Cables,US",
		"Toys,Blocks,UK-FR",
	}, nodes)
}

func TestEnumerateNodesByChild(t *testing.T) {
	p := newTestPipeline(t, node.GDN)

	armt := p.normalizeARMT(testutil.NewARMT(t,
		// Core source: admitted by child class.
		[]string{"AmazonGlobal", "DE", "DE", "Electronics", "Cables", "Safety", "2"},
		// Non-core source: skipped.
		[]string{"AmazonGlobal", "US", "DE", "Toys", "Blocks", "Safety", "2"},
		// Cross destination with a non-excluded source: admitted.
		[]string{"CrossListing", "PL", "DE", "Garden", "Hoses", "Safety", "2"},
		// Cross destination with an excluded source: skipped.
		[]string{"CrossListing", "US", "DE", "Garden", "Rakes", "Safety", "2"},
	))

	nodes := p.enumerateNodes(armt)

	assert.Equal(t, []string{"Cables", "Hoses"}, nodes)
}

func TestEnumerateNodesEmpty(t *testing.T) {
	p := newTestPipeline(t, node.IAS)

	armt := p.normalizeARMT(testutil.NewARMT(t,
		[]string{"AmazonGlobal", "US", "DE", "Electronics", "Cables", "Safety", "2"},
	))

	assert.Empty(t, p.enumerateNodes(armt))
}
