package testutil

import (
	"testing"

	"github.com/auditops/cadence/pkg/tabular"
)

// NewTable builds a table from a header and raw cell strings, inferring
// cell types the same way workbook ingestion does. Rows shorter than the
// header leave the trailing columns missing.
func NewTable(t *testing.T, header []string, rows ...[]string) *tabular.Table {
	t.Helper()

	table := tabular.New(header...)
	for _, raw := range rows {
		if len(raw) > len(header) {
			t.Fatalf("row has %d cells for %d columns", len(raw), len(header))
		}
		row := make(tabular.Row, len(raw))
		for i, cell := range raw {
			v := tabular.Infer(cell)
			if !v.IsMissing() {
				row[header[i]] = v
			}
		}
		table.Append(row)
	}

	return table
}

// ARMTHeader is the raw ARMT column set used across pipeline tests.
//
//nolint:gochecknoglobals // shared test fixture
var ARMTHeader = []string{
	"program",
	"source_country",
	"include_destination_country",
	"parent_class",
	"child_class",
	"policy_name",
	"parent_score",
}

// OutflowHeader is the raw outflow column set used across pipeline tests.
//
//nolint:gochecknoglobals // shared test fixture
var OutflowHeader = []string{
	"root_cause",
	"root_cause_details",
	"short_description",
	"resolved_date",
	"resolution",
	"quantity",
	"vendor_id",
	"assigned_to_group",
}

// NewARMT builds an ARMT input table from raw cell strings.
func NewARMT(t *testing.T, rows ...[]string) *tabular.Table {
	t.Helper()
	return NewTable(t, ARMTHeader, rows...)
}

// NewOutflow builds an outflow input table from raw cell strings.
func NewOutflow(t *testing.T, rows ...[]string) *tabular.Table {
	t.Helper()
	return NewTable(t, OutflowHeader, rows...)
}
