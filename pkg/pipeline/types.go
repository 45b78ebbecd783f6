// Package pipeline implements the per-node cadence computation: input
// normalization, node enumeration, lookup joins, the score transition
// engine, and due-date derivation. One implementation serves all node
// variants, parameterized by a node.Config.
package pipeline

import (
	"github.com/auditops/cadence/pkg/tabular"
)

// Raw input column names.
const (
	colSourceCountry   = "source_country"
	colDestCountry     = "include_destination_country"
	colParentClass     = "parent_class"
	colChildClass      = "child_class"
	colProgram         = "program"
	colPolicyName      = "policy_name"
	colParentScore     = "parent_score"
	colRootCause       = "root_cause"
	colRootCauseDetail = "root_cause_details"
	colShortDesc       = "short_description"
	colResolvedDate    = "resolved_date"
	colResolution      = "resolution"
	colQuantity        = "quantity"
	colVendorID        = "vendor_id"
	colAssignedGroup   = "assigned_to_group"
)

// Derived working column names.
const (
	colSource       = "Source"
	colDestination  = "Destination"
	colARC          = "ARC"
	colKey          = "combined_class"
	colKey2         = "combined_class2"
	colNC           = "NC"
	colResolvedNorm = "Resolved date"
	colOutflowSrc   = "source"
)

// Output column names.
const (
	ColCombinedClasses = "Combined Classes"
	ColChildClassKey   = "child_class"
	ColProgram         = "program"
	ColPolicies        = "Policies"
	ColChildClasses    = "Child Classes"
	ColParentClasses   = "Parent Classes"
	ColSource          = "Source"
	ColDestination     = "Destination"
	ColARC             = "ARC"
	ColRiskScore       = "risk score"
	ColResolvedDate    = "Resolved Date"
	ColRootCause       = "Root Cause"
	ColNCCount         = "NC Count"
	ColCadenceScore    = "Cadence Score"
	ColJSR             = "JSR"
	ColPrevCadence     = "Previous Cadence"
	ColPrevDueDate     = "Previous Due Date"
	ColPrevNC          = "Previous NC"
	ColDueDate         = "Due Date"
)

// secondarySuffix marks the ARC-keyed counterpart of a primary column.
const secondarySuffix = "2"

// Program names recognized during normalization.
const (
	programAmazonGlobal = "AmazonGlobal"
	programCrossListing = "CrossListing"
)

// someDestinations marks a collapsed multi-value destination field.
const someDestinations = "SOME"

// noChildClass marks rows whose child class duplicates the parent class.
const noChildClass = "No-Child"

// Inputs holds the three tables read at the start of a run.
type Inputs struct {
	ARMT    *tabular.Table
	Outflow *tabular.Table
	Master  *tabular.Table
}

// Result is the outcome of one pipeline run.
type Result struct {
	Success bool
	Error   string
	Node    string
	Period  string
	RunID   string
	Logs    []string

	// Cadence is the finalized output table; CadenceFiltered drops rows
	// without a positive cadence score. Master and ARMT are passthrough
	// copies of the normalized inputs for audit download.
	Cadence         *tabular.Table
	CadenceFiltered *tabular.Table
	Master          *tabular.Table
	ARMT            *tabular.Table
}

// normalized carries the outputs of the normalization stage.
type normalized struct {
	armt     *tabular.Table
	outflow  *tabular.Table
	ncByKey  map[string]float64
	ncByKey2 map[string]float64
}

// StatusFunc receives human-readable progress strings during a run.
type StatusFunc func(message string)
