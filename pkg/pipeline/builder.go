package pipeline

import (
	"strings"

	"github.com/auditops/cadence/pkg/tabular"
)

// jsrFlag derives the JSR policy-category flag from a naming convention
// in policy names.
func jsrFlag(policies tabular.Value) tabular.Value {
	s := policies.Render()
	if strings.Contains(s, "_JSR") || strings.Contains(s, "-JSR") {
		return tabular.String("Yes")
	}
	return tabular.String("No")
}

// riskOf coerces a looked-up risk score, defaulting to 1 when the lookup
// missed or the cell is not numeric.
func riskOf(v tabular.Value) float64 {
	if n, ok := v.AsNumber(); ok {
		return n
	}
	return DefaultRiskScore
}

// lookupVal fetches col from the indexed row for key, or missing when the
// lookup misses. Missing is a first-class value downstream, never a nil.
func lookupVal(lookup map[string]tabular.Row, key, col string) tabular.Value {
	if row, ok := lookup[key]; ok {
		return row.Get(col)
	}
	return tabular.Missing()
}

// ncVal fetches the aggregated NC sum for key, or missing.
func ncVal(sums map[string]float64, key string) tabular.Value {
	if n, ok := sums[key]; ok {
		return tabular.Number(n)
	}
	return tabular.Missing()
}

// buildCadence left-joins ARMT and outflow attributes onto the node
// universe, producing one row per node key with risk score, NC count, and
// the initial risk-derived cadence score.
func (p *Pipeline) buildCadence(nodes []string, armt *tabular.Table, n *normalized) *tabular.Table {
	p.statusf("Creating %s Cadence dataframe...", p.cfg.Name)
	p.statusf("   Processing %d records...", len(nodes))

	if p.cfg.GroupByChild {
		return p.buildCadenceByChild(nodes, armt, n)
	}
	return p.buildCadenceComposite(nodes, armt, n)
}

// buildCadenceComposite populates each node row twice: once from the
// primary composite key and once from the secondary (ARC-based) key. The
// master-merge stage later reconciles the pairs, preferring primary.
func (p *Pipeline) buildCadenceComposite(nodes []string, armt *tabular.Table, n *normalized) *tabular.Table {
	p.statusf("   Building lookup tables...")
	armt1 := armt.LookupBy(colKey)
	armt2 := armt.LookupBy(colKey2)
	outflow1 := n.outflow.LookupBy(colKey)
	outflow2 := n.outflow.LookupBy(colKey2)

	sec := func(col string) string { return col + secondarySuffix }

	out := tabular.New(
		ColCombinedClasses,
		ColProgram, ColPolicies, ColChildClasses, ColParentClasses,
		ColSource, ColDestination, ColARC, ColRiskScore,
		sec(ColProgram), sec(ColPolicies), sec(ColChildClasses), sec(ColParentClasses),
		sec(ColSource), sec(ColDestination), sec(ColARC), sec(ColRiskScore),
		ColResolvedDate, ColRootCause, sec(ColResolvedDate), sec(ColRootCause),
		ColNCCount, sec(ColNCCount),
		ColCadenceScore, sec(ColCadenceScore), ColJSR,
	)

	p.statusf("   Applying lookups...")
	for _, key := range nodes {
		row := tabular.Row{ColCombinedClasses: tabular.String(key)}

		row[ColProgram] = lookupVal(armt1, key, colProgram)
		row[ColPolicies] = lookupVal(armt1, key, colPolicyName)
		row[ColChildClasses] = lookupVal(armt1, key, colChildClass)
		row[ColParentClasses] = lookupVal(armt1, key, colParentClass)
		row[ColSource] = lookupVal(armt1, key, colSource)
		row[ColDestination] = lookupVal(armt1, key, colDestination)
		row[ColARC] = lookupVal(armt1, key, colARC)
		risk := riskOf(lookupVal(armt1, key, colParentScore))
		row[ColRiskScore] = tabular.Number(risk)

		row[sec(ColProgram)] = lookupVal(armt2, key, colProgram)
		row[sec(ColPolicies)] = lookupVal(armt2, key, colPolicyName)
		row[sec(ColChildClasses)] = lookupVal(armt2, key, colChildClass)
		row[sec(ColParentClasses)] = lookupVal(armt2, key, colParentClass)
		row[sec(ColSource)] = lookupVal(armt2, key, colSource)
		row[sec(ColDestination)] = lookupVal(armt2, key, colDestination)
		row[sec(ColARC)] = lookupVal(armt2, key, colARC)
		risk2 := riskOf(lookupVal(armt2, key, colParentScore))
		row[sec(ColRiskScore)] = tabular.Number(risk2)

		row[ColResolvedDate] = tabular.String(lookupVal(outflow1, key, colResolvedNorm).RenderDate())
		row[ColRootCause] = lookupVal(outflow1, key, colRootCause)
		row[sec(ColResolvedDate)] = tabular.String(lookupVal(outflow2, key, colResolvedNorm).RenderDate())
		row[sec(ColRootCause)] = lookupVal(outflow2, key, colRootCause)

		row[ColNCCount] = ncVal(n.ncByKey, key)
		row[sec(ColNCCount)] = ncVal(n.ncByKey2, key)

		row[ColCadenceScore] = tabular.Number(float64(cadenceForRisk(risk)))
		row[sec(ColCadenceScore)] = tabular.Number(float64(cadenceForRisk(risk2)))
		row[ColJSR] = jsrFlag(row[ColPolicies])

		out.Append(row)
	}

	p.statusf("%s Cadence created: %d records", p.cfg.Name, out.Len())
	return out
}

// buildCadenceByChild is the single-key variant: one lookup pass keyed by
// child class, no secondary columns.
func (p *Pipeline) buildCadenceByChild(nodes []string, armt *tabular.Table, n *normalized) *tabular.Table {
	p.statusf("   Building lookup tables...")
	armtLookup := armt.LookupBy(colChildClass)
	outflowLookup := n.outflow.LookupBy(colChildClass)

	out := tabular.New(
		ColChildClassKey,
		ColProgram, ColPolicies, ColParentClasses,
		ColSource, ColDestination, ColRiskScore,
		ColResolvedDate, ColNCCount, ColCadenceScore, ColJSR,
	)

	p.statusf("   Applying lookups...")
	for _, key := range nodes {
		row := tabular.Row{ColChildClassKey: tabular.String(key)}

		row[ColProgram] = lookupVal(armtLookup, key, colProgram)
		row[ColPolicies] = lookupVal(armtLookup, key, colPolicyName)
		row[ColParentClasses] = lookupVal(armtLookup, key, colParentClass)
		row[ColSource] = lookupVal(armtLookup, key, colSource)
		row[ColDestination] = lookupVal(armtLookup, key, colDestination)
		risk := riskOf(lookupVal(armtLookup, key, colParentScore))
		row[ColRiskScore] = tabular.Number(risk)

		row[ColResolvedDate] = tabular.String(lookupVal(outflowLookup, key, colResolvedNorm).RenderDate())
		row[ColNCCount] = ncVal(n.ncByKey, key)

		row[ColCadenceScore] = tabular.Number(float64(cadenceForRisk(risk)))
		row[ColJSR] = jsrFlag(row[ColPolicies])

		out.Append(row)
	}

	p.statusf("%s Cadence created: %d records", p.cfg.Name, out.Len())
	return out
}
